package list_time_slots

import (
	"context"

	"github.com/medzap/HMS-BookingService/internal/service/timeslots/models"
)

type TimeSlotService interface {
	List(ctx context.Context, page, limit int) ([]models.TimeSlotResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
