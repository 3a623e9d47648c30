package add_time_slots

import (
	"context"

	"github.com/medzap/HMS-BookingService/internal/service/timeslots/models"
)

type TimeSlotService interface {
	AddTimes(ctx context.Context, req models.AddTimesRequest) ([]models.TimeSlotResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
