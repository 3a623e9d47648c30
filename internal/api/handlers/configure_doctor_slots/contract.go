package configure_doctor_slots

import (
	"context"

	"github.com/medzap/HMS-BookingService/internal/service/timeslots/models"
)

type TimeSlotService interface {
	ConfigureDoctorSlots(ctx context.Context, doctorID int64, req models.ConfigureSlotsRequest) (models.ConfigureSlotsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
