package get_doctor_slots

import (
	"context"

	timeslotModels "github.com/medzap/HMS-BookingService/internal/service/timeslots/models"
	getAvailableSlots "github.com/medzap/HMS-BookingService/internal/usecase/get_available_slots"
)

// AvailableSlotsUseCase считает свободные слоты на дату по набору,
// настроенному самим врачом
type AvailableSlotsUseCase interface {
	ExecuteForDoctorConfig(ctx context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error)
}

// TimeSlotService отдает полный настроенный набор врача
type TimeSlotService interface {
	GetDoctorConfiguredSlots(ctx context.Context, doctorID int64) ([]timeslotModels.TimeSlotResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
