package get_available_slots

import (
	"context"
	"time"

	"github.com/medzap/HMS-BookingService/internal/domain"
	"github.com/medzap/HMS-BookingService/internal/integrations/staffservice"
)

// TimeSlotRepository интерфейс каталога слотов
type TimeSlotRepository interface {
	ListActive(ctx context.Context, page, limit int) ([]*domain.TimeSlot, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*domain.TimeSlot, error)
	GetDoctorSlotIDs(ctx context.Context, doctorID int64) ([]int64, error)
}

// LeaveRepository интерфейс репозитория отпусков
type LeaveRepository interface {
	GetActiveSlotIDsByDate(ctx context.Context, doctorID int64, date time.Time) ([]int64, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetActiveSlotIDsByDate(ctx context.Context, doctorID int64, date time.Time) ([]int64, error)
}

// StaffServiceClient интерфейс клиента для StaffService
type StaffServiceClient interface {
	GetDoctor(ctx context.Context, doctorID int64) (*staffservice.Doctor, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
