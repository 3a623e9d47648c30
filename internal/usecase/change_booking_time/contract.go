package change_booking_time

import (
	"context"
	"time"

	"github.com/medzap/HMS-BookingService/internal/domain"
	"github.com/medzap/HMS-BookingService/internal/integrations/notifyservice"
	"github.com/medzap/HMS-BookingService/internal/integrations/staffservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	FindActive(ctx context.Context, doctorID, timeSlotID int64, date time.Time, excludeID *int64) ([]*domain.Booking, error)
	UpdateSlot(ctx context.Context, id int64, timeSlotID int64) error
}

// TimeSlotRepository интерфейс каталога слотов
type TimeSlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error)
}

// LeaveRepository интерфейс репозитория отпусков
type LeaveRepository interface {
	FindActiveCovering(ctx context.Context, doctorID, timeSlotID int64, date time.Time) ([]*domain.Leave, error)
}

// StaffServiceClient интерфейс клиента для StaffService
type StaffServiceClient interface {
	GetDoctor(ctx context.Context, doctorID int64) (*staffservice.Doctor, error)
	GetHospital(ctx context.Context, hospitalID int64) (*staffservice.Hospital, error)
	GetUser(ctx context.Context, userID int64) (*staffservice.User, error)
}

// NotifyServiceClient интерфейс клиента для NotifyService
type NotifyServiceClient interface {
	BookingRescheduled(ctx context.Context, notification notifyservice.BookingNotification) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
