package grant_leave

import (
	"context"
	"time"

	"github.com/medzap/HMS-BookingService/internal/domain"
	"github.com/medzap/HMS-BookingService/internal/integrations/notifyservice"
	"github.com/medzap/HMS-BookingService/internal/integrations/staffservice"
)

// TimeSlotRepository интерфейс каталога слотов
type TimeSlotRepository interface {
	ListActive(ctx context.Context, page, limit int) ([]*domain.TimeSlot, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*domain.TimeSlot, error)
}

// LeaveRepository интерфейс репозитория отпусков
type LeaveRepository interface {
	GetActiveSlotIDsByRange(ctx context.Context, doctorID int64, startDate, endDate time.Time) ([]int64, error)
	InsertMany(ctx context.Context, leaves []*domain.Leave) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetAcceptedInRange(ctx context.Context, doctorID int64, slotIDs []int64, from, to time.Time) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
}

// StaffServiceClient интерфейс клиента для StaffService
type StaffServiceClient interface {
	GetDoctor(ctx context.Context, doctorID int64) (*staffservice.Doctor, error)
	GetHospital(ctx context.Context, hospitalID int64) (*staffservice.Hospital, error)
	GetUser(ctx context.Context, userID int64) (*staffservice.User, error)
}

// NotifyServiceClient интерфейс клиента для NotifyService
type NotifyServiceClient interface {
	BookingCanceled(ctx context.Context, notification notifyservice.BookingNotification) error
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
