package bookings

import (
	"context"
	"time"

	"github.com/medzap/HMS-BookingService/internal/domain"
	"github.com/medzap/HMS-BookingService/internal/integrations/notifyservice"
	"github.com/medzap/HMS-BookingService/internal/integrations/staffservice"
)

// BookingRepository - интерфейс для работы с хранилищем бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByDoctorWithFilter(ctx context.Context, filter domain.DoctorBookingsFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
}

// TimeSlotRepository - интерфейс для чтения каталога слотов
type TimeSlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*domain.TimeSlot, error)
}

// HistoryRepository - интерфейс для работы с диагностическими записями
type HistoryRepository interface {
	Create(ctx context.Context, history *domain.History) (*domain.History, error)
	GetByBookingID(ctx context.Context, bookingID int64) (*domain.History, error)
	ListByDoctorID(ctx context.Context, doctorID int64, page, limit int) ([]*domain.History, error)
}

// StaffClient - интерфейс для получения данных о врачах, больницах и пациентах
type StaffClient interface {
	GetDoctor(ctx context.Context, doctorID int64) (*staffservice.Doctor, error)
	GetHospital(ctx context.Context, hospitalID int64) (*staffservice.Hospital, error)
	GetUser(ctx context.Context, userID int64) (*staffservice.User, error)
}

// NotifyClient - интерфейс для отправки почтовых уведомлений
type NotifyClient interface {
	BookingAccepted(ctx context.Context, notification notifyservice.BookingNotification) error
	BookingRejected(ctx context.Context, notification notifyservice.BookingNotification) error
	BookingCanceled(ctx context.Context, notification notifyservice.BookingNotification) error
}

// TimeProvider - интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger - интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider - реализация TimeProvider на системных часах
type RealTimeProvider struct{}

func (RealTimeProvider) Now() time.Time {
	return time.Now()
}
