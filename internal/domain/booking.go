package domain

import "time"

// BookingStatus статус бронирования приёма
// Числовые коды стабильны и хранятся в БД
type BookingStatus int16

const (
	StatusPending  BookingStatus = 1
	StatusAccepted BookingStatus = 2
	StatusRejected BookingStatus = 3
	StatusCanceled BookingStatus = 4
)

// String возвращает строковое представление статуса для логов и API
func (s BookingStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusAccepted:
		return "accepted"
	case StatusRejected:
		return "rejected"
	case StatusCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// IsValid проверяет, что код статуса известен
func (s BookingStatus) IsValid() bool {
	return s >= StatusPending && s <= StatusCanceled
}

// StatusFromString разбирает строковое представление статуса
// Используется для query-параметров API
func StatusFromString(s string) (BookingStatus, bool) {
	switch s {
	case "pending":
		return StatusPending, true
	case "accepted":
		return StatusAccepted, true
	case "rejected":
		return StatusRejected, true
	case "canceled":
		return StatusCanceled, true
	default:
		return 0, false
	}
}

// Booking бронирование приёма: пользователь + врач + слот + дата
type Booking struct {
	ID          int64
	DoctorID    int64
	UserID      int64
	TimeSlotID  int64
	BookingDate time.Time
	Price       float64
	Status      BookingStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive возвращает true, если бронирование занимает слот
// Только PENDING и ACCEPTED бронирования блокируют слот для других
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusAccepted
}

// IsTerminal возвращает true для конечных статусов
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusRejected || b.Status == StatusCanceled
}

// CanBeCancelled возвращает true, если бронирование можно отменить
// Отмене подлежат только подтвержденные бронирования
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusAccepted
}

// CanBeRescheduled возвращает true, если бронированию можно сменить слот
func (b *Booking) CanBeRescheduled() bool {
	return b.Status == StatusPending || b.Status == StatusAccepted
}

// DoctorBookingsFilter фильтр для получения бронирований врача
type DoctorBookingsFilter struct {
	DoctorID  int64          // Обязательный параметр
	StartDate *time.Time     // Начало периода (опционально)
	EndDate   *time.Time     // Конец периода (опционально)
	Status    *BookingStatus // Фильтр по статусу (опционально)
	Page      int            // Номер страницы, начиная с 1; 0 - без пагинации
	Limit     int            // Размер страницы
}
