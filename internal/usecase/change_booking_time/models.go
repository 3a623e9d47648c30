package change_booking_time

import (
	"time"

	"github.com/medzap/HMS-BookingService/internal/domain"
	"github.com/medzap/HMS-BookingService/pkg/types"
)

// Actor вызывающий операцию переноса: роль определяет область видимости
type Actor struct {
	ID   int64
	Role domain.Role
}

// Request модель запроса на перенос бронирования
type Request struct {
	BookingID     int64 // ID бронирования
	NewTimeSlotID int64 // ID нового слота каталога
	Actor         Actor // Кто переносит
}

// Response модель ответа с перенесенным бронированием
type Response struct {
	ID          int64            // ID бронирования
	UserID      int64            // ID пациента
	DoctorID    int64            // ID врача
	TimeSlotID  int64            // ID нового слота
	SlotTime    types.TimeString // Время нового слота
	BookingDate time.Time        // Дата приёма
	Status      string           // Статус бронирования (не меняется)
}
