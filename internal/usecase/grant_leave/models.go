package grant_leave

import (
	"time"

	"github.com/medzap/HMS-BookingService/internal/domain"
)

// Request модель запроса на оформление отсутствия врача
type Request struct {
	DoctorID    int64            // ID врача
	Type        domain.LeaveType // Тип отсутствия
	StartDate   time.Time        // Первый день (включительно)
	EndDate     time.Time        // Последний день (включительно)
	TimeSlotIDs []int64          // Явный список слотов, только для CUSTOM
}

// Response модель ответа с результатом оформления
type Response struct {
	DoctorID         int64     // ID врача
	StartDate        time.Time // Первый день
	EndDate          time.Time // Последний день
	SlotIDs          []int64   // Слоты, закрытые отсутствием
	CanceledBookings []int64   // Отмененные каскадом бронирования
}
