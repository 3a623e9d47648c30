package models

import (
	"time"

	"github.com/medzap/HMS-BookingService/internal/domain"
	"github.com/medzap/HMS-BookingService/pkg/types"
)

const (
	// ActionAccept - подтверждение бронирования врачом
	ActionAccept = "accept"
	// ActionReject - отклонение бронирования врачом
	ActionReject = "reject"
)

// BookingResponse - представление бронирования для выдачи наружу
type BookingResponse struct {
	ID          int64   `json:"id"`
	DoctorID    int64   `json:"doctor_id"`
	UserID      int64   `json:"user_id"`
	TimeSlotID  int64   `json:"time_slot_id"`
	SlotTime    string  `json:"slot_time,omitempty"`
	BookingDate string  `json:"booking_date"`
	Price       float64 `json:"price"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// NewBookingResponse строит BookingResponse из доменной модели
func NewBookingResponse(booking *domain.Booking, slotTime types.TimeString) BookingResponse {
	return BookingResponse{
		ID:          booking.ID,
		DoctorID:    booking.DoctorID,
		UserID:      booking.UserID,
		TimeSlotID:  booking.TimeSlotID,
		SlotTime:    slotTime.String(),
		BookingDate: booking.BookingDate.Format(domain.DateFormat),
		Price:       booking.Price,
		Status:      booking.Status.String(),
		CreatedAt:   booking.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   booking.UpdatedAt.Format(time.RFC3339),
	}
}

// ConfirmBookingRequest - запрос врача на подтверждение или отклонение
type ConfirmBookingRequest struct {
	BookingID int64
	// DoctorID ограничивает область видимости: nil для администратора
	DoctorID *int64
	Action   string
}

// IsValid проверяет корректность запроса
func (r ConfirmBookingRequest) IsValid() bool {
	if r.BookingID <= 0 {
		return false
	}

	return r.Action == ActionAccept || r.Action == ActionReject
}

// GetUserBookingsRequest - запрос списка бронирований пациента
type GetUserBookingsRequest struct {
	UserID int64
	Status *domain.BookingStatus
}

// GetDoctorBookingsRequest - запрос расписания врача с фильтрами
type GetDoctorBookingsRequest struct {
	DoctorID  int64
	StartDate *time.Time
	EndDate   *time.Time
	Status    *domain.BookingStatus
	Page      int
	Limit     int
}

// ToFilter переводит запрос в фильтр хранилища
func (r GetDoctorBookingsRequest) ToFilter() domain.DoctorBookingsFilter {
	limit := r.Limit
	if limit <= 0 {
		limit = domain.DefaultPageLimit
	}
	if limit > domain.MaxPageLimit {
		limit = domain.MaxPageLimit
	}

	page := r.Page
	if page <= 0 {
		page = 1
	}

	return domain.DoctorBookingsFilter{
		DoctorID:  r.DoctorID,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		Status:    r.Status,
		Page:      page,
		Limit:     limit,
	}
}

// AddHistoryRequest - запрос врача на добавление диагностической записи
type AddHistoryRequest struct {
	BookingID    int64
	DoctorID     int64
	Reason       string
	Prescription string
}

// IsValid проверяет корректность запроса
func (r AddHistoryRequest) IsValid() bool {
	return r.BookingID > 0 && r.DoctorID > 0 && r.Reason != ""
}

// HistoryResponse - представление диагностической записи
type HistoryResponse struct {
	ID           int64  `json:"id"`
	BookingID    int64  `json:"booking_id"`
	Reason       string `json:"reason"`
	Prescription string `json:"prescription,omitempty"`
	CreatedAt    string `json:"created_at"`
}

// NewHistoryResponse строит HistoryResponse из доменной модели
func NewHistoryResponse(history *domain.History) HistoryResponse {
	return HistoryResponse{
		ID:           history.ID,
		BookingID:    history.BookingID,
		Reason:       history.Reason,
		Prescription: history.Prescription,
		CreatedAt:    history.CreatedAt.Format(time.RFC3339),
	}
}
