package create_booking

import (
	"time"

	"github.com/medzap/HMS-BookingService/internal/domain"
	createBooking "github.com/medzap/HMS-BookingService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	DoctorID    int64  `json:"doctorId"`
	TimeSlotID  int64  `json:"timeSlotId"`
	BookingDate string `json:"bookingDate"` // "2025-10-15"
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID          int64   `json:"id"`
	UserID      int64   `json:"userId"`
	DoctorID    int64   `json:"doctorId"`
	TimeSlotID  int64   `json:"timeSlotId"`
	SlotTime    string  `json:"slotTime"`
	BookingDate string  `json:"bookingDate"`
	Price       float64 `json:"price"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64) (*createBooking.Request, error) {
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		UserID:     userID,
		DoctorID:   r.DoctorID,
		TimeSlotID: r.TimeSlotID,
		Date:       bookingDate,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:          resp.ID,
		UserID:      resp.UserID,
		DoctorID:    resp.DoctorID,
		TimeSlotID:  resp.TimeSlotID,
		SlotTime:    resp.SlotTime.String(),
		BookingDate: resp.BookingDate.Format(domain.DateFormat),
		Price:       resp.Price,
		Status:      resp.Status,
		CreatedAt:   resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   resp.UpdatedAt.Format(time.RFC3339),
	}
}
