package get_doctor_bookings

import (
	"context"

	"github.com/medzap/HMS-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	GetDoctorBookings(ctx context.Context, req models.GetDoctorBookingsRequest) ([]models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
