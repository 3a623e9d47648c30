package cancel_booking

import (
	"context"

	"github.com/medzap/HMS-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	CancelApproved(ctx context.Context, bookingID int64, doctorID *int64) (models.BookingResponse, error)
	CancelOwn(ctx context.Context, bookingID, userID int64) (models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
