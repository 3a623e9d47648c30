package change_booking_time

import (
	"context"

	changeBookingTime "github.com/medzap/HMS-BookingService/internal/usecase/change_booking_time"
)

type ChangeBookingTimeUseCase interface {
	Execute(ctx context.Context, req *changeBookingTime.Request) (*changeBookingTime.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
