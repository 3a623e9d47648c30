package add_history

import (
	"context"

	"github.com/medzap/HMS-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	AddHistory(ctx context.Context, req models.AddHistoryRequest) (models.HistoryResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
