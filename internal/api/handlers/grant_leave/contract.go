package grant_leave

import (
	"context"

	grantLeave "github.com/medzap/HMS-BookingService/internal/usecase/grant_leave"
)

type GrantLeaveUseCase interface {
	Execute(ctx context.Context, req *grantLeave.Request) (*grantLeave.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
