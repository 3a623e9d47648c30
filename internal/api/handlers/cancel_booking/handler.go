package cancel_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/medzap/HMS-BookingService/internal/api/handlers"
	"github.com/medzap/HMS-BookingService/internal/api/middleware"
	"github.com/medzap/HMS-BookingService/internal/domain"
	"github.com/medzap/HMS-BookingService/internal/service/bookings"
	"github.com/medzap/HMS-BookingService/internal/service/bookings/models"
	"github.com/medzap/HMS-BookingService/pkg/ptr"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgForbidden        = "доступ запрещен"
	msgNotFound         = "бронирование не найдено"
	msgAlreadyCanceled  = "бронирование уже отменено"
	msgAlreadyRejected  = "бронирование уже отклонено"
	msgDatePassed       = "дата приёма уже прошла"
	msgNotCancelable    = "отменить можно только подтвержденное бронирование"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	role, _ := middleware.GetRole(r.Context())

	// Пациент отменяет свое бронирование с проверкой принадлежности,
	// врач - только свои, администратор - любые
	var booking models.BookingResponse
	switch role {
	case domain.RoleUser:
		booking, err = h.service.CancelOwn(r.Context(), bookingID, callerID)
	case domain.RoleDoctor:
		booking, err = h.service.CancelApproved(r.Context(), bookingID, ptr.Ptr(callerID))
	case domain.RoleAdmin:
		booking, err = h.service.CancelApproved(r.Context(), bookingID, nil)
	default:
		h.logger.Warn("PATCH /bookings/{id}/cancel - Forbidden for role %s: user_id=%d", role, callerID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Foreign booking: booking_id=%d, user_id=%d", bookingID, callerID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrAlreadyCanceled):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Already canceled: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgAlreadyCanceled)

		case errors.Is(err, bookings.ErrAlreadyRejected):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Already rejected: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgAlreadyRejected)

		case errors.Is(err, bookings.ErrDatePassed):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Date passed: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgDatePassed)

		case errors.Is(err, bookings.ErrNotCancelable):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Not cancelable: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgNotCancelable)

		default:
			h.logger.Error("PATCH /bookings/{id}/cancel - Failed: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/cancel - Booking canceled: booking_id=%d, caller_id=%d",
		bookingID, callerID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
