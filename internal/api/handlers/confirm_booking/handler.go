package confirm_booking

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
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "операция доступна только врачу или администратору"
	msgNotFound           = "бронирование не найдено"
	msgPastBooking        = "дата приёма уже прошла"
	msgAlreadyProcessed   = "бронирование уже обработано"
)

// ConfirmBookingRequest HTTP request model
type ConfirmBookingRequest struct {
	Action string `json:"action"` // "accept" | "reject"
}

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

// Handle PATCH /api/v1/bookings/{bookingId}/confirmation
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/confirmation - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req ConfirmBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/confirmation - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/confirmation - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	role, _ := middleware.GetRole(r.Context())

	// Врач подтверждает только свои бронирования,
	// администратор - любые (без фильтра по врачу)
	var doctorID *int64
	switch role {
	case domain.RoleDoctor:
		doctorID = ptr.Ptr(callerID)
	case domain.RoleAdmin:
		doctorID = nil
	default:
		h.logger.Warn("PATCH /bookings/{id}/confirmation - Forbidden for role %s: user_id=%d", role, callerID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	booking, err := h.service.AcceptOrReject(r.Context(), models.ConfirmBookingRequest{
		BookingID: bookingID,
		DoctorID:  doctorID,
		Action:    req.Action,
	})
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/confirmation - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrPastBooking):
			h.logger.Warn("PATCH /bookings/{id}/confirmation - Past booking: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgPastBooking)

		case errors.Is(err, bookings.ErrAlreadyProcessed):
			h.logger.Warn("PATCH /bookings/{id}/confirmation - Already processed: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgAlreadyProcessed)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id}/confirmation - Invalid input: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("PATCH /bookings/{id}/confirmation - Failed: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/confirmation - Booking %s: booking_id=%d, caller_id=%d",
		booking.Status, bookingID, callerID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
