package add_history

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
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "операция доступна только врачу"
	msgNotFound           = "бронирование не найдено"
	msgInvalidBooking     = "запись недоступна для этого бронирования"
	msgTooEarly           = "запись можно создать не раньше дня приёма"
	msgDuplicateHistory   = "запись по этому приёму уже существует"
)

// AddHistoryRequest HTTP request model
type AddHistoryRequest struct {
	Reason       string `json:"reason"`
	Prescription string `json:"prescription,omitempty"`
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

// Handle POST /api/v1/bookings/{bookingId}/history
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/history - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req AddHistoryRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/history - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/history - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	role, _ := middleware.GetRole(r.Context())
	if role != domain.RoleDoctor {
		h.logger.Warn("POST /bookings/{id}/history - Forbidden for role %s: user_id=%d", role, callerID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	history, err := h.service.AddHistory(r.Context(), models.AddHistoryRequest{
		BookingID:    bookingID,
		DoctorID:     callerID,
		Reason:       req.Reason,
		Prescription: req.Prescription,
	})
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/history - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrInvalidBooking):
			h.logger.Warn("POST /bookings/{id}/history - Invalid booking: booking_id=%d, doctor_id=%d", bookingID, callerID)
			handlers.RespondBadRequest(w, msgInvalidBooking)

		case errors.Is(err, bookings.ErrTooEarly):
			h.logger.Warn("POST /bookings/{id}/history - Too early: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgTooEarly)

		case errors.Is(err, bookings.ErrDuplicateHistory):
			h.logger.Warn("POST /bookings/{id}/history - Duplicate: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgDuplicateHistory)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("POST /bookings/{id}/history - Invalid input: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /bookings/{id}/history - Failed: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/history - History created: history_id=%d, booking_id=%d, doctor_id=%d",
		history.ID, bookingID, callerID)
	handlers.RespondJSON(w, http.StatusCreated, history)
}
