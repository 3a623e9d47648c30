package change_booking_time

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/medzap/HMS-BookingService/internal/api/handlers"
	"github.com/medzap/HMS-BookingService/internal/api/middleware"
	"github.com/medzap/HMS-BookingService/internal/domain"
	changeBookingTime "github.com/medzap/HMS-BookingService/internal/usecase/change_booking_time"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "бронирование не найдено"
	msgSlotNotFound       = "временной слот не найден"
	msgSlotTaken          = "выбранный временной слот недоступен"
	msgPastSlot           = "время слота уже прошло"
)

// ChangeTimeRequest HTTP request model
type ChangeTimeRequest struct {
	NewTimeSlotID int64 `json:"newTimeSlotId"`
}

// ChangeTimeResponse HTTP response model
type ChangeTimeResponse struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"userId"`
	DoctorID    int64  `json:"doctorId"`
	TimeSlotID  int64  `json:"timeSlotId"`
	SlotTime    string `json:"slotTime"`
	BookingDate string `json:"bookingDate"`
	Status      string `json:"status"`
}

type Handler struct {
	useCase ChangeBookingTimeUseCase
	logger  Logger
}

func NewHandler(useCase ChangeBookingTimeUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/time
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/time - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req ChangeTimeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/time - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/time - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	role, _ := middleware.GetRole(r.Context())

	result, err := h.useCase.Execute(r.Context(), &changeBookingTime.Request{
		BookingID:     bookingID,
		NewTimeSlotID: req.NewTimeSlotID,
		Actor: changeBookingTime.Actor{
			ID:   callerID,
			Role: role,
		},
	})
	if err != nil {
		switch {
		case errors.Is(err, changeBookingTime.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/time - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, changeBookingTime.ErrSlotNotFound):
			h.logger.Warn("PATCH /bookings/{id}/time - Slot not found: slot_id=%d", req.NewTimeSlotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, changeBookingTime.ErrSlotTaken):
			h.logger.Warn("PATCH /bookings/{id}/time - Slot taken: booking_id=%d, slot_id=%d", bookingID, req.NewTimeSlotID)
			handlers.RespondError(w, http.StatusConflict, msgSlotTaken)

		case errors.Is(err, changeBookingTime.ErrPastSlot):
			h.logger.Warn("PATCH /bookings/{id}/time - Past slot: booking_id=%d, slot_id=%d", bookingID, req.NewTimeSlotID)
			handlers.RespondBadRequest(w, msgPastSlot)

		case errors.Is(err, changeBookingTime.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id}/time - Invalid input: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("PATCH /bookings/{id}/time - Failed: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/time - Booking moved: booking_id=%d, slot_id=%d, caller_id=%d",
		bookingID, req.NewTimeSlotID, callerID)
	handlers.RespondJSON(w, http.StatusOK, &ChangeTimeResponse{
		ID:          result.ID,
		UserID:      result.UserID,
		DoctorID:    result.DoctorID,
		TimeSlotID:  result.TimeSlotID,
		SlotTime:    result.SlotTime.String(),
		BookingDate: result.BookingDate.Format(domain.DateFormat),
		Status:      result.Status,
	})
}
