package add_time_slots

import (
	"errors"
	"net/http"

	"github.com/medzap/HMS-BookingService/internal/api/handlers"
	"github.com/medzap/HMS-BookingService/internal/api/middleware"
	"github.com/medzap/HMS-BookingService/internal/domain"
	"github.com/medzap/HMS-BookingService/internal/service/timeslots"
	"github.com/medzap/HMS-BookingService/internal/service/timeslots/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "операция доступна только администратору"
	msgNoNewSlots         = "все указанные времена уже есть в каталоге"
)

type Handler struct {
	service TimeSlotService
	logger  Logger
}

func NewHandler(service TimeSlotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/timeslots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.AddTimesRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /timeslots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /timeslots - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Каталог слотов единый на весь сервис, пополняет его администратор
	role, _ := middleware.GetRole(r.Context())
	if role != domain.RoleAdmin {
		h.logger.Warn("POST /timeslots - Forbidden for role %s: user_id=%d", role, callerID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	result, err := h.service.AddTimes(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, timeslots.ErrNoNewSlots):
			h.logger.Warn("POST /timeslots - No new slots: user_id=%d", callerID)
			handlers.RespondError(w, http.StatusConflict, msgNoNewSlots)

		case errors.Is(err, timeslots.ErrInvalidInput):
			h.logger.Warn("POST /timeslots - Invalid input: user_id=%d, error=%v", callerID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /timeslots - Failed: user_id=%d, error=%v", callerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /timeslots - Created %d slots: user_id=%d", len(result), callerID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
