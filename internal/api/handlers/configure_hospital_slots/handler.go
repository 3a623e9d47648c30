package configure_hospital_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/medzap/HMS-BookingService/internal/api/handlers"
	"github.com/medzap/HMS-BookingService/internal/api/middleware"
	"github.com/medzap/HMS-BookingService/internal/domain"
	"github.com/medzap/HMS-BookingService/internal/service/timeslots"
	"github.com/medzap/HMS-BookingService/internal/service/timeslots/models"
)

const (
	msgInvalidHospitalID  = "некорректный ID больницы"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "операция доступна только администратору"
	msgHospitalNotFound   = "больница не найдена"
	msgSlotNotFound       = "временной слот не найден"
	msgSlotInUse          = "слот используется врачами больницы"
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

// Handle PUT /api/v1/hospitals/{hospitalId}/timeslots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	hospitalID, err := strconv.ParseInt(vars["hospitalId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /hospitals/{id}/timeslots - Invalid hospital ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidHospitalID)
		return
	}

	var req models.ConfigureSlotsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /hospitals/{id}/timeslots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /hospitals/{id}/timeslots - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	role, _ := middleware.GetRole(r.Context())
	if role != domain.RoleAdmin {
		h.logger.Warn("PUT /hospitals/{id}/timeslots - Forbidden for role %s: user_id=%d", role, callerID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	result, err := h.service.ConfigureHospitalSlots(r.Context(), hospitalID, req)
	if err != nil {
		switch {
		case errors.Is(err, timeslots.ErrHospitalNotFound):
			h.logger.Warn("PUT /hospitals/{id}/timeslots - Hospital not found: hospital_id=%d", hospitalID)
			handlers.RespondNotFound(w, msgHospitalNotFound)

		case errors.Is(err, timeslots.ErrSlotNotFound):
			h.logger.Warn("PUT /hospitals/{id}/timeslots - Slot not found: hospital_id=%d, error=%v", hospitalID, err)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, timeslots.ErrSlotInUse):
			h.logger.Warn("PUT /hospitals/{id}/timeslots - Slot in use: hospital_id=%d, error=%v", hospitalID, err)
			handlers.RespondError(w, http.StatusConflict, msgSlotInUse)

		case errors.Is(err, timeslots.ErrInvalidInput):
			h.logger.Warn("PUT /hospitals/{id}/timeslots - Invalid input: hospital_id=%d, error=%v", hospitalID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("PUT /hospitals/{id}/timeslots - Failed: hospital_id=%d, error=%v", hospitalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /hospitals/{id}/timeslots - Configured: hospital_id=%d, added=%d, removed=%d",
		hospitalID, len(result.Added), len(result.Removed))
	handlers.RespondJSON(w, http.StatusOK, result)
}
