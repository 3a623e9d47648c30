package configure_doctor_slots

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
	msgInvalidDoctorID    = "некорректный ID врача"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "доступ запрещен"
	msgDoctorNotFound     = "врач не найден"
	msgSlotNotFound       = "временной слот не найден"
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

// Handle PUT /api/v1/doctors/{doctorId}/timeslots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	doctorID, err := strconv.ParseInt(vars["doctorId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /doctors/{id}/timeslots - Invalid doctor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDoctorID)
		return
	}

	var req models.ConfigureSlotsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /doctors/{id}/timeslots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /doctors/{id}/timeslots - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Набор настраивает сам врач или администратор
	role, _ := middleware.GetRole(r.Context())
	if !(role == domain.RoleAdmin || (role == domain.RoleDoctor && callerID == doctorID)) {
		h.logger.Warn("PUT /doctors/{id}/timeslots - Forbidden: doctor_id=%d, caller_id=%d, role=%s", doctorID, callerID, role)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	result, err := h.service.ConfigureDoctorSlots(r.Context(), doctorID, req)
	if err != nil {
		switch {
		case errors.Is(err, timeslots.ErrDoctorNotFound):
			h.logger.Warn("PUT /doctors/{id}/timeslots - Doctor not found: doctor_id=%d", doctorID)
			handlers.RespondNotFound(w, msgDoctorNotFound)

		case errors.Is(err, timeslots.ErrSlotNotFound):
			h.logger.Warn("PUT /doctors/{id}/timeslots - Slot not found: doctor_id=%d, error=%v", doctorID, err)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, timeslots.ErrInvalidInput):
			h.logger.Warn("PUT /doctors/{id}/timeslots - Invalid input: doctor_id=%d, error=%v", doctorID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("PUT /doctors/{id}/timeslots - Failed: doctor_id=%d, error=%v", doctorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /doctors/{id}/timeslots - Configured: doctor_id=%d, added=%d, removed=%d",
		doctorID, len(result.Added), len(result.Removed))
	handlers.RespondJSON(w, http.StatusOK, result)
}
