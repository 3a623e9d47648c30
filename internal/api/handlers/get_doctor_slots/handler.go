package get_doctor_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/medzap/HMS-BookingService/internal/api/handlers"
	"github.com/medzap/HMS-BookingService/internal/api/middleware"
	"github.com/medzap/HMS-BookingService/internal/domain"
	getAvailableSlots "github.com/medzap/HMS-BookingService/internal/usecase/get_available_slots"
)

const (
	msgInvalidDoctorID = "некорректный ID врача"
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingUserID   = "отсутствует ID пользователя"
	msgForbidden       = "доступ запрещен"
	msgDoctorNotFound  = "врач не найден"
	msgDateInPast      = "дата уже прошла"
)

// SlotResponse слот в HTTP ответе
type SlotResponse struct {
	ID   int64  `json:"id"`
	Time string `json:"time"`
}

// DoctorSlotsResponse HTTP response model
type DoctorSlotsResponse struct {
	DoctorID int64          `json:"doctorId"`
	Date     string         `json:"date,omitempty"`
	Slots    []SlotResponse `json:"slots"`
}

type Handler struct {
	useCase AvailableSlotsUseCase
	service TimeSlotService
	logger  Logger
}

func NewHandler(useCase AvailableSlotsUseCase, service TimeSlotService, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/doctors/{doctorId}/slots?date=YYYY-MM-DD
// С параметром date - свободные слоты врача на дату (для планирования
// отсутствия), без него - весь настроенный набор
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	doctorID, err := strconv.ParseInt(vars["doctorId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /doctors/{id}/slots - Invalid doctor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDoctorID)
		return
	}

	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /doctors/{id}/slots - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	role, _ := middleware.GetRole(r.Context())
	if !(role == domain.RoleAdmin || (role == domain.RoleDoctor && callerID == doctorID)) {
		h.logger.Warn("GET /doctors/{id}/slots - Forbidden: doctor_id=%d, caller_id=%d, role=%s", doctorID, callerID, role)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	rawDate := r.URL.Query().Get("date")
	if rawDate == "" {
		h.handleConfigured(w, r, doctorID)
		return
	}

	date, err := time.Parse(domain.DateFormat, rawDate)
	if err != nil {
		h.logger.Warn("GET /doctors/{id}/slots - Invalid date %q: %v", rawDate, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.ExecuteForDoctorConfig(r.Context(), &getAvailableSlots.Request{
		DoctorID: doctorID,
		Date:     date,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrDoctorNotFound):
			h.logger.Warn("GET /doctors/{id}/slots - Doctor not found: doctor_id=%d", doctorID)
			handlers.RespondNotFound(w, msgDoctorNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			h.logger.Warn("GET /doctors/{id}/slots - Date in past: doctor_id=%d, date=%s", doctorID, rawDate)
			handlers.RespondBadRequest(w, msgDateInPast)

		default:
			h.logger.Error("GET /doctors/{id}/slots - Failed: doctor_id=%d, error=%v", doctorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	slots := make([]SlotResponse, 0, len(result.Slots))
	for _, slot := range result.Slots {
		slots = append(slots, SlotResponse{ID: slot.ID, Time: slot.Time.String()})
	}

	h.logger.Info("GET /doctors/{id}/slots - %d slots available: doctor_id=%d, date=%s",
		len(slots), doctorID, rawDate)
	handlers.RespondJSON(w, http.StatusOK, &DoctorSlotsResponse{
		DoctorID: doctorID,
		Date:     rawDate,
		Slots:    slots,
	})
}

func (h *Handler) handleConfigured(w http.ResponseWriter, r *http.Request, doctorID int64) {
	configured, err := h.service.GetDoctorConfiguredSlots(r.Context(), doctorID)
	if err != nil {
		h.logger.Error("GET /doctors/{id}/slots - Failed to get configured slots: doctor_id=%d, error=%v", doctorID, err)
		handlers.RespondInternalError(w)
		return
	}

	slots := make([]SlotResponse, 0, len(configured))
	for _, slot := range configured {
		slots = append(slots, SlotResponse{ID: slot.ID, Time: slot.Time})
	}

	h.logger.Info("GET /doctors/{id}/slots - %d configured slots: doctor_id=%d", len(slots), doctorID)
	handlers.RespondJSON(w, http.StatusOK, &DoctorSlotsResponse{
		DoctorID: doctorID,
		Slots:    slots,
	})
}
