package grant_leave

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/medzap/HMS-BookingService/internal/api/handlers"
	"github.com/medzap/HMS-BookingService/internal/api/middleware"
	"github.com/medzap/HMS-BookingService/internal/domain"
	grantLeave "github.com/medzap/HMS-BookingService/internal/usecase/grant_leave"
)

const (
	msgInvalidDoctorID    = "некорректный ID врача"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "доступ запрещен"
	msgDoctorNotFound     = "врач не найден"
	msgInvalidLeaveType   = "неизвестный тип отсутствия"
	msgInvalidDateRange   = "некорректный диапазон дат"
	msgInvalidCustomLeave = "некорректный список слотов"
	msgLeaveExists        = "отсутствие на эти даты уже оформлено"
)

type Handler struct {
	useCase GrantLeaveUseCase
	logger  Logger
}

func NewHandler(useCase GrantLeaveUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/doctors/{doctorId}/leaves
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	doctorID, err := strconv.ParseInt(vars["doctorId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /doctors/{id}/leaves - Invalid doctor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDoctorID)
		return
	}

	var req GrantLeaveRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /doctors/{id}/leaves - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /doctors/{id}/leaves - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Отсутствие оформляет сам врач или администратор
	role, _ := middleware.GetRole(r.Context())
	if !(role == domain.RoleAdmin || (role == domain.RoleDoctor && callerID == doctorID)) {
		h.logger.Warn("POST /doctors/{id}/leaves - Forbidden: doctor_id=%d, caller_id=%d, role=%s", doctorID, callerID, role)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(doctorID)
	if err != nil {
		h.logger.Warn("POST /doctors/{id}/leaves - Failed to parse dates: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, grantLeave.ErrDoctorNotFound):
			h.logger.Warn("POST /doctors/{id}/leaves - Doctor not found: doctor_id=%d", doctorID)
			handlers.RespondNotFound(w, msgDoctorNotFound)

		case errors.Is(err, grantLeave.ErrInvalidLeaveType):
			h.logger.Warn("POST /doctors/{id}/leaves - Invalid leave type: doctor_id=%d, type=%d", doctorID, req.Type)
			handlers.RespondBadRequest(w, msgInvalidLeaveType)

		case errors.Is(err, grantLeave.ErrInvalidDateRange):
			h.logger.Warn("POST /doctors/{id}/leaves - Invalid date range: doctor_id=%d", doctorID)
			handlers.RespondBadRequest(w, msgInvalidDateRange)

		case errors.Is(err, grantLeave.ErrInvalidCustomLeave):
			h.logger.Warn("POST /doctors/{id}/leaves - Invalid custom slot list: doctor_id=%d", doctorID)
			handlers.RespondBadRequest(w, msgInvalidCustomLeave)

		case errors.Is(err, grantLeave.ErrLeaveExists):
			h.logger.Warn("POST /doctors/{id}/leaves - Leave exists: doctor_id=%d", doctorID)
			handlers.RespondError(w, http.StatusConflict, msgLeaveExists)

		case errors.Is(err, grantLeave.ErrInvalidInput):
			h.logger.Warn("POST /doctors/{id}/leaves - Invalid input: doctor_id=%d, error=%v", doctorID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /doctors/{id}/leaves - Failed: doctor_id=%d, error=%v", doctorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /doctors/{id}/leaves - Leave granted: doctor_id=%d, slots=%d, canceled=%d",
		doctorID, len(result.SlotIDs), len(result.CanceledBookings))
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
