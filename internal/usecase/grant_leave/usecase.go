package grant_leave

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/medzap/HMS-BookingService/internal/domain"
	"github.com/medzap/HMS-BookingService/internal/integrations/notifyservice"
	staffClient "github.com/medzap/HMS-BookingService/internal/integrations/staffservice"
	"github.com/medzap/HMS-BookingService/pkg/types"
)

// cancellationReason попадает в письмо пациенту при каскадной отмене
const cancellationReason = "Врач недоступен в выбранную дату"

// UseCase use case для оформления отсутствия врача.
// Подтвержденные бронирования, попавшие под отсутствие, отменяются
// каскадом в той же транзакции; письма уходят после коммита
type UseCase struct {
	slotRepo     TimeSlotRepository
	leaveRepo    LeaveRepository
	bookingRepo  BookingRepository
	staffClient  StaffServiceClient
	notifyClient NotifyServiceClient
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo TimeSlotRepository,
	leaveRepo LeaveRepository,
	bookingRepo BookingRepository,
	staffClient StaffServiceClient,
	notifyClient NotifyServiceClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:     slotRepo,
		leaveRepo:    leaveRepo,
		bookingRepo:  bookingRepo,
		staffClient:  staffClient,
		notifyClient: notifyClient,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case оформления отсутствия
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GrantLeave: doctor=%d, type=%d, range=%s..%s",
		req.DoctorID, req.Type, req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := uc.validate(req); err != nil {
		uc.logger.Warn("GrantLeave: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем, что врач существует
	doctor, err := uc.staffClient.GetDoctor(ctx, req.DoctorID)
	if err != nil {
		if errors.Is(err, staffClient.ErrDoctorNotFound) {
			uc.logger.Warn("GrantLeave: doctor id=%d not found", req.DoctorID)
			return nil, ErrDoctorNotFound
		}
		uc.logger.Error("GrantLeave: failed to get doctor id=%d: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: failed to get doctor: %v", ErrInternal, err)
	}

	// 3. Разворачиваем тип отсутствия в набор слотов каталога
	slots, err := uc.resolveSlots(ctx, req)
	if err != nil {
		return nil, err
	}

	slotIDs := make([]int64, 0, len(slots))
	slotTimes := make(map[int64]types.TimeString, len(slots))
	for _, slot := range slots {
		slotIDs = append(slotIDs, slot.ID)
		slotTimes[slot.ID] = slot.Time
	}

	// 4. Дубликат: все запрошенные слоты уже закрыты на этот диапазон
	existing, err := uc.leaveRepo.GetActiveSlotIDsByRange(ctx, req.DoctorID, req.StartDate, req.EndDate)
	if err != nil {
		uc.logger.Error("GrantLeave: failed to check existing leaves: %v", err)
		return nil, fmt.Errorf("%w: failed to check existing leaves: %v", ErrInternal, err)
	}
	if isSubset(slotIDs, existing) {
		uc.logger.Warn("GrantLeave: doctor=%d already has leave for these slots", req.DoctorID)
		return nil, ErrLeaveExists
	}

	var canceled []*domain.Booking

	// 5. Отмена коллизий и вставка строк отсутствия в одной
	// сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Подтвержденные бронирования в диапазоне (FOR UPDATE)
		accepted, err := uc.bookingRepo.GetAcceptedInRange(txCtx, req.DoctorID, slotIDs, req.StartDate, req.EndDate)
		if err != nil {
			uc.logger.Error("GrantLeave: failed to get accepted bookings: %v", err)
			return fmt.Errorf("%w: failed to get accepted bookings: %v", ErrInternal, err)
		}

		// 5.2. Каскадная отмена
		for _, booking := range accepted {
			if err := uc.bookingRepo.UpdateStatus(txCtx, booking.ID, domain.StatusCanceled); err != nil {
				uc.logger.Error("GrantLeave: failed to cancel booking id=%d: %v", booking.ID, err)
				return fmt.Errorf("%w: failed to cancel booking: %v", ErrInternal, err)
			}
		}

		// 5.3. Одна строка отсутствия на каждый слот
		leaves := make([]*domain.Leave, 0, len(slotIDs))
		for _, slotID := range slotIDs {
			leaves = append(leaves, &domain.Leave{
				DoctorID:   req.DoctorID,
				TimeSlotID: slotID,
				StartDate:  req.StartDate,
				EndDate:    req.EndDate,
				Status:     domain.RecordActive,
			})
		}

		if err := uc.leaveRepo.InsertMany(txCtx, leaves); err != nil {
			uc.logger.Error("GrantLeave: failed to insert leaves: %v", err)
			return fmt.Errorf("%w: failed to insert leaves: %v", ErrInternal, err)
		}

		canceled = accepted
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("GrantLeave: doctor=%d, closed %d slots, canceled %d bookings",
		req.DoctorID, len(slotIDs), len(canceled))

	// 6. Письма пациентам только после коммита
	canceledIDs := make([]int64, 0, len(canceled))
	for _, booking := range canceled {
		canceledIDs = append(canceledIDs, booking.ID)
		uc.notifyCancellation(ctx, doctor, booking, slotTimes[booking.TimeSlotID])
	}

	return &Response{
		DoctorID:         req.DoctorID,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		SlotIDs:          slotIDs,
		CanceledBookings: canceledIDs,
	}, nil
}

func (uc *UseCase) validate(req *Request) error {
	if req.DoctorID <= 0 {
		return fmt.Errorf("%w: doctorID must be positive", ErrInvalidInput)
	}
	if !req.Type.IsValid() {
		return ErrInvalidLeaveType
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", ErrInvalidInput)
	}
	if truncateToDate(req.EndDate).Before(truncateToDate(req.StartDate)) {
		return fmt.Errorf("%w: end date is before start date", ErrInvalidDateRange)
	}

	now := uc.timeProvider.Now()
	if truncateToDate(req.StartDate).Before(truncateToDate(now)) {
		return fmt.Errorf("%w: start date is in the past", ErrInvalidDateRange)
	}

	if req.Type == domain.LeaveCustom && len(req.TimeSlotIDs) == 0 {
		return fmt.Errorf("%w: slot list is empty", ErrInvalidCustomLeave)
	}

	return nil
}

// resolveSlots превращает тип отсутствия в набор слотов каталога
func (uc *UseCase) resolveSlots(ctx context.Context, req *Request) ([]*domain.TimeSlot, error) {
	if req.Type == domain.LeaveCustom {
		slots, err := uc.slotRepo.GetByIDs(ctx, req.TimeSlotIDs)
		if err != nil {
			uc.logger.Error("GrantLeave: failed to get custom slots: %v", err)
			return nil, fmt.Errorf("%w: failed to get custom slots: %v", ErrInternal, err)
		}
		if len(slots) != len(uniqueIDs(req.TimeSlotIDs)) {
			uc.logger.Warn("GrantLeave: custom slot list contains unknown slots")
			return nil, ErrInvalidCustomLeave
		}
		return slots, nil
	}

	catalog, err := uc.slotRepo.ListActive(ctx, 0, 0)
	if err != nil {
		uc.logger.Error("GrantLeave: failed to list catalog: %v", err)
		return nil, fmt.Errorf("%w: failed to list catalog: %v", ErrInternal, err)
	}

	var slots []*domain.TimeSlot
	switch req.Type {
	case domain.LeaveFull:
		slots = catalog
	case domain.LeaveHalfMorning:
		slots = filterByWindow(catalog, domain.HalfMorningStart, domain.HalfMorningEnd)
	case domain.LeaveHalfEvening:
		slots = filterByWindow(catalog, domain.HalfEveningStart, domain.HalfEveningEnd)
	}

	if len(slots) == 0 {
		uc.logger.Error("GrantLeave: no catalog slots resolved for type=%d", req.Type)
		return nil, fmt.Errorf("%w: no catalog slots resolved", ErrInternal)
	}

	return slots, nil
}

// notifyCancellation отправляет пациенту письмо об отмене.
// Ошибки уведомлений логируются и не влияют на результат
func (uc *UseCase) notifyCancellation(ctx context.Context, doctor *staffClient.Doctor, booking *domain.Booking, slotTime types.TimeString) {
	hospital, err := uc.staffClient.GetHospital(ctx, doctor.HospitalID)
	if err != nil {
		uc.logger.Warn("GrantLeave: failed to get hospital id=%d: %v", doctor.HospitalID, err)
		return
	}

	user, err := uc.staffClient.GetUser(ctx, booking.UserID)
	if err != nil {
		uc.logger.Warn("GrantLeave: failed to get user id=%d: %v", booking.UserID, err)
		return
	}

	notification := notifyservice.BookingNotification{
		RecipientEmail: user.Email,
		RecipientName:  user.FullName,
		DoctorName:     doctor.FullName,
		HospitalName:   hospital.Name,
		Date:           booking.BookingDate.Format(domain.DateFormat),
		Time:           slotTime.String(),
		Reason:         cancellationReason,
	}

	if err := uc.notifyClient.BookingCanceled(ctx, notification); err != nil {
		uc.logger.Warn("GrantLeave: failed to notify user id=%d about booking id=%d: %v", booking.UserID, booking.ID, err)
	}
}

func filterByWindow(catalog []*domain.TimeSlot, from, to types.TimeString) []*domain.TimeSlot {
	result := make([]*domain.TimeSlot, 0, len(catalog))
	for _, slot := range catalog {
		if domain.InHalfWindow(slot.Time, from, to) {
			result = append(result, slot)
		}
	}
	return result
}

// isSubset проверяет, что каждый элемент ids присутствует в set
func isSubset(ids, set []int64) bool {
	if len(ids) == 0 {
		return false
	}

	existing := make(map[int64]struct{}, len(set))
	for _, id := range set {
		existing[id] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := existing[id]; !ok {
			return false
		}
	}
	return true
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	result := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
