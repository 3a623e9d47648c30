package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/medzap/HMS-BookingService/internal/domain"
	staffClient "github.com/medzap/HMS-BookingService/internal/integrations/staffservice"
	"github.com/medzap/HMS-BookingService/pkg/types"
)

// UseCase use case для расчета свободных слотов врача на дату.
// Свободные слоты = базовый набор минус отпуска минус активные
// бронирования минус (для сегодня) уже прошедшие времена
type UseCase struct {
	slotRepo     TimeSlotRepository
	leaveRepo    LeaveRepository
	bookingRepo  BookingRepository
	staffClient  StaffServiceClient
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo TimeSlotRepository,
	leaveRepo LeaveRepository,
	bookingRepo BookingRepository,
	staffClient StaffServiceClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:     slotRepo,
		leaveRepo:    leaveRepo,
		bookingRepo:  bookingRepo,
		staffClient:  staffClient,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute возвращает свободные для записи слоты.
// Базовый набор - весь активный каталог
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := uc.validate(ctx, req); err != nil {
		return nil, err
	}

	base, err := uc.slotRepo.ListActive(ctx, 0, 0)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list catalog: %v", err)
		return nil, fmt.Errorf("%w: failed to list catalog: %v", ErrInternal, err)
	}

	return uc.resolve(ctx, req, base)
}

// ExecuteForDoctorConfig возвращает свободные слоты на основе набора,
// настроенного самим врачом. Используется при планировании отпуска
func (uc *UseCase) ExecuteForDoctorConfig(ctx context.Context, req *Request) (*Response, error) {
	if err := uc.validate(ctx, req); err != nil {
		return nil, err
	}

	ids, err := uc.slotRepo.GetDoctorSlotIDs(ctx, req.DoctorID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get doctor slot ids: %v", err)
		return nil, fmt.Errorf("%w: failed to get doctor slot ids: %v", ErrInternal, err)
	}

	base := make([]*domain.TimeSlot, 0, len(ids))
	if len(ids) > 0 {
		base, err = uc.slotRepo.GetByIDs(ctx, ids)
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to get doctor slots: %v", err)
			return nil, fmt.Errorf("%w: failed to get doctor slots: %v", ErrInternal, err)
		}
	}

	return uc.resolve(ctx, req, base)
}

func (uc *UseCase) validate(ctx context.Context, req *Request) error {
	if req.DoctorID <= 0 {
		return fmt.Errorf("%w: doctorID must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	now := uc.timeProvider.Now()
	dateOnly := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, req.Date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if dateOnly.Before(nowOnly) {
		return ErrInvalidDate
	}

	doctor, err := uc.staffClient.GetDoctor(ctx, req.DoctorID)
	if err != nil {
		if errors.Is(err, staffClient.ErrDoctorNotFound) {
			uc.logger.Warn("GetAvailableSlots: doctor id=%d not found", req.DoctorID)
			return ErrDoctorNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get doctor id=%d: %v", req.DoctorID, err)
		return fmt.Errorf("%w: failed to get doctor: %v", ErrInternal, err)
	}
	if !doctor.IsActive {
		uc.logger.Warn("GetAvailableSlots: doctor id=%d is not active", req.DoctorID)
		return ErrDoctorNotFound
	}

	return nil
}

// resolve вычитает из базового набора занятые и недоступные слоты
func (uc *UseCase) resolve(ctx context.Context, req *Request, base []*domain.TimeSlot) (*Response, error) {
	leaveIDs, err := uc.leaveRepo.GetActiveSlotIDsByDate(ctx, req.DoctorID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get leave slot ids: %v", err)
		return nil, fmt.Errorf("%w: failed to get leave slot ids: %v", ErrInternal, err)
	}

	bookedIDs, err := uc.bookingRepo.GetActiveSlotIDsByDate(ctx, req.DoctorID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get booked slot ids: %v", err)
		return nil, fmt.Errorf("%w: failed to get booked slot ids: %v", ErrInternal, err)
	}

	excluded := make(map[int64]struct{}, len(leaveIDs)+len(bookedIDs))
	for _, id := range leaveIDs {
		excluded[id] = struct{}{}
	}
	for _, id := range bookedIDs {
		excluded[id] = struct{}{}
	}

	now := uc.timeProvider.Now()
	cutOff := types.TimeString("")
	if isSameDay(req.Date, now) {
		cutOff = types.NewTimeString(now)
	}

	slots := make([]AvailableSlot, 0, len(base))
	for _, slot := range base {
		if _, ok := excluded[slot.ID]; ok {
			continue
		}
		// Для сегодняшней даты доступны только времена строго позже текущего
		if !cutOff.IsZero() && !slot.Time.IsAfter(cutOff) {
			continue
		}
		slots = append(slots, AvailableSlot{ID: slot.ID, Time: slot.Time})
	}

	sort.Slice(slots, func(i, j int) bool {
		return slots[i].Time.IsBefore(slots[j].Time)
	})

	uc.logger.Info("GetAvailableSlots: doctor=%d, date=%s: %d of %d slots available",
		req.DoctorID, req.Date.Format(domain.DateFormat), len(slots), len(base))

	return &Response{
		DoctorID: req.DoctorID,
		Date:     req.Date,
		Slots:    slots,
	}, nil
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
