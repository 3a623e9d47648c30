package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/medzap/HMS-BookingService/internal/domain"
	bookingRepo "github.com/medzap/HMS-BookingService/internal/infra/storage/booking"
	timeslotRepo "github.com/medzap/HMS-BookingService/internal/infra/storage/timeslot"
	staffClient "github.com/medzap/HMS-BookingService/internal/integrations/staffservice"
	"github.com/medzap/HMS-BookingService/pkg/types"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	slotRepo     TimeSlotRepository
	leaveRepo    LeaveRepository
	staffClient  StaffServiceClient
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	slotRepo TimeSlotRepository,
	leaveRepo LeaveRepository,
	staffClient StaffServiceClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		slotRepo:     slotRepo,
		leaveRepo:    leaveRepo,
		staffClient:  staffClient,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования
// Использует сериализуемую транзакцию для предотвращения гонки данных
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, doctor=%d, slot=%d, date=%s",
		req.UserID, req.DoctorID, req.TimeSlotID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	if isDateInPast(req.Date, now) {
		uc.logger.Warn("CreateBooking: date %s is in the past", req.Date.Format(domain.DateFormat))
		return nil, ErrInvalidDate
	}

	// 3. Получаем врача - он же источник стоимости приёма
	doctor, err := uc.staffClient.GetDoctor(ctx, req.DoctorID)
	if err != nil {
		if errors.Is(err, staffClient.ErrDoctorNotFound) {
			uc.logger.Warn("CreateBooking: doctor id=%d not found", req.DoctorID)
			return nil, ErrDoctorNotFound
		}
		uc.logger.Error("CreateBooking: failed to get doctor id=%d: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: failed to get doctor: %v", ErrInternal, err)
	}

	if !doctor.IsActive {
		uc.logger.Warn("CreateBooking: doctor id=%d is not active", req.DoctorID)
		return nil, ErrDoctorNotFound
	}

	var result *domain.Booking
	var slotTime types.TimeString

	// 4. Выполняем проверки и вставку в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Слот должен существовать и быть активным
		slot, err := uc.slotRepo.GetByID(txCtx, req.TimeSlotID)
		if err != nil {
			if errors.Is(err, timeslotRepo.ErrTimeSlotNotFound) {
				uc.logger.Warn("CreateBooking: slot id=%d not found", req.TimeSlotID)
				return ErrSlotNotFound
			}
			uc.logger.Error("CreateBooking: failed to get slot id=%d: %v", req.TimeSlotID, err)
			return fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
		}
		if !slot.IsActive {
			uc.logger.Warn("CreateBooking: slot id=%d is deactivated", req.TimeSlotID)
			return ErrSlotNotFound
		}
		slotTime = slot.Time

		// 4.2. Для сегодняшней даты слот должен начинаться строго позже
		// текущего времени
		if isSameDay(req.Date, now) && !slot.Time.IsAfter(types.NewTimeString(now)) {
			uc.logger.Warn("CreateBooking: slot %s has passed for today", slot.Time)
			return ErrPastSlot
		}

		// 4.3. Слот не должен быть перекрыт отпуском врача
		leaves, err := uc.leaveRepo.FindActiveCovering(txCtx, req.DoctorID, req.TimeSlotID, req.Date)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to check leaves: %v", err)
			return fmt.Errorf("%w: failed to check leaves: %v", ErrInternal, err)
		}
		if len(leaves) > 0 {
			uc.logger.Warn("CreateBooking: doctor id=%d is on leave on %s", req.DoctorID, req.Date.Format(domain.DateFormat))
			return ErrDoctorUnavailable
		}

		// 4.4. Слот не должен быть занят активным бронированием (FOR UPDATE)
		active, err := uc.bookingRepo.FindActive(txCtx, req.DoctorID, req.TimeSlotID, req.Date, nil)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to check active bookings: %v", err)
			return fmt.Errorf("%w: failed to check active bookings: %v", ErrInternal, err)
		}
		if len(active) > 0 {
			uc.logger.Warn("CreateBooking: slot id=%d on %s is already taken", req.TimeSlotID, req.Date.Format(domain.DateFormat))
			return ErrSlotTaken
		}

		// 4.5. Создаем бронирование в статусе PENDING
		booking := &domain.Booking{
			DoctorID:    req.DoctorID,
			UserID:      req.UserID,
			TimeSlotID:  req.TimeSlotID,
			BookingDate: req.Date,
			Price:       doctor.Fee,
			Status:      domain.StatusPending,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			// Частичный уникальный индекс - вторая линия защиты от гонки
			if errors.Is(err, bookingRepo.ErrSlotTaken) {
				uc.logger.Warn("CreateBooking: unique index rejected slot id=%d on %s", req.TimeSlotID, req.Date.Format(domain.DateFormat))
				return ErrSlotTaken
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: created booking id=%d for user=%d", result.ID, req.UserID)

	return &Response{
		ID:          result.ID,
		UserID:      result.UserID,
		DoctorID:    result.DoctorID,
		TimeSlotID:  result.TimeSlotID,
		SlotTime:    slotTime,
		BookingDate: result.BookingDate,
		Price:       result.Price,
		Status:      result.Status.String(),
		CreatedAt:   result.CreatedAt,
		UpdatedAt:   result.UpdatedAt,
	}, nil
}
