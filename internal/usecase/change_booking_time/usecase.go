package change_booking_time

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/medzap/HMS-BookingService/internal/domain"
	bookingRepo "github.com/medzap/HMS-BookingService/internal/infra/storage/booking"
	timeslotRepo "github.com/medzap/HMS-BookingService/internal/infra/storage/timeslot"
	"github.com/medzap/HMS-BookingService/internal/integrations/notifyservice"
	"github.com/medzap/HMS-BookingService/pkg/types"
)

// UseCase use case для переноса бронирования на другой слот.
// Статус бронирования при переносе не меняется
type UseCase struct {
	bookingRepo  BookingRepository
	slotRepo     TimeSlotRepository
	leaveRepo    LeaveRepository
	staffClient  StaffServiceClient
	notifyClient NotifyServiceClient
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
	notifyClient NotifyServiceClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		slotRepo:     slotRepo,
		leaveRepo:    leaveRepo,
		staffClient:  staffClient,
		notifyClient: notifyClient,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case переноса бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ChangeBookingTime: booking=%d, newSlot=%d, actor=%d/%s",
		req.BookingID, req.NewTimeSlotID, req.Actor.ID, req.Actor.Role)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ChangeBookingTime: validation failed: %v", err)
		return nil, err
	}

	// 2. Бронирование с учетом области видимости роли
	booking, err := uc.getScoped(ctx, req)
	if err != nil {
		return nil, err
	}

	// 3. Переносить можно только активные бронирования
	if !booking.CanBeRescheduled() {
		uc.logger.Warn("ChangeBookingTime: booking id=%d is %s", booking.ID, booking.Status)
		return nil, ErrBookingNotFound
	}

	now := uc.timeProvider.Now()

	var slotTime types.TimeString

	// 4. Проверка доступности нового слота и перенос в одной
	// сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Новый слот должен существовать и быть активным
		slot, err := uc.slotRepo.GetByID(txCtx, req.NewTimeSlotID)
		if err != nil {
			if errors.Is(err, timeslotRepo.ErrTimeSlotNotFound) {
				uc.logger.Warn("ChangeBookingTime: slot id=%d not found", req.NewTimeSlotID)
				return ErrSlotNotFound
			}
			uc.logger.Error("ChangeBookingTime: failed to get slot id=%d: %v", req.NewTimeSlotID, err)
			return fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
		}
		if !slot.IsActive {
			uc.logger.Warn("ChangeBookingTime: slot id=%d is deactivated", req.NewTimeSlotID)
			return ErrSlotNotFound
		}
		slotTime = slot.Time

		// 4.2. Для сегодняшней даты новый слот должен начинаться строго
		// позже текущего времени
		if isSameDay(booking.BookingDate, now) && !slot.Time.IsAfter(types.NewTimeString(now)) {
			uc.logger.Warn("ChangeBookingTime: slot %s has passed for today", slot.Time)
			return ErrPastSlot
		}

		// 4.3. Новый слот не должен быть перекрыт отпуском врача
		leaves, err := uc.leaveRepo.FindActiveCovering(txCtx, booking.DoctorID, req.NewTimeSlotID, booking.BookingDate)
		if err != nil {
			uc.logger.Error("ChangeBookingTime: failed to check leaves: %v", err)
			return fmt.Errorf("%w: failed to check leaves: %v", ErrInternal, err)
		}
		if len(leaves) > 0 {
			uc.logger.Warn("ChangeBookingTime: doctor id=%d is on leave, slot id=%d", booking.DoctorID, req.NewTimeSlotID)
			return ErrSlotTaken
		}

		// 4.4. Новый слот не должен быть занят другим активным бронированием;
		// само переносимое бронирование исключается из проверки
		active, err := uc.bookingRepo.FindActive(txCtx, booking.DoctorID, req.NewTimeSlotID, booking.BookingDate, &booking.ID)
		if err != nil {
			uc.logger.Error("ChangeBookingTime: failed to check active bookings: %v", err)
			return fmt.Errorf("%w: failed to check active bookings: %v", ErrInternal, err)
		}
		if len(active) > 0 {
			uc.logger.Warn("ChangeBookingTime: slot id=%d on %s is already taken", req.NewTimeSlotID, booking.BookingDate.Format(domain.DateFormat))
			return ErrSlotTaken
		}

		// 4.5. Перенос на новый слот, статус остается прежним
		if err := uc.bookingRepo.UpdateSlot(txCtx, booking.ID, req.NewTimeSlotID); err != nil {
			if errors.Is(err, bookingRepo.ErrSlotTaken) {
				uc.logger.Warn("ChangeBookingTime: unique index rejected slot id=%d", req.NewTimeSlotID)
				return ErrSlotTaken
			}
			uc.logger.Error("ChangeBookingTime: failed to update slot: %v", err)
			return fmt.Errorf("%w: failed to update slot: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	booking.TimeSlotID = req.NewTimeSlotID

	uc.logger.Info("ChangeBookingTime: booking id=%d moved to slot id=%d", booking.ID, req.NewTimeSlotID)

	// 5. Письмо о переносе только после коммита
	uc.notifyReschedule(ctx, booking, slotTime)

	return &Response{
		ID:          booking.ID,
		UserID:      booking.UserID,
		DoctorID:    booking.DoctorID,
		TimeSlotID:  booking.TimeSlotID,
		SlotTime:    slotTime,
		BookingDate: booking.BookingDate,
		Status:      booking.Status.String(),
	}, nil
}

func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}
	if req.NewTimeSlotID <= 0 {
		return fmt.Errorf("%w: newTimeSlotID must be positive", ErrInvalidInput)
	}
	if req.Actor.ID <= 0 || !req.Actor.Role.IsValid() {
		return fmt.Errorf("%w: actor is required", ErrInvalidInput)
	}
	return nil
}

// getScoped достает бронирование с учетом роли: пациент и врач видят
// только свои бронирования, администратор - любые
func (uc *UseCase) getScoped(ctx context.Context, req *Request) (*domain.Booking, error) {
	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("ChangeBookingTime: booking id=%d not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("ChangeBookingTime: failed to get booking id=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	switch req.Actor.Role {
	case domain.RoleUser:
		if booking.UserID != req.Actor.ID {
			return nil, ErrBookingNotFound
		}
	case domain.RoleDoctor:
		if booking.DoctorID != req.Actor.ID {
			return nil, ErrBookingNotFound
		}
	case domain.RoleAdmin:
		// Администратору доступны любые бронирования
	}

	return booking, nil
}

// notifyReschedule отправляет пациенту письмо о переносе.
// Ошибки уведомлений логируются и не влияют на результат
func (uc *UseCase) notifyReschedule(ctx context.Context, booking *domain.Booking, slotTime types.TimeString) {
	doctor, err := uc.staffClient.GetDoctor(ctx, booking.DoctorID)
	if err != nil {
		uc.logger.Warn("ChangeBookingTime: failed to get doctor id=%d: %v", booking.DoctorID, err)
		return
	}

	hospital, err := uc.staffClient.GetHospital(ctx, doctor.HospitalID)
	if err != nil {
		uc.logger.Warn("ChangeBookingTime: failed to get hospital id=%d: %v", doctor.HospitalID, err)
		return
	}

	user, err := uc.staffClient.GetUser(ctx, booking.UserID)
	if err != nil {
		uc.logger.Warn("ChangeBookingTime: failed to get user id=%d: %v", booking.UserID, err)
		return
	}

	notification := notifyservice.BookingNotification{
		RecipientEmail: user.Email,
		RecipientName:  user.FullName,
		DoctorName:     doctor.FullName,
		HospitalName:   hospital.Name,
		Date:           booking.BookingDate.Format(domain.DateFormat),
		Time:           slotTime.String(),
	}

	if err := uc.notifyClient.BookingRescheduled(ctx, notification); err != nil {
		uc.logger.Warn("ChangeBookingTime: failed to notify user id=%d about booking id=%d: %v", booking.UserID, booking.ID, err)
	}
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
