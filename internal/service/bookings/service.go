package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/medzap/HMS-BookingService/internal/domain"
	bookingstorage "github.com/medzap/HMS-BookingService/internal/infra/storage/booking"
	historystorage "github.com/medzap/HMS-BookingService/internal/infra/storage/history"
	timeslotstorage "github.com/medzap/HMS-BookingService/internal/infra/storage/timeslot"
	"github.com/medzap/HMS-BookingService/internal/integrations/notifyservice"
	"github.com/medzap/HMS-BookingService/internal/service/bookings/models"
	"github.com/medzap/HMS-BookingService/pkg/types"
)

// Service реализует жизненный цикл бронирования после его создания:
// просмотр, подтверждение/отклонение врачом, отмену и диагностические записи
type Service struct {
	bookingRepo  BookingRepository
	slotRepo     TimeSlotRepository
	historyRepo  HistoryRepository
	staff        StaffClient
	notify       NotifyClient
	timeProvider TimeProvider
	log          Logger
}

func NewService(
	bookingRepo BookingRepository,
	slotRepo TimeSlotRepository,
	historyRepo HistoryRepository,
	staff StaffClient,
	notify NotifyClient,
	timeProvider TimeProvider,
	log Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		slotRepo:     slotRepo,
		historyRepo:  historyRepo,
		staff:        staff,
		notify:       notify,
		timeProvider: timeProvider,
		log:          log,
	}
}

// GetByID возвращает бронирование пациента.
// Проверки выполняются в порядке: существование, принадлежность,
// статус, актуальность даты
func (s *Service) GetByID(ctx context.Context, bookingID, userID int64) (models.BookingResponse, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingstorage.ErrBookingNotFound) {
			return models.BookingResponse{}, fmt.Errorf("%w: GetByID - booking %d", ErrBookingNotFound, bookingID)
		}

		return models.BookingResponse{}, fmt.Errorf("%w: GetByID - failed to get booking: %v", ErrInternal, err)
	}

	if booking.UserID != userID {
		return models.BookingResponse{}, fmt.Errorf("%w: GetByID - booking %d does not belong to user %d", ErrAccessDenied, bookingID, userID)
	}

	switch booking.Status {
	case domain.StatusCanceled:
		return models.BookingResponse{}, fmt.Errorf("%w: GetByID - booking %d", ErrAlreadyCanceled, bookingID)
	case domain.StatusRejected:
		return models.BookingResponse{}, fmt.Errorf("%w: GetByID - booking %d", ErrAlreadyRejected, bookingID)
	}

	slotTime := s.slotTime(ctx, booking.TimeSlotID)
	if s.isPast(booking.BookingDate, slotTime) {
		return models.BookingResponse{}, fmt.Errorf("%w: GetByID - booking %d", ErrDatePassed, bookingID)
	}

	return models.NewBookingResponse(booking, slotTime), nil
}

// AcceptOrReject переводит ожидающее бронирование в ACCEPTED или REJECTED.
// Бронирования с прошедшей датой не обрабатываются
func (s *Service) AcceptOrReject(ctx context.Context, req models.ConfirmBookingRequest) (models.BookingResponse, error) {
	if !req.IsValid() {
		return models.BookingResponse{}, fmt.Errorf("%w: AcceptOrReject - booking id and action are required", ErrInvalidInput)
	}

	booking, err := s.getScoped(ctx, req.BookingID, req.DoctorID, "AcceptOrReject")
	if err != nil {
		return models.BookingResponse{}, err
	}

	if s.isPastDay(booking.BookingDate) {
		return models.BookingResponse{}, fmt.Errorf("%w: AcceptOrReject - booking %d", ErrPastBooking, req.BookingID)
	}

	if booking.Status != domain.StatusPending {
		return models.BookingResponse{}, fmt.Errorf("%w: AcceptOrReject - booking %d is %s", ErrAlreadyProcessed, req.BookingID, booking.Status)
	}

	newStatus := domain.StatusAccepted
	if req.Action == models.ActionReject {
		newStatus = domain.StatusRejected
	}

	if err := s.bookingRepo.UpdateStatus(ctx, booking.ID, newStatus); err != nil {
		return models.BookingResponse{}, fmt.Errorf("%w: AcceptOrReject - failed to update status: %v", ErrInternal, err)
	}

	booking.Status = newStatus
	booking.UpdatedAt = s.timeProvider.Now()

	slotTime := s.slotTime(ctx, booking.TimeSlotID)
	if newStatus == domain.StatusAccepted {
		s.sendEmail(ctx, booking, slotTime, "", s.notify.BookingAccepted)
	} else {
		s.sendEmail(ctx, booking, slotTime, "", s.notify.BookingRejected)
	}

	return models.NewBookingResponse(booking, slotTime), nil
}

// CancelApproved отменяет подтвержденное бронирование.
// Отменить можно только бронирование в статусе ACCEPTED
func (s *Service) CancelApproved(ctx context.Context, bookingID int64, doctorID *int64) (models.BookingResponse, error) {
	booking, err := s.getScoped(ctx, bookingID, doctorID, "CancelApproved")
	if err != nil {
		return models.BookingResponse{}, err
	}

	if booking.Status == domain.StatusCanceled {
		return models.BookingResponse{}, fmt.Errorf("%w: CancelApproved - booking %d", ErrAlreadyCanceled, bookingID)
	}

	if !booking.CanBeCancelled() {
		return models.BookingResponse{}, fmt.Errorf("%w: CancelApproved - booking %d is %s", ErrNotCancelable, bookingID, booking.Status)
	}

	if err := s.bookingRepo.UpdateStatus(ctx, booking.ID, domain.StatusCanceled); err != nil {
		return models.BookingResponse{}, fmt.Errorf("%w: CancelApproved - failed to update status: %v", ErrInternal, err)
	}

	booking.Status = domain.StatusCanceled
	booking.UpdatedAt = s.timeProvider.Now()

	slotTime := s.slotTime(ctx, booking.TimeSlotID)
	s.sendEmail(ctx, booking, slotTime, "", s.notify.BookingCanceled)

	return models.NewBookingResponse(booking, slotTime), nil
}

// CancelOwn отменяет подтвержденное бронирование самим пациентом.
// Порядок проверок повторяет GetByID: существование, принадлежность,
// статус, актуальность даты
func (s *Service) CancelOwn(ctx context.Context, bookingID, userID int64) (models.BookingResponse, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingstorage.ErrBookingNotFound) {
			return models.BookingResponse{}, fmt.Errorf("%w: CancelOwn - booking %d", ErrBookingNotFound, bookingID)
		}

		return models.BookingResponse{}, fmt.Errorf("%w: CancelOwn - failed to get booking: %v", ErrInternal, err)
	}

	if booking.UserID != userID {
		return models.BookingResponse{}, fmt.Errorf("%w: CancelOwn - booking %d does not belong to user %d", ErrAccessDenied, bookingID, userID)
	}

	switch booking.Status {
	case domain.StatusCanceled:
		return models.BookingResponse{}, fmt.Errorf("%w: CancelOwn - booking %d", ErrAlreadyCanceled, bookingID)
	case domain.StatusRejected:
		return models.BookingResponse{}, fmt.Errorf("%w: CancelOwn - booking %d", ErrAlreadyRejected, bookingID)
	}

	slotTime := s.slotTime(ctx, booking.TimeSlotID)
	if s.isPast(booking.BookingDate, slotTime) {
		return models.BookingResponse{}, fmt.Errorf("%w: CancelOwn - booking %d", ErrDatePassed, bookingID)
	}

	if !booking.CanBeCancelled() {
		return models.BookingResponse{}, fmt.Errorf("%w: CancelOwn - booking %d is %s", ErrNotCancelable, bookingID, booking.Status)
	}

	if err := s.bookingRepo.UpdateStatus(ctx, booking.ID, domain.StatusCanceled); err != nil {
		return models.BookingResponse{}, fmt.Errorf("%w: CancelOwn - failed to update status: %v", ErrInternal, err)
	}

	booking.Status = domain.StatusCanceled
	booking.UpdatedAt = s.timeProvider.Now()

	s.sendEmail(ctx, booking, slotTime, "", s.notify.BookingCanceled)

	return models.NewBookingResponse(booking, slotTime), nil
}

// GetUserBookings возвращает бронирования пациента с опциональным
// фильтром по статусу
func (s *Service) GetUserBookings(ctx context.Context, req models.GetUserBookingsRequest) ([]models.BookingResponse, error) {
	if req.UserID <= 0 {
		return nil, fmt.Errorf("%w: GetUserBookings - user id is required", ErrInvalidInput)
	}

	bookingsList, err := s.bookingRepo.GetByUserID(ctx, req.UserID, req.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: GetUserBookings - failed to get bookings: %v", ErrInternal, err)
	}

	return s.toResponses(ctx, bookingsList), nil
}

// GetDoctorBookings возвращает расписание врача с фильтрами по датам,
// статусу и пагинацией
func (s *Service) GetDoctorBookings(ctx context.Context, req models.GetDoctorBookingsRequest) ([]models.BookingResponse, error) {
	if req.DoctorID <= 0 {
		return nil, fmt.Errorf("%w: GetDoctorBookings - doctor id is required", ErrInvalidInput)
	}

	bookingsList, err := s.bookingRepo.GetByDoctorWithFilter(ctx, req.ToFilter())
	if err != nil {
		return nil, fmt.Errorf("%w: GetDoctorBookings - failed to get bookings: %v", ErrInternal, err)
	}

	return s.toResponses(ctx, bookingsList), nil
}

// AddHistory создает диагностическую запись по завершенному приёму.
// Запись доступна врачу бронирования не раньше дня приёма и только один раз
func (s *Service) AddHistory(ctx context.Context, req models.AddHistoryRequest) (models.HistoryResponse, error) {
	if !req.IsValid() {
		return models.HistoryResponse{}, fmt.Errorf("%w: AddHistory - booking id, doctor id and reason are required", ErrInvalidInput)
	}

	booking, err := s.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingstorage.ErrBookingNotFound) {
			return models.HistoryResponse{}, fmt.Errorf("%w: AddHistory - booking %d", ErrBookingNotFound, req.BookingID)
		}

		return models.HistoryResponse{}, fmt.Errorf("%w: AddHistory - failed to get booking: %v", ErrInternal, err)
	}

	if booking.DoctorID != req.DoctorID || booking.Status != domain.StatusAccepted {
		return models.HistoryResponse{}, fmt.Errorf("%w: AddHistory - booking %d", ErrInvalidBooking, req.BookingID)
	}

	if s.isFutureDay(booking.BookingDate) {
		return models.HistoryResponse{}, fmt.Errorf("%w: AddHistory - booking %d is scheduled for %s", ErrTooEarly, req.BookingID, booking.BookingDate.Format(domain.DateFormat))
	}

	if _, err := s.historyRepo.GetByBookingID(ctx, req.BookingID); err == nil {
		return models.HistoryResponse{}, fmt.Errorf("%w: AddHistory - booking %d", ErrDuplicateHistory, req.BookingID)
	} else if !errors.Is(err, historystorage.ErrHistoryNotFound) {
		return models.HistoryResponse{}, fmt.Errorf("%w: AddHistory - failed to check history: %v", ErrInternal, err)
	}

	history, err := s.historyRepo.Create(ctx, &domain.History{
		BookingID:    req.BookingID,
		Reason:       req.Reason,
		Prescription: req.Prescription,
	})
	if err != nil {
		if errors.Is(err, historystorage.ErrDuplicateHistory) {
			return models.HistoryResponse{}, fmt.Errorf("%w: AddHistory - booking %d", ErrDuplicateHistory, req.BookingID)
		}

		return models.HistoryResponse{}, fmt.Errorf("%w: AddHistory - failed to create history: %v", ErrInternal, err)
	}

	return models.NewHistoryResponse(history), nil
}

// GetHistory возвращает диагностические записи врача с пагинацией
func (s *Service) GetHistory(ctx context.Context, doctorID int64, page, limit int) ([]models.HistoryResponse, error) {
	if doctorID <= 0 {
		return nil, fmt.Errorf("%w: GetHistory - doctor id is required", ErrInvalidInput)
	}

	if limit <= 0 {
		limit = domain.DefaultPageLimit
	}
	if limit > domain.MaxPageLimit {
		limit = domain.MaxPageLimit
	}
	if page <= 0 {
		page = 1
	}

	histories, err := s.historyRepo.ListByDoctorID(ctx, doctorID, page, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: GetHistory - failed to get histories: %v", ErrInternal, err)
	}

	result := make([]models.HistoryResponse, 0, len(histories))
	for _, history := range histories {
		result = append(result, models.NewHistoryResponse(history))
	}

	return result, nil
}

// getScoped достает бронирование с учетом области видимости врача:
// чужое бронирование неотличимо от несуществующего
func (s *Service) getScoped(ctx context.Context, bookingID int64, doctorID *int64, method string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingstorage.ErrBookingNotFound) {
			return nil, fmt.Errorf("%w: %s - booking %d", ErrBookingNotFound, method, bookingID)
		}

		return nil, fmt.Errorf("%w: %s - failed to get booking: %v", ErrInternal, method, err)
	}

	if doctorID != nil && booking.DoctorID != *doctorID {
		return nil, fmt.Errorf("%w: %s - booking %d", ErrBookingNotFound, method, bookingID)
	}

	return booking, nil
}

func (s *Service) isPastDay(date time.Time) bool {
	now := s.timeProvider.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())

	return day.Before(today)
}

func (s *Service) isFutureDay(date time.Time) bool {
	now := s.timeProvider.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())

	return day.After(today)
}

func (s *Service) isPast(date time.Time, slotTime types.TimeString) bool {
	if s.isPastDay(date) {
		return true
	}
	if s.isFutureDay(date) {
		return false
	}
	if slotTime.IsZero() {
		return false
	}

	return slotTime.IsBefore(types.NewTimeString(s.timeProvider.Now()))
}

// slotTime достает время слота; при ошибке возвращает пустое значение,
// чтобы не ронять основную операцию
func (s *Service) slotTime(ctx context.Context, timeSlotID int64) types.TimeString {
	slot, err := s.slotRepo.GetByID(ctx, timeSlotID)
	if err != nil {
		if !errors.Is(err, timeslotstorage.ErrTimeSlotNotFound) {
			s.log.Warn("bookings.Service: slotTime - failed to get slot %d: %v", timeSlotID, err)
		}

		return ""
	}

	return slot.Time
}

func (s *Service) toResponses(ctx context.Context, bookingsList []*domain.Booking) []models.BookingResponse {
	times := s.slotTimes(ctx, bookingsList)

	result := make([]models.BookingResponse, 0, len(bookingsList))
	for _, booking := range bookingsList {
		result = append(result, models.NewBookingResponse(booking, times[booking.TimeSlotID]))
	}

	return result
}

func (s *Service) slotTimes(ctx context.Context, bookingsList []*domain.Booking) map[int64]types.TimeString {
	seen := make(map[int64]struct{}, len(bookingsList))
	ids := make([]int64, 0, len(bookingsList))
	for _, booking := range bookingsList {
		if _, ok := seen[booking.TimeSlotID]; ok {
			continue
		}
		seen[booking.TimeSlotID] = struct{}{}
		ids = append(ids, booking.TimeSlotID)
	}

	times := make(map[int64]types.TimeString, len(ids))
	if len(ids) == 0 {
		return times
	}

	slots, err := s.slotRepo.GetByIDs(ctx, ids)
	if err != nil {
		s.log.Warn("bookings.Service: slotTimes - failed to get slots: %v", err)

		return times
	}

	for _, slot := range slots {
		times[slot.ID] = slot.Time
	}

	return times
}

// sendEmail отправляет почтовое уведомление пациенту.
// Ошибки уведомлений логируются и не влияют на результат операции
func (s *Service) sendEmail(
	ctx context.Context,
	booking *domain.Booking,
	slotTime types.TimeString,
	reason string,
	send func(context.Context, notifyservice.BookingNotification) error,
) {
	doctor, err := s.staff.GetDoctor(ctx, booking.DoctorID)
	if err != nil {
		s.log.Warn("bookings.Service: sendEmail - failed to get doctor %d: %v", booking.DoctorID, err)

		return
	}

	hospital, err := s.staff.GetHospital(ctx, doctor.HospitalID)
	if err != nil {
		s.log.Warn("bookings.Service: sendEmail - failed to get hospital %d: %v", doctor.HospitalID, err)

		return
	}

	user, err := s.staff.GetUser(ctx, booking.UserID)
	if err != nil {
		s.log.Warn("bookings.Service: sendEmail - failed to get user %d: %v", booking.UserID, err)

		return
	}

	notification := notifyservice.BookingNotification{
		RecipientEmail: user.Email,
		RecipientName:  user.FullName,
		DoctorName:     doctor.FullName,
		HospitalName:   hospital.Name,
		Date:           booking.BookingDate.Format(domain.DateFormat),
		Time:           slotTime.String(),
		Reason:         reason,
	}

	if err := send(ctx, notification); err != nil {
		s.log.Warn("bookings.Service: sendEmail - failed to send notification for booking %d: %v", booking.ID, err)
	}
}
