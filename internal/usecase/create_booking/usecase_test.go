package create_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/medzap/HMS-BookingService/internal/domain"
	bookingRepo "github.com/medzap/HMS-BookingService/internal/infra/storage/booking"
	timeslotRepo "github.com/medzap/HMS-BookingService/internal/infra/storage/timeslot"
	"github.com/medzap/HMS-BookingService/internal/integrations/staffservice"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	args := m.Called(ctx, booking)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) FindActive(ctx context.Context, doctorID, timeSlotID int64, date time.Time, excludeID *int64) ([]*domain.Booking, error) {
	args := m.Called(ctx, doctorID, timeSlotID, date, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Booking), args.Error(1)
}

type MockTimeSlotRepository struct {
	mock.Mock
}

func (m *MockTimeSlotRepository) GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TimeSlot), args.Error(1)
}

type MockLeaveRepository struct {
	mock.Mock
}

func (m *MockLeaveRepository) FindActiveCovering(ctx context.Context, doctorID, timeSlotID int64, date time.Time) ([]*domain.Leave, error) {
	args := m.Called(ctx, doctorID, timeSlotID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Leave), args.Error(1)
}

type MockStaffClient struct {
	mock.Mock
}

func (m *MockStaffClient) GetDoctor(ctx context.Context, doctorID int64) (*staffservice.Doctor, error) {
	args := m.Called(ctx, doctorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*staffservice.Doctor), args.Error(1)
}

// fakeTxManager выполняет функцию без реальной транзакции
type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTimeProvider struct {
	now time.Time
}

func (p fixedTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func setupUseCase() (*UseCase, *MockBookingRepository, *MockTimeSlotRepository, *MockLeaveRepository, *MockStaffClient) {
	bookings := &MockBookingRepository{}
	slots := &MockTimeSlotRepository{}
	leaves := &MockLeaveRepository{}
	staff := &MockStaffClient{}

	uc := NewUseCase(bookings, slots, leaves, staff, fakeTxManager{}, nopLogger{})
	uc.timeProvider = fixedTimeProvider{now: time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)}

	return uc, bookings, slots, leaves, staff
}

func validRequest() *Request {
	return &Request{
		UserID:     100,
		DoctorID:   7,
		TimeSlotID: 3,
		Date:       time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateBooking_Success(t *testing.T) {
	uc, bookings, slots, leaves, staff := setupUseCase()
	req := validRequest()

	staff.On("GetDoctor", mock.Anything, req.DoctorID).
		Return(&staffservice.Doctor{ID: req.DoctorID, Fee: 2500, IsActive: true}, nil)
	slots.On("GetByID", mock.Anything, req.TimeSlotID).
		Return(&domain.TimeSlot{ID: req.TimeSlotID, Time: "10:30", IsActive: true}, nil)
	leaves.On("FindActiveCovering", mock.Anything, req.DoctorID, req.TimeSlotID, req.Date).
		Return([]*domain.Leave{}, nil)
	bookings.On("FindActive", mock.Anything, req.DoctorID, req.TimeSlotID, req.Date, (*int64)(nil)).
		Return([]*domain.Booking{}, nil)
	bookings.On("Create", mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.Status == domain.StatusPending && b.Price == 2500 && b.UserID == req.UserID
	})).Return(&domain.Booking{
		ID:          42,
		UserID:      req.UserID,
		DoctorID:    req.DoctorID,
		TimeSlotID:  req.TimeSlotID,
		BookingDate: req.Date,
		Price:       2500,
		Status:      domain.StatusPending,
	}, nil)

	resp, err := uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, int64(42), resp.ID)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "10:30", resp.SlotTime.String())
	assert.Equal(t, 2500.0, resp.Price)
	bookings.AssertExpectations(t)
}

func TestCreateBooking_DateInPast(t *testing.T) {
	uc, _, _, _, _ := setupUseCase()
	req := validRequest()
	req.Date = time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)

	_, err := uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestCreateBooking_DoctorNotFound(t *testing.T) {
	uc, _, _, _, staff := setupUseCase()
	req := validRequest()

	staff.On("GetDoctor", mock.Anything, req.DoctorID).
		Return(nil, staffservice.ErrDoctorNotFound)

	_, err := uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestCreateBooking_DoctorInactive(t *testing.T) {
	uc, _, _, _, staff := setupUseCase()
	req := validRequest()

	staff.On("GetDoctor", mock.Anything, req.DoctorID).
		Return(&staffservice.Doctor{ID: req.DoctorID, IsActive: false}, nil)

	_, err := uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestCreateBooking_SlotNotFound(t *testing.T) {
	uc, _, slots, _, staff := setupUseCase()
	req := validRequest()

	staff.On("GetDoctor", mock.Anything, req.DoctorID).
		Return(&staffservice.Doctor{ID: req.DoctorID, IsActive: true}, nil)
	slots.On("GetByID", mock.Anything, req.TimeSlotID).
		Return(nil, timeslotRepo.ErrTimeSlotNotFound)

	_, err := uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestCreateBooking_DeactivatedSlot(t *testing.T) {
	uc, bookings, slots, _, staff := setupUseCase()
	req := validRequest()

	staff.On("GetDoctor", mock.Anything, req.DoctorID).
		Return(&staffservice.Doctor{ID: req.DoctorID, IsActive: true}, nil)
	// Слот выведен из каталога, но строка еще существует
	slots.On("GetByID", mock.Anything, req.TimeSlotID).
		Return(&domain.TimeSlot{ID: req.TimeSlotID, Time: "10:30", IsActive: false}, nil)

	_, err := uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrSlotNotFound)
	bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateBooking_PastSlotToday(t *testing.T) {
	uc, _, slots, _, staff := setupUseCase()
	req := validRequest()
	// Сегодняшняя дата, время слота уже прошло (сейчас 09:00)
	req.Date = time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	staff.On("GetDoctor", mock.Anything, req.DoctorID).
		Return(&staffservice.Doctor{ID: req.DoctorID, IsActive: true}, nil)
	slots.On("GetByID", mock.Anything, req.TimeSlotID).
		Return(&domain.TimeSlot{ID: req.TimeSlotID, Time: "08:30", IsActive: true}, nil)

	_, err := uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrPastSlot)
}

func TestCreateBooking_SlotAtCurrentMinuteToday(t *testing.T) {
	uc, _, slots, _, staff := setupUseCase()
	req := validRequest()
	// Слот ровно на текущую минуту недоступен: начало должно быть строго позже
	req.Date = time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	staff.On("GetDoctor", mock.Anything, req.DoctorID).
		Return(&staffservice.Doctor{ID: req.DoctorID, IsActive: true}, nil)
	slots.On("GetByID", mock.Anything, req.TimeSlotID).
		Return(&domain.TimeSlot{ID: req.TimeSlotID, Time: "09:00", IsActive: true}, nil)

	_, err := uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrPastSlot)
}

func TestCreateBooking_DoctorOnLeave(t *testing.T) {
	uc, _, slots, leaves, staff := setupUseCase()
	req := validRequest()

	staff.On("GetDoctor", mock.Anything, req.DoctorID).
		Return(&staffservice.Doctor{ID: req.DoctorID, IsActive: true}, nil)
	slots.On("GetByID", mock.Anything, req.TimeSlotID).
		Return(&domain.TimeSlot{ID: req.TimeSlotID, Time: "10:30", IsActive: true}, nil)
	leaves.On("FindActiveCovering", mock.Anything, req.DoctorID, req.TimeSlotID, req.Date).
		Return([]*domain.Leave{{ID: 1, DoctorID: req.DoctorID, TimeSlotID: req.TimeSlotID}}, nil)

	_, err := uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrDoctorUnavailable)
}

func TestCreateBooking_SlotTaken(t *testing.T) {
	uc, bookings, slots, leaves, staff := setupUseCase()
	req := validRequest()

	staff.On("GetDoctor", mock.Anything, req.DoctorID).
		Return(&staffservice.Doctor{ID: req.DoctorID, IsActive: true}, nil)
	slots.On("GetByID", mock.Anything, req.TimeSlotID).
		Return(&domain.TimeSlot{ID: req.TimeSlotID, Time: "10:30", IsActive: true}, nil)
	leaves.On("FindActiveCovering", mock.Anything, req.DoctorID, req.TimeSlotID, req.Date).
		Return([]*domain.Leave{}, nil)
	bookings.On("FindActive", mock.Anything, req.DoctorID, req.TimeSlotID, req.Date, (*int64)(nil)).
		Return([]*domain.Booking{{ID: 5, Status: domain.StatusPending}}, nil)

	_, err := uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrSlotTaken)
	bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateBooking_UniqueIndexConflict(t *testing.T) {
	uc, bookings, slots, leaves, staff := setupUseCase()
	req := validRequest()

	staff.On("GetDoctor", mock.Anything, req.DoctorID).
		Return(&staffservice.Doctor{ID: req.DoctorID, IsActive: true}, nil)
	slots.On("GetByID", mock.Anything, req.TimeSlotID).
		Return(&domain.TimeSlot{ID: req.TimeSlotID, Time: "10:30", IsActive: true}, nil)
	leaves.On("FindActiveCovering", mock.Anything, req.DoctorID, req.TimeSlotID, req.Date).
		Return([]*domain.Leave{}, nil)
	bookings.On("FindActive", mock.Anything, req.DoctorID, req.TimeSlotID, req.Date, (*int64)(nil)).
		Return([]*domain.Booking{}, nil)
	bookings.On("Create", mock.Anything, mock.Anything).
		Return(nil, bookingRepo.ErrSlotTaken)

	_, err := uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestCreateBooking_InvalidInput(t *testing.T) {
	uc, _, _, _, _ := setupUseCase()

	_, err := uc.Execute(context.Background(), &Request{UserID: 0, DoctorID: 7, TimeSlotID: 3, Date: time.Now()})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{UserID: 1, DoctorID: 7, TimeSlotID: 3})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
