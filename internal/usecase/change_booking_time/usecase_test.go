package change_booking_time

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/medzap/HMS-BookingService/internal/domain"
	bookingRepo "github.com/medzap/HMS-BookingService/internal/infra/storage/booking"
	"github.com/medzap/HMS-BookingService/internal/integrations/notifyservice"
	"github.com/medzap/HMS-BookingService/internal/integrations/staffservice"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
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

func (m *MockBookingRepository) UpdateSlot(ctx context.Context, id int64, timeSlotID int64) error {
	args := m.Called(ctx, id, timeSlotID)
	return args.Error(0)
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

func (m *MockStaffClient) GetHospital(ctx context.Context, hospitalID int64) (*staffservice.Hospital, error) {
	args := m.Called(ctx, hospitalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*staffservice.Hospital), args.Error(1)
}

func (m *MockStaffClient) GetUser(ctx context.Context, userID int64) (*staffservice.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*staffservice.User), args.Error(1)
}

type MockNotifyClient struct {
	mock.Mock
}

func (m *MockNotifyClient) BookingRescheduled(ctx context.Context, notification notifyservice.BookingNotification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

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

func setupUseCase() (*UseCase, *MockBookingRepository, *MockTimeSlotRepository, *MockLeaveRepository, *MockStaffClient, *MockNotifyClient) {
	bookings := &MockBookingRepository{}
	slots := &MockTimeSlotRepository{}
	leaves := &MockLeaveRepository{}
	staff := &MockStaffClient{}
	notify := &MockNotifyClient{}

	uc := NewUseCase(bookings, slots, leaves, staff, notify, fakeTxManager{}, nopLogger{})
	uc.timeProvider = fixedTimeProvider{now: time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)}

	return uc, bookings, slots, leaves, staff, notify
}

func pendingBooking() *domain.Booking {
	return &domain.Booking{
		ID:          42,
		UserID:      100,
		DoctorID:    7,
		TimeSlotID:  3,
		BookingDate: time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC),
		Status:      domain.StatusPending,
	}
}

func TestChangeBookingTime_Success(t *testing.T) {
	uc, bookings, slots, leaves, staff, notify := setupUseCase()
	booking := pendingBooking()

	bookings.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
	slots.On("GetByID", mock.Anything, int64(5)).
		Return(&domain.TimeSlot{ID: 5, Time: "15:00", IsActive: true}, nil)
	leaves.On("FindActiveCovering", mock.Anything, booking.DoctorID, int64(5), booking.BookingDate).
		Return([]*domain.Leave{}, nil)
	bookings.On("FindActive", mock.Anything, booking.DoctorID, int64(5), booking.BookingDate, &booking.ID).
		Return([]*domain.Booking{}, nil)
	bookings.On("UpdateSlot", mock.Anything, booking.ID, int64(5)).Return(nil)

	staff.On("GetDoctor", mock.Anything, booking.DoctorID).
		Return(&staffservice.Doctor{ID: 7, HospitalID: 1, FullName: "Иванов И.И."}, nil)
	staff.On("GetHospital", mock.Anything, int64(1)).
		Return(&staffservice.Hospital{ID: 1, Name: "ГКБ №1"}, nil)
	staff.On("GetUser", mock.Anything, booking.UserID).
		Return(&staffservice.User{ID: 100, Email: "p@example.com"}, nil)
	notify.On("BookingRescheduled", mock.Anything, mock.Anything).Return(nil)

	resp, err := uc.Execute(context.Background(), &Request{
		BookingID:     booking.ID,
		NewTimeSlotID: 5,
		Actor:         Actor{ID: 100, Role: domain.RoleUser},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(5), resp.TimeSlotID)
	assert.Equal(t, "15:00", resp.SlotTime.String())
	assert.Equal(t, "pending", resp.Status)
	notify.AssertNumberOfCalls(t, "BookingRescheduled", 1)
}

func TestChangeBookingTime_SlotOccupied(t *testing.T) {
	uc, bookings, slots, leaves, _, notify := setupUseCase()
	booking := pendingBooking()

	bookings.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
	slots.On("GetByID", mock.Anything, int64(5)).
		Return(&domain.TimeSlot{ID: 5, Time: "15:00", IsActive: true}, nil)
	leaves.On("FindActiveCovering", mock.Anything, booking.DoctorID, int64(5), booking.BookingDate).
		Return([]*domain.Leave{}, nil)
	bookings.On("FindActive", mock.Anything, booking.DoctorID, int64(5), booking.BookingDate, &booking.ID).
		Return([]*domain.Booking{{ID: 77, Status: domain.StatusAccepted}}, nil)

	_, err := uc.Execute(context.Background(), &Request{
		BookingID:     booking.ID,
		NewTimeSlotID: 5,
		Actor:         Actor{ID: 100, Role: domain.RoleUser},
	})

	assert.ErrorIs(t, err, ErrSlotTaken)
	bookings.AssertNotCalled(t, "UpdateSlot", mock.Anything, mock.Anything, mock.Anything)
	notify.AssertNotCalled(t, "BookingRescheduled", mock.Anything, mock.Anything)
}

func TestChangeBookingTime_SlotCoveredByLeave(t *testing.T) {
	uc, bookings, slots, leaves, _, _ := setupUseCase()
	booking := pendingBooking()

	bookings.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
	slots.On("GetByID", mock.Anything, int64(5)).
		Return(&domain.TimeSlot{ID: 5, Time: "15:00", IsActive: true}, nil)
	leaves.On("FindActiveCovering", mock.Anything, booking.DoctorID, int64(5), booking.BookingDate).
		Return([]*domain.Leave{{ID: 1, DoctorID: 7, TimeSlotID: 5}}, nil)

	_, err := uc.Execute(context.Background(), &Request{
		BookingID:     booking.ID,
		NewTimeSlotID: 5,
		Actor:         Actor{ID: 100, Role: domain.RoleUser},
	})

	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestChangeBookingTime_UniqueIndexConflict(t *testing.T) {
	uc, bookings, slots, leaves, _, _ := setupUseCase()
	booking := pendingBooking()

	bookings.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
	slots.On("GetByID", mock.Anything, int64(5)).
		Return(&domain.TimeSlot{ID: 5, Time: "15:00", IsActive: true}, nil)
	leaves.On("FindActiveCovering", mock.Anything, booking.DoctorID, int64(5), booking.BookingDate).
		Return([]*domain.Leave{}, nil)
	bookings.On("FindActive", mock.Anything, booking.DoctorID, int64(5), booking.BookingDate, &booking.ID).
		Return([]*domain.Booking{}, nil)
	bookings.On("UpdateSlot", mock.Anything, booking.ID, int64(5)).Return(bookingRepo.ErrSlotTaken)

	_, err := uc.Execute(context.Background(), &Request{
		BookingID:     booking.ID,
		NewTimeSlotID: 5,
		Actor:         Actor{ID: 100, Role: domain.RoleUser},
	})

	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestChangeBookingTime_ForeignBookingHiddenFromUser(t *testing.T) {
	uc, bookings, _, _, _, _ := setupUseCase()
	booking := pendingBooking()

	bookings.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)

	// Чужой пациент не видит бронирование
	_, err := uc.Execute(context.Background(), &Request{
		BookingID:     booking.ID,
		NewTimeSlotID: 5,
		Actor:         Actor{ID: 999, Role: domain.RoleUser},
	})
	assert.ErrorIs(t, err, ErrBookingNotFound)

	// Чужой врач тоже
	_, err = uc.Execute(context.Background(), &Request{
		BookingID:     booking.ID,
		NewTimeSlotID: 5,
		Actor:         Actor{ID: 999, Role: domain.RoleDoctor},
	})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestChangeBookingTime_AdminSeesAnyBooking(t *testing.T) {
	uc, bookings, slots, leaves, staff, notify := setupUseCase()
	booking := pendingBooking()

	bookings.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
	slots.On("GetByID", mock.Anything, int64(5)).
		Return(&domain.TimeSlot{ID: 5, Time: "15:00", IsActive: true}, nil)
	leaves.On("FindActiveCovering", mock.Anything, booking.DoctorID, int64(5), booking.BookingDate).
		Return([]*domain.Leave{}, nil)
	bookings.On("FindActive", mock.Anything, booking.DoctorID, int64(5), booking.BookingDate, &booking.ID).
		Return([]*domain.Booking{}, nil)
	bookings.On("UpdateSlot", mock.Anything, booking.ID, int64(5)).Return(nil)
	staff.On("GetDoctor", mock.Anything, booking.DoctorID).
		Return(&staffservice.Doctor{ID: 7, HospitalID: 1}, nil)
	staff.On("GetHospital", mock.Anything, int64(1)).
		Return(&staffservice.Hospital{ID: 1}, nil)
	staff.On("GetUser", mock.Anything, booking.UserID).
		Return(&staffservice.User{ID: 100}, nil)
	notify.On("BookingRescheduled", mock.Anything, mock.Anything).Return(nil)

	_, err := uc.Execute(context.Background(), &Request{
		BookingID:     booking.ID,
		NewTimeSlotID: 5,
		Actor:         Actor{ID: 1, Role: domain.RoleAdmin},
	})

	require.NoError(t, err)
}

func TestChangeBookingTime_TerminalBooking(t *testing.T) {
	uc, bookings, _, _, _, _ := setupUseCase()
	booking := pendingBooking()
	booking.Status = domain.StatusCanceled

	bookings.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)

	_, err := uc.Execute(context.Background(), &Request{
		BookingID:     booking.ID,
		NewTimeSlotID: 5,
		Actor:         Actor{ID: 100, Role: domain.RoleUser},
	})

	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestChangeBookingTime_PastSlotToday(t *testing.T) {
	uc, bookings, slots, _, _, _ := setupUseCase()
	booking := pendingBooking()
	// Приём сегодня, время нового слота уже прошло (сейчас 09:00)
	booking.BookingDate = time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	bookings.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
	slots.On("GetByID", mock.Anything, int64(5)).
		Return(&domain.TimeSlot{ID: 5, Time: "08:30", IsActive: true}, nil)

	_, err := uc.Execute(context.Background(), &Request{
		BookingID:     booking.ID,
		NewTimeSlotID: 5,
		Actor:         Actor{ID: 100, Role: domain.RoleUser},
	})

	assert.ErrorIs(t, err, ErrPastSlot)
}

func TestChangeBookingTime_DeactivatedSlot(t *testing.T) {
	uc, bookings, slots, _, _, notify := setupUseCase()
	booking := pendingBooking()

	bookings.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
	// Целевой слот выведен из каталога, но строка еще существует
	slots.On("GetByID", mock.Anything, int64(5)).
		Return(&domain.TimeSlot{ID: 5, Time: "15:00", IsActive: false}, nil)

	_, err := uc.Execute(context.Background(), &Request{
		BookingID:     booking.ID,
		NewTimeSlotID: 5,
		Actor:         Actor{ID: 100, Role: domain.RoleUser},
	})

	assert.ErrorIs(t, err, ErrSlotNotFound)
	bookings.AssertNotCalled(t, "UpdateSlot", mock.Anything, mock.Anything, mock.Anything)
	notify.AssertNotCalled(t, "BookingRescheduled", mock.Anything, mock.Anything)
}
