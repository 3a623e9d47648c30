package grant_leave

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/medzap/HMS-BookingService/internal/domain"
	"github.com/medzap/HMS-BookingService/internal/integrations/notifyservice"
	"github.com/medzap/HMS-BookingService/internal/integrations/staffservice"
)

type MockTimeSlotRepository struct {
	mock.Mock
}

func (m *MockTimeSlotRepository) ListActive(ctx context.Context, page, limit int) ([]*domain.TimeSlot, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.TimeSlot), args.Error(1)
}

func (m *MockTimeSlotRepository) GetByIDs(ctx context.Context, ids []int64) ([]*domain.TimeSlot, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.TimeSlot), args.Error(1)
}

type MockLeaveRepository struct {
	mock.Mock
}

func (m *MockLeaveRepository) GetActiveSlotIDsByRange(ctx context.Context, doctorID int64, startDate, endDate time.Time) ([]int64, error) {
	args := m.Called(ctx, doctorID, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockLeaveRepository) InsertMany(ctx context.Context, leaves []*domain.Leave) error {
	args := m.Called(ctx, leaves)
	return args.Error(0)
}

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) GetAcceptedInRange(ctx context.Context, doctorID int64, slotIDs []int64, from, to time.Time) ([]*domain.Booking, error) {
	args := m.Called(ctx, doctorID, slotIDs, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
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

func (m *MockNotifyClient) BookingCanceled(ctx context.Context, notification notifyservice.BookingNotification) error {
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

func setupUseCase() (*UseCase, *MockTimeSlotRepository, *MockLeaveRepository, *MockBookingRepository, *MockStaffClient, *MockNotifyClient) {
	slots := &MockTimeSlotRepository{}
	leaves := &MockLeaveRepository{}
	bookings := &MockBookingRepository{}
	staff := &MockStaffClient{}
	notify := &MockNotifyClient{}

	uc := NewUseCase(slots, leaves, bookings, staff, notify, fakeTxManager{}, nopLogger{})
	uc.timeProvider = fixedTimeProvider{now: time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)}

	return uc, slots, leaves, bookings, staff, notify
}

func catalog() []*domain.TimeSlot {
	return []*domain.TimeSlot{
		{ID: 1, Time: "09:30", IsActive: true},
		{ID: 2, Time: "10:00", IsActive: true},
		{ID: 3, Time: "12:30", IsActive: true},
		{ID: 4, Time: "13:00", IsActive: true},
		{ID: 5, Time: "16:30", IsActive: true},
	}
}

func dateRange() (time.Time, time.Time) {
	return time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC)
}

func TestGrantLeave_HalfMorning(t *testing.T) {
	uc, slots, leaves, bookings, staff, _ := setupUseCase()
	from, to := dateRange()

	staff.On("GetDoctor", mock.Anything, int64(7)).
		Return(&staffservice.Doctor{ID: 7, HospitalID: 1, IsActive: true}, nil)
	slots.On("ListActive", mock.Anything, 0, 0).Return(catalog(), nil)
	// В окно [10:00, 13:00) попадают только слоты 2 и 3
	leaves.On("GetActiveSlotIDsByRange", mock.Anything, int64(7), from, to).Return([]int64{}, nil)
	bookings.On("GetAcceptedInRange", mock.Anything, int64(7), []int64{2, 3}, from, to).
		Return([]*domain.Booking{}, nil)
	leaves.On("InsertMany", mock.Anything, mock.MatchedBy(func(rows []*domain.Leave) bool {
		return len(rows) == 2 && rows[0].TimeSlotID == 2 && rows[1].TimeSlotID == 3
	})).Return(nil)

	resp, err := uc.Execute(context.Background(), &Request{
		DoctorID:  7,
		Type:      domain.LeaveHalfMorning,
		StartDate: from,
		EndDate:   to,
	})

	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, resp.SlotIDs)
	assert.Empty(t, resp.CanceledBookings)
	leaves.AssertExpectations(t)
}

func TestGrantLeave_CascadeCancelWithNotifications(t *testing.T) {
	uc, slots, leaves, bookings, staff, notify := setupUseCase()
	from, to := dateRange()

	doctor := &staffservice.Doctor{ID: 7, FullName: "Иванов И.И.", HospitalID: 1, IsActive: true}
	staff.On("GetDoctor", mock.Anything, int64(7)).Return(doctor, nil)
	slots.On("ListActive", mock.Anything, 0, 0).Return(catalog(), nil)
	leaves.On("GetActiveSlotIDsByRange", mock.Anything, int64(7), from, to).Return([]int64{}, nil)

	accepted := []*domain.Booking{
		{ID: 10, UserID: 100, DoctorID: 7, TimeSlotID: 1, BookingDate: from, Status: domain.StatusAccepted},
		{ID: 11, UserID: 101, DoctorID: 7, TimeSlotID: 4, BookingDate: to, Status: domain.StatusAccepted},
	}
	bookings.On("GetAcceptedInRange", mock.Anything, int64(7), []int64{1, 2, 3, 4, 5}, from, to).
		Return(accepted, nil)
	bookings.On("UpdateStatus", mock.Anything, int64(10), domain.StatusCanceled).Return(nil)
	bookings.On("UpdateStatus", mock.Anything, int64(11), domain.StatusCanceled).Return(nil)
	leaves.On("InsertMany", mock.Anything, mock.Anything).Return(nil)

	staff.On("GetHospital", mock.Anything, int64(1)).
		Return(&staffservice.Hospital{ID: 1, Name: "ГКБ №1"}, nil)
	staff.On("GetUser", mock.Anything, int64(100)).
		Return(&staffservice.User{ID: 100, FullName: "Петров П.П.", Email: "p@example.com"}, nil)
	staff.On("GetUser", mock.Anything, int64(101)).
		Return(&staffservice.User{ID: 101, FullName: "Сидоров С.С.", Email: "s@example.com"}, nil)
	notify.On("BookingCanceled", mock.Anything, mock.MatchedBy(func(n notifyservice.BookingNotification) bool {
		return n.Reason == cancellationReason
	})).Return(nil).Twice()

	resp, err := uc.Execute(context.Background(), &Request{
		DoctorID:  7,
		Type:      domain.LeaveFull,
		StartDate: from,
		EndDate:   to,
	})

	require.NoError(t, err)
	assert.Equal(t, []int64{10, 11}, resp.CanceledBookings)
	notify.AssertNumberOfCalls(t, "BookingCanceled", 2)
	bookings.AssertExpectations(t)
}

func TestGrantLeave_NotificationFailureDoesNotFail(t *testing.T) {
	uc, slots, leaves, bookings, staff, notify := setupUseCase()
	from, to := dateRange()

	doctor := &staffservice.Doctor{ID: 7, HospitalID: 1, IsActive: true}
	staff.On("GetDoctor", mock.Anything, int64(7)).Return(doctor, nil)
	slots.On("ListActive", mock.Anything, 0, 0).Return(catalog(), nil)
	leaves.On("GetActiveSlotIDsByRange", mock.Anything, int64(7), from, to).Return([]int64{}, nil)
	bookings.On("GetAcceptedInRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]*domain.Booking{
			{ID: 10, UserID: 100, DoctorID: 7, TimeSlotID: 1, BookingDate: from, Status: domain.StatusAccepted},
		}, nil)
	bookings.On("UpdateStatus", mock.Anything, int64(10), domain.StatusCanceled).Return(nil)
	leaves.On("InsertMany", mock.Anything, mock.Anything).Return(nil)
	staff.On("GetHospital", mock.Anything, int64(1)).
		Return(&staffservice.Hospital{ID: 1, Name: "ГКБ №1"}, nil)
	staff.On("GetUser", mock.Anything, int64(100)).
		Return(&staffservice.User{ID: 100, Email: "p@example.com"}, nil)
	notify.On("BookingCanceled", mock.Anything, mock.Anything).
		Return(notifyservice.ErrInternal)

	resp, err := uc.Execute(context.Background(), &Request{
		DoctorID:  7,
		Type:      domain.LeaveFull,
		StartDate: from,
		EndDate:   to,
	})

	require.NoError(t, err)
	assert.Equal(t, []int64{10}, resp.CanceledBookings)
}

func TestGrantLeave_Duplicate(t *testing.T) {
	uc, slots, leaves, _, staff, _ := setupUseCase()
	from, to := dateRange()

	staff.On("GetDoctor", mock.Anything, int64(7)).
		Return(&staffservice.Doctor{ID: 7, IsActive: true}, nil)
	slots.On("GetByIDs", mock.Anything, []int64{2, 3}).Return([]*domain.TimeSlot{
		{ID: 2, Time: "10:00"},
		{ID: 3, Time: "12:30"},
	}, nil)
	// Все запрошенные слоты уже закрыты на этот диапазон
	leaves.On("GetActiveSlotIDsByRange", mock.Anything, int64(7), from, to).Return([]int64{1, 2, 3}, nil)

	_, err := uc.Execute(context.Background(), &Request{
		DoctorID:    7,
		Type:        domain.LeaveCustom,
		StartDate:   from,
		EndDate:     to,
		TimeSlotIDs: []int64{2, 3},
	})

	assert.ErrorIs(t, err, ErrLeaveExists)
	leaves.AssertNotCalled(t, "InsertMany", mock.Anything, mock.Anything)
}

func TestGrantLeave_PartialOverlapIsNotDuplicate(t *testing.T) {
	uc, slots, leaves, bookings, staff, _ := setupUseCase()
	from, to := dateRange()

	staff.On("GetDoctor", mock.Anything, int64(7)).
		Return(&staffservice.Doctor{ID: 7, IsActive: true}, nil)
	slots.On("GetByIDs", mock.Anything, []int64{2, 3}).Return([]*domain.TimeSlot{
		{ID: 2, Time: "10:00"},
		{ID: 3, Time: "12:30"},
	}, nil)
	// Слот 3 еще не закрыт - запрос проходит
	leaves.On("GetActiveSlotIDsByRange", mock.Anything, int64(7), from, to).Return([]int64{2}, nil)
	bookings.On("GetAcceptedInRange", mock.Anything, int64(7), []int64{2, 3}, from, to).
		Return([]*domain.Booking{}, nil)
	leaves.On("InsertMany", mock.Anything, mock.Anything).Return(nil)

	resp, err := uc.Execute(context.Background(), &Request{
		DoctorID:    7,
		Type:        domain.LeaveCustom,
		StartDate:   from,
		EndDate:     to,
		TimeSlotIDs: []int64{2, 3},
	})

	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, resp.SlotIDs)
}

func TestGrantLeave_CustomUnknownSlots(t *testing.T) {
	uc, slots, _, _, staff, _ := setupUseCase()
	from, to := dateRange()

	staff.On("GetDoctor", mock.Anything, int64(7)).
		Return(&staffservice.Doctor{ID: 7, IsActive: true}, nil)
	// Слот 99 не существует
	slots.On("GetByIDs", mock.Anything, []int64{2, 99}).Return([]*domain.TimeSlot{
		{ID: 2, Time: "10:00"},
	}, nil)

	_, err := uc.Execute(context.Background(), &Request{
		DoctorID:    7,
		Type:        domain.LeaveCustom,
		StartDate:   from,
		EndDate:     to,
		TimeSlotIDs: []int64{2, 99},
	})

	assert.ErrorIs(t, err, ErrInvalidCustomLeave)
}

func TestGrantLeave_CustomEmptyList(t *testing.T) {
	uc, _, _, _, _, _ := setupUseCase()
	from, to := dateRange()

	_, err := uc.Execute(context.Background(), &Request{
		DoctorID:  7,
		Type:      domain.LeaveCustom,
		StartDate: from,
		EndDate:   to,
	})

	assert.ErrorIs(t, err, ErrInvalidCustomLeave)
}

func TestGrantLeave_InvalidDateRange(t *testing.T) {
	uc, _, _, _, _, _ := setupUseCase()

	_, err := uc.Execute(context.Background(), &Request{
		DoctorID:  7,
		Type:      domain.LeaveFull,
		StartDate: time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = uc.Execute(context.Background(), &Request{
		DoctorID:  7,
		Type:      domain.LeaveFull,
		StartDate: time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestGrantLeave_InvalidType(t *testing.T) {
	uc, _, _, _, _, _ := setupUseCase()
	from, to := dateRange()

	_, err := uc.Execute(context.Background(), &Request{
		DoctorID:  7,
		Type:      domain.LeaveType(42),
		StartDate: from,
		EndDate:   to,
	})

	assert.ErrorIs(t, err, ErrInvalidLeaveType)
}
