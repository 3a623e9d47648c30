package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/medzap/HMS-BookingService/internal/domain"
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

func (m *MockTimeSlotRepository) GetDoctorSlotIDs(ctx context.Context, doctorID int64) ([]int64, error) {
	args := m.Called(ctx, doctorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

type MockLeaveRepository struct {
	mock.Mock
}

func (m *MockLeaveRepository) GetActiveSlotIDsByDate(ctx context.Context, doctorID int64, date time.Time) ([]int64, error) {
	args := m.Called(ctx, doctorID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) GetActiveSlotIDsByDate(ctx context.Context, doctorID int64, date time.Time) ([]int64, error) {
	args := m.Called(ctx, doctorID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
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

func setupUseCase(now time.Time) (*UseCase, *MockTimeSlotRepository, *MockLeaveRepository, *MockBookingRepository, *MockStaffClient) {
	slots := &MockTimeSlotRepository{}
	leaves := &MockLeaveRepository{}
	bookings := &MockBookingRepository{}
	staff := &MockStaffClient{}

	uc := NewUseCase(slots, leaves, bookings, staff, nopLogger{})
	uc.timeProvider = fixedTimeProvider{now: now}

	return uc, slots, leaves, bookings, staff
}

func catalog() []*domain.TimeSlot {
	return []*domain.TimeSlot{
		{ID: 1, Time: "09:00", IsActive: true},
		{ID: 2, Time: "09:30", IsActive: true},
		{ID: 3, Time: "10:00", IsActive: true},
		{ID: 4, Time: "10:30", IsActive: true},
	}
}

func TestGetAvailableSlots_Subtraction(t *testing.T) {
	now := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	date := time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)
	uc, slots, leaves, bookings, staff := setupUseCase(now)

	staff.On("GetDoctor", mock.Anything, int64(7)).
		Return(&staffservice.Doctor{ID: 7, IsActive: true}, nil)
	slots.On("ListActive", mock.Anything, 0, 0).Return(catalog(), nil)
	leaves.On("GetActiveSlotIDsByDate", mock.Anything, int64(7), date).Return([]int64{2}, nil)
	bookings.On("GetActiveSlotIDsByDate", mock.Anything, int64(7), date).Return([]int64{4}, nil)

	resp, err := uc.Execute(context.Background(), &Request{DoctorID: 7, Date: date})

	require.NoError(t, err)
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, int64(1), resp.Slots[0].ID)
	assert.Equal(t, int64(3), resp.Slots[1].ID)
}

func TestGetAvailableSlots_TodayCutOff(t *testing.T) {
	// Сейчас 09:45: слоты 09:00 и 09:30 уже прошли
	now := time.Date(2025, 6, 10, 9, 45, 0, 0, time.UTC)
	date := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	uc, slots, leaves, bookings, staff := setupUseCase(now)

	staff.On("GetDoctor", mock.Anything, int64(7)).
		Return(&staffservice.Doctor{ID: 7, IsActive: true}, nil)
	slots.On("ListActive", mock.Anything, 0, 0).Return(catalog(), nil)
	leaves.On("GetActiveSlotIDsByDate", mock.Anything, int64(7), date).Return([]int64{}, nil)
	bookings.On("GetActiveSlotIDsByDate", mock.Anything, int64(7), date).Return([]int64{}, nil)

	resp, err := uc.Execute(context.Background(), &Request{DoctorID: 7, Date: date})

	require.NoError(t, err)
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, "10:00", resp.Slots[0].Time.String())
	assert.Equal(t, "10:30", resp.Slots[1].Time.String())
}

func TestGetAvailableSlots_SlotAtCurrentMinuteExcluded(t *testing.T) {
	// Сейчас ровно 10:00: слот 10:00 уже не предлагается,
	// доступны только времена строго позже текущего
	now := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	date := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	uc, slots, leaves, bookings, staff := setupUseCase(now)

	staff.On("GetDoctor", mock.Anything, int64(7)).
		Return(&staffservice.Doctor{ID: 7, IsActive: true}, nil)
	slots.On("ListActive", mock.Anything, 0, 0).Return(catalog(), nil)
	leaves.On("GetActiveSlotIDsByDate", mock.Anything, int64(7), date).Return([]int64{}, nil)
	bookings.On("GetActiveSlotIDsByDate", mock.Anything, int64(7), date).Return([]int64{}, nil)

	resp, err := uc.Execute(context.Background(), &Request{DoctorID: 7, Date: date})

	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, "10:30", resp.Slots[0].Time.String())
}

func TestGetAvailableSlots_AllTaken(t *testing.T) {
	now := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	date := time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)
	uc, slots, leaves, bookings, staff := setupUseCase(now)

	staff.On("GetDoctor", mock.Anything, int64(7)).
		Return(&staffservice.Doctor{ID: 7, IsActive: true}, nil)
	slots.On("ListActive", mock.Anything, 0, 0).Return(catalog(), nil)
	leaves.On("GetActiveSlotIDsByDate", mock.Anything, int64(7), date).Return([]int64{1, 2}, nil)
	bookings.On("GetActiveSlotIDsByDate", mock.Anything, int64(7), date).Return([]int64{3, 4}, nil)

	resp, err := uc.Execute(context.Background(), &Request{DoctorID: 7, Date: date})

	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestGetAvailableSlots_DateInPast(t *testing.T) {
	now := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	uc, _, _, _, _ := setupUseCase(now)

	_, err := uc.Execute(context.Background(), &Request{
		DoctorID: 7,
		Date:     time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC),
	})

	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestGetAvailableSlots_DoctorNotFound(t *testing.T) {
	now := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	uc, _, _, _, staff := setupUseCase(now)

	staff.On("GetDoctor", mock.Anything, int64(7)).
		Return(nil, staffservice.ErrDoctorNotFound)

	_, err := uc.Execute(context.Background(), &Request{
		DoctorID: 7,
		Date:     time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC),
	})

	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestGetAvailableSlots_ForDoctorConfig(t *testing.T) {
	now := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	date := time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)
	uc, slots, leaves, bookings, staff := setupUseCase(now)

	staff.On("GetDoctor", mock.Anything, int64(7)).
		Return(&staffservice.Doctor{ID: 7, IsActive: true}, nil)
	slots.On("GetDoctorSlotIDs", mock.Anything, int64(7)).Return([]int64{2, 3}, nil)
	slots.On("GetByIDs", mock.Anything, []int64{2, 3}).Return([]*domain.TimeSlot{
		{ID: 2, Time: "09:30", IsActive: true},
		{ID: 3, Time: "10:00", IsActive: true},
	}, nil)
	leaves.On("GetActiveSlotIDsByDate", mock.Anything, int64(7), date).Return([]int64{3}, nil)
	bookings.On("GetActiveSlotIDsByDate", mock.Anything, int64(7), date).Return([]int64{}, nil)

	resp, err := uc.ExecuteForDoctorConfig(context.Background(), &Request{DoctorID: 7, Date: date})

	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, int64(2), resp.Slots[0].ID)
}

func TestGetAvailableSlots_ForDoctorConfig_EmptySet(t *testing.T) {
	now := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	date := time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)
	uc, slots, leaves, bookings, staff := setupUseCase(now)

	staff.On("GetDoctor", mock.Anything, int64(7)).
		Return(&staffservice.Doctor{ID: 7, IsActive: true}, nil)
	slots.On("GetDoctorSlotIDs", mock.Anything, int64(7)).Return([]int64{}, nil)
	leaves.On("GetActiveSlotIDsByDate", mock.Anything, int64(7), date).Return([]int64{}, nil)
	bookings.On("GetActiveSlotIDsByDate", mock.Anything, int64(7), date).Return([]int64{}, nil)

	resp, err := uc.ExecuteForDoctorConfig(context.Background(), &Request{DoctorID: 7, Date: date})

	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}
