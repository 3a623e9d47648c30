package booking

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medzap/HMS-BookingService/internal/domain"
)

func setupTestRepository(t *testing.T) (*Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

func bookingRows(b *domain.Booking) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "doctor_id", "user_id", "time_slot_id", "booking_date",
		"price", "status", "created_at", "updated_at",
	}).AddRow(
		b.ID, b.DoctorID, b.UserID, b.TimeSlotID, b.BookingDate,
		b.Price, b.Status, b.CreatedAt, b.UpdatedAt,
	)
}

func TestRepository_Create(t *testing.T) {
	repo, mock, cleanup := setupTestRepository(t)
	defer cleanup()

	date := time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

	booking := &domain.Booking{
		DoctorID:    7,
		UserID:      100,
		TimeSlotID:  3,
		BookingDate: date,
		Price:       2500,
		Status:      domain.StatusPending,
	}

	mock.ExpectQuery("INSERT INTO bookings").
		WithArgs(booking.DoctorID, booking.UserID, booking.TimeSlotID, booking.BookingDate, booking.Price, booking.Status).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(42), now, now))

	created, err := repo.Create(context.Background(), booking)

	require.NoError(t, err)
	assert.Equal(t, int64(42), created.ID)
	assert.Equal(t, now, created.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_UniqueViolation(t *testing.T) {
	repo, mock, cleanup := setupTestRepository(t)
	defer cleanup()

	booking := &domain.Booking{
		DoctorID:    7,
		UserID:      100,
		TimeSlotID:  3,
		BookingDate: time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC),
		Price:       2500,
		Status:      domain.StatusPending,
	}

	mock.ExpectQuery("INSERT INTO bookings").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "uq_bookings_active_slot"})

	_, err := repo.Create(context.Background(), booking)

	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID(t *testing.T) {
	repo, mock, cleanup := setupTestRepository(t)
	defer cleanup()

	expected := &domain.Booking{
		ID:          42,
		DoctorID:    7,
		UserID:      100,
		TimeSlotID:  3,
		BookingDate: time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC),
		Price:       2500,
		Status:      domain.StatusAccepted,
		CreatedAt:   time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC),
	}

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = \\$1").
		WithArgs(int64(42)).
		WillReturnRows(bookingRows(expected))

	booking, err := repo.GetByID(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, expected.ID, booking.ID)
	assert.Equal(t, expected.Status, booking.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, mock, cleanup := setupTestRepository(t)
	defer cleanup()

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = \\$1").
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99)

	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindActive(t *testing.T) {
	repo, mock, cleanup := setupTestRepository(t)
	defer cleanup()

	date := time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)
	existing := &domain.Booking{
		ID:          10,
		DoctorID:    7,
		UserID:      200,
		TimeSlotID:  3,
		BookingDate: date,
		Price:       2500,
		Status:      domain.StatusPending,
	}

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE").
		WillReturnRows(bookingRows(existing))

	bookings, err := repo.FindActive(context.Background(), 7, 3, date, nil)

	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, int64(10), bookings[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetActiveSlotIDsByDate(t *testing.T) {
	repo, mock, cleanup := setupTestRepository(t)
	defer cleanup()

	date := time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT DISTINCT time_slot_id FROM bookings").
		WillReturnRows(sqlmock.NewRows([]string{"time_slot_id"}).
			AddRow(int64(3)).
			AddRow(int64(5)))

	ids, err := repo.GetActiveSlotIDsByDate(context.Background(), 7, date)

	require.NoError(t, err)
	assert.Equal(t, []int64{3, 5}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatus(t *testing.T) {
	repo, mock, cleanup := setupTestRepository(t)
	defer cleanup()

	mock.ExpectExec("UPDATE bookings SET").
		WithArgs(domain.StatusCanceled, int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatus(context.Background(), 42, domain.StatusCanceled)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatus_NotFound(t *testing.T) {
	repo, mock, cleanup := setupTestRepository(t)
	defer cleanup()

	mock.ExpectExec("UPDATE bookings SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), 99, domain.StatusCanceled)

	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateSlot_UniqueViolation(t *testing.T) {
	repo, mock, cleanup := setupTestRepository(t)
	defer cleanup()

	mock.ExpectExec("UPDATE bookings SET").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "uq_bookings_active_slot"})

	err := repo.UpdateSlot(context.Background(), 42, 5)

	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}
