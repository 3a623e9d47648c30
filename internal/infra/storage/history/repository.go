package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/medzap/HMS-BookingService/internal/domain"
	"github.com/medzap/HMS-BookingService/pkg/dbmetrics"
	"github.com/medzap/HMS-BookingService/pkg/psqlbuilder"
)

const uniqueViolation = "23505"

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий диагностических записей
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория истории
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByBookingID получает запись истории по ID бронирования
func (r *Repository) GetByBookingID(ctx context.Context, bookingID int64) (*domain.History, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "booking_id", "reason", "prescription", "created_at").
		From("histories").
		Where(squirrel.Eq{"booking_id": bookingID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookingID - build select query: %v", ErrBuildQuery, err)
	}

	var h domain.History
	var createdAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&h.ID,
		&h.BookingID,
		&h.Reason,
		&h.Prescription,
		&createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrHistoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookingID - scan history: %v", ErrScanRow, err)
	}

	h.CreatedAt = createdAt.Time
	return &h, nil
}

// Create создает запись истории для бронирования
// Уникальный индекс по booking_id гарантирует не более одной записи,
// нарушение транслируется в ErrDuplicateHistory
func (r *Repository) Create(ctx context.Context, h *domain.History) (*domain.History, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("histories").
		Columns("booking_id", "reason", "prescription").
		Values(h.BookingID, h.Reason, h.Prescription).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&h.ID, &createdAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return nil, ErrDuplicateHistory
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	h.CreatedAt = createdAt.Time
	return h, nil
}

// ListByDoctorID возвращает записи истории по бронированиям врача
// с пагинацией, сначала новые
func (r *Repository) ListByDoctorID(ctx context.Context, doctorID int64, page, limit int) ([]*domain.History, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("h.id", "h.booking_id", "h.reason", "h.prescription", "h.created_at").
		From("histories h").
		Join("bookings b ON b.id = h.booking_id").
		Where(squirrel.Eq{"b.doctor_id": doctorID}).
		OrderBy("h.created_at DESC, h.id DESC")

	if limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(limit))
		if page > 1 {
			selectBuilder = selectBuilder.Offset(uint64((page - 1) * limit))
		}
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDoctorID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDoctorID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	histories := make([]*domain.History, 0)
	for rows.Next() {
		var h domain.History
		var createdAt sql.NullTime

		if err := rows.Scan(&h.ID, &h.BookingID, &h.Reason, &h.Prescription, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: ListByDoctorID - scan row: %v", ErrScanRow, err)
		}

		h.CreatedAt = createdAt.Time
		histories = append(histories, &h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByDoctorID - rows error: %v", ErrScanRow, err)
	}
	return histories, nil
}
