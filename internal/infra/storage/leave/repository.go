package leave

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/medzap/HMS-BookingService/internal/domain"
	"github.com/medzap/HMS-BookingService/pkg/dbmetrics"
	"github.com/medzap/HMS-BookingService/pkg/psqlbuilder"
)

const leaveColumns = "id, doctor_id, time_slot_id, start_date, end_date, status, created_at"

// Repository репозиторий для работы с отсутствиями врачей
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория отсутствий
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// FindActiveCovering возвращает активные отсутствия врача по слоту,
// чей диапазон дат покрывает указанную дату
func (r *Repository) FindActiveCovering(ctx context.Context, doctorID, timeSlotID int64, date time.Time) ([]*domain.Leave, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(leaveColumns).
		From("leaves").
		Where(squirrel.Eq{
			"doctor_id":    doctorID,
			"time_slot_id": timeSlotID,
			"status":       domain.RecordActive,
		}).
		Where(squirrel.LtOrEq{"start_date": date}).
		Where(squirrel.GtOrEq{"end_date": date}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindActiveCovering - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindActiveCovering - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanLeaves(rows)
}

// GetActiveSlotIDsByDate возвращает ID слотов, закрытых отсутствиями
// врача на дату. Используется при вычислении доступных слотов
func (r *Repository) GetActiveSlotIDsByDate(ctx context.Context, doctorID int64, date time.Time) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("DISTINCT time_slot_id").
		From("leaves").
		Where(squirrel.Eq{
			"doctor_id": doctorID,
			"status":    domain.RecordActive,
		}).
		Where(squirrel.LtOrEq{"start_date": date}).
		Where(squirrel.GtOrEq{"end_date": date}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveSlotIDsByDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveSlotIDsByDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: GetActiveSlotIDsByDate - scan id: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetActiveSlotIDsByDate - rows error: %v", ErrScanRow, err)
	}
	return ids, nil
}

// GetActiveSlotIDsByRange возвращает ID слотов с активными отсутствиями
// врача ровно на указанный диапазон дат
// Используется для обнаружения повторного запроса отсутствия
func (r *Repository) GetActiveSlotIDsByRange(ctx context.Context, doctorID int64, startDate, endDate time.Time) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("DISTINCT time_slot_id").
		From("leaves").
		Where(squirrel.Eq{
			"doctor_id":  doctorID,
			"status":     domain.RecordActive,
			"start_date": startDate,
			"end_date":   endDate,
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveSlotIDsByRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveSlotIDsByRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: GetActiveSlotIDsByRange - scan id: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetActiveSlotIDsByRange - rows error: %v", ErrScanRow, err)
	}
	return ids, nil
}

// InsertMany вставляет записи отсутствия, по одной на слот
func (r *Repository) InsertMany(ctx context.Context, leaves []*domain.Leave) error {
	if len(leaves) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert("leaves").
		Columns("doctor_id", "time_slot_id", "start_date", "end_date", "status")
	for _, l := range leaves {
		insertBuilder = insertBuilder.Values(l.DoctorID, l.TimeSlotID, l.StartDate, l.EndDate, l.Status)
	}

	query, args, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: InsertMany - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: InsertMany - execute insert: %v", ErrExecQuery, err)
	}
	return nil
}

// Deactivate деактивирует запись отсутствия (soft delete)
func (r *Repository) Deactivate(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("leaves").
		Set("status", domain.RecordInactive).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Deactivate - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Deactivate - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Deactivate - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrLeaveNotFound
	}
	return nil
}

// GetByDoctorID возвращает активные отсутствия врача
func (r *Repository) GetByDoctorID(ctx context.Context, doctorID int64) ([]*domain.Leave, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(leaveColumns).
		From("leaves").
		Where(squirrel.Eq{
			"doctor_id": doctorID,
			"status":    domain.RecordActive,
		}).
		OrderBy("start_date DESC, time_slot_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDoctorID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDoctorID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanLeaves(rows)
}

// scanLeaves сканирует результаты запроса в слайс отсутствий
func (r *Repository) scanLeaves(rows *sql.Rows) ([]*domain.Leave, error) {
	leaves := make([]*domain.Leave, 0)

	for rows.Next() {
		var l domain.Leave
		var createdAt sql.NullTime

		err := rows.Scan(
			&l.ID,
			&l.DoctorID,
			&l.TimeSlotID,
			&l.StartDate,
			&l.EndDate,
			&l.Status,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanLeaves - scan row: %v", ErrScanRow, err)
		}

		l.CreatedAt = createdAt.Time
		leaves = append(leaves, &l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanLeaves - rows error: %v", ErrScanRow, err)
	}
	return leaves, nil
}
