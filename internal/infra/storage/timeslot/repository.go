package timeslot

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/medzap/HMS-BookingService/internal/domain"
	"github.com/medzap/HMS-BookingService/pkg/dbmetrics"
	"github.com/medzap/HMS-BookingService/pkg/psqlbuilder"
	"github.com/medzap/HMS-BookingService/pkg/types"
)

// Repository репозиторий каталога слотов и связей больница/врач - слот
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListActive возвращает активные слоты каталога с пагинацией,
// отсортированные по времени создания
func (r *Repository) ListActive(ctx context.Context, page, limit int) ([]*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("id", "slot_time", "is_active", "created_at").
		From("time_slots").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("created_at ASC, id ASC")

	if limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(limit))
		if page > 1 {
			selectBuilder = selectBuilder.Offset(uint64((page - 1) * limit))
		}
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanTimeSlots(rows)
}

// GetByID получает слот по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "slot_time", "is_active", "created_at").
		From("time_slots").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var slot domain.TimeSlot
	var createdAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&slot.ID,
		&slot.Time,
		&slot.IsActive,
		&createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrTimeSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan time slot: %v", ErrScanRow, err)
	}

	slot.CreatedAt = createdAt.Time
	return &slot, nil
}

// GetByIDs получает слоты по списку ID (только активные)
// Отсутствующие ID молча пропускаются - вызывающий сравнивает размеры
func (r *Repository) GetByIDs(ctx context.Context, ids []int64) ([]*domain.TimeSlot, error) {
	if len(ids) == 0 {
		return []*domain.TimeSlot{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "slot_time", "is_active", "created_at").
		From("time_slots").
		Where(squirrel.Eq{"id": ids, "is_active": true}).
		OrderBy("slot_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanTimeSlots(rows)
}

// FindByTimes возвращает слоты каталога с указанными значениями времени
// Используется для проверки дубликатов при добавлении слотов
func (r *Repository) FindByTimes(ctx context.Context, times []types.TimeString) ([]*domain.TimeSlot, error) {
	if len(times) == 0 {
		return []*domain.TimeSlot{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	values := make([]string, len(times))
	for i, t := range times {
		values[i] = t.String()
	}

	query, args, err := psqlbuilder.Select("id", "slot_time", "is_active", "created_at").
		From("time_slots").
		Where(squirrel.Eq{"slot_time": values}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindByTimes - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindByTimes - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanTimeSlots(rows)
}

// InsertMany вставляет новые слоты каталога
func (r *Repository) InsertMany(ctx context.Context, times []types.TimeString) ([]*domain.TimeSlot, error) {
	if len(times) == 0 {
		return []*domain.TimeSlot{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert("time_slots").Columns("slot_time")
	for _, t := range times {
		insertBuilder = insertBuilder.Values(t.String())
	}

	query, args, err := insertBuilder.
		Suffix("RETURNING id, slot_time, is_active, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: InsertMany - build insert query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: InsertMany - execute insert: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanTimeSlots(rows)
}

// Deactivate деактивирует слот каталога (soft delete)
func (r *Repository) Deactivate(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("time_slots").
		Set("is_active", false).
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
		return ErrTimeSlotNotFound
	}
	return nil
}

// GetHospitalSlotIDs возвращает ID слотов, активных для больницы
func (r *Repository) GetHospitalSlotIDs(ctx context.Context, hospitalID int64) ([]int64, error) {
	return r.getLinkSlotIDs(ctx, "hospital_time_slots", "hospital_id", hospitalID)
}

// GetDoctorSlotIDs возвращает ID слотов, активных для врача
func (r *Repository) GetDoctorSlotIDs(ctx context.Context, doctorID int64) ([]int64, error) {
	return r.getLinkSlotIDs(ctx, "doctor_time_slots", "doctor_id", doctorID)
}

// UpsertHospitalLinks создает или активирует связи больницы со слотами
func (r *Repository) UpsertHospitalLinks(ctx context.Context, hospitalID int64, slotIDs []int64) error {
	return r.upsertLinks(ctx, "hospital_time_slots", "hospital_id", hospitalID, slotIDs)
}

// UpsertDoctorLinks создает или активирует связи врача со слотами
func (r *Repository) UpsertDoctorLinks(ctx context.Context, doctorID int64, slotIDs []int64) error {
	return r.upsertLinks(ctx, "doctor_time_slots", "doctor_id", doctorID, slotIDs)
}

// DeactivateHospitalLinks деактивирует связи больницы со слотами
func (r *Repository) DeactivateHospitalLinks(ctx context.Context, hospitalID int64, slotIDs []int64) error {
	return r.deactivateLinks(ctx, "hospital_time_slots", "hospital_id", hospitalID, slotIDs)
}

// DeactivateDoctorLinks деактивирует связи врача со слотами
func (r *Repository) DeactivateDoctorLinks(ctx context.Context, doctorID int64, slotIDs []int64) error {
	return r.deactivateLinks(ctx, "doctor_time_slots", "doctor_id", doctorID, slotIDs)
}

// CountDoctorLinks возвращает число активных связей врачей со слотом
// среди указанных врачей. Используется как guard при удалении слота
// из набора больницы
func (r *Repository) CountDoctorLinks(ctx context.Context, slotID int64, doctorIDs []int64) (int, error) {
	if len(doctorIDs) == 0 {
		return 0, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("doctor_time_slots").
		Where(squirrel.Eq{
			"time_slot_id": slotID,
			"doctor_id":    doctorIDs,
			"is_active":    true,
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountDoctorLinks - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountDoctorLinks - scan count: %v", ErrScanRow, err)
	}
	return count, nil
}

func (r *Repository) getLinkSlotIDs(ctx context.Context, table, ownerColumn string, ownerID int64) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("time_slot_id").
		From(table).
		Where(squirrel.Eq{ownerColumn: ownerID, "is_active": true}).
		OrderBy("time_slot_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getLinkSlotIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getLinkSlotIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: getLinkSlotIDs - scan id: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getLinkSlotIDs - rows error: %v", ErrScanRow, err)
	}
	return ids, nil
}

func (r *Repository) upsertLinks(ctx context.Context, table, ownerColumn string, ownerID int64, slotIDs []int64) error {
	if len(slotIDs) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert(table).Columns(ownerColumn, "time_slot_id", "is_active")
	for _, slotID := range slotIDs {
		insertBuilder = insertBuilder.Values(ownerID, slotID, true)
	}

	query, args, err := insertBuilder.
		Suffix(fmt.Sprintf("ON CONFLICT (%s, time_slot_id) DO UPDATE SET is_active = TRUE", ownerColumn)).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: upsertLinks - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: upsertLinks - execute insert: %v", ErrExecQuery, err)
	}
	return nil
}

func (r *Repository) deactivateLinks(ctx context.Context, table, ownerColumn string, ownerID int64, slotIDs []int64) error {
	if len(slotIDs) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("is_active", false).
		Where(squirrel.Eq{ownerColumn: ownerID, "time_slot_id": slotIDs}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: deactivateLinks - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: deactivateLinks - execute update: %v", ErrExecQuery, err)
	}
	return nil
}

// scanTimeSlots сканирует результаты запроса в слайс слотов
func (r *Repository) scanTimeSlots(rows *sql.Rows) ([]*domain.TimeSlot, error) {
	slots := make([]*domain.TimeSlot, 0)

	for rows.Next() {
		var slot domain.TimeSlot
		var createdAt sql.NullTime

		if err := rows.Scan(&slot.ID, &slot.Time, &slot.IsActive, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: scanTimeSlots - scan row: %v", ErrScanRow, err)
		}

		slot.CreatedAt = createdAt.Time
		slots = append(slots, &slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanTimeSlots - rows error: %v", ErrScanRow, err)
	}
	return slots, nil
}
