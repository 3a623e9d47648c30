package timeslots

import (
	"context"

	"github.com/medzap/HMS-BookingService/internal/domain"
	"github.com/medzap/HMS-BookingService/internal/integrations/staffservice"
	"github.com/medzap/HMS-BookingService/pkg/types"
)

// TimeSlotRepository - интерфейс для работы с каталогом слотов и привязками
type TimeSlotRepository interface {
	ListActive(ctx context.Context, page, limit int) ([]*domain.TimeSlot, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*domain.TimeSlot, error)
	FindByTimes(ctx context.Context, times []types.TimeString) ([]*domain.TimeSlot, error)
	InsertMany(ctx context.Context, times []types.TimeString) ([]*domain.TimeSlot, error)
	GetHospitalSlotIDs(ctx context.Context, hospitalID int64) ([]int64, error)
	GetDoctorSlotIDs(ctx context.Context, doctorID int64) ([]int64, error)
	UpsertHospitalLinks(ctx context.Context, hospitalID int64, slotIDs []int64) error
	UpsertDoctorLinks(ctx context.Context, doctorID int64, slotIDs []int64) error
	DeactivateHospitalLinks(ctx context.Context, hospitalID int64, slotIDs []int64) error
	DeactivateDoctorLinks(ctx context.Context, doctorID int64, slotIDs []int64) error
	CountDoctorLinks(ctx context.Context, slotID int64, doctorIDs []int64) (int, error)
}

// StaffClient - интерфейс для получения данных о врачах и больницах
type StaffClient interface {
	GetDoctor(ctx context.Context, doctorID int64) (*staffservice.Doctor, error)
	GetHospital(ctx context.Context, hospitalID int64) (*staffservice.Hospital, error)
}

// TxManager - интерфейс для выполнения операций в транзакции
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger - интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
