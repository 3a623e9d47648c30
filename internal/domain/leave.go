package domain

import (
	"time"

	"github.com/medzap/HMS-BookingService/pkg/types"
)

// LeaveType тип запрашиваемого отсутствия врача
type LeaveType int16

const (
	LeaveFull        LeaveType = 0 // Весь день - все слоты каталога
	LeaveHalfMorning LeaveType = 1 // Утренняя половина [10:00, 13:00)
	LeaveHalfEvening LeaveType = 2 // Вечерняя половина [13:00, 17:00)
	LeaveCustom      LeaveType = 3 // Явный список слотов от вызывающего
)

// IsValid проверяет, что тип отсутствия известен
func (t LeaveType) IsValid() bool {
	return t >= LeaveFull && t <= LeaveCustom
}

// Границы половин дня для HALF_MORNING и HALF_EVENING
const (
	HalfMorningStart types.TimeString = "10:00"
	HalfMorningEnd   types.TimeString = "13:00"
	HalfEveningStart types.TimeString = "13:00"
	HalfEveningEnd   types.TimeString = "17:00"
)

// Leave отсутствие врача: один слот на диапазон дат (включительно)
// Запрос на несколько слотов разворачивается в строку на каждый слот
type Leave struct {
	ID         int64
	DoctorID   int64
	TimeSlotID int64
	StartDate  time.Time
	EndDate    time.Time
	Status     RecordStatus

	CreatedAt time.Time
}

// Covers проверяет, что отсутствие покрывает указанную дату
// Сравнение только по дате, границы включительно
func (l *Leave) Covers(date time.Time) bool {
	d := truncateToDate(date)
	return !d.Before(truncateToDate(l.StartDate)) && !d.After(truncateToDate(l.EndDate))
}

// InHalfWindow проверяет, что время слота попадает в половину дня [from, to)
func InHalfWindow(t types.TimeString, from, to types.TimeString) bool {
	return !t.IsBefore(from) && t.IsBefore(to)
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
