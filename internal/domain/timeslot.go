package domain

import (
	"time"

	"github.com/medzap/HMS-BookingService/pkg/types"
)

// TimeSlot глобальный слот каталога - время суток, доступное для записи
// Слоты никогда не удаляются физически, только деактивируются
type TimeSlot struct {
	ID        int64
	Time      types.TimeString
	IsActive  bool
	CreatedAt time.Time
}

// HospitalSlotLink связь больницы со слотом каталога
// Определяет подмножество каталога, которое больница предлагает
type HospitalSlotLink struct {
	ID         int64
	HospitalID int64
	TimeSlotID int64
	IsActive   bool
}

// DoctorSlotLink связь врача со слотом каталога
type DoctorSlotLink struct {
	ID         int64
	DoctorID   int64
	TimeSlotID int64
	IsActive   bool
}

// SlotSetDiff результат сравнения желаемого набора слотов с текущим
type SlotSetDiff struct {
	ToAdd    []int64
	ToRemove []int64
}

// DiffSlotSets вычисляет, какие слоты нужно добавить и какие убрать,
// чтобы перейти от current к desired
func DiffSlotSets(current, desired []int64) SlotSetDiff {
	currentSet := make(map[int64]struct{}, len(current))
	for _, id := range current {
		currentSet[id] = struct{}{}
	}
	desiredSet := make(map[int64]struct{}, len(desired))
	for _, id := range desired {
		desiredSet[id] = struct{}{}
	}

	diff := SlotSetDiff{
		ToAdd:    make([]int64, 0),
		ToRemove: make([]int64, 0),
	}
	for _, id := range desired {
		if _, ok := currentSet[id]; !ok {
			diff.ToAdd = append(diff.ToAdd, id)
		}
	}
	for _, id := range current {
		if _, ok := desiredSet[id]; !ok {
			diff.ToRemove = append(diff.ToRemove, id)
		}
	}
	return diff
}
