package get_available_slots

import (
	"time"

	"github.com/medzap/HMS-BookingService/pkg/types"
)

// Request модель запроса свободных слотов врача на дату
type Request struct {
	DoctorID int64     // ID врача
	Date     time.Time // Дата приёма (без времени)
}

// AvailableSlot свободный слот в ответе
type AvailableSlot struct {
	ID   int64            // ID слота каталога
	Time types.TimeString // Время слота
}

// Response модель ответа со свободными слотами
type Response struct {
	DoctorID int64           // ID врача
	Date     time.Time       // Дата приёма
	Slots    []AvailableSlot // Свободные слоты, отсортированные по времени
}
