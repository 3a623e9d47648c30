package create_booking

import (
	"time"

	"github.com/medzap/HMS-BookingService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	UserID     int64     // ID пациента
	DoctorID   int64     // ID врача
	TimeSlotID int64     // ID слота каталога
	Date       time.Time // Дата приёма (без времени)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID          int64            // ID созданного бронирования
	UserID      int64            // ID пациента
	DoctorID    int64            // ID врача
	TimeSlotID  int64            // ID слота
	SlotTime    types.TimeString // Время слота (например, "10:30")
	BookingDate time.Time        // Дата приёма
	Price       float64          // Стоимость приёма на момент создания
	Status      string           // Статус бронирования

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
