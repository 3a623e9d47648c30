package domain

import "time"

// History диагностическая запись приёма
// Создается не более одной на бронирование, только после даты приёма
type History struct {
	ID           int64
	BookingID    int64
	Reason       string
	Prescription string

	CreatedAt time.Time
}
