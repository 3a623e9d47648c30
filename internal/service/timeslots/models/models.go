package models

import "github.com/medzap/HMS-BookingService/internal/domain"

// AddTimesRequest - запрос на пополнение каталога слотов.
// Либо явный список времен, либо сетка From..To с шагом 30 минут
type AddTimesRequest struct {
	Times []string `json:"times,omitempty"`
	From  string   `json:"from,omitempty"`
	To    string   `json:"to,omitempty"`
}

// IsValid проверяет, что запрос задан хотя бы одним способом
func (r AddTimesRequest) IsValid() bool {
	if len(r.Times) > 0 {
		return true
	}

	return r.From != "" && r.To != ""
}

// TimeSlotResponse - представление слота каталога
type TimeSlotResponse struct {
	ID   int64  `json:"id"`
	Time string `json:"time"`
}

// NewTimeSlotResponse строит TimeSlotResponse из доменной модели
func NewTimeSlotResponse(slot *domain.TimeSlot) TimeSlotResponse {
	return TimeSlotResponse{
		ID:   slot.ID,
		Time: slot.Time.String(),
	}
}

// ConfigureSlotsRequest - желаемый набор слотов больницы или врача
type ConfigureSlotsRequest struct {
	TimeSlotIDs []int64 `json:"time_slot_ids"`
}

// ConfigureSlotsResponse - результат применения конфигурации
type ConfigureSlotsResponse struct {
	Added   []int64 `json:"added"`
	Removed []int64 `json:"removed"`
}
