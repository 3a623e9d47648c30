package get_available_slots

import (
	"github.com/medzap/HMS-BookingService/internal/domain"
	getAvailableSlots "github.com/medzap/HMS-BookingService/internal/usecase/get_available_slots"
)

// SlotResponse свободный слот в HTTP ответе
type SlotResponse struct {
	ID   int64  `json:"id"`
	Time string `json:"time"`
}

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	DoctorID int64          `json:"doctorId"`
	Date     string         `json:"date"`
	Slots    []SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, slot := range resp.Slots {
		slots = append(slots, SlotResponse{
			ID:   slot.ID,
			Time: slot.Time.String(),
		})
	}

	return &AvailableSlotsResponse{
		DoctorID: resp.DoctorID,
		Date:     resp.Date.Format(domain.DateFormat),
		Slots:    slots,
	}
}
