package grant_leave

import (
	"time"

	"github.com/medzap/HMS-BookingService/internal/domain"
	grantLeave "github.com/medzap/HMS-BookingService/internal/usecase/grant_leave"
)

// GrantLeaveRequest HTTP request model
type GrantLeaveRequest struct {
	Type        int16   `json:"type"` // 0=FULL, 1=HALF_MORNING, 2=HALF_EVENING, 3=CUSTOM
	StartDate   string  `json:"startDate"`
	EndDate     string  `json:"endDate"`
	TimeSlotIDs []int64 `json:"timeSlotIds,omitempty"` // только для CUSTOM
}

// GrantLeaveResponse HTTP response model
type GrantLeaveResponse struct {
	DoctorID         int64   `json:"doctorId"`
	StartDate        string  `json:"startDate"`
	EndDate          string  `json:"endDate"`
	SlotIDs          []int64 `json:"slotIds"`
	CanceledBookings []int64 `json:"canceledBookings"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *GrantLeaveRequest) ToUseCaseRequest(doctorID int64) (*grantLeave.Request, error) {
	startDate, err := time.Parse(domain.DateFormat, r.StartDate)
	if err != nil {
		return nil, err
	}

	endDate, err := time.Parse(domain.DateFormat, r.EndDate)
	if err != nil {
		return nil, err
	}

	return &grantLeave.Request{
		DoctorID:    doctorID,
		Type:        domain.LeaveType(r.Type),
		StartDate:   startDate,
		EndDate:     endDate,
		TimeSlotIDs: r.TimeSlotIDs,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *grantLeave.Response) *GrantLeaveResponse {
	return &GrantLeaveResponse{
		DoctorID:         resp.DoctorID,
		StartDate:        resp.StartDate.Format(domain.DateFormat),
		EndDate:          resp.EndDate.Format(domain.DateFormat),
		SlotIDs:          resp.SlotIDs,
		CanceledBookings: resp.CanceledBookings,
	}
}
