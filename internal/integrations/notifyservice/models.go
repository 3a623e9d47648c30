package notifyservice

// BookingNotification данные письма о событии бронирования
// Содержит человекочитаемые поля, собранные вызывающим сервисом
type BookingNotification struct {
	RecipientEmail string `json:"recipient_email"`
	RecipientName  string `json:"recipient_name"`
	DoctorName     string `json:"doctor_name"`
	HospitalName   string `json:"hospital_name"`
	Date           string `json:"date"` // YYYY-MM-DD
	Time           string `json:"time"` // HH:MM
	Reason         string `json:"reason,omitempty"`
}

// ErrorResponse модель ошибки от NotifyService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
