package staffservice

// Doctor модель врача из StaffService
type Doctor struct {
	ID          int64   `json:"id"`
	FullName    string  `json:"full_name"`
	Email       string  `json:"email"`
	HospitalID  int64   `json:"hospital_id"`
	SpecialtyID int64   `json:"specialty_id"`
	Fee         float64 `json:"fee"`
	IsActive    bool    `json:"is_active"`
}

// Hospital модель больницы из StaffService
type Hospital struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	City      string  `json:"city"`
	DoctorIDs []int64 `json:"doctor_ids"`
	AdminIDs  []int64 `json:"admin_ids"`
}

// User модель пациента из StaffService
type User struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// ErrorResponse модель ошибки от StaffService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
