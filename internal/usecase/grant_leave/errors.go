package grant_leave

import "errors"

var (
	// ErrDoctorNotFound возвращается, когда врач не найден или неактивен
	ErrDoctorNotFound = errors.New("grant_leave: doctor not found")

	// ErrInvalidLeaveType возвращается при неизвестном типе отсутствия
	ErrInvalidLeaveType = errors.New("grant_leave: invalid leave type")

	// ErrInvalidDateRange возвращается при некорректном диапазоне дат
	ErrInvalidDateRange = errors.New("grant_leave: invalid date range")

	// ErrInvalidCustomLeave возвращается, когда список слотов для CUSTOM
	// пуст или содержит несуществующие слоты
	ErrInvalidCustomLeave = errors.New("grant_leave: invalid custom slot list")

	// ErrLeaveExists возвращается, когда запрошенные слоты уже покрыты
	// активным отсутствием на тот же диапазон дат
	ErrLeaveExists = errors.New("grant_leave: leave already exists")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("grant_leave: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("grant_leave: internal error")
)
