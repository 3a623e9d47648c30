package create_booking

import "errors"

var (
	// ErrDoctorNotFound возвращается, когда врач не найден или неактивен
	ErrDoctorNotFound = errors.New("create_booking: doctor not found")

	// ErrSlotNotFound возвращается, когда слот отсутствует в каталоге
	// или деактивирован
	ErrSlotNotFound = errors.New("create_booking: time slot not found")

	// ErrInvalidDate возвращается при дате бронирования в прошлом
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrPastSlot возвращается, когда время слота на сегодня уже прошло
	ErrPastSlot = errors.New("create_booking: slot time has already passed")

	// ErrDoctorUnavailable возвращается, когда слот перекрыт отпуском врача
	ErrDoctorUnavailable = errors.New("create_booking: doctor is unavailable on this date")

	// ErrSlotTaken возвращается, когда слот уже занят активным бронированием
	ErrSlotTaken = errors.New("create_booking: slot is already taken")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
