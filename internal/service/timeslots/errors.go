package timeslots

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrNoNewSlots возвращается, когда все запрошенные времена уже есть в каталоге
	ErrNoNewSlots = errors.New("all requested time slots already exist")

	// ErrSlotInUse возвращается, когда удаляемый слот больницы еще
	// используется хотя бы одним её врачом
	ErrSlotInUse = errors.New("time slot is in use by a doctor")

	// ErrSlotNotFound возвращается, когда запрошенный слот отсутствует в каталоге
	ErrSlotNotFound = errors.New("time slot not found")

	// ErrHospitalNotFound возвращается, когда больница не найдена
	ErrHospitalNotFound = errors.New("hospital not found")

	// ErrDoctorNotFound возвращается, когда врач не найден
	ErrDoctorNotFound = errors.New("doctor not found")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
