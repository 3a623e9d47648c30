package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	// или не попадает в область видимости роли
	ErrBookingNotFound = errors.New("booking not found")

	// ErrAccessDenied возвращается, когда пользователь не владеет бронированием
	ErrAccessDenied = errors.New("access denied")

	// ErrAlreadyCanceled возвращается для уже отмененного бронирования
	ErrAlreadyCanceled = errors.New("booking is already canceled")

	// ErrAlreadyRejected возвращается для уже отклоненного бронирования
	ErrAlreadyRejected = errors.New("booking is already rejected")

	// ErrDatePassed возвращается, когда дата/время бронирования уже прошли
	ErrDatePassed = errors.New("booking date has passed")

	// ErrPastBooking возвращается при попытке подтвердить/отклонить
	// бронирование с прошедшей датой
	ErrPastBooking = errors.New("booking date is in the past")

	// ErrAlreadyProcessed возвращается, когда бронирование уже не PENDING
	ErrAlreadyProcessed = errors.New("booking is already processed")

	// ErrNotCancelable возвращается, когда отменить можно только
	// подтвержденное бронирование
	ErrNotCancelable = errors.New("only accepted bookings can be canceled")

	// ErrInvalidBooking возвращается, когда бронирование не подходит
	// для диагностической записи (не ACCEPTED или чужое)
	ErrInvalidBooking = errors.New("booking is not eligible for history")

	// ErrTooEarly возвращается при попытке создать диагностическую запись
	// до даты приёма
	ErrTooEarly = errors.New("history can only be added on or after the appointment date")

	// ErrDuplicateHistory возвращается, когда история уже записана
	ErrDuplicateHistory = errors.New("history already exists for this booking")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
