package change_booking_time

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено,
	// вне области видимости роли или уже в терминальном статусе
	ErrBookingNotFound = errors.New("change_booking_time: booking not found")

	// ErrSlotNotFound возвращается, когда новый слот отсутствует в каталоге
	ErrSlotNotFound = errors.New("change_booking_time: time slot not found")

	// ErrSlotTaken возвращается, когда новый слот уже занят или перекрыт
	// отпуском врача
	ErrSlotTaken = errors.New("change_booking_time: slot is not available")

	// ErrPastSlot возвращается, когда время нового слота на сегодня уже прошло
	ErrPastSlot = errors.New("change_booking_time: slot time has already passed")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("change_booking_time: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("change_booking_time: internal error")
)
