package domain

// RecordStatus статус записи для soft delete
// Физическое удаление не используется, записи только деактивируются
type RecordStatus int16

const (
	RecordActive   RecordStatus = 1
	RecordInactive RecordStatus = 0
)

// Role роль вызывающего, полученная от шлюза авторизации
type Role string

const (
	RoleUser   Role = "user"
	RoleDoctor Role = "doctor"
	RoleAdmin  Role = "admin"
)

// IsValid проверяет, что роль известна сервису
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleDoctor || r == RoleAdmin
}

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// SlotGridStepMinutes шаг сетки слотов каталога
const SlotGridStepMinutes = 30

// Pagination defaults
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// ActiveBookingStatuses статусы, при которых бронирование занимает слот
// Используется проверкой доступности и частичным уникальным индексом в БД
var ActiveBookingStatuses = []BookingStatus{
	StatusPending,
	StatusAccepted,
}
