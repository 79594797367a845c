package models

import "time"

// Статусы заявки на участие.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Registration связывает пользователя с соревнованием и периодом регистрации.
type Registration struct {
	ID              int64
	UserUID         string
	CompetitionID   int64
	BatchID         int64
	Status          string
	PaymentProofKey string // Ключ файла подтверждения оплаты в хранилище
	IsTeam          bool
	Price           int
	ExpiresAt       time.Time // После этого срока неоплаченная заявка удаляется
	CreatedAt       time.Time
}

// TeamMember участник командной заявки.
type TeamMember struct {
	RegistrationID int64
	Name           string
	Email          string
}

// CreateRegistrationRequest данные запроса на создание заявки.
type CreateRegistrationRequest struct {
	CompetitionID int64               `json:"competition_id" validate:"required,gt=0"`
	IsTeam        bool                `json:"is_team"`
	TeamMembers   []TeamMemberRequest `json:"team_members" validate:"dive"`
}

// TeamMemberRequest участник команды в JSON-запросе.
type TeamMemberRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

/// ParticipantRow строка для списков и экспорта участников:
// заявка, соединённая с данными пользователя, соревнования и периода.
type ParticipantRow struct {
	RegistrationID int64
	FullName       string
	Email          string
	Phone          string
	EducationLevel string
	SchoolName     string
	CompetitionID  int64
	Competition    string
	BatchName      string
	Status         string
	Price          int
	IsTeam         bool
	CreatedAt      time.Time
}

// ParticipantFilter критерии выборки участников для админских списков.
type ParticipantFilter struct {
	BatchID       int64
	CompetitionID int64
	Status        string
}
