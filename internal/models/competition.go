package models

// Competition представляет соревнование, на которое открыта регистрация.
type Competition struct {
	ID               int64
	Title            string
	Category         string
	Description      string
	BaseFee          int
	MaxTeamSize      int
	ParticipantCount int
	PosterKey        string // Ключ афиши в хранилище файлов
}

// CompetitionRequest данные запроса на создание или полное обновление соревнования.
type CompetitionRequest struct {
	Title       string `json:"title" validate:"required"`
	Category    string `json:"category" validate:"required"`
	Description string `json:"description"`
	BaseFee     int    `json:"base_fee" validate:"gte=0"`
	MaxTeamSize int    `json:"max_team_size" validate:"gte=1"`
}
