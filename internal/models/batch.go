package models

import "time"

// Ключи настроек в таблице settings.
const (
	SettingCurrentBatchID     = "current_batch_id"
	SettingRegistrationClosed = "registration_closed"
)

// Batch представляет период регистрации со своим ценовым уровнем.
type Batch struct {
	ID        int64
	Name      string
	StartDate time.Time
	EndDate   time.Time
	IsActive  bool
}

// BatchRequest данные запроса на создание или обновление периода регистрации.
type BatchRequest struct {
	Name      string    `json:"name" validate:"required"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required,gtfield=StartDate"`
}

// Setting строка таблицы настроек: пара ключ/значение с отметкой обновления.
// Настройки читаются из базы при каждом обращении, без кеширования.
type Setting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// BatchResolution результат определения текущего периода регистрации.
// Batch равен nil, если текущий период не назначен в настройках.
type BatchResolution struct {
	Batch              *Batch
	RegistrationClosed bool
}
