package models

import "time"

// Submission файл конкурсной работы, привязанный к заявке.
type Submission struct {
	ID             int64
	RegistrationID int64
	FileKey        string // Ключ файла в хранилище
	OriginalName   string
	SubmittedAt    time.Time
}
