package models

// ResetMail событие запроса сброса пароля, публикуется в очередь уведомлений.
type ResetMail struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Token    string `json:"token"`
}

// StatusMail событие изменения статуса заявки, публикуется в очередь уведомлений.
type StatusMail struct {
	Email       string `json:"email"`
	FullName    string `json:"full_name"`
	Competition string `json:"competition"`
	Status      string `json:"status"`
}
