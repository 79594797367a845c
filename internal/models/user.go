// Package models содержит доменные структуры системы регистрации на соревнования:
// пользователей, периоды регистрации, соревнования, цены, заявки и настройки.
package models

import "time"

// Роли пользователей.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Уровни образования участников. Уровень general означает участие вне
// школьной категории, для него не запрашиваются школьные поля профиля.
const (
	LevelGeneral    = "general"
	LevelHighSchool = "high_school"
	LevelUniversity = "university"
)

// Address структурированный адрес пользователя. В базе хранится как jsonb.
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postal_code"`
}

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID              string     // Уникальный идентификатор пользователя
	Email            string     // Электронная почта (уникальная)
	Username         string     // Имя пользователя (уникальное)
	PasswordHash     string     // Хэш пароля пользователя
	Role             string     // Роль пользователя, admin или user
	FullName         string     // Полное имя
	Phone            string     // Контактный телефон
	Address          Address    // Структурированный адрес
	EducationLevel   string     // Уровень образования, см. Level*
	SchoolName       string     // Название школы или вуза
	Grade            string     // Класс или курс
	StudentID        string     // Номер студенческого или ученического билета
	ResetToken       *string    // Токен для сброса пароля
	ResetTokenExpiry *time.Time // Срок действия токена сброса
	CreatedAt        time.Time
}

// RegisterRequest данные запроса на регистрацию нового пользователя.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=32"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required"`
}

// UpdateProfileRequest данные запроса на обновление профиля.
// Приходит из JSON, адрес принимается уже структурированным.
type UpdateProfileRequest struct {
	FullName       string  `json:"full_name" validate:"required"`
	Phone          string  `json:"phone"`
	Address        Address `json:"address"`
	EducationLevel string  `json:"education_level" validate:"omitempty,oneof=general high_school university"`
	SchoolName     string  `json:"school_name"`
	Grade          string  `json:"grade"`
	StudentID      string  `json:"student_id"`
}
