// Package read реализует HTTP-обработчик чтения профиля текущего пользователя
// вместе с процентом заполненности.
package read

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/competition-registration/internal/http/middlewarectx"
	"github.com/magabrotheeeer/competition-registration/internal/http/response"
	"github.com/magabrotheeeer/competition-registration/internal/lib/sl"
	"github.com/magabrotheeeer/competition-registration/internal/models"
)

// Profile — представление профиля в ответе, без служебных полей.
type Profile struct {
	Email          string         `json:"email"`
	Username       string         `json:"username"`
	Role           string         `json:"role"`
	FullName       string         `json:"full_name"`
	Phone          string         `json:"phone"`
	Address        models.Address `json:"address"`
	EducationLevel string         `json:"education_level"`
	SchoolName     string         `json:"school_name"`
	Grade          string         `json:"grade"`
	StudentID      string         `json:"student_id"`
	Completeness   int            `json:"completeness"`
}

// Handler обрабатывает HTTP-запросы чтения профиля.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики профиля.
type Service interface {
	Get(ctx context.Context, userUID string) (*models.User, int, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Профиль текущего пользователя
// @Description Возвращает профиль и процент его заполненности.
// @Tags Profile
// @Produce  json
// @Success 200 {object} map[string]any "Профиль пользователя"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /profile [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	user, completeness, err := h.service.Get(r.Context(), userUID)
	if err != nil {
		log.Error("failed to load profile", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to load profile"))
		return
	}

	render.JSON(w, r, response.OKWithData(Profile{
		Email:          user.Email,
		Username:       user.Username,
		Role:           user.Role,
		FullName:       user.FullName,
		Phone:          user.Phone,
		Address:        user.Address,
		EducationLevel: user.EducationLevel,
		SchoolName:     user.SchoolName,
		Grade:          user.Grade,
		StudentID:      user.StudentID,
		Completeness:   completeness,
	}))
}
