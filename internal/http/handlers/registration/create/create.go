// Package create реализует HTTP-обработчик создания заявки на участие.
//
// Handler принимает JSON-запрос с данными заявки, валидирует их, извлекает UID
// пользователя из контекста, вызывает бизнес-логику создания заявки и
// возвращает созданную запись с зафиксированной ценой и сроком оплаты.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/competition-registration/internal/http/middlewarectx"
	"github.com/magabrotheeeer/competition-registration/internal/http/response"
	"github.com/magabrotheeeer/competition-registration/internal/lib/sl"
	"github.com/magabrotheeeer/competition-registration/internal/models"
	"github.com/magabrotheeeer/competition-registration/internal/services/registration"
	"github.com/magabrotheeeer/competition-registration/internal/storage"
)

// Handler обрабатывает HTTP-запросы создания заявок.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики заявок
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики создания заявки.
type Service interface {
	Create(ctx context.Context, userUID string, req models.CreateRegistrationRequest) (*models.Registration, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать заявку на участие
// @Description Создает заявку текущего пользователя на соревнование в текущем периоде.
// @Tags Registrations
// @Accept  json
// @Produce  json
// @Param request body models.CreateRegistrationRequest true "Данные заявки"
// @Success 200 {object} map[string]any "Созданная заявка"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или нарушение правил"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 409 {object} response.ErrorResponse "Заявка уже существует"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /registrations [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.registration.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.CreateRegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Int64("competition_id", req.CompetitionID))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	reg, err := h.service.Create(r.Context(), userUID, req)
	if err != nil {
		switch {
		case errors.Is(err, registration.ErrRegistrationClosed):
			log.Warn("registration is closed")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("registration is closed"))
		case errors.Is(err, registration.ErrTeamTooLarge):
			log.Warn("team size exceeds limit")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("team size exceeds competition limit"))
		case errors.Is(err, storage.ErrAlreadyExists):
			log.Warn("registration already exists")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("registration already exists"))
		case errors.Is(err, storage.ErrNotFound):
			log.Warn("competition not found", slog.Int64("competition_id", req.CompetitionID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("competition not found"))
		default:
			log.Error("failed to create registration", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not create registration"))
		}
		return
	}

	log.Info("registration created", slog.Int64("registration_id", reg.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"registration_id": reg.ID,
		"price":           reg.Price,
		"status":          reg.Status,
		"expires_at":      reg.ExpiresAt.Format(time.RFC3339),
	}))
}
