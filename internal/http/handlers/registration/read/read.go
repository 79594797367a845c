// Package read реализует HTTP-обработчик чтения одной заявки
// текущего пользователя.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/competition-registration/internal/http/middlewarectx"
	"github.com/magabrotheeeer/competition-registration/internal/http/response"
	"github.com/magabrotheeeer/competition-registration/internal/lib/sl"
	"github.com/magabrotheeeer/competition-registration/internal/models"
	"github.com/magabrotheeeer/competition-registration/internal/services/registration"
	"github.com/magabrotheeeer/competition-registration/internal/storage"
)

// Item — представление заявки в ответе.
type Item struct {
	ID            int64     `json:"id"`
	CompetitionID int64     `json:"competition_id"`
	BatchID       int64     `json:"batch_id"`
	Status        string    `json:"status"`
	HasProof      bool      `json:"has_payment_proof"`
	IsTeam        bool      `json:"is_team"`
	Price         int       `json:"price"`
	ExpiresAt     time.Time `json:"expires_at"`
	CreatedAt     time.Time `json:"created_at"`
}

// Handler обрабатывает HTTP-запросы чтения заявки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики заявок.
type Service interface {
	Read(ctx context.Context, userUID string, id int64) (*models.Registration, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Заявка по ID
// @Description Возвращает заявку, если она принадлежит текущему пользователю.
// @Tags Registrations
// @Produce  json
// @Param id path int true "ID заявки"
// @Success 200 {object} map[string]any "Данные заявки"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Заявка принадлежит другому пользователю"
// @Failure 404 {object} response.ErrorResponse "Заявка не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /registrations/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.registration.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("invalid registration id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid registration id"))
		return
	}

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	reg, err := h.service.Read(r.Context(), userUID, id)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			log.Warn("registration not found", slog.Int64("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("registration not found"))
		case errors.Is(err, registration.ErrNotOwner):
			log.Warn("registration access denied", slog.Int64("id", id))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("access denied"))
		default:
			log.Error("failed to read registration", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to read registration"))
		}
		return
	}

	render.JSON(w, r, response.OKWithData(Item{
		ID:            reg.ID,
		CompetitionID: reg.CompetitionID,
		BatchID:       reg.BatchID,
		Status:        reg.Status,
		HasProof:      reg.PaymentProofKey != "",
		IsTeam:        reg.IsTeam,
		Price:         reg.Price,
		ExpiresAt:     reg.ExpiresAt,
		CreatedAt:     reg.CreatedAt,
	}))
}
