// Package list реализует HTTP-обработчик списка заявок текущего пользователя.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/competition-registration/internal/http/middlewarectx"
	"github.com/magabrotheeeer/competition-registration/internal/http/response"
	"github.com/magabrotheeeer/competition-registration/internal/lib/sl"
	"github.com/magabrotheeeer/competition-registration/internal/models"
)

// Item — представление заявки в списке.
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

// Handler обрабатывает HTTP-запросы списка заявок.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики заявок.
type Service interface {
	ListMine(ctx context.Context, userUID string) ([]*models.Registration, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Заявки текущего пользователя
// @Description Возвращает все заявки пользователя по убыванию даты создания.
// @Tags Registrations
// @Produce  json
// @Success 200 {object} map[string]any "Список заявок"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /registrations [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.registration.list"

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

	regs, err := h.service.ListMine(r.Context(), userUID)
	if err != nil {
		log.Error("failed to list registrations", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list registrations"))
		return
	}

	items := make([]Item, 0, len(regs))
	for _, reg := range regs {
		items = append(items, Item{
			ID:            reg.ID,
			CompetitionID: reg.CompetitionID,
			BatchID:       reg.BatchID,
			Status:        reg.Status,
			HasProof:      reg.PaymentProofKey != "",
			IsTeam:        reg.IsTeam,
			Price:         reg.Price,
			ExpiresAt:     reg.ExpiresAt,
			CreatedAt:     reg.CreatedAt,
		})
	}

	render.JSON(w, r, response.OKWithData(items))
}
