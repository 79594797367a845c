// Package list реализует HTTP-обработчик публичного списка соревнований.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/competition-registration/internal/http/response"
	"github.com/magabrotheeeer/competition-registration/internal/lib/sl"
	"github.com/magabrotheeeer/competition-registration/internal/models"
)

// Item — представление соревнования в публичном списке.
type Item struct {
	ID               int64  `json:"id"`
	Title            string `json:"title"`
	Category         string `json:"category"`
	Description      string `json:"description"`
	BaseFee          int    `json:"base_fee"`
	MaxTeamSize      int    `json:"max_team_size"`
	ParticipantCount int    `json:"participant_count"`
}

// Handler обрабатывает HTTP-запросы списка соревнований.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики каталога соревнований.
type Service interface {
	List(ctx context.Context) ([]*models.Competition, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список соревнований
// @Description Возвращает все соревнования, сгруппированные по категориям.
// @Tags Competitions
// @Produce  json
// @Success 200 {object} map[string]any "Список соревнований"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /competitions [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.competition.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	comps, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list competitions", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list competitions"))
		return
	}

	items := make([]Item, 0, len(comps))
	for _, c := range comps {
		items = append(items, Item{
			ID:               c.ID,
			Title:            c.Title,
			Category:         c.Category,
			Description:      c.Description,
			BaseFee:          c.BaseFee,
			MaxTeamSize:      c.MaxTeamSize,
			ParticipantCount: c.ParticipantCount,
		})
	}

	log.Info("competitions listed", slog.Int("count", len(items)))
	render.JSON(w, r, response.OKWithData(items))
}
