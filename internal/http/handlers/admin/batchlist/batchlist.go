// Package batchlist реализует HTTP-обработчик списка периодов регистрации.
package batchlist

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/competition-registration/internal/http/response"
	"github.com/magabrotheeeer/competition-registration/internal/lib/sl"
	"github.com/magabrotheeeer/competition-registration/internal/models"
)

// Item элемент списка периодов в JSON-ответе.
type Item struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	IsActive  bool   `json:"is_active"`
}

// Handler обрабатывает HTTP-запросы списка периодов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс периодов регистрации.
type Service interface {
	List(ctx context.Context) ([]*models.Batch, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список периодов регистрации
// @Tags Admin
// @Produce  json
// @Success 200 {object} map[string]any "Список периодов"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /admin/batches [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.batchlist"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	batches, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list batches", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list batches"))
		return
	}

	items := make([]Item, 0, len(batches))
	for _, b := range batches {
		items = append(items, Item{
			ID:        b.ID,
			Name:      b.Name,
			StartDate: b.StartDate.Format(time.RFC3339),
			EndDate:   b.EndDate.Format(time.RFC3339),
			IsActive:  b.IsActive,
		})
	}

	log.Info("batches listed", slog.Int("count", len(items)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"batches": items,
	}))
}
