// Package pricinglist реализует HTTP-обработчик просмотра таблицы цен.
package pricinglist

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

// Item строка таблицы цен в JSON-ответе.
type Item struct {
	BatchID        int64  `json:"batch_id"`
	CompetitionID  int64  `json:"competition_id"`
	EducationLevel string `json:"education_level"`
	Price          int    `json:"price"`
}

// Handler обрабатывает HTTP-запросы просмотра цен.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс таблицы цен.
type Service interface {
	Rows(ctx context.Context) ([]models.PricingRow, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Таблица цен
// @Tags Admin
// @Produce  json
// @Success 200 {object} map[string]any "Строки таблицы цен"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /admin/pricing [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.pricinglist"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	rows, err := h.service.Rows(r.Context())
	if err != nil {
		log.Error("failed to load pricing rows", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to load pricing"))
		return
	}

	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, Item{
			BatchID:        row.BatchID,
			CompetitionID:  row.CompetitionID,
			EducationLevel: row.EducationLevel,
			Price:          row.Price,
		})
	}

	log.Info("pricing rows listed", slog.Int("count", len(items)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"rows": items,
	}))
}
