// Package current реализует HTTP-обработчик публичной информации о текущем
// периоде регистрации и признаке её закрытия.
package current

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

// Info — представление текущего периода в ответе. Batch равен nil,
// если период не назначен.
type Info struct {
	Batch              *BatchInfo `json:"batch"`
	RegistrationClosed bool       `json:"registration_closed"`
}

// BatchInfo — данные периода регистрации.
type BatchInfo struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// Handler обрабатывает HTTP-запросы текущего периода.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс определения текущего периода.
type Service interface {
	Resolve(ctx context.Context) (*models.BatchResolution, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Текущий период регистрации
// @Description Возвращает назначенный период и признак закрытия регистрации.
// @Tags Batches
// @Produce  json
// @Success 200 {object} map[string]any "Текущий период"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /batches/current [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.batch.current"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	resolution, err := h.service.Resolve(r.Context())
	if err != nil {
		log.Error("failed to resolve current batch", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to resolve current batch"))
		return
	}

	info := Info{RegistrationClosed: resolution.RegistrationClosed}
	if resolution.Batch != nil {
		info.Batch = &BatchInfo{
			ID:        resolution.Batch.ID,
			Name:      resolution.Batch.Name,
			StartDate: resolution.Batch.StartDate,
			EndDate:   resolution.Batch.EndDate,
		}
	}

	render.JSON(w, r, response.OKWithData(info))
}
