// Package batchswitch реализует HTTP-обработчик переключения текущего
// периода регистрации.
package batchswitch

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/competition-registration/internal/http/response"
	"github.com/magabrotheeeer/competition-registration/internal/lib/sl"
	"github.com/magabrotheeeer/competition-registration/internal/models"
	"github.com/magabrotheeeer/competition-registration/internal/storage"
)

// Handler обрабатывает HTTP-запросы переключения текущего периода.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс административных операций с периодами.
type Service interface {
	SwitchBatch(ctx context.Context, id int64) (*models.Batch, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Назначить текущий период регистрации
// @Tags Admin
// @Produce  json
// @Param id path int true "ID периода"
// @Success 200 {object} map[string]any "Назначенный период"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Период не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /admin/batches/{id}/switch [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.batchswitch"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("invalid batch id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid batch id"))
		return
	}

	b, err := h.service.SwitchBatch(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Warn("batch not found", slog.Int64("batch_id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("batch not found"))
			return
		}
		log.Error("failed to switch batch", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to switch batch"))
		return
	}

	log.Info("current batch switched", slog.Int64("batch_id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"batch_id": b.ID,
		"name":     b.Name,
	}))
}
