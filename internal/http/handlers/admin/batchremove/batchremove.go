// Package batchremove реализует HTTP-обработчик удаления периода регистрации.
package batchremove

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/competition-registration/internal/http/response"
	"github.com/magabrotheeeer/competition-registration/internal/lib/sl"
)

// Handler обрабатывает HTTP-запросы удаления периодов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс административных операций с периодами.
type Service interface {
	RemoveBatch(ctx context.Context, id int64) (int64, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить период регистрации
// @Tags Admin
// @Produce  json
// @Param id path int true "ID периода"
// @Success 200 {object} map[string]any "Число удалённых записей"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Период не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /admin/batches/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.batchremove"

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

	n, err := h.service.RemoveBatch(r.Context(), id)
	if err != nil {
		log.Error("failed to remove batch", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to remove batch"))
		return
	}
	if n == 0 {
		log.Warn("batch not found", slog.Int64("batch_id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("batch not found"))
		return
	}

	log.Info("batch removed", slog.Int64("batch_id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"removed": n,
	}))
}
