// Package competitionremove реализует HTTP-обработчик удаления соревнования.
package competitionremove

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

// Handler обрабатывает HTTP-запросы удаления соревнований.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс каталога соревнований.
type Service interface {
	Delete(ctx context.Context, id int64) (int64, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить соревнование
// @Tags Admin
// @Produce  json
// @Param id path int true "ID соревнования"
// @Success 200 {object} map[string]any "Соревнование удалено"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Соревнование не найдено"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /admin/competitions/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.competitionremove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("invalid competition id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid competition id"))
		return
	}

	n, err := h.service.Delete(r.Context(), id)
	if err != nil {
		log.Error("failed to delete competition", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to delete competition"))
		return
	}
	if n == 0 {
		log.Warn("competition not found", slog.Int64("competition_id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("competition not found"))
		return
	}

	log.Info("competition deleted", slog.Int64("competition_id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"competition_id": id,
	}))
}
