// Package batchupdate реализует HTTP-обработчик обновления периода регистрации.
package batchupdate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/competition-registration/internal/http/response"
	"github.com/magabrotheeeer/competition-registration/internal/lib/sl"
	"github.com/magabrotheeeer/competition-registration/internal/models"
	"github.com/magabrotheeeer/competition-registration/internal/storage"
)

// Handler обрабатывает HTTP-запросы обновления периодов.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс административных операций с периодами.
type Service interface {
	UpdateBatch(ctx context.Context, id int64, req models.BatchRequest) error
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Обновить период регистрации
// @Tags Admin
// @Accept  json
// @Produce  json
// @Param id path int true "ID периода"
// @Param request body models.BatchRequest true "Данные периода"
// @Success 200 {object} map[string]any "Период обновлён"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 404 {object} response.ErrorResponse "Период не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /admin/batches/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.batchupdate"

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

	var req models.BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if err := h.service.UpdateBatch(r.Context(), id, req); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Warn("batch not found", slog.Int64("batch_id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("batch not found"))
			return
		}
		log.Error("failed to update batch", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to update batch"))
		return
	}

	log.Info("batch updated", slog.Int64("batch_id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"batch_id": id,
	}))
}
