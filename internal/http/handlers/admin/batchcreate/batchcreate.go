// Package batchcreate реализует HTTP-обработчик создания периода регистрации.
package batchcreate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/competition-registration/internal/http/response"
	"github.com/magabrotheeeer/competition-registration/internal/lib/sl"
	"github.com/magabrotheeeer/competition-registration/internal/models"
)

// Handler обрабатывает HTTP-запросы создания периодов.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс административных операций с периодами.
type Service interface {
	CreateBatch(ctx context.Context, req models.BatchRequest) (int64, error)
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
// @Summary Создать период регистрации
// @Tags Admin
// @Accept  json
// @Produce  json
// @Param request body models.BatchRequest true "Данные периода"
// @Success 200 {object} map[string]any "Период создан"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /admin/batches [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.batchcreate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	id, err := h.service.CreateBatch(r.Context(), req)
	if err != nil {
		log.Error("failed to create batch", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to create batch"))
		return
	}

	log.Info("batch created", slog.Int64("batch_id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"batch_id": id,
	}))
}
