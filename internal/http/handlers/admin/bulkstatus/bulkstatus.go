// Package bulkstatus реализует HTTP-обработчик массовой смены статусов заявок.
package bulkstatus

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/competition-registration/internal/http/response"
	"github.com/magabrotheeeer/competition-registration/internal/lib/sl"
	"github.com/magabrotheeeer/competition-registration/internal/services/admin"
)

// Request — структура входных данных для массовой смены статусов.
type Request struct {
	IDs    []int64 `json:"ids" validate:"required,min=1,dive,gt=0"`
	Status string  `json:"status" validate:"required,oneof=pending approved rejected"`
}

// Handler обрабатывает HTTP-запросы массовой смены статусов.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс административных операций с заявками.
type Service interface {
	BulkUpdateStatus(ctx context.Context, ids []int64, status string) (int64, error)
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
// @Summary Массовая смена статусов заявок
// @Description Применяет статус к набору заявок одним запросом и ставит письма в очередь.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Param request body Request true "ID заявок и новый статус"
// @Success 200 {object} map[string]any "Число изменённых заявок"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /admin/registrations/status [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.bulkstatus"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
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

	n, err := h.service.BulkUpdateStatus(r.Context(), req.IDs, req.Status)
	if err != nil {
		if errors.Is(err, admin.ErrUnknownStatus) {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("unknown registration status"))
			return
		}
		log.Error("failed to update statuses", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to update statuses"))
		return
	}

	log.Info("statuses updated", slog.String("status", req.Status), slog.Int64("count", n))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"updated": n,
	}))
}
