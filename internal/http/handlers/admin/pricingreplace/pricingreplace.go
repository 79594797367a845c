// Package pricingreplace реализует HTTP-обработчик полной замены таблицы цен.
package pricingreplace

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
	"github.com/magabrotheeeer/competition-registration/internal/services/pricing"
)

// Row — строка цены в JSON-запросе.
type Row struct {
	BatchID        int64  `json:"batch_id" validate:"required,gt=0"`
	CompetitionID  int64  `json:"competition_id" validate:"required,gt=0"`
	EducationLevel string `json:"education_level" validate:"required,oneof=general high_school university"`
	Price          int    `json:"price" validate:"gte=0"`
}

// Request — структура входных данных для замены таблицы цен.
type Request struct {
	Rows []Row `json:"rows" validate:"required,dive"`
}

// Handler обрабатывает HTTP-запросы замены таблицы цен.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики цен.
type Service interface {
	Replace(ctx context.Context, t pricing.Table) error
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
// @Summary Полная замена таблицы цен
// @Description Заменяет все строки цен содержимым запроса в одной транзакции.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Param request body Request true "Новые строки цен"
// @Success 200 {object} map[string]any "Число строк в новой таблице"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /admin/pricing [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.pricingreplace"

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

	rows := make([]models.PricingRow, 0, len(req.Rows))
	for _, row := range req.Rows {
		rows = append(rows, models.PricingRow{
			BatchID:        row.BatchID,
			CompetitionID:  row.CompetitionID,
			EducationLevel: row.EducationLevel,
			Price:          row.Price,
		})
	}

	if err := h.service.Replace(r.Context(), pricing.Build(rows)); err != nil {
		log.Error("failed to replace pricing", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to replace pricing"))
		return
	}

	log.Info("pricing replaced", slog.Int("rows", len(rows)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"rows": len(rows),
	}))
}
