// Package toggleregistration реализует HTTP-обработчик переключения ручного
// флага закрытия регистрации.
package toggleregistration

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/competition-registration/internal/http/response"
	"github.com/magabrotheeeer/competition-registration/internal/lib/sl"
)

// Handler обрабатывает HTTP-запросы переключения флага регистрации.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс административных операций с настройками.
type Service interface {
	ToggleRegistration(ctx context.Context) (bool, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Переключить флаг закрытия регистрации
// @Description Атомарно меняет ручной флаг закрытия и возвращает новое значение.
// @Tags Admin
// @Produce  json
// @Success 200 {object} map[string]any "Новое значение флага"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /admin/registration/toggle [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.toggleregistration"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	closed, err := h.service.ToggleRegistration(r.Context())
	if err != nil {
		log.Error("failed to toggle registration flag", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to toggle registration flag"))
		return
	}

	log.Info("registration flag toggled", slog.Bool("closed", closed))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"registration_closed": closed,
	}))
}
