// Package submissions реализует HTTP-обработчик списка загруженных работ заявки.
package submissions

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/competition-registration/internal/http/middlewarectx"
	"github.com/magabrotheeeer/competition-registration/internal/http/response"
	"github.com/magabrotheeeer/competition-registration/internal/lib/sl"
	"github.com/magabrotheeeer/competition-registration/internal/models"
	"github.com/magabrotheeeer/competition-registration/internal/services/registration"
	"github.com/magabrotheeeer/competition-registration/internal/storage"
)

// Item элемент списка работ в JSON-ответе.
type Item struct {
	ID           int64  `json:"id"`
	OriginalName string `json:"original_name"`
	SubmittedAt  string `json:"submitted_at"`
}

// Handler обрабатывает HTTP-запросы списка работ.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики заявок.
type Service interface {
	ListSubmissions(ctx context.Context, userUID string, id int64) ([]*models.Submission, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список загруженных работ заявки
// @Tags Registrations
// @Produce  json
// @Param id path int true "ID заявки"
// @Success 200 {object} map[string]any "Список работ"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Заявка принадлежит другому пользователю"
// @Failure 404 {object} response.ErrorResponse "Заявка не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /registrations/{id}/submissions [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.registration.submissions"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("invalid registration id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid registration id"))
		return
	}

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	subs, err := h.service.ListSubmissions(r.Context(), userUID, id)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("registration not found"))
		case errors.Is(err, registration.ErrNotOwner):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("access denied"))
		default:
			log.Error("failed to list submissions", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to list submissions"))
		}
		return
	}

	items := make([]Item, 0, len(subs))
	for _, s := range subs {
		items = append(items, Item{
			ID:           s.ID,
			OriginalName: s.OriginalName,
			SubmittedAt:  s.SubmittedAt.Format(time.RFC3339),
		})
	}

	log.Info("submissions listed", slog.Int64("registration_id", id), slog.Int("count", len(items)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"submissions": items,
	}))
}
