// Package read реализует HTTP-обработчик чтения одного соревнования.
package read

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

// Item — представление соревнования в ответе.
type Item struct {
	ID               int64  `json:"id"`
	Title            string `json:"title"`
	Category         string `json:"category"`
	Description      string `json:"description"`
	BaseFee          int    `json:"base_fee"`
	MaxTeamSize      int    `json:"max_team_size"`
	ParticipantCount int    `json:"participant_count"`
	HasPoster        bool   `json:"has_poster"`
}

// Handler обрабатывает HTTP-запросы чтения соревнования.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики каталога соревнований.
type Service interface {
	Read(ctx context.Context, id int64) (*models.Competition, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Соревнование по ID
// @Description Возвращает данные одного соревнования.
// @Tags Competitions
// @Produce  json
// @Param id path int true "ID соревнования"
// @Success 200 {object} map[string]any "Данные соревнования"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Соревнование не найдено"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /competitions/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.competition.read"

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

	comp, err := h.service.Read(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Warn("competition not found", slog.Int64("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("competition not found"))
			return
		}
		log.Error("failed to read competition", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to read competition"))
		return
	}

	render.JSON(w, r, response.OKWithData(Item{
		ID:               comp.ID,
		Title:            comp.Title,
		Category:         comp.Category,
		Description:      comp.Description,
		BaseFee:          comp.BaseFee,
		MaxTeamSize:      comp.MaxTeamSize,
		ParticipantCount: comp.ParticipantCount,
		HasPoster:        comp.PosterKey != "",
	}))
}
