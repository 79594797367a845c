// Package participants реализует HTTP-обработчик админского списка участников
// с фильтрами по периоду, соревнованию и статусу.
package participants

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/competition-registration/internal/http/response"
	"github.com/magabrotheeeer/competition-registration/internal/lib/sl"
	"github.com/magabrotheeeer/competition-registration/internal/models"
)

// Item — строка участника в ответе.
type Item struct {
	RegistrationID int64     `json:"registration_id"`
	FullName       string    `json:"full_name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	EducationLevel string    `json:"education_level"`
	SchoolName     string    `json:"school_name"`
	Competition    string    `json:"competition"`
	BatchName      string    `json:"batch_name"`
	Status         string    `json:"status"`
	Price          int       `json:"price"`
	IsTeam         bool      `json:"is_team"`
	CreatedAt      time.Time `json:"created_at"`
}

// Handler обрабатывает HTTP-запросы списка участников.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс административных операций с участниками.
type Service interface {
	ListParticipants(ctx context.Context, filter models.ParticipantFilter) ([]models.ParticipantRow, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ParseFilter читает фильтры из query-параметров. Отсутствующий параметр
// означает отсутствие фильтра.
func ParseFilter(r *http.Request) models.ParticipantFilter {
	var filter models.ParticipantFilter
	if v := r.URL.Query().Get("batch_id"); v != "" {
		filter.BatchID, _ = strconv.ParseInt(v, 10, 64)
	}
	if v := r.URL.Query().Get("competition_id"); v != "" {
		filter.CompetitionID, _ = strconv.ParseInt(v, 10, 64)
	}
	filter.Status = r.URL.Query().Get("status")
	return filter
}

// ServeHTTP godoc
// @Summary Список участников
// @Description Возвращает заявки с данными пользователей по фильтрам.
// @Tags Admin
// @Produce  json
// @Param batch_id query int false "Фильтр по периоду"
// @Param competition_id query int false "Фильтр по соревнованию"
// @Param status query string false "Фильтр по статусу"
// @Success 200 {object} map[string]any "Список участников"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /admin/participants [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.participants"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	rows, err := h.service.ListParticipants(r.Context(), ParseFilter(r))
	if err != nil {
		log.Error("failed to list participants", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list participants"))
		return
	}

	items := make([]Item, 0, len(rows))
	for _, p := range rows {
		items = append(items, Item{
			RegistrationID: p.RegistrationID,
			FullName:       p.FullName,
			Email:          p.Email,
			Phone:          p.Phone,
			EducationLevel: p.EducationLevel,
			SchoolName:     p.SchoolName,
			Competition:    p.Competition,
			BatchName:      p.BatchName,
			Status:         p.Status,
			Price:          p.Price,
			IsTeam:         p.IsTeam,
			CreatedAt:      p.CreatedAt,
		})
	}

	log.Info("participants listed", slog.Int("count", len(items)))
	render.JSON(w, r, response.OKWithData(items))
}
