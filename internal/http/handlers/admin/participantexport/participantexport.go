// Package participantexport реализует HTTP-обработчик выгрузки участников
// в файл XLSX по тем же фильтрам, что и список.
package participantexport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/competition-registration/internal/export"
	"github.com/magabrotheeeer/competition-registration/internal/http/handlers/admin/participants"
	"github.com/magabrotheeeer/competition-registration/internal/http/response"
	"github.com/magabrotheeeer/competition-registration/internal/lib/sl"
	"github.com/magabrotheeeer/competition-registration/internal/models"
)

// Handler обрабатывает HTTP-запросы выгрузки участников.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс выгрузки участников.
type Service interface {
	ExportParticipants(ctx context.Context, filter models.ParticipantFilter) (*export.Workbook, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Выгрузка участников в XLSX
// @Tags Admin
// @Produce  application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param batch_id query int false "Фильтр по периоду"
// @Param competition_id query int false "Фильтр по соревнованию"
// @Param status query string false "Фильтр по статусу"
// @Success 200 {file} binary "Файл XLSX"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /admin/participants/export [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.participantexport"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	wb, err := h.service.ExportParticipants(r.Context(), participants.ParseFilter(r))
	if err != nil {
		log.Error("failed to export participants", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to export participants"))
		return
	}

	filename := "peserta-" + time.Now().Format("20060102-150405") + ".xlsx"
	w.Header().Set("Content-Type",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := wb.File.Write(w); err != nil {
		log.Error("failed to write workbook", sl.Err(err))
		return
	}
	log.Info("participants exported", slog.String("filename", filename))
}
