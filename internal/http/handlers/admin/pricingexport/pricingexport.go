// Package pricingexport реализует HTTP-обработчик выгрузки таблицы цен в XLSX.
package pricingexport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/competition-registration/internal/export"
	"github.com/magabrotheeeer/competition-registration/internal/http/response"
	"github.com/magabrotheeeer/competition-registration/internal/lib/sl"
)

// Handler обрабатывает HTTP-запросы выгрузки цен.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс выгрузки таблицы цен.
type Service interface {
	ExportPricing(ctx context.Context) (*export.Workbook, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Выгрузка таблицы цен в XLSX
// @Tags Admin
// @Produce  application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary "Файл XLSX"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /admin/pricing/export [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.pricingexport"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	wb, err := h.service.ExportPricing(r.Context())
	if err != nil {
		log.Error("failed to export pricing", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to export pricing"))
		return
	}

	filename := "harga-" + time.Now().Format("20060102-150405") + ".xlsx"
	w.Header().Set("Content-Type",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := wb.File.Write(w); err != nil {
		log.Error("failed to write workbook", sl.Err(err))
		return
	}
	log.Info("pricing exported", slog.String("filename", filename))
}
