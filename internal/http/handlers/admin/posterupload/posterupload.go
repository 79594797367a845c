// Package posterupload реализует HTTP-обработчик загрузки постера
// соревнования. Файл принимается multipart-формой в поле file.
package posterupload

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/competition-registration/internal/http/response"
	"github.com/magabrotheeeer/competition-registration/internal/lib/sl"
	"github.com/magabrotheeeer/competition-registration/internal/storage"
)

// MaxUploadSize предельный размер файла постера.
const MaxUploadSize = 10 << 20

// Handler обрабатывает HTTP-запросы загрузки постеров соревнований.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс каталога соревнований.
type Service interface {
	UploadPoster(ctx context.Context, id int64, body io.ReadSeeker, contentType string) (string, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Загрузка постера соревнования
// @Description Принимает файл постера и привязывает его к соревнованию.
// @Tags Admin
// @Accept  mpfd
// @Produce  json
// @Param id path int true "ID соревнования"
// @Param file formData file true "Файл постера"
// @Success 200 {object} map[string]any "Файл загружен"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 404 {object} response.ErrorResponse "Соревнование не найдено"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /admin/competitions/{id}/poster [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.posterupload"

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

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		log.Error("failed to read uploaded file", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("file is required"))
		return
	}
	defer func() {
		_ = file.Close()
	}()

	contentType := header.Header.Get("Content-Type")
	key, err := h.service.UploadPoster(r.Context(), id, file, contentType)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Warn("competition not found", slog.Int64("competition_id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("competition not found"))
			return
		}
		log.Error("failed to upload poster", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to upload poster"))
		return
	}

	log.Info("poster uploaded", slog.Int64("competition_id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"file_key": key,
	}))
}
