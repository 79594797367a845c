// Package submitwork реализует HTTP-обработчик загрузки конкурсной работы
// по одобренной заявке. Файл принимается multipart-формой в поле file.
package submitwork

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

	"github.com/magabrotheeeer/competition-registration/internal/http/middlewarectx"
	"github.com/magabrotheeeer/competition-registration/internal/http/response"
	"github.com/magabrotheeeer/competition-registration/internal/lib/sl"
	"github.com/magabrotheeeer/competition-registration/internal/models"
	"github.com/magabrotheeeer/competition-registration/internal/services/registration"
	"github.com/magabrotheeeer/competition-registration/internal/storage"
)

// MaxUploadSize предельный размер файла конкурсной работы.
const MaxUploadSize = 50 << 20

// Handler обрабатывает HTTP-запросы загрузки конкурсных работ.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики заявок.
type Service interface {
	SubmitWork(ctx context.Context, userUID string, id int64, body io.ReadSeeker, originalName, contentType string) (*models.Submission, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Загрузка конкурсной работы
// @Description Принимает файл работы по одобренной заявке текущего пользователя.
// @Tags Registrations
// @Accept  mpfd
// @Produce  json
// @Param id path int true "ID заявки"
// @Param file formData file true "Файл конкурсной работы"
// @Success 200 {object} map[string]any "Работа загружена"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос или заявка не одобрена"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Заявка принадлежит другому пользователю"
// @Failure 404 {object} response.ErrorResponse "Заявка не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /registrations/{id}/submission [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.registration.submitwork"

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
	sub, err := h.service.SubmitWork(r.Context(), userUID, id, file, header.Filename, contentType)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("registration not found"))
		case errors.Is(err, registration.ErrNotOwner):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("access denied"))
		case errors.Is(err, registration.ErrNotApproved):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("registration is not approved"))
		default:
			log.Error("failed to submit work", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to submit work"))
		}
		return
	}

	log.Info("submission uploaded", slog.Int64("registration_id", id),
		slog.Int64("submission_id", sub.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"submission_id": sub.ID,
		"original_name": sub.OriginalName,
	}))
}
