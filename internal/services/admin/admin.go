// Package admin содержит административные операции: управление периодами
// регистрации, переключение текущего периода, массовую смену статусов заявок
// с почтовыми уведомлениями и выгрузку участников и цен в XLSX.
package admin

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/magabrotheeeer/competition-registration/internal/export"
	"github.com/magabrotheeeer/competition-registration/internal/lib/sl"
	"github.com/magabrotheeeer/competition-registration/internal/models"
	"github.com/magabrotheeeer/competition-registration/internal/services/notifier"
)

// ErrUnknownStatus возвращается при попытке выставить неизвестный статус.
var ErrUnknownStatus = errors.New("unknown registration status")

// Repository описывает контракт хранилища для административных операций.
type Repository interface {
	CreateBatch(ctx context.Context, name string, startDate, endDate time.Time) (int64, error)
	GetBatch(ctx context.Context, id int64) (*models.Batch, error)
	ListBatches(ctx context.Context) ([]*models.Batch, error)
	UpdateBatch(ctx context.Context, id int64, name string, startDate, endDate time.Time) error
	RemoveBatch(ctx context.Context, id int64) (int64, error)

	UpsertSetting(ctx context.Context, key, value string) error
	ToggleRegistrationClosed(ctx context.Context) (bool, error)

	BulkUpdateStatus(ctx context.Context, ids []int64, status string) (int64, error)
	ListParticipants(ctx context.Context, filter models.ParticipantFilter) ([]models.ParticipantRow, error)

	GetRegistration(ctx context.Context, id int64) (*models.Registration, error)
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	GetCompetition(ctx context.Context, id int64) (*models.Competition, error)

	ListPricing(ctx context.Context) ([]models.PricingRow, error)
}

// Service отвечает за административные операции.
type Service struct {
	repo     Repository
	notifier notifier.Notifier
	log      *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, n notifier.Notifier, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		notifier: n,
		log:      log,
	}
}

// CreateBatch создает новый период регистрации.
func (s *Service) CreateBatch(ctx context.Context, req models.BatchRequest) (int64, error) {
	return s.repo.CreateBatch(ctx, req.Name, req.StartDate, req.EndDate)
}

// UpdateBatch полностью заменяет данные периода регистрации.
func (s *Service) UpdateBatch(ctx context.Context, id int64, req models.BatchRequest) error {
	return s.repo.UpdateBatch(ctx, id, req.Name, req.StartDate, req.EndDate)
}

// RemoveBatch удаляет период регистрации и возвращает число удалённых строк.
func (s *Service) RemoveBatch(ctx context.Context, id int64) (int64, error) {
	return s.repo.RemoveBatch(ctx, id)
}

// SwitchBatch делает период текущим. Период должен существовать,
// проверка выполняется до записи настройки.
func (s *Service) SwitchBatch(ctx context.Context, id int64) (*models.Batch, error) {
	b, err := s.repo.GetBatch(ctx, id)
	if err != nil {
		return nil, err
	}
	err = s.repo.UpsertSetting(ctx, models.SettingCurrentBatchID, strconv.FormatInt(id, 10))
	if err != nil {
		return nil, err
	}
	s.log.Info("current batch switched", slog.Int64("batch_id", id), slog.String("name", b.Name))
	return b, nil
}

// ToggleRegistration переключает ручной флаг закрытия регистрации
// и возвращает новое значение.
func (s *Service) ToggleRegistration(ctx context.Context) (bool, error) {
	closed, err := s.repo.ToggleRegistrationClosed(ctx)
	if err != nil {
		return false, err
	}
	s.log.Info("registration flag toggled", slog.Bool("closed", closed))
	return closed, nil
}

// BulkUpdateStatus применяет статус к набору заявок одним запросом
// и ставит в очередь письма затронутым пользователям. Ошибка письма
// не откатывает смену статуса.
func (s *Service) BulkUpdateStatus(ctx context.Context, ids []int64, status string) (int64, error) {
	if status != models.StatusPending && status != models.StatusApproved && status != models.StatusRejected {
		return 0, ErrUnknownStatus
	}

	n, err := s.repo.BulkUpdateStatus(ctx, ids, status)
	if err != nil {
		return 0, err
	}
	s.log.Info("registration statuses updated",
		slog.String("status", status), slog.Int64("count", n))

	if status == models.StatusApproved || status == models.StatusRejected {
		for _, id := range ids {
			s.queueStatusMail(ctx, id, status)
		}
	}
	return n, nil
}

func (s *Service) queueStatusMail(ctx context.Context, registrationID int64, status string) {
	reg, err := s.repo.GetRegistration(ctx, registrationID)
	if err != nil {
		s.log.Warn("failed to load registration for status mail", sl.Err(err),
			slog.Int64("registration_id", registrationID))
		return
	}
	user, err := s.repo.GetUser(ctx, reg.UserUID)
	if err != nil {
		s.log.Warn("failed to load user for status mail", sl.Err(err))
		return
	}
	comp, err := s.repo.GetCompetition(ctx, reg.CompetitionID)
	if err != nil {
		s.log.Warn("failed to load competition for status mail", sl.Err(err))
		return
	}

	err = s.notifier.RegistrationStatus(models.StatusMail{
		Email:       user.Email,
		FullName:    user.FullName,
		Competition: comp.Title,
		Status:      status,
	})
	if err != nil {
		s.log.Error("failed to queue status mail", sl.Err(err),
			slog.Int64("registration_id", registrationID))
	}
}

// ListParticipants возвращает заявки с данными пользователей и соревнований
// по необязательным фильтрам.
func (s *Service) ListParticipants(ctx context.Context, filter models.ParticipantFilter) ([]models.ParticipantRow, error) {
	return s.repo.ListParticipants(ctx, filter)
}

// Подписи статусов в выгрузках.
var statusLabels = map[string]string{
	models.StatusPending:  "Menunggu",
	models.StatusApproved: "Diterima",
	models.StatusRejected: "Ditolak",
}

// StatusLabel возвращает подпись статуса для выгрузок и писем.
func StatusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return status
}

// ExportParticipants выгружает участников по фильтру в книгу XLSX.
func (s *Service) ExportParticipants(ctx context.Context, filter models.ParticipantFilter) (*export.Workbook, error) {
	rows, err := s.repo.ListParticipants(ctx, filter)
	if err != nil {
		return nil, err
	}

	data := make([][]string, 0, len(rows))
	for _, p := range rows {
		team := "Individu"
		if p.IsTeam {
			team = "Tim"
		}
		data = append(data, []string{
			strconv.FormatInt(p.RegistrationID, 10),
			p.FullName,
			p.Email,
			p.Phone,
			p.EducationLevel,
			p.SchoolName,
			p.Competition,
			p.BatchName,
			StatusLabel(p.Status),
			strconv.Itoa(p.Price),
			team,
			p.CreatedAt.Format("2006-01-02 15:04"),
		})
	}

	return export.NewWorkbook([]export.SheetSpec{{
		Title: "Peserta",
		Header: []string{"ID", "Nama Lengkap", "Email", "Telepon", "Jenjang",
			"Sekolah", "Lomba", "Gelombang", "Status", "Harga", "Jenis", "Tanggal Daftar"},
		Rows: data,
	}})
}

// ExportPricing выгружает таблицу цен в книгу XLSX.
func (s *Service) ExportPricing(ctx context.Context) (*export.Workbook, error) {
	rows, err := s.repo.ListPricing(ctx)
	if err != nil {
		return nil, err
	}

	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, []string{
			strconv.FormatInt(r.BatchID, 10),
			strconv.FormatInt(r.CompetitionID, 10),
			r.EducationLevel,
			strconv.Itoa(r.Price),
		})
	}

	return export.NewWorkbook([]export.SheetSpec{{
		Title:  "Harga",
		Header: []string{"Gelombang", "Lomba", "Jenjang", "Harga"},
		Rows:   data,
	}})
}
