// Package registration содержит логику заявок на участие: создание с расчётом
// цены по текущему периоду, загрузку подтверждений оплаты и конкурсных работ,
// выдачу подписанных ссылок и очистку просроченных неоплаченных заявок.
package registration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/competition-registration/internal/lib/sl"
	"github.com/magabrotheeeer/competition-registration/internal/media"
	"github.com/magabrotheeeer/competition-registration/internal/models"
	"github.com/magabrotheeeer/competition-registration/internal/services/pricing"
)

// PaymentDeadline срок, в течение которого заявку нужно оплатить.
const PaymentDeadline = 24 * time.Hour

// ProofURLTTL время жизни подписанной ссылки на подтверждение оплаты.
const ProofURLTTL = 15 * time.Minute

// Ошибки бизнес-правил заявок.
var (
	ErrRegistrationClosed = errors.New("registration is closed")
	ErrTeamTooLarge       = errors.New("team size exceeds competition limit")
	ErrNotOwner           = errors.New("registration belongs to another user")
	ErrNotApproved        = errors.New("registration is not approved")
	ErrNoPaymentProof     = errors.New("registration has no payment proof")
)

// Repository описывает контракт хранилища заявок и связанных сущностей.
type Repository interface {
	CreateRegistration(ctx context.Context, reg models.Registration, members []models.TeamMember) (int64, error)
	GetRegistration(ctx context.Context, id int64) (*models.Registration, error)
	ListRegistrationsByUser(ctx context.Context, userUID string) ([]*models.Registration, error)
	SetPaymentProof(ctx context.Context, id int64, proofKey string) error
	ListExpiredPending(ctx context.Context) ([]*models.Registration, error)
	RemoveRegistration(ctx context.Context, id int64) (int64, error)

	GetUser(ctx context.Context, userUID string) (*models.User, error)
	GetCompetition(ctx context.Context, id int64) (*models.Competition, error)
	IncrementParticipantCount(ctx context.Context, id int64) error

	CreateSubmission(ctx context.Context, sub models.Submission) (int64, error)
	ListSubmissionsByRegistration(ctx context.Context, registrationID int64) ([]*models.Submission, error)
}

// BatchResolver определяет текущий период регистрации.
type BatchResolver interface {
	Resolve(ctx context.Context) (*models.BatchResolution, error)
}

// PricingProvider строит таблицу цен.
type PricingProvider interface {
	Load(ctx context.Context) (pricing.Table, error)
}

// Media описывает контракт хранилища файлов.
type Media interface {
	Upload(ctx context.Context, key string, body io.ReadSeeker, contentType string) error
	Delete(ctx context.Context, key string) error
	SignedURL(key string, ttl time.Duration) (string, error)
}

// Service отвечает за заявки пользователей.
type Service struct {
	repo    Repository
	batches BatchResolver
	prices  PricingProvider
	media   Media
	log     *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, batches BatchResolver, prices PricingProvider, m Media, log *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		batches: batches,
		prices:  prices,
		media:   m,
		log:     log,
	}
}

// Create создает заявку пользователя на соревнование в текущем периоде.
//
// Регистрация должна быть открыта. Цена берётся из таблицы цен по тройке
// период/соревнование/уровень образования пользователя на момент создания
// и фиксируется в заявке. Размер команды вместе с подающим не может
// превышать лимит соревнования. На оплату отводится PaymentDeadline.
func (s *Service) Create(ctx context.Context, userUID string, req models.CreateRegistrationRequest) (*models.Registration, error) {
	resolution, err := s.batches.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	if resolution.RegistrationClosed || resolution.Batch == nil {
		return nil, ErrRegistrationClosed
	}

	comp, err := s.repo.GetCompetition(ctx, req.CompetitionID)
	if err != nil {
		return nil, err
	}
	if req.IsTeam && len(req.TeamMembers)+1 > comp.MaxTeamSize {
		return nil, ErrTeamTooLarge
	}

	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return nil, err
	}
	table, err := s.prices.Load(ctx)
	if err != nil {
		return nil, err
	}
	price := table.Price(resolution.Batch.ID, comp.ID, user.EducationLevel)

	reg := models.Registration{
		UserUID:       userUID,
		CompetitionID: comp.ID,
		BatchID:       resolution.Batch.ID,
		Status:        models.StatusPending,
		IsTeam:        req.IsTeam,
		Price:         price,
		ExpiresAt:     time.Now().Add(PaymentDeadline),
	}

	var members []models.TeamMember
	if req.IsTeam {
		for _, m := range req.TeamMembers {
			members = append(members, models.TeamMember{Name: m.Name, Email: m.Email})
		}
	}

	id, err := s.repo.CreateRegistration(ctx, reg, members)
	if err != nil {
		return nil, err
	}
	reg.ID = id

	if err := s.repo.IncrementParticipantCount(ctx, comp.ID); err != nil {
		s.log.Warn("failed to increment participant count", sl.Err(err),
			slog.Int64("competition_id", comp.ID))
	}

	s.log.Info("registration created",
		slog.Int64("registration_id", id),
		slog.Int64("competition_id", comp.ID),
		slog.Int64("batch_id", resolution.Batch.ID),
		slog.Int("price", price))
	return &reg, nil
}

// ListMine возвращает заявки пользователя.
func (s *Service) ListMine(ctx context.Context, userUID string) ([]*models.Registration, error) {
	return s.repo.ListRegistrationsByUser(ctx, userUID)
}

// Read возвращает заявку, если она принадлежит пользователю.
func (s *Service) Read(ctx context.Context, userUID string, id int64) (*models.Registration, error) {
	reg, err := s.repo.GetRegistration(ctx, id)
	if err != nil {
		return nil, err
	}
	if reg.UserUID != userUID {
		return nil, ErrNotOwner
	}
	return reg, nil
}

// UploadPaymentProof загружает файл подтверждения оплаты и привязывает его
// к заявке. Предыдущий файл удаляется по возможности.
func (s *Service) UploadPaymentProof(ctx context.Context, userUID string, id int64, body io.ReadSeeker, contentType string) (string, error) {
	reg, err := s.Read(ctx, userUID, id)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/%d/%s", media.FolderPaymentProofs, id, uuid.NewString())
	if err := s.media.Upload(ctx, key, body, contentType); err != nil {
		return "", err
	}
	if err := s.repo.SetPaymentProof(ctx, id, key); err != nil {
		return "", err
	}

	if reg.PaymentProofKey != "" {
		if err := s.media.Delete(ctx, reg.PaymentProofKey); err != nil {
			s.log.Warn("failed to delete old payment proof", sl.Err(err))
		}
	}
	return key, nil
}

// SubmitWork загружает файл конкурсной работы для одобренной заявки.
func (s *Service) SubmitWork(ctx context.Context, userUID string, id int64, body io.ReadSeeker, originalName, contentType string) (*models.Submission, error) {
	reg, err := s.Read(ctx, userUID, id)
	if err != nil {
		return nil, err
	}
	if reg.Status != models.StatusApproved {
		return nil, ErrNotApproved
	}

	key := fmt.Sprintf("%s/%d/%s", media.FolderSubmissions, id, uuid.NewString())
	if err := s.media.Upload(ctx, key, body, contentType); err != nil {
		return nil, err
	}

	sub := models.Submission{
		RegistrationID: id,
		FileKey:        key,
		OriginalName:   originalName,
	}
	subID, err := s.repo.CreateSubmission(ctx, sub)
	if err != nil {
		return nil, err
	}
	sub.ID = subID
	return &sub, nil
}

// ListSubmissions возвращает работы, загруженные по заявке пользователя.
func (s *Service) ListSubmissions(ctx context.Context, userUID string, id int64) ([]*models.Submission, error) {
	if _, err := s.Read(ctx, userUID, id); err != nil {
		return nil, err
	}
	return s.repo.ListSubmissionsByRegistration(ctx, id)
}

// SignedProofURL возвращает короткоживущую подписанную ссылку на файл
// подтверждения оплаты. Доступна владельцу заявки и администратору.
func (s *Service) SignedProofURL(ctx context.Context, userUID, role string, id int64) (string, error) {
	reg, err := s.repo.GetRegistration(ctx, id)
	if err != nil {
		return "", err
	}
	if reg.UserUID != userUID && role != models.RoleAdmin {
		return "", ErrNotOwner
	}
	if reg.PaymentProofKey == "" {
		return "", ErrNoPaymentProof
	}
	return s.media.SignedURL(reg.PaymentProofKey, ProofURLTTL)
}

// CleanupExpired удаляет просроченные неоплаченные заявки и возвращает
// число удалённых. Вызывается по расписанию.
func (s *Service) CleanupExpired(ctx context.Context) (int, error) {
	expired, err := s.repo.ListExpiredPending(ctx)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, reg := range expired {
		n, err := s.repo.RemoveRegistration(ctx, reg.ID)
		if err != nil {
			s.log.Error("failed to remove expired registration", sl.Err(err),
				slog.Int64("registration_id", reg.ID))
			continue
		}
		removed += int(n)
	}
	if removed > 0 {
		s.log.Info("expired registrations removed", slog.Int("count", removed))
	}
	return removed, nil
}
