// Package notifier публикует события писем в RabbitMQ. Почтовый воркер
// забирает их из очередей и отправляет письма по SMTP.
package notifier

import (
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/competition-registration/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/competition-registration/internal/lib/sl"
	"github.com/magabrotheeeer/competition-registration/internal/models"
)

// Notifier описывает публикацию почтовых событий.
type Notifier interface {
	// PasswordReset публикует письмо со ссылкой сброса пароля.
	PasswordReset(mail models.ResetMail) error
	// RegistrationStatus публикует письмо об изменении статуса заявки.
	RegistrationStatus(mail models.StatusMail) error
}

// Service публикует события в exchange уведомлений.
type Service struct {
	ch  *amqp.Channel
	log *slog.Logger
}

// New создает новый экземпляр Service.
func New(ch *amqp.Channel, log *slog.Logger) *Service {
	return &Service{ch: ch, log: log}
}

// PasswordReset публикует событие запроса сброса пароля.
func (s *Service) PasswordReset(mail models.ResetMail) error {
	err := rabbitmq.PublishMessage(s.ch, rabbitmq.NotificationsExchange,
		rabbitmq.RoutingKeyResetRequested, mail)
	if err != nil {
		s.log.Error("failed to publish reset mail", sl.Err(err))
		return err
	}
	return nil
}

// RegistrationStatus публикует событие изменения статуса заявки.
func (s *Service) RegistrationStatus(mail models.StatusMail) error {
	err := rabbitmq.PublishMessage(s.ch, rabbitmq.NotificationsExchange,
		rabbitmq.RoutingKeyStatusChanged, mail)
	if err != nil {
		s.log.Error("failed to publish status mail", sl.Err(err))
		return err
	}
	return nil
}
