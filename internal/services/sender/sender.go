// Package sender отправляет письма пользователям по событиям из очередей:
// ссылки сброса пароля и уведомления о смене статуса заявки.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/competition-registration/internal/lib/sl"
	"github.com/magabrotheeeer/competition-registration/internal/lib/smtp"
	"github.com/magabrotheeeer/competition-registration/internal/models"
)

// Подписи статусов заявки в письмах.
var statusLabels = map[string]string{
	models.StatusApproved: "Diterima",
	models.StatusRejected: "Ditolak",
}

// Service отправляет письма через SMTP-транспорт.
type Service struct {
	transport smtp.TransportInterface
	resetURL  string
	log       *slog.Logger
}

// New создает новый экземпляр Service. resetURL — базовый адрес страницы
// сброса пароля, к нему добавляется токен.
func New(transport smtp.TransportInterface, resetURL string, log *slog.Logger) *Service {
	return &Service{
		transport: transport,
		resetURL:  resetURL,
		log:       log,
	}
}

// SendPasswordReset отправляет письмо со ссылкой сброса пароля.
func (s *Service) SendPasswordReset(body []byte) error {
	var message models.ResetMail
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal reset mail", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	subject := "Reset kata sandi akun Anda"
	bodyText := fmt.Sprintf("Halo, %s!\n\n"+
		"Kami menerima permintaan reset kata sandi untuk akun Anda.\n"+
		"Silakan buka tautan berikut dalam waktu 1 jam:\n\n%s?token=%s\n\n"+
		"Abaikan email ini jika Anda tidak meminta reset.",
		message.FullName, s.resetURL, message.Token)

	return s.sendEmail([]string{message.Email}, subject, bodyText)
}

// SendRegistrationStatus отправляет письмо о смене статуса заявки.
func (s *Service) SendRegistrationStatus(body []byte) error {
	var message models.StatusMail
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal status mail", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	label, ok := statusLabels[message.Status]
	if !ok {
		label = message.Status
	}

	subject := fmt.Sprintf("Status pendaftaran %s: %s", message.Competition, label)
	bodyText := fmt.Sprintf("Halo, %s!\n\n"+
		"Status pendaftaran Anda untuk lomba %s telah diperbarui menjadi: %s.\n\n"+
		"Silakan masuk ke akun Anda untuk melihat detailnya.",
		message.FullName, message.Competition, label)

	return s.sendEmail([]string{message.Email}, subject, bodyText)
}

func (s *Service) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", "recipient", addr, sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}
	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}
	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", "to", to)
	return nil
}
