// Package sender отправляет квитанции о пожертвованиях на почту жертвователя.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/donation-gateway/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/donation-gateway/internal/lib/sl"
	"github.com/magabrotheeeer/donation-gateway/internal/lib/smtp"
	"github.com/magabrotheeeer/donation-gateway/internal/models"
)

// SenderService отправляет письма через SMTP транспорт.
type SenderService struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(log *slog.Logger, transport smtp.TransportInterface) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// SendDonationReceipt отправляет квитанцию о зачисленном пожертвовании.
// Нечитаемое сообщение - постоянная ошибка: повторная доставка его не
// исправит, поэтому оно помечается как ErrRejected.
func (s *SenderService) SendDonationReceipt(body []byte) error {
	var receipt models.DonationReceipt
	if err := json.Unmarshal(body, &receipt); err != nil {
		s.log.Error("failed to unmarshal message body", "error", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %v: %w", err, rabbitmq.ErrRejected)
	}
	if receipt.Email == "" {
		s.log.Info("receipt has no email, skipping", "reference", receipt.Reference)
		return nil
	}

	to := []string{receipt.Email}
	subject := "Thank you for your donation"
	bodyText := fmt.Sprintf(`Hello!

Thank you for supporting us. Your donation of %.2f NGN has been received.

Reference: %s
Paid at: %s

God bless you!`, receipt.Amount, receipt.Reference, receipt.PaidAt)

	return s.sendEmail(to, subject, bodyText)
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
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
		s.log.Error("failed to connect to SMTP server", "error", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), "error", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", "recipient", addr, "error", sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", "error", sl.Err(err))
		return err
	}

	_, err = wc.Write([]byte(msg))
	if err != nil {
		s.log.Error("failed to write email body", "error", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", "error", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", "error", sl.Err(err))
		return err
	}

	s.log.Info("donation receipt sent", "to", to)
	return nil
}
