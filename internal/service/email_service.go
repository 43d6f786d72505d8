package service

import (
	"context"
	"fmt"
	"log"

	"github.com/resend/resend-go/v2"

	"github.com/yourusername/examprep-api/internal/domain/entity"
)

// EmailService sends transactional emails.
type EmailService interface {
	SendAttemptResult(ctx context.Context, toEmail, studentName string, attempt *entity.Attempt) error
}

// NoopEmailService is used when parent notifications are disabled.
type NoopEmailService struct{}

func (s *NoopEmailService) SendAttemptResult(ctx context.Context, toEmail, studentName string, attempt *entity.Attempt) error {
	log.Printf("[EmailService] noop send attempt result to=%s", toEmail)
	return nil
}

// ResendEmailService sends emails via Resend REST API.
type ResendEmailService struct {
	from   string
	client *resend.Client
}

func NewResendEmailService(apiKey, from string) (*ResendEmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend api key is required")
	}
	if from == "" {
		return nil, fmt.Errorf("email from is required")
	}
	return &ResendEmailService{
		from:   from,
		client: resend.NewClient(apiKey),
	}, nil
}

// SendAttemptResult отправляет родителю сводку по завершенной попытке
func (s *ResendEmailService) SendAttemptResult(ctx context.Context, toEmail, studentName string, attempt *entity.Attempt) error {
	if toEmail == "" || attempt == nil {
		return fmt.Errorf("toEmail and attempt are required")
	}

	percent := attempt.Score * 100
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{toEmail},
		Subject: fmt.Sprintf("Practice test result for %s", studentName),
		Text: fmt.Sprintf("%s completed a practice test: %d of %d correct (%.0f%%), time spent %d min.",
			studentName, attempt.CorrectAnswers, attempt.TotalQuestions, percent, attempt.TimeSpentSec/60),
		Html: fmt.Sprintf("<p><strong>%s</strong> completed a practice test.</p><p>Result: <strong>%d of %d</strong> correct (%.0f%%).</p>",
			studentName, attempt.CorrectAnswers, attempt.TotalQuestions, percent),
	}

	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("resend send failed: %w", err)
	}
	return nil
}
