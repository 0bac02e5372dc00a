package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"

	"github.com/yourusername/automatismes-api/internal/domain/entity"
)

// EmailService отправляет письма сопровождающим
type EmailService interface {
	SendFeedback(ctx context.Context, feedback *entity.Feedback) error
}

// NoopEmailService используется, когда отправка писем выключена
type NoopEmailService struct{}

func (s *NoopEmailService) SendFeedback(ctx context.Context, feedback *entity.Feedback) error {
	log.Printf("[EmailService] noop send feedback id=%d from user=%d", feedback.ID, feedback.UserID)
	return nil
}

// ResendEmailService отправляет письма через Resend REST API
type ResendEmailService struct {
	from       string
	recipients []string
	client     *resend.Client
}

func NewResendEmailService(apiKey, from string, recipients []string) (*ResendEmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend api key is required")
	}
	if from == "" {
		return nil, fmt.Errorf("email from is required")
	}
	if len(recipients) == 0 {
		return nil, fmt.Errorf("at least one feedback recipient is required")
	}
	return &ResendEmailService{
		from:       from,
		recipients: recipients,
		client:     resend.NewClient(apiKey),
	}, nil
}

func (s *ResendEmailService) SendFeedback(ctx context.Context, feedback *entity.Feedback) error {
	if feedback == nil || strings.TrimSpace(feedback.Message) == "" {
		return fmt.Errorf("feedback message is required")
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      s.recipients,
		Subject: fmt.Sprintf("Retour de %s", feedback.Username),
		Text:    feedbackText(feedback),
		Html:    feedbackHTML(feedback),
	}

	// Повторная отправка того же отзыва не дублирует письмо
	options := &resend.SendEmailOptions{IdempotencyKey: fmt.Sprintf("feedback-%d", feedback.ID)}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		_, err := s.client.Emails.SendWithOptions(ctx, params, options)
		if err == nil {
			return nil
		}
		lastErr = err

		if wait, ok := resendRetryDelay(err, attempt); ok {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
				continue
			}
		}

		return fmt.Errorf("resend send failed: %w", err)
	}

	return fmt.Errorf("resend send failed after retries: %w", lastErr)
}

func feedbackText(f *entity.Feedback) string {
	return fmt.Sprintf("Utilisateur : %s (id %d)\nDate : %s\n\n%s\n",
		f.Username, f.UserID, f.CreatedAt.Format("02/01/2006 15:04"), f.Message)
}

func feedbackHTML(f *entity.Feedback) string {
	body := strings.ReplaceAll(html.EscapeString(f.Message), "\n", "<br>")
	return fmt.Sprintf("<p><strong>%s</strong> (id %d), %s</p><p>%s</p>",
		html.EscapeString(f.Username), f.UserID, f.CreatedAt.Format("02/01/2006 15:04"), body)
}

func resendRetryDelay(err error, attempt int) (time.Duration, bool) {
	var rateLimitErr *resend.RateLimitError
	if errors.As(err, &rateLimitErr) {
		if seconds, convErr := strconv.Atoi(strings.TrimSpace(rateLimitErr.RetryAfter)); convErr == nil && seconds > 0 {
			if seconds > 30 {
				seconds = 30
			}
			return time.Duration(seconds) * time.Second, true
		}
		return time.Duration(attempt+1) * time.Second, true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return time.Duration(attempt+1) * 500 * time.Millisecond, true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "timeout") || strings.Contains(msg, "temporar") {
		return time.Duration(attempt+1) * 500 * time.Millisecond, true
	}

	return 0, false
}
