package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-resty/resty/v2"
	"github.com/tumbluv/tumbluv-api/internal/config"
	"github.com/tumbluv/tumbluv-api/internal/logger"
)

// Mailer delivers verification codes
type Mailer interface {
	SendVerificationCode(ctx context.Context, email, code string) error
}

// NewMailer returns a Resend-backed mailer when an API key is configured
// and a logging mailer otherwise.
func NewMailer(cfg config.Mail) Mailer {
	if cfg.ResendAPIKey == "" {
		return &LogMailer{log: logger.New("Mailer")}
	}
	return NewResendMailer(cfg)
}

// ResendMailer sends mail through the Resend HTTP API
type ResendMailer struct {
	client *resty.Client
	from   string
}

func NewResendMailer(cfg config.Mail) *ResendMailer {
	return &ResendMailer{
		client: resty.New().
			SetBaseURL(cfg.ResendURL).
			SetAuthToken(cfg.ResendAPIKey).
			SetHeader("Content-Type", "application/json"),
		from: cfg.From,
	}
}

type resendEmail struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

func (m *ResendMailer) SendVerificationCode(ctx context.Context, email, code string) error {
	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(resendEmail{
			From:    m.from,
			To:      []string{email},
			Subject: "[tumbluv] 이메일 인증 코드",
			Text:    fmt.Sprintf("인증 코드: %s", code),
		}).
		Post("/emails")
	if err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("failed to send mail: status %d", resp.StatusCode())
	}
	return nil
}

// LogMailer writes codes to the log. Used in development.
type LogMailer struct {
	log *slog.Logger
}

func (m *LogMailer) SendVerificationCode(_ context.Context, email, code string) error {
	m.log.Info("verification code issued", "email", email, "code", code)
	return nil
}
