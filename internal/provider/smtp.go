package provider

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/campaignbridge/campaignbridge/internal/domain"
)

// =============================================================================
// SMTP Provider
// =============================================================================

// SMTPConfig holds SMTP server configuration.
type SMTPConfig struct {
	Host     string // SMTP server hostname (e.g., "localhost" for Mailhog)
	Port     int    // SMTP server port (e.g., 1025 for Mailhog)
	Username string // SMTP authentication username (empty for Mailhog)
	Password string // SMTP authentication password (empty for Mailhog)
	From     string // Sender email address
	FromName string // Sender display name
}

// SMTPProvider delivers campaigns over SMTP.
//
// Works with Mailhog in development (no authentication) and any standard
// SMTP relay in production.
type SMTPProvider struct {
	config SMTPConfig
	logger *slog.Logger
}

// NewSMTPProvider creates an SMTPProvider.
func NewSMTPProvider(config SMTPConfig, logger *slog.Logger) *SMTPProvider {
	return &SMTPProvider{
		config: config,
		logger: logger,
	}
}

// Name implements Provider.
func (p *SMTPProvider) Name() string {
	return "smtp"
}

// Deliver sends the campaign to each recipient.
func (p *SMTPProvider) Deliver(ctx context.Context, campaign domain.Campaign) error {
	if len(campaign.Recipients) == 0 {
		return domain.Invalid("provider.smtp", "campaign has no recipients")
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	msg := p.buildMessage(campaign)
	addr := fmt.Sprintf("%s:%d", p.config.Host, p.config.Port)

	// Mailhog needs no auth
	var auth smtp.Auth
	if p.config.Username != "" && p.config.Password != "" {
		auth = smtp.PlainAuth("", p.config.Username, p.config.Password, p.config.Host)
	}

	if err := smtp.SendMail(addr, auth, p.config.From, campaign.Recipients, msg); err != nil {
		p.logger.Error("failed to send campaign",
			"campaign_id", campaign.ID,
			"recipients", len(campaign.Recipients),
			"error", err,
		)
		return fmt.Errorf("failed to send campaign: %w", err)
	}

	p.logger.Info("campaign sent",
		"campaign_id", campaign.ID,
		"recipients", len(campaign.Recipients),
		"subject", campaign.Subject,
	)

	return nil
}

// buildMessage constructs the raw email message with headers. The HTML body
// is already self-contained, so no multipart alternative is needed beyond a
// single html part.
func (p *SMTPProvider) buildMessage(campaign domain.Campaign) []byte {
	var buf bytes.Buffer

	fromHeader := fmt.Sprintf("%s <%s>", p.config.FromName, p.config.From)

	buf.WriteString(fmt.Sprintf("From: %s\r\n", fromHeader))
	buf.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(campaign.Recipients, ", ")))
	buf.WriteString(fmt.Sprintf("Subject: %s\r\n", campaign.Subject))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(campaign.HTML)
	buf.WriteString("\r\n")

	return buf.Bytes()
}

var _ Provider = (*SMTPProvider)(nil)
