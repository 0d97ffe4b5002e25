package services

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/jhillyerd/enmime"
	"github.com/omkarinteriors/contact-api/internal/config"
	"github.com/omkarinteriors/contact-api/internal/models"
	"go.uber.org/zap"
)

// ErrSMTPNotConfigured is returned when SMTP_USER or SMTP_PASS is missing
var ErrSMTPNotConfigured = errors.New("SMTP credentials are not configured")

var headerUnsafe = strings.NewReplacer("\r", " ", "\n", " ")

// EmailNotifier emails each submission to the site owner over implicit TLS
type EmailNotifier struct {
	cfg    config.SMTPConfig
	dial   func(ctx context.Context, addr string) (*smtp.Client, error)
	logger *zap.SugaredLogger
}

// NewEmailNotifier creates a notifier for the given mail account
func NewEmailNotifier(cfg config.SMTPConfig, logger *zap.SugaredLogger) *EmailNotifier {
	return &EmailNotifier{
		cfg: cfg,
		dial: func(ctx context.Context, addr string) (*smtp.Client, error) {
			d := &tls.Dialer{Config: &tls.Config{ServerName: cfg.Host}}
			conn, err := d.DialContext(ctx, "tcp", addr)
			if err != nil {
				return nil, err
			}
			return smtp.NewClient(conn), nil
		},
		logger: logger,
	}
}

// Notify sends exactly one email for the submission. It does not retry.
func (n *EmailNotifier) Notify(ctx context.Context, sub *models.EnrichedSubmission) error {
	if !n.cfg.Configured() {
		return ErrSMTPNotConfigured
	}

	msg, err := n.compose(sub)
	if err != nil {
		return fmt.Errorf("compose notification: %w", err)
	}

	if err := n.send(ctx, []string{n.cfg.MailTo}, msg); err != nil {
		return err
	}

	n.logger.Infow("Notification sent",
		"submission_id", sub.ID,
		"to", n.cfg.MailTo,
		"bytes", len(msg),
	)
	return nil
}

func (n *EmailNotifier) compose(sub *models.EnrichedSubmission) ([]byte, error) {
	part, err := enmime.Builder().
		From(n.cfg.FromName, n.cfg.User).
		To("", n.cfg.MailTo).
		ReplyTo("", sub.Email).
		Subject("New Inquiry from "+headerUnsafe.Replace(sub.Name)).
		Header("X-Submission-ID", sub.ID.String()).
		HTML([]byte(renderNotificationHTML(sub))).
		Build()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := part.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (n *EmailNotifier) send(ctx context.Context, to []string, msg []byte) error {
	addr := n.cfg.Addr()
	c, err := n.dial(ctx, addr)
	if err != nil {
		return fmt.Errorf("dial smtp %s: %w", addr, err)
	}
	defer c.Close()

	if err := c.Auth(sasl.NewPlainClient("", n.cfg.User, n.cfg.Password)); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err := c.SendMail(n.cfg.User, to, bytes.NewReader(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	if err := c.Quit(); err != nil {
		return fmt.Errorf("smtp quit: %w", err)
	}
	return nil
}

func renderNotificationHTML(sub *models.EnrichedSubmission) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p><strong>Name:</strong> %s</p>", html.EscapeString(sub.Name))
	fmt.Fprintf(&b, "<p><strong>Email:</strong> %s</p>", html.EscapeString(sub.Email))
	fmt.Fprintf(&b, "<p><strong>Phone:</strong> %s</p>", html.EscapeString(sub.PhoneOr("N/A")))
	fmt.Fprintf(&b, "<p><strong>Message:</strong><br/>%s</p>",
		strings.ReplaceAll(html.EscapeString(sub.Message), "\n", "<br>"))
	b.WriteString("<hr/>")
	fmt.Fprintf(&b, "<p><small>IP: %s &middot; UA: %s</small></p>",
		html.EscapeString(sub.IP), html.EscapeString(sub.UserAgent))
	return b.String()
}
