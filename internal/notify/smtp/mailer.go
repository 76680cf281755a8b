// Package smtp adapts the notify transport port onto an SMTP relay.
package smtp

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"formdesk/internal/notify"
	"formdesk/internal/platform/config"
)

// Mailer delivers emails through an SMTP relay using go-mail.
type Mailer struct {
	client *gomail.Client
}

// New builds an SMTP mailer from configuration. Authentication is enabled
// only when a username is configured.
func New(cfg config.SMTP) (*Mailer, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}
	return &Mailer{client: client}, nil
}

// Send assembles and delivers one email. The body is always HTML in UTF-8.
func (m *Mailer) Send(ctx context.Context, email notify.Email) error {
	msg := gomail.NewMsg()
	msg.SetCharset(gomail.CharsetUTF8)

	if err := msg.FromFormat(email.FromName, email.FromAddress); err != nil {
		return fmt.Errorf("set from header: %w", err)
	}
	if err := msg.ReplyToFormat(email.ReplyToName, email.ReplyToAddress); err != nil {
		return fmt.Errorf("set reply-to header: %w", err)
	}
	if err := msg.To(email.To...); err != nil {
		return fmt.Errorf("set recipients: %w", err)
	}
	if len(email.Cc) > 0 {
		if err := msg.Cc(email.Cc...); err != nil {
			return fmt.Errorf("set cc recipients: %w", err)
		}
	}

	msg.Subject(email.Subject)
	msg.SetBodyString(gomail.TypeTextHTML, email.HTMLBody)
	for _, path := range email.AttachmentPaths {
		msg.AttachFile(path)
	}

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}
