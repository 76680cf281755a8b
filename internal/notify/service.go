package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"formdesk/internal/audit"
	"formdesk/internal/message/models"
	"formdesk/internal/settings"
	"formdesk/pkg/domain"
	dErrors "formdesk/pkg/domain-errors"
)

// crlf separates the body from the appended attachment-URL listing, for
// compatibility with legacy consumers of the audit trail.
const crlf = "\r\n"

// Service validates, assembles, sends, and audits notifications. Dry-run
// mode is an explicit construction-time flag, not ambient process state: it
// short-circuits delivery while still recording history, so the trail can be
// exercised without live mail.
type Service struct {
	mailer      Mailer
	attachments AttachmentResolver
	settings    *settings.Service
	recorder    *audit.Recorder
	dryRun      bool
	logger      *slog.Logger
	metrics     *Metrics
}

// Option configures a Service.
type Option func(*Service)

// WithLogger overrides the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithDryRun toggles dry-run mode.
func WithDryRun(dryRun bool) Option {
	return func(s *Service) {
		s.dryRun = dryRun
	}
}

// WithMetrics attaches Prometheus counters.
func WithMetrics(m *Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs the notification dispatcher.
func New(
	mailer Mailer,
	attachments AttachmentResolver,
	options *settings.Service,
	recorder *audit.Recorder,
	opts ...Option,
) (*Service, error) {
	if mailer == nil {
		return nil, fmt.Errorf("mailer is required")
	}
	if attachments == nil {
		return nil, fmt.Errorf("attachment resolver is required")
	}
	if options == nil {
		return nil, fmt.Errorf("settings service is required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("audit recorder is required")
	}

	svc := &Service{
		mailer:      mailer,
		attachments: attachments,
		settings:    options,
		recorder:    recorder,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Send validates the request, resolves every attachment, delivers the email,
// and records the delivery as a history item keyed by code.
//
// Any validation or resolution failure aborts before side effects; a
// partially attached email is never sent. No history item is created unless
// the send succeeded (or dry-run stood in for it).
func (s *Service) Send(ctx context.Context, messageID domain.MessageID, code string, req Request) error {
	if code == "" {
		code = CodeNone
	}

	if err := validate(req); err != nil {
		return err
	}

	// All-or-nothing attachment resolution before any delivery attempt.
	paths := make([]string, 0, len(req.AttachmentRefs))
	urls := make([]string, 0, len(req.AttachmentRefs))
	for _, ref := range req.AttachmentRefs {
		att, err := s.attachments.Resolve(ctx, ref)
		if err != nil {
			s.logger.WarnContext(ctx, "attachment resolution failed",
				"message_id", messageID.String(),
				"attachment", ref,
				"error", err,
			)
			return dErrors.Wrap(err, dErrors.CodeInternal, "sending email failed")
		}
		paths = append(paths, att.Path)
		urls = append(urls, att.URL)
	}

	replyName, replyAddr, err := s.settings.ReplyAddress(ctx)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "load reply address options")
	}

	email := Email{
		FromName:        replyName,
		FromAddress:     replyAddr,
		ReplyToName:     replyName,
		ReplyToAddress:  replyAddr,
		To:              req.To,
		Cc:              req.Cc,
		Subject:         req.Subject,
		HTMLBody:        req.Body,
		AttachmentPaths: paths,
	}

	if s.dryRun {
		s.logger.InfoContext(ctx, "dry-run: skipping email delivery",
			"message_id", messageID.String(),
			"to", req.To,
			"subject", req.Subject,
		)
	} else if err := s.mailer.Send(ctx, email); err != nil {
		if s.metrics != nil {
			s.metrics.EmailsFailed.Inc()
		}
		s.logger.ErrorContext(ctx, "email delivery failed",
			"message_id", messageID.String(),
			"to", req.To,
			"error", err,
		)
		return dErrors.Wrap(err, dErrors.CodeInternal, "sending email failed")
	}

	attachmentsJSON, err := json.Marshal(paths)
	if err != nil {
		attachmentsJSON = []byte("[]")
	}

	payload := models.EmailPayload{
		To:          req.To,
		Cc:          strings.Join(req.Cc, ", "),
		Subject:     req.Subject,
		Message:     req.Body + crlf + crlf + "Attachments:" + crlf + strings.Join(urls, crlf),
		Attachments: string(attachmentsJSON),
	}
	if _, err := s.recorder.RecordEmailSent(ctx, messageID, code, payload); err != nil {
		// The email is out; an incomplete trail must not turn a delivered
		// notification into a caller-visible failure.
		s.logger.WarnContext(ctx, "email history insert failed",
			"message_id", messageID.String(),
			"code", code,
			"error", err,
		)
	}

	if s.metrics != nil {
		s.metrics.EmailsSent.Inc()
	}
	return nil
}

func validate(req Request) error {
	switch {
	case req.Body == "", len(req.To) == 0, req.Subject == "":
		return dErrors.New(dErrors.CodeValidation, "unable to send email - email field(s) missing")
	}
	for _, to := range req.To {
		if to == "" {
			return dErrors.New(dErrors.CodeValidation, "unable to send email - empty recipient address")
		}
	}
	return nil
}
