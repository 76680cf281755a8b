// Package settings supplies the configuration options that drive field
// classification and outbound mail headers.
package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"formdesk/internal/message/classify"
	"formdesk/pkg/platform/sentinel"
)

// Option names understood by the service.
const (
	// OptionLabelField is the configured label key; may be a bracketed
	// template reference.
	OptionLabelField = "label_field"

	// OptionEmailField is the submitted key carrying the sender address.
	OptionEmailField = "email_field"

	// OptionReplyEmail and OptionReplyEmailName feed the From and
	// Reply-To headers of outbound notifications.
	OptionReplyEmail     = "reply_email"
	OptionReplyEmailName = "reply_email_name"
)

// Submitted keys that are fixed rather than configured: the sender name and
// the origin form identifier.
const (
	nameFieldKey = "your-name"
	formFieldKey = "_wpcf7"
)

// Defaults applied when an option is unset.
var defaults = map[string]string{
	OptionLabelField: "[" + classify.PageTitleTemplate + "]",
	OptionEmailField: "your-email",
}

// Store is the key-value option lookup the service consumes.
type Store interface {
	// GetOption returns the stored value, or sentinel.ErrNotFound when the
	// option was never set.
	GetOption(ctx context.Context, name string) (string, error)
}

// Service reads options and assembles them into typed configuration views.
type Service struct {
	store  Store
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger overrides the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// New constructs a settings service.
func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("settings store is required")
	}

	svc := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Value returns an option value, falling back to the built-in default when
// the option is unset. Options without a default resolve to the empty string.
func (s *Service) Value(ctx context.Context, name string) (string, error) {
	v, err := s.store.GetOption(ctx, name)
	if errors.Is(err, sentinel.ErrNotFound) {
		return defaults[name], nil
	}
	if err != nil {
		return "", fmt.Errorf("get option %s: %w", name, err)
	}
	return v, nil
}

// ParsingSchema assembles the classification schema from the configured label
// and email keys plus the fixed name and form keys.
func (s *Service) ParsingSchema(ctx context.Context) (classify.Schema, error) {
	labelKey, err := s.Value(ctx, OptionLabelField)
	if err != nil {
		return classify.Schema{}, err
	}
	emailKey, err := s.Value(ctx, OptionEmailField)
	if err != nil {
		return classify.Schema{}, err
	}

	return classify.Schema{
		Label: classify.ParseOptionKey(labelKey),
		Email: classify.LiteralKey(emailKey),
		Name:  classify.LiteralKey(nameFieldKey),
		Form:  classify.LiteralKey(formFieldKey),
	}, nil
}

// ReplyAddress returns the configured reply display name and address used for
// the From and Reply-To headers of outbound mail.
func (s *Service) ReplyAddress(ctx context.Context) (name, addr string, err error) {
	name, err = s.Value(ctx, OptionReplyEmailName)
	if err != nil {
		return "", "", err
	}
	addr, err = s.Value(ctx, OptionReplyEmail)
	if err != nil {
		return "", "", err
	}
	return name, addr, nil
}
