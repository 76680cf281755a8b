package label

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"formdesk/internal/message/classify"
	"formdesk/pkg/domain"
	"formdesk/pkg/platform/sentinel"
)

// Service implements idempotent label resolution. Attachment is best-effort
// relative to message creation: any resolution failure degrades to "no label"
// instead of failing the owning operation.
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

// New constructs a label resolver.
func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("label store is required")
	}

	svc := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Resolve turns a classified label source into a label reference, consulting
// the storage default-label rule for the pageTitle sentinel. Returns the nil
// LabelID when the submission carries no label or resolution degraded.
func (s *Service) Resolve(ctx context.Context, src classify.LabelSource, meta map[string]string) domain.LabelID {
	name := ""
	switch src.Kind {
	case classify.LabelNone:
		return domain.LabelID{}
	case classify.LabelValue:
		name = src.Value
	case classify.LabelPageTitle:
		derived, err := s.store.DefaultLabel(ctx, meta)
		if err != nil {
			s.logger.WarnContext(ctx, "default label derivation failed", "error", err)
			return domain.LabelID{}
		}
		name = derived
	}

	if name == "" {
		return domain.LabelID{}
	}

	l := s.ResolveOrCreate(ctx, name)
	if l == nil {
		return domain.LabelID{}
	}
	return l.ID
}

// ResolveOrCreate looks a label up by name, creating it on first reference.
// Resolving the same name twice returns the same label both times. Returns
// nil when storage failed; callers treat that as "no label attached".
func (s *Service) ResolveOrCreate(ctx context.Context, name string) *Label {
	existing, err := s.store.FetchByName(ctx, name)
	if err == nil {
		return existing
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		s.logger.WarnContext(ctx, "label lookup failed", "label", name, "error", err)
		return nil
	}

	created := &Label{ID: domain.NewLabelID(), Name: name}
	err = s.store.Insert(ctx, created)
	if err == nil {
		return created
	}

	// Lost a get-or-create race: the winner's row is the label.
	if errors.Is(err, sentinel.ErrConflict) {
		existing, fetchErr := s.store.FetchByName(ctx, name)
		if fetchErr == nil {
			return existing
		}
		s.logger.WarnContext(ctx, "label conflict refetch failed", "label", name, "error", fetchErr)
		return nil
	}

	s.logger.WarnContext(ctx, "label insert failed", "label", name, "error", err)
	return nil
}
