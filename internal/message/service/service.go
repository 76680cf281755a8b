// Package service orchestrates the message lifecycle: classified intake,
// whitelisted updates with audit capture, notification hand-off, and view
// assembly.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"formdesk/internal/audit"
	"formdesk/internal/label"
	"formdesk/internal/message/classify"
	"formdesk/internal/message/metrics"
	"formdesk/internal/message/models"
	"formdesk/internal/message/store"
	"formdesk/internal/message/view"
	"formdesk/internal/notify"
	"formdesk/internal/settings"
	"formdesk/pkg/domain"
	dErrors "formdesk/pkg/domain-errors"
	"formdesk/pkg/platform/sentinel"
)

// statusNew is the status a message carries until an operator first
// updates it.
const statusNew = "new"

// historyConcurrency bounds parallel history hydration during listing.
const historyConcurrency = 8

// Notifier sends one notification for a message and records it in the audit
// trail. Implemented by the notify service.
type Notifier interface {
	Send(ctx context.Context, messageID domain.MessageID, code string, req notify.Request) error
}

// Service implements the message operations.
type Service struct {
	messages   store.MessageStore
	history    store.HistoryStore
	labels     *label.Service
	settings   *settings.Service
	recorder   *audit.Recorder
	notifier   Notifier
	exclusions map[string]struct{}
	logger     *slog.Logger
	metrics    *metrics.Metrics
	tracer     trace.Tracer
}

// Option configures a Service.
type Option func(*Service)

// WithLogger overrides the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics attaches Prometheus counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithNotifier attaches the notification dispatcher used by the send-email
// operations.
func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

// WithExclusions overrides the default classification exclusion set.
func WithExclusions(exclusions map[string]struct{}) Option {
	return func(s *Service) {
		s.exclusions = exclusions
	}
}

// New constructs the message service.
func New(
	messages store.MessageStore,
	history store.HistoryStore,
	labels *label.Service,
	options *settings.Service,
	recorder *audit.Recorder,
	opts ...Option,
) (*Service, error) {
	if messages == nil {
		return nil, fmt.Errorf("message store is required")
	}
	if history == nil {
		return nil, fmt.Errorf("history store is required")
	}
	if labels == nil {
		return nil, fmt.Errorf("label service is required")
	}
	if options == nil {
		return nil, fmt.Errorf("settings service is required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("audit recorder is required")
	}

	svc := &Service{
		messages:   messages,
		history:    history,
		labels:     labels,
		settings:   options,
		recorder:   recorder,
		exclusions: classify.DefaultExclusions(),
		logger:     slog.Default(),
		tracer:     otel.Tracer("formdesk/message"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Ingest classifies a submission and stores it as a new message.
// Classification itself never fails; only the insert can.
func (s *Service) Ingest(ctx context.Context, fields, meta map[string]string) (*view.MessageView, error) {
	ctx, span := s.tracer.Start(ctx, "message.ingest")
	defer span.End()

	schema, err := s.settings.ParsingSchema(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load parsing options")
	}

	res := classify.Classify(fields, meta, schema, s.exclusions)
	labelID := s.labels.Resolve(ctx, res.Label, meta)

	content, err := json.Marshal(res.Secondary)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "serialize secondary fields")
	}
	rawData, err := json.Marshal(fields)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "serialize raw submission")
	}

	m := &models.Message{
		ID:         domain.NewMessageID(),
		Form:       res.Primary[classify.SlotForm],
		StatusCode: statusNew,
		Content:    content,
		RawData:    rawData,
		LabelID:    labelID,
		Email:      res.Primary[classify.SlotEmail],
		Name:       res.Primary[classify.SlotName],
	}

	if err := s.messages.Insert(ctx, m); err != nil {
		span.RecordError(err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "unable to insert message")
	}

	if s.metrics != nil {
		s.metrics.MessagesIngested.Inc()
	}
	s.logger.InfoContext(ctx, "message ingested",
		"message_id", m.ID.String(),
		"form", m.Form,
		"labeled", !labelID.IsNil(),
	)

	v := view.Assemble(m, nil)
	return &v, nil
}

// updatableField maps one whitelisted update key onto a message attribute.
type updatableField struct {
	key string
	get func(*models.Message) string
	set func(*models.Message, string) error
}

// updatableFields is the fixed whitelist of caller-updatable attributes.
// Anything else in an update payload is silently ignored.
var updatableFields = []updatableField{
	{
		key: "labelId",
		get: func(m *models.Message) string { return m.LabelID.String() },
		set: func(m *models.Message, v string) error {
			id, err := domain.ParseLabelID(v)
			if err != nil {
				return err
			}
			m.LabelID = id
			return nil
		},
	},
	{
		key: "email",
		get: func(m *models.Message) string { return m.Email },
		set: func(m *models.Message, v string) error { m.Email = v; return nil },
	},
	{
		key: "code",
		get: func(m *models.Message) string { return m.StatusCode },
		set: func(m *models.Message, v string) error { m.StatusCode = v; return nil },
	},
	{
		key: "name",
		get: func(m *models.Message) string { return m.Name },
		set: func(m *models.Message, v string) error { m.Name = v; return nil },
	},
	{
		key: "note",
		get: func(m *models.Message) string { return m.Note },
		set: func(m *models.Message, v string) error { m.Note = v; return nil },
	},
}

type fieldDiff struct {
	key      string
	original string
	updated  string
}

// Update applies whitelisted fields to a message, persists the whole record
// in one call, and appends one history item per field present in the input.
// Presence alone triggers a history item; an unchanged value is still an
// explicit audit signal that it was resubmitted.
//
// If persistence fails, no history is written. Once the primary write has
// landed, individual history failures are logged but never surfaced.
func (s *Service) Update(ctx context.Context, id domain.MessageID, fields map[string]string) (*view.MessageView, error) {
	ctx, span := s.tracer.Start(ctx, "message.update")
	defer span.End()

	if len(fields) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "no data to be updated in the request")
	}

	m, err := s.messages.Fetch(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "message not found")
	}
	if err != nil {
		span.RecordError(err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "fetch message")
	}

	var diffs []fieldDiff
	for _, f := range updatableFields {
		value, present := fields[f.key]
		if !present {
			continue
		}

		// Capture the original before mutating the record.
		diff := fieldDiff{key: f.key, original: f.get(m), updated: value}
		if err := f.set(m, value); err != nil {
			return nil, err
		}
		diffs = append(diffs, diff)
	}

	updated, err := s.messages.Update(ctx, m)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "message not found")
	}
	if err != nil {
		span.RecordError(err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "message update failed")
	}

	for _, diff := range diffs {
		if _, err := s.recorder.RecordFieldChange(ctx, id, diff.key, diff.original, diff.updated); err != nil {
			// The primary write already landed; surfacing this would make
			// a durable success look like a failure.
			s.logger.WarnContext(ctx, "history item insert failed",
				"message_id", id.String(),
				"field", diff.key,
				"error", err,
			)
			if s.metrics != nil {
				s.metrics.AuditWriteFailures.Inc()
			}
			continue
		}
		if s.metrics != nil {
			s.metrics.HistoryItemsWritten.Inc()
		}
	}

	if s.metrics != nil {
		s.metrics.MessagesUpdated.Inc()
	}

	return s.assemble(ctx, updated)
}

// Get returns one message with its history.
func (s *Service) Get(ctx context.Context, id domain.MessageID) (*view.MessageView, error) {
	m, err := s.messages.Fetch(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "message not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "fetch message")
	}
	return s.assemble(ctx, m)
}

// List returns every message with history and unread rollup. Per-row read
// errors ride along in the view instead of aborting the listing.
func (s *Service) List(ctx context.Context) (*view.ListView, error) {
	ctx, span := s.tracer.Start(ctx, "message.list")
	defer span.End()

	msgs, readErrs := s.messages.List(ctx)

	var (
		mu      sync.Mutex
		errMsgs []string
	)
	for _, err := range readErrs {
		errMsgs = append(errMsgs, err.Error())
	}

	views := make([]view.MessageView, len(msgs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(historyConcurrency)
	for i, m := range msgs {
		g.Go(func() error {
			history, err := s.history.ListByMessage(gctx, m.ID)
			if err != nil {
				mu.Lock()
				errMsgs = append(errMsgs, fmt.Sprintf("history for %s: %v", m.ID, err))
				mu.Unlock()
				history = nil
			}
			views[i] = view.Assemble(m, history)
			return nil
		})
	}
	// Workers report through errMsgs, never through the group.
	_ = g.Wait()

	return &view.ListView{Messages: views, Errors: errMsgs}, nil
}

// SetHistoryUnread toggles the unread flag of one history item.
func (s *Service) SetHistoryUnread(ctx context.Context, id domain.HistoryItemID, unread bool) error {
	item, err := s.history.Fetch(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "history item with this id is not found")
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "fetch history item")
	}

	item.IsUnread = unread
	if err := s.history.SetUnread(ctx, item); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "error updating unread for message history item")
	}
	return nil
}

// SendEmail dispatches a notification for an existing message and returns its
// refreshed view. The notification code defaults to "none".
func (s *Service) SendEmail(ctx context.Context, id domain.MessageID, req notify.Request) (*view.MessageView, error) {
	if s.notifier == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "notification dispatcher not configured")
	}

	m, err := s.messages.Fetch(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "message not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "fetch message")
	}

	if err := s.notifier.Send(ctx, id, notify.CodeNone, req); err != nil {
		return nil, err
	}
	return s.assemble(ctx, m)
}

// SendEmailAndUpdate dispatches a notification carrying the update's status
// code, then runs the update. The notification goes first: a failed send
// leaves the message untouched.
func (s *Service) SendEmailAndUpdate(ctx context.Context, id domain.MessageID, req notify.Request, fields map[string]string) (*view.MessageView, error) {
	if s.notifier == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "notification dispatcher not configured")
	}

	code := notify.CodeNone
	if c, ok := fields["code"]; ok && c != "" {
		code = c
	}

	if err := s.notifier.Send(ctx, id, code, req); err != nil {
		return nil, err
	}
	return s.Update(ctx, id, fields)
}

func (s *Service) assemble(ctx context.Context, m *models.Message) (*view.MessageView, error) {
	history, err := s.history.ListByMessage(ctx, m.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "fetch item history")
	}
	v := view.Assemble(m, history)
	return &v, nil
}
