package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"formdesk/internal/audit"
	"formdesk/internal/label"
	labelstore "formdesk/internal/label/store"
	"formdesk/internal/message/service"
	"formdesk/internal/message/store"
	"formdesk/internal/message/view"
	"formdesk/internal/notify"
	"formdesk/internal/settings"
	"formdesk/pkg/domain"
	dErrors "formdesk/pkg/domain-errors"
	"formdesk/pkg/requestcontext"
)

type sentNotification struct {
	messageID domain.MessageID
	code      string
	req       notify.Request
}

// fakeNotifier records dispatches and fails on demand.
type fakeNotifier struct {
	sent []sentNotification
	err  error
}

func (f *fakeNotifier) Send(_ context.Context, messageID domain.MessageID, code string, req notify.Request) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentNotification{messageID: messageID, code: code, req: req})
	return nil
}

type ServiceSuite struct {
	suite.Suite

	messages *store.InMemoryMessageStore
	history  *store.InMemoryHistoryStore
	labels   *labelstore.InMemoryStore
	options  *settings.InMemoryStore
	notifier *fakeNotifier
	svc      *service.Service

	ctx context.Context
	now time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.messages = store.NewMemoryMessages()
	s.history = store.NewMemoryHistory()
	s.labels = labelstore.NewMemory()
	s.options = settings.NewMemory(nil)
	s.notifier = &fakeNotifier{}

	optionSvc, err := settings.New(s.options)
	s.Require().NoError(err)

	labelSvc, err := label.New(s.labels)
	s.Require().NoError(err)

	recorder, err := audit.NewRecorder(s.history)
	s.Require().NoError(err)

	s.svc, err = service.New(
		s.messages,
		s.history,
		labelSvc,
		optionSvc,
		recorder,
		service.WithNotifier(s.notifier),
	)
	s.Require().NoError(err)

	s.now = time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
}

func (s *ServiceSuite) seedMessage() *view.MessageView {
	v, err := s.svc.Ingest(s.ctx, map[string]string{
		"your-email": "visitor@example.com",
		"your-name":  "Maria",
		"_wpcf7":     "412",
		"message":    "The invoice totals do not add up.",
	}, map[string]string{"page_title": "Billing"})
	s.Require().NoError(err)
	return v
}

func (s *ServiceSuite) TestIngest() {
	v, err := s.svc.Ingest(s.ctx, map[string]string{
		"your-email":     "visitor@example.com",
		"your-name":      "Maria",
		"your-phone":     "",
		"_wpcf7":         "412",
		"_wpcf7_version": "5.7",
		"message":        "The invoice totals do not add up.",
		"order-ref":      "A-1290",
	}, map[string]string{"page_title": "Billing"})
	s.Require().NoError(err)

	s.Equal("new", v.Code)
	s.Equal("visitor@example.com", v.Email)
	s.Equal("Maria", v.Name)
	s.Equal("412", v.Form)
	s.Equal(s.now, v.LastUpdated)
	s.False(v.IsUnread, "a fresh message has no history to be unread")
	s.Empty(v.ChangeHistory)

	var content map[string]string
	s.Require().NoError(json.Unmarshal(v.Content, &content))
	s.Equal(map[string]string{
		"message":   "The invoice totals do not add up.",
		"order-ref": "A-1290",
	}, content, "content holds secondary fields only")

	// The page title became a stored label on first reference.
	s.NotEmpty(v.LabelID)
	created, err := s.labels.FetchByName(s.ctx, "Billing")
	s.Require().NoError(err)
	s.Equal(created.ID.String(), v.LabelID)

	// Raw data keeps everything, exclusions and empties included.
	stored, err := s.messages.Fetch(s.ctx, mustMessageID(s.T(), v.ID))
	s.Require().NoError(err)
	var raw map[string]string
	s.Require().NoError(json.Unmarshal(stored.RawData, &raw))
	s.Len(raw, 7)
	s.Equal("5.7", raw["_wpcf7_version"])
}

func (s *ServiceSuite) TestIngestLiteralLabelKey() {
	s.options.SetOption(settings.OptionLabelField, "topic")

	v, err := s.svc.Ingest(s.ctx, map[string]string{
		"your-email": "visitor@example.com",
		"topic":      "Refunds",
	}, nil)
	s.Require().NoError(err)

	created, err := s.labels.FetchByName(s.ctx, "Refunds")
	s.Require().NoError(err)
	s.Equal(created.ID.String(), v.LabelID)

	var content map[string]string
	s.Require().NoError(json.Unmarshal(v.Content, &content))
	s.NotContains(content, "topic", "label source field is consumed, not content")
}

func (s *ServiceSuite) TestIngestWithoutLabel() {
	s.options.SetOption(settings.OptionLabelField, "topic")

	v, err := s.svc.Ingest(s.ctx, map[string]string{
		"your-email": "visitor@example.com",
	}, nil)
	s.Require().NoError(err)

	s.Empty(v.LabelID)
	s.Equal(0, s.labels.Len())
}

func (s *ServiceSuite) TestIngestLabelStorageDegrades() {
	s.labels.FailInsert = true

	v, err := s.svc.Ingest(s.ctx, map[string]string{
		"your-email": "visitor@example.com",
	}, map[string]string{"page_title": "Billing"})
	s.Require().NoError(err, "label trouble never blocks intake")
	s.Empty(v.LabelID)
}

func (s *ServiceSuite) TestIngestInsertFailure() {
	s.messages.FailInsert = true

	_, err := s.svc.Ingest(s.ctx, map[string]string{"your-email": "a@b.c"}, nil)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *ServiceSuite) TestUpdate() {
	seeded := s.seedMessage()
	id := mustMessageID(s.T(), seeded.ID)

	other := &label.Label{ID: domain.NewLabelID(), Name: "Complaints"}
	s.Require().NoError(s.labels.Insert(s.ctx, other))

	ctx := requestcontext.WithAccount(s.ctx, "agent.kim")
	v, err := s.svc.Update(ctx, id, map[string]string{
		"labelId":  other.ID.String(),
		"email":    "visitor@example.com", // unchanged, still audited
		"code":     "in-progress",
		"note":     "Called the customer back.",
		"priority": "high", // not whitelisted, silently dropped
	})
	s.Require().NoError(err)

	s.Equal(other.ID.String(), v.LabelID)
	s.Equal("in-progress", v.Code)
	s.Equal("Called the customer back.", v.Note)
	s.Equal("Maria", v.Name, "absent field untouched")

	s.Require().Len(v.ChangeHistory, 4, "one history item per present whitelisted field")
	s.True(v.IsUnread)

	byType := make(map[string]view.HistoryView, len(v.ChangeHistory))
	for _, h := range v.ChangeHistory {
		s.Equal("agent.kim", h.Account)
		s.True(h.IsUnread)
		byType[h.ChangeType] = h
	}
	s.Contains(byType, "labelId")
	s.Contains(byType, "email")
	s.Contains(byType, "code")
	s.Contains(byType, "note")
	s.NotContains(byType, "priority")

	var codeChange struct {
		Original string `json:"original"`
		Updated  string `json:"updated"`
	}
	s.Require().NoError(json.Unmarshal(byType["code"].Payload, &codeChange))
	s.Equal("new", codeChange.Original)
	s.Equal("in-progress", codeChange.Updated)
}

func (s *ServiceSuite) TestUpdateClearsLabel() {
	seeded := s.seedMessage()
	s.Require().NotEmpty(seeded.LabelID)

	v, err := s.svc.Update(s.ctx, mustMessageID(s.T(), seeded.ID), map[string]string{"labelId": ""})
	s.Require().NoError(err)
	s.Empty(v.LabelID)
}

func (s *ServiceSuite) TestUpdateValidation() {
	seeded := s.seedMessage()
	id := mustMessageID(s.T(), seeded.ID)

	s.Run("empty payload", func() {
		_, err := s.svc.Update(s.ctx, id, nil)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("malformed label id", func() {
		_, err := s.svc.Update(s.ctx, id, map[string]string{"labelId": "not-a-uuid"})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Empty(s.history.All(), "rejected update writes no history")
	})
}

func (s *ServiceSuite) TestUpdateNotFound() {
	_, err := s.svc.Update(s.ctx, domain.NewMessageID(), map[string]string{"note": "x"})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestUpdatePersistFailureWritesNoHistory() {
	seeded := s.seedMessage()
	s.messages.FailUpdate = true

	_, err := s.svc.Update(s.ctx, mustMessageID(s.T(), seeded.ID), map[string]string{"note": "x"})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	s.Empty(s.history.All())
}

func (s *ServiceSuite) TestUpdateHistoryFailureDoesNotSurface() {
	seeded := s.seedMessage()
	s.history.FailInsert = true

	v, err := s.svc.Update(s.ctx, mustMessageID(s.T(), seeded.ID), map[string]string{"note": "x"})
	s.Require().NoError(err, "a landed write is a success even with a gappy trail")
	s.Equal("x", v.Note)
}

func (s *ServiceSuite) TestGet() {
	seeded := s.seedMessage()
	id := mustMessageID(s.T(), seeded.ID)

	_, err := s.svc.Update(s.ctx, id, map[string]string{"code": "resolved"})
	s.Require().NoError(err)

	v, err := s.svc.Get(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("resolved", v.Code)
	s.Len(v.ChangeHistory, 1)
	s.True(v.IsUnread)
}

func (s *ServiceSuite) TestGetNotFound() {
	_, err := s.svc.Get(s.ctx, domain.NewMessageID())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestList() {
	first := s.seedMessage()
	second := s.seedMessage()

	_, err := s.svc.Update(s.ctx, mustMessageID(s.T(), second.ID), map[string]string{"code": "resolved"})
	s.Require().NoError(err)

	list, err := s.svc.List(s.ctx)
	s.Require().NoError(err)
	s.Empty(list.Errors)
	s.Require().Len(list.Messages, 2)

	byID := make(map[string]view.MessageView, 2)
	for _, v := range list.Messages {
		byID[v.ID] = v
	}
	s.False(byID[first.ID].IsUnread)
	s.True(byID[second.ID].IsUnread)
	s.Len(byID[second.ID].ChangeHistory, 1)
}

func (s *ServiceSuite) TestSetHistoryUnread() {
	seeded := s.seedMessage()
	id := mustMessageID(s.T(), seeded.ID)

	v, err := s.svc.Update(s.ctx, id, map[string]string{"code": "resolved"})
	s.Require().NoError(err)
	s.Require().Len(v.ChangeHistory, 1)

	itemID, err := domain.ParseHistoryItemID(v.ChangeHistory[0].ID)
	s.Require().NoError(err)

	s.Require().NoError(s.svc.SetHistoryUnread(s.ctx, itemID, false))

	refreshed, err := s.svc.Get(s.ctx, id)
	s.Require().NoError(err)
	s.False(refreshed.IsUnread)
	s.False(refreshed.ChangeHistory[0].IsUnread)
}

func (s *ServiceSuite) TestSetHistoryUnreadNotFound() {
	err := s.svc.SetHistoryUnread(s.ctx, domain.NewHistoryItemID(), false)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestSendEmail() {
	seeded := s.seedMessage()
	id := mustMessageID(s.T(), seeded.ID)

	req := notify.Request{To: []string{"visitor@example.com"}, Subject: "Re: invoice", Body: "On it."}
	v, err := s.svc.SendEmail(s.ctx, id, req)
	s.Require().NoError(err)
	s.Equal(seeded.ID, v.ID)

	s.Require().Len(s.notifier.sent, 1)
	s.Equal(id, s.notifier.sent[0].messageID)
	s.Equal(notify.CodeNone, s.notifier.sent[0].code)
	s.Equal(req, s.notifier.sent[0].req)
}

func (s *ServiceSuite) TestSendEmailNotFound() {
	_, err := s.svc.SendEmail(s.ctx, domain.NewMessageID(), notify.Request{})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	s.Empty(s.notifier.sent, "no dispatch for an unknown message")
}

func (s *ServiceSuite) TestSendEmailAndUpdate() {
	seeded := s.seedMessage()
	id := mustMessageID(s.T(), seeded.ID)

	req := notify.Request{To: []string{"visitor@example.com"}, Subject: "Resolved", Body: "All set."}
	v, err := s.svc.SendEmailAndUpdate(s.ctx, id, req, map[string]string{"code": "resolved"})
	s.Require().NoError(err)

	s.Equal("resolved", v.Code)
	s.Require().Len(s.notifier.sent, 1)
	s.Equal("resolved", s.notifier.sent[0].code, "notification carries the new status code")
}

func (s *ServiceSuite) TestSendEmailAndUpdateSendFailureLeavesMessageUntouched() {
	seeded := s.seedMessage()
	id := mustMessageID(s.T(), seeded.ID)
	s.notifier.err = errors.New("smtp down")

	_, err := s.svc.SendEmailAndUpdate(s.ctx, id, notify.Request{}, map[string]string{"code": "resolved"})
	s.Require().Error(err)

	current, err := s.svc.Get(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("new", current.Code)
	s.Empty(s.history.All())
}

func mustMessageID(t *testing.T, raw string) domain.MessageID {
	t.Helper()
	id, err := domain.ParseMessageID(raw)
	if err != nil {
		t.Fatalf("parse message id %q: %v", raw, err)
	}
	return id
}
