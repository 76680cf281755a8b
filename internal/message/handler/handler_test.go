package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	jwttoken "formdesk/internal/jwt_token"
	"formdesk/internal/message/handler"
	"formdesk/internal/message/handler/mocks"
	"formdesk/internal/message/view"
	"formdesk/internal/notify"
	httptransport "formdesk/internal/transport/http"
	"formdesk/pkg/domain"
	dErrors "formdesk/pkg/domain-errors"
	"formdesk/pkg/requestcontext"
)

type env struct {
	service *mocks.MockService
	server  *httptest.Server
	token   string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctrl := gomock.NewController(t)

	tokens := jwttoken.NewService("test-signing-key", "formdesk-test")
	token, err := tokens.GenerateAccessToken("agent.kim", time.Hour)
	require.NoError(t, err)

	service := mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := handler.New(service, tokens, logger)
	server := httptest.NewServer(httptransport.NewRouter(h, logger))
	t.Cleanup(server.Close)

	return &env{service: service, server: server, token: token}
}

func (e *env) do(t *testing.T, method, path string, body any, authed bool) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	if authed {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHandleIngest(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		e := newEnv(t)
		fields := map[string]string{"your-email": "a@example.com"}
		meta := map[string]string{"page_title": "Billing"}

		e.service.EXPECT().
			Ingest(gomock.Any(), fields, meta).
			Return(&view.MessageView{ID: "abc", Code: "new"}, nil)

		resp := e.do(t, http.MethodPost, "/api/messages", map[string]any{"fields": fields, "meta": meta}, false)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		v := decodeBody[view.MessageView](t, resp)
		assert.Equal(t, "abc", v.ID)
	})

	t.Run("no auth required", func(t *testing.T) {
		e := newEnv(t)
		e.service.EXPECT().Ingest(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&view.MessageView{}, nil)

		resp := e.do(t, http.MethodPost, "/api/messages", map[string]any{"fields": map[string]string{"a": "b"}}, false)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("empty submission", func(t *testing.T) {
		e := newEnv(t)
		resp := e.do(t, http.MethodPost, "/api/messages", map[string]any{"fields": map[string]string{}}, false)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("malformed body", func(t *testing.T) {
		e := newEnv(t)
		req, err := http.NewRequest(http.MethodPost, e.server.URL+"/api/messages", bytes.NewReader([]byte("{not json")))
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestAuthRequired(t *testing.T) {
	e := newEnv(t)

	paths := map[string]string{
		http.MethodGet:   "/api/messages",
		http.MethodPatch: "/api/messages/" + domain.NewMessageID().String(),
	}
	for method, path := range paths {
		resp := e.do(t, method, path, nil, false)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "%s %s", method, path)
	}
}

func TestHandleList(t *testing.T) {
	e := newEnv(t)
	e.service.EXPECT().List(gomock.Any()).
		Return(&view.ListView{Messages: []view.MessageView{{ID: "one"}}, Errors: []string{}}, nil)

	resp := e.do(t, http.MethodGet, "/api/messages", nil, true)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	list := decodeBody[view.ListView](t, resp)
	require.Len(t, list.Messages, 1)
	assert.Equal(t, "one", list.Messages[0].ID)
}

func TestHandleGet(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		e := newEnv(t)
		id := domain.NewMessageID()
		e.service.EXPECT().Get(gomock.Any(), id).
			Return(&view.MessageView{ID: id.String()}, nil)

		resp := e.do(t, http.MethodGet, "/api/messages/"+id.String(), nil, true)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("not found", func(t *testing.T) {
		e := newEnv(t)
		id := domain.NewMessageID()
		e.service.EXPECT().Get(gomock.Any(), id).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "message not found"))

		resp := e.do(t, http.MethodGet, "/api/messages/"+id.String(), nil, true)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("malformed id", func(t *testing.T) {
		e := newEnv(t)
		resp := e.do(t, http.MethodGet, "/api/messages/not-a-uuid", nil, true)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestHandleUpdate(t *testing.T) {
	e := newEnv(t)
	id := domain.NewMessageID()
	fields := map[string]string{"code": "resolved", "note": "done"}

	var seenAccount string
	e.service.EXPECT().
		Update(gomock.Any(), id, fields).
		DoAndReturn(func(ctx context.Context, _ domain.MessageID, _ map[string]string) (*view.MessageView, error) {
			seenAccount = requestcontext.Account(ctx)
			return &view.MessageView{ID: id.String(), Code: "resolved"}, nil
		})

	resp := e.do(t, http.MethodPatch, "/api/messages/"+id.String(), fields, true)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "agent.kim", seenAccount, "audit attribution flows from the token")
}

func TestHandleUpdate_InternalErrorBody(t *testing.T) {
	e := newEnv(t)
	id := domain.NewMessageID()

	e.service.EXPECT().Update(gomock.Any(), id, gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeInternal, "message update failed"))

	resp := e.do(t, http.MethodPatch, "/api/messages/"+id.String(), map[string]string{"note": "x"}, true)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	body := decodeBody[map[string]string](t, resp)
	assert.Equal(t, "internal_error", body["error"])
	assert.Empty(t, body["error_description"], "internal details stay server-side")
}

func TestHandleSendEmail(t *testing.T) {
	t.Run("send only", func(t *testing.T) {
		e := newEnv(t)
		id := domain.NewMessageID()

		want := notify.Request{
			To:      []string{"visitor@example.com"},
			Subject: "Re: enquiry",
			Body:    "On it.",
		}
		e.service.EXPECT().SendEmail(gomock.Any(), id, want).
			Return(&view.MessageView{ID: id.String()}, nil)

		resp := e.do(t, http.MethodPost, "/api/messages/"+id.String()+"/emails", map[string]any{
			"to":      []string{"visitor@example.com"},
			"subject": "Re: enquiry",
			"message": "On it.",
		}, true)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("send and update", func(t *testing.T) {
		e := newEnv(t)
		id := domain.NewMessageID()
		fields := map[string]string{"code": "resolved"}

		e.service.EXPECT().
			SendEmailAndUpdate(gomock.Any(), id, gomock.Any(), fields).
			Return(&view.MessageView{ID: id.String(), Code: "resolved"}, nil)

		resp := e.do(t, http.MethodPost, "/api/messages/"+id.String()+"/emails", map[string]any{
			"to":      []string{"visitor@example.com"},
			"subject": "Resolved",
			"message": "All set.",
			"fields":  fields,
		}, true)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("validation error", func(t *testing.T) {
		e := newEnv(t)
		id := domain.NewMessageID()

		e.service.EXPECT().SendEmail(gomock.Any(), id, gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeValidation, "unable to send email - email field(s) missing"))

		resp := e.do(t, http.MethodPost, "/api/messages/"+id.String()+"/emails", map[string]any{}, true)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		body := decodeBody[map[string]string](t, resp)
		assert.Equal(t, "unable to send email - email field(s) missing", body["error_description"])
	})
}

func TestHandleSetUnread(t *testing.T) {
	t.Run("toggled", func(t *testing.T) {
		e := newEnv(t)
		id := domain.NewHistoryItemID()

		e.service.EXPECT().SetHistoryUnread(gomock.Any(), id, false).Return(nil)

		resp := e.do(t, http.MethodPatch, "/api/history/"+id.String()+"/unread", map[string]any{"isUnread": false}, true)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody[map[string]bool](t, resp)
		assert.True(t, body["updated"])
	})

	t.Run("not found", func(t *testing.T) {
		e := newEnv(t)
		id := domain.NewHistoryItemID()

		e.service.EXPECT().SetHistoryUnread(gomock.Any(), id, true).
			Return(dErrors.New(dErrors.CodeNotFound, "history item with this id is not found"))

		resp := e.do(t, http.MethodPatch, "/api/history/"+id.String()+"/unread", map[string]any{"isUnread": true}, true)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
