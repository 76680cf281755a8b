// Package handler exposes the message API over HTTP.
package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"formdesk/internal/message/view"
	"formdesk/internal/notify"
	"formdesk/internal/platform/middleware"
	"formdesk/pkg/domain"
	dErrors "formdesk/pkg/domain-errors"
	"formdesk/pkg/platform/httputil"
	"formdesk/pkg/requestcontext"
)

// Service defines the message operations the transport delegates to.
type Service interface {
	Ingest(ctx context.Context, fields, meta map[string]string) (*view.MessageView, error)
	Update(ctx context.Context, id domain.MessageID, fields map[string]string) (*view.MessageView, error)
	Get(ctx context.Context, id domain.MessageID) (*view.MessageView, error)
	List(ctx context.Context) (*view.ListView, error)
	SetHistoryUnread(ctx context.Context, id domain.HistoryItemID, unread bool) error
	SendEmail(ctx context.Context, id domain.MessageID, req notify.Request) (*view.MessageView, error)
	SendEmailAndUpdate(ctx context.Context, id domain.MessageID, req notify.Request, fields map[string]string) (*view.MessageView, error)
}

// Handler handles message endpoints.
type Handler struct {
	logger    *slog.Logger
	messages  Service
	validator middleware.TokenValidator
}

// New creates a message Handler.
func New(messages Service, validator middleware.TokenValidator, logger *slog.Logger) *Handler {
	return &Handler{
		logger:    logger,
		messages:  messages,
		validator: validator,
	}
}

// Register mounts the message routes. Submission intake stays open; the
// operator routes sit behind bearer auth.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/messages", h.handleIngest)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.validator, h.logger))
		r.Get("/api/messages", h.handleList)
		r.Get("/api/messages/{id}", h.handleGet)
		r.Patch("/api/messages/{id}", h.handleUpdate)
		r.Post("/api/messages/{id}/emails", h.handleSendEmail)
		r.Patch("/api/history/{id}/unread", h.handleSetUnread)
	})
}

// ingestRequest is one raw form submission: the posted fields plus the page
// context it arrived from.
type ingestRequest struct {
	Fields map[string]string `json:"fields"`
	Meta   map[string]string `json:"meta"`
}

// emailRequest dispatches a notification, optionally combined with a message
// update when Fields is non-empty.
type emailRequest struct {
	To          []string          `json:"to"`
	Cc          []string          `json:"cc"`
	Subject     string            `json:"subject"`
	Message     string            `json:"message"`
	Attachments []string          `json:"attachments"`
	Fields      map[string]string `json:"fields"`
}

type unreadRequest struct {
	IsUnread bool `json:"isUnread"`
}

func (h *Handler) handleIngest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := httputil.Decode[ingestRequest](r)
	if err != nil {
		h.warn(ctx, "invalid ingest request", err)
		httputil.WriteError(w, err)
		return
	}
	if len(req.Fields) == 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "submission carries no fields"))
		return
	}

	v, err := h.messages.Ingest(ctx, req.Fields, req.Meta)
	if err != nil {
		h.fail(ctx, "ingest failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, v)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	list, err := h.messages.List(ctx)
	if err != nil {
		h.fail(ctx, "list failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := domain.ParseMessageID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	v, err := h.messages.Get(ctx, id)
	if err != nil {
		h.fail(ctx, "get failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := domain.ParseMessageID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	fields, err := httputil.Decode[map[string]string](r)
	if err != nil {
		h.warn(ctx, "invalid update request", err)
		httputil.WriteError(w, err)
		return
	}

	v, err := h.messages.Update(ctx, id, fields)
	if err != nil {
		h.fail(ctx, "update failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) handleSendEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := domain.ParseMessageID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, err := httputil.Decode[emailRequest](r)
	if err != nil {
		h.warn(ctx, "invalid email request", err)
		httputil.WriteError(w, err)
		return
	}

	notifyReq := notify.Request{
		To:             req.To,
		Cc:             req.Cc,
		Subject:        req.Subject,
		Body:           req.Message,
		AttachmentRefs: req.Attachments,
	}

	var v *view.MessageView
	if len(req.Fields) > 0 {
		v, err = h.messages.SendEmailAndUpdate(ctx, id, notifyReq, req.Fields)
	} else {
		v, err = h.messages.SendEmail(ctx, id, notifyReq)
	}
	if err != nil {
		h.fail(ctx, "send email failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) handleSetUnread(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := domain.ParseHistoryItemID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, err := httputil.Decode[unreadRequest](r)
	if err != nil {
		h.warn(ctx, "invalid unread request", err)
		httputil.WriteError(w, err)
		return
	}

	if err := h.messages.SetHistoryUnread(ctx, id, req.IsUnread); err != nil {
		h.fail(ctx, "unread toggle failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

func (h *Handler) warn(ctx context.Context, msg string, err error) {
	h.logger.WarnContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err.Error(),
	)
}

func (h *Handler) fail(ctx context.Context, msg string, err error) {
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		h.logger.ErrorContext(ctx, msg,
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		return
	}
	h.warn(ctx, msg, err)
}
