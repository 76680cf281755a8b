// Package domain defines typed identifiers shared across features.
//
// IDs are distinct named types over uuid.UUID so the compiler rejects
// cross-entity assignment. Parse helpers enforce the invariant that IDs are
// valid, non-nil UUIDs at trust boundaries.
package domain

import (
	"github.com/google/uuid"

	dErrors "formdesk/pkg/domain-errors"
)

type (
	// MessageID identifies a stored submission.
	MessageID uuid.UUID

	// LabelID identifies a categorical label. The zero value means
	// "no label attached".
	LabelID uuid.UUID

	// HistoryItemID identifies one audit-trail entry.
	HistoryItemID uuid.UUID
)

// NewMessageID returns a fresh random MessageID.
func NewMessageID() MessageID { return MessageID(uuid.New()) }

// NewLabelID returns a fresh random LabelID.
func NewLabelID() LabelID { return LabelID(uuid.New()) }

// NewHistoryItemID returns a fresh random HistoryItemID.
func NewHistoryItemID() HistoryItemID { return HistoryItemID(uuid.New()) }

func (id MessageID) String() string     { return uuid.UUID(id).String() }
func (id HistoryItemID) String() string { return uuid.UUID(id).String() }

// IsNil reports whether the label reference is empty.
func (id LabelID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// String renders the label id, or the empty string for the nil reference so
// views and history payloads show "no label" the way the storage layer does.
func (id LabelID) String() string {
	if id.IsNil() {
		return ""
	}
	return uuid.UUID(id).String()
}

// ParseMessageID parses and validates a message id from caller input.
func ParseMessageID(s string) (MessageID, error) {
	u, err := parse(s, "message id")
	return MessageID(u), err
}

// ParseHistoryItemID parses and validates a history item id from caller input.
func ParseHistoryItemID(s string) (HistoryItemID, error) {
	u, err := parse(s, "history item id")
	return HistoryItemID(u), err
}

// ParseLabelID parses a label id. Unlike the other parsers it accepts the
// empty string and maps it to the nil reference, matching the "no label"
// encoding used throughout the update path.
func ParseLabelID(s string) (LabelID, error) {
	if s == "" {
		return LabelID{}, nil
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return LabelID{}, dErrors.Newf(dErrors.CodeValidation, "invalid label id %q", s)
	}
	return LabelID(u), nil
}

func parse(s, what string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.Newf(dErrors.CodeValidation, "%s is required", what)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeValidation, "invalid %s %q", what, s)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeValidation, "%s must not be nil", what)
	}
	return u, nil
}
