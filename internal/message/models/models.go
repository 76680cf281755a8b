// Package models defines the persisted record types of the triage core.
package models

import (
	"encoding/json"
	"time"

	"formdesk/pkg/domain"
)

// SystemAccount is the actor recorded on audit entries when no authenticated
// operator is present in the request context.
const SystemAccount = "admin"

// Message is a classified submission. content holds the secondary fields as
// a JSON object; rawData preserves every originally submitted field for
// forensic replay. Both are always valid serialized objects, never raw user
// structures.
type Message struct {
	ID          domain.MessageID
	Form        string
	StatusCode  string
	Content     json.RawMessage
	RawData     json.RawMessage
	LabelID     domain.LabelID
	Email       string
	Name        string
	Note        string
	LastUpdated time.Time
}

// HistoryItem is one immutable audit entry tied to a Message by id. The
// payload is either a FieldChangePayload or an EmailPayload depending on
// whether ChangeType names a changed field or a notification code.
// Only the unread flag is ever mutated after creation.
type HistoryItem struct {
	ID         domain.HistoryItemID
	MessageID  domain.MessageID
	Account    string
	ChangeType string
	IsUnread   bool
	Payload    json.RawMessage
	CreatedAt  time.Time
}

// FieldChangePayload records the before and after values of one field.
type FieldChangePayload struct {
	Original string `json:"original"`
	Updated  string `json:"updated"`
}

// EmailPayload records an outbound notification. Cc is the comma-joined
// recipient list; Message carries the body with the attachment URL listing
// appended. Attachments holds the resolved file paths as a JSON array string,
// matching what legacy consumers of the trail expect.
type EmailPayload struct {
	To          []string `json:"to"`
	Cc          string   `json:"cc"`
	Subject     string   `json:"subject"`
	Message     string   `json:"message"`
	Attachments string   `json:"attachments"`
}
