// Package view projects messages and their history into output
// representations.
package view

import (
	"encoding/json"
	"time"

	"formdesk/internal/message/models"
)

// HistoryView is one audit entry as exposed to callers.
type HistoryView struct {
	ID         string          `json:"id"`
	Account    string          `json:"account"`
	ChangeType string          `json:"changeType"`
	IsUnread   bool            `json:"isUnread"`
	Payload    json.RawMessage `json:"payload"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// MessageView is the flat merge of message attributes, the unread rollup,
// and the change history in storage order.
type MessageView struct {
	ID            string          `json:"id"`
	Form          string          `json:"form"`
	Code          string          `json:"code"`
	Content       json.RawMessage `json:"content"`
	LabelID       string          `json:"labelId"`
	Email         string          `json:"email"`
	Name          string          `json:"name"`
	Note          string          `json:"note"`
	IsUnread      bool            `json:"isUnread"`
	LastUpdated   time.Time       `json:"lastUpdated"`
	ChangeHistory []HistoryView   `json:"changeHistory"`
}

// ListView is the all-messages projection. Per-row read errors ride along
// instead of aborting the listing.
type ListView struct {
	Messages []MessageView `json:"messages"`
	Errors   []string      `json:"errors"`
}

// Assemble merges one message with its history. No re-sorting is imposed;
// history appears in the order storage returned it.
func Assemble(m *models.Message, history []*models.HistoryItem) MessageView {
	views := make([]HistoryView, 0, len(history))
	for _, item := range history {
		views = append(views, HistoryView{
			ID:         item.ID.String(),
			Account:    item.Account,
			ChangeType: item.ChangeType,
			IsUnread:   item.IsUnread,
			Payload:    item.Payload,
			CreatedAt:  item.CreatedAt,
		})
	}

	return MessageView{
		ID:            m.ID.String(),
		Form:          m.Form,
		Code:          m.StatusCode,
		Content:       m.Content,
		LabelID:       m.LabelID.String(),
		Email:         m.Email,
		Name:          m.Name,
		Note:          m.Note,
		IsUnread:      IsUnread(history),
		LastUpdated:   m.LastUpdated,
		ChangeHistory: views,
	}
}

// IsUnread reports whether any single history item is still unread,
// regardless of type. Short-circuits on the first hit.
func IsUnread(history []*models.HistoryItem) bool {
	for _, item := range history {
		if item.IsUnread {
			return true
		}
	}
	return false
}
