// Package notify dispatches outbound notification emails and records each
// delivery in the audit trail.
package notify

//go:generate mockgen -source=notify.go -destination=mocks/mocks.go -package=mocks

import "context"

// CodeNone is the notification code recorded when a send is not tied to a
// status change.
const CodeNone = "none"

// Request is one notification to dispatch.
type Request struct {
	To             []string
	Cc             []string
	Subject        string
	Body           string
	AttachmentRefs []string
}

// Attachment is a resolved attachment reference: a public URL for the audit
// trail and a readable local path for the transport.
type Attachment struct {
	URL  string
	Path string
}

// AttachmentResolver resolves attachment references. A reference that cannot
// be resolved to both a URL and a readable path is an error.
type AttachmentResolver interface {
	Resolve(ctx context.Context, ref string) (Attachment, error)
}

// Email is the fully assembled outbound message handed to the transport.
type Email struct {
	FromName        string
	FromAddress     string
	ReplyToName     string
	ReplyToAddress  string
	To              []string
	Cc              []string
	Subject         string
	HTMLBody        string
	AttachmentPaths []string
}

// Mailer delivers assembled emails. Implementations own connection and
// retry semantics.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}
