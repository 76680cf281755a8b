// Package label resolves categorical labels by name with get-or-create
// semantics. Labels are created lazily on first reference and never mutated.
package label

import (
	"context"

	"formdesk/pkg/domain"
)

// Label is a named categorical tag attached to messages.
type Label struct {
	ID   domain.LabelID
	Name string
}

// Store is the persistence surface the resolver consumes. Name uniqueness is
// enforced here, not by the resolver: the lookup-then-insert below is not
// atomic, so concurrent creates of the same name must surface
// sentinel.ErrConflict to exactly all but one caller.
type Store interface {
	// FetchByName returns the label with the given name, or
	// sentinel.ErrNotFound.
	FetchByName(ctx context.Context, name string) (*Label, error)

	// Insert stores a new label, returning sentinel.ErrConflict when the
	// name is already taken.
	Insert(ctx context.Context, l *Label) error

	// DefaultLabel derives a label name from submission metadata. The rule
	// is storage-defined (page-title derivation in the reference setup).
	DefaultLabel(ctx context.Context, meta map[string]string) (string, error)
}
