package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/nhle/task-delegation/internal/store"
)

// NotFoundError indicates that an identifier did not resolve to an
// account. Lookup failures deliberately collapse into this error too:
// callers treat "no such user" and "could not look up" identically.
type NotFoundError struct {
	Identifier Identifier
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no account for %s", e.Identifier)
}

// IsNotFound reports whether err (or any error in its chain) is a
// NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// Resolver maps Identifiers to canonical user ids.
type Resolver struct {
	lookup store.IdentityLookup
}

// NewResolver returns a Resolver backed by the given lookup.
func NewResolver(lookup store.IdentityLookup) *Resolver {
	return &Resolver{lookup: lookup}
}

// Resolve returns the canonical user id for ident. Canonical ids pass
// through without a lookup; emails are looked up and yield a
// NotFoundError when no account exists or the lookup fails.
func (r *Resolver) Resolve(ctx context.Context, ident Identifier) (string, error) {
	if ident.Zero() {
		return "", &NotFoundError{Identifier: ident}
	}

	switch ident.Kind() {
	case KindID:
		return ident.Value(), nil
	case KindEmail:
		id, err := r.lookup.FindUserIDByEmail(ctx, ident.Value())
		if err != nil || id == "" {
			return "", &NotFoundError{Identifier: ident}
		}
		return id, nil
	default:
		return "", &NotFoundError{Identifier: ident}
	}
}
