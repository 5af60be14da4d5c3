// Package identity resolves user-supplied assignee identifiers into
// canonical account ids.
package identity

import "strings"

// Kind discriminates the two forms of an Identifier.
type Kind string

const (
	// KindID marks an identifier that is already a canonical user id.
	KindID Kind = "id"

	// KindEmail marks an identifier that is a sign-in email address
	// and needs a lookup.
	KindEmail Kind = "email"
)

// Identifier is a tagged reference to a user: either a canonical id,
// passed through as-is, or an email address that must be looked up.
// Build one with ByID, ByEmail, or Parse; the zero value is invalid.
type Identifier struct {
	kind  Kind
	value string
}

// ByID returns an Identifier holding a canonical user id.
func ByID(id string) Identifier {
	return Identifier{kind: KindID, value: id}
}

// ByEmail returns an Identifier holding an email address.
func ByEmail(email string) Identifier {
	return Identifier{kind: KindEmail, value: strings.ToLower(strings.TrimSpace(email))}
}

// Parse classifies a raw user-supplied string as an id or an email.
// The presence of "@" is only trusted here, at the input boundary;
// everything past this point branches on the tag.
func Parse(raw string) Identifier {
	raw = strings.TrimSpace(raw)
	if strings.Contains(raw, "@") {
		return ByEmail(raw)
	}
	return ByID(raw)
}

// Kind returns the identifier's discriminant.
func (i Identifier) Kind() Kind { return i.kind }

// Value returns the raw id or email.
func (i Identifier) Value() string { return i.value }

// Zero reports whether the identifier is empty.
func (i Identifier) Zero() bool { return i.value == "" }

func (i Identifier) String() string {
	return string(i.kind) + ":" + i.value
}
