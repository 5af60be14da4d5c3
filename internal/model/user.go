package model

import "time"

// User is an account in the productivity suite. The delegation
// subsystem only ever reads users, to resolve assignee identifiers.
type User struct {
	// ID is the canonical account identifier.
	ID string `json:"id" db:"id"`

	// DisplayName is the user-chosen name shown in notifications.
	DisplayName string `json:"display_name" db:"display_name"`

	// Email is the unique sign-in address, also accepted as an
	// assignee identifier.
	Email string `json:"email" db:"email"`

	// CreatedAt is when the account was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
