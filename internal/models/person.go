package models

import "time"

// PersonID identifies a person. IDs increase monotonically and are never
// reused.
type PersonID int64

// Person is someone who can pay for or share expenses.
//
// A person can exist before being formally added: expenses may reference
// people by name (for example via the assistant), in which case the store
// creates an implicit record with Registered = false. The first explicit
// registration adopts its casing as the canonical name and reconciles the
// historical expenses that referenced it.
type Person struct {
	// ID is the canonical key for this person.
	ID PersonID `json:"id"`

	// Name is unique case-insensitively. The stored casing is canonical.
	Name string `json:"name"`

	// Phone is an optional E.164 number used for SMS reminders.
	Phone string `json:"phone"`

	// Registered reports whether the person was explicitly added, as
	// opposed to implicitly created from expense text.
	Registered bool `json:"-"`

	// CreatedAt is when the record was first created.
	CreatedAt time.Time `json:"createdAt"`
}
