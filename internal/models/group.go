package models

import "time"

// GroupID identifies a group. IDs increase monotonically and are never reused.
type GroupID int64

// Group is a reusable participant list for recurring bills (e.g. "Roommates").
// Group expenses are materialized as ordinary Expense records referencing the
// group; TotalAmount and TotalPerPerson are display conveniences and are never
// read by the balance engine.
type Group struct {
	ID      GroupID    `json:"id"`
	Name    string     `json:"name"`
	Members []PersonID `json:"members"`

	TotalAmount    float64 `json:"totalAmount"`
	TotalPerPerson float64 `json:"totalPerPerson"`

	CreatedAt time.Time `json:"createdAt"`
}

// HasMember reports whether the person belongs to the group.
func (g *Group) HasMember(id PersonID) bool {
	for _, m := range g.Members {
		if m == id {
			return true
		}
	}
	return false
}
