package models

import "time"

// ExpenseID identifies an expense. IDs increase monotonically and are never
// reused, so a settlement pair keeps its ordering even after deletions.
type ExpenseID int64

// Expense is a single expense paid by one person and shared by the people in
// SplitWith. If ItemizedByPerson is set, those amounts are each person's share
// and the even split of Amount is ignored.
type Expense struct {
	ID          ExpenseID `json:"id"`
	Description string    `json:"description"`

	// Amount is the total the payer paid, in decimal dollars. Zero is
	// allowed and simply contributes nothing to balances.
	Amount float64 `json:"amount"`

	// PaidBy is the person who paid. PaidBy owes nobody for this expense.
	PaidBy PersonID `json:"paidBy"`

	// SplitWith lists everyone sharing the expense. It must be non-empty
	// and usually includes PaidBy.
	SplitWith []PersonID `json:"splitWith"`

	// Items holds the raw receipt line descriptions, if any.
	Items []string `json:"items,omitempty"`

	// ItemizedByPerson maps a participant to the exact amount they owe the
	// payer, e.g. from receipt-item assignment. The values need not sum to
	// Amount; itemization covers only assigned items.
	ItemizedByPerson map[PersonID]float64 `json:"itemizedByPerson,omitempty"`

	// Date is when the expense was recorded, set by the store.
	Date time.Time `json:"date"`

	// IsSettlement marks the synthetic records written by the settlement
	// recorder. TransferID correlates the two records of one settlement.
	IsSettlement bool   `json:"isSettlement,omitempty"`
	TransferID   string `json:"transferId,omitempty"`

	// Group expense fields. GroupID is zero for ordinary expenses.
	IsGroupExpense  bool    `json:"isGroupExpense,omitempty"`
	GroupID         GroupID `json:"groupId,omitempty"`
	Subtotal        float64 `json:"subtotal,omitempty"`
	Tax             float64 `json:"tax,omitempty"`
	Tip             float64 `json:"tip,omitempty"`
	AmountPerPerson float64 `json:"amountPerPerson,omitempty"`
}

// References reports whether the expense mentions the given person as payer,
// participant, or itemization key.
func (e *Expense) References(id PersonID) bool {
	if e.PaidBy == id {
		return true
	}
	for _, p := range e.SplitWith {
		if p == id {
			return true
		}
	}
	for p := range e.ItemizedByPerson {
		if p == id {
			return true
		}
	}
	return false
}
