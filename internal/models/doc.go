// Package models defines the core domain models for Spender.
//
// # Models
//
//   - Person: someone who takes part in expenses, registered or implicit
//   - Expense: a single expense, evenly split or itemized per person
//   - Group: a reusable participant list for recurring group bills
//   - User: an account in the account directory (login, reset codes)
//   - Profile: the app owner's display profile
//
// # Identifiers
//
// Every entity type has its own int64 identifier sequence. Identifiers are
// assigned by the store, increase monotonically, and are never reused, even
// after the entity is deleted.
//
// # Design principles
//
//  1. PersonID is the canonical key everywhere. Names appear only at the
//     presentation edge; balance math never keys on names.
//  2. Settlements are ordinary Expense records (IsSettlement = true) so they
//     flow through the same balance computation as everything else.
//  3. No entity stores a running balance. Balances are always derived from
//     the full expense history by the calculator package.
package models
