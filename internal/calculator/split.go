package calculator

import "github.com/spender-app/spender/internal/models"

// Epsilon is the settled threshold: pairwise nets at or below one cent are
// treated as zero.
const Epsilon = 0.01

// ResolveShares computes what each participant owes the payer for a single
// expense.
//
// If the expense is itemized, each person's assigned amount is their share and
// the even split is ignored. Otherwise the amount is divided evenly across
// SplitWith. The payer never owes themselves, so their entry is omitted either
// way. Per-person shares use plain float division; the shares of an even split
// may not sum to the amount exactly and that drift is accepted.
//
// Callers must reject an empty SplitWith before calling; the store does this
// at write time.
func ResolveShares(e models.Expense) map[models.PersonID]float64 {
	shares := make(map[models.PersonID]float64)

	if len(e.ItemizedByPerson) > 0 {
		for person, amount := range e.ItemizedByPerson {
			if person == e.PaidBy || amount <= 0 {
				continue
			}
			shares[person] += amount
		}
		return shares
	}

	if len(e.SplitWith) == 0 {
		return shares
	}

	perPerson := e.Amount / float64(len(e.SplitWith))
	for _, person := range e.SplitWith {
		if person == e.PaidBy {
			continue
		}
		shares[person] += perPerson
	}
	return shares
}
