package calculator

import (
	"math"
	"sort"
	"strings"

	"github.com/spender-app/spender/internal/models"
)

// Matrix is the raw pairwise debt matrix: Matrix[a][b] is the total amount a
// owes b, accumulated across every expense, before simplification. Both
// Matrix[a][b] and Matrix[b][a] may be nonzero if debt flowed both ways over
// time. The matrix is derived, never stored.
type Matrix map[models.PersonID]map[models.PersonID]float64

// DebtEdge is one directed obligation after simplification.
type DebtEdge struct {
	From     models.PersonID `json:"from"`
	FromName string          `json:"fromName"`
	To       models.PersonID `json:"to"`
	ToName   string          `json:"toName"`
	Amount   float64         `json:"amount"`
}

// PersonSummary aggregates one person's position across the raw matrix.
type PersonSummary struct {
	PersonID        models.PersonID `json:"personId"`
	Name            string          `json:"name"`
	TotalOwed       float64         `json:"totalOwed"`       // what they owe others
	TotalOwedToThem float64         `json:"totalOwedToThem"` // what others owe them
	NetBalance      float64         `json:"netBalance"`      // owedToThem - owed
}

// ComputeBalances aggregates all expenses into the pairwise debt matrix. The
// matrix is zero-initialized for every ordered pair of distinct people, so a
// person with no expenses yields all-zero rows and columns. Aggregation is
// commutative; expense order does not matter.
//
// This is the single balance engine. Every consumer (API, assistant,
// summaries) goes through here so the math cannot drift between surfaces.
func ComputeBalances(people []models.Person, expenses []models.Expense) Matrix {
	m := make(Matrix, len(people))
	for _, p := range people {
		row := make(map[models.PersonID]float64, len(people)-1)
		for _, other := range people {
			if other.ID != p.ID {
				row[other.ID] = 0
			}
		}
		m[p.ID] = row
	}

	for _, e := range expenses {
		for debtor, amount := range ResolveShares(e) {
			if m[debtor] == nil {
				m[debtor] = make(map[models.PersonID]float64)
			}
			m[debtor][e.PaidBy] += amount
		}
	}
	return m
}

// Simplify collapses the raw matrix into at most one directed edge per pair of
// people. Each unordered pair is visited exactly once in canonical order (by
// name, case-insensitive), the two directions are netted, and pairs whose net
// is within Epsilon are omitted as settled. The result never contains both
// (A->B) and (B->A).
func Simplify(m Matrix, people []models.Person) []DebtEdge {
	sorted := sortedByName(people)

	edges := make([]DebtEdge, 0)
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			a, b := sorted[i], sorted[j]
			net := m[a.ID][b.ID] - m[b.ID][a.ID]
			if math.Abs(net) <= Epsilon {
				continue
			}

			from, to := a, b
			if net < 0 {
				from, to = b, a
			}
			edges = append(edges, DebtEdge{
				From:     from.ID,
				FromName: from.Name,
				To:       to.ID,
				ToName:   to.Name,
				Amount:   math.Abs(net),
			})
		}
	}
	return edges
}

// Summaries computes each person's totals from the raw, pre-simplification
// matrix, ordered by name.
func Summaries(m Matrix, people []models.Person) []PersonSummary {
	sorted := sortedByName(people)

	summaries := make([]PersonSummary, 0, len(sorted))
	for _, p := range sorted {
		var owed, owedToThem float64
		for _, other := range sorted {
			if other.ID == p.ID {
				continue
			}
			owed += m[p.ID][other.ID]
			owedToThem += m[other.ID][p.ID]
		}
		summaries = append(summaries, PersonSummary{
			PersonID:        p.ID,
			Name:            p.Name,
			TotalOwed:       owed,
			TotalOwedToThem: owedToThem,
			NetBalance:      owedToThem - owed,
		})
	}
	return summaries
}

func sortedByName(people []models.Person) []models.Person {
	sorted := make([]models.Person, len(people))
	copy(sorted, people)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := strings.ToLower(sorted[i].Name), strings.ToLower(sorted[j].Name)
		if a != b {
			return a < b
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}
