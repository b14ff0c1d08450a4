package calculator

import (
	"math"
	"testing"

	"github.com/spender-app/spender/internal/models"
)

func TestResolveShares(t *testing.T) {
	tests := []struct {
		name         string
		expense      models.Expense
		validateFunc func(t *testing.T, shares map[models.PersonID]float64)
	}{
		{
			name: "even split excludes payer",
			expense: models.Expense{
				Amount:    30.0,
				PaidBy:    1,
				SplitWith: []models.PersonID{1, 2, 3},
			},
			validateFunc: func(t *testing.T, shares map[models.PersonID]float64) {
				if len(shares) != 2 {
					t.Fatalf("expected 2 shares, got %d", len(shares))
				}
				if _, ok := shares[1]; ok {
					t.Error("payer must not owe themselves")
				}
				for _, id := range []models.PersonID{2, 3} {
					if math.Abs(shares[id]-10.0) > 0.01 {
						t.Errorf("person %d share = %v, want 10.0", id, shares[id])
					}
				}
			},
		},
		{
			name: "payer not a participant owes nothing, others owe full share",
			expense: models.Expense{
				Amount:    20.0,
				PaidBy:    9,
				SplitWith: []models.PersonID{2, 3},
			},
			validateFunc: func(t *testing.T, shares map[models.PersonID]float64) {
				for _, id := range []models.PersonID{2, 3} {
					if math.Abs(shares[id]-10.0) > 0.01 {
						t.Errorf("person %d share = %v, want 10.0", id, shares[id])
					}
				}
			},
		},
		{
			name: "itemized overrides even split",
			expense: models.Expense{
				Amount:    19.75,
				PaidBy:    1,
				SplitWith: []models.PersonID{1, 2, 3},
				ItemizedByPerson: map[models.PersonID]float64{
					2: 12.50,
					3: 7.25,
				},
			},
			validateFunc: func(t *testing.T, shares map[models.PersonID]float64) {
				if math.Abs(shares[2]-12.50) > 0.01 {
					t.Errorf("person 2 share = %v, want 12.50", shares[2])
				}
				if math.Abs(shares[3]-7.25) > 0.01 {
					t.Errorf("person 3 share = %v, want 7.25", shares[3])
				}
			},
		},
		{
			name: "itemized skips payer and non-positive entries",
			expense: models.Expense{
				Amount: 40.0,
				PaidBy: 1,
				ItemizedByPerson: map[models.PersonID]float64{
					1: 15.0,
					2: 25.0,
					3: 0,
				},
			},
			validateFunc: func(t *testing.T, shares map[models.PersonID]float64) {
				if len(shares) != 1 {
					t.Fatalf("expected 1 share, got %d", len(shares))
				}
				if math.Abs(shares[2]-25.0) > 0.01 {
					t.Errorf("person 2 share = %v, want 25.0", shares[2])
				}
			},
		},
		{
			name: "zero amount contributes zero",
			expense: models.Expense{
				Amount:    0,
				PaidBy:    1,
				SplitWith: []models.PersonID{1, 2},
			},
			validateFunc: func(t *testing.T, shares map[models.PersonID]float64) {
				if math.Abs(shares[2]) > 0.01 {
					t.Errorf("person 2 share = %v, want 0", shares[2])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares := ResolveShares(tt.expense)
			tt.validateFunc(t, shares)
		})
	}
}

// Sum of resolved shares for an even n-way split equals amount * (n-1)/n
// within floating-point tolerance.
func TestResolveSharesSumProperty(t *testing.T) {
	amounts := []float64{30.0, 99.99, 0.03, 1234.56}
	for _, amount := range amounts {
		for n := 2; n <= 7; n++ {
			split := make([]models.PersonID, n)
			for i := range split {
				split[i] = models.PersonID(i + 1)
			}
			e := models.Expense{Amount: amount, PaidBy: 1, SplitWith: split}

			var sum float64
			for _, share := range ResolveShares(e) {
				sum += share
			}

			want := amount * float64(n-1) / float64(n)
			if math.Abs(sum-want) > 1e-9 {
				t.Errorf("amount=%v n=%d: share sum = %v, want %v", amount, n, sum, want)
			}
		}
	}
}
