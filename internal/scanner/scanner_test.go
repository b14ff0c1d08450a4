package scanner

import (
	"math"
	"testing"
)

func TestExtractLineItems(t *testing.T) {
	text := `JOE'S DINER
123 Main Street

Burger Deluxe    $12.99
Caesar Salad     8.50
Iced Tea         $3.25
IC 2.00

Subtotal         24.74
Tax              2.10
Total           $26.84
Thank you for visiting!
Cash            30.00`

	items := ExtractLineItems(text)

	want := []struct {
		name  string
		price float64
	}{
		{"Burger Deluxe", 12.99},
		{"Caesar Salad", 8.50},
		{"Iced Tea", 3.25},
	}
	if len(items) != len(want) {
		t.Fatalf("got %d items %v, want %d", len(items), items, len(want))
	}
	for i, w := range want {
		if items[i].Name != w.name {
			t.Errorf("item %d name = %q, want %q", i, items[i].Name, w.name)
		}
		if math.Abs(items[i].Price-w.price) > 0.001 {
			t.Errorf("item %d price = %v, want %v", i, items[i].Price, w.price)
		}
	}
}

func TestExtractLineItemsEdgeCases(t *testing.T) {
	t.Run("empty text", func(t *testing.T) {
		if items := ExtractLineItems(""); len(items) != 0 {
			t.Errorf("expected no items, got %v", items)
		}
	})

	t.Run("uses last price on line", func(t *testing.T) {
		items := ExtractLineItems("2 Tacos $4.50")
		if len(items) != 1 {
			t.Fatalf("got %v, want one item", items)
		}
		if items[0].Price != 4.50 {
			t.Errorf("price = %v, want 4.50", items[0].Price)
		}
	})

	t.Run("skips prices at or above the cap", func(t *testing.T) {
		if items := ExtractLineItems("Catering package 650.00"); len(items) != 0 {
			t.Errorf("expected no items, got %v", items)
		}
	})

	t.Run("skips short names", func(t *testing.T) {
		if items := ExtractLineItems("AB 5.00"); len(items) != 0 {
			t.Errorf("expected no items, got %v", items)
		}
	})
}
