// Package scanner extracts line items from OCR'd receipt text.
package scanner

import (
	"regexp"
	"strconv"
	"strings"
)

// LineItem is one purchasable line recognized on a receipt.
type LineItem struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Common price patterns: $12.99, 12.99, $12
var pricePattern = regexp.MustCompile(`\$?\d+\.?\d{0,2}`)

// skipWords filters out receipt headers and footers that carry prices but are
// not items.
var skipWords = []string{"total", "subtotal", "tax", "tip", "change", "cash", "card", "thank"}

// maxItemPrice excludes lines that are likely totals rather than items.
const maxItemPrice = 500

// ExtractLineItems parses receipt text into line items. Each line holding
// text followed by a price becomes an item, using the last price on the line.
func ExtractLineItems(text string) []LineItem {
	var items []LineItem

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		prices := pricePattern.FindAllString(line, -1)
		if len(prices) == 0 {
			continue
		}
		last := prices[len(prices)-1]
		price, err := strconv.ParseFloat(strings.TrimPrefix(last, "$"), 64)
		if err != nil || price <= 0 || price >= maxItemPrice {
			continue
		}

		// Item name is everything before the price.
		name := strings.TrimSpace(line[:strings.LastIndex(line, last)])
		if len(name) <= 2 || shouldSkip(name) {
			continue
		}

		items = append(items, LineItem{Name: name, Price: price})
	}
	return items
}

func shouldSkip(name string) bool {
	lower := strings.ToLower(name)
	for _, word := range skipWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}
