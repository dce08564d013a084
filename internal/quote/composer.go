// Package quote computes line-item and aggregate pricing for resolved
// purchase intents and renders the chat-facing quote summaries.
package quote

import (
	"math"

	"orcamento_backend/internal/catalog/repository"
)

// DimensionPlaceholder fills the dimension column when a product has none.
const DimensionPlaceholder = "N/A"

// Selection pairs a resolved catalog entry with the requested quantity.
type Selection struct {
	Product  repository.Entry
	Quantity int
}

// Line is one priced row of a quote.
type Line struct {
	Quantity    int
	Description string
	Dimension   string
	UnitPrice   float64
	LineTotal   float64
}

// Quote is a fully priced set of lines.
type Quote struct {
	Lines      []Line
	GrandTotal float64
}

// round2 rounds to two decimal places for display and summing.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Compose prices the given selections. Quantities below 1 are coerced
// to 1 and absent prices to 0, so a malformed selection contributes a
// zero line instead of aborting the quote. Line totals are rounded to
// cents per line; the grand total is the sum of the rounded line totals.
func Compose(selections []Selection) Quote {
	lines := make([]Line, 0, len(selections))
	var grandTotal float64

	for _, sel := range selections {
		quantity := sel.Quantity
		if quantity < 1 {
			quantity = 1
		}

		var unitPrice float64
		if sel.Product.HasPrice {
			unitPrice = sel.Product.Price
		}

		dimension := sel.Product.Dimension
		if dimension == "" {
			dimension = DimensionPlaceholder
		}

		lineTotal := round2(unitPrice * float64(quantity))
		grandTotal += lineTotal

		lines = append(lines, Line{
			Quantity:    quantity,
			Description: sel.Product.Description,
			Dimension:   dimension,
			UnitPrice:   unitPrice,
			LineTotal:   lineTotal,
		})
	}

	return Quote{Lines: lines, GrandTotal: round2(grandTotal)}
}
