package quote

import (
	"testing"

	"orcamento_backend/internal/catalog/repository"
)

func entry(desc, dim string, price float64, hasPrice bool) repository.Entry {
	return repository.Entry{Description: desc, Dimension: dim, Price: price, HasPrice: hasPrice}
}

func TestComposeLineArithmetic(t *testing.T) {
	q := Compose([]Selection{
		{Product: entry("Dobradiça Curva", "35mm", 12.50, true), Quantity: 3},
	})

	if len(q.Lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(q.Lines))
	}
	line := q.Lines[0]
	if line.LineTotal != 37.50 {
		t.Errorf("line total = %v, want 37.50", line.LineTotal)
	}
	if q.GrandTotal != 37.50 {
		t.Errorf("grand total = %v, want 37.50", q.GrandTotal)
	}
}

func TestComposeGrandTotalSumsRoundedLines(t *testing.T) {
	q := Compose([]Selection{
		{Product: entry("A", "", 0.333, true), Quantity: 1},
		{Product: entry("B", "", 0.333, true), Quantity: 1},
	})

	// Each line rounds to 0.33 first; the grand total sums the rounded
	// values rather than re-rounding the raw sum.
	if q.Lines[0].LineTotal != 0.33 {
		t.Errorf("line total = %v, want 0.33", q.Lines[0].LineTotal)
	}
	if q.GrandTotal != 0.66 {
		t.Errorf("grand total = %v, want 0.66", q.GrandTotal)
	}
}

func TestComposeQuantityCoercion(t *testing.T) {
	for _, quantity := range []int{0, -5} {
		q := Compose([]Selection{
			{Product: entry("A", "", 10, true), Quantity: quantity},
		})
		if q.Lines[0].Quantity != 1 {
			t.Errorf("quantity %d coerced to %d, want 1", quantity, q.Lines[0].Quantity)
		}
		if q.Lines[0].LineTotal != 10 {
			t.Errorf("quantity %d: line total = %v, want 10", quantity, q.Lines[0].LineTotal)
		}
	}
}

func TestComposeMissingPriceYieldsZeroLine(t *testing.T) {
	q := Compose([]Selection{
		{Product: entry("Sem Preço", "", 99, false), Quantity: 2},
		{Product: entry("Com Preço", "", 5, true), Quantity: 2},
	})

	if q.Lines[0].UnitPrice != 0 || q.Lines[0].LineTotal != 0 {
		t.Errorf("unpriced line = %+v", q.Lines[0])
	}
	if q.GrandTotal != 10 {
		t.Errorf("grand total = %v, want 10", q.GrandTotal)
	}
}

func TestComposeDimensionPlaceholder(t *testing.T) {
	q := Compose([]Selection{
		{Product: entry("A", "", 1, true), Quantity: 1},
		{Product: entry("B", "40x30", 1, true), Quantity: 1},
	})

	if q.Lines[0].Dimension != DimensionPlaceholder {
		t.Errorf("dimension = %q, want %q", q.Lines[0].Dimension, DimensionPlaceholder)
	}
	if q.Lines[1].Dimension != "40x30" {
		t.Errorf("dimension = %q, want 40x30", q.Lines[1].Dimension)
	}
}

func TestComposeEmptySelection(t *testing.T) {
	q := Compose(nil)
	if len(q.Lines) != 0 || q.GrandTotal != 0 {
		t.Errorf("empty compose = %+v", q)
	}
}
