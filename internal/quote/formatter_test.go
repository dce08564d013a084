package quote

import (
	"strings"
	"testing"

	"orcamento_backend/internal/catalog/repository"
)

func TestFormatPrice(t *testing.T) {
	if got := FormatPrice(12.5); got != "R$ 12.50" {
		t.Errorf("FormatPrice(12.5) = %q", got)
	}
	if got := FormatPrice(0); got != "R$ 0.00" {
		t.Errorf("FormatPrice(0) = %q", got)
	}
}

func TestTruncateIsRuneSafe(t *testing.T) {
	s := strings.Repeat("ç", 50)
	got := truncate(s, 30)
	if len([]rune(got)) != 30 {
		t.Errorf("truncated to %d runes, want 30", len([]rune(got)))
	}
	if strings.ContainsRune(got, '�') {
		t.Error("truncation split a multibyte rune")
	}
	if truncate("curto", 30) != "curto" {
		t.Error("short strings must pass through unchanged")
	}
}

func TestFormatSingle(t *testing.T) {
	q := Compose([]Selection{
		{Product: entry("Corrediça Telescópica", "45cm", 45, true), Quantity: 2},
	})

	text := FormatSingle(q)
	for _, want := range []string{
		"| 2 | Corrediça Telescópica | R$ 45.00 | R$ 90.00 |",
		"*Valor Total: R$ 90.00*",
		"*Cálculo: 2 × R$ 45.00 = R$ 90.00*",
		"PDF disponível para download abaixo",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in:\n%s", want, text)
		}
	}
}

func TestFormatSingleEmptyQuote(t *testing.T) {
	if got := FormatSingle(Quote{}); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestFormatMulti(t *testing.T) {
	q := Compose([]Selection{
		{Product: entry("Dobradiça Curva", "", 12.50, true), Quantity: 4},
		{Product: entry("Corrediça Telescópica", "45cm", 45, true), Quantity: 2},
	})

	text := FormatMulti(q)
	for _, want := range []string{
		"| Qtd | Produto | Dimensões | Vl. Unitário | Vl. Total |",
		"| 4 | Dobradiça Curva | N/A | R$ 12.50 | R$ 50.00 |",
		"| 2 | Corrediça Telescópica | 45cm | R$ 45.00 | R$ 90.00 |",
		"*Valor Total do Orçamento: R$ 140.00*",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in:\n%s", want, text)
		}
	}
}

func TestFormatOptions(t *testing.T) {
	text := FormatOptions([]repository.Entry{
		entry("Dobradiça Curva", "35mm", 12.50, true),
		entry("Dobradiça Reta", "", 0, false),
	})

	for _, want := range []string{
		"*1.* Dobradiça Curva",
		"Dimensão: 35mm",
		"Valor: R$ 12.50",
		"*2.* Dobradiça Reta",
		"Digite o número da opção desejada",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in:\n%s", want, text)
		}
	}

	// Entries without dimension or price omit those lines entirely.
	if strings.Count(text, "Dimensão:") != 1 || strings.Count(text, "Valor:") != 1 {
		t.Errorf("optional lines rendered for missing data:\n%s", text)
	}
}
