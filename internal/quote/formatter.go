package quote

import (
	"fmt"
	"strings"

	"orcamento_backend/internal/catalog/repository"
)

// FormatPrice renders a value in Brazilian currency notation.
func FormatPrice(v float64) string {
	return fmt.Sprintf("R$ %.2f", v)
}

// truncate shortens long product descriptions for table rows.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// FormatSingle renders the Markdown summary table for a single-product
// quote, including the explicit calculation line.
func FormatSingle(q Quote) string {
	if len(q.Lines) == 0 {
		return ""
	}
	line := q.Lines[0]
	unit := FormatPrice(line.UnitPrice)
	total := FormatPrice(line.LineTotal)

	var b strings.Builder
	b.WriteString("*Resumo do Orçamento:*\n\n")
	b.WriteString("| Qtd | Produto | Vl. Unitário | Vl. Total |\n")
	b.WriteString("|-----|---------|--------------|-----------|\n")
	fmt.Fprintf(&b, "| %d | %s | %s | %s |\n", line.Quantity, truncate(line.Description, 40), unit, total)
	fmt.Fprintf(&b, "\n*Valor Total: %s*\n", total)
	fmt.Fprintf(&b, "*Cálculo: %d × %s = %s*\n\n", line.Quantity, unit, total)
	b.WriteString("PDF disponível para download abaixo")
	return b.String()
}

// FormatMulti renders the Markdown summary table for a multi-product
// quote, with a dimension column and the grand total.
func FormatMulti(q Quote) string {
	var b strings.Builder
	b.WriteString("*Resumo do Orçamento:*\n\n")
	b.WriteString("| Qtd | Produto | Dimensões | Vl. Unitário | Vl. Total |\n")
	b.WriteString("|-----|---------|-----------|--------------|-----------|\n")

	for _, line := range q.Lines {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s |\n",
			line.Quantity,
			truncate(line.Description, 30),
			line.Dimension,
			FormatPrice(line.UnitPrice),
			FormatPrice(line.LineTotal),
		)
	}

	fmt.Fprintf(&b, "\n*Valor Total do Orçamento: %s*\n\n", FormatPrice(q.GrandTotal))
	b.WriteString("PDF disponível para download abaixo")
	return b.String()
}

// FormatOptions renders the numbered candidate list shown when a search
// matches several products and the user must pick one.
func FormatOptions(candidates []repository.Entry) string {
	var b strings.Builder
	b.WriteString("*Encontrei múltiplos produtos correspondentes. Por favor, escolha uma opção:*\n\n")

	for i, product := range candidates {
		fmt.Fprintf(&b, "*%d.* %s\n", i+1, product.Description)
		if product.Dimension != "" {
			fmt.Fprintf(&b, "   Dimensão: %s\n", product.Dimension)
		}
		if product.HasPrice {
			fmt.Fprintf(&b, "   Valor: %s\n", FormatPrice(product.Price))
		}
		b.WriteString("\n")
	}

	b.WriteString("*Digite o número da opção desejada para continuar.*")
	return b.String()
}
