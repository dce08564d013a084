// Package pdf provides quote PDF generation using maroto/v2. The layout
// mirrors the chat summary: header band, line-item table (quantity,
// product, dimensions, unit and total value), grand total and a
// validity footer.
package pdf

import (
	"fmt"
	"time"

	"orcamento_backend/internal/quote"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// ── Colour palette ──────────────────────────────────────────────────────

var (
	colorPrimary   = &props.Color{Red: 46, Green: 134, Blue: 171}  // #2E86AB
	colorSecondary = &props.Color{Red: 162, Green: 59, Blue: 114}  // #A23B72
	colorText      = &props.Color{Red: 51, Green: 51, Blue: 51}    // #333333
	colorWhite     = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorRowAlt    = &props.Color{Red: 249, Green: 250, Blue: 251} // gray-50
)

// Renderer produces quote documents. It exists so the chat service can
// depend on a narrow interface instead of this package's functions.
type Renderer struct{}

func NewRenderer() *Renderer { return &Renderer{} }

// Render creates the downloadable document for a composed quote.
func (r *Renderer) Render(q quote.Quote, clientName string) ([]byte, error) {
	return GenerateQuotePDF(q, clientName)
}

// GenerateQuotePDF creates the downloadable document for a composed quote.
func GenerateQuotePDF(q quote.Quote, clientName string) ([]byte, error) {
	cfg := config.NewBuilder().
		WithLeftMargin(15).
		WithTopMargin(12).
		WithRightMargin(15).
		Build()

	m := maroto.New(cfg)

	m.AddRows(buildHeader(clientName)...)
	m.AddRows(row.New(6))
	m.AddRows(buildTableHead())
	m.AddRows(buildItemRows(q)...)
	m.AddRows(buildTotalRow(q))
	m.AddRows(row.New(10))
	m.AddRows(buildFooter()...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generating quote pdf: %w", err)
	}
	return doc.GetBytes(), nil
}

func buildHeader(clientName string) []core.Row {
	return []core.Row{
		row.New(16).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
			text.NewCol(12, "ORÇAMENTO", props.Text{
				Style: fontstyle.Bold,
				Size:  20,
				Align: align.Left,
				Color: colorWhite,
				Top:   4,
			}),
		),
		row.New(6).Add(
			text.NewCol(6, "Data: "+time.Now().Format("02/01/2006"), props.Text{
				Size:  10,
				Color: colorText,
			}),
			text.NewCol(6, "Cliente: "+clientName, props.Text{
				Size:  10,
				Align: align.Right,
				Color: colorText,
			}),
		),
	}
}

func buildTableHead() core.Row {
	head := props.Text{Style: fontstyle.Bold, Size: 10, Color: colorWhite, Top: 1.5}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorSecondary}).Add(
		text.NewCol(1, "Qtd", head),
		text.NewCol(5, "Produto", head),
		text.NewCol(2, "Dimensões", head),
		text.NewCol(2, "Vl. Unit.", head),
		text.NewCol(2, "Vl. Total", head),
	)
}

func buildItemRows(q quote.Quote) []core.Row {
	cell := props.Text{Size: 9, Color: colorText, Top: 1.5}
	rows := make([]core.Row, 0, len(q.Lines))

	for i, line := range q.Lines {
		r := row.New(7)
		if i%2 == 1 {
			r.WithStyle(&props.Cell{BackgroundColor: colorRowAlt})
		}
		r.Add(
			text.NewCol(1, fmt.Sprintf("%d", line.Quantity), cell),
			text.NewCol(5, line.Description, cell),
			text.NewCol(2, line.Dimension, cell),
			text.NewCol(2, quote.FormatPrice(line.UnitPrice), cell),
			text.NewCol(2, quote.FormatPrice(line.LineTotal), cell),
		)
		rows = append(rows, r)
	}
	return rows
}

func buildTotalRow(q quote.Quote) core.Row {
	bold := props.Text{Style: fontstyle.Bold, Size: 11, Color: colorWhite, Top: 1.5}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorSecondary}).Add(
		col.New(8),
		text.NewCol(2, "TOTAL:", bold),
		text.NewCol(2, quote.FormatPrice(q.GrandTotal), bold),
	)
}

func buildFooter() []core.Row {
	note := props.Text{Size: 9, Color: colorText}
	return []core.Row{
		row.New(5).Add(text.NewCol(12, "Este orçamento é válido por 30 dias.", note)),
		row.New(5).Add(text.NewCol(12, "Para dúvidas, entre em contato: orcamento@empresa.com", note)),
	}
}
