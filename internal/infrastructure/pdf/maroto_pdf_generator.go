// Package pdf genera el extracto de distribución de un recebível en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Fondo + símbolo     │  Recebível + fecha de pago   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SACADO: Nombre + documento                                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Inversor | Clave Stellar | Cuotas | Valor            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Cuotas / Valor nominal / TOTAL DISTRIBUIDO         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR de verificación + leyenda                        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/vero-api/internal/application/ports"
	"github.com/jhoicas/vero-api/internal/domain/entity"
)

var _ ports.StatementPDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa ports.StatementPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateStatementPDF genera el extracto y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateStatementPDF(_ context.Context, st *ports.DistributionStatement) ([]byte, error) {
	if st == nil || st.Fund == nil || st.Receivable == nil {
		return nil, fmt.Errorf("pdf: extracto incompleto")
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Extracto de distribución "+st.Fund.Symbol, true).
		WithAuthor(st.Fund.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(st))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(sacadoRow(st.Sacado))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableDetailRows(st.Distributions) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(st))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range footerRows(st) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: fondo y símbolo (izq), recebível y fechas (der).
func headerRow(st *ports.DistributionStatement) core.Row {
	paidAt := "—"
	if st.Receivable.PaidAt != nil {
		paidAt = st.Receivable.PaidAt.Format("02/01/2006")
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(st.Fund.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Símbolo: "+st.Fund.Symbol, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("EXTRACTO DE DISTRIBUCIÓN", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(shortID(st.Receivable.ID), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Pagado: "+paidAt+"   Emitido: "+st.GeneratedAt.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// sacadoRow: deudor del recebível.
func sacadoRow(sacado *entity.Party) core.Row {
	name, doc := "—", "—"
	if sacado != nil {
		name, doc = sacado.Name, sacado.Document
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("SACADO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New("Documento: "+doc, props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de inversores.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Inversor", 4, align.Left),
		h("Clave Stellar", 4, align.Left),
		h("Cuotas", 1, align.Center),
		h("Valor", 3, align.Right),
	)
}

// tableDetailRows: una fila por inversor.
func tableDetailRows(lines []*entity.Distribution) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, d := range lines {
		result = append(result, row.New(7).Add(
			col.New(4).Add(text.New(
				d.InvestorEmail,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(4).Add(text.New(
				abbreviateKey(d.InvestorPublicKey),
				props.Text{Size: 7, Align: align.Left, Top: 1, Left: 1, Color: colorGray},
			)),
			col.New(1).Add(text.New(
				fmt.Sprintf("%d", d.Quotas),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(3).Add(text.New(
				formatMoney(d.Amount),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(st *ports.DistributionStatement) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grand := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	return row.New(26).Add(
		col.New(3),
		col.New(4).Add(
			label("Cuotas en circulación:"),
			label("Valor nominal:"),
			label("TOTAL DISTRIBUIDO:"),
		),
		col.New(3).Add(
			value(fmt.Sprintf("%d", st.TotalQuotas)),
			value(formatMoney(st.Receivable.FaceValue)),
			grand(formatMoney(st.TotalToPay)),
		),
		col.New(2),
	)
}

// footerRows: QR con el identificador del recebível + leyenda.
func footerRows(st *ports.DistributionStatement) []core.Row {
	return []core.Row{
		row.New(40).Add(
			col.New(3).Add(code.NewQr("vero:receivable:"+st.Receivable.ID, props.Rect{
				Percent: 95,
				Center:  true,
			})),
			col.New(9).Add(
				text.New("Distribución pro-rata por cuotas COMPLETED del fondo "+st.Fund.Symbol+".", props.Text{
					Size: 8, Top: 4, Left: 3, Color: colorGray,
				}),
				text.New("Los valores se redondean a centavos; los centavos residuales "+
					"se asignan a los mayores restos.", props.Text{
					Size: 7, Top: 12, Left: 3, Color: colorGray,
				}),
			),
		),
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func shortID(id string) string {
	if len(id) > 8 {
		return strings.ToUpper(id[:8])
	}
	return strings.ToUpper(id)
}

// abbreviateKey acorta una clave G... a sus extremos (GABC…WXYZ).
func abbreviateKey(k string) string {
	if k == "" {
		return "—"
	}
	if len(k) <= 12 {
		return k
	}
	return k[:6] + "…" + k[len(k)-6:]
}

// formatMoney formatea con separador de miles y dos decimales.
// Ej: 1234567.5 → "R$ 1.234.567,50"
func formatMoney(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-2:]
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + "R$ " + string(buf) + "," + frac
}
