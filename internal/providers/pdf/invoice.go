package pdf

import (
	"context"
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	invoicedomain "github.com/lunelaser/lunebill/internal/invoice/domain"
	"github.com/shopspring/decimal"
)

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

func (p *PDFProvider) RenderInvoice(ctx context.Context, invoice invoicedomain.Invoice) ([]byte, error) {
	data := invoice.Data.Data()

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(12, "Lune Laser Billing", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(18,
		col.New(6).Add(
			text.New("Invoice number: "+invoice.InvoiceNumber, props.Text{Top: 0}),
			text.New(fmt.Sprintf("Billing period: %04d-%02d", data.Year, data.Month), props.Text{Top: 4}),
			text.New("Generated: "+invoice.GeneratedAt.Format("2006-01-02"), props.Text{Top: 8}),
			text.New("Status: "+string(invoice.Status), props.Text{Top: 12}),
		),
		col.New(6).Add(
			text.New("Bill to", props.Text{Style: fontstyle.Bold}),
			text.New(data.Office.Name, props.Text{Top: 4}),
			text.New(data.Office.Address, props.Text{Top: 8}),
			text.New(fmt.Sprintf("%s, %s", data.Office.Town, data.Office.State), props.Text{Top: 12}),
			text.New("NPI: "+data.Office.NPIID, props.Text{Top: 16}),
		),
	)

	for _, lune := range data.Lunes {
		m.AddRow(10,
			text.NewCol(8, fmt.Sprintf("Machine %s (purchased %s)", lune.SerialNumber, lune.PurchaseDate), props.Text{
				Size:  11,
				Style: fontstyle.Bold,
			}),
			text.NewCol(4, money(lune.TotalCost), props.Text{
				Size:  11,
				Style: fontstyle.Bold,
				Align: align.Right,
			}),
		)

		m.AddRow(7,
			text.NewCol(2, "Button", props.Text{Style: fontstyle.Bold, Size: 9}),
			text.NewCol(2, "Presses", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
			text.NewCol(2, "Minutes", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
			text.NewCol(2, "Press cost", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
			text.NewCol(2, "Duration cost", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
			text.NewCol(2, "Total", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		)

		for _, line := range lune.Buttons {
			m.AddRow(6,
				text.NewCol(2, fmt.Sprintf("%d", line.ButtonNumber), props.Text{Size: 9}),
				text.NewCol(2, fmt.Sprintf("%d", line.PressCount), props.Text{Size: 9, Align: align.Right}),
				text.NewCol(2, line.TotalDurationMinutes.StringFixed(2), props.Text{Size: 9, Align: align.Right}),
				text.NewCol(2, money(line.PressCost), props.Text{Size: 9, Align: align.Right}),
				text.NewCol(2, money(line.DurationCost), props.Text{Size: 9, Align: align.Right}),
				text.NewCol(2, money(line.TotalCost), props.Text{Size: 9, Align: align.Right}),
			)
		}
	}

	m.AddRow(12,
		col.New(8),
		text.NewCol(2, "Total due", props.Text{Style: fontstyle.Bold, Size: 11}),
		text.NewCol(2, money(data.TotalAmount), props.Text{Style: fontstyle.Bold, Size: 11, Align: align.Right}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
