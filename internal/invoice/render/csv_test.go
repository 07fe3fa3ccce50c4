package render

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/lunelaser/lunebill/internal/invoice/domain"
	"github.com/lunelaser/lunebill/internal/pricing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestCSVLayout(t *testing.T) {
	tariff := pricing.Default()
	lines := tariff.Lines(map[int]pricing.ButtonUsage{
		1: {PressCount: 3, TotalDurationSeconds: 671},
	})

	invoice := domain.Invoice{
		InvoiceNumber: "INV-202503-1234567890",
		TotalAmount:   decimal.RequireFromString("0.86"),
		Data: datatypes.NewJSONType(domain.InvoiceData{
			Office: domain.OfficeSnapshot{Name: "Bright Smile Dental", NPIID: "1234567890"},
			Month:  3,
			Year:   2025,
			Lunes: []domain.LuneBreakdown{
				{
					SerialNumber: "LN001",
					PurchaseDate: "2024-01-15",
					Buttons:      lines,
					TotalCost:    pricing.Subtotal(lines),
				},
			},
			TotalAmount: decimal.RequireFromString("0.86"),
		}),
	}

	out, err := CSV(invoice)
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)

	// Header, six button rows, one total row.
	require.Len(t, rows, 1+pricing.ButtonCount+1)
	assert.Equal(t, "invoice_number", rows[0][0])

	button1 := rows[1]
	assert.Equal(t, "LN001", button1[5])
	assert.Equal(t, "1", button1[6])
	assert.Equal(t, "3", button1[7])
	assert.Equal(t, "0.86", button1[12])

	total := rows[len(rows)-1]
	assert.Equal(t, "total", total[11])
	assert.Equal(t, "0.86", total[12])
}
