// Package render exports persisted invoices in tabular formats.
package render

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/lunelaser/lunebill/internal/invoice/domain"
)

// CSV flattens the invoice breakdown into one row per (machine, button)
// plus a trailing total row. Column names mirror the invoice_data document.
func CSV(invoice domain.Invoice) ([]byte, error) {
	data := invoice.Data.Data()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"invoice_number", "office", "npi_id", "year", "month",
		"serial_number", "button_number", "press_count",
		"total_duration_seconds", "total_duration_minutes",
		"press_cost", "duration_cost", "total_cost",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, lune := range data.Lunes {
		for _, line := range lune.Buttons {
			row := []string{
				invoice.InvoiceNumber,
				data.Office.Name,
				data.Office.NPIID,
				fmt.Sprintf("%d", data.Year),
				fmt.Sprintf("%d", data.Month),
				lune.SerialNumber,
				fmt.Sprintf("%d", line.ButtonNumber),
				fmt.Sprintf("%d", line.PressCount),
				fmt.Sprintf("%d", line.TotalDurationSeconds),
				line.TotalDurationMinutes.StringFixed(2),
				line.PressCost.StringFixed(2),
				line.DurationCost.StringFixed(2),
				line.TotalCost.StringFixed(2),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}

	total := []string{
		invoice.InvoiceNumber, data.Office.Name, data.Office.NPIID,
		fmt.Sprintf("%d", data.Year), fmt.Sprintf("%d", data.Month),
		"", "", "", "", "", "", "total",
		data.TotalAmount.StringFixed(2),
	}
	if err := w.Write(total); err != nil {
		return nil, err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
