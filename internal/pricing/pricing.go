// Package pricing computes per-button cost lines for Lune machine usage.
//
// All arithmetic is decimal; floats never touch money. Each of the three
// monetary figures on a line (press cost, duration cost, line total) is
// rounded to two decimal places independently, and machine subtotals and the
// invoice total are sums of already-rounded values. The ordering is
// deliberate and auditable: round-then-sum, never sum-then-round.
package pricing

import (
	"fmt"

	"github.com/lunelaser/lunebill/internal/config"
	"github.com/shopspring/decimal"
)

// Buttons per Lune machine. Every invoice line set covers 1..ButtonCount
// even when a button saw no usage in the period.
const ButtonCount = 6

var secondsPerMinute = decimal.NewFromInt(60)

// Tariff is the fixed per-press / per-minute rate card.
type Tariff struct {
	CostPerPress  decimal.Decimal
	CostPerMinute decimal.Decimal
}

// Default returns the standard rate card: $0.10 per press, $0.05 per minute.
func Default() Tariff {
	return Tariff{
		CostPerPress:  decimal.RequireFromString("0.10"),
		CostPerMinute: decimal.RequireFromString("0.05"),
	}
}

// FromConfig parses the configured rate card.
func FromConfig(cfg config.BillingConfig) (Tariff, error) {
	perPress, err := decimal.NewFromString(cfg.CostPerPress)
	if err != nil {
		return Tariff{}, fmt.Errorf("parse cost per press %q: %w", cfg.CostPerPress, err)
	}
	perMinute, err := decimal.NewFromString(cfg.CostPerMinute)
	if err != nil {
		return Tariff{}, fmt.Errorf("parse cost per minute %q: %w", cfg.CostPerMinute, err)
	}
	return Tariff{CostPerPress: perPress, CostPerMinute: perMinute}, nil
}

// ButtonLine is one priced invoice line for a single button.
type ButtonLine struct {
	ButtonNumber         int             `json:"button_number"`
	PressCount           int64           `json:"press_count"`
	TotalDurationSeconds int64           `json:"total_duration_seconds"`
	TotalDurationMinutes decimal.Decimal `json:"total_duration_minutes"`
	PressCost            decimal.Decimal `json:"press_cost"`
	DurationCost         decimal.Decimal `json:"duration_cost"`
	TotalCost            decimal.Decimal `json:"total_cost"`
}

// Line prices one button's aggregated usage. The intermediate minutes value
// stays at full precision; rounding happens once per monetary figure.
func (t Tariff) Line(buttonNumber int, pressCount, totalDurationSeconds int64) ButtonLine {
	presses := decimal.NewFromInt(pressCount)
	minutes := decimal.NewFromInt(totalDurationSeconds).Div(secondsPerMinute)

	pressCost := roundMoney(presses.Mul(t.CostPerPress))
	durationCost := roundMoney(minutes.Mul(t.CostPerMinute))

	return ButtonLine{
		ButtonNumber:         buttonNumber,
		PressCount:           pressCount,
		TotalDurationSeconds: totalDurationSeconds,
		TotalDurationMinutes: minutes.Round(2),
		PressCost:            pressCost,
		DurationCost:         durationCost,
		TotalCost:            roundMoney(pressCost.Add(durationCost)),
	}
}

// Lines prices all buttons of one machine from its per-button aggregates.
// Buttons absent from usage appear with zero counts and zero cost.
func (t Tariff) Lines(usage map[int]ButtonUsage) []ButtonLine {
	lines := make([]ButtonLine, 0, ButtonCount)
	for button := 1; button <= ButtonCount; button++ {
		u := usage[button]
		lines = append(lines, t.Line(button, u.PressCount, u.TotalDurationSeconds))
	}
	return lines
}

// ButtonUsage is the raw aggregate fed into pricing.
type ButtonUsage struct {
	PressCount           int64
	TotalDurationSeconds int64
}

// Subtotal sums already-rounded line totals and rounds the result.
func Subtotal(lines []ButtonLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.TotalCost)
	}
	return roundMoney(total)
}

// Total sums already-rounded machine subtotals and rounds the result.
func Total(subtotals []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, s := range subtotals {
		total = total.Add(s)
	}
	return roundMoney(total)
}

// roundMoney rounds half-up (away from zero) to two decimal places.
// Banker's rounding is intentionally not used.
func roundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
