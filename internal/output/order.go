package output

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tastycli/tasty/internal/order"
	"github.com/tastycli/tasty/internal/validate"
)

// Findings prints validation errors and warnings. In JSON mode the raw
// outcome is emitted; otherwise errors render in red and warnings in
// yellow.
func (f *Formatter) Findings(outcome validate.Outcome) error {
	if len(outcome.Errors) == 0 && len(outcome.Warnings) == 0 {
		return nil
	}
	if f.JSONMode {
		return f.Print(struct {
			Errors   []validate.Finding `json:"errors"`
			Warnings []validate.Finding `json:"warnings"`
		}{outcome.Errors, outcome.Warnings})
	}

	for _, finding := range outcome.Errors {
		line := ErrorStyle.Render(fmt.Sprintf("✗ %s", finding.Message))
		if _, err := fmt.Fprintln(f.Writer, line); err != nil {
			return err
		}
	}
	for _, finding := range outcome.Warnings {
		line := WarningStyle.Render(fmt.Sprintf("⚠ %s", finding.Message))
		if _, err := fmt.Fprintln(f.Writer, line); err != nil {
			return err
		}
	}
	return nil
}

// Premium renders a net premium as a colored credit or debit amount.
// Positive amounts are credits received, negative are debits paid.
func Premium(net decimal.Decimal) string {
	if net.IsNegative() {
		return DebitStyle.Render(fmt.Sprintf("Debit $%s", net.Abs().StringFixed(2)))
	}
	return CreditStyle.Render(fmt.Sprintf("Credit $%s", net.StringFixed(2)))
}

// PriceEffect renders a price effect in its conventional color.
func PriceEffect(effect order.PriceEffect) string {
	if effect == order.Credit {
		return CreditStyle.Render(string(effect))
	}
	return DebitStyle.Render(string(effect))
}

// OrderPreview prints a leg-by-leg view of an order before submission.
func (f *Formatter) OrderPreview(o order.Order) error {
	if f.JSONMode {
		return f.Print(o)
	}

	headers := []string{"ACTION", "QTY", "SYMBOL", "TYPE"}
	rows := make([][]string, 0, len(o.Legs()))
	for _, leg := range o.Legs() {
		rows = append(rows, []string{
			string(leg.Action()),
			fmt.Sprintf("%d", leg.Quantity()),
			leg.Symbol(),
			string(leg.InstrumentType()),
		})
	}
	if err := f.Table(headers, rows); err != nil {
		return err
	}

	if price := o.Price(); price != nil {
		effect := order.DerivePriceEffect(o.Legs()[0])
		_, err := fmt.Fprintf(f.Writer, "%s %s @ %s (%s)\n",
			LabelStyle.Render("Limit"),
			ValueStyle.Render(price.Abs().StringFixed(2)),
			string(o.TimeInForce()),
			PriceEffect(effect))
		return err
	}
	_, err := fmt.Fprintf(f.Writer, "%s @ %s\n", LabelStyle.Render("Market"), string(o.TimeInForce()))
	return err
}
