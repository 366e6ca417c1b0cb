// Package validate runs constructed orders through a layered pre-trade
// validation pipeline. The pipeline is a flat, ordered sequence that never
// stops at the first failure: every detectable problem is surfaced in a
// single pass so the trader fixes them all in one iteration.
package validate

import (
	"fmt"
	"strings"
)

// Kind classifies a finding by the check that produced it.
type Kind string

const (
	KindStructure   Kind = "structure"
	KindSymbol      Kind = "symbol"
	KindQuantity    Kind = "quantity"
	KindPrice       Kind = "price"
	KindPermission  Kind = "permission"
	KindMarketHours Kind = "market-hours"
	KindBuyingPower Kind = "buying-power"
)

// Finding is one problem (or caution) detected by a validation check.
type Finding struct {
	Kind    Kind
	Message string
}

func (f Finding) String() string {
	return fmt.Sprintf("[%s] %s", f.Kind, f.Message)
}

// Outcome is the accumulated result of one Validate pass. It is built
// fresh per call and never mutated afterwards.
type Outcome struct {
	Errors   []Finding
	Warnings []Finding
}

// OK reports whether the pass produced no errors. Warnings never block.
func (o Outcome) OK() bool {
	return len(o.Errors) == 0
}

// merge folds another batch of findings into a new outcome.
func (o Outcome) merge(other Outcome) Outcome {
	return Outcome{
		Errors:   append(append([]Finding(nil), o.Errors...), other.Errors...),
		Warnings: append(append([]Finding(nil), o.Warnings...), other.Warnings...),
	}
}

func errorf(kind Kind, format string, args ...any) Outcome {
	return Outcome{Errors: []Finding{{Kind: kind, Message: fmt.Sprintf(format, args...)}}}
}

func warnf(kind Kind, format string, args ...any) Outcome {
	return Outcome{Warnings: []Finding{{Kind: kind, Message: fmt.Sprintf(format, args...)}}}
}

// OrderValidationError carries every error finding from a failed pass, in
// the order the checks produced them.
type OrderValidationError struct {
	Findings []Finding
}

func (e *OrderValidationError) Error() string {
	msgs := make([]string, 0, len(e.Findings))
	for _, f := range e.Findings {
		msgs = append(msgs, f.Message)
	}
	return fmt.Sprintf("order validation failed: %s", strings.Join(msgs, "; "))
}
