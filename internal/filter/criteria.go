package filter

import (
	"fmt"

	"github.com/mmynk/academypay/internal/models"
	"github.com/mmynk/academypay/internal/reconcile"
)

// StatusMode selects records by settlement status.
type StatusMode string

const (
	// StatusUnset means the caller did not choose a mode. Without a scope it
	// behaves like StatusPaidOnly; with a scope it keeps every status.
	StatusUnset      StatusMode = ""
	StatusAll        StatusMode = "all"
	StatusPaidOnly   StatusMode = "paidOnly"
	StatusUnpaidOnly StatusMode = "unpaidOnly"
)

// ParseStatusMode converts a wire string into a StatusMode.
func ParseStatusMode(s string) (StatusMode, error) {
	switch m := StatusMode(s); m {
	case StatusUnset, StatusAll, StatusPaidOnly, StatusUnpaidOnly:
		return m, nil
	default:
		return "", fmt.Errorf("unknown status mode %q", s)
	}
}

// MethodAll disables the method filter.
const MethodAll models.Method = "all"

// ParseMethodFilter converts a wire string into a method filter. Empty means all.
func ParseMethodFilter(s string) (models.Method, error) {
	if s == "" || models.Method(s) == MethodAll {
		return MethodAll, nil
	}
	return models.ParseMethod(s)
}

// Criteria is the compound filter applied to the payment history.
// The zero value is the unscoped default view.
type Criteria struct {
	Scope  reconcile.Scope
	Status StatusMode

	// Method is MethodAll (or empty) to keep every method.
	Method models.Method

	// StartDate and EndDate bound the payment date inclusively.
	// A zero Date leaves that side open.
	StartDate models.Date
	EndDate   models.Date

	// SearchText narrows the roster-driven player list only; records ignore it.
	SearchText string
}

// WithDefaultWindow returns c with EndDate set to today when no end bound was
// given, matching the history screen's initial state.
func (c Criteria) WithDefaultWindow(today models.Date) Criteria {
	if c.EndDate.IsZero() {
		c.EndDate = today
	}
	return c
}

// Validate rejects unknown status modes and methods. A start date after the
// end date is allowed; each bound narrows on its own and nothing matches.
func (c Criteria) Validate() error {
	if _, err := ParseStatusMode(string(c.Status)); err != nil {
		return err
	}
	if c.Method != "" && c.Method != MethodAll && !c.Method.Valid() {
		return fmt.Errorf("unknown payment method %q", c.Method)
	}
	return nil
}
