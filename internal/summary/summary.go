// Package summary reduces a set of payment records to totals.
package summary

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/academypay/internal/models"
)

// Summary holds the totals shown above the payment history.
// TotalAmount always equals CompletedAmount + PendingAmount.
type Summary struct {
	TotalPayments   int
	TotalAmount     decimal.Decimal
	CompletedAmount decimal.Decimal

	// PendingAmount covers every record that is not Completed, failed ones included.
	PendingAmount decimal.Decimal
}

// Summarize totals records. An empty input yields all zeros.
func Summarize(records []models.PaymentRecord) Summary {
	s := Summary{
		TotalAmount:     decimal.Zero,
		CompletedAmount: decimal.Zero,
		PendingAmount:   decimal.Zero,
	}
	for _, r := range records {
		s.TotalPayments++
		if r.IsCompleted() {
			s.CompletedAmount = s.CompletedAmount.Add(r.Amount)
		} else {
			s.PendingAmount = s.PendingAmount.Add(r.Amount)
		}
	}
	s.TotalAmount = s.CompletedAmount.Add(s.PendingAmount)
	return s
}
