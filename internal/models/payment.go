package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Method is how a payment was made.
type Method string

const (
	MethodCash         Method = "cash"
	MethodCard         Method = "card"
	MethodBankTransfer Method = "bank_transfer"
	MethodCheck        Method = "check"
	MethodOnline       Method = "online"
)

// Methods lists every valid payment method in display order.
var Methods = []Method{MethodCash, MethodCard, MethodBankTransfer, MethodCheck, MethodOnline}

// Valid reports whether m is one of the known methods.
func (m Method) Valid() bool {
	for _, known := range Methods {
		if m == known {
			return true
		}
	}
	return false
}

// ParseMethod converts a wire string into a Method.
func ParseMethod(s string) (Method, error) {
	m := Method(s)
	if !m.Valid() {
		return "", fmt.Errorf("unknown payment method %q", s)
	}
	return m, nil
}

// Status is the settlement state of a payment.
// Payment entry only ever produces StatusCompleted; the others arrive
// through imported or migrated ledgers.
type Status string

const (
	StatusCompleted Status = "Completed"
	StatusPending   Status = "Pending"
	StatusFailed    Status = "Failed"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusCompleted || s == StatusPending || s == StatusFailed
}

// ParseStatus converts a wire string into a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown payment status %q", s)
	}
	return st, nil
}

// PaymentRecord represents one payment made by a player.
// Records are never mutated after creation. Player and group fields are a
// point-in-time capture of the roster and are never re-resolved.
type PaymentRecord struct {
	// ID is the unique identifier ("PAY-<epoch-millis>").
	// IDs increase with creation order.
	ID string

	// PlayerID references the roster player at creation time.
	// It is not re-validated afterwards; the player may since have left the roster.
	PlayerID string

	// PlayerName and PlayerEmail are copied from the roster at creation time.
	PlayerName  string
	PlayerEmail string

	// GroupID, GroupName, SubgroupID and SubgroupName are copied from the
	// player's placement at creation time. Empty means "none".
	GroupID      string
	GroupName    string
	SubgroupID   string
	SubgroupName string

	// Amount is the payment amount; always positive.
	Amount decimal.Decimal

	// Date is the calendar date the payment was made.
	Date Date

	Method Method
	Status Status

	// Receipt is an opaque reference to an attachment held elsewhere.
	Receipt string

	// Timestamp is when the record was created.
	Timestamp time.Time
}

// IsCompleted reports whether the record counts towards a player's paid status.
func (r PaymentRecord) IsCompleted() bool {
	return r.Status == StatusCompleted
}
