// Package filter narrows the payment history and the roster player list.
//
// Apply runs a fixed pipeline: scope, status, method, date range. Each stage
// only removes records; the survivors keep ledger order (most-recent-first).
package filter

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/mmynk/academypay/internal/models"
)

// Apply returns the records matching c. It never modifies records.
func Apply(records []models.PaymentRecord, c Criteria) []models.PaymentRecord {
	scope := c.Scope.Normalize()
	completedOnly, pendingOnly := statusStage(c.Status, scope.IsSet())

	out := make([]models.PaymentRecord, 0, len(records))
	for _, r := range records {
		// 1. scope
		if scope.GroupID != "" && r.GroupID != scope.GroupID {
			continue
		}
		if scope.SubgroupID != "" && r.SubgroupID != scope.SubgroupID {
			continue
		}
		// 2. status
		if completedOnly && !r.IsCompleted() {
			continue
		}
		if pendingOnly && r.IsCompleted() {
			continue
		}
		// 3. method
		if c.Method != "" && c.Method != MethodAll && r.Method != c.Method {
			continue
		}
		// 4. date range
		if !c.StartDate.IsZero() && r.Date.Before(c.StartDate) {
			continue
		}
		if !c.EndDate.IsZero() && r.Date.After(c.EndDate) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// statusStage decides the status narrowing. An unset mode on the unscoped
// view shows paid history only.
// TODO: confirm with the academy office whether the unscoped default should list every status.
func statusStage(mode StatusMode, scoped bool) (completedOnly, notCompletedOnly bool) {
	switch mode {
	case StatusPaidOnly:
		return true, false
	case StatusUnpaidOnly:
		return false, true
	case StatusUnset:
		return !scoped, false
	default:
		return false, false
	}
}

// SearchPlayers keeps players whose name, email, phone or club contains text,
// ignoring case. Empty text keeps everyone.
func SearchPlayers(players []models.Player, text string) []models.Player {
	text = strings.TrimSpace(text)
	if text == "" {
		return players
	}
	fold := cases.Fold()
	needle := fold.String(text)

	out := make([]models.Player, 0, len(players))
	for _, p := range players {
		for _, field := range []string{p.Name, p.Email, p.Phone, p.Club} {
			if field != "" && strings.Contains(fold.String(field), needle) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}
