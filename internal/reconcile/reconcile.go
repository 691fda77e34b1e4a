// Package reconcile partitions a roster into paid and unpaid players.
//
// Paid status is a property of the whole ledger: a player is paid once any
// Completed record carries their id, regardless of which group the record was
// filed under. The scope only decides which roster players are checked.
package reconcile

import (
	"context"
	"fmt"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/mmynk/academypay/internal/models"
	"github.com/mmynk/academypay/internal/roster"
)

// Scope narrows the roster (and the ledger) to a group and optionally one of its subgroups.
type Scope struct {
	GroupID    string
	SubgroupID string
}

// Normalize drops a subgroup that has no parent group.
func (s Scope) Normalize() Scope {
	if s.GroupID == "" {
		return Scope{}
	}
	return s
}

// IsSet reports whether any scope field is selected.
func (s Scope) IsSet() bool {
	return s.GroupID != "" || s.SubgroupID != ""
}

// PaidSet holds the distinct ids of players with at least one Completed payment.
// It is immutable once built, so the unsynchronized set is safe to share.
type PaidSet struct {
	ids mapset.Set[string]
}

// PaidPlayerIDs builds the paid set for a ledger.
func PaidPlayerIDs(records []models.PaymentRecord) PaidSet {
	ids := mapset.NewThreadUnsafeSetWithSize[string](len(records))
	for _, r := range records {
		if r.IsCompleted() && r.PlayerID != "" {
			ids.Add(r.PlayerID)
		}
	}
	return PaidSet{ids: ids}
}

// Contains reports whether playerID has paid.
func (p PaidSet) Contains(playerID string) bool {
	return p.ids != nil && p.ids.Contains(playerID)
}

// Len returns the number of distinct paid players, including players no
// longer on the roster.
func (p PaidSet) Len() int {
	if p.ids == nil {
		return 0
	}
	return p.ids.Cardinality()
}

// IDs returns the paid player ids in ascending order.
func (p PaidSet) IDs() []string {
	if p.ids == nil {
		return nil
	}
	ids := p.ids.ToSlice()
	slices.Sort(ids)
	return ids
}

// Partition is the paid/unpaid split of a scoped roster.
// Paid and Unpaid are disjoint and together contain every player of Roster,
// each keeping roster order.
type Partition struct {
	Scope  Scope
	Roster []models.Player
	Paid   []models.Player
	Unpaid []models.Player
}

// Split partitions players using paid. It is a pure function.
func Split(players []models.Player, paid PaidSet) Partition {
	part := Partition{
		Roster: players,
		Paid:   make([]models.Player, 0, len(players)),
		Unpaid: make([]models.Player, 0, len(players)),
	}
	for _, p := range players {
		if paid.Contains(p.ID) {
			part.Paid = append(part.Paid, p)
		} else {
			part.Unpaid = append(part.Unpaid, p)
		}
	}
	return part
}

// View fetches the scoped roster from idx and splits it.
func View(ctx context.Context, idx roster.Index, scope Scope, paid PaidSet) (Partition, error) {
	scope = scope.Normalize()
	players, err := idx.ListPlayers(ctx, scope.GroupID, scope.SubgroupID)
	if err != nil {
		return Partition{}, fmt.Errorf("failed to list players: %w", err)
	}
	part := Split(players, paid)
	part.Scope = scope
	return part, nil
}

// ListKind selects one side of a partition.
type ListKind string

const (
	ListAll    ListKind = "all"
	ListPaid   ListKind = "paid"
	ListUnpaid ListKind = "unpaid"
)

// ParseListKind converts a wire string into a ListKind. Empty means ListAll.
func ParseListKind(s string) (ListKind, error) {
	switch ListKind(s) {
	case "", ListAll:
		return ListAll, nil
	case ListPaid, ListUnpaid:
		return ListKind(s), nil
	default:
		return "", fmt.Errorf("unknown player list %q", s)
	}
}

// Players returns the requested side of the partition.
func (p Partition) Players(kind ListKind) []models.Player {
	switch kind {
	case ListPaid:
		return p.Paid
	case ListUnpaid:
		return p.Unpaid
	default:
		return p.Roster
	}
}

// Title is the heading shown above a player list.
func (k ListKind) Title() string {
	switch k {
	case ListPaid:
		return "Paid Players"
	case ListUnpaid:
		return "Unpaid Players"
	default:
		return "All Players"
	}
}
