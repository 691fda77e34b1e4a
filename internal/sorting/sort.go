// Package sorting orders payment history rows.
package sorting

import (
	"bytes"
	"fmt"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mmynk/academypay/internal/models"
)

// Key is the column rows are ordered by.
type Key string

const (
	KeyDate       Key = "date"
	KeyPlayerName Key = "playerName"
)

// Direction is ascending or descending.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Order is a sort key with a direction.
type Order struct {
	Key       Key
	Direction Direction
}

// DefaultOrder is newest payment date first.
func DefaultOrder() Order {
	return Order{Key: KeyDate, Direction: Desc}
}

// ParseOrder builds an Order from wire strings. Empty values fall back to DefaultOrder.
func ParseOrder(key, direction string) (Order, error) {
	o := DefaultOrder()
	switch Key(key) {
	case "":
	case KeyDate, KeyPlayerName:
		o.Key = Key(key)
	default:
		return Order{}, fmt.Errorf("unknown sort key %q", key)
	}
	switch Direction(direction) {
	case "":
	case Asc, Desc:
		o.Direction = Direction(direction)
	default:
		return Order{}, fmt.Errorf("unknown sort direction %q", direction)
	}
	return o, nil
}

// Toggle returns the order after the user picks key: picking the current key
// while ascending flips to descending, anything else starts ascending.
func (o Order) Toggle(key Key) Order {
	if o.Key == key && o.Direction == Asc {
		return Order{Key: key, Direction: Desc}
	}
	return Order{Key: key, Direction: Asc}
}

// Sort returns a new slice ordered by o. The sort is stable: rows with equal
// keys keep their relative order, so sorting twice gives the same result.
// An Order with an empty Key returns the rows in their original order.
func Sort(records []models.PaymentRecord, o Order) []models.PaymentRecord {
	out := append([]models.PaymentRecord(nil), records...)

	var cmp func(a, b int) int
	switch o.Key {
	case KeyDate:
		cmp = func(a, b int) int { return out[a].Date.Compare(out[b].Date) }
	case KeyPlayerName:
		keys := nameKeys(out)
		cmp = func(a, b int) int { return bytes.Compare(keys[a], keys[b]) }
	default:
		return out
	}

	idx := make([]int, len(out))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		if o.Direction == Desc {
			return cmp(b, a)
		}
		return cmp(a, b)
	})

	sorted := make([]models.PaymentRecord, len(out))
	for i, j := range idx {
		sorted[i] = out[j]
	}
	return sorted
}

// nameKeys builds collation keys so names compare the way people read them
// ("ana" next to "Ana", "Émile" next to "Emile").
func nameKeys(records []models.PaymentRecord) [][]byte {
	c := collate.New(language.Und)
	var buf collate.Buffer
	keys := make([][]byte, len(records))
	for i, r := range records {
		keys[i] = append([]byte(nil), c.KeyFromString(&buf, r.PlayerName)...)
		buf.Reset()
	}
	return keys
}
