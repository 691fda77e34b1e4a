package sorting

import (
	"testing"
	"time"

	"github.com/mmynk/academypay/internal/models"
)

func row(id, name string, day int) models.PaymentRecord {
	return models.PaymentRecord{ID: id, PlayerName: name, Date: models.NewDate(2026, time.April, day)}
}

func order(records []models.PaymentRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

var rows = []models.PaymentRecord{
	row("a", "bruno", 3),
	row("b", "Ana", 1),
	row("c", "anabela", 3),
	row("d", "Émile", 2),
	row("e", "Carla", 1),
}

func TestSort(t *testing.T) {
	tests := []struct {
		name  string
		order Order
		want  []string
	}{
		{"date asc keeps ties in input order", Order{KeyDate, Asc}, []string{"b", "e", "d", "a", "c"}},
		{"date desc keeps ties in input order", Order{KeyDate, Desc}, []string{"a", "c", "d", "b", "e"}},
		{"name asc ignores case", Order{KeyPlayerName, Asc}, []string{"b", "c", "a", "e", "d"}},
		{"name desc", Order{KeyPlayerName, Desc}, []string{"d", "e", "a", "c", "b"}},
		{"no key keeps input order", Order{}, []string{"a", "b", "c", "d", "e"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := order(Sort(rows, tt.order))
			if !equal(got, tt.want) {
				t.Errorf("Sort = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSortIdempotent(t *testing.T) {
	for _, o := range []Order{{KeyDate, Asc}, {KeyDate, Desc}, {KeyPlayerName, Asc}, {KeyPlayerName, Desc}} {
		once := Sort(rows, o)
		twice := Sort(once, o)
		if !equal(order(once), order(twice)) {
			t.Errorf("%v: sorting twice changed order: %v -> %v", o, order(once), order(twice))
		}
	}
}

func TestSortDoesNotModifyInput(t *testing.T) {
	in := append([]models.PaymentRecord(nil), rows...)
	Sort(in, Order{KeyDate, Asc})
	if !equal(order(in), order(rows)) {
		t.Errorf("input reordered: %v", order(in))
	}
}

func TestSortEmpty(t *testing.T) {
	if got := Sort(nil, DefaultOrder()); len(got) != 0 {
		t.Errorf("Sort(nil) = %v", got)
	}
}

func TestToggle(t *testing.T) {
	o := DefaultOrder()
	if o != (Order{KeyDate, Desc}) {
		t.Fatalf("DefaultOrder = %v", o)
	}

	o = o.Toggle(KeyDate)
	if o != (Order{KeyDate, Asc}) {
		t.Errorf("toggle from desc = %v, want date asc", o)
	}
	o = o.Toggle(KeyDate)
	if o != (Order{KeyDate, Desc}) {
		t.Errorf("toggle from asc = %v, want date desc", o)
	}
	o = o.Toggle(KeyPlayerName)
	if o != (Order{KeyPlayerName, Asc}) {
		t.Errorf("switching key = %v, want playerName asc", o)
	}
}

func TestParseOrder(t *testing.T) {
	o, err := ParseOrder("", "")
	if err != nil || o != DefaultOrder() {
		t.Errorf("ParseOrder(\"\", \"\") = %v, %v", o, err)
	}
	o, err = ParseOrder("playerName", "asc")
	if err != nil || o != (Order{KeyPlayerName, Asc}) {
		t.Errorf("ParseOrder = %v, %v", o, err)
	}
	if _, err := ParseOrder("amount", ""); err == nil {
		t.Error("expected error for unknown key")
	}
	if _, err := ParseOrder("date", "up"); err == nil {
		t.Error("expected error for unknown direction")
	}
}
