package recordstore

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/academypay/internal/models"
	"github.com/mmynk/academypay/internal/persistence"
)

var testNow = time.Date(2026, time.March, 14, 10, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

// failingMedium wraps a Memory and fails writes while failWrites is set.
type failingMedium struct {
	*persistence.Memory
	failWrites bool
	writes     int
}

func (f *failingMedium) Write(ctx context.Context, key string, data []byte) error {
	f.writes++
	if f.failWrites {
		return fmt.Errorf("quota exceeded: %w", persistence.ErrCapacityExceeded)
	}
	return f.Memory.Write(ctx, key, data)
}

func payment(playerID string, amount int64) models.PaymentRecord {
	return models.PaymentRecord{
		PlayerID:   playerID,
		PlayerName: "Player " + playerID,
		GroupID:    "groupA",
		Amount:     decimal.NewFromInt(amount),
		Date:       models.DateOf(testNow),
		Method:     models.MethodCash,
	}
}

func TestAdd(t *testing.T) {
	ctx := context.Background()
	store := New(persistence.NewMemory(0), WithClock(fixedClock))

	rec, err := store.Add(ctx, payment("P1", 50))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if rec.ID != fmt.Sprintf("PAY-%d", testNow.UnixMilli()) {
		t.Errorf("ID = %s, want PAY-<epoch-millis>", rec.ID)
	}
	if rec.Status != models.StatusCompleted {
		t.Errorf("Status = %s, want Completed", rec.Status)
	}
	if !rec.Timestamp.Equal(testNow) {
		t.Errorf("Timestamp = %v, want %v", rec.Timestamp, testNow)
	}
	if !store.Snapshot().Paid.Contains("P1") {
		t.Error("P1 should be in the paid set after a completed payment")
	}
}

func TestAddValidation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		mod   func(r *models.PaymentRecord)
		field string
	}{
		{"missing player", func(r *models.PaymentRecord) { r.PlayerID = "  " }, "playerId"},
		{"zero amount", func(r *models.PaymentRecord) { r.Amount = decimal.Zero }, "amount"},
		{"negative amount", func(r *models.PaymentRecord) { r.Amount = decimal.NewFromInt(-5) }, "amount"},
		{"missing date", func(r *models.PaymentRecord) { r.Date = models.Date{} }, "date"},
		{"future date", func(r *models.PaymentRecord) { r.Date = models.NewDate(2026, time.March, 15) }, "date"},
		{"unknown method", func(r *models.PaymentRecord) { r.Method = "barter" }, "method"},
		{"unknown status", func(r *models.PaymentRecord) { r.Status = "Refunded" }, "status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			medium := &failingMedium{Memory: persistence.NewMemory(0)}
			store := New(medium, WithClock(fixedClock))

			rec := payment("P1", 10)
			tt.mod(&rec)

			_, err := store.Add(ctx, rec)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Field != tt.field {
				t.Errorf("expected field %q, got %v", tt.field, err)
			}
			if len(store.Records()) != 0 {
				t.Error("rejected record must not be added")
			}
			if medium.writes != 0 {
				t.Error("rejected record must not trigger a write")
			}
		})
	}
}

func TestAddToday(t *testing.T) {
	store := New(persistence.NewMemory(0), WithClock(fixedClock))
	rec := payment("P1", 10)
	rec.Date = models.NewDate(2026, time.March, 14)
	if _, err := store.Add(context.Background(), rec); err != nil {
		t.Errorf("payment dated today should be accepted: %v", err)
	}
}

func TestAddDuplicateID(t *testing.T) {
	ctx := context.Background()
	store := New(persistence.NewMemory(0), WithClock(fixedClock))

	rec := payment("P1", 10)
	rec.ID = "PAY-1"
	if _, err := store.Add(ctx, rec); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := store.Add(ctx, rec); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for duplicate id, got %v", err)
	}
}

func TestInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := New(persistence.NewMemory(0), WithClock(fixedClock))

	var added []string
	for _, p := range []string{"R1", "R2", "R3"} {
		rec, err := store.Add(ctx, payment(p, 10))
		if err != nil {
			t.Fatalf("Add %s failed: %v", p, err)
		}
		added = append(added, rec.ID)
	}

	records := store.Records()
	want := []string{"R3", "R2", "R1"}
	for i, r := range records {
		if r.PlayerID != want[i] {
			t.Errorf("record %d = %s, want %s", i, r.PlayerID, want[i])
		}
	}

	// Same clock tick: ids must still be unique and increasing.
	if !(added[0] < added[1] && added[1] < added[2]) {
		t.Errorf("ids not increasing: %v", added)
	}
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	medium := persistence.NewMemory(0)
	store := New(medium, WithClock(fixedClock))

	rec, _ := store.Add(ctx, payment("P1", 50))
	if err := store.Remove(ctx, rec.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if len(store.Records()) != 0 {
		t.Errorf("expected empty ledger, got %d records", len(store.Records()))
	}
	if store.Snapshot().Paid.Contains("P1") {
		t.Error("P1 should be unpaid after its only payment is removed")
	}

	data, _ := medium.Read(ctx, DefaultKey)
	if string(data) != "[]" {
		t.Errorf("persisted = %s, want []", data)
	}

	err := store.Remove(ctx, rec.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSnapshotIsImmutable(t *testing.T) {
	ctx := context.Background()
	store := New(persistence.NewMemory(0), WithClock(fixedClock))

	store.Add(ctx, payment("P1", 10))
	before := store.Snapshot()
	store.Add(ctx, payment("P2", 20))

	if len(before.Records) != 1 || before.Records[0].PlayerID != "P1" {
		t.Errorf("earlier snapshot changed: %+v", before.Records)
	}
	if before.Paid.Contains("P2") {
		t.Error("earlier paid set changed")
	}
	if after := store.Snapshot(); after.Version <= before.Version {
		t.Errorf("version did not increase: %d -> %d", before.Version, after.Version)
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	medium := persistence.NewMemory(0)
	store := New(medium, WithClock(fixedClock))

	first := payment("P1", 50)
	first.SubgroupID = "a1"
	first.SubgroupName = "Morning"
	first.Receipt = "receipts/p1.pdf"
	store.Add(ctx, first)

	second := payment("P2", 30)
	second.Status = models.StatusPending
	second.Amount = decimal.RequireFromString("30.25")
	second.Method = models.MethodBankTransfer
	store.Add(ctx, second)

	reloaded := New(medium, WithClock(fixedClock))
	got, err := reloaded.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := store.Records()
	if len(got) != len(want) {
		t.Fatalf("loaded %d records, want %d", len(got), len(want))
	}
	for i := range want {
		assertSameRecord(t, got[i], want[i])
	}

	// New ids keep increasing after a reload.
	next, err := reloaded.Add(ctx, payment("P3", 5))
	if err != nil {
		t.Fatalf("Add after reload failed: %v", err)
	}
	if next.ID <= want[0].ID {
		t.Errorf("id after reload %s should sort after %s", next.ID, want[0].ID)
	}
}

func assertSameRecord(t *testing.T, got, want models.PaymentRecord) {
	t.Helper()
	if got.ID != want.ID || got.PlayerID != want.PlayerID || got.PlayerName != want.PlayerName ||
		got.PlayerEmail != want.PlayerEmail || got.GroupID != want.GroupID || got.GroupName != want.GroupName ||
		got.SubgroupID != want.SubgroupID || got.SubgroupName != want.SubgroupName ||
		got.Method != want.Method || got.Status != want.Status || got.Receipt != want.Receipt {
		t.Errorf("record mismatch:\n got  %+v\n want %+v", got, want)
	}
	if !got.Amount.Equal(want.Amount) {
		t.Errorf("amount = %s, want %s", got.Amount, want.Amount)
	}
	if got.Date != want.Date {
		t.Errorf("date = %s, want %s", got.Date, want.Date)
	}
	if !got.Timestamp.Equal(want.Timestamp) {
		t.Errorf("timestamp = %v, want %v", got.Timestamp, want.Timestamp)
	}
}

func TestLoadMissing(t *testing.T) {
	store := New(persistence.NewMemory(0))
	records, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected empty ledger, got %d", len(records))
	}
}

func TestLoadCorrupt(t *testing.T) {
	ctx := context.Background()

	for _, payload := range []string{
		`{not json`,
		`{"id":"PAY-1"}`,
		`[{"id":"PAY-1","playerId":"P1","amount":"lots","date":"2026-01-01","method":"cash","status":"Completed"}]`,
		`[{"id":"PAY-1","playerId":"P1","amount":5,"date":"01/02/2026","method":"cash","status":"Completed"}]`,
	} {
		t.Run(payload, func(t *testing.T) {
			medium := persistence.NewMemory(0)
			medium.Write(ctx, DefaultKey, []byte(payload))

			store := New(medium, WithClock(fixedClock))
			records, err := store.Load(ctx)
			if !errors.Is(err, ErrCorruptState) {
				t.Fatalf("expected ErrCorruptState, got %v", err)
			}
			if records == nil || len(records) != 0 {
				t.Errorf("expected empty non-nil ledger, got %v", records)
			}
			if !store.Corrupt() {
				t.Error("store should report corrupt state")
			}

			backup, _ := medium.Read(ctx, DefaultKey+".corrupt")
			if string(backup) != payload {
				t.Errorf("backup = %q, want original payload", backup)
			}

			// The store stays usable and the next write replaces the bad data.
			if _, err := store.Add(ctx, payment("P1", 10)); err != nil {
				t.Fatalf("Add after corrupt load failed: %v", err)
			}
			if store.Corrupt() {
				t.Error("corrupt flag should clear after a successful save")
			}
		})
	}
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	medium := persistence.NewMemory(0)
	medium.Write(ctx, DefaultKey, []byte(`garbage`))

	store := New(medium)
	store.Load(ctx)
	if err := store.Reset(ctx); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	data, _ := medium.Read(ctx, DefaultKey)
	if string(data) != "[]" {
		t.Errorf("after reset persisted = %q, want []", data)
	}
	if _, err := store.Load(ctx); err != nil {
		t.Errorf("Load after reset failed: %v", err)
	}
}

func TestPersistenceDegraded(t *testing.T) {
	ctx := context.Background()
	medium := &failingMedium{Memory: persistence.NewMemory(0), failWrites: true}
	store := New(medium, WithClock(fixedClock))

	rec, err := store.Add(ctx, payment("P1", 50))
	if !IsDegraded(err) {
		t.Fatalf("expected ErrPersistenceDegraded, got %v", err)
	}
	if !errors.Is(err, persistence.ErrCapacityExceeded) {
		t.Errorf("degraded error should keep the capacity cause, got %v", err)
	}
	if rec.ID == "" {
		t.Error("degraded add must still return the stored record")
	}
	if !store.Degraded() {
		t.Error("store should report degraded persistence")
	}

	// In-memory state stays authoritative within the session.
	records, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(records) != 1 || records[0].ID != rec.ID {
		t.Fatalf("Load after degraded add = %+v, want the added record", records)
	}

	// Once the medium recovers the next save catches up.
	medium.failWrites = false
	records, _ = store.Load(ctx)
	if len(records) != 1 || store.Degraded() {
		t.Errorf("expected flush on recovery, degraded=%v records=%d", store.Degraded(), len(records))
	}
	data, _ := medium.Memory.Read(ctx, DefaultKey)
	decoded, err := Decode(data)
	if err != nil || len(decoded) != 1 {
		t.Errorf("persisted ledger after recovery = %s (%v)", data, err)
	}
}

func TestRemoveDegraded(t *testing.T) {
	ctx := context.Background()
	medium := &failingMedium{Memory: persistence.NewMemory(0)}
	store := New(medium, WithClock(fixedClock))

	rec, _ := store.Add(ctx, payment("P1", 50))
	medium.failWrites = true

	err := store.Remove(ctx, rec.ID)
	if !IsDegraded(err) {
		t.Fatalf("expected ErrPersistenceDegraded, got %v", err)
	}
	if len(store.Records()) != 0 {
		t.Error("degraded remove must still remove in memory")
	}
}

func TestQuotaRecoveryDropsCorruptBackup(t *testing.T) {
	ctx := context.Background()
	medium := persistence.NewMemory(400)

	garbage := make([]byte, 150)
	for i := range garbage {
		garbage[i] = 'x'
	}
	medium.Write(ctx, DefaultKey, garbage)

	store := New(medium, WithClock(fixedClock))
	if _, err := store.Load(ctx); !errors.Is(err, ErrCorruptState) {
		t.Fatalf("expected ErrCorruptState, got %v", err)
	}

	// The ledger plus the 150-byte backup no longer fits; the backup is dropped.
	if _, err := store.Add(ctx, payment("P1", 50)); err != nil {
		t.Fatalf("Add should succeed after freeing the backup: %v", err)
	}
	backup, _ := medium.Read(ctx, DefaultKey+".corrupt")
	if backup != nil {
		t.Error("corrupt backup should have been dropped to make room")
	}
}
