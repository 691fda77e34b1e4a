package sqlite

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/academypay/internal/models"
	"github.com/mmynk/academypay/internal/persistence"
	"github.com/mmynk/academypay/internal/recordstore"
	"github.com/mmynk/academypay/internal/roster"
)

func newTestStore(t *testing.T, opts ...Option) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"), opts...)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestKeyValue(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("missing key reads as nil", func(t *testing.T) {
		data, err := store.Read(ctx, "paymentHistory")
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		if data != nil {
			t.Errorf("Expected nil data, got %q", data)
		}
	})

	t.Run("write then overwrite", func(t *testing.T) {
		if err := store.Write(ctx, "paymentHistory", []byte(`[1]`)); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		if err := store.Write(ctx, "paymentHistory", []byte(`[1,2]`)); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		data, err := store.Read(ctx, "paymentHistory")
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		if string(data) != `[1,2]` {
			t.Errorf("Expected [1,2], got %q", data)
		}
	})

	t.Run("empty value is not missing", func(t *testing.T) {
		if err := store.Write(ctx, "empty", nil); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		data, err := store.Read(ctx, "empty")
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		if data == nil || len(data) != 0 {
			t.Errorf("Expected empty non-nil value, got %#v", data)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := store.Delete(ctx, "paymentHistory"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if err := store.Delete(ctx, "never-written"); err != nil {
			t.Fatalf("Delete of missing key failed: %v", err)
		}
		data, _ := store.Read(ctx, "paymentHistory")
		if data != nil {
			t.Errorf("Expected key to be gone, got %q", data)
		}
	})
}

func TestReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "academy.db")
	ctx := context.Background()

	first, err := New(dbPath)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := first.Write(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	first.Close()

	second, err := New(dbPath)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer second.Close()
	data, err := second.Read(ctx, "k")
	if err != nil || string(data) != "v" {
		t.Errorf("Read after reopen = %q, %v", data, err)
	}
}

func TestQuota(t *testing.T) {
	store := newTestStore(t, WithQuota(64*1024))
	ctx := context.Background()

	if err := store.Write(ctx, "small", []byte("ok")); err != nil {
		t.Fatalf("small Write failed: %v", err)
	}

	err := store.Write(ctx, "big", bytes.Repeat([]byte("x"), 1<<20))
	if !persistence.IsCapacityExceeded(err) {
		t.Fatalf("Expected ErrCapacityExceeded, got %v", err)
	}

	data, err := store.Read(ctx, "small")
	if err != nil || string(data) != "ok" {
		t.Errorf("existing value damaged: %q, %v", data, err)
	}
}

func TestLedgerRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ledger := recordstore.New(store)
	rec := models.PaymentRecord{
		PlayerID:   "p1",
		PlayerName: "Ana",
		Amount:     decimal.RequireFromString("50"),
		Date:       models.NewDate(2024, 1, 10),
		Method:     models.MethodCash,
	}
	added, err := ledger.Add(ctx, rec)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	reloaded := recordstore.New(store)
	records, err := reloaded.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(records) != 1 || records[0].ID != added.ID {
		t.Fatalf("Expected [%s], got %+v", added.ID, records)
	}
	if !records[0].Amount.Equal(rec.Amount) {
		t.Errorf("Amount = %s", records[0].Amount)
	}
}

func TestRoster(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	groups := []models.Group{
		{ID: "u12", Name: "U12", SubgroupIDs: []string{"u12-b", "u12-a"}},
		{ID: "u14", Name: "U14"},
	}
	subgroups := []models.Subgroup{
		{ID: "u12-a", Name: "A", GroupID: "u12"},
		{ID: "u12-b", Name: "B", GroupID: "u12"},
	}
	players := []models.Player{
		{ID: "p1", Name: "Ana", Email: "ana@example.com", GroupID: "u12", SubgroupID: "u12-a"},
		{ID: "p2", Name: "Ben", GroupID: "u12", SubgroupID: "u12-b"},
		{ID: "p3", Name: "Cai", GroupID: "u14"},
		{Name: "Dee"},
	}
	if err := store.ReplaceRoster(ctx, groups, subgroups, players); err != nil {
		t.Fatalf("ReplaceRoster failed: %v", err)
	}

	t.Run("ListPlayers", func(t *testing.T) {
		tests := []struct {
			name       string
			groupID    string
			subgroupID string
			want       []string
		}{
			{name: "everyone", want: []string{"Ana", "Ben", "Cai", "Dee"}},
			{name: "group", groupID: "u12", want: []string{"Ana", "Ben"}},
			{name: "subgroup", groupID: "u12", subgroupID: "u12-b", want: []string{"Ben"}},
			{name: "subgroup without group is ignored", subgroupID: "u12-b", want: []string{"Ana", "Ben", "Cai", "Dee"}},
			{name: "empty group", groupID: "nope", want: nil},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := store.ListPlayers(ctx, tt.groupID, tt.subgroupID)
				if err != nil {
					t.Fatalf("ListPlayers failed: %v", err)
				}
				var names []string
				for _, p := range got {
					names = append(names, p.Name)
				}
				if len(names) != len(tt.want) {
					t.Fatalf("Expected %v, got %v", tt.want, names)
				}
				for i := range names {
					if names[i] != tt.want[i] {
						t.Errorf("Expected %v, got %v", tt.want, names)
						break
					}
				}
			})
		}
	})

	t.Run("generated player id", func(t *testing.T) {
		all, _ := store.ListPlayers(ctx, "", "")
		if all[3].ID == "" {
			t.Error("Expected generated ID for Dee")
		}
		if all[3].GroupID != "" {
			t.Errorf("Expected no group, got %q", all[3].GroupID)
		}
	})

	t.Run("subgroups follow group order", func(t *testing.T) {
		sgs, err := store.ListSubgroups(ctx, "u12")
		if err != nil {
			t.Fatalf("ListSubgroups failed: %v", err)
		}
		if len(sgs) != 2 || sgs[0].ID != "u12-b" || sgs[1].ID != "u12-a" {
			t.Errorf("Expected [u12-b u12-a], got %+v", sgs)
		}
		if _, err := store.ListSubgroups(ctx, "nope"); !errors.Is(err, roster.ErrGroupNotFound) {
			t.Errorf("Expected ErrGroupNotFound, got %v", err)
		}
	})

	t.Run("point lookups", func(t *testing.T) {
		p, err := store.GetPlayer(ctx, "p1")
		if err != nil || p.Email != "ana@example.com" || p.SubgroupID != "u12-a" {
			t.Errorf("GetPlayer = %+v, %v", p, err)
		}
		if _, err := store.GetPlayer(ctx, "zzz"); !errors.Is(err, roster.ErrPlayerNotFound) {
			t.Errorf("Expected ErrPlayerNotFound, got %v", err)
		}
		g, err := store.GetGroup(ctx, "u12")
		if err != nil || g.Name != "U12" || len(g.SubgroupIDs) != 2 {
			t.Errorf("GetGroup = %+v, %v", g, err)
		}
		sg, err := store.GetSubgroup(ctx, "u12-a")
		if err != nil || sg.GroupID != "u12" {
			t.Errorf("GetSubgroup = %+v, %v", sg, err)
		}
		if _, err := store.GetSubgroup(ctx, "zzz"); !errors.Is(err, roster.ErrSubgroupNotFound) {
			t.Errorf("Expected ErrSubgroupNotFound, got %v", err)
		}
	})

	t.Run("ListGroups", func(t *testing.T) {
		gs, err := store.ListGroups(ctx)
		if err != nil {
			t.Fatalf("ListGroups failed: %v", err)
		}
		if len(gs) != 2 || gs[0].ID != "u12" || gs[1].ID != "u14" {
			t.Fatalf("Expected [u12 u14], got %+v", gs)
		}
		if len(gs[0].SubgroupIDs) != 2 || gs[0].SubgroupIDs[0] != "u12-b" {
			t.Errorf("Expected u12 subgroups [u12-b u12-a], got %v", gs[0].SubgroupIDs)
		}
	})

	t.Run("replace swaps everything", func(t *testing.T) {
		err := store.ReplaceRoster(ctx,
			[]models.Group{{ID: "u16", Name: "U16"}},
			nil,
			[]models.Player{{ID: "p9", Name: "Zoe", GroupID: "u16"}},
		)
		if err != nil {
			t.Fatalf("ReplaceRoster failed: %v", err)
		}
		all, _ := store.ListPlayers(ctx, "", "")
		if len(all) != 1 || all[0].ID != "p9" {
			t.Errorf("Expected only p9, got %+v", all)
		}
		if _, err := store.GetGroup(ctx, "u12"); !errors.Is(err, roster.ErrGroupNotFound) {
			t.Errorf("Expected old group to be gone, got %v", err)
		}
	})

	t.Run("invalid roster is rejected", func(t *testing.T) {
		err := store.ReplaceRoster(ctx,
			[]models.Group{{ID: "g"}},
			[]models.Subgroup{{ID: "s", GroupID: "missing"}},
			nil,
		)
		if err == nil {
			t.Fatal("Expected error for orphan subgroup")
		}
		all, _ := store.ListPlayers(ctx, "", "")
		if len(all) != 1 {
			t.Errorf("Expected previous roster to survive, got %+v", all)
		}
	})
}
