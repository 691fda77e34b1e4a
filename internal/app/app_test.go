package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/academypay/internal/config"
	"github.com/mmynk/academypay/internal/recordstore"
	"github.com/mmynk/academypay/internal/roster"
	"github.com/mmynk/academypay/pkg/paymentrpc"
)

const rosterJSON = `{
	"groups": [{"id": "u12", "name": "U12", "subgroups": [{"id": "u12-a", "name": "A"}]}],
	"players": [{"id": "p1", "name": "Ana", "email": "ana@example.com", "groupId": "u12", "subgroupId": "u12-a"}]
}`

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Storage.Backend = backend
	cfg.Storage.Path = filepath.Join(dir, "academy.db")
	cfg.Storage.Dir = filepath.Join(dir, "ledger")
	return cfg
}

func TestOpenBackends(t *testing.T) {
	for _, backend := range []string{config.BackendSQLite, config.BackendFile, config.BackendMemory} {
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			cfg := testConfig(t, backend)

			a, err := Open(ctx, cfg)
			if err != nil {
				t.Fatalf("Open failed: %v", err)
			}
			defer a.Close()

			doc, err := roster.ReadDocument(strings.NewReader(rosterJSON))
			if err != nil {
				t.Fatalf("ReadDocument failed: %v", err)
			}
			if err := a.ReplaceRoster(ctx, doc); err != nil {
				t.Fatalf("ReplaceRoster failed: %v", err)
			}

			resp, err := a.Payments.RecordPayment(ctx, connect.NewRequest(&paymentrpc.RecordPaymentRequest{
				PlayerID: "p1", Amount: "50", Date: "2024-01-10", Method: "cash",
			}))
			if err != nil {
				t.Fatalf("RecordPayment failed: %v", err)
			}
			if resp.Msg.Payment.SubgroupName != "A" {
				t.Errorf("expected subgroup name from roster, got %+v", resp.Msg.Payment)
			}
		})
	}
}

func TestReopenKeepsLedgerAndRoster(t *testing.T) {
	for _, backend := range []string{config.BackendSQLite, config.BackendFile} {
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			cfg := testConfig(t, backend)

			first, err := Open(ctx, cfg)
			if err != nil {
				t.Fatalf("Open failed: %v", err)
			}
			doc, _ := roster.ReadDocument(strings.NewReader(rosterJSON))
			if err := first.ReplaceRoster(ctx, doc); err != nil {
				t.Fatalf("ReplaceRoster failed: %v", err)
			}
			if _, err := first.Payments.RecordPayment(ctx, connect.NewRequest(&paymentrpc.RecordPaymentRequest{
				PlayerID: "p1", Amount: "12.34", Date: "2024-01-10", Method: "card",
			})); err != nil {
				t.Fatalf("RecordPayment failed: %v", err)
			}
			first.Close()

			second, err := Open(ctx, cfg)
			if err != nil {
				t.Fatalf("reopen failed: %v", err)
			}
			defer second.Close()

			records := second.Ledger.Records()
			if len(records) != 1 || records[0].Amount.StringFixed(2) != "12.34" {
				t.Errorf("ledger not restored: %+v", records)
			}
			if _, err := second.Roster.GetPlayer(ctx, "p1"); err != nil {
				t.Errorf("roster not restored: %v", err)
			}
		})
	}
}

func TestOpenWithRosterFile(t *testing.T) {
	cfg := testConfig(t, config.BackendMemory)
	cfg.Storage.RosterFile = filepath.Join(t.TempDir(), "roster.json")
	if err := os.WriteFile(cfg.Storage.RosterFile, []byte(rosterJSON), 0644); err != nil {
		t.Fatalf("failed to write roster: %v", err)
	}

	a, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer a.Close()

	groups, err := a.Roster.ListGroups(context.Background())
	if err != nil || len(groups) != 1 || groups[0].Name != "U12" {
		t.Errorf("ListGroups = %+v, %v", groups, err)
	}
}

func TestOpenCorruptLedger(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, config.BackendFile)

	first, err := Open(ctx, cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	first.Close()
	if err := os.WriteFile(filepath.Join(cfg.Storage.Dir, "paymentHistory.json"), []byte("[{"), 0644); err != nil {
		t.Fatalf("failed to corrupt ledger: %v", err)
	}

	a, err := Open(ctx, cfg)
	if err != nil {
		t.Fatalf("a corrupt ledger must not stop startup: %v", err)
	}
	defer a.Close()
	if !errors.Is(a.LoadErr, recordstore.ErrCorruptState) {
		t.Errorf("LoadErr = %v, want ErrCorruptState", a.LoadErr)
	}
	if !a.Ledger.Corrupt() || len(a.Ledger.Records()) != 0 {
		t.Error("expected an empty ledger flagged corrupt")
	}
}
