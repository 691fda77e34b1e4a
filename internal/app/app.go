// Package app wires configuration, storage, the ledger and the services into
// one running instance. Both the server and payctl start through Open.
package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/academypay/internal/config"
	"github.com/mmynk/academypay/internal/persistence"
	"github.com/mmynk/academypay/internal/recordstore"
	"github.com/mmynk/academypay/internal/roster"
	"github.com/mmynk/academypay/internal/service"
	"github.com/mmynk/academypay/internal/storage/sqlite"
)

// RosterKey is where the file and memory backends keep the roster export.
const RosterKey = "roster"

// App is a loaded instance.
type App struct {
	Config   *config.Config
	Ledger   *recordstore.Store
	Roster   roster.Directory
	Payments *service.PaymentService
	Rosters  *service.RosterService

	// LoadErr is the error from the initial ledger load, if any. A corrupt
	// ledger still starts; callers decide whether to report or reset.
	LoadErr error

	replaceRoster func(ctx context.Context, doc *roster.Document) error
	close         func() error
}

// Open builds the storage backend named in cfg, loads the ledger and creates
// the services.
func Open(ctx context.Context, cfg *config.Config) (*App, error) {
	quota, err := cfg.Storage.QuotaBytes()
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, close: func() error { return nil }}
	var medium persistence.Persistence

	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		store, err := sqlite.New(cfg.Storage.Path, sqlite.WithQuota(quota))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		medium = store
		a.Roster = store
		a.close = store.Close
		a.replaceRoster = func(ctx context.Context, doc *roster.Document) error {
			groups, subgroups, players := doc.Models()
			return store.ReplaceRoster(ctx, groups, subgroups, players)
		}
		slog.Info("Storage initialized", "backend", cfg.Storage.Backend, "database", cfg.Storage.Path)

	case config.BackendFile, config.BackendMemory:
		if cfg.Storage.Backend == config.BackendFile {
			f, err := persistence.NewFile(cfg.Storage.Dir, quota)
			if err != nil {
				return nil, fmt.Errorf("failed to initialize storage: %w", err)
			}
			medium = f
		} else {
			medium = persistence.NewMemory(int(quota))
		}
		mem, err := loadMemoryRoster(ctx, medium)
		if err != nil {
			return nil, err
		}
		a.Roster = mem
		a.replaceRoster = func(ctx context.Context, doc *roster.Document) error {
			if err := mem.Replace(doc.Models()); err != nil {
				return fmt.Errorf("invalid roster: %w", err)
			}
			data, err := json.Marshal(doc)
			if err != nil {
				return fmt.Errorf("failed to encode roster: %w", err)
			}
			return medium.Write(ctx, RosterKey, data)
		}
		slog.Info("Storage initialized", "backend", cfg.Storage.Backend, "dir", cfg.Storage.Dir)

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	if cfg.Storage.RosterFile != "" {
		if err := a.importRosterFile(ctx, cfg.Storage.RosterFile); err != nil {
			a.close()
			return nil, err
		}
	}

	a.Ledger = recordstore.New(medium, recordstore.WithKey(cfg.Storage.Key))
	if _, err := a.Ledger.Load(ctx); err != nil {
		if !errors.Is(err, recordstore.ErrCorruptState) {
			a.close()
			return nil, err
		}
		slog.Warn("Payment history was corrupt and has been set aside", "error", err)
		a.LoadErr = err
	}

	a.Payments = service.NewPaymentService(a.Ledger, a.Roster)
	a.Rosters = service.NewRosterService(a.Roster)
	return a, nil
}

// ReplaceRoster installs doc as the roster. Entries without an id get one.
func (a *App) ReplaceRoster(ctx context.Context, doc *roster.Document) error {
	doc.AssignIDs()
	if err := a.replaceRoster(ctx, doc); err != nil {
		return err
	}
	slog.Info("Roster replaced", "groups", len(doc.Groups), "players", len(doc.Players))
	return nil
}

func (a *App) importRosterFile(ctx context.Context, path string) error {
	doc, err := roster.ReadDocumentFile(path)
	if err != nil {
		return err
	}
	return a.ReplaceRoster(ctx, doc)
}

// Close releases the storage backend.
func (a *App) Close() error {
	return a.close()
}

func loadMemoryRoster(ctx context.Context, medium persistence.Persistence) (*roster.Memory, error) {
	data, err := medium.Read(ctx, RosterKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}
	if len(data) == 0 {
		return roster.NewMemory(nil, nil, nil)
	}
	doc, err := roster.ReadDocument(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return roster.MemoryFromDocument(doc)
}
