// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/academypay/internal/models"
	"github.com/mmynk/academypay/internal/persistence"
	"github.com/mmynk/academypay/internal/roster"
)

// Store is a database backend that can hold both the payment ledger payload
// and a copy of the roster.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	persistence.Persistence
	persistence.Deleter
	roster.Directory

	// ReplaceRoster swaps the whole roster in one transaction.
	ReplaceRoster(ctx context.Context, groups []models.Group, subgroups []models.Subgroup, players []models.Player) error

	// Close releases any resources held by the store.
	Close() error
}
