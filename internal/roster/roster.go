// Package roster provides read-only access to the academy roster
// (groups, subgroups and players) owned by roster management.
package roster

import (
	"context"
	"errors"

	"github.com/mmynk/academypay/internal/models"
)

var (
	ErrPlayerNotFound   = errors.New("player not found")
	ErrGroupNotFound    = errors.New("group not found")
	ErrSubgroupNotFound = errors.New("subgroup not found")
)

// Index is the lookup contract the reconciliation core needs from the roster.
// It never writes to the roster.
type Index interface {
	// ListPlayers returns players in roster order. An empty groupID returns
	// every player; subgroupID is only honoured together with groupID.
	ListPlayers(ctx context.Context, groupID, subgroupID string) ([]models.Player, error)

	// ListSubgroups returns the subgroups of groupID in the group's display order.
	ListSubgroups(ctx context.Context, groupID string) ([]models.Subgroup, error)
}

// Directory adds the point lookups used by payment entry and history titles.
type Directory interface {
	Index

	// GetPlayer returns ErrPlayerNotFound when id is unknown.
	GetPlayer(ctx context.Context, id string) (models.Player, error)

	// GetGroup returns ErrGroupNotFound when id is unknown.
	GetGroup(ctx context.Context, id string) (models.Group, error)

	// GetSubgroup returns ErrSubgroupNotFound when id is unknown.
	GetSubgroup(ctx context.Context, id string) (models.Subgroup, error)

	// ListGroups returns every group.
	ListGroups(ctx context.Context) ([]models.Group, error)
}
