package models

// Player represents an academy player as seen by the ledger.
// The roster collaborator owns the lifecycle; the ledger treats a Player
// as immutable input for the duration of a reconciliation.
type Player struct {
	// ID is the unique identifier for the player.
	ID string

	// Name is the display name shown in lists and copied onto payments.
	Name string

	// Email is the player's contact address.
	Email string

	// Phone is an optional contact number, searchable from the player list.
	Phone string

	// Club is the optional club the player is registered with.
	Club string

	// GroupID is the training group the player belongs to.
	GroupID string

	// SubgroupID is the optional subgroup inside GroupID.
	SubgroupID string
}

// Group represents a training group.
type Group struct {
	// ID is the unique identifier for the group.
	ID string

	// Name is the display name of the group (e.g., "U12", "Seniors").
	Name string

	// SubgroupIDs lists the group's subgroups in display order.
	SubgroupIDs []string
}

// Subgroup represents a subdivision of a group.
type Subgroup struct {
	ID      string
	Name    string
	GroupID string
}
