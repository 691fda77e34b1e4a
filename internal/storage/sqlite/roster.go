package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/academypay/internal/models"
	"github.com/mmynk/academypay/internal/roster"
)

// ReplaceRoster swaps the stored roster for the given collections.
// Players without an ID are assigned one.
func (s *SQLiteStore) ReplaceRoster(ctx context.Context, groups []models.Group, subgroups []models.Subgroup, players []models.Player) error {
	players = append([]models.Player(nil), players...)
	for i := range players {
		if players[i].ID == "" {
			players[i].ID = uuid.New().String()
		}
	}
	// Same integrity rules as the in-memory roster.
	if _, err := roster.NewMemory(groups, subgroups, players); err != nil {
		return fmt.Errorf("invalid roster: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{"DELETE FROM players", "DELETE FROM subgroups", "DELETE FROM groups"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to clear roster: %w", err)
		}
	}

	createdAt := s.now().Unix()
	position := make(map[string]int, len(subgroups))
	for i, g := range groups {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO groups (id, name, position, created_at) VALUES (?, ?, ?, ?)",
			g.ID, g.Name, i, createdAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group: %w", classifyError(err))
		}
		for j, id := range g.SubgroupIDs {
			position[id] = j
		}
	}

	for i, sg := range subgroups {
		pos, ok := position[sg.ID]
		if !ok {
			pos = len(subgroups) + i
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO subgroups (id, group_id, name, position) VALUES (?, ?, ?, ?)",
			sg.ID, sg.GroupID, sg.Name, pos,
		)
		if err != nil {
			return fmt.Errorf("failed to insert subgroup: %w", classifyError(err))
		}
	}

	for i, p := range players {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO players (id, name, email, phone, club, group_id, subgroup_id, position)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.Name, p.Email, p.Phone, p.Club, nullString(p.GroupID), nullString(p.SubgroupID), i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert player: %w", classifyError(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", classifyError(err))
	}
	return nil
}

const playerColumns = "id, name, email, phone, club, group_id, subgroup_id"

// ListPlayers implements roster.Index.
func (s *SQLiteStore) ListPlayers(ctx context.Context, groupID, subgroupID string) ([]models.Player, error) {
	query := "SELECT " + playerColumns + " FROM players"
	var args []any
	switch {
	case groupID == "":
	case subgroupID == "":
		query += " WHERE group_id = ?"
		args = append(args, groupID)
	default:
		query += " WHERE group_id = ? AND subgroup_id = ?"
		args = append(args, groupID, subgroupID)
	}
	query += " ORDER BY position"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	var players []models.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate players: %w", err)
	}
	return players, nil
}

// ListSubgroups implements roster.Index.
func (s *SQLiteStore) ListSubgroups(ctx context.Context, groupID string) ([]models.Subgroup, error) {
	if _, err := s.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, group_id FROM subgroups WHERE group_id = ? ORDER BY position",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list subgroups: %w", err)
	}
	defer rows.Close()

	var subgroups []models.Subgroup
	for rows.Next() {
		var sg models.Subgroup
		if err := rows.Scan(&sg.ID, &sg.Name, &sg.GroupID); err != nil {
			return nil, fmt.Errorf("failed to scan subgroup: %w", err)
		}
		subgroups = append(subgroups, sg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate subgroups: %w", err)
	}
	return subgroups, nil
}

// GetPlayer implements roster.Directory.
func (s *SQLiteStore) GetPlayer(ctx context.Context, id string) (models.Player, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+playerColumns+" FROM players WHERE id = ?", id)
	p, err := scanPlayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Player{}, fmt.Errorf("%w: %s", roster.ErrPlayerNotFound, id)
	}
	return p, err
}

// GetGroup implements roster.Directory.
func (s *SQLiteStore) GetGroup(ctx context.Context, id string) (models.Group, error) {
	g := models.Group{}
	err := s.db.QueryRowContext(ctx, "SELECT id, name FROM groups WHERE id = ?", id).Scan(&g.ID, &g.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Group{}, fmt.Errorf("%w: %s", roster.ErrGroupNotFound, id)
	}
	if err != nil {
		return models.Group{}, fmt.Errorf("failed to get group: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, "SELECT id FROM subgroups WHERE group_id = ? ORDER BY position", id)
	if err != nil {
		return models.Group{}, fmt.Errorf("failed to get subgroup ids: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var sgID string
		if err := rows.Scan(&sgID); err != nil {
			return models.Group{}, fmt.Errorf("failed to scan subgroup id: %w", err)
		}
		g.SubgroupIDs = append(g.SubgroupIDs, sgID)
	}
	if err := rows.Err(); err != nil {
		return models.Group{}, fmt.Errorf("failed to iterate subgroup ids: %w", err)
	}
	return g, nil
}

// GetSubgroup implements roster.Directory.
func (s *SQLiteStore) GetSubgroup(ctx context.Context, id string) (models.Subgroup, error) {
	var sg models.Subgroup
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, group_id FROM subgroups WHERE id = ?", id,
	).Scan(&sg.ID, &sg.Name, &sg.GroupID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Subgroup{}, fmt.Errorf("%w: %s", roster.ErrSubgroupNotFound, id)
	}
	if err != nil {
		return models.Subgroup{}, fmt.Errorf("failed to get subgroup: %w", err)
	}
	return sg, nil
}

// ListGroups implements roster.Directory.
func (s *SQLiteStore) ListGroups(ctx context.Context) ([]models.Group, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM groups ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []models.Group
	index := make(map[string]int)
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		index[g.ID] = len(groups)
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	sgRows, err := s.db.QueryContext(ctx, "SELECT id, group_id FROM subgroups ORDER BY group_id, position")
	if err != nil {
		return nil, fmt.Errorf("failed to list subgroup ids: %w", err)
	}
	defer sgRows.Close()
	for sgRows.Next() {
		var id, groupID string
		if err := sgRows.Scan(&id, &groupID); err != nil {
			return nil, fmt.Errorf("failed to scan subgroup id: %w", err)
		}
		if i, ok := index[groupID]; ok {
			groups[i].SubgroupIDs = append(groups[i].SubgroupIDs, id)
		}
	}
	if err := sgRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate subgroup ids: %w", err)
	}
	return groups, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row scanner) (models.Player, error) {
	var (
		p                   models.Player
		groupID, subgroupID sql.NullString
	)
	err := row.Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &p.Club, &groupID, &subgroupID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Player{}, err
	}
	if err != nil {
		return models.Player{}, fmt.Errorf("failed to scan player: %w", err)
	}
	p.GroupID = groupID.String
	p.SubgroupID = subgroupID.String
	return p, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
