package roster

import (
	"context"
	"fmt"
	"sync"

	"github.com/mmynk/academypay/internal/models"
)

var _ Directory = (*Memory)(nil)

// Memory is an in-process roster snapshot. Replace swaps the whole snapshot
// at once so readers never see a half-updated roster.
type Memory struct {
	mu   sync.RWMutex
	snap *snapshot
}

type snapshot struct {
	groups     []models.Group
	groupByID  map[string]int
	subgroups  map[string]models.Subgroup
	players    []models.Player
	playerByID map[string]int
}

// NewMemory builds a roster from its three collections.
func NewMemory(groups []models.Group, subgroups []models.Subgroup, players []models.Player) (*Memory, error) {
	snap, err := buildSnapshot(groups, subgroups, players)
	if err != nil {
		return nil, err
	}
	return &Memory{snap: snap}, nil
}

// Replace installs a new roster snapshot.
func (m *Memory) Replace(groups []models.Group, subgroups []models.Subgroup, players []models.Player) error {
	snap, err := buildSnapshot(groups, subgroups, players)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.snap = snap
	m.mu.Unlock()
	return nil
}

func buildSnapshot(groups []models.Group, subgroups []models.Subgroup, players []models.Player) (*snapshot, error) {
	s := &snapshot{
		groups:     append([]models.Group(nil), groups...),
		groupByID:  make(map[string]int, len(groups)),
		subgroups:  make(map[string]models.Subgroup, len(subgroups)),
		players:    append([]models.Player(nil), players...),
		playerByID: make(map[string]int, len(players)),
	}
	for i, g := range s.groups {
		if _, dup := s.groupByID[g.ID]; dup {
			return nil, fmt.Errorf("duplicate group id %q", g.ID)
		}
		s.groupByID[g.ID] = i
	}
	for _, sg := range subgroups {
		if _, ok := s.groupByID[sg.GroupID]; !ok {
			return nil, fmt.Errorf("subgroup %q references unknown group %q", sg.ID, sg.GroupID)
		}
		if _, dup := s.subgroups[sg.ID]; dup {
			return nil, fmt.Errorf("duplicate subgroup id %q", sg.ID)
		}
		s.subgroups[sg.ID] = sg
	}
	for i, p := range s.players {
		if _, dup := s.playerByID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate player id %q", p.ID)
		}
		s.playerByID[p.ID] = i
	}
	return s, nil
}

func (m *Memory) current() *snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snap
}

// ListPlayers implements Index.
func (m *Memory) ListPlayers(ctx context.Context, groupID, subgroupID string) ([]models.Player, error) {
	s := m.current()
	if groupID == "" {
		return append([]models.Player(nil), s.players...), nil
	}
	var out []models.Player
	for _, p := range s.players {
		if p.GroupID != groupID {
			continue
		}
		if subgroupID != "" && p.SubgroupID != subgroupID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// ListSubgroups implements Index.
func (m *Memory) ListSubgroups(ctx context.Context, groupID string) ([]models.Subgroup, error) {
	s := m.current()
	i, ok := s.groupByID[groupID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
	}
	var out []models.Subgroup
	for _, id := range s.groups[i].SubgroupIDs {
		if sg, ok := s.subgroups[id]; ok {
			out = append(out, sg)
		}
	}
	return out, nil
}

// GetPlayer implements Directory.
func (m *Memory) GetPlayer(ctx context.Context, id string) (models.Player, error) {
	s := m.current()
	i, ok := s.playerByID[id]
	if !ok {
		return models.Player{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
	}
	return s.players[i], nil
}

// GetGroup implements Directory.
func (m *Memory) GetGroup(ctx context.Context, id string) (models.Group, error) {
	s := m.current()
	i, ok := s.groupByID[id]
	if !ok {
		return models.Group{}, fmt.Errorf("%w: %s", ErrGroupNotFound, id)
	}
	return s.groups[i], nil
}

// GetSubgroup implements Directory.
func (m *Memory) GetSubgroup(ctx context.Context, id string) (models.Subgroup, error) {
	s := m.current()
	sg, ok := s.subgroups[id]
	if !ok {
		return models.Subgroup{}, fmt.Errorf("%w: %s", ErrSubgroupNotFound, id)
	}
	return sg, nil
}

// ListGroups implements Directory.
func (m *Memory) ListGroups(ctx context.Context) ([]models.Group, error) {
	return append([]models.Group(nil), m.current().groups...), nil
}
