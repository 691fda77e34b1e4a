package roster

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/mmynk/academypay/internal/models"
)

// Document is the export of a roster, as produced by roster management.
// It is read from JSON or YAML.
//
//	{"groups": [{"id": "u12", "name": "U12", "subgroups": [{"id": "u12-a", "name": "A"}]}],
//	 "players": [{"id": "p1", "name": "Ana", "email": "ana@example.com", "groupId": "u12", "subgroupId": "u12-a"}]}
type Document struct {
	Groups  []DocumentGroup  `json:"groups" yaml:"groups"`
	Players []DocumentPlayer `json:"players" yaml:"players"`
}

type DocumentGroup struct {
	ID        string             `json:"id" yaml:"id"`
	Name      string             `json:"name" yaml:"name"`
	Subgroups []DocumentSubgroup `json:"subgroups" yaml:"subgroups"`
}

type DocumentSubgroup struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

type DocumentPlayer struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Email      string `json:"email" yaml:"email"`
	Phone      string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Club       string `json:"club,omitempty" yaml:"club,omitempty"`
	GroupID    string `json:"groupId" yaml:"groupId"`
	SubgroupID string `json:"subgroupId,omitempty" yaml:"subgroupId,omitempty"`
}

// ReadDocument decodes a roster export.
func ReadDocument(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse roster: %w", err)
	}
	return &doc, nil
}

// ReadDocumentYAML decodes a roster export written as YAML.
func ReadDocumentYAML(r io.Reader) (*Document, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse roster: %w", err)
	}
	return &doc, nil
}

// ReadDocumentFile reads a roster export, picking YAML for .yaml and .yml
// files and JSON otherwise.
func ReadDocumentFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open roster: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ReadDocumentYAML(f)
	default:
		return ReadDocument(f)
	}
}

// Models flattens the document into roster models.
func (d *Document) Models() ([]models.Group, []models.Subgroup, []models.Player) {
	var (
		groups    []models.Group
		subgroups []models.Subgroup
		players   []models.Player
	)
	for _, g := range d.Groups {
		group := models.Group{ID: g.ID, Name: g.Name}
		for _, sg := range g.Subgroups {
			group.SubgroupIDs = append(group.SubgroupIDs, sg.ID)
			subgroups = append(subgroups, models.Subgroup{ID: sg.ID, Name: sg.Name, GroupID: g.ID})
		}
		groups = append(groups, group)
	}
	for _, p := range d.Players {
		players = append(players, models.Player{
			ID:         p.ID,
			Name:       p.Name,
			Email:      p.Email,
			Phone:      p.Phone,
			Club:       p.Club,
			GroupID:    p.GroupID,
			SubgroupID: p.SubgroupID,
		})
	}
	return groups, subgroups, players
}

// AssignIDs gives every group, subgroup and player without an id a new one.
func (d *Document) AssignIDs() {
	for i := range d.Groups {
		if d.Groups[i].ID == "" {
			d.Groups[i].ID = uuid.NewString()
		}
		for j := range d.Groups[i].Subgroups {
			if d.Groups[i].Subgroups[j].ID == "" {
				d.Groups[i].Subgroups[j].ID = uuid.NewString()
			}
		}
	}
	for i := range d.Players {
		if d.Players[i].ID == "" {
			d.Players[i].ID = uuid.NewString()
		}
	}
}

// MemoryFromDocument builds an in-memory roster from an export.
func MemoryFromDocument(d *Document) (*Memory, error) {
	return NewMemory(d.Models())
}
