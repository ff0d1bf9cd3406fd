package gamedata

import (
	"errors"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"
)

// ErrInvalidScenario is returned when a scenario file fails validation.
var ErrInvalidScenario = errors.New("invalid scenario")

// Team sides as written in scenario files.
const (
	SideWest = "west"
	SideEast = "east"
)

// Scenario describes a battlefield and the two teams deployed onto it.
type Scenario struct {
	Name   string     `yaml:"name"`
	Width  int        `yaml:"width"`
	Height int        `yaml:"height"`
	Teams  []TeamDef `yaml:"teams"`
}

// TeamDef is one team in a scenario.
type TeamDef struct {
	Name   string     `yaml:"name"`
	Side   string     `yaml:"side"`  // west or east
	Color  string     `yaml:"color"` // Hex colour for the team's units
	Roster []RosterEntry `yaml:"roster"`
}

// RosterEntry is one roster entry. At overrides the team's deployment rule.
type RosterEntry struct {
	Name  string    `yaml:"name"`
	Class string    `yaml:"class"`
	At    *Position `yaml:"at,omitempty"`
}

// Position is an explicit grid coordinate in a scenario file.
type Position struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// ParseScenario decodes and validates scenario YAML.
func ParseScenario(content []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(content, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario YAML: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadScenario reads and parses a scenario from fsys.
func LoadScenario(fsys fs.FS, path string) (*Scenario, error) {
	content, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario %s: %w", path, err)
	}
	s, err := ParseScenario(content)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return s, nil
}

// Validate checks grid size, team count and sides, and that every roster is non-empty.
// Class names are checked later against a ClassRegistry.
func (s *Scenario) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: grid size %dx%d", ErrInvalidScenario, s.Width, s.Height)
	}
	if len(s.Teams) != 2 {
		return fmt.Errorf("%w: want 2 teams, got %d", ErrInvalidScenario, len(s.Teams))
	}
	if s.Teams[0].Side == s.Teams[1].Side {
		return fmt.Errorf("%w: both teams on side %q", ErrInvalidScenario, s.Teams[0].Side)
	}
	for _, t := range s.Teams {
		if t.Side != SideWest && t.Side != SideEast {
			return fmt.Errorf("%w: team %q has unknown side %q", ErrInvalidScenario, t.Name, t.Side)
		}
		if len(t.Roster) == 0 {
			return fmt.Errorf("%w: team %q has an empty roster", ErrInvalidScenario, t.Name)
		}
		for _, u := range t.Roster {
			if u.Class == "" {
				return fmt.Errorf("%w: unit %q in team %q has no class", ErrInvalidScenario, u.Name, t.Name)
			}
			if u.At != nil && (u.At.X < 0 || u.At.X >= s.Width || u.At.Y < 0 || u.At.Y >= s.Height) {
				return fmt.Errorf("%w: unit %q placed outside the grid at (%d,%d)", ErrInvalidScenario, u.Name, u.At.X, u.At.Y)
			}
		}
	}
	return nil
}

// UnitCount returns the total number of units across both teams.
func (s *Scenario) UnitCount() int {
	n := 0
	for _, t := range s.Teams {
		n += len(t.Roster)
	}
	return n
}
