package gamedata

import (
	"errors"

	"github.com/gdamore/tcell/v2"
)

// ErrUnknownClass is returned when a scenario or summon names a class that was not loaded.
var ErrUnknownClass = errors.New("unknown class")

// ClassDef defines a combatant class loaded from JSON.
type ClassDef struct {
	ID           string   `json:"id"`           // Unique identifier (e.g., "knight")
	Name         string   `json:"name"`         // Display name (e.g., "Knight")
	Symbol       string   `json:"symbol"`       // Single character for rendering (e.g., "K")
	Color        string   `json:"color"`        // Hex colour, overrides the team colour when set
	MaxHealth    int      `json:"maxHealth"`    // Health at spawn
	ActionPoints int      `json:"actionPoints"` // Action points replenished each turn
	Abilities    []string `json:"abilities"`    // Ability IDs in button order
}

// SymbolRune returns the symbol as a rune for rendering.
func (c *ClassDef) SymbolRune() rune {
	if len(c.Symbol) == 0 {
		return '?'
	}
	return []rune(c.Symbol)[0]
}

// TCellColor returns the class colour, or tcell.ColorDefault when unset or invalid.
func (c *ClassDef) TCellColor() tcell.Color {
	if c.Color == "" {
		return tcell.ColorDefault
	}
	color, err := ParseHexColor(c.Color)
	if err != nil {
		return tcell.ColorDefault
	}
	return color
}

// ClassesFile represents the structure of classes.json.
type ClassesFile struct {
	Classes []ClassDef `json:"classes"`
}

// LoadClasses loads class definitions from the embedded classes.json file.
func LoadClasses() ([]ClassDef, error) {
	file, err := Load[ClassesFile]("classes.json")
	if err != nil {
		return nil, err
	}
	return file.Classes, nil
}
