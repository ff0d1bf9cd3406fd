package gamedata

import (
	"errors"
	"fmt"
)

// ClassRegistry holds loaded class definitions.
type ClassRegistry struct {
	classes map[string]*ClassDef
	all     []ClassDef
}

// NewClassRegistry creates a registry from loaded class definitions.
func NewClassRegistry(classes []ClassDef) *ClassRegistry {
	registry := &ClassRegistry{
		classes: make(map[string]*ClassDef),
		all:     classes,
	}
	for i := range classes {
		registry.classes[classes[i].ID] = &classes[i]
	}
	return registry
}

// LoadClassRegistry loads and creates a registry from the embedded classes.json.
func LoadClassRegistry() (*ClassRegistry, error) {
	classes, err := LoadClasses()
	if err != nil {
		return nil, err
	}
	if len(classes) == 0 {
		return nil, errors.New("no classes loaded from classes.json")
	}
	return NewClassRegistry(classes), nil
}

// MustLoadClassRegistry loads a registry, panicking on error.
func MustLoadClassRegistry() *ClassRegistry {
	registry, err := LoadClassRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// GetByID returns the class definition with the given ID, or nil if not found.
func (r *ClassRegistry) GetByID(id string) *ClassDef {
	return r.classes[id]
}

// Lookup returns the class definition with the given ID or ErrUnknownClass.
func (r *ClassRegistry) Lookup(id string) (*ClassDef, error) {
	if c := r.classes[id]; c != nil {
		return c, nil
	}
	return nil, fmt.Errorf("class %q: %w", id, ErrUnknownClass)
}

// All returns all class definitions.
func (r *ClassRegistry) All() []ClassDef {
	return r.all
}

// Count returns the number of classes in the registry.
func (r *ClassRegistry) Count() int {
	return len(r.all)
}

// =============================================================================
// AbilityRegistry
// =============================================================================

// AbilityRegistry holds loaded ability definitions and provides lookup utilities.
type AbilityRegistry struct {
	abilities map[string]*AbilityDef
	all       []AbilityDef
}

// NewAbilityRegistry creates a registry from loaded ability definitions.
func NewAbilityRegistry(abilities []AbilityDef) *AbilityRegistry {
	registry := &AbilityRegistry{
		abilities: make(map[string]*AbilityDef),
		all:       abilities,
	}
	for i := range abilities {
		registry.abilities[abilities[i].ID] = &abilities[i]
	}
	return registry
}

// LoadAbilityRegistry loads and creates a registry from the embedded abilities.json.
func LoadAbilityRegistry() (*AbilityRegistry, error) {
	abilities, err := LoadAbilities()
	if err != nil {
		return nil, err
	}
	if len(abilities) == 0 {
		return nil, errors.New("no abilities loaded from abilities.json")
	}
	return NewAbilityRegistry(abilities), nil
}

// MustLoadAbilityRegistry loads a registry, panicking on error.
func MustLoadAbilityRegistry() *AbilityRegistry {
	registry, err := LoadAbilityRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// GetByID returns the ability definition with the given ID, or nil if not found.
func (r *AbilityRegistry) GetByID(id string) *AbilityDef {
	return r.abilities[id]
}

// GetMultiple returns ability definitions for a list of IDs.
// Missing IDs are silently skipped.
func (r *AbilityRegistry) GetMultiple(ids []string) []*AbilityDef {
	result := make([]*AbilityDef, 0, len(ids))
	for _, id := range ids {
		if ability := r.abilities[id]; ability != nil {
			result = append(result, ability)
		}
	}
	return result
}

// Resolve returns ability definitions for a list of IDs in order.
// Unlike GetMultiple, a missing ID is an error.
func (r *AbilityRegistry) Resolve(ids []string) ([]*AbilityDef, error) {
	result := make([]*AbilityDef, 0, len(ids))
	for _, id := range ids {
		ability := r.abilities[id]
		if ability == nil {
			return nil, fmt.Errorf("ability %q: %w", id, ErrUnknownAbility)
		}
		result = append(result, ability)
	}
	return result, nil
}

// All returns all ability definitions.
func (r *AbilityRegistry) All() []AbilityDef {
	return r.all
}

// Count returns the number of abilities in the registry.
func (r *AbilityRegistry) Count() int {
	return len(r.all)
}
