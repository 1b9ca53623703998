// Package content is the registry of unit and block types. Every type has a
// stable integer id equal to its registration order, which is what the
// overlay's filter bitmaps are indexed by.
package content

import (
	"fmt"
	"image"
	"strings"
)

// UnitType describes a kind of mobile unit.
type UnitType struct {
	ID          int
	Name        string // internal name, used in allow-lists
	DisplayName string
	Icon        image.Image
}

// BlockType describes a kind of placeable block.
type BlockType struct {
	ID          int
	Name        string
	DisplayName string
	Size        int  // footprint edge in tiles
	HasBuilding bool // false for plain terrain blocks that never become buildings
	Icon        image.Image
}

// Registry enumerates all unit and block types. Types may be added while
// a session is running (content reload); ids are never reused.
type Registry struct {
	units      []*UnitType
	blocks     []*BlockType
	unitByName map[string]*UnitType
	blockByNm  map[string]*BlockType
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		unitByName: make(map[string]*UnitType),
		blockByNm:  make(map[string]*BlockType),
	}
}

// AddUnit registers a unit type and returns it. Names must be unique.
func (r *Registry) AddUnit(name, displayName string, icon image.Image) (*UnitType, error) {
	if _, ok := r.unitByName[name]; ok {
		return nil, fmt.Errorf("unit type %q already registered", name)
	}
	t := &UnitType{ID: len(r.units), Name: name, DisplayName: displayName, Icon: icon}
	r.units = append(r.units, t)
	r.unitByName[name] = t
	return t, nil
}

// AddBlock registers a block type and returns it. Names must be unique.
func (r *Registry) AddBlock(name, displayName string, size int, hasBuilding bool, icon image.Image) (*BlockType, error) {
	if _, ok := r.blockByNm[name]; ok {
		return nil, fmt.Errorf("block type %q already registered", name)
	}
	if size < 1 {
		size = 1
	}
	b := &BlockType{ID: len(r.blocks), Name: name, DisplayName: displayName, Size: size, HasBuilding: hasBuilding, Icon: icon}
	r.blocks = append(r.blocks, b)
	r.blockByNm[name] = b
	return b, nil
}

// Units returns all unit types in id order. The slice must not be modified.
func (r *Registry) Units() []*UnitType { return r.units }

// Blocks returns all block types in id order. The slice must not be modified.
func (r *Registry) Blocks() []*BlockType { return r.blocks }

// UnitCount is the number of registered unit types.
func (r *Registry) UnitCount() int { return len(r.units) }

// BlockCount is the number of registered block types.
func (r *Registry) BlockCount() int { return len(r.blocks) }

// Unit looks up a unit type by name.
func (r *Registry) Unit(name string) (*UnitType, bool) {
	t, ok := r.unitByName[name]
	return t, ok
}

// Block looks up a block type by name.
func (r *Registry) Block(name string) (*BlockType, bool) {
	b, ok := r.blockByNm[name]
	return b, ok
}

// UnitNames returns the names of all unit types in id order.
func (r *Registry) UnitNames() []string {
	out := make([]string, len(r.units))
	for i, t := range r.units {
		out[i] = t.Name
	}
	return out
}

// BuildingBlockNames returns the names of block types that have buildings.
func (r *Registry) BuildingBlockNames() []string {
	var out []string
	for _, b := range r.blocks {
		if b.HasBuilding {
			out = append(out, b.Name)
		}
	}
	return out
}

// Matches reports whether name or displayName contains query,
// case-insensitively. An empty query matches everything.
func Matches(query, name, displayName string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), q) ||
		strings.Contains(strings.ToLower(displayName), q)
}
