// Package filter holds the per-type allow-lists and the dense id-indexed
// bitmaps the spatial filter reads every refresh.
package filter

import (
	"sort"

	"github.com/zyedidia/generic/mapset"
)

// AllowList is a set of content type names.
type AllowList struct {
	names mapset.Set[string]
}

// NewAllowList returns an allow-list containing names.
func NewAllowList(names ...string) *AllowList {
	a := &AllowList{names: mapset.New[string]()}
	for _, n := range names {
		a.names.Put(n)
	}
	return a
}

// Enable adds name.
func (a *AllowList) Enable(name string) { a.names.Put(name) }

// Disable removes name.
func (a *AllowList) Disable(name string) { a.names.Remove(name) }

// Toggle flips name and returns its new state.
func (a *AllowList) Toggle(name string) bool {
	if a.names.Has(name) {
		a.names.Remove(name)
		return false
	}
	a.names.Put(name)
	return true
}

// IsEnabled reports whether name is allowed.
func (a *AllowList) IsEnabled(name string) bool { return a.names.Has(name) }

// Len is the number of allowed names.
func (a *AllowList) Len() int { return a.names.Size() }

// Reset replaces the contents with names.
func (a *AllowList) Reset(names ...string) {
	a.names = mapset.New[string]()
	for _, n := range names {
		a.names.Put(n)
	}
}

// All returns the allowed names, sorted.
func (a *AllowList) All() []string {
	out := make([]string, 0, a.names.Size())
	a.names.Each(func(n string) {
		out = append(out, n)
	})
	sort.Strings(out)
	return out
}
