package filter

import "github.com/Garsondee/Better-Minimap/internal/content"

// Bitmap maps a content id to its enabled flag. A nil Bitmap means "not
// built yet".
type Bitmap []bool

// Enabled reports the flag for id. Ids outside the bitmap are unknown to
// the filter and read as disabled.
func (b Bitmap) Enabled(id int) bool {
	if id < 0 || id >= len(b) {
		return false
	}
	return b[id]
}

// UnitBitmap builds a bitmap over every unit type in reg.
func UnitBitmap(reg *content.Registry, allow *AllowList) Bitmap {
	units := reg.Units()
	bits := make(Bitmap, len(units))
	for _, t := range units {
		bits[t.ID] = allow.IsEnabled(t.Name)
	}
	return bits
}

// BlockBitmap builds a bitmap over every block type in reg.
func BlockBitmap(reg *content.Registry, allow *AllowList) Bitmap {
	blocks := reg.Blocks()
	bits := make(Bitmap, len(blocks))
	for _, b := range blocks {
		bits[b.ID] = allow.IsEnabled(b.Name)
	}
	return bits
}

// Cache owns the unit and block bitmaps. Bitmaps are dropped by Invalidate
// and rebuilt lazily; they are also rebuilt when the registry has grown or
// shrunk since they were built.
type Cache struct {
	reg    *content.Registry
	units  *AllowList
	blocks *AllowList

	unitBits  Bitmap
	blockBits Bitmap

	// Rebuilds counts bitmap builds, for diagnostics.
	Rebuilds int
}

// NewCache returns a cache over reg reading the given allow-lists.
func NewCache(reg *content.Registry, units, blocks *AllowList) *Cache {
	return &Cache{reg: reg, units: units, blocks: blocks}
}

// InvalidateUnits drops the unit bitmap.
func (c *Cache) InvalidateUnits() { c.unitBits = nil }

// InvalidateBlocks drops the block bitmap.
func (c *Cache) InvalidateBlocks() { c.blockBits = nil }

// Units returns a current unit bitmap, rebuilding it when needed.
func (c *Cache) Units() Bitmap {
	if c.unitBits == nil || len(c.unitBits) != c.reg.UnitCount() {
		c.unitBits = UnitBitmap(c.reg, c.units)
		c.Rebuilds++
	}
	return c.unitBits
}

// Blocks returns a current block bitmap, rebuilding it when needed.
func (c *Cache) Blocks() Bitmap {
	if c.blockBits == nil || len(c.blockBits) != c.reg.BlockCount() {
		c.blockBits = BlockBitmap(c.reg, c.blocks)
		c.Rebuilds++
	}
	return c.blockBits
}
