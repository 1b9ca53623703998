package overlay

// Interval slots used by the Feature.
const (
	slotSettings = iota
	slotAttach
	slotVisible
	slotCount
)

// Cadences in seconds.
const (
	SettingsPeriod = 0.5
	AttachPeriod   = 1.0
	VisiblePeriod  = 0.25
)

// Interval is a frame clock with checked-and-reset slots. A slot that has
// never fired fires on its first check.
type Interval struct {
	now   float64
	last  []float64
	fired []bool
}

// NewInterval returns a clock with n slots.
func NewInterval(n int) *Interval {
	return &Interval{last: make([]float64, n), fired: make([]bool, n)}
}

// Tick advances the clock by dt seconds.
func (iv *Interval) Tick(dt float64) {
	if dt > 0 {
		iv.now += dt
	}
}

// Now is the accumulated clock time.
func (iv *Interval) Now() float64 { return iv.now }

// Check reports whether period seconds have passed since slot last fired,
// and if so restarts the slot.
func (iv *Interval) Check(slot int, period float64) bool {
	if slot < 0 || slot >= len(iv.last) {
		return false
	}
	if iv.fired[slot] && iv.now-iv.last[slot] < period {
		return false
	}
	iv.fired[slot] = true
	iv.last[slot] = iv.now
	return true
}

// Reset makes slot fire on its next check.
func (iv *Interval) Reset(slot int) {
	if slot >= 0 && slot < len(iv.fired) {
		iv.fired[slot] = false
	}
}
