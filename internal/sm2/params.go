package sm2

// Params holds the tunable bounds of the scheduler.
type Params struct {
	MinEaseFactor float64
	MaxEaseFactor float64

	// Intervals, in days, after the first and second consecutive recall.
	FirstInterval  int
	SecondInterval int

	// MaxInterval caps every interval, in days.
	MaxInterval int
}

// DefaultMaxInterval is the longest interval a card can be given, about a
// century.
const DefaultMaxInterval = 36500

// DefaultParams returns the SM-2 defaults. The easiness factor is capped at
// 3.0; use NewParams with 2.5 for the tighter bound from the SM-2 paper.
func DefaultParams() *Params {
	return &Params{
		MinEaseFactor:  1.3,
		MaxEaseFactor:  3.0,
		FirstInterval:  1,
		SecondInterval: 6,
		MaxInterval:    DefaultMaxInterval,
	}
}

// NewParams returns the defaults with the easiness cap replaced. A
// non-positive or out of range cap keeps the default.
func NewParams(maxEase float64) *Params {
	p := DefaultParams()
	if maxEase >= p.MinEaseFactor && maxEase <= p.MaxEaseFactor {
		p.MaxEaseFactor = maxEase
	}
	return p
}
