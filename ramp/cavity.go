package ramp

// CavityKind distinguishes the hardware generations the controller must
// treat differently.
type CavityKind int

const (
	// Standard cavities have their gradient ramped by this software.
	Standard CavityKind = iota

	// FixedCoupler cavities ramp in firmware and are never ramped here.
	// Depending on configuration the controller may still write the target
	// directly before declaring itself unable.
	FixedCoupler
)

func (k CavityKind) String() string {
	switch k {
	case Standard:
		return "standard"
	case FixedCoupler:
		return "fixed-coupler"
	default:
		return "unknown"
	}
}

// A Cavity describes the fixed identity and health flags of one cavity.
// The descriptor never changes during an episode.
type Cavity struct {
	// Name identifies the cavity, e.g. "1L22-3".
	Name string

	// Kind selects the hardware generation.
	Kind CavityKind

	// Bypassed cavities skip the RF gate and the tuner checks and are
	// forced to their target in a single step.
	Bypassed bool

	// TunerBad marks a broken tuner. The cavity ramps like a bypassed one
	// and its tuner is never switched to automatic.
	TunerBad bool

	// FixedGradient cavities keep their gradient during the cold-start
	// drop.
	FixedGradient bool

	// LossFactor converts heat in watts to gradient squared for the cryo
	// bound, in MV²/m² per watt.
	LossFactor float64
}
