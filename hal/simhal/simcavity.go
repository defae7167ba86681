package simhal

import (
	"math"
	"sync"

	"github.com/jeffersonlab/gradramp/hal"
)

// Channel name suffixes follow the control system's conventions for SRF
// cavities.
const (
	suffixGset        = "GSET"
	suffixRFOn        = "RFONr"
	suffixTuneMode    = "TMODI"
	suffixDetuneAngle = "TDETA"
	suffixTracking    = "TRK"
	suffixStepCount   = "TSELI"
	suffixStepReset   = "TSEL.A"
	suffixStepClear   = "TSEL.B"
)

// SimCavity simulates the hardware of one cavity. Gradient setpoint writes
// take effect immediately. The detune angle grows in proportion to gradient
// changes and decays while the tuner is tracking in automatic mode, which
// is enough to drive the controller through its TunerWait states.
type SimCavity struct {
	mu sync.Mutex

	gset        *MemPoint
	rfOn        *MemPoint
	tuneMode    *MemPoint
	detuneAngle *MemPoint
	tracking    *MemPoint
	stepCount   *MemPoint
	stepReset   *MemPoint
	stepClear   *MemPoint

	lastGset float64

	// DetunePerMVPerM sets how many degrees of detune one MV/m of gradient
	// change induces.
	DetunePerMVPerM float64

	// RecoveryRate sets how many degrees of detune one Advance call removes
	// while the tuner is tracking.
	RecoveryRate float64
}

// NewSimCavity creates a simulated cavity with RF on, tuner in manual, and
// the gradient at the given starting value.
func NewSimCavity(prefix string, gradient float64) *SimCavity {
	c := new(SimCavity)

	c.gset = NewMemPoint(prefix+suffixGset, gradient)
	c.rfOn = NewMemPoint(prefix+suffixRFOn, 1)
	c.tuneMode = NewMemPoint(prefix+suffixTuneMode, 0)
	c.detuneAngle = NewMemPoint(prefix+suffixDetuneAngle, 0)
	c.tracking = NewMemPoint(prefix+suffixTracking, 0)
	c.stepCount = NewMemPoint(prefix+suffixStepCount, 0)
	c.stepReset = NewMemPoint(prefix+suffixStepReset, 0)
	c.stepClear = NewMemPoint(prefix+suffixStepClear, 0)

	c.lastGset = gradient
	c.DetunePerMVPerM = 2.0
	c.RecoveryRate = 5.0

	return c
}

// Points returns the hal bundle for the simulated cavity.
func (c *SimCavity) Points() hal.CavityPoints {
	return hal.CavityPoints{
		Gset:        c.gset,
		RFOn:        c.rfOn,
		TuneMode:    c.tuneMode,
		DetuneAngle: c.detuneAngle,
		Tracking:    c.tracking,
		StepCount:   c.stepCount,
		StepReset:   c.stepReset,
		StepClear:   c.stepClear,
	}
}

// SetRFOn turns the simulated RF on or off.
func (c *SimCavity) SetRFOn(on bool) {
	if on {
		c.rfOn.Set(1)
	} else {
		c.rfOn.Set(0)
	}
}

// Gradient returns the current simulated gradient setpoint.
func (c *SimCavity) Gradient() float64 {
	return c.gset.Value()
}

// Tick advances the simulated tuner dynamics by one minor frame. SimCavity
// implements frame.Ticker so that the CLI can register it alongside the
// controllers; it always asks to be scheduled again.
func (c *SimCavity) Tick() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	g := c.gset.Value()
	delta := math.Abs(g - c.lastGset)
	c.lastGset = g

	detune := c.detuneAngle.Value() + delta*c.DetunePerMVPerM

	auto := c.tuneMode.Value() == 1
	if auto && detune > 0 {
		c.tracking.Set(1)
		c.stepCount.Set(c.stepCount.Value() + 20)

		detune -= c.RecoveryRate
		if detune < 0 {
			detune = 0
		}
	} else {
		c.tracking.Set(0)
	}

	if detune == 0 {
		c.tracking.Set(0)
	}

	if c.stepReset.Value() != 0 {
		c.stepCount.Set(0)
		c.stepReset.Set(0)
	}

	if c.stepClear.Value() != 0 {
		c.stepClear.Set(0)
	}

	c.detuneAngle.Set(detune)

	return true
}
