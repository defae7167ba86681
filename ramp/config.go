package ramp

import (
	"log"
	"time"
)

// Tuner behavior limits. These mirror the tuner hardware's conventions and
// are not expected to vary between installations.
const (
	// tunerStepCountMax is the step count beyond which the tuner gets a
	// hard reset instead of a clear.
	tunerStepCountMax = 30000

	// tunerClearInterval is the number of consecutive failing tuner checks
	// between clear actions.
	tunerClearInterval = 4

	// stepTrigger is the value written to the reset and clear trigger
	// points.
	stepTrigger = 3
)

// cryoGapThreshold is the cryo target-to-ramp gap below which the plant is
// considered arrived and the cryo bound is skipped.
const cryoGapThreshold = 0.1

// Tuner mode values.
const (
	tuneModeManual    = 0
	tuneModeAutomatic = 1
)

// Config carries the injected tuning of a controller. There is no global
// configuration; every controller receives its own copy at construction.
type Config struct {
	// SubFrames is the frame divider: the number of minor scheduler ticks
	// per major frame. Substantive work happens only on major frames.
	SubFrames int

	// FramePeriod is the major-frame duration. The RF slew bound is scaled
	// by this period.
	FramePeriod time.Duration

	// BaseGradient is the baseline gradient written during the cold-start
	// drop, in MV/m.
	BaseGradient float64

	// RFSlew is the nominal RF hardware slew rate in MV/m per second.
	RFSlew float64

	// DetuneAngleLimit is the detune angle tolerance in degrees. At or
	// beyond it the tuner is unhappy.
	DetuneAngleLimit float64

	// SetFixedCoupler enables writing the target directly to fixed-coupler
	// cavities before declaring them unable to ramp.
	SetFixedCoupler bool
}

// MustBeValid panics on a configuration no controller can run with.
func (c Config) MustBeValid() {
	if c.SubFrames < 1 {
		log.Panic("sub-frame count must be at least 1")
	}

	if c.FramePeriod <= 0 {
		log.Panic("major frame period must be positive")
	}

	if c.RFSlew <= 0 {
		log.Panic("RF slew rate must be positive")
	}

	if c.DetuneAngleLimit <= 0 {
		log.Panic("detune angle limit must be positive")
	}

	if c.BaseGradient < 0 {
		log.Panic("base gradient cannot be negative")
	}
}
