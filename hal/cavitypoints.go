package hal

import "log"

// CavityPoints bundles the control points of one cavity. The grouping
// follows the channels the ramp controller touches during a gradient
// download: the gradient setpoint, the RF-on status bit, and the tuner
// channels.
type CavityPoints struct {
	// Gset is the gradient setpoint in MV/m. Read and written.
	Gset Point

	// RFOn reads as nonzero when RF is on for the cavity.
	RFOn Point

	// TuneMode selects the tuner mode: 0 is manual, 1 is automatic.
	TuneMode Point

	// DetuneAngle is the signed tuner detune angle in degrees.
	DetuneAngle Point

	// Tracking reads as nonzero while the tuner is actively correcting.
	Tracking Point

	// StepCount is the tuner motor step counter.
	StepCount Point

	// StepReset triggers a hard reset of the tuner step counter.
	StepReset Point

	// StepClear triggers a tuner clear action.
	StepClear Point
}

// MustBeComplete panics if any point in the bundle is missing. Controllers
// call this at construction so that a partially wired cavity fails fast
// instead of during a ramp.
func (p CavityPoints) MustBeComplete() {
	points := map[string]Point{
		"Gset":        p.Gset,
		"RFOn":        p.RFOn,
		"TuneMode":    p.TuneMode,
		"DetuneAngle": p.DetuneAngle,
		"Tracking":    p.Tracking,
		"StepCount":   p.StepCount,
		"StepReset":   p.StepReset,
		"StepClear":   p.StepClear,
	}

	for name, pt := range points {
		if pt == nil {
			log.Panicf("cavity point %s is not wired", name)
		}
	}
}
