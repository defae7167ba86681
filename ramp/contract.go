package ramp

// Signal is the completion outcome a controller reports to its zone.
// Exactly one signal is emitted per cavity per Apply episode.
type Signal int

const (
	// SignalSuccess reports the cavity reached its target, or did not need
	// to ramp.
	SignalSuccess Signal = iota

	// SignalFail reports a hardware fault stopped the episode.
	SignalFail

	// SignalAbort reports the zone's abort flag stopped the episode.
	SignalAbort
)

func (s Signal) String() string {
	switch s {
	case SignalSuccess:
		return "Success"
	case SignalFail:
		return "Fail"
	case SignalAbort:
		return "Abort"
	default:
		return "Unknown"
	}
}

// A CryoSnapshot is the zone's shared thermal state, captured once per
// major frame before any controller ticks. Controllers treat it as
// read-only for the rest of the frame. All three values are in consistent
// heat/capacity units.
type CryoSnapshot struct {
	// Target is the capacity level the cryo plant has been asked to reach.
	Target float64

	// Ramp is the capacity level the cryo plant has reached so far.
	Ramp float64

	// Load is the heat load the zone's current gradients impose.
	Load float64
}

// Gap returns how far the cryo plant still is from its requested level.
func (s CryoSnapshot) Gap() float64 {
	return s.Target - s.Ramp
}

// Margin returns the heat budget left between the reached capacity and the
// present load.
func (s CryoSnapshot) Margin() float64 {
	return s.Ramp - s.Load
}

// A Coordinator is the zone-facing contract of a controller. The zone owns
// the abort and pause flags, refreshes the cryo snapshot once per major
// frame, and collects exactly one completion signal per cavity per
// episode.
type Coordinator interface {
	// Aborted reports whether the zone has aborted the current episode.
	Aborted() bool

	// Paused reports whether the zone is holding its cavities.
	Paused() bool

	// Cryo returns the snapshot captured for the current major frame.
	Cryo() CryoSnapshot

	// Complete accepts a cavity's completion signal for the episode.
	Complete(cavity string, s Signal)
}

// A DiagnosticSink receives the diagnostic message of a controller that
// stopped on a hardware fault.
type DiagnosticSink interface {
	Deposit(cavity, msg string)
}
