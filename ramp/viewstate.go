// Package ramp implements the per-cavity gradient ramp controller. A
// Controller is bound one-to-one to a cavity for the process lifetime and
// is ticked by the shared frame scheduler; each Apply episode runs the
// cavity's setpoint toward the commanded target under RF slew and shared
// cryogenic capacity limits, then reports exactly one completion signal to
// the zone.
package ramp

// ViewState is the displayed/reported status of a cavity controller.
type ViewState int

const (
	// ViewOff indicates the cavity is waiting for RF to turn on.
	ViewOff ViewState = iota

	// ViewRamp indicates the gradient is moving under the RF slew bound.
	ViewRamp

	// ViewTunerWait indicates ramping is held while the tuner recovers.
	ViewTunerWait

	// ViewCryoLimited indicates the gradient step is bounded by the zone's
	// cryogenic margin instead of the RF slew rate.
	ViewCryoLimited

	// ViewDone indicates the episode completed successfully.
	ViewDone

	// ViewFail indicates the episode stopped on a hardware fault.
	ViewFail

	// ViewAbort indicates the episode stopped on a zone abort.
	ViewAbort

	// ViewUnable indicates a fixed-coupler cavity that is not ramped.
	ViewUnable

	// ViewPause indicates the zone is holding all of its cavities.
	ViewPause
)

func (v ViewState) String() string {
	switch v {
	case ViewOff:
		return "Off"
	case ViewRamp:
		return "Ramp"
	case ViewTunerWait:
		return "TunerWait"
	case ViewCryoLimited:
		return "CryoLimited"
	case ViewDone:
		return "Done"
	case ViewFail:
		return "Fail"
	case ViewAbort:
		return "Abort"
	case ViewUnable:
		return "Unable"
	case ViewPause:
		return "Pause"
	default:
		return "Unknown"
	}
}
