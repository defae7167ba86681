package ramp

import "math"

// noWrite is the sentinel next-gradient value meaning the frame makes no
// setpoint change.
const noWrite = -1

// download moves the setpoint one bounded step toward the target. It is
// called once per major frame while ramping and returns true once the
// written value equals the target.
func (c *Controller) download() (bool, error) {
	next := float64(noWrite)
	var vm ViewState

	switch {
	// Bypassed or broken-tuner cavities are forced straight to their
	// target; they should be there anyway.
	case c.cavity.Bypassed || c.cavity.TunerBad:
		next = c.targetGradient()
		vm = ViewRamp

	// A requested drop sends the cavity to the baseline gradient before
	// it ramps toward the target.
	case c.drop:
		next = c.cfg.BaseGradient
		c.drop = false
		vm = ViewRamp

	default:
		happy, err := c.tunerCheck()
		if err != nil {
			return false, err
		}

		if !happy {
			// No gradient change while the tuner is unhappy.
			vm = ViewTunerWait
			break
		}

		g, err := c.points.Gset.Get()
		if err != nil {
			return false, err
		}

		next, vm = c.boundedStep(g)
	}

	c.setView(vm)

	if next == noWrite {
		return false, nil
	}

	if err := c.putGset(next); err != nil {
		return false, err
	}

	return next == c.targetGradient(), nil
}

// boundedStep computes the next setpoint from the current gradient g,
// bounded by the RF hardware slew and, when ramping upward, by the zone's
// cryogenic margin. The view reports which bound won.
func (c *Controller) boundedStep(g float64) (float64, ViewState) {
	target := c.targetGradient()

	// The cryo bound only applies while the zone's capacity is still
	// moving upward toward its requested level. Downward ramping does not
	// consume margin.
	cryoSlew := math.Inf(1)
	if g < target {
		cryo := c.zone.Cryo()
		if cryo.Gap() > cryoGapThreshold {
			deltaWatts := cryo.Margin()
			if deltaWatts <= 0 {
				cryoSlew = 0
			} else {
				cryoSlew = math.Sqrt(g*g+deltaWatts*c.cavity.LossFactor) - g
			}
		}
	}

	// The RF bound shrinks as the gradient grows: constant-amplitude
	// limiting rather than a constant absolute rate. The slew rate is per
	// second, scaled to the major-frame duration.
	slew := (math.Sqrt(g*g+c.cfg.RFSlew*c.cfg.RFSlew) - g) *
		c.cfg.FramePeriod.Seconds()

	vm := ViewRamp
	if slew >= cryoSlew {
		slew = cryoSlew
		vm = ViewCryoLimited
	}

	// Land exactly on the target once it is within reach; otherwise move
	// one bound in the right direction.
	gap := target - g
	if math.Abs(gap) <= slew {
		return target, vm
	}

	if gap < 0 {
		return g - slew, vm
	}

	return g + slew, vm
}

func (c *Controller) targetGradient() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.target
}
