package ramp

import "math"

// tunerCheck reports whether the cavity's tuner is happy, issuing
// corrective actions when it is not. A reading within tolerance, or one
// that shows the tuner actively tracking, resets the hysteresis counter.
//
// There is deliberately no stall timeout here: a persistently unhappy
// tuner keeps the controller in TunerWait issuing periodic corrections,
// and escalation is an operator responsibility.
func (c *Controller) tunerCheck() (bool, error) {
	angle, err := c.points.DetuneAngle.Get()
	if err != nil {
		return false, err
	}

	if math.Abs(angle) < c.cfg.DetuneAngleLimit {
		c.stepDelay = 0
		return true, nil
	}

	tracking, err := c.points.Tracking.Get()
	if err != nil {
		return false, err
	}

	if tracking != 0 {
		c.stepDelay = 0
		return true, nil
	}

	// The tuner is detuned and not even trying. Reset a runaway step
	// counter, otherwise press clear on every fourth consecutive failing
	// check.
	steps, err := c.points.StepCount.Get()
	if err != nil {
		return false, err
	}

	if steps > tunerStepCountMax {
		if err := c.points.StepReset.Put(stepTrigger); err != nil {
			return false, err
		}
	} else {
		c.stepDelay++
		if c.stepDelay >= tunerClearInterval {
			if err := c.points.StepClear.Put(stepTrigger); err != nil {
				return false, err
			}
			c.stepDelay = 0
		}
	}

	return false, nil
}
