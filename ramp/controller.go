package ramp

import (
	"sync"
	"sync/atomic"

	"github.com/jeffersonlab/gradramp/hal"
)

// A Controller runs the gradient ramp state machine for one cavity. It is
// ticked once per minor frame by the shared scheduler and does substantive
// work every SubFrames-th tick (a major frame). A controller is bound to
// its cavity for the process lifetime; each Apply episode is armed with
// Begin and runs until a terminal Success, Fail, or Abort transition.
type Controller struct {
	HookableBase

	cavity Cavity
	points hal.CavityPoints
	zone   Coordinator
	cfg    Config
	diag   DiagnosticSink

	// Ramp state, touched only on the scheduler goroutine and between
	// episodes.
	count     int
	cold      int
	rampDone  bool
	drop      bool
	stepDelay int
	signaled  bool

	// Fields below are also read by observers on other goroutines.
	mu          sync.Mutex
	target      float64
	lastWritten float64
	haveWritten bool

	halted atomic.Bool
	view   atomic.Int32
}

// Name returns the cavity name the controller is bound to.
func (c *Controller) Name() string {
	return c.cavity.Name
}

// Cavity returns the descriptor of the bound cavity.
func (c *Controller) Cavity() Cavity {
	return c.cavity
}

// View returns the current view state.
func (c *Controller) View() ViewState {
	return ViewState(c.view.Load())
}

// Target returns the commanded target gradient of the current episode.
func (c *Controller) Target() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.target
}

// Gradient returns the setpoint value most recently written by the
// controller, or zero before the first write of the process.
func (c *Controller) Gradient() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lastWritten
}

// Begin arms the next Apply episode: the commanded target, an optional
// drop to the baseline gradient before ramping up, and a cleared signal
// latch. Begin must not be called while an episode is active; the target
// never changes during a ramp.
func (c *Controller) Begin(target float64, dropFirst bool) {
	c.mu.Lock()
	c.target = target
	c.mu.Unlock()

	c.drop = dropFirst
	c.signaled = false
	c.count = 0
	c.resetEpisode()
}

// Halt makes the next tick terminal without emitting a zone signal. It
// distinguishes process shutdown from a zone-level abort.
func (c *Controller) Halt() {
	c.halted.Store(true)
}

// Tick runs one minor frame. Most ticks only check the halt request; every
// SubFrames-th tick runs one major frame of the state machine. Tick
// returns false when the controller is terminal for this episode.
func (c *Controller) Tick() bool {
	if c.halted.Load() {
		return false
	}

	c.count++
	if c.count < c.cfg.SubFrames {
		return true
	}
	c.count = 0

	repeat, err := c.majorFrame()
	if err != nil {
		c.setView(ViewFail)
		c.complete(SignalFail)

		if c.diag != nil {
			c.diag.Deposit(c.cavity.Name, err.Error())
		}

		repeat = false
	}

	if !repeat {
		c.resetEpisode()
	}

	return repeat
}

// majorFrame evaluates the ramp state machine once, in priority order. It
// returns false when the episode reached a terminal transition. Any error
// is a hardware fault the caller maps to the Fail transition.
func (c *Controller) majorFrame() (bool, error) {
	// A zone abort outranks everything else, including ramp progress.
	if c.zone.Aborted() {
		c.setView(ViewAbort)
		c.complete(SignalAbort)
		return false, nil
	}

	// Fixed-coupler cavities ramp in firmware. Write the target directly
	// if configured to, then report the cavity as unable to ramp.
	if c.cavity.Kind == FixedCoupler {
		if c.cfg.SetFixedCoupler {
			if err := c.putGset(c.target); err != nil {
				return false, err
			}
		}

		c.setView(ViewUnable)
		c.complete(SignalSuccess)
		return false, nil
	}

	if c.zone.Paused() {
		c.setView(ViewPause)
		return true, nil
	}

	// A cold start drops non-fixed gradients to the baseline and puts the
	// tuner in manual before anything else happens.
	if c.cold == 2 {
		if !c.cavity.FixedGradient {
			if err := c.putGset(c.cfg.BaseGradient); err != nil {
				return false, err
			}
			c.rampDone = false
		}

		if err := c.points.TuneMode.Put(tuneModeManual); err != nil {
			return false, err
		}

		c.cold = 1
		return true, nil
	}

	// The download cannot proceed until RF is on. Bypassed cavities skip
	// the gate.
	if !c.cavity.Bypassed {
		on, err := c.points.RFOn.Get()
		if err != nil {
			return false, err
		}

		if on == 0 {
			c.setView(ViewOff)
			return true, nil
		}
	}

	// With RF on, healthy non-bypassed tuners go to automatic for the
	// download.
	if c.cold == 1 {
		if !c.cavity.Bypassed && !c.cavity.TunerBad {
			if err := c.points.TuneMode.Put(tuneModeAutomatic); err != nil {
				return false, err
			}
		}

		c.cold = 0
		return true, nil
	}

	// A finished ramp still waits for a happy tuner before the cavity is
	// declared complete. Bypassed and tuner-bad cavities skip the check.
	if c.rampDone {
		happy := c.cavity.Bypassed || c.cavity.TunerBad
		if !happy {
			var err error
			happy, err = c.tunerCheck()
			if err != nil {
				return false, err
			}
		}

		if happy {
			c.setView(ViewDone)
			c.complete(SignalSuccess)
			return false, nil
		}

		return true, nil
	}

	done, err := c.download()
	if err != nil {
		return false, err
	}
	c.rampDone = done

	return true, nil
}

// complete emits the episode's completion signal. The latch guarantees
// exactly one signal per cavity per episode.
func (c *Controller) complete(s Signal) {
	if c.signaled {
		return
	}
	c.signaled = true

	c.zone.Complete(c.cavity.Name, s)
}

// resetEpisode restores the transient ramp fields for the next episode.
func (c *Controller) resetEpisode() {
	c.cold = 2
	c.rampDone = false
	c.stepDelay = 0
}

func (c *Controller) setView(v ViewState) {
	old := ViewState(c.view.Swap(int32(v)))
	if old == v {
		return
	}

	c.InvokeHook(HookCtx{
		Domain: c,
		Pos:    HookPosViewChange,
		Item: ViewTransition{
			Cavity: c.cavity.Name,
			From:   old,
			To:     v,
		},
	})
}

func (c *Controller) putGset(value float64) error {
	if err := c.points.Gset.Put(value); err != nil {
		return err
	}

	c.mu.Lock()
	c.lastWritten = value
	c.haveWritten = true
	c.mu.Unlock()

	return nil
}
