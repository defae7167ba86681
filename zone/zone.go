// Package zone groups the cavities that share a cryomodule's cooling
// capacity. The zone owns the abort and pause flags, captures one cryo
// snapshot per major frame before any of its controllers tick, and
// aggregates the independent per-cavity completion signals of an Apply
// episode.
package zone

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/xid"

	"github.com/jeffersonlab/gradramp/frame"
	"github.com/jeffersonlab/gradramp/hal"
	"github.com/jeffersonlab/gradramp/ramp"
	"github.com/jeffersonlab/gradramp/recording"
)

// episodeTable is the recorder table that receives one row per cavity per
// Apply episode.
const episodeTable = "episodes"

// CryoPoints are the zone-level channels the cryo snapshot is read from.
type CryoPoints struct {
	Target hal.Point
	Ramp   hal.Point
	Load   hal.Point
}

// EpisodeRecord is one cavity's outcome within an Apply episode.
type EpisodeRecord struct {
	Episode  string
	Zone     string
	Cavity   string
	Outcome  string
	Gradient float64
	Seconds  float64
}

// A Target commands one cavity within an Apply episode.
type Target struct {
	// Cavity names the member controller to ramp.
	Cavity string

	// Gradient is the commanded target in MV/m.
	Gradient float64

	// DropFirst requests a drop to the baseline gradient before ramping
	// toward the target.
	DropFirst bool
}

// A Zone coordinates the controllers of one cryomodule. It implements
// ramp.Coordinator toward its members and frame.Ticker toward the
// scheduler.
type Zone struct {
	name      string
	subFrames int
	cryo      CryoPoints
	recorder  recording.DataRecorder

	abort atomic.Bool
	pause atomic.Bool

	// count and snap belong to the scheduler goroutine; snap is also read
	// by observers through Cryo.
	count  int
	snapMu sync.RWMutex
	snap   ramp.CryoSnapshot

	mu       sync.Mutex
	members  []*ramp.Controller
	index    map[string]*ramp.Controller
	episode  string
	started  time.Time
	outcomes map[string]ramp.Signal
	pending  int
	done     chan struct{}
}

// AddController registers a member controller. Members are added once, at
// wiring time, before any Apply.
func (z *Zone) AddController(c *ramp.Controller) {
	z.mu.Lock()
	defer z.mu.Unlock()

	name := c.Name()
	if _, dup := z.index[name]; dup {
		log.Panicf("cavity %s already registered in zone %s", name, z.name)
	}

	z.members = append(z.members, c)
	z.index[name] = c
}

// Name returns the zone name.
func (z *Zone) Name() string {
	return z.name
}

// Controllers returns the member controllers in registration order.
func (z *Zone) Controllers() []*ramp.Controller {
	z.mu.Lock()
	defer z.mu.Unlock()

	members := make([]*ramp.Controller, len(z.members))
	copy(members, z.members)

	return members
}

// Controller returns the member bound to the named cavity.
func (z *Zone) Controller(name string) (*ramp.Controller, bool) {
	z.mu.Lock()
	defer z.mu.Unlock()

	c, ok := z.index[name]

	return c, ok
}

// Abort flags the current episode for an immediate, un-ramped stop. Every
// member reports SignalAbort on its next major frame.
func (z *Zone) Abort() {
	z.abort.Store(true)
}

// Pause holds every member in place without changing hardware.
func (z *Zone) Pause() {
	z.pause.Store(true)
}

// Continue releases a pause.
func (z *Zone) Continue() {
	z.pause.Store(false)
}

// Aborted implements ramp.Coordinator.
func (z *Zone) Aborted() bool {
	return z.abort.Load()
}

// Paused implements ramp.Coordinator.
func (z *Zone) Paused() bool {
	return z.pause.Load()
}

// Cryo implements ramp.Coordinator. It returns the snapshot captured for
// the current major frame; the snapshot is refreshed only by the zone's
// own tick, before any member controller runs in the same frame.
func (z *Zone) Cryo() ramp.CryoSnapshot {
	z.snapMu.RLock()
	defer z.snapMu.RUnlock()

	return z.snap
}

// Complete implements ramp.Coordinator. Each member reports exactly one
// signal per episode; the zone declares the episode finished once every
// commanded cavity has reported.
func (z *Zone) Complete(cavity string, s ramp.Signal) {
	z.mu.Lock()
	defer z.mu.Unlock()

	if _, expected := z.outcomes[cavity]; !expected {
		return
	}

	if z.outcomes[cavity] != signalPending {
		return
	}

	z.outcomes[cavity] = s
	z.pending--

	if z.recorder != nil {
		gradient := 0.0
		if c, ok := z.index[cavity]; ok {
			gradient = c.Gradient()
		}

		z.recorder.InsertData(episodeTable, EpisodeRecord{
			Episode:  z.episode,
			Zone:     z.name,
			Cavity:   cavity,
			Outcome:  s.String(),
			Gradient: gradient,
			Seconds:  time.Since(z.started).Seconds(),
		})
	}

	if z.pending == 0 {
		close(z.done)
	}
}

// signalPending marks a commanded cavity that has not reported yet.
const signalPending = ramp.Signal(-1)

// Apply starts one episode: every commanded member is armed with its
// target and the zone and those members are registered with the
// scheduler. Apply returns an error if a previous episode is still
// running or a target names an unknown cavity.
func (z *Zone) Apply(sched *frame.Scheduler, targets []Target) error {
	z.mu.Lock()
	defer z.mu.Unlock()

	if z.pending > 0 {
		return fmt.Errorf("zone %s: apply already in progress", z.name)
	}

	if len(targets) == 0 {
		return fmt.Errorf("zone %s: apply with no targets", z.name)
	}

	commanded := make([]*ramp.Controller, 0, len(targets))
	for _, t := range targets {
		c, ok := z.index[t.Cavity]
		if !ok {
			return fmt.Errorf("zone %s: unknown cavity %s", z.name, t.Cavity)
		}
		commanded = append(commanded, c)
	}

	z.episode = xid.New().String()
	z.started = time.Now()
	z.outcomes = make(map[string]ramp.Signal, len(targets))
	z.pending = len(targets)
	z.done = make(chan struct{})
	z.count = 0
	z.abort.Store(false)

	for i, t := range targets {
		z.outcomes[t.Cavity] = signalPending
		commanded[i].Begin(t.Gradient, t.DropFirst)
	}

	// The zone must tick before its members so that the cryo snapshot is
	// consistent for every controller in the same frame.
	sched.Register(z)
	for _, c := range commanded {
		sched.Register(c)
	}

	return nil
}

// Episode returns the identifier of the current or most recent episode.
func (z *Zone) Episode() string {
	z.mu.Lock()
	defer z.mu.Unlock()

	return z.episode
}

// Done returns a channel closed once every commanded cavity of the
// current episode has reported.
func (z *Zone) Done() <-chan struct{} {
	z.mu.Lock()
	defer z.mu.Unlock()

	return z.done
}

// Wait blocks until the current episode completes and returns the
// per-cavity outcomes.
func (z *Zone) Wait() map[string]ramp.Signal {
	<-z.Done()

	z.mu.Lock()
	defer z.mu.Unlock()

	outcomes := make(map[string]ramp.Signal, len(z.outcomes))
	for cavity, s := range z.outcomes {
		outcomes[cavity] = s
	}

	return outcomes
}

// Halt makes every member terminal without zone signals. It is the
// process-shutdown path, not an abort.
func (z *Zone) Halt() {
	for _, c := range z.Controllers() {
		c.Halt()
	}
}

// Tick implements frame.Ticker. On each major frame the zone refreshes
// its cryo snapshot; the zone retires from the scheduler once the episode
// has fully reported.
func (z *Zone) Tick() bool {
	z.mu.Lock()
	active := z.pending > 0
	z.mu.Unlock()

	if !active {
		return false
	}

	z.count++
	if z.count < z.subFrames {
		return true
	}
	z.count = 0

	z.refreshCryo()

	return true
}

// refreshCryo reads the zone cryo points into the per-frame snapshot. A
// failed read keeps the previous snapshot; cryo faults must not take down
// every cavity in the zone.
func (z *Zone) refreshCryo() {
	target, err := z.cryo.Target.Get()
	if err != nil {
		log.Printf("zone %s: cryo target read failed: %v", z.name, err)
		return
	}

	capacity, err := z.cryo.Ramp.Get()
	if err != nil {
		log.Printf("zone %s: cryo ramp read failed: %v", z.name, err)
		return
	}

	load, err := z.cryo.Load.Get()
	if err != nil {
		log.Printf("zone %s: cryo load read failed: %v", z.name, err)
		return
	}

	z.snapMu.Lock()
	z.snap = ramp.CryoSnapshot{Target: target, Ramp: capacity, Load: load}
	z.snapMu.Unlock()
}
