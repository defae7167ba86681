package ramp

import (
	"time"

	"github.com/jeffersonlab/gradramp/hal"
)

// fakePoint records every write and supports fault injection.
type fakePoint struct {
	name   string
	value  float64
	puts   []float64
	getErr error
	putErr error
}

func (p *fakePoint) Name() string {
	return p.name
}

func (p *fakePoint) Get() (float64, error) {
	if p.getErr != nil {
		return 0, p.getErr
	}
	return p.value, nil
}

func (p *fakePoint) Put(value float64) error {
	if p.putErr != nil {
		return p.putErr
	}
	p.value = value
	p.puts = append(p.puts, value)
	return nil
}

// fakePoints is a complete cavity point bundle with RF on and the tuner
// perfectly tuned.
type fakePoints struct {
	gset        *fakePoint
	rfOn        *fakePoint
	tuneMode    *fakePoint
	detuneAngle *fakePoint
	tracking    *fakePoint
	stepCount   *fakePoint
	stepReset   *fakePoint
	stepClear   *fakePoint
}

func newFakePoints(gradient float64) *fakePoints {
	return &fakePoints{
		gset:        &fakePoint{name: "GSET", value: gradient},
		rfOn:        &fakePoint{name: "RFONr", value: 1},
		tuneMode:    &fakePoint{name: "TMODI"},
		detuneAngle: &fakePoint{name: "TDETA"},
		tracking:    &fakePoint{name: "TRK"},
		stepCount:   &fakePoint{name: "TSELI"},
		stepReset:   &fakePoint{name: "TSEL.A"},
		stepClear:   &fakePoint{name: "TSEL.B"},
	}
}

func (f *fakePoints) bundle() hal.CavityPoints {
	return hal.CavityPoints{
		Gset:        f.gset,
		RFOn:        f.rfOn,
		TuneMode:    f.tuneMode,
		DetuneAngle: f.detuneAngle,
		Tracking:    f.tracking,
		StepCount:   f.stepCount,
		StepReset:   f.stepReset,
		StepClear:   f.stepClear,
	}
}

type completion struct {
	cavity string
	signal Signal
}

// fakeZone is a hand-rolled Coordinator that records completions.
type fakeZone struct {
	aborted     bool
	paused      bool
	snap        CryoSnapshot
	completions []completion
}

// newFakeZone returns a zone whose cryo plant has arrived, so the cryo
// bound never engages.
func newFakeZone() *fakeZone {
	return &fakeZone{
		snap: CryoSnapshot{Target: 100, Ramp: 100, Load: 0},
	}
}

func (z *fakeZone) Aborted() bool {
	return z.aborted
}

func (z *fakeZone) Paused() bool {
	return z.paused
}

func (z *fakeZone) Cryo() CryoSnapshot {
	return z.snap
}

func (z *fakeZone) Complete(cavity string, s Signal) {
	z.completions = append(z.completions, completion{cavity, s})
}

type fakeSink struct {
	deposits []string
}

func (s *fakeSink) Deposit(cavity, msg string) {
	s.deposits = append(s.deposits, cavity+": "+msg)
}

func testConfig() Config {
	return Config{
		SubFrames:        1,
		FramePeriod:      time.Second,
		BaseGradient:     2,
		RFSlew:           0.4,
		DetuneAngleLimit: 10,
	}
}

func buildController(
	cavity Cavity,
	cfg Config,
	points *fakePoints,
	z *fakeZone,
	sink DiagnosticSink,
) *Controller {
	return MakeBuilder().
		WithCavity(cavity).
		WithPoints(points.bundle()).
		WithCoordinator(z).
		WithConfig(cfg).
		WithDiagnosticSink(sink).
		Build()
}
