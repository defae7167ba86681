package ramp

import "github.com/jeffersonlab/gradramp/hal"

// Builder builds controllers. Each controller binds one cavity descriptor,
// its hardware points, the zone coordinator, and an injected configuration.
type Builder struct {
	cavity Cavity
	points hal.CavityPoints
	coord  Coordinator
	cfg    Config
	diag   DiagnosticSink
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{}
}

// WithCavity sets the cavity descriptor.
func (b Builder) WithCavity(c Cavity) Builder {
	b.cavity = c
	return b
}

// WithPoints sets the cavity's hardware points.
func (b Builder) WithPoints(p hal.CavityPoints) Builder {
	b.points = p
	return b
}

// WithCoordinator sets the zone the controller reports to.
func (b Builder) WithCoordinator(z Coordinator) Builder {
	b.coord = z
	return b
}

// WithConfig sets the controller configuration.
func (b Builder) WithConfig(cfg Config) Builder {
	b.cfg = cfg
	return b
}

// WithDiagnosticSink sets the sink that receives fault diagnostics. The
// sink is optional.
func (b Builder) WithDiagnosticSink(d DiagnosticSink) Builder {
	b.diag = d
	return b
}

// Build builds the controller. It panics on an incomplete binding or an
// invalid configuration.
func (b Builder) Build() *Controller {
	b.cfg.MustBeValid()
	b.points.MustBeComplete()

	if b.cavity.Name == "" {
		panic("controller requires a named cavity")
	}

	if b.coord == nil {
		panic("controller requires a zone coordinator")
	}

	c := new(Controller)
	c.cavity = b.cavity
	c.points = b.points
	c.zone = b.coord
	c.cfg = b.cfg
	c.diag = b.diag
	c.cold = 2
	c.view.Store(int32(ViewOff))

	return c
}
