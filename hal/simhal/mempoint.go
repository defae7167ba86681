// Package simhal provides in-memory points and a simulated cavity for use
// by the CLI and by tests. The simulated hardware is deliberately simple:
// it models only the behaviors the ramp controller reacts to.
package simhal

import (
	"sync"

	"github.com/jeffersonlab/gradramp/hal"
)

// MemPoint is an in-memory implementation of hal.Point. It supports fault
// injection so that tests can exercise the controller's failure paths.
type MemPoint struct {
	mu sync.Mutex

	name   string
	value  float64
	getErr error
	putErr error
}

// NewMemPoint creates a MemPoint with an initial value.
func NewMemPoint(name string, initial float64) *MemPoint {
	p := new(MemPoint)
	p.name = name
	p.value = initial

	return p
}

// Name returns the channel name of the point.
func (p *MemPoint) Name() string {
	return p.name
}

// Get returns the current value, or the injected read fault.
func (p *MemPoint) Get() (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.getErr != nil {
		return 0, &hal.PointError{Point: p.name, Op: "get", Err: p.getErr}
	}

	return p.value, nil
}

// Put stores a new value, or returns the injected write fault.
func (p *MemPoint) Put(value float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.putErr != nil {
		return &hal.PointError{Point: p.name, Op: "put", Err: p.putErr}
	}

	p.value = value

	return nil
}

// Value reads the stored value without going through the Point interface.
func (p *MemPoint) Value() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.value
}

// Set stores a value without going through the Point interface. Simulators
// use this to update status channels that the controller only reads.
func (p *MemPoint) Set(value float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.value = value
}

// FailGets makes every subsequent Get return err. Passing nil clears the
// fault.
func (p *MemPoint) FailGets(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.getErr = err
}

// FailPuts makes every subsequent Put return err. Passing nil clears the
// fault.
func (p *MemPoint) FailPuts(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.putErr = err
}
