// Package hal provides point-level access to control-system channels.
//
// A point is a single named scalar channel in the control system, such as a
// cavity's gradient setpoint or a tuner's step counter. All hardware faults
// surface as returned errors; nothing in this package panics across the
// caller's boundary.
package hal

import "fmt"

// A Point is a single named control-system channel that can be read and
// written as a float64.
type Point interface {
	// Name returns the channel name of the point.
	Name() string

	// Get reads the current value of the point.
	Get() (float64, error)

	// Put writes a new value to the point.
	Put(value float64) error
}

// PointError wraps a failure to read or write a point with the point name
// and the direction of the access.
type PointError struct {
	Point string
	Op    string
	Err   error
}

func (e *PointError) Error() string {
	return fmt.Sprintf("point %s: %s: %v", e.Point, e.Op, e.Err)
}

func (e *PointError) Unwrap() error {
	return e.Err
}
