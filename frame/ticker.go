// Package frame provides the shared periodic scheduler that drives every
// active cavity controller. One call into a ticker is one minor frame;
// tickers that only want to act on major frames keep their own frame
// divider.
package frame

// A Ticker is an object that updates its state once per minor frame.
type Ticker interface {
	// Tick performs one minor frame of work. Returning false removes the
	// ticker from the scheduler until it is registered again.
	Tick() bool
}
