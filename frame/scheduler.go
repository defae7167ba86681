package frame

import (
	"log"
	"sync"
	"time"
)

// A Scheduler invokes every registered ticker once per minor frame. The
// tick loop is cooperative: a ticker performs at most one
// read/compute/write sequence and returns, so no ticker holds the
// scheduler between frames.
//
// Tickers run in registration order within a frame. Callers rely on this
// for single-writer/many-reader sharing: a zone registers before its
// controllers so the cryo snapshot it refreshes is consistent for every
// controller ticked in the same frame.
type Scheduler struct {
	period time.Duration

	mu      sync.Mutex
	tickers []Ticker

	stopOnce sync.Once
	stop     chan struct{}
}

// NewScheduler creates a Scheduler with the given minor-frame period.
func NewScheduler(period time.Duration) *Scheduler {
	if period <= 0 {
		log.Panic("minor frame period must be positive")
	}

	s := new(Scheduler)
	s.period = period
	s.stop = make(chan struct{})

	return s
}

// Period returns the minor-frame period.
func (s *Scheduler) Period() time.Duration {
	return s.period
}

// Register adds a ticker to the frame loop. A ticker may be registered
// again after it has retired itself by returning false.
func (s *Scheduler) Register(t Ticker) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tickers = append(s.tickers, t)
}

// Step runs one minor frame: every registered ticker is ticked once, in
// registration order, and tickers that return false are dropped. Step
// returns false when no tickers remain.
func (s *Scheduler) Step() bool {
	s.mu.Lock()
	tickers := make([]Ticker, len(s.tickers))
	copy(tickers, s.tickers)
	s.mu.Unlock()

	retired := make(map[Ticker]bool)
	for _, t := range tickers {
		if !t.Tick() {
			retired[t] = true
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(retired) > 0 {
		kept := s.tickers[:0]
		for _, t := range s.tickers {
			if !retired[t] {
				kept = append(kept, t)
			}
		}
		s.tickers = kept
	}

	return len(s.tickers) > 0
}

// Run drives Step at the minor-frame period until Stop is called or every
// ticker has retired.
func (s *Scheduler) Run() {
	ticker := time.NewTicker(s.period)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			if !s.Step() {
				return
			}
		}
	}
}

// Stop makes Run return after the current frame. Stop is safe to call more
// than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}
