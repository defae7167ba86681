package main

import (
	"github.com/jeffersonlab/gradramp/hal/simhal"
)

// heatSource reports the heat one simulated cavity puts on the cryo plant.
type heatSource struct {
	cavity     *simhal.SimCavity
	lossFactor float64
}

func (h heatSource) watts() float64 {
	g := h.cavity.Gradient()
	return g * g / h.lossFactor
}

// cryoSim evolves the zone-level cryo points once per minor frame: the
// reached capacity creeps toward the requested level at ramp_rate, and the
// load follows the heat of the simulated cavities. cryoSim implements
// frame.Ticker.
type cryoSim struct {
	target *simhal.MemPoint
	ramp   *simhal.MemPoint
	load   *simhal.MemPoint

	rate    float64
	sources []heatSource
}

func newCryoSim(cfg FileConfig) *cryoSim {
	prefix := cfg.Zone + ":CRYO:"

	s := new(cryoSim)
	s.target = simhal.NewMemPoint(prefix+"TARGET", cfg.Cryo.Target)
	s.ramp = simhal.NewMemPoint(prefix+"RAMP", cfg.Cryo.Ramp)
	s.load = simhal.NewMemPoint(prefix+"LOAD", cfg.Cryo.Load)
	s.rate = cfg.Cryo.RampRate

	return s
}

func (s *cryoSim) addSource(cavity *simhal.SimCavity, lossFactor float64) {
	s.sources = append(s.sources, heatSource{
		cavity:     cavity,
		lossFactor: lossFactor,
	})
}

func (s *cryoSim) Tick() bool {
	reached := s.ramp.Value()
	if target := s.target.Value(); reached < target {
		reached += s.rate
		if reached > target {
			reached = target
		}
		s.ramp.Set(reached)
	}

	if len(s.sources) > 0 {
		load := 0.0
		for _, src := range s.sources {
			load += src.watts()
		}
		s.load.Set(load)
	}

	return true
}
