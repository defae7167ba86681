package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/jeffersonlab/gradramp/ramp"
)

// FileConfig describes one zone and its cavities, as loaded from the YAML
// file passed to run or check.
type FileConfig struct {
	Zone string `yaml:"zone"`

	Frame struct {
		SubFrames    int `yaml:"sub_frames"`
		MajorFrameMS int `yaml:"major_frame_ms"`
	} `yaml:"frame"`

	Ramp struct {
		BaseGradient     float64 `yaml:"base_gradient"`
		RFSlew           float64 `yaml:"rf_slew"`
		DetuneAngleLimit float64 `yaml:"detune_angle_limit"`
		SetFixedCoupler  bool    `yaml:"set_fixed_coupler"`
	} `yaml:"ramp"`

	Cryo struct {
		Target   float64 `yaml:"target"`
		Ramp     float64 `yaml:"ramp"`
		Load     float64 `yaml:"load"`
		RampRate float64 `yaml:"ramp_rate"`
	} `yaml:"cryo"`

	Cavities []CavityConfig `yaml:"cavities"`
}

// CavityConfig describes one cavity within the zone.
type CavityConfig struct {
	Name            string  `yaml:"name"`
	Kind            string  `yaml:"kind"`
	Bypassed        bool    `yaml:"bypassed"`
	TunerBad        bool    `yaml:"tuner_bad"`
	FixedGradient   bool    `yaml:"fixed_gradient"`
	LossFactor      float64 `yaml:"loss_factor"`
	InitialGradient float64 `yaml:"initial_gradient"`
	Target          float64 `yaml:"target"`
	DropFirst       bool    `yaml:"drop_first"`
}

// LoadConfig converts a path to a YAML file into a FileConfig.
func LoadConfig(path string) (FileConfig, error) {
	cfg := FileConfig{}

	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate rejects zone descriptions the controllers cannot run with.
func (c FileConfig) Validate() error {
	if c.Zone == "" {
		return fmt.Errorf("zone name is required")
	}

	if c.Frame.SubFrames < 1 {
		return fmt.Errorf("frame.sub_frames must be at least 1")
	}

	if c.Frame.MajorFrameMS <= 0 {
		return fmt.Errorf("frame.major_frame_ms must be positive")
	}

	if c.Ramp.RFSlew <= 0 {
		return fmt.Errorf("ramp.rf_slew must be positive")
	}

	if c.Ramp.DetuneAngleLimit <= 0 {
		return fmt.Errorf("ramp.detune_angle_limit must be positive")
	}

	if len(c.Cavities) == 0 {
		return fmt.Errorf("at least one cavity is required")
	}

	seen := make(map[string]bool)
	for _, cav := range c.Cavities {
		if cav.Name == "" {
			return fmt.Errorf("every cavity needs a name")
		}

		if seen[cav.Name] {
			return fmt.Errorf("cavity %s appears twice", cav.Name)
		}
		seen[cav.Name] = true

		if _, err := cavityKind(cav.Kind); err != nil {
			return fmt.Errorf("cavity %s: %w", cav.Name, err)
		}

		if cav.LossFactor <= 0 {
			return fmt.Errorf("cavity %s: loss_factor must be positive",
				cav.Name)
		}
	}

	return nil
}

// RampConfig converts the file's frame and ramp sections into the
// controller configuration.
func (c FileConfig) RampConfig() ramp.Config {
	return ramp.Config{
		SubFrames:        c.Frame.SubFrames,
		FramePeriod:      time.Duration(c.Frame.MajorFrameMS) * time.Millisecond,
		BaseGradient:     c.Ramp.BaseGradient,
		RFSlew:           c.Ramp.RFSlew,
		DetuneAngleLimit: c.Ramp.DetuneAngleLimit,
		SetFixedCoupler:  c.Ramp.SetFixedCoupler,
	}
}

func cavityKind(kind string) (ramp.CavityKind, error) {
	switch kind {
	case "", "standard":
		return ramp.Standard, nil
	case "fixed-coupler":
		return ramp.FixedCoupler, nil
	default:
		return ramp.Standard, fmt.Errorf("unknown cavity kind %q", kind)
	}
}
