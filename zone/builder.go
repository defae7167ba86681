package zone

import (
	"log"

	"github.com/jeffersonlab/gradramp/ramp"
	"github.com/jeffersonlab/gradramp/recording"
)

// Builder builds zones.
type Builder struct {
	name      string
	subFrames int
	cryo      CryoPoints
	recorder  recording.DataRecorder
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{}
}

// WithName sets the zone name.
func (b Builder) WithName(name string) Builder {
	b.name = name
	return b
}

// WithSubFrames sets the frame divider. It must match the divider of the
// member controllers so that the snapshot refresh lands on the same minor
// frame as their major-frame work.
func (b Builder) WithSubFrames(n int) Builder {
	b.subFrames = n
	return b
}

// WithCryoPoints sets the zone-level cryo channels.
func (b Builder) WithCryoPoints(p CryoPoints) Builder {
	b.cryo = p
	return b
}

// WithDataRecorder sets the recorder that receives episode records. The
// recorder is optional.
func (b Builder) WithDataRecorder(r recording.DataRecorder) Builder {
	b.recorder = r
	return b
}

// Build builds the zone.
func (b Builder) Build() *Zone {
	if b.name == "" {
		log.Panic("zone requires a name")
	}

	if b.subFrames < 1 {
		log.Panic("sub-frame count must be at least 1")
	}

	if b.cryo.Target == nil || b.cryo.Ramp == nil || b.cryo.Load == nil {
		log.Panic("zone requires all three cryo points")
	}

	z := new(Zone)
	z.name = b.name
	z.subFrames = b.subFrames
	z.cryo = b.cryo
	z.recorder = b.recorder
	z.index = make(map[string]*ramp.Controller)
	z.outcomes = make(map[string]ramp.Signal)

	done := make(chan struct{})
	close(done)
	z.done = done

	if z.recorder != nil {
		z.recorder.CreateTable(episodeTable, EpisodeRecord{})
	}

	return z
}
