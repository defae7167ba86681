package recording

import (
	"time"

	"github.com/jeffersonlab/gradramp/ramp"
)

// transitionTable receives one row per controller view transition.
const transitionTable = "transitions"

// TransitionEntry is one recorded view transition. The state columns
// avoid the SQL keywords FROM and TO.
type TransitionEntry struct {
	Time      string
	Cavity    string
	PrevState string
	NextState string
}

// A TransitionLog records every controller view transition through the
// data recorder. It implements ramp.Hook; attach it to each controller
// with AcceptHook.
type TransitionLog struct {
	recorder DataRecorder
}

// NewTransitionLog creates a TransitionLog writing to the given recorder.
func NewTransitionLog(recorder DataRecorder) *TransitionLog {
	l := new(TransitionLog)
	l.recorder = recorder
	l.recorder.CreateTable(transitionTable, TransitionEntry{})

	return l
}

// Func implements ramp.Hook.
func (l *TransitionLog) Func(ctx ramp.HookCtx) {
	if ctx.Pos != ramp.HookPosViewChange {
		return
	}

	t := ctx.Item.(ramp.ViewTransition)
	l.recorder.InsertData(transitionTable, TransitionEntry{
		Time:      time.Now().Format(time.RFC3339Nano),
		Cavity:    t.Cavity,
		PrevState: t.From.String(),
		NextState: t.To.String(),
	})
}
