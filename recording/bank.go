package recording

import "time"

// diagnosticTable receives one row per deposited controller diagnostic.
const diagnosticTable = "diagnostics"

// DiagnosticEntry is one deposited fault message.
type DiagnosticEntry struct {
	Time    string
	Cavity  string
	Message string
}

// A Bank collects the diagnostics of controllers that stop on hardware
// faults. The original system popped these up for the operator; here they
// are persisted through the data recorder instead.
type Bank struct {
	recorder DataRecorder
}

// NewBank creates a Bank writing to the given recorder.
func NewBank(recorder DataRecorder) *Bank {
	b := new(Bank)
	b.recorder = recorder
	b.recorder.CreateTable(diagnosticTable, DiagnosticEntry{})

	return b
}

// Deposit records one diagnostic message. Bank implements
// ramp.DiagnosticSink.
func (b *Bank) Deposit(cavity, msg string) {
	b.recorder.InsertData(diagnosticTable, DiagnosticEntry{
		Time:    time.Now().Format(time.RFC3339Nano),
		Cavity:  cavity,
		Message: msg,
	})
}
