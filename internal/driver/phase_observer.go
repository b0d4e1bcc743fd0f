package driver

import (
	"time"

	"icuc/internal/observ"
)

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	// PhaseStart indicates that a compilation phase has begun.
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// Phase names reported for every file.
const (
	PhaseLoad    = "load"
	PhaseCache   = "cache"
	PhaseParse   = "parse"
	PhaseCompile = "compile"
	PhaseEmit    = "emit"
	PhaseWrite   = "write"
)

// PhaseEvent describes a timing phase boundary of one file.
type PhaseEvent struct {
	File    string
	Name    string
	Status  PhaseStatus
	Elapsed time.Duration
	Err     error
}

// PhaseObserver receives phase events emitted during CompileFiles.
// Files compile concurrently, so the observer must be safe for concurrent use.
type PhaseObserver func(PhaseEvent)

// phaseTracker feeds one file's timer and forwards boundaries to the observer.
type phaseTracker struct {
	file  string
	timer *observ.Timer
	obs   PhaseObserver
}

func newPhaseTracker(file string, obs PhaseObserver) *phaseTracker {
	return &phaseTracker{file: file, timer: observ.NewTimer(), obs: obs}
}

func (p *phaseTracker) begin(name string) int {
	idx := p.timer.Begin(name)
	if p.obs != nil {
		p.obs(PhaseEvent{File: p.file, Name: name, Status: PhaseStart})
	}
	return idx
}

func (p *phaseTracker) end(idx int, name, note string, err error) {
	p.timer.End(idx, note)
	if p.obs != nil {
		p.obs(PhaseEvent{File: p.file, Name: name, Status: PhaseEnd, Elapsed: p.timer.Elapsed(idx), Err: err})
	}
}
