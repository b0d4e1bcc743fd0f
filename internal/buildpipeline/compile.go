package buildpipeline

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"icuc/internal/driver"
)

// CompileRequest configures the shared compilation pipeline.
type CompileRequest struct {
	// Files are message catalogs, already expanded by driver.ExpandInputs.
	Files    []string
	BaseDir  string
	Driver   driver.Options
	Progress ProgressSink
}

// CompileResult captures per-file outcomes and stage timings.
type CompileResult struct {
	Driver  *driver.Result
	Timings Timings
}

// Compile runs the driver over every file and reports progress per stage.
// The returned error aggregates failed files; the result is always usable.
func Compile(ctx context.Context, req *CompileRequest) (CompileResult, error) {
	var result CompileResult
	if ctx == nil {
		ctx = context.Background()
	}
	if req == nil {
		return result, fmt.Errorf("missing compile request")
	}
	if len(req.Files) == 0 {
		return result, fmt.Errorf("no message files to compile")
	}

	baseDir := req.BaseDir
	if baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			baseDir = wd
		}
	}
	display := normalizeProgressFiles(req.Files, baseDir)
	emitQueued(req.Progress, display)

	phases := &phaseObserver{
		sink:    req.Progress,
		started: make(map[string]Stage, len(display)),
	}
	opts := req.Driver
	opts.BaseDir = baseDir
	user := opts.Observer
	opts.Observer = func(ev driver.PhaseEvent) {
		phases.OnPhase(ev)
		if user != nil {
			user(ev)
		}
	}

	begin := time.Now()
	res, err := driver.CompileFiles(ctx, req.Files, opts)
	result.Driver = res
	result.Timings = phases.timings()

	if res != nil {
		for i := range res.Files {
			f := &res.Files[i]
			if f.Path == "" {
				// не дошли до файла из-за отмены
				continue
			}
			name := displayName(f.Path, baseDir)
			stage := phases.stage(name)
			if f.Failed() {
				emitFile(req.Progress, name, stage, StatusError, f.Err, durationFromMillis(f.Timing.TotalMS))
				continue
			}
			emitFile(req.Progress, name, stage, StatusDone, nil, durationFromMillis(f.Timing.TotalMS))
		}
	}
	status := StatusDone
	if err != nil {
		status = StatusError
	}
	if req.Progress != nil {
		req.Progress.OnEvent(Event{Stage: StageEmit, Status: status, Err: err, Elapsed: time.Since(begin)})
	}
	return result, err
}

// displayName mirrors normalizeProgressFiles for a single path.
func displayName(path, baseDir string) string {
	names := normalizeProgressFiles([]string{path}, baseDir)
	if len(names) == 0 {
		return path
	}
	return names[0]
}

// phaseObserver turns driver phase boundaries into stage events. Files
// compile concurrently, hence the mutex.
type phaseObserver struct {
	mu      sync.Mutex
	sink    ProgressSink
	started map[string]Stage
	total   Timings
}

// OnPhase updates the progress UI based on compiler phase events.
func (p *phaseObserver) OnPhase(ev driver.PhaseEvent) {
	stage := stageOf(ev.Name)
	p.mu.Lock()
	if ev.Status == driver.PhaseEnd {
		p.total.Set(stage, p.total.Duration(stage)+ev.Elapsed)
		p.mu.Unlock()
		return
	}
	prev, seen := p.started[ev.File]
	if seen && prev == stage {
		p.mu.Unlock()
		return
	}
	p.started[ev.File] = stage
	p.mu.Unlock()
	emitFile(p.sink, ev.File, stage, StatusWorking, nil, 0)
}

func (p *phaseObserver) stage(file string) Stage {
	p.mu.Lock()
	defer p.mu.Unlock()
	if stage, ok := p.started[file]; ok {
		return stage
	}
	return StageParse
}

func (p *phaseObserver) timings() Timings {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out Timings
	for _, stage := range []Stage{StageParse, StageCompile, StageEmit} {
		if p.total.Has(stage) {
			out.Set(stage, p.total.Duration(stage))
		}
	}
	return out
}

func stageOf(phase string) Stage {
	switch phase {
	case driver.PhaseCompile:
		return StageCompile
	case driver.PhaseEmit, driver.PhaseWrite:
		return StageEmit
	default:
		return StageParse
	}
}

func durationFromMillis(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

func emitQueued(sink ProgressSink, files []string) {
	if sink == nil {
		return
	}
	for _, file := range files {
		sink.OnEvent(Event{File: file, Stage: StageParse, Status: StatusQueued})
	}
}

func emitFile(sink ProgressSink, file string, stage Stage, status Status, err error, elapsed time.Duration) {
	if sink == nil {
		return
	}
	sink.OnEvent(Event{File: file, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
}
