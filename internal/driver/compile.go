package driver

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"icuc/internal/codegen"
	"icuc/internal/compiler"
	"icuc/internal/diag"
	"icuc/internal/observ"
	"icuc/internal/source"
)

// Options configure CompileFiles.
type Options struct {
	Compiler compiler.Options
	Codegen  codegen.Options
	// Declarations adds a .d.ts next to JavaScript output. Ignored for TypeScript.
	Declarations bool

	// OutDir receives generated modules; empty writes next to each input.
	OutDir string
	// BaseDir anchors relative paths in diagnostics and under OutDir.
	BaseDir string
	// Write false compiles without touching the file system.
	Write bool
	// KeepGoing compiles the remaining messages of a file after one failed,
	// so every broken message gets a diagnostic.
	KeepGoing bool

	Jobs           int
	MaxDiagnostics int
	Cache          *DiskCache // nil disables caching
	Timings        bool       // append an ObsTimings diagnostic per file

	Logger   zerolog.Logger
	Observer PhaseObserver
}

func (o *Options) declarations() bool {
	return o.Declarations && !o.Codegen.TypeScript
}

// FileResult is the outcome for one message file.
type FileResult struct {
	Path    string
	FileSet *source.FileSet
	Bag     *diag.Bag

	Output           string // generated module path
	DeclarationsPath string // "" unless declarations were produced
	Code             string
	Declarations     string

	Exports   []string
	Arguments map[string][]compiler.Argument

	CacheHit bool
	Timing   observ.Report
	// Err is the first failure of the file: a *compiler.Error, a diagnostic
	// from the catalog reader or an I/O error.
	Err error
}

// Failed reports whether the file produced no usable output.
func (r *FileResult) Failed() bool {
	return r.Err != nil
}

// Result holds per-file outcomes in input order.
type Result struct {
	Files []FileResult
}

// Failed returns the files that did not compile.
func (r *Result) Failed() []*FileResult {
	var out []*FileResult
	for i := range r.Files {
		if r.Files[i].Failed() {
			out = append(out, &r.Files[i])
		}
	}
	return out
}

// CompileFiles compiles every message file into one module, in parallel.
// Each file gets its own FileSet and Module. Per-file failures land in the
// file's Bag and are also aggregated into the returned error; a cancelled
// context aborts the remaining files.
func CompileFiles(ctx context.Context, paths []string, opts Options) (*Result, error) {
	res := &Result{Files: make([]FileResult, len(paths))}
	if len(paths) == 0 {
		return res, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	if opts.MaxDiagnostics <= 0 {
		opts.MaxDiagnostics = 100
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			// индекс i уникален для каждой горутины, мьютекс не нужен
			res.Files[i] = compileFile(gctx, path, &opts)
			if errors.Is(res.Files[i].Err, context.Canceled) {
				return res.Files[i].Err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}

	var errs *multierror.Error
	for i := range res.Files {
		if err := res.Files[i].Err; err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", res.Files[i].Path, err))
		}
	}
	return res, errs.ErrorOrNil()
}

// CompileFile compiles a single message file.
func CompileFile(ctx context.Context, path string, opts Options) FileResult {
	if opts.MaxDiagnostics <= 0 {
		opts.MaxDiagnostics = 100
	}
	return compileFile(ctx, path, &opts)
}

func compileFile(ctx context.Context, path string, opts *Options) (res FileResult) {
	display := displayPath(path, opts.BaseDir)
	res = FileResult{
		Path:    path,
		FileSet: source.NewFileSetWithBase(opts.BaseDir),
		Bag:     diag.NewBag(opts.MaxDiagnostics),
	}
	log := opts.Logger.With().Str("file", display).Logger()
	tr := newPhaseTracker(display, opts.Observer)
	log.Debug().Msg("compile start")

	defer func() {
		res.Timing = tr.timer.Report()
		if opts.Timings {
			appendTimingDiagnostic(res.Bag, timingPayload{
				Path:     display,
				CacheHit: res.CacheHit,
				TotalMS:  res.Timing.TotalMS,
				Phases:   res.Timing.Phases,
			})
		}
		if res.Err != nil {
			log.Error().Err(res.Err).Msg("compile failed")
			return
		}
		log.Debug().
			Bool("cache_hit", res.CacheHit).
			Int("exports", len(res.Exports)).
			Float64("total_ms", res.Timing.TotalMS).
			Msg("compile done")
	}()

	idx := tr.begin(PhaseLoad)
	id, err := res.FileSet.Load(path)
	tr.end(idx, PhaseLoad, "", err)
	if err != nil {
		res.Bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{}, "failed to load file: "+err.Error()))
		res.Err = fmt.Errorf("load: %w", err)
		return res
	}
	file := res.FileSet.Get(id)

	var key Digest
	if opts.Cache != nil {
		key = cacheKey(file.Hash, opts)
		idx = tr.begin(PhaseCache)
		var payload DiskPayload
		hit, err := opts.Cache.Get(key, &payload)
		tr.end(idx, PhaseCache, cacheNote(hit), nil)
		if err != nil {
			log.Warn().Err(err).Msg("cache read failed")
		}
		if hit {
			res.CacheHit = true
			res.fromPayload(&payload)
			res.Output, res.DeclarationsPath = outputPaths(path, payload.Extension, payload.Declarations != "", opts)
			log.Debug().Msg("cache hit")
			if opts.Write {
				res.write(tr)
			}
			return res
		}
	}

	idx = tr.begin(PhaseParse)
	messages, problems := ReadMessages(res.FileSet, id)
	tr.end(idx, PhaseParse, fmt.Sprintf("%d messages", len(messages)), nil)
	for _, d := range problems {
		res.Bag.Add(d)
	}
	if len(problems) > 0 {
		res.Err = problems[0]
		if !opts.KeepGoing {
			return res
		}
	}

	copts := opts.Compiler
	copts.File = display
	m := compiler.NewModule(res.FileSet, copts)

	idx = tr.begin(PhaseCompile)
	for _, msg := range messages {
		if err := ctx.Err(); err != nil {
			tr.end(idx, PhaseCompile, "cancelled", err)
			res.Err = err
			return res
		}
		err := m.AddMessage(msg.Name, msg.Text)
		if err == nil {
			continue
		}
		var cerr *compiler.Error
		if !errors.As(err, &cerr) {
			tr.end(idx, PhaseCompile, "", err)
			res.Err = err
			return res
		}
		res.Bag.Add(cerr.Diagnostic)
		if res.Err == nil {
			res.Err = cerr
		}
		if !opts.KeepGoing {
			break
		}
	}
	tr.end(idx, PhaseCompile, fmt.Sprintf("%d messages", len(messages)), res.Err)
	if res.Err != nil {
		return res
	}

	built, err := m.Build()
	if err != nil {
		res.Err = err
		return res
	}
	res.Exports = built.Exports
	res.Arguments = built.Arguments

	idx = tr.begin(PhaseEmit)
	ext := codegen.Extension(built.Program, opts.Codegen)
	res.Code = codegen.Print(built.Program, opts.Codegen)
	if opts.declarations() {
		res.Declarations = codegen.Declarations(built.Program)
	}
	tr.end(idx, PhaseEmit, ext, nil)
	res.Output, res.DeclarationsPath = outputPaths(path, ext, res.Declarations != "", opts)

	if opts.Cache != nil {
		if err := opts.Cache.Put(key, payloadFromResult(display, ext, res.Code, res.Declarations, built)); err != nil {
			log.Warn().Err(err).Msg("cache write failed")
		}
	}
	if opts.Write {
		res.write(tr)
	}
	return res
}

func (r *FileResult) fromPayload(p *DiskPayload) {
	r.Code = p.Code
	r.Declarations = p.Declarations
	r.Exports = p.Exports
	r.Arguments = p.argumentMap()
}

func cacheNote(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

func displayPath(path, baseDir string) string {
	if baseDir == "" {
		baseDir = "."
	}
	rel, err := source.RelativePath(path, baseDir)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return rel
}
