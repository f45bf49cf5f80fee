package runner

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/yaklabco/duic/internal/logging"
	"github.com/yaklabco/duic/pkg/compiler"
	"github.com/yaklabco/duic/pkg/fsutil"
	"github.com/yaklabco/duic/pkg/preprocessor"
)

// Runner compiles discovered files with a shared Engine.
type Runner struct {
	Engine *compiler.Engine
}

// New creates a Runner.
func New(engine *compiler.Engine) *Runner {
	return &Runner{Engine: engine}
}

// job is one file handed to a worker.
type job struct {
	path     string
	identity string
}

// Run discovers files under opts.Paths and compiles them concurrently.
// It returns a deterministic collection of FileOutcome values and aggregate stats.
//
// Files are compiled in two waves: first one path per file identity, then
// any further paths reaching an already-seen identity. The second wave
// consults the include cache, so the result does not depend on which
// worker finishes first. Each call starts with an empty cache, returned as
// Result.Guards; its entries hold only weak references to the files, which
// the Result keeps alive.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx)
	logger.Debug("discovered files", logging.FieldFilesDiscovered, len(files))

	result := &Result{
		Files:  make([]FileOutcome, 0, len(files)),
		Stats:  newStats(),
		Guards: preprocessor.NewIncludeCache(),
	}
	result.Stats.FilesDiscovered = len(files)

	if len(files) == 0 {
		return result, nil
	}

	first, repeats := partition(files)

	outcomes := make(map[string]FileOutcome, len(files))
	r.process(ctx, result.Guards, first, opts.Jobs, outcomes)
	if len(repeats) > 0 {
		logger.Debug("compiling repeated identities", logging.FieldFiles, len(repeats))
		r.process(ctx, result.Guards, repeats, opts.Jobs, outcomes)
	}

	// Build result in deterministic order.
	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}

	logger.Debug("run complete",
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesSkipped, result.Stats.FilesSkipped,
		logging.FieldDiagnosticsTotal, result.Stats.DiagnosticsTotal,
	)

	return result, nil
}

// partition splits files into the first path for each identity and the
// remaining paths. Files whose identity cannot be resolved go first; the
// compile step reports why.
func partition(files []string) ([]job, []job) {
	seen := make(map[string]bool, len(files))
	var first, repeats []job

	for _, path := range files {
		identity, err := fsutil.Identity(path)
		if err != nil {
			first = append(first, job{path: path})
			continue
		}

		j := job{path: path, identity: identity}
		if seen[identity] {
			repeats = append(repeats, j)
			continue
		}
		seen[identity] = true
		first = append(first, j)
	}

	return first, repeats
}

// process runs jobs on a worker pool and records outcomes by path.
func (r *Runner) process(ctx context.Context, cache *preprocessor.IncludeCache, jobs []job, workers int, outcomes map[string]FileOutcome) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	// Don't use more workers than files.
	if workers > len(jobs) {
		workers = len(jobs)
	}

	workCh := make(chan job)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, cache, workCh, outCh)
		}()
	}

	// Feed work in a separate goroutine.
	go func() {
		defer close(workCh)
		for _, j := range jobs {
			select {
			case <-ctx.Done():
				return
			case workCh <- j:
			}
		}
	}()

	// Close outCh when all workers are done.
	go func() {
		wg.Wait()
		close(outCh)
	}()

	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}
}

// worker compiles files from workCh and sends outcomes to outCh.
func (r *Runner) worker(ctx context.Context, cache *preprocessor.IncludeCache, workCh <-chan job, outCh chan<- FileOutcome) {
	for j := range workCh {
		select {
		case <-ctx.Done():
			return
		default:
		}

		outcome := r.compile(ctx, cache, j)

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}

// compile handles one file, consulting and populating the include cache.
func (r *Runner) compile(ctx context.Context, cache *preprocessor.IncludeCache, j job) FileOutcome {
	outcome := FileOutcome{Path: j.path, Identity: j.identity}
	ctx = logging.WithFields(ctx, logging.FieldIdentity, j.identity)

	if j.identity != "" && cache.ShouldSkip(j.identity) {
		outcome.Skipped = true
		outcome.SkipReason = "include-guarded file already compiled as " + j.identity
		logging.FromContext(ctx).Debug("skipped guarded file", logging.FieldPath, j.path)
		return outcome
	}

	unit, err := r.Engine.CompileFile(ctx, j.path)
	if err != nil {
		outcome.Error = err
		return outcome
	}
	outcome.Unit = unit

	if j.identity != "" && unit.Guarded() && !unit.Failed() {
		cache.Store(j.identity, preprocessor.NewGuardItem(unit.File(), unit.Guard.Macro))
	}

	return outcome
}
