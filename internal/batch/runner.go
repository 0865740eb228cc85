package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/ironsheep/page-autocrop/internal/autocrop"
	"github.com/ironsheep/page-autocrop/internal/log"
)

// SupportedExtensions are the file extensions picked up from directories.
var SupportedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// Runner autocrops files on a bounded worker pool.
type Runner struct {
	cfg     autocrop.Config
	workers int

	// Overwrite allows an output to replace its own input file.
	Overwrite bool
}

// NewRunner validates cfg and returns a runner with the given pool size.
// A non-positive workers value selects GOMAXPROCS.
func NewRunner(cfg autocrop.Config, workers int) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Runner{cfg: cfg, workers: workers}, nil
}

// Run processes jobs and blocks until every scheduled job has finished.
//
// A failing job never stops the others. Jobs whose output could land on
// another job's input or output fail before anything is written. When ctx
// is cancelled no new job starts; jobs not yet started are marked Skipped
// and ctx.Err() is returned alongside the tracker.
func (r *Runner) Run(ctx context.Context, jobs []*Job) (*Tracker, error) {
	tracker := NewTracker()
	tracker.Add(jobs...)

	collisions := OutputCollisions(jobs)
	for id, err := range collisions {
		log.Warnf("batch: %v", err)
		tracker.Finish(id, "", nil, err)
	}

	var wg sync.WaitGroup
	pool, err := ants.NewPoolWithFunc(r.workers, func(arg any) {
		job, ok := arg.(*Job)
		if !ok {
			panic("batch pool args type error")
		}
		defer wg.Done()

		if ctx.Err() != nil {
			tracker.SetStatus(job.ID, Skipped)
			return
		}
		tracker.SetStatus(job.ID, Running)
		output, result, err := CropFile(job.Input, job.OutputDir, r.cfg, r.Overwrite)
		if err != nil {
			log.Warnf("batch: %s: %v", job.Input, err)
		}
		tracker.Finish(job.ID, output, result, err)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer pool.Release()

	for _, job := range jobs {
		if ctx.Err() != nil {
			break
		}
		if collisions[job.ID] != nil {
			continue
		}
		wg.Add(1)
		if err := pool.Invoke(job); err != nil {
			wg.Done()
			tracker.Finish(job.ID, "", nil, fmt.Errorf("failed to schedule job: %w", err))
		}
	}
	wg.Wait()
	tracker.SkipUnfinished()

	p := tracker.Progress()
	log.Infof("batch: %d jobs, %d finished (%d failed), %d skipped", p.Total, p.Finished, p.Failed, p.Skipped)
	return tracker, ctx.Err()
}

// OutputPath names the file written for input inside outputDir. Cropped
// pages are PNG; pages left untouched keep their original extension
// because their bytes are copied verbatim.
func OutputPath(input, outputDir string, cropped bool) string {
	base := filepath.Base(input)
	if cropped {
		base = strings.TrimSuffix(base, filepath.Ext(base)) + ".png"
	}
	return filepath.Join(outputDir, base)
}

// CropFile autocrops one file into outputDir and returns the path written.
// Unless overwrite is set, an output that would replace input is an error.
func CropFile(input, outputDir string, cfg autocrop.Config, overwrite bool) (string, *autocrop.Analysis, error) {
	data, err := os.ReadFile(input)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read input: %w", err)
	}

	out, result, err := autocrop.AutoCrop(data, cfg)
	if err != nil {
		return "", nil, err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", nil, fmt.Errorf("failed to create output dir: %w", err)
	}
	output := OutputPath(input, outputDir, result.Cropped)
	if !overwrite && sameFile(input, output) {
		return "", result, errors.New("output would overwrite input")
	}
	if err := os.WriteFile(output, out, 0o644); err != nil {
		return "", result, fmt.Errorf("failed to write output: %w", err)
	}
	return output, result, nil
}

// ErrOutputCollision marks a job whose output path is claimed by another job.
var ErrOutputCollision = errors.New("output path collision")

// OutputCollisions checks the files jobs may write against each other and
// against every input. A job may write either OutputPath(..., true) or
// OutputPath(..., false) depending on whether its page gets cropped, so both
// are claimed. Jobs are considered in order; the first claimant keeps a
// path and later jobs that need it fail. A job may replace its own input.
// The result maps failing job IDs to their error.
func OutputCollisions(jobs []*Job) map[string]error {
	owner := make(map[string]*Job, 3*len(jobs))
	for _, j := range jobs {
		key := pathKey(j.Input)
		if _, ok := owner[key]; !ok {
			owner[key] = j
		}
	}

	failed := make(map[string]error)
	for _, j := range jobs {
		candidates := []string{
			OutputPath(j.Input, j.OutputDir, true),
			OutputPath(j.Input, j.OutputDir, false),
		}
		for _, c := range candidates {
			if other, ok := owner[pathKey(c)]; ok && other != j {
				failed[j.ID] = fmt.Errorf("%w: %s -> %s is also used by %s", ErrOutputCollision, j.Input, c, other.Input)
				break
			}
		}
		if failed[j.ID] != nil {
			continue
		}
		for _, c := range candidates {
			owner[pathKey(c)] = j
		}
	}
	return failed
}

// pathKey normalises a path for comparison.
func pathKey(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

func sameFile(a, b string) bool {
	return pathKey(a) == pathKey(b)
}

// PlanPaths expands files and directories into jobs writing to outputDir.
// Directories contribute their supported image files, non-recursively and
// sorted by name; explicit files are taken as given. An empty outputDir
// writes each output next to its input.
func PlanPaths(paths []string, outputDir string) ([]*Job, error) {
	var jobs []*Job
	newJob := func(input string) *Job {
		if outputDir == "" {
			return NewJob(input, filepath.Dir(input))
		}
		return NewJob(input, outputDir)
	}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}
		if !info.IsDir() {
			jobs = append(jobs, newJob(p))
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("failed to list directory %s: %w", p, err)
		}
		var names []string
		for _, e := range entries {
			if e.Type().IsRegular() && SupportedExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
				names = append(names, e.Name())
			}
		}
		sort.Strings(names)
		for _, name := range names {
			jobs = append(jobs, newJob(filepath.Join(p, name)))
		}
	}
	return jobs, nil
}
