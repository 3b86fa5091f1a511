package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ironsheep/pgm-vision/internal/labeling"
	"github.com/ironsheep/pgm-vision/internal/objects"
	"github.com/ironsheep/pgm-vision/internal/raster"
)

// Options configures Run.
type Options struct {
	// Workers is the number of images labeled concurrently. Values below 1
	// mean one.
	Workers int

	// Threshold binarizes gray inputs for tasks whose own threshold is
	// negative. Inputs that are already binary (Levels <= 1) are used as is.
	Threshold int

	// Import controls decoding of non-PGM inputs.
	Import raster.ImportOptions
}

// Result reports the outcome of one task.
type Result struct {
	Task     Task          `json:"task"`
	Objects  int           `json:"objects"`
	Rows     int           `json:"rows"`
	Cols     int           `json:"cols"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
	Failure  string        `json:"error,omitempty"`
}

func (r *Result) fail(err error) {
	r.Err = err
	r.Failure = err.Error()
}

// Run labels every task with a pool of opts.Workers goroutines. Results are in
// task order. A failing task records its error in its Result and does not stop
// the others. Cancelling ctx stops dispatch; tasks that never started carry
// ctx.Err(), and Run returns it.
func Run(ctx context.Context, tasks []Task, opts Options) ([]Result, error) {
	results := make([]Result, len(tasks))
	workers := min(max(1, opts.Workers), max(1, len(tasks)))

	next := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := range next {
				results[k] = Process(tasks[k], opts)
			}
		}()
	}

	dispatched := 0
dispatch:
	for ; dispatched < len(tasks); dispatched++ {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			break dispatch
		case next <- dispatched:
		}
	}
	close(next)
	wg.Wait()

	if dispatched < len(tasks) {
		for k := dispatched; k < len(tasks); k++ {
			results[k] = Result{Task: tasks[k]}
			results[k].fail(ctx.Err())
		}
		return results, ctx.Err()
	}
	return results, nil
}

// RunManifest runs the tasks of m. A positive workers count in the manifest
// defaults overrides opts.Workers.
func RunManifest(ctx context.Context, m *Manifest, opts Options) ([]Result, error) {
	if m.Defaults.Workers > 0 {
		opts.Workers = m.Defaults.Workers
	}
	return Run(ctx, m.Tasks(), opts)
}

// Process labels one task: import, binarize, label, then write the labeled
// image and any requested preview and object database. Each call owns its
// grid and its equivalence forest, so calls may run concurrently.
func Process(t Task, opts Options) Result {
	start := time.Now()
	res := Result{Task: t}

	g, err := raster.ImportFile(t.Input, opts.Import)
	if err != nil {
		res.fail(fmt.Errorf("%s: %w", t.Input, err))
		return res
	}
	res.Rows, res.Cols = g.Rows(), g.Cols()

	threshold := t.Threshold
	if threshold < 0 {
		threshold = opts.Threshold
	}
	if g.Levels > 1 {
		raster.Threshold(g, threshold)
	}

	out, lr := labeling.LabelBinary(g)
	res.Objects = lr.Count

	if err := writeOutputs(t, out); err != nil {
		res.fail(err)
		return res
	}

	res.Duration = time.Since(start)
	return res
}

func writeOutputs(t Task, labeled *raster.Grid) error {
	if err := os.MkdirAll(filepath.Dir(t.Output), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := raster.WriteFile(t.Output, labeled); err != nil {
		return err
	}

	if t.Preview != "" {
		if err := raster.SavePreview(t.Preview, labeled, raster.PreviewOptions{Colorize: true}); err != nil {
			return err
		}
	}

	if t.Database != "" {
		db := objects.FromLabeled(labeled)
		db.CalculateProperties()
		if err := db.SaveFile(t.Database); err != nil {
			return err
		}
	}
	return nil
}

// Summary counts successful and failed results.
func Summary(results []Result) (ok, failed int) {
	for _, r := range results {
		if r.Err != nil {
			failed++
		} else {
			ok++
		}
	}
	return ok, failed
}
