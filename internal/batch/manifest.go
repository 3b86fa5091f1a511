// Package batch labels many images at once, either from a TOML manifest or
// by watching a directory for new files.
package batch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

var (
	// ErrNoManifest is returned when the manifest file does not exist.
	ErrNoManifest = errors.New("batch: manifest not found")
	// ErrNoJobs is returned for a manifest without [[job]] entries.
	ErrNoJobs = errors.New("batch: manifest has no jobs")
	// ErrInvalidJob is returned for a job without an input path.
	ErrInvalidJob = errors.New("batch: invalid job")
)

// Defaults apply to every job that does not override them.
type Defaults struct {
	Threshold int    `toml:"threshold"`
	OutputDir string `toml:"output_dir"`
	Workers   int    `toml:"workers"`
	Preview   bool   `toml:"preview"`
	Database  bool   `toml:"database"`
}

// Job labels one input image.
type Job struct {
	Name      string `toml:"name"`
	Input     string `toml:"input"`
	Output    string `toml:"output"`
	Threshold *int   `toml:"threshold"`
	Preview   *bool  `toml:"preview"`
	Database  *bool  `toml:"database"`
}

// Manifest is the parsed batch file.
type Manifest struct {
	Defaults Defaults `toml:"defaults"`
	Jobs     []Job    `toml:"job"`

	// Dir is the directory relative paths are resolved against.
	Dir string `toml:"-"`
}

// Task is a Job with every default applied and every path resolved.
type Task struct {
	Name      string `json:"name"`
	Input     string `json:"input"`
	Output    string `json:"output"`
	Threshold int    `json:"threshold"`
	Preview   string `json:"preview,omitempty"`
	Database  string `json:"database,omitempty"`
}

// LoadManifest reads and validates a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoManifest, path)
		}
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return ParseManifest(data, filepath.Dir(path))
}

// ParseManifest decodes manifest data. dir anchors relative paths.
func ParseManifest(data []byte, dir string) (*Manifest, error) {
	m := &Manifest{Defaults: Defaults{Threshold: -1}}
	if err := toml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	m.Dir = dir

	if len(m.Jobs) == 0 {
		return nil, ErrNoJobs
	}
	for k, j := range m.Jobs {
		if strings.TrimSpace(j.Input) == "" {
			return nil, fmt.Errorf("%w: job %d has no input", ErrInvalidJob, k+1)
		}
	}

	// Jobs run concurrently; no two may write the same file.
	seen := make(map[string]int, len(m.Jobs))
	for k, t := range m.Tasks() {
		if prev, ok := seen[t.Output]; ok {
			return nil, fmt.Errorf("%w: jobs %d and %d both write %s", ErrInvalidJob, prev+1, k+1, t.Output)
		}
		seen[t.Output] = k
	}
	return m, nil
}

// Tasks expands every job into a Task, in manifest order.
func (m *Manifest) Tasks() []Task {
	tasks := make([]Task, len(m.Jobs))
	for k, j := range m.Jobs {
		tasks[k] = m.task(j)
	}
	return tasks
}

func (m *Manifest) task(j Job) Task {
	input := m.resolve(j.Input)
	name := j.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	}

	output := j.Output
	if output == "" {
		output = filepath.Join(m.Defaults.OutputDir, name+outputSuffix+".pgm")
	}
	output = m.resolve(output)

	t := Task{Name: name, Input: input, Output: output, Threshold: m.Defaults.Threshold}
	if j.Threshold != nil {
		t.Threshold = *j.Threshold
	}

	preview := m.Defaults.Preview
	if j.Preview != nil {
		preview = *j.Preview
	}
	if preview {
		t.Preview = sibling(output, ".png")
	}

	database := m.Defaults.Database
	if j.Database != nil {
		database = *j.Database
	}
	if database {
		t.Database = sibling(output, ".txt")
	}
	return t
}

func (m *Manifest) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(m.Dir, path)
}

// sibling swaps the extension of path for ext.
func sibling(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// outputSuffix marks files written by this package.
const outputSuffix = ".labels"

// IsOutput reports whether path looks like a labeled image or preview
// written by Process.
func IsOutput(path string) bool {
	base := filepath.Base(path)
	return strings.HasSuffix(strings.TrimSuffix(base, filepath.Ext(base)), outputSuffix)
}

// TaskFor builds the task Watch runs for a single file: the labeled image
// goes to outDir as <name>.labels.pgm with the default threshold.
func TaskFor(path, outDir string, preview bool) Task {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	output := filepath.Join(outDir, name+outputSuffix+".pgm")
	t := Task{Name: name, Input: path, Output: output, Threshold: -1}
	if preview {
		t.Preview = sibling(output, ".png")
	}
	return t
}
