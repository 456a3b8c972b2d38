// Package workspace sorts imports across a directory tree, either once in
// parallel or continuously as files change.
package workspace

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gnana997/importsorter/pkg/runner"
)

// Processor sorts one file. *runner.Runner implements it.
type Processor interface {
	Process(path string, source []byte) (*runner.Outcome, error)
	ProcessFile(path string, write bool) (*runner.Outcome, error)
}

// Options configures file discovery and directory sorting.
type Options struct {
	// Include are doublestar patterns matched against slash-separated paths
	// relative to the root. Empty means DefaultInclude.
	Include []string

	// Exclude patterns skip matching files and whole directories.
	Exclude []string

	// Write stores sorted files back to disk. Without it files are only checked.
	Write bool

	// Workers is the number of parallel workers; 0 picks a CPU based default.
	Workers int
}

// DefaultInclude matches TypeScript sources.
var DefaultInclude = []string{"**/*.{ts,tsx}"}

// DefaultExclude skips dependency and build output directories.
var DefaultExclude = []string{"**/node_modules/**", "**/.git/**", "**/dist/**"}

// DefaultOptions returns options that check TypeScript files without writing.
func DefaultOptions() Options {
	return Options{
		Include: append([]string(nil), DefaultInclude...),
		Exclude: append([]string(nil), DefaultExclude...),
	}
}

// Stats summarizes a SortDirectory run.
type Stats struct {
	Discovered int `json:"discovered"`
	Changed    int `json:"changed"`
	Unchanged  int `json:"unchanged"`
	Skipped    int `json:"skipped"`
	Failed     int `json:"failed"`

	// ChangedFiles lists the files whose imports were (or would be) rewritten, sorted.
	ChangedFiles []string    `json:"changed_files"`
	Errors       []FileError `json:"errors,omitempty"`

	Cancelled bool          `json:"cancelled,omitempty"`
	Duration  time.Duration `json:"duration"`
}

// FileError is a failure to process one file.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e FileError) Unwrap() error { return e.Err }

func (e FileError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Path  string `json:"path"`
		Error string `json:"error"`
	}{e.Path, fmt.Sprint(e.Err)})
}

// ProgressCallback is called after every processed file.
type ProgressCallback func(done, total int, path string)
