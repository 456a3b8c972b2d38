// Package runner sorts the imports of one file end to end: extract, sort,
// render, then replace the original declarations in the source text.
package runner

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gnana997/importsorter/pkg/config"
	"github.com/gnana997/importsorter/pkg/extractor"
	"github.com/gnana997/importsorter/pkg/metrics"
	"github.com/gnana997/importsorter/pkg/model"
	"github.com/gnana997/importsorter/pkg/parser"
	"github.com/gnana997/importsorter/pkg/sorter"
	"github.com/gnana997/importsorter/pkg/util"
)

// Extractor reads import elements from a file.
type Extractor interface {
	Extract(filePath string, source []byte) (*extractor.Result, error)
}

// Sorter groups and orders import elements.
type Sorter interface {
	Sort(elems []model.ImportElement) (*sorter.Result, error)
}

// Renderer formats sorted groups.
type Renderer interface {
	Render(groups []model.ImportElementGroup) (string, error)
}

// Outcome is the result of processing one file.
type Outcome struct {
	Path string `json:"path"`

	// Text is the rewritten source, or the original when nothing changed.
	Text       string `json:"text"`
	ImportText string `json:"import_text"`
	Changed    bool   `json:"changed"`
	Skipped    bool   `json:"skipped,omitempty"`

	// Ranges are the merged source ranges replaced by ImportText.
	Ranges      []model.CommentRange       `json:"ranges"`
	Elements    []model.ImportElement      `json:"elements"`
	Groups      []model.ImportElementGroup `json:"groups"`
	Duplicates  []model.ImportElement      `json:"duplicates"`
	Diagnostics []extractor.Diagnostic     `json:"diagnostics,omitempty"`
}

// Runner wires an extractor, a sorter and a renderer together.
type Runner struct {
	extractor Extractor
	sorter    Sorter
	renderer  Renderer
	exclude   config.Exclusions
	logger    *slog.Logger
}

// New returns a Runner. The Exclude patterns of general are compiled here.
func New(ext Extractor, s Sorter, r Renderer, general config.GeneralConfig, logger *slog.Logger) (*Runner, error) {
	if logger == nil {
		logger = slog.Default()
	}
	exclude, err := general.CompileExclude()
	if err != nil {
		return nil, err
	}
	return &Runner{extractor: ext, sorter: s, renderer: r, exclude: exclude, logger: logger}, nil
}

// IsExcluded reports whether path matches an exclude pattern.
func (r *Runner) IsExcluded(path string) bool {
	return r.exclude.Match(path)
}

// Process sorts the imports of source. It never touches the file system
// unless source is nil, in which case the extractor reads path.
func (r *Runner) Process(path string, source []byte) (*Outcome, error) {
	started := time.Now()
	lang, _ := parser.ResolveLanguage(path)
	defer func() {
		metrics.ProcessDuration.WithLabelValues(lang.String()).Observe(time.Since(started).Seconds())
	}()

	if r.IsExcluded(path) {
		r.logger.Debug("file excluded", "file", path)
		metrics.FilesProcessedTotal.WithLabelValues(metrics.ResultSkipped).Inc()
		return &Outcome{Path: path, Text: string(source), Skipped: true}, nil
	}

	if source == nil {
		data, err := util.ReadSource(path)
		if err != nil {
			metrics.FilesProcessedTotal.WithLabelValues(metrics.ResultFailed).Inc()
			return nil, err
		}
		source = data
	}

	out, err := r.process(path, source)
	if err != nil {
		metrics.FilesProcessedTotal.WithLabelValues(metrics.ResultFailed).Inc()
		return nil, err
	}

	metrics.ImportsExtractedTotal.Add(float64(len(out.Elements)))
	metrics.DuplicatesJoinedTotal.Add(float64(len(out.Duplicates)))
	metrics.DiagnosticsTotal.Add(float64(len(out.Diagnostics)))
	if out.Changed {
		metrics.FilesProcessedTotal.WithLabelValues(metrics.ResultChanged).Inc()
	} else {
		metrics.FilesProcessedTotal.WithLabelValues(metrics.ResultUnchanged).Inc()
	}
	return out, nil
}

func (r *Runner) process(path string, source []byte) (*Outcome, error) {
	out := &Outcome{
		Path:       path,
		Text:       string(source),
		Ranges:     []model.CommentRange{},
		Elements:   []model.ImportElement{},
		Groups:     []model.ImportElementGroup{},
		Duplicates: []model.ImportElement{},
	}

	res, err := r.extractor.Extract(path, source)
	if err != nil {
		return nil, fmt.Errorf("failed to extract imports from %s: %w", path, err)
	}
	out.Diagnostics = res.Diagnostics
	if len(res.ImportElements) == 0 {
		return out, nil
	}
	out.Elements = res.ImportElements

	sorted, err := r.sorter.Sort(res.ImportElements)
	if err != nil {
		return nil, fmt.Errorf("failed to sort imports of %s: %w", path, err)
	}
	out.Groups = sorted.Groups
	out.Duplicates = sorted.Duplicates

	importText, err := r.renderer.Render(sorted.Groups)
	if err != nil {
		return nil, fmt.Errorf("failed to render imports of %s: %w", path, err)
	}
	out.ImportText = importText

	redundant := append(sorted.Elements(), sorted.Duplicates...)
	lines := model.NewLineIndex(source)
	out.Ranges = redundantRanges(source, lines, redundant)
	out.Text = rewrite(source, out.Ranges, importText, detectNewline(source))
	out.Changed = out.Text != string(source)

	r.logger.Debug("sorted imports",
		"file", path,
		"imports", len(res.ImportElements),
		"groups", len(sorted.Groups),
		"duplicates", len(sorted.Duplicates),
		"changed", out.Changed)
	return out, nil
}

// ProcessFile reads path, processes it and, when write is set and the text
// changed, writes the result back.
func (r *Runner) ProcessFile(path string, write bool) (*Outcome, error) {
	if r.IsExcluded(path) {
		return r.Process(path, nil)
	}
	source, err := util.ReadSource(path)
	if err != nil {
		metrics.FilesProcessedTotal.WithLabelValues(metrics.ResultFailed).Inc()
		return nil, err
	}

	out, err := r.Process(path, source)
	if err != nil {
		return nil, err
	}
	if write && out.Changed {
		if err := util.WriteSource(path, []byte(out.Text)); err != nil {
			return nil, err
		}
		r.logger.Info("imports sorted", "file", path)
	}
	return out, nil
}
