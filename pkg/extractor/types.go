// Package extractor reads the import declarations of a TypeScript or
// JavaScript file, together with their comments and exact positions.
package extractor

import (
	"github.com/gnana997/importsorter/pkg/model"
	"github.com/gnana997/importsorter/pkg/parser"
)

// Result is everything extracted from one source file.
type Result struct {
	Path     string          `json:"path"`
	Language parser.Language `json:"-"`

	// ImportElements are in source order. Unsupported declarations are
	// missing here and reported in Diagnostics instead.
	ImportElements []model.ImportElement `json:"import_elements"`

	// UsedIdentifiers lists every identifier token outside import
	// declarations, in encounter order, duplicates kept.
	UsedIdentifiers []string `json:"used_identifiers"`

	// FirstImportLine is the 0-based line where the import block starts,
	// nil when the file has no imports.
	FirstImportLine *int `json:"first_import_line"`

	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// Diagnostic describes a declaration that was dropped.
type Diagnostic struct {
	Message  string               `json:"message"`
	Text     string               `json:"text"`
	Position model.SourcePosition `json:"position"`
}

func emptyResult(path string, lang parser.Language) *Result {
	return &Result{
		Path:            path,
		Language:        lang,
		ImportElements:  []model.ImportElement{},
		UsedIdentifiers: []string{},
	}
}
