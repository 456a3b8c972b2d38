// Package model defines the import records shared by the extractor, the
// sorter, the renderer and the runner.
package model

import (
	"github.com/gnana997/importsorter/pkg/config"
)

// SourcePosition is a 0-based line/character pair.
//
// Character counts UTF-16 code units from the start of the line, which is the
// grid editors use. For ASCII text it equals the byte column.
type SourcePosition struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// CommentRange is a half-open byte range [Pos, End) into the source text.
type CommentRange struct {
	Pos int `json:"pos"`
	End int `json:"end"`
}

// Len returns the number of bytes covered by the range.
func (r CommentRange) Len() int { return r.End - r.Pos }

// CommentKind identifies the comment syntax.
type CommentKind string

const (
	CommentKindLine  CommentKind = "line"  // // comment
	CommentKindBlock CommentKind = "block" // /* comment */
)

// Comment is a leading or trailing comment attached to an import.
type Comment struct {
	Range CommentRange `json:"range"`
	Text  string       `json:"text"` // raw text with every \r removed
	Kind  CommentKind  `json:"kind"`

	HasTrailingNewLine     bool `json:"has_trailing_new_line"`
	IsTripleSlashDirective bool `json:"is_triple_slash_directive"`
}

// ImportComment holds the comments around one import declaration.
type ImportComment struct {
	LeadingComments  []Comment `json:"leading_comments"`
	TrailingComments []Comment `json:"trailing_comments"`
}

// NamedBinding is one specifier of an import clause.
//
// Name "*" with an AliasName is the namespace form (import * as X).
// An empty AliasName means no alias.
type NamedBinding struct {
	Name       string `json:"name"`
	AliasName  string `json:"alias_name,omitempty"`
	IsTypeOnly bool   `json:"is_type_only,omitempty"` // import { type Foo }
}

// NamespaceName is the binding name used for import * as X.
const NamespaceName = "*"

// ImportElement is one extracted import declaration.
type ImportElement struct {
	ModuleSpecifierName string         `json:"module_specifier_name"`
	StartPosition       SourcePosition `json:"start_position"`
	EndPosition         SourcePosition `json:"end_position"`
	StartOffset         int            `json:"start_offset"` // byte offset of the first character
	EndOffset           int            `json:"end_offset"`   // byte offset just past the last non-space character

	// HasFromKeyword is false for side-effect imports (import 'x').
	HasFromKeyword    bool           `json:"has_from_keyword"`
	DefaultImportName string         `json:"default_import_name,omitempty"`
	NamedBindings     []NamedBinding `json:"named_bindings"`
	ImportComment     ImportComment  `json:"import_comment"`

	IsTypeOnly bool   `json:"is_type_only,omitempty"` // import type ...
	Attributes string `json:"attributes,omitempty"`   // raw "with { ... }" text
}

// IsNamespace reports whether the element binds a single * as X.
func (e *ImportElement) IsNamespace() bool {
	return len(e.NamedBindings) == 1 && e.NamedBindings[0].Name == NamespaceName
}

// NamespaceAlias returns X for import * as X, or "".
func (e *ImportElement) NamespaceAlias() string {
	if !e.IsNamespace() {
		return ""
	}
	return e.NamedBindings[0].AliasName
}

// IsSideEffect reports whether the element is import 'x' with no bindings.
func (e *ImportElement) IsSideEffect() bool {
	return !e.HasFromKeyword
}

// Clone returns a deep copy of the element.
func (e ImportElement) Clone() ImportElement {
	out := e
	if e.NamedBindings != nil {
		out.NamedBindings = append([]NamedBinding(nil), e.NamedBindings...)
	}
	out.ImportComment = ImportComment{
		LeadingComments:  cloneComments(e.ImportComment.LeadingComments),
		TrailingComments: cloneComments(e.ImportComment.TrailingComments),
	}
	return out
}

func cloneComments(in []Comment) []Comment {
	if in == nil {
		return nil
	}
	return append([]Comment(nil), in...)
}

// CloneElements deep-copies a slice of elements.
func CloneElements(in []ImportElement) []ImportElement {
	if in == nil {
		return nil
	}
	out := make([]ImportElement, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}

// ImportElementGroup is one output group produced by the sorter.
type ImportElementGroup struct {
	Elements                     []ImportElement `json:"elements"`
	NumberOfEmptyLinesAfterGroup int             `json:"number_of_empty_lines_after_group"`
	OrderLevel                   int             `json:"order_level"`
	DisableSort                  bool            `json:"disable_sort"`

	// CustomOrderRule is nil for the default bucket and for unruled sorting.
	CustomOrderRule *config.CustomOrderRule `json:"custom_order_rule,omitempty"`
}
