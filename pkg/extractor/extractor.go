package extractor

import (
	"bytes"
	"fmt"
	"log/slog"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/importsorter/pkg/model"
	"github.com/gnana997/importsorter/pkg/parser"
	"github.com/gnana997/importsorter/pkg/util"
)

// TreeParser builds a syntax tree for a file. The caller closes the tree.
type TreeParser interface {
	ParseFile(source []byte, filePath string) (*ts.Tree, error)
}

// Extractor turns source text into import elements.
//
// It is safe for concurrent use as long as the TreeParser is.
//
//	ext := extractor.New(parserManager, logger)
//	res, err := ext.Extract("src/app.ts", source)
type Extractor struct {
	parser TreeParser
	logger *slog.Logger
}

// New returns an Extractor reading trees from p.
func New(p TreeParser, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{parser: p, logger: logger}
}

// Extract parses source and collects its imports and used identifiers.
//
// A nil source is read from filePath. A non-nil source that is empty after
// trimming returns an empty result without parsing.
func (e *Extractor) Extract(filePath string, source []byte) (*Result, error) {
	lang, _ := parser.ResolveLanguage(filePath)

	if source != nil && len(bytes.TrimSpace(source)) == 0 {
		return emptyResult(filePath, lang), nil
	}
	if source == nil {
		data, err := util.ReadSource(filePath)
		if err != nil {
			return nil, err
		}
		source = data
	}

	tree, err := e.parser.ParseFile(source, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse file %s: %w", filePath, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		e.logger.Debug("parse tree contains errors", "file", filePath)
	}

	w := &walker{
		source:      source,
		lines:       model.NewLineIndex(source),
		identifiers: []string{},
	}
	w.walk(root)

	res := emptyResult(filePath, lang)
	res.UsedIdentifiers = w.identifiers

	applyFirstDeclarationRule(w.decls, w.lines)
	if len(w.decls) > 0 {
		line := firstImportLine(w.decls[0], w.lines)
		res.FirstImportLine = &line
	}

	for _, d := range w.decls {
		elem, diag := buildElement(d, source, w.lines)
		if diag != nil {
			e.logger.Warn("unsupported import declaration",
				"file", filePath,
				"line", diag.Position.Line+1,
				"reason", diag.Message)
			res.Diagnostics = append(res.Diagnostics, *diag)
			continue
		}
		res.ImportElements = append(res.ImportElements, *elem)
	}

	e.logger.Debug("extracted imports",
		"file", filePath,
		"language", lang.String(),
		"imports", len(res.ImportElements),
		"identifiers", len(res.UsedIdentifiers),
		"diagnostics", len(res.Diagnostics))

	return res, nil
}

// declaration is an import_statement found during the walk.
type declaration struct {
	node     *ts.Node
	start    int // first token
	end      int // last token, whitespace trimmed
	comments model.ImportComment
}

// applyFirstDeclarationRule keeps only the closest leading comment of the
// first declaration, and drops it when a blank line separates it from the
// declaration.
func applyFirstDeclarationRule(decls []*declaration, lines *model.LineIndex) {
	if len(decls) == 0 {
		return
	}
	first := decls[0]
	leading := first.comments.LeadingComments
	if len(leading) == 0 {
		return
	}
	last := leading[len(leading)-1]
	nextLine := lines.Position(last.Range.End).Line + 1
	if lines.Position(first.start).Line-nextLine >= 1 {
		first.comments.LeadingComments = []model.Comment{}
		return
	}
	first.comments.LeadingComments = []model.Comment{last}
}

func firstImportLine(d *declaration, lines *model.LineIndex) int {
	if n := len(d.comments.LeadingComments); n > 0 {
		return lines.Position(d.comments.LeadingComments[n-1].Range.Pos).Line
	}
	return lines.Position(d.start).Line
}
