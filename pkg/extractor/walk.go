package extractor

import (
	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/importsorter/pkg/model"
)

// identifierKinds are the named token kinds reported as used identifiers.
var identifierKinds = map[string]bool{
	"identifier":                            true,
	"type_identifier":                       true,
	"property_identifier":                   true,
	"shorthand_property_identifier":         true,
	"shorthand_property_identifier_pattern": true,
	"statement_identifier":                  true,
}

func isCommentKind(kind string) bool {
	return kind == "comment" || kind == "html_comment"
}

type walker struct {
	source      []byte
	lines       *model.LineIndex
	decls       []*declaration
	identifiers []string
}

// walk visits node's children depth first. Import statements are recorded
// and not descended into.
func (w *walker) walk(node *ts.Node) {
	// full start of the next child: end of the previous non-comment token
	prevEnd := int(node.StartByte())
	if node.Parent() == nil {
		prevEnd = 0
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		kind := child.Kind()

		switch {
		case kind == "import_statement":
			prevEnd = w.record(child, prevEnd)
			continue
		case isCommentKind(kind):
			continue
		default:
			if child.IsNamed() && identifierKinds[kind] {
				w.identifiers = append(w.identifiers, child.Utf8Text(w.source))
			}
			w.walk(child)
		}
		prevEnd = int(child.EndByte())
	}
}

func (w *walker) record(node *ts.Node, fullStart int) int {
	start := int(node.StartByte())
	end := declarationEnd(node, w.source)

	w.decls = append(w.decls, &declaration{
		node:  node,
		start: start,
		end:   end,
		comments: model.ImportComment{
			LeadingComments:  nonNil(leadingComments(w.source, fullStart)),
			TrailingComments: nonNil(trailingComments(w.source, end)),
		},
	})
	return end
}

// declarationEnd is the end of the last real token of node. Zero-width
// automatic semicolons and the whitespace they may cover are excluded.
func declarationEnd(node *ts.Node, source []byte) int {
	end := int(node.StartByte())
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil || isCommentKind(child.Kind()) || child.EndByte() == child.StartByte() {
			continue
		}
		if e := int(child.EndByte()); e > end {
			end = e
		}
	}
	if end == int(node.StartByte()) {
		end = int(node.EndByte())
	}
	for end > 0 && isSpace(source[end-1]) {
		end--
	}
	return end
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func nonNil(c []model.Comment) []model.Comment {
	if c == nil {
		return []model.Comment{}
	}
	return c
}
