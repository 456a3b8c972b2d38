package extractor

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/importsorter/pkg/model"
)

// buildElement maps an import_statement onto an ImportElement.
//
// The clause shapes understood are: none (side effect), a default name, a
// namespace import, a named list, and default plus either of the last two.
// Anything else yields a Diagnostic and no element.
func buildElement(d *declaration, source []byte, lines *model.LineIndex) (*model.ImportElement, *Diagnostic) {
	node := d.node
	elem := &model.ImportElement{
		StartPosition: lines.Position(d.start),
		EndPosition:   lines.Position(d.end),
		StartOffset:   d.start,
		EndOffset:     d.end,
		NamedBindings: []model.NamedBinding{},
		ImportComment: d.comments,
	}
	unsupported := func(reason string) (*model.ImportElement, *Diagnostic) {
		return nil, &Diagnostic{
			Message:  reason,
			Text:     string(source[d.start:d.end]),
			Position: elem.StartPosition,
		}
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "type":
			if !child.IsNamed() {
				elem.IsTypeOnly = true
			}
		case "import_clause":
			if reason := readClause(child, source, elem); reason != "" {
				return unsupported(reason)
			}
		case "import_require_clause":
			return unsupported("import-equals require clause is not supported")
		case "import_attribute":
			elem.Attributes = strings.TrimSpace(child.Utf8Text(source))
		}
	}

	src := node.ChildByFieldName("source")
	if src == nil {
		return unsupported("import declaration has no module specifier")
	}
	elem.ModuleSpecifierName = moduleSpecifier(src, source)
	return elem, nil
}

func readClause(clause *ts.Node, source []byte, elem *model.ImportElement) string {
	for i := uint(0); i < clause.ChildCount(); i++ {
		child := clause.Child(i)
		if child == nil || !child.IsNamed() {
			continue
		}
		switch child.Kind() {
		case "identifier":
			elem.HasFromKeyword = true
			elem.DefaultImportName = child.Utf8Text(source)
		case "namespace_import":
			alias := lastNamedChild(child, "identifier")
			if alias == nil {
				return "namespace import without a local name"
			}
			elem.HasFromKeyword = true
			elem.NamedBindings = append(elem.NamedBindings, model.NamedBinding{
				Name:      model.NamespaceName,
				AliasName: alias.Utf8Text(source),
			})
		case "named_imports":
			elem.HasFromKeyword = true
			for j := uint(0); j < child.ChildCount(); j++ {
				spec := child.Child(j)
				if spec == nil || spec.Kind() != "import_specifier" {
					continue
				}
				binding, ok := readSpecifier(spec, source)
				if !ok {
					return "import specifier without a name"
				}
				elem.NamedBindings = append(elem.NamedBindings, binding)
			}
		case "comment", "html_comment":
		default:
			return fmt.Sprintf("unexpected %s in import clause", child.Kind())
		}
	}
	return ""
}

func readSpecifier(spec *ts.Node, source []byte) (model.NamedBinding, bool) {
	name := spec.ChildByFieldName("name")
	if name == nil {
		return model.NamedBinding{}, false
	}
	binding := model.NamedBinding{Name: name.Utf8Text(source)}
	if alias := spec.ChildByFieldName("alias"); alias != nil {
		binding.AliasName = alias.Utf8Text(source)
	}
	for i := uint(0); i < spec.ChildCount(); i++ {
		child := spec.Child(i)
		if child != nil && !child.IsNamed() && child.Kind() == "type" && child.StartByte() < name.StartByte() {
			binding.IsTypeOnly = true
		}
	}
	return binding, true
}

func lastNamedChild(node *ts.Node, kind string) *ts.Node {
	var found *ts.Node
	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child != nil && child.Kind() == kind {
			found = child
		}
	}
	return found
}

// moduleSpecifier returns the cooked value of a string literal, or the
// trimmed raw text of anything else.
func moduleSpecifier(node *ts.Node, source []byte) string {
	raw := node.Utf8Text(source)
	if node.Kind() != "string" || len(raw) < 2 {
		return strings.TrimSpace(raw)
	}
	return unquote(raw[1 : len(raw)-1])
}

// unquote decodes the escape sequences of a JS string literal body.
// Malformed escapes keep their text without the backslash.
func unquote(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			i++
			continue
		}
		i++
		rest := s[i:]
		switch rest[0] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0':
			b.WriteByte(0)
		case '\n':
			// line continuation
		case '\r':
			if strings.HasPrefix(rest, "\r\n") {
				i++
			}
		case 'x':
			if r, ok := parseHex(rest[1:], 2); ok {
				b.WriteRune(r)
				i += 3
				continue
			}
			b.WriteByte('x')
		case 'u':
			if r, n, ok := unicodeEscape(rest[1:]); ok {
				i += 1 + n
				if utf16.IsSurrogate(r) && strings.HasPrefix(s[i:], "\\u") {
					if lo, m, ok := unicodeEscape(s[i+2:]); ok {
						if pair := utf16.DecodeRune(r, lo); pair != utf8.RuneError {
							b.WriteRune(pair)
							i += 2 + m
							continue
						}
					}
				}
				b.WriteRune(r)
				continue
			}
			b.WriteByte('u')
		default:
			r, size := utf8.DecodeRuneInString(rest)
			if r != '\u2028' && r != '\u2029' {
				b.WriteString(rest[:size])
			}
			i += size
			continue
		}
		i++
	}
	return b.String()
}

// unicodeEscape reads the part of a \u escape after the "u": either four
// hex digits or a braced code point. n is the number of bytes consumed.
func unicodeEscape(s string) (r rune, n int, ok bool) {
	if strings.HasPrefix(s, "{") {
		end := strings.IndexByte(s, '}')
		if end < 2 || end > 7 {
			return 0, 0, false
		}
		r, ok = parseHex(s[1:end], end-1)
		if !ok || r > unicode.MaxRune {
			return 0, 0, false
		}
		return r, end + 1, true
	}
	r, ok = parseHex(s, 4)
	return r, 4, ok
}

func parseHex(s string, digits int) (rune, bool) {
	if len(s) < digits {
		return 0, false
	}
	v, err := strconv.ParseUint(s[:digits], 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}
