package renderer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gnana997/importsorter/pkg/config"
	"github.com/gnana997/importsorter/pkg/model"
)

// style is an ImportStringConfig resolved into the pieces statement needs.
type style struct {
	indent      string
	indentWidth int
	quote       string
	limit       int
	byCount     bool
	comma       config.TrailingComma
	semicolon   string

	emptyLinesAfterAll int
}

func newStyle(cfg config.ImportStringConfig) *style {
	s := &style{
		indent:             strings.Repeat(" ", cfg.TabSize),
		indentWidth:        cfg.TabSize,
		quote:              "'",
		limit:              cfg.MaximumNumberOfImportExpressionsPerLine.Count,
		byCount:            cfg.MaximumNumberOfImportExpressionsPerLine.Type == config.LineLimitMaxCount,
		comma:              cfg.TrailingComma,
		emptyLinesAfterAll: max(cfg.NumberOfEmptyLinesAfterAllImports, 0),
	}
	if cfg.TabType == config.TabTypeTab {
		s.indent = "\t"
	}
	if cfg.QuoteMark == config.QuoteMarkDouble {
		s.quote = `"`
	}
	if cfg.HasSemicolon {
		s.semicolon = ";"
	}
	return s
}

// statement renders e with its comments. Leading comments sit on their own
// lines, trailing comments follow the statement after one space.
func (s *style) statement(e *model.ImportElement) string {
	var b strings.Builder
	for _, c := range e.ImportComment.LeadingComments {
		b.WriteString(c.Text)
		b.WriteByte('\n')
	}
	b.WriteString(s.declaration(e))
	for _, c := range e.ImportComment.TrailingComments {
		b.WriteByte(' ')
		b.WriteString(c.Text)
	}
	return b.String()
}

func (s *style) declaration(e *model.ImportElement) string {
	from := s.quoted(e.ModuleSpecifierName)
	if e.Attributes != "" {
		from += " " + e.Attributes
	}
	from += s.semicolon

	if !e.HasFromKeyword {
		return "import " + from
	}

	head := "import "
	if e.IsTypeOnly {
		head += "type "
	}

	if e.IsNamespace() {
		parts := make([]string, 0, 2)
		if e.DefaultImportName != "" {
			parts = append(parts, e.DefaultImportName)
		}
		parts = append(parts, "* as "+e.NamespaceAlias())
		return head + strings.Join(parts, ", ") + " from " + from
	}

	if len(e.NamedBindings) == 0 {
		if e.DefaultImportName != "" {
			return head + e.DefaultImportName + " from " + from
		}
		return head + "{} from " + from
	}

	if e.DefaultImportName != "" {
		head += e.DefaultImportName + ", "
	}
	items := make([]string, len(e.NamedBindings))
	for i, nb := range e.NamedBindings {
		items[i] = binding(nb)
	}

	single := head + "{ " + strings.Join(items, ", ")
	if s.comma == config.TrailingCommaAlways {
		single += ","
	}
	single += " } from " + from
	if !s.exceeds(single, len(items)) {
		return single
	}

	var b strings.Builder
	b.WriteString(head)
	b.WriteString("{\n")
	for i, line := range s.pack(items) {
		if i > 0 {
			b.WriteString(",\n")
		}
		b.WriteString(s.indent)
		b.WriteString(strings.Join(line, ", "))
	}
	if s.comma != config.TrailingCommaNever {
		b.WriteByte(',')
	}
	b.WriteString("\n} from ")
	b.WriteString(from)
	return b.String()
}

// exceeds reports whether the single-line form must be wrapped.
func (s *style) exceeds(line string, bindings int) bool {
	if s.byCount {
		return bindings > s.limit
	}
	return s.width(line) > s.limit
}

// pack distributes items over indented lines. A line takes items while the
// indented line plus a separating comma stays within the limit, and always
// holds at least one item.
func (s *style) pack(items []string) [][]string {
	var (
		lines   [][]string
		current []string
	)
	for _, item := range items {
		candidate := append(append([]string(nil), current...), item)
		if len(current) > 0 && !s.fits(candidate) {
			lines = append(lines, current)
			current = []string{item}
			continue
		}
		current = candidate
	}
	if len(current) > 0 {
		lines = append(lines, current)
	}
	return lines
}

func (s *style) fits(line []string) bool {
	if s.byCount {
		return len(line) <= s.limit
	}
	return s.width(s.indent+strings.Join(line, ", ")+",") <= s.limit
}

// width counts runes, with a tab as wide as the configured tab size.
func (s *style) width(line string) int {
	tabs := strings.Count(line, "\t")
	return utf8.RuneCountInString(line) + tabs*(s.indentWidth-1)
}

// quoted writes spec as a string literal, escaping the quote mark, the
// backslash and characters that cannot appear raw inside a literal.
func (s *style) quoted(spec string) string {
	var b strings.Builder
	b.WriteString(s.quote)
	for _, r := range spec {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\v':
			b.WriteString(`\v`)
		case '\u2028', '\u2029':
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			switch {
			case string(r) == s.quote:
				b.WriteString(`\` + s.quote)
			case r < 0x20 || r == 0x7f:
				fmt.Fprintf(&b, `\x%02x`, r)
			default:
				b.WriteRune(r)
			}
		}
	}
	b.WriteString(s.quote)
	return b.String()
}

func binding(nb model.NamedBinding) string {
	out := nb.Name
	if nb.IsTypeOnly {
		out = "type " + out
	}
	if nb.AliasName != "" {
		out += " as " + nb.AliasName
	}
	return out
}
