package runner

import (
	"bytes"
	"sort"
	"strings"

	"github.com/gnana997/importsorter/pkg/model"
)

// redundantRanges returns the merged source ranges covered by elems and
// their comments. Each range swallows the rest of its last line and the
// blank lines after it, so deleting all ranges leaves no gaps behind.
func redundantRanges(text []byte, lines *model.LineIndex, elems []model.ImportElement) []model.CommentRange {
	if len(elems) == 0 {
		return nil
	}

	ranges := make([]model.CommentRange, 0, len(elems))
	for i := range elems {
		ranges = append(ranges, elementRange(text, lines, &elems[i]))
	}
	sort.SliceStable(ranges, func(i, j int) bool { return ranges[i].Pos < ranges[j].Pos })

	merged := ranges[:1]
	for _, r := range ranges[1:] {
		last := &merged[len(merged)-1]
		if last.End >= r.Pos {
			last.End = max(last.End, r.End)
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

func elementRange(text []byte, lines *model.LineIndex, e *model.ImportElement) model.CommentRange {
	start := e.StartOffset
	if lead := e.ImportComment.LeadingComments; len(lead) > 0 && lead[0].Range.Pos < start {
		start = lead[0].Range.Pos
	}
	if lines.IsLineBlankBefore(start) {
		start = lines.LineStart(lines.LineOf(start))
	}

	end := e.EndOffset
	for _, c := range e.ImportComment.TrailingComments {
		end = max(end, c.Range.End)
	}

	line := lines.LineOf(max(end-1, start))
	if !isBlank(text[end:lines.LineEnd(line)]) {
		// code follows on the same line; keep it
		return model.CommentRange{Pos: start, End: end}
	}

	next := line + 1
	for next < lines.LineCount() && lines.IsBlankLine(next) {
		next++
	}
	if next >= lines.LineCount() {
		return model.CommentRange{Pos: start, End: len(text)}
	}
	return model.CommentRange{Pos: start, End: lines.LineStart(next)}
}

// rewrite replaces the ranges with importText, placed where the first range
// starts. Text between ranges moves below the imports.
func rewrite(text []byte, ranges []model.CommentRange, importText, newline string) string {
	var rest strings.Builder
	cursor := ranges[0].Pos
	for _, r := range ranges {
		rest.Write(text[cursor:r.Pos])
		cursor = r.End
	}
	rest.Write(text[cursor:])

	prefix := string(text[:ranges[0].Pos])
	if newline != "\n" {
		importText = strings.ReplaceAll(importText, "\n", newline)
	}

	remainder := rest.String()
	if isBlank([]byte(remainder)) {
		return prefix + strings.TrimRight(importText, "\r\n") + newline
	}
	return prefix + importText + newline + remainder
}

func isBlank(b []byte) bool {
	for _, c := range b {
		switch c {
		case ' ', '\t', '\f', '\v', '\r', '\n':
		default:
			return false
		}
	}
	return true
}

// detectNewline returns "\r\n" when the text uses CRLF line breaks.
func detectNewline(text []byte) string {
	i := bytes.IndexByte(text, '\n')
	if i > 0 && text[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
