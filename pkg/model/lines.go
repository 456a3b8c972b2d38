package model

import (
	"sort"
	"unicode/utf16"
	"unicode/utf8"
)

// LineIndex maps byte offsets of one source text to line/character positions.
//
// Line breaks are \n, \r\n and a lone \r.
type LineIndex struct {
	text   []byte
	starts []int // byte offset of the first character of each line
}

// NewLineIndex scans text once and records every line start.
func NewLineIndex(text []byte) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			starts = append(starts, i+1)
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{text: text, starts: starts}
}

// LineCount returns the number of lines; an empty text has one line.
func (li *LineIndex) LineCount() int { return len(li.starts) }

// LineStart returns the byte offset where line begins, clamped to the text.
func (li *LineIndex) LineStart(line int) int {
	if line < 0 {
		return 0
	}
	if line >= len(li.starts) {
		return len(li.text)
	}
	return li.starts[line]
}

// LineEnd returns the offset of the line's break (or the end of text).
func (li *LineIndex) LineEnd(line int) int {
	if line < 0 {
		return 0
	}
	if line+1 >= len(li.starts) {
		return len(li.text)
	}
	end := li.starts[line+1]
	if end > 0 && li.text[end-1] == '\n' {
		end--
	}
	if end > 0 && li.text[end-1] == '\r' {
		end--
	}
	return end
}

// LineOf returns the 0-based line containing offset.
func (li *LineIndex) LineOf(offset int) int {
	if offset <= 0 {
		return 0
	}
	// first start greater than offset, minus one
	return sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > offset }) - 1
}

// Position converts a byte offset into a SourcePosition.
func (li *LineIndex) Position(offset int) SourcePosition {
	if offset > len(li.text) {
		offset = len(li.text)
	}
	if offset < 0 {
		offset = 0
	}
	line := li.LineOf(offset)
	return SourcePosition{Line: line, Character: utf16Len(li.text[li.starts[line]:offset])}
}

// IsBlankLine reports whether line holds only spaces and tabs.
func (li *LineIndex) IsBlankLine(line int) bool {
	for _, c := range li.text[li.LineStart(line):li.LineEnd(line)] {
		if c != ' ' && c != '\t' && c != '\f' && c != '\v' {
			return false
		}
	}
	return true
}

// IsLineBlankBefore reports whether only whitespace precedes offset on its line.
func (li *LineIndex) IsLineBlankBefore(offset int) bool {
	start := li.LineStart(li.LineOf(offset))
	for _, c := range li.text[start:offset] {
		if c != ' ' && c != '\t' && c != '\f' && c != '\v' {
			return false
		}
	}
	return true
}

func utf16Len(b []byte) int {
	n := 0
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		b = b[size:]
		if r >= 0x10000 && r <= utf8.MaxRune {
			n += utf16.RuneLen(r)
			continue
		}
		n++
	}
	return n
}
