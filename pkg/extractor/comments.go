package extractor

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gnana997/importsorter/pkg/model"
)

var tripleSlashDirective = regexp.MustCompile(`///\s?<`)

// leadingComments returns the comments between a declaration's full start
// (the end of the previous token) and its first token.
//
// Comments on the same line as the previous token belong to that token, so
// collection only starts after the first line break, unless the scan starts
// at the beginning of the file.
func leadingComments(text []byte, pos int) []model.Comment {
	return scanComments(text, pos, false)
}

// trailingComments returns the comments after a declaration's end, up to the
// first line break.
func trailingComments(text []byte, pos int) []model.Comment {
	return scanComments(text, pos, true)
}

func scanComments(text []byte, pos int, trailing bool) []model.Comment {
	if pos < 0 || pos > len(text) {
		return nil
	}
	if pos == 0 && !trailing {
		pos = skipShebang(text)
	}

	var (
		out        []model.Comment
		pending    *model.Comment
		collecting = trailing || pos == 0
	)
	flush := func() {
		if pending != nil {
			out = append(out, *pending)
			pending = nil
		}
	}

scan:
	for pos < len(text) {
		switch ch := text[pos]; ch {
		case '\r', '\n':
			if ch == '\r' && pos+1 < len(text) && text[pos+1] == '\n' {
				pos++
			}
			pos++
			if trailing {
				break scan
			}
			collecting = true
			if pending != nil {
				pending.HasTrailingNewLine = true
			}
		case ' ', '\t', '\v', '\f':
			pos++
		case '/':
			if pos+1 >= len(text) || (text[pos+1] != '/' && text[pos+1] != '*') {
				break scan
			}
			start := pos
			kind := model.CommentKindLine
			newline := false
			if text[pos+1] == '/' {
				pos += 2
				for pos < len(text) {
					if text[pos] == '\n' || text[pos] == '\r' {
						newline = true
						break
					}
					pos++
				}
			} else {
				kind = model.CommentKindBlock
				pos += 2
				for pos < len(text) {
					if text[pos] == '*' && pos+1 < len(text) && text[pos+1] == '/' {
						pos += 2
						break
					}
					pos++
				}
			}
			if collecting {
				flush()
				c := newComment(text, start, pos, kind)
				c.HasTrailingNewLine = newline
				pending = &c
			}
		default:
			if ch < utf8.RuneSelf {
				break scan
			}
			r, size := utf8.DecodeRune(text[pos:])
			if r == utf8.RuneError || !isWhiteSpaceLike(r) {
				break scan
			}
			pos += size
		}
	}
	flush()
	return out
}

func newComment(text []byte, start, end int, kind model.CommentKind) model.Comment {
	raw := strings.ReplaceAll(string(text[start:end]), "\r", "")
	return model.Comment{
		Range:                  model.CommentRange{Pos: start, End: end},
		Text:                   raw,
		Kind:                   kind,
		IsTripleSlashDirective: tripleSlashDirective.MatchString(raw),
	}
}

func isWhiteSpaceLike(r rune) bool {
	return r == '\uFEFF' || unicode.IsSpace(r)
}

func skipShebang(text []byte) int {
	if len(text) < 2 || text[0] != '#' || text[1] != '!' {
		return 0
	}
	i := 2
	for i < len(text) && text[i] != '\n' && text[i] != '\r' {
		i++
	}
	return i
}
