package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineIndex_Position(t *testing.T) {
	text := []byte("ab\ncd\r\nef\rg😀h")
	li := NewLineIndex(text)
	require.Equal(t, 4, li.LineCount())

	tests := []struct {
		offset int
		want   SourcePosition
	}{
		{0, SourcePosition{0, 0}},
		{2, SourcePosition{0, 2}},
		{3, SourcePosition{1, 0}},
		{5, SourcePosition{1, 2}},
		{7, SourcePosition{2, 0}},
		{10, SourcePosition{3, 0}},
		{11, SourcePosition{3, 1}},
		{15, SourcePosition{3, 3}}, // the emoji is two UTF-16 units
		{100, SourcePosition{3, 4}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, li.Position(tt.offset), "offset %d", tt.offset)
	}
}

func TestLineIndex_Lines(t *testing.T) {
	text := []byte("import a from 'a';\n   \n\t\nx\r\n")
	li := NewLineIndex(text)

	assert.Equal(t, 5, li.LineCount())
	assert.Equal(t, 0, li.LineStart(0))
	assert.Equal(t, 19, li.LineStart(1))
	assert.Equal(t, 18, li.LineEnd(0))
	assert.Equal(t, 26, li.LineEnd(3))
	assert.Equal(t, len(text), li.LineStart(4))
	assert.Equal(t, len(text), li.LineStart(99))

	assert.False(t, li.IsBlankLine(0))
	assert.True(t, li.IsBlankLine(1))
	assert.True(t, li.IsBlankLine(2))
	assert.False(t, li.IsBlankLine(3))
	assert.True(t, li.IsBlankLine(4))

	assert.True(t, li.IsLineBlankBefore(0))
	assert.False(t, li.IsLineBlankBefore(7))
	assert.True(t, li.IsLineBlankBefore(21))
}

func TestImportElement_Namespace(t *testing.T) {
	ns := ImportElement{
		ModuleSpecifierName: "fs",
		HasFromKeyword:      true,
		NamedBindings:       []NamedBinding{{Name: NamespaceName, AliasName: "fs"}},
	}
	assert.True(t, ns.IsNamespace())
	assert.Equal(t, "fs", ns.NamespaceAlias())
	assert.False(t, ns.IsSideEffect())

	named := ImportElement{
		HasFromKeyword: true,
		NamedBindings:  []NamedBinding{{Name: "a"}, {Name: "b"}},
	}
	assert.False(t, named.IsNamespace())
	assert.Empty(t, named.NamespaceAlias())

	side := ImportElement{ModuleSpecifierName: "polyfill"}
	assert.True(t, side.IsSideEffect())
}

func TestImportElement_Clone(t *testing.T) {
	orig := ImportElement{
		ModuleSpecifierName: "./a",
		NamedBindings:       []NamedBinding{{Name: "x"}},
		ImportComment: ImportComment{
			LeadingComments: []Comment{{Text: "// hi", Kind: CommentKindLine}},
		},
	}

	clone := orig.Clone()
	clone.NamedBindings[0].Name = "y"
	clone.ImportComment.LeadingComments[0].Text = "changed"

	assert.Equal(t, "x", orig.NamedBindings[0].Name)
	assert.Equal(t, "// hi", orig.ImportComment.LeadingComments[0].Text)
	assert.Nil(t, clone.ImportComment.TrailingComments)

	all := CloneElements([]ImportElement{orig})
	all[0].ModuleSpecifierName = "./b"
	assert.Equal(t, "./a", orig.ModuleSpecifierName)
	assert.Nil(t, CloneElements(nil))
}
