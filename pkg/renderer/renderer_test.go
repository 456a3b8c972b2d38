package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/importsorter/pkg/config"
	"github.com/gnana997/importsorter/pkg/model"
	"github.com/gnana997/importsorter/pkg/util"
)

func configWith(mutate func(*config.ImportStringConfig)) config.ImportStringConfig {
	cfg := config.DefaultImportStringConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	return cfg
}

func limit(n int) func(*config.ImportStringConfig) {
	return func(c *config.ImportStringConfig) {
		c.MaximumNumberOfImportExpressionsPerLine = config.LineLimit{Count: n, Type: config.LineLimitMaxLineLength}
	}
}

func compose(fns ...func(*config.ImportStringConfig)) func(*config.ImportStringConfig) {
	return func(c *config.ImportStringConfig) {
		for _, fn := range fns {
			fn(c)
		}
	}
}

func noTrailingNewline(c *config.ImportStringConfig) { c.NumberOfEmptyLinesAfterAllImports = 0 }

func comma(tc config.TrailingComma) func(*config.ImportStringConfig) {
	return func(c *config.ImportStringConfig) { c.TrailingComma = tc }
}

func element(spec, def string, bindings ...model.NamedBinding) model.ImportElement {
	return model.ImportElement{
		ModuleSpecifierName: spec,
		HasFromKeyword:      true,
		DefaultImportName:   def,
		NamedBindings:       bindings,
	}
}

func b(name string) model.NamedBinding { return model.NamedBinding{Name: name} }

func alias(name, as string) model.NamedBinding { return model.NamedBinding{Name: name, AliasName: as} }

func single(e model.ImportElement, spacing int) []model.ImportElementGroup {
	return []model.ImportElementGroup{{Elements: []model.ImportElement{e}, NumberOfEmptyLinesAfterGroup: spacing}}
}

func mustRender(t *testing.T, cfg config.ImportStringConfig, groups []model.ImportElementGroup) string {
	t.Helper()
	r, err := NewWithConfig(cfg, util.NopLogger())
	require.NoError(t, err)
	out, err := r.Render(groups)
	require.NoError(t, err)
	return out
}

func TestRender_Fixtures(t *testing.T) {
	angular := element("@angular/core", "", b("ChangeDetectionStrategy"), b("DebugElement"))

	tests := []struct {
		name   string
		mutate func(*config.ImportStringConfig)
		groups []model.ImportElementGroup
		want   string
	}{
		{
			name:   "default with wrapped bindings",
			mutate: compose(noTrailingNewline, limit(23)),
			groups: single(element("createString.ts", "t", b("B"), alias("a", "cc"), b("ac")), 3),
			want:   "import t, {\n    B, a as cc, ac\n} from 'createString.ts';",
		},
		{
			name:   "fits at limit",
			mutate: compose(noTrailingNewline, limit(70)),
			groups: single(angular, 0),
			want:   "import { ChangeDetectionStrategy, DebugElement } from '@angular/core';",
		},
		{
			name:   "one over limit wraps",
			mutate: compose(noTrailingNewline, limit(69)),
			groups: single(angular, 0),
			want:   "import {\n    ChangeDetectionStrategy, DebugElement\n} from '@angular/core';",
		},
		{
			name:   "always comma on one line",
			mutate: compose(comma(config.TrailingCommaAlways), limit(71)),
			groups: single(angular, 0),
			want:   "import { ChangeDetectionStrategy, DebugElement, } from '@angular/core';\n",
		},
		{
			name:   "always comma wrapped",
			mutate: compose(comma(config.TrailingCommaAlways), limit(70)),
			groups: single(angular, 0),
			want:   "import {\n    ChangeDetectionStrategy, DebugElement,\n} from '@angular/core';\n",
		},
		{
			name:   "multiLine comma on one line",
			mutate: compose(comma(config.TrailingCommaMultiLine), limit(70)),
			groups: single(angular, 0),
			want:   "import { ChangeDetectionStrategy, DebugElement } from '@angular/core';\n",
		},
		{
			name:   "multiLine comma wrapped",
			mutate: compose(comma(config.TrailingCommaMultiLine), limit(69)),
			groups: single(angular, 0),
			want:   "import {\n    ChangeDetectionStrategy, DebugElement,\n} from '@angular/core';\n",
		},
		{
			name:   "no semicolon fits",
			mutate: compose(func(c *config.ImportStringConfig) { c.HasSemicolon = false }, limit(69)),
			groups: single(angular, 0),
			want:   "import { ChangeDetectionStrategy, DebugElement } from '@angular/core'\n",
		},
		{
			name:   "no semicolon wraps",
			mutate: compose(func(c *config.ImportStringConfig) { c.HasSemicolon = false }, limit(68)),
			groups: single(angular, 0),
			want:   "import {\n    ChangeDetectionStrategy, DebugElement\n} from '@angular/core'\n",
		},
		{
			name:   "packs bindings over several lines",
			mutate: compose(noTrailingNewline, limit(10)),
			groups: single(element("@angular/core", "", b("a"), b("b"), b("c")), 0),
			want:   "import {\n    a, b,\n    c\n} from '@angular/core';",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mustRender(t, configWith(tt.mutate), tt.groups))
		})
	}
}

func TestRender_Shapes(t *testing.T) {
	typeOnly := element("./types", "", b("Props"))
	typeOnly.IsTypeOnly = true

	withAttrs := element("./data.json", "data")
	withAttrs.Attributes = "with { type: 'json' }"

	tests := []struct {
		name string
		elem model.ImportElement
		want string
	}{
		{"side effect", model.ImportElement{ModuleSpecifierName: "./polyfill"}, "import './polyfill';"},
		{"default only", element("react", "React"), "import React from 'react';"},
		{"empty named list", element("x", ""), "import {} from 'x';"},
		{"namespace", element("fs", "", alias("*", "fs")), "import * as fs from 'fs';"},
		{"default and namespace", element("m", "d", alias("*", "ns")), "import d, * as ns from 'm';"},
		{"type only", typeOnly, "import type { Props } from './types';"},
		{"inline type binding", element("./t", "", model.NamedBinding{Name: "A", IsTypeOnly: true}, b("b")), "import { type A, b } from './t';"},
		{"type binding with alias", element("./t", "", model.NamedBinding{Name: "A", AliasName: "B", IsTypeOnly: true}), "import { type A as B } from './t';"},
		{"attributes", withAttrs, "import data from './data.json' with { type: 'json' };"},
		{"quote escaping", element(`it's\here`, "x"), `import x from 'it\'s\\here';`},
		{"control characters", element("a\nb\tc\x01", "x"), `import x from 'a\nb\tc\x01';`},
		{"line separators", element("a\u2028b", "x"), `import x from 'a\u2028b';`},
		{"non-ASCII kept raw", element("./ünï", "x"), "import x from './ünï';"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mustRender(t, configWith(noTrailingNewline), single(tt.elem, 0)))
		})
	}
}

func TestRender_NamespaceNeverWraps(t *testing.T) {
	out := mustRender(t, configWith(compose(noTrailingNewline, limit(5))),
		single(element("some-long-module", "", alias("*", "everything")), 0))
	assert.Equal(t, "import * as everything from 'some-long-module';", out)
}

func TestRender_DoubleQuotesAndTabs(t *testing.T) {
	cfg := configWith(compose(noTrailingNewline, limit(12), func(c *config.ImportStringConfig) {
		c.QuoteMark = config.QuoteMarkDouble
		c.TabType = config.TabTypeTab
	}))

	out := mustRender(t, cfg, single(element(`a"b`, "", b("x"), b("y"), b("z")), 0))
	// a tab counts as four columns: "\tx, y," is 9 wide, adding z makes 12
	assert.Equal(t, "import {\n\tx, y, z\n} from \"a\\\"b\";", out)
}

func TestRender_MaxCount(t *testing.T) {
	cfg := configWith(compose(noTrailingNewline, func(c *config.ImportStringConfig) {
		c.MaximumNumberOfImportExpressionsPerLine = config.LineLimit{Count: 2, Type: config.LineLimitMaxCount}
	}))

	two := mustRender(t, cfg, single(element("m", "", b("a"), b("b")), 0))
	assert.Equal(t, "import { a, b } from 'm';", two)

	five := mustRender(t, cfg, single(element("m", "", b("a"), b("b"), b("c"), b("d"), b("e")), 0))
	assert.Equal(t, "import {\n    a, b,\n    c, d,\n    e\n} from 'm';", five)
}

func TestRender_Comments(t *testing.T) {
	e := element("a", "", b("x"))
	e.ImportComment = model.ImportComment{
		LeadingComments:  []model.Comment{{Text: "// header"}, {Text: "/* block */"}},
		TrailingComments: []model.Comment{{Text: "// why"}},
	}

	out := mustRender(t, configWith(noTrailingNewline), single(e, 0))
	assert.Equal(t, "// header\n/* block */\nimport { x } from 'a'; // why", out)
}

func TestRender_GroupSpacing(t *testing.T) {
	groups := []model.ImportElementGroup{
		{Elements: []model.ImportElement{element("a", "A"), element("b", "B")}, NumberOfEmptyLinesAfterGroup: 2},
		{Elements: []model.ImportElement{}, NumberOfEmptyLinesAfterGroup: 5},
		{Elements: []model.ImportElement{element("./c", "C")}, NumberOfEmptyLinesAfterGroup: 0},
		{Elements: []model.ImportElement{element("./d", "D")}, NumberOfEmptyLinesAfterGroup: 3},
	}

	out := mustRender(t, config.DefaultImportStringConfig(), groups)
	assert.Equal(t, "import A from 'a';\nimport B from 'b';\n\n\nimport C from './c';\nimport D from './d';\n", out)
}

func TestRender_Empty(t *testing.T) {
	out := mustRender(t, config.DefaultImportStringConfig(), nil)
	assert.Equal(t, "", out)
}

func TestRender_NotInitialized(t *testing.T) {
	r := New(nil)
	_, err := r.Render(single(element("a", "A"), 0))
	assert.ErrorIs(t, err, ErrNotInitialized)

	_, err = r.RenderElement(element("a", "A"))
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestInitialize_Invalid(t *testing.T) {
	r := New(util.NopLogger())
	err := r.Initialize(configWith(func(c *config.ImportStringConfig) { c.TrailingComma = "sometimes" }))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trailingComma")

	_, err = r.Render(nil)
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestRenderElement(t *testing.T) {
	r, err := NewWithConfig(config.DefaultImportStringConfig(), util.NopLogger())
	require.NoError(t, err)

	out, err := r.RenderElement(element("a", "", b("x")))
	require.NoError(t, err)
	assert.Equal(t, "import { x } from 'a';", out)
}
