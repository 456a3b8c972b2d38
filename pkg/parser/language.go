package parser

import (
	"path/filepath"
	"strings"
)

// Language is a grammar family understood by the import sorter.
type Language int

const (
	// LanguageTypeScript covers .ts/.mts/.cts and, with isTSX, .tsx
	LanguageTypeScript Language = iota
	// LanguageJavaScript covers .js/.jsx/.mjs/.cjs
	LanguageJavaScript
	// LanguageUnknown is never parsed
	LanguageUnknown
)

// String returns the lowercase language name.
func (l Language) String() string {
	switch l {
	case LanguageTypeScript:
		return "typescript"
	case LanguageJavaScript:
		return "javascript"
	default:
		return "unknown"
	}
}

// DetectLanguage maps a file extension to a Language.
// Returns LanguageUnknown for anything that is not a TS/JS source.
func DetectLanguage(filePath string) Language {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".ts", ".mts", ".cts", ".tsx":
		return LanguageTypeScript
	case ".js", ".jsx", ".mjs", ".cjs":
		return LanguageJavaScript
	default:
		return LanguageUnknown
	}
}

// ResolveLanguage is DetectLanguage with a TypeScript fallback, used for
// in-memory sources whose name carries no usable extension.
func ResolveLanguage(filePath string) (Language, bool) {
	lang := DetectLanguage(filePath)
	if lang == LanguageUnknown {
		return LanguageTypeScript, false
	}
	return lang, IsTSXFile(filePath)
}

// IsTSXFile reports whether the path needs the TSX grammar.
func IsTSXFile(filePath string) bool {
	return strings.ToLower(filepath.Ext(filePath)) == ".tsx"
}
