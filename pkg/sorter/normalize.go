package sorter

import (
	"path"
	"strings"

	"github.com/gnana997/importsorter/pkg/model"
)

// normalizeSpecifier cleans relative specifiers ('.'-prefixed) into a
// canonical ./ or ../ form. Package specifiers are returned unchanged.
func normalizeSpecifier(spec string) string {
	if !strings.HasPrefix(spec, ".") {
		return spec
	}
	slashed := strings.ReplaceAll(spec, `\`, "/")
	cleaned := path.Clean(slashed)
	if strings.HasSuffix(slashed, "/") && cleaned != "/" {
		cleaned += "/"
	}

	switch {
	case cleaned == ".":
		return "./"
	case cleaned == "..":
		return "../"
	case strings.HasPrefix(cleaned, "./"), strings.HasPrefix(cleaned, "../"):
		return cleaned
	default:
		return "./" + cleaned
	}
}

// normalize returns copies of elems with normalized specifiers.
func normalize(elems []model.ImportElement) []model.ImportElement {
	out := model.CloneElements(elems)
	for i := range out {
		out[i].ModuleSpecifierName = normalizeSpecifier(out[i].ModuleSpecifierName)
	}
	return out
}
