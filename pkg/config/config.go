// Package config holds the resolved configuration consumed by the sorter,
// the renderer and the file runner, plus loading of project config files.
package config

// Order selects the comparison policy used for binding names and module paths.
type Order string

const (
	OrderCaseInsensitive Order = "caseInsensitive"
	OrderLowercaseFirst  Order = "lowercaseFirst"
	OrderLowercaseLast   Order = "lowercaseLast"
	OrderUnsorted        Order = "unsorted"
)

// Direction is applied after the sort key has been computed.
type Direction string

const (
	DirectionAsc  Direction = "asc"
	DirectionDesc Direction = "desc"
)

// RuleType chooses what a custom ordering rule's regex is matched against.
type RuleType string

const (
	// RuleTypePath matches the normalized module specifier. An empty type means path.
	RuleTypePath RuleType = "path"
	// RuleTypeBindingName matches the default import name or the named bindings.
	RuleTypeBindingName RuleType = "binding-name"
	// RuleTypeImportMember is the legacy spelling of RuleTypeBindingName.
	RuleTypeImportMember RuleType = "importMember"
)

// TrailingComma controls the comma after the last named binding.
type TrailingComma string

const (
	TrailingCommaNever     TrailingComma = "never"
	TrailingCommaAlways    TrailingComma = "always"
	TrailingCommaMultiLine TrailingComma = "multiLine"
)

// LineLimitType selects how MaximumNumberOfImportExpressionsPerLine.Count is read.
type LineLimitType string

const (
	LineLimitMaxLineLength LineLimitType = "maxLineLength"
	LineLimitMaxCount      LineLimitType = "maxCount"
)

// QuoteMark is the quote character used around module specifiers.
type QuoteMark string

const (
	QuoteMarkSingle QuoteMark = "single"
	QuoteMarkDouble QuoteMark = "double"
)

// TabType is the indentation used for wrapped bindings.
type TabType string

const (
	TabTypeSpace TabType = "space"
	TabTypeTab   TabType = "tab"
)

// SortOrder pairs a comparison policy with a direction.
type SortOrder struct {
	Order     Order     `json:"order" yaml:"order" toml:"order"`
	Direction Direction `json:"direction" yaml:"direction" toml:"direction"`
}

// CustomOrderRule assigns matching imports to a numbered output group.
type CustomOrderRule struct {
	OrderLevel  int      `json:"orderLevel" yaml:"orderLevel" toml:"orderLevel"`
	Regex       string   `json:"regex" yaml:"regex" toml:"regex"`
	Type        RuleType `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	DisableSort bool     `json:"disableSort,omitempty" yaml:"disableSort,omitempty" toml:"disableSort,omitempty"`

	// NumberOfEmptyLinesAfterGroup falls back to the default spacing when nil.
	NumberOfEmptyLinesAfterGroup *int `json:"numberOfEmptyLinesAfterGroup,omitempty" yaml:"numberOfEmptyLinesAfterGroup,omitempty" toml:"numberOfEmptyLinesAfterGroup,omitempty"`
}

// IsBindingNameRule reports whether the rule matches binding names instead of paths.
func (r CustomOrderRule) IsBindingNameRule() bool {
	return r.Type == RuleTypeBindingName || r.Type == RuleTypeImportMember
}

// CustomOrderingRules is the optional rule set of a SortConfig.
type CustomOrderingRules struct {
	Rules                               []CustomOrderRule `json:"rules" yaml:"rules" toml:"rules"`
	DisableDefaultOrderSort             bool              `json:"disableDefaultOrderSort" yaml:"disableDefaultOrderSort" toml:"disableDefaultOrderSort"`
	DefaultOrderLevel                   int               `json:"defaultOrderLevel" yaml:"defaultOrderLevel" toml:"defaultOrderLevel"`
	DefaultNumberOfEmptyLinesAfterGroup int               `json:"defaultNumberOfEmptyLinesAfterGroup" yaml:"defaultNumberOfEmptyLinesAfterGroup" toml:"defaultNumberOfEmptyLinesAfterGroup"`
}

// SortConfig drives normalization, joining, ordering and grouping.
type SortConfig struct {
	ImportMembers       SortOrder            `json:"importMembers" yaml:"importMembers" toml:"importMembers"`
	ImportPaths         SortOrder            `json:"importPaths" yaml:"importPaths" toml:"importPaths"`
	JoinImportPaths     bool                 `json:"joinImportPaths" yaml:"joinImportPaths" toml:"joinImportPaths"`
	CustomOrderingRules *CustomOrderingRules `json:"customOrderingRules,omitempty" yaml:"customOrderingRules,omitempty" toml:"customOrderingRules,omitempty"`
}

// LineLimit is the wrapping threshold of a single import statement.
type LineLimit struct {
	Count int           `json:"count" yaml:"count" toml:"count"`
	Type  LineLimitType `json:"type" yaml:"type" toml:"type"`
}

// ImportStringConfig drives rendering of the final import text.
type ImportStringConfig struct {
	TabSize                                 int           `json:"tabSize" yaml:"tabSize" toml:"tabSize"`
	TabType                                 TabType       `json:"tabType" yaml:"tabType" toml:"tabType"`
	QuoteMark                               QuoteMark     `json:"quoteMark" yaml:"quoteMark" toml:"quoteMark"`
	NumberOfEmptyLinesAfterAllImports       int           `json:"numberOfEmptyLinesAfterAllImports" yaml:"numberOfEmptyLinesAfterAllImports" toml:"numberOfEmptyLinesAfterAllImports"`
	MaximumNumberOfImportExpressionsPerLine LineLimit     `json:"maximumNumberOfImportExpressionsPerLine" yaml:"maximumNumberOfImportExpressionsPerLine" toml:"maximumNumberOfImportExpressionsPerLine"`
	TrailingComma                           TrailingComma `json:"trailingComma" yaml:"trailingComma" toml:"trailingComma"`
	HasSemicolon                            bool          `json:"hasSemicolon" yaml:"hasSemicolon" toml:"hasSemicolon"`
}

// GeneralConfig covers behavior outside the sort/render core.
type GeneralConfig struct {
	// ConfigurationFilePath is looked up relative to the project directory.
	ConfigurationFilePath string `json:"configurationFilePath" yaml:"configurationFilePath" toml:"configurationFilePath"`
	// SortOnBeforeSave enables re-sorting in watch mode.
	SortOnBeforeSave bool `json:"sortOnBeforeSave" yaml:"sortOnBeforeSave" toml:"sortOnBeforeSave"`
	// Exclude holds regexes matched against slash-separated file paths.
	Exclude []string `json:"exclude" yaml:"exclude" toml:"exclude"`
}

// Configuration is the fully resolved, merged configuration object.
type Configuration struct {
	SortConfiguration         SortConfig         `json:"sortConfiguration" yaml:"sortConfiguration" toml:"sortConfiguration"`
	ImportStringConfiguration ImportStringConfig `json:"importStringConfiguration" yaml:"importStringConfiguration" toml:"importStringConfiguration"`
	GeneralConfiguration      GeneralConfig      `json:"generalConfiguration" yaml:"generalConfiguration" toml:"generalConfiguration"`
}
