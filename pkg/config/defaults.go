package config

// DefaultConfigurationFilePath is the project file looked up when no --config flag is given.
const DefaultConfigurationFilePath = "import-sorter.json"

// IntPtr returns a pointer to v, for CustomOrderRule.NumberOfEmptyLinesAfterGroup literals.
func IntPtr(v int) *int {
	return &v
}

// DefaultSortConfig returns the sort settings used when nothing is configured.
func DefaultSortConfig() SortConfig {
	return SortConfig{
		ImportMembers:   SortOrder{Order: OrderCaseInsensitive, Direction: DirectionAsc},
		ImportPaths:     SortOrder{Order: OrderCaseInsensitive, Direction: DirectionAsc},
		JoinImportPaths: true,
		CustomOrderingRules: &CustomOrderingRules{
			DefaultOrderLevel:                   20,
			DefaultNumberOfEmptyLinesAfterGroup: 1,
			DisableDefaultOrderSort:             false,
			Rules: []CustomOrderRule{
				{Type: RuleTypeImportMember, Regex: "^$", OrderLevel: 5, DisableSort: true},
				{Regex: "^[^.@]", OrderLevel: 10},
				{Regex: "^[@]", OrderLevel: 15},
				{Regex: "^[.]", OrderLevel: 30},
			},
		},
	}
}

// DefaultImportStringConfig returns the rendering settings used when nothing is configured.
func DefaultImportStringConfig() ImportStringConfig {
	return ImportStringConfig{
		TabSize:                           4,
		TabType:                           TabTypeSpace,
		QuoteMark:                         QuoteMarkSingle,
		NumberOfEmptyLinesAfterAllImports: 1,
		MaximumNumberOfImportExpressionsPerLine: LineLimit{
			Count: 100,
			Type:  LineLimitMaxLineLength,
		},
		TrailingComma: TrailingCommaNever,
		HasSemicolon:  true,
	}
}

// DefaultGeneralConfig returns the general settings used when nothing is configured.
func DefaultGeneralConfig() GeneralConfig {
	return GeneralConfig{
		ConfigurationFilePath: DefaultConfigurationFilePath,
		SortOnBeforeSave:      true,
		Exclude:               []string{},
	}
}

// Defaults returns a complete configuration with every section defaulted.
func Defaults() Configuration {
	return Configuration{
		SortConfiguration:         DefaultSortConfig(),
		ImportStringConfiguration: DefaultImportStringConfig(),
		GeneralConfiguration:      DefaultGeneralConfig(),
	}
}
