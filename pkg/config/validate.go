package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// normalizeDirection maps the long spellings onto the canonical ones.
func normalizeDirection(d Direction) Direction {
	switch strings.ToLower(string(d)) {
	case "", "asc", "ascending":
		return DirectionAsc
	case "desc", "descending":
		return DirectionDesc
	default:
		return d
	}
}

// Normalize fills empty enum fields and canonicalizes directions.
func (s *SortOrder) Normalize() {
	if s.Order == "" {
		s.Order = OrderCaseInsensitive
	}
	s.Direction = normalizeDirection(s.Direction)
}

// Validate reports an unknown policy or direction.
func (s SortOrder) Validate() error {
	var errs []error
	switch s.Order {
	case OrderCaseInsensitive, OrderLowercaseFirst, OrderLowercaseLast, OrderUnsorted:
	default:
		errs = append(errs, fmt.Errorf("unknown sort order %q", s.Order))
	}
	switch s.Direction {
	case DirectionAsc, DirectionDesc:
	default:
		errs = append(errs, fmt.Errorf("unknown sort direction %q", s.Direction))
	}
	return errors.Join(errs...)
}

// Normalize canonicalizes both sort orders in place.
func (c *SortConfig) Normalize() {
	c.ImportMembers.Normalize()
	c.ImportPaths.Normalize()
}

// Validate checks policies and compiles every rule regex.
func (c SortConfig) Validate() error {
	var errs []error
	if err := c.ImportMembers.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("importMembers: %w", err))
	}
	if err := c.ImportPaths.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("importPaths: %w", err))
	}
	if c.CustomOrderingRules != nil {
		if c.CustomOrderingRules.DefaultNumberOfEmptyLinesAfterGroup < 0 {
			errs = append(errs, fmt.Errorf("customOrderingRules: defaultNumberOfEmptyLinesAfterGroup must not be negative"))
		}
		for i, rule := range c.CustomOrderingRules.Rules {
			if err := rule.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("customOrderingRules.rules[%d]: %w", i, err))
			}
		}
	}
	return errors.Join(errs...)
}

// Validate compiles the rule regex and checks its type and spacing.
func (r CustomOrderRule) Validate() error {
	var errs []error
	switch r.Type {
	case "", RuleTypePath, RuleTypeBindingName, RuleTypeImportMember:
	default:
		errs = append(errs, fmt.Errorf("unknown rule type %q", r.Type))
	}
	if _, err := regexp.Compile(r.Regex); err != nil {
		errs = append(errs, fmt.Errorf("invalid regex %q: %w", r.Regex, err))
	}
	if r.NumberOfEmptyLinesAfterGroup != nil && *r.NumberOfEmptyLinesAfterGroup < 0 {
		errs = append(errs, fmt.Errorf("numberOfEmptyLinesAfterGroup must not be negative"))
	}
	return errors.Join(errs...)
}

// Normalize fills zero-valued rendering enums with their defaults.
func (c *ImportStringConfig) Normalize() {
	if c.TabSize == 0 {
		c.TabSize = 4
	}
	if c.TabType == "" {
		c.TabType = TabTypeSpace
	}
	if c.QuoteMark == "" {
		c.QuoteMark = QuoteMarkSingle
	}
	if c.TrailingComma == "" {
		c.TrailingComma = TrailingCommaNever
	}
	if c.MaximumNumberOfImportExpressionsPerLine.Type == "" {
		c.MaximumNumberOfImportExpressionsPerLine.Type = LineLimitMaxLineLength
	}
}

// Validate checks rendering limits and enum values.
func (c ImportStringConfig) Validate() error {
	var errs []error
	if c.NumberOfEmptyLinesAfterAllImports < 0 {
		errs = append(errs, fmt.Errorf("numberOfEmptyLinesAfterAllImports must not be negative"))
	}
	if c.TabSize < 0 {
		errs = append(errs, fmt.Errorf("tabSize must not be negative"))
	}
	limit := c.MaximumNumberOfImportExpressionsPerLine
	if limit.Count < 1 {
		errs = append(errs, fmt.Errorf("maximumNumberOfImportExpressionsPerLine.count must be positive, got %d", limit.Count))
	}
	switch limit.Type {
	case LineLimitMaxLineLength, LineLimitMaxCount:
	default:
		errs = append(errs, fmt.Errorf("unknown maximumNumberOfImportExpressionsPerLine.type %q", limit.Type))
	}
	switch c.TrailingComma {
	case TrailingCommaNever, TrailingCommaAlways, TrailingCommaMultiLine:
	default:
		errs = append(errs, fmt.Errorf("unknown trailingComma %q", c.TrailingComma))
	}
	switch c.QuoteMark {
	case QuoteMarkSingle, QuoteMarkDouble:
	default:
		errs = append(errs, fmt.Errorf("unknown quoteMark %q", c.QuoteMark))
	}
	switch c.TabType {
	case TabTypeSpace, TabTypeTab:
	default:
		errs = append(errs, fmt.Errorf("unknown tabType %q", c.TabType))
	}
	return errors.Join(errs...)
}

// Validate compiles the exclusion patterns.
func (c GeneralConfig) Validate() error {
	var errs []error
	for i, pattern := range c.Exclude {
		if _, err := regexp.Compile(pattern); err != nil {
			errs = append(errs, fmt.Errorf("exclude[%d]: invalid regex %q: %w", i, pattern, err))
		}
	}
	return errors.Join(errs...)
}

// Exclusions is the compiled form of GeneralConfig.Exclude.
type Exclusions []*regexp.Regexp

// CompileExclude compiles the Exclude patterns once.
func (c GeneralConfig) CompileExclude() (Exclusions, error) {
	out := make(Exclusions, 0, len(c.Exclude))
	for i, pattern := range c.Exclude {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to compile exclude[%d] %q: %w", i, pattern, err)
		}
		out = append(out, re)
	}
	return out, nil
}

// Match reports whether the slash-normalized path matches any pattern.
func (e Exclusions) Match(filePath string) bool {
	if len(e) == 0 {
		return false
	}
	normalized := strings.ReplaceAll(filePath, `\`, "/")
	for _, re := range e {
		if re.MatchString(normalized) {
			return true
		}
	}
	return false
}

// IsExcluded reports whether the slash-normalized path matches any Exclude regex.
func (c GeneralConfig) IsExcluded(filePath string) (bool, error) {
	ex, err := c.CompileExclude()
	if err != nil {
		return false, err
	}
	return ex.Match(filePath), nil
}

// Normalize canonicalizes every section.
func (c *Configuration) Normalize() {
	c.SortConfiguration.Normalize()
	c.ImportStringConfiguration.Normalize()
	if c.GeneralConfiguration.ConfigurationFilePath == "" {
		c.GeneralConfiguration.ConfigurationFilePath = DefaultConfigurationFilePath
	}
}

// Validate validates every section and joins the problems.
func (c Configuration) Validate() error {
	var errs []error
	if err := c.SortConfiguration.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("sortConfiguration: %w", err))
	}
	if err := c.ImportStringConfiguration.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("importStringConfiguration: %w", err))
	}
	if err := c.GeneralConfiguration.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("generalConfiguration: %w", err))
	}
	return errors.Join(errs...)
}
