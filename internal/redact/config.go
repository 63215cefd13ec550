package redact

import (
	"fmt"
	"regexp"
	"strings"
)

// Config holds operator-defined redaction customizations.
type Config struct {
	Mode          string            `yaml:"mode"` // always | never | auto
	ExtraPatterns []ExtraPatternDef `yaml:"extra_patterns"`
	SafeValues    []string          `yaml:"safe_values"`
	Literals      []string          `yaml:"literals"`
}

// ExtraPatternDef defines a custom pattern from config.
type ExtraPatternDef struct {
	Name  string `yaml:"name"`
	Regex string `yaml:"regex"`
}

// ExtraPattern is a compiled custom pattern ready for scanning.
type ExtraPattern struct {
	Name        string
	Regex       *regexp.Regexp
	TokenPrefix PatternType
}

// Validate checks the mode and compiles every extra pattern.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	switch strings.ToLower(c.Mode) {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("redact.mode %q: expected always, never or auto", c.Mode)
	}
	_, err := CompilePatterns(c)
	return err
}

// CompilePatterns validates and compiles extra patterns from config.
func CompilePatterns(cfg *Config) ([]ExtraPattern, error) {
	if cfg == nil {
		return nil, nil
	}

	var patterns []ExtraPattern
	for i, def := range cfg.ExtraPatterns {
		if def.Name == "" {
			return nil, fmt.Errorf("extra_patterns[%d]: name is required", i)
		}
		if def.Regex == "" {
			return nil, fmt.Errorf("extra_patterns[%d]: regex is required", i)
		}
		re, err := regexp.Compile(def.Regex)
		if err != nil {
			return nil, fmt.Errorf("extra_patterns[%d] %q: invalid regex: %w", i, def.Name, err)
		}
		patterns = append(patterns, ExtraPattern{
			Name:        def.Name,
			Regex:       re,
			TokenPrefix: PatternType(strings.ToUpper(def.Name)),
		})
	}
	return patterns, nil
}
