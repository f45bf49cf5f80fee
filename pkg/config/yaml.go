package config

import (
	"bytes"
	"fmt"
	"maps"
	"slices"

	"gopkg.in/yaml.v3"
)

const yamlIndent = 2

// ToYAML encodes the configuration with two-space indentation. A nil
// configuration encodes to nothing.
func (c *Config) ToYAML() ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(yamlIndent)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// FromYAML decodes a configuration layer. Keys missing from data are left
// at their zero value, which the loader treats as unset.
func FromYAML(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return &cfg, nil
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	out := *c
	out.MarkupExtensions = slices.Clone(c.MarkupExtensions)
	out.PreprocessorExtensions = slices.Clone(c.PreprocessorExtensions)
	out.IncludeDirs = slices.Clone(c.IncludeDirs)
	out.Ignore = slices.Clone(c.Ignore)
	out.Defines = maps.Clone(c.Defines)
	if c.DetectLanguage != nil {
		v := *c.DetectLanguage
		out.DetectLanguage = &v
	}
	return &out
}
