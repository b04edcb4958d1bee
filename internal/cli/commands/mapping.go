package commands

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/JonMunkholm/csv2sql/internal/core"
)

// Mapping is a reusable column configuration kept in a YAML file:
//
//	delimiter: ";"
//	columns:
//	  First Name: {name: first_name}
//	  Age: {type: int}
//	  Notes: {include: false}
//
// Columns are keyed by the header name as it appears in the input. Settings
// left out keep their suggested defaults.
type Mapping struct {
	Delimiter string                   `yaml:"delimiter,omitempty"`
	Columns   map[string]MappingColumn `yaml:"columns"`
}

// MappingColumn overrides the configuration of one field.
type MappingColumn struct {
	Name    string `yaml:"name,omitempty"`
	Type    string `yaml:"type,omitempty"`
	Include *bool  `yaml:"include,omitempty"`
}

// LoadMapping reads a mapping file. Unknown keys are rejected so that a
// misspelt setting does not silently fall back to the default.
func LoadMapping(path string) (Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Mapping{}, fmt.Errorf("read mapping: %w", err)
	}

	var m Mapping
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return Mapping{}, fmt.Errorf("parse mapping %s: %w", path, err)
	}
	return m, nil
}

// Apply overlays the mapping onto configs. Every mapped column must name a
// parsed field.
func (m Mapping) Apply(fields []string, configs core.ColumnConfigs) error {
	known := make(map[string]bool, len(fields))
	for _, f := range fields {
		known[f] = true
	}

	for field, col := range m.Columns {
		if !known[field] {
			return &core.ConfigError{Field: field, Reason: core.ReasonUnknown}
		}
		cfg := configs[field]
		if col.Name != "" {
			cfg.TargetName = col.Name
		}
		if col.Type != "" {
			t, err := core.ParseColumnType(col.Type)
			if err != nil {
				return fmt.Errorf("column %q: %w", field, err)
			}
			cfg.Type = t
		}
		if col.Include != nil {
			cfg.Include = *col.Include
		}
		configs[field] = cfg
	}
	return nil
}

// MappingFromConfigs captures configs as a complete mapping.
func MappingFromConfigs(fields []string, configs core.ColumnConfigs, delimiter string) Mapping {
	m := Mapping{Delimiter: delimiter, Columns: make(map[string]MappingColumn, len(fields))}
	for _, f := range fields {
		cfg := configs[f]
		include := cfg.Include
		m.Columns[f] = MappingColumn{
			Name:    cfg.TargetName,
			Type:    cfg.Type.String(),
			Include: &include,
		}
	}
	return m
}

// SaveMapping writes m to path.
func SaveMapping(path string, m Mapping) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode mapping: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write mapping: %w", err)
	}
	return nil
}
