package core

// validation.go keeps column configuration consistent with the parsed fields.
//
// Configuration is keyed by field name. Whenever the field list changes the
// configuration is reconciled: surviving fields keep what the user chose, new
// fields get defaults, and fields that disappeared are dropped. Validation
// runs eagerly at that point rather than being discovered mid-generation.

import (
	"errors"
	"regexp"
	"sort"
	"strings"
)

var (
	plainIdentifier  = regexp.MustCompile(`^[\p{L}_][\p{L}\p{N}_]*$`)
	quotedIdentifier = regexp.MustCompile(`^"(?:[^"]|"")+"$`)
)

// NameFunc derives a default SQL column name from a field name.
type NameFunc func(field string) string

// DefaultConfig is the configuration a new field starts with: a normalized
// name, text type, included.
func DefaultConfig(field string, name NameFunc) ColumnConfig {
	if name == nil {
		name = NormalizeColumnName
	}
	return ColumnConfig{TargetName: name(field), Type: TypeText, Include: true}
}

// DefaultConfigs returns a default configuration for every field.
func DefaultConfigs(fields []string, name NameFunc) ColumnConfigs {
	return ReconcileConfigs(fields, nil, name)
}

// ReconcileConfigs carries prev over to a new field list.
func ReconcileConfigs(fields []string, prev ColumnConfigs, name NameFunc) ColumnConfigs {
	out := make(ColumnConfigs, len(fields))
	for _, f := range fields {
		if cfg, ok := prev[f]; ok {
			out[f] = cfg
			continue
		}
		out[f] = DefaultConfig(f, name)
	}
	return out
}

// ValidateConfigs checks configs against fields and returns every problem
// found, joined. A nil result means Assemble will not fail on configuration.
func ValidateConfigs(fields []string, configs ColumnConfigs) error {
	var errs []error
	known := make(map[string]bool, len(fields))

	for _, f := range fields {
		known[f] = true
		cfg, ok := configs[f]
		if !ok {
			errs = append(errs, &ConfigError{Field: f, Reason: ReasonMissing})
			continue
		}
		if !cfg.Include {
			continue
		}
		if strings.TrimSpace(cfg.TargetName) == "" {
			errs = append(errs, &ConfigError{Field: f, Reason: ReasonEmptyName})
		}
		if _, err := GetCoercer(cfg.Type); err != nil {
			errs = append(errs, &CoercionError{Field: f, Row: -1, Type: cfg.Type, Err: ErrUnknownColumnType})
		}
	}
	var unknown []string
	for f := range configs {
		if !known[f] {
			unknown = append(unknown, f)
		}
	}
	sort.Strings(unknown)
	for _, f := range unknown {
		errs = append(errs, &ConfigError{Field: f, Reason: ReasonUnknown})
	}

	return errors.Join(errs...)
}

// IncludedColumns returns the target names of included fields in field order.
func IncludedColumns(fields []string, configs ColumnConfigs) []string {
	var cols []string
	for _, f := range fields {
		if cfg, ok := configs[f]; ok && cfg.Include {
			cols = append(cols, cfg.TargetName)
		}
	}
	return cols
}

// ValidateIdentifiers checks that every included target name is a single SQL
// identifier, either plain or double-quoted. Names are emitted verbatim, so a
// statement is only handed to a database when this holds.
func ValidateIdentifiers(fields []string, configs ColumnConfigs) error {
	var errs []error
	for _, f := range fields {
		cfg, ok := configs[f]
		if !ok || !cfg.Include {
			continue
		}
		name := strings.TrimSpace(cfg.TargetName)
		if !plainIdentifier.MatchString(name) && !quotedIdentifier.MatchString(name) {
			errs = append(errs, &ConfigError{Field: f, Reason: ReasonNotIdentifier})
		}
	}
	return errors.Join(errs...)
}
