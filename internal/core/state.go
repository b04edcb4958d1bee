package core

// state.go models one editing session as an immutable value.
//
// Every transition returns a new State and leaves the receiver untouched:
// the parsed result and the generated SQL are each replaced whole, never
// mutated in place. Generation only happens on an explicit Generate call.

import "time"

// State is the full editing state behind one input box.
type State struct {
	Input     string        // Latest input text
	Options   ParseOptions  // Options the input was parsed with
	Parsed    ParseResult   // Result of parsing Input
	Configs   ColumnConfigs // Per-field configuration, keyed by field name
	SQL       string        // Last successful generation, cleared on input change
	Err       error         // Last generation failure, cleared on input change
	Naming    NameFunc      // Default name derivation for new fields
	UpdatedAt time.Time
}

// NewState returns an empty state that names new fields with naming.
// A nil naming uses NormalizeColumnName.
func NewState(naming NameFunc) State {
	if naming == nil {
		naming = NormalizeColumnName
	}
	return State{Naming: naming, Configs: ColumnConfigs{}, UpdatedAt: time.Now()}
}

// WithInput reparses text and reconciles configuration with the new fields.
func (s State) WithInput(text string, opts ParseOptions) State {
	next := s
	next.Input = text
	next.Options = opts
	next.Parsed = Parse(text, opts)
	next.Configs = ReconcileConfigs(next.Parsed.Fields, s.Configs, s.Naming)
	next.SQL = ""
	next.Err = nil
	next.UpdatedAt = time.Now()
	return next
}

// WithConfig replaces the configuration of one known field.
func (s State) WithConfig(field string, cfg ColumnConfig) (State, error) {
	if _, ok := s.Configs[field]; !ok {
		return s, &ConfigError{Field: field, Reason: ReasonUnknown}
	}
	if _, err := GetCoercer(cfg.Type); err != nil {
		return s, &CoercionError{Field: field, Row: -1, Type: cfg.Type, Err: ErrUnknownColumnType}
	}

	next := s
	next.Configs = s.Configs.Clone()
	next.Configs[field] = cfg
	next.SQL = ""
	next.Err = nil
	next.UpdatedAt = time.Now()
	return next, nil
}

// Generate produces SQL from the current parse and configuration. Failure is
// recorded in Err and leaves SQL empty.
func (s State) Generate() State {
	next := s
	next.UpdatedAt = time.Now()

	if err := ValidateConfigs(s.Parsed.Fields, s.Configs); err != nil {
		next.SQL, next.Err = "", err
		return next
	}
	next.SQL, next.Err = Generate(s.Parsed.Fields, s.Parsed.Rows, s.Configs)
	return next
}

// Ready reports whether there is anything to generate from.
func (s State) Ready() bool {
	return len(s.Parsed.Fields) > 0 && len(s.Parsed.Rows) > 0
}
