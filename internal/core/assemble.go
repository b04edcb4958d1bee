package core

import "strings"

// Assemble projects rows through the column configuration.
//
// Fields are visited in parse order. Excluded fields contribute neither a
// column nor a literal. The first failure aborts the whole assembly and no
// partial SQLInput is returned.
func Assemble(fields []string, rows []Row, configs ColumnConfigs) (SQLInput, error) {
	included := make([]string, 0, len(fields))
	coercersByField := make(map[string]Coercer, len(fields))
	columns := make([]string, 0, len(fields))

	for _, f := range fields {
		cfg, ok := configs[f]
		if !ok {
			return SQLInput{}, &ConfigError{Field: f, Reason: ReasonMissing}
		}
		if !cfg.Include {
			continue
		}
		if strings.TrimSpace(cfg.TargetName) == "" {
			return SQLInput{}, &ConfigError{Field: f, Reason: ReasonEmptyName}
		}
		coerce, err := GetCoercer(cfg.Type)
		if err != nil {
			return SQLInput{}, &CoercionError{Field: f, Row: -1, Type: cfg.Type, Err: ErrUnknownColumnType}
		}
		included = append(included, f)
		coercersByField[f] = coerce
		columns = append(columns, strings.TrimSpace(cfg.TargetName))
	}

	tuples := make([]string, 0, len(rows))
	literals := make([]string, 0, len(included))
	for i, row := range rows {
		literals = literals[:0]
		for _, f := range included {
			raw := row[f]
			v, err := coercersByField[f](raw)
			if err != nil {
				return SQLInput{}, &CoercionError{Field: f, Row: i, Value: raw, Type: configs[f].Type, Err: err}
			}
			literals = append(literals, v.Literal())
		}
		tuples = append(tuples, "("+strings.Join(literals, ", ")+")")
	}

	return SQLInput{Columns: columns, Tuples: tuples}, nil
}
