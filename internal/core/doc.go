// Package core provides the CSV to SQL transformation pipeline.
//
// This package holds all domain logic independent of any UI or transport
// layer. The web server, the CLI and tests all use it unchanged.
//
// # Pipeline
//
// Raw text flows through four steps:
//
//  1. [Parse] splits delimited text into fields, rows and per-row errors.
//  2. The user picks a [ColumnConfig] per field: SQL name, type, include.
//  3. [Assemble] coerces every included cell with the rule from [GetCoercer]
//     and renders SQL literals, one tuple per row.
//  4. [Render] wraps columns and tuples in a WITH ... AS (VALUES ...) statement.
//
// [Generate] runs steps 3 and 4 together:
//
//	res := core.Parse("name,active\nAda,true", core.ParseOptions{})
//	cfg := core.DefaultConfigs(res.Fields, nil)
//	cfg["active"] = core.ColumnConfig{TargetName: "active", Type: core.TypeBool, Include: true}
//	sql, err := core.Generate(res.Fields, res.Rows, cfg)
//
// # Column Types
//
// The type set is closed:
//
//   - text: trimmed, single quotes doubled, rendered quoted
//   - int: non-digits stripped, rendered bare
//   - bool: exactly true or false, case-insensitive, rendered as a keyword
//
// # Errors
//
// Parse problems are collected per row as [ParseError] and never stop the
// parse. Generation problems abort: a [ConfigError] for an unusable column
// configuration, or a [CoercionError] for a cell that does not fit its type.
// Technical errors are mapped to user-facing messages with [MapError]:
//
//   - GEN001-GEN003: coercion failures
//   - CFG001-CFG003: configuration problems
//   - INP001-INP002: input size and emptiness
//   - SES001, VER001-VER003: sessions and verification
//
// # State
//
// [State] is an immutable snapshot of one editing session. Transitions such
// as [State.WithInput] return a new value. [Service] keeps states for the web
// frontend, keyed by session id, and expires idle ones with
// [Service.StartSessionSweeper].
package core
