package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/csv2sql/internal/core"
)

func TestLoadMapping(t *testing.T) {
	path := writeFile(t, "m.yaml", `
delimiter: ";"
columns:
  First Name: {name: first}
  Age: {type: INT}
  Notes: {include: false}
`)
	m, err := LoadMapping(path)
	require.NoError(t, err)
	assert.Equal(t, ";", m.Delimiter)

	fields := []string{"First Name", "Age", "Notes"}
	configs := core.DefaultConfigs(fields, core.NormalizeColumnName)
	require.NoError(t, m.Apply(fields, configs))

	assert.Equal(t, core.ColumnConfig{TargetName: "first", Type: core.TypeText, Include: true}, configs["First Name"])
	assert.Equal(t, core.ColumnConfig{TargetName: "age", Type: core.TypeInt, Include: true}, configs["Age"])
	assert.False(t, configs["Notes"].Include)
}

func TestLoadMapping_Errors(t *testing.T) {
	_, err := LoadMapping(writeFile(t, "bad.yaml", "columns:\n  a: {nmae: x}\n"))
	assert.Error(t, err, "unknown keys are rejected")

	_, err = LoadMapping("/does/not/exist.yaml")
	assert.Error(t, err)

	m, err := LoadMapping(writeFile(t, "empty.yaml", ""))
	require.NoError(t, err)
	assert.Empty(t, m.Columns)
}

func TestMapping_ApplyErrors(t *testing.T) {
	fields := []string{"a"}

	m := Mapping{Columns: map[string]MappingColumn{"b": {Name: "x"}}}
	var ce *core.ConfigError
	require.ErrorAs(t, m.Apply(fields, core.DefaultConfigs(fields, nil)), &ce)
	assert.Equal(t, core.ReasonUnknown, ce.Reason)

	m = Mapping{Columns: map[string]MappingColumn{"a": {Type: "date"}}}
	assert.ErrorIs(t, m.Apply(fields, core.DefaultConfigs(fields, nil)), core.ErrUnknownColumnType)
}
