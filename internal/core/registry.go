package core

import (
	"fmt"
	"sync"
)

// Coercer converts one raw cell into a typed value.
type Coercer func(raw string) (Value, error)

var (
	coercers   = make(map[ColumnType]Coercer)
	coercersMu sync.RWMutex
)

func init() {
	RegisterCoercer(TypeText, CoerceText)
	RegisterCoercer(TypeInt, CoerceInt)
	RegisterCoercer(TypeBool, CoerceBool)
}

// RegisterCoercer installs the coercion rule for a column type.
// Panics if the type already has one.
func RegisterCoercer(t ColumnType, c Coercer) {
	coercersMu.Lock()
	defer coercersMu.Unlock()

	if _, exists := coercers[t]; exists {
		panic(fmt.Sprintf("coercer already registered: %s", t))
	}
	coercers[t] = c
}

// GetCoercer returns the strict coercion rule for t. There is no fallback:
// a type without a rule is ErrUnknownColumnType.
func GetCoercer(t ColumnType) (Coercer, error) {
	coercersMu.RLock()
	defer coercersMu.RUnlock()

	c, ok := coercers[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumnType, string(t))
	}
	return c, nil
}
