package core

import (
	"fmt"

	"github.com/zeebo/xxh3"
)

// Checksum fingerprints generated SQL so a client can tell whether a
// regeneration changed anything. It is not collision resistant.
func Checksum(sql string) string {
	return fmt.Sprintf("%016x", xxh3.HashString(sql))
}
