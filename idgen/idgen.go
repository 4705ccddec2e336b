// Package idgen provides short, URL-safe ids for document objects and
// history entries, backed by nanoid.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// Prefixes for each kind of object.
const (
	PrefixShape      = "sh-"
	PrefixConnection = "cn-"
	PrefixWaypoint   = "wp-"
	PrefixGroup      = "gr-"
	PrefixEntry      = "h-"
)

// Alphabet defines the character set used for the random portion of the ID.
var Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length is the number of random characters generated (excluding the prefix).
var Length = 10

// Generate returns a new unique ID with the given prefix.
func Generate(prefix string) (string, error) {
	id, err := nanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return prefix + id, nil
}

// Func returns a generator for prefix, suitable for session and document
// callbacks. It panics if Alphabet or Length have been set to values nanoid
// rejects.
func Func(prefix string) func() string {
	return func() string {
		return prefix + nanoid.MustGenerate(Alphabet, Length)
	}
}
