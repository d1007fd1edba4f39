/*
Package randx provides identifier generation and display-name validation.

Message identifiers are opaque nanoid strings generated on the client at
submission time and stable for the message's lifetime.
*/
package randx

import (
	"strings"
	"unicode/utf8"

	gonanoid "github.com/jaevor/go-nanoid"
)

const (
	// MessageIDLength is the length of generated message identifiers.
	MessageIDLength = 21

	// MaxNameLength is the maximum number of characters in a display name.
	MaxNameLength = 32
)

var newMessageID func() string

func init() {
	gen, err := gonanoid.Standard(MessageIDLength)
	if err != nil {
		panic(err)
	}
	newMessageID = gen
}

// MessageID returns a fresh unique message identifier.
func MessageID() string {
	return newMessageID()
}

// ValidName reports whether the given display name is acceptable: non-empty
// after trimming and within the length limit.
func ValidName(name string) bool {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return false
	}
	return utf8.RuneCountInString(trimmed) <= MaxNameLength
}
