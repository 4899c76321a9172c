package textutil

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ValidUTF8 returns value unchanged when it is valid UTF-8. Otherwise each
// byte that is not part of a valid sequence is read as Windows-1252, the
// usual encoding of legacy catalog files and ID3v1 tags, so "Caf\xe9"
// becomes "Café". The result is always valid UTF-8.
func ValidUTF8(value string) string {
	if utf8.ValidString(value) {
		return value
	}
	var b strings.Builder
	b.Grow(len(value) + 8)
	for i := 0; i < len(value); {
		r, size := utf8.DecodeRuneInString(value[i:])
		if r == utf8.RuneError && size == 1 {
			b.WriteRune(charmap.Windows1252.DecodeByte(value[i]))
		} else {
			b.WriteString(value[i : i+size])
		}
		i += size
	}
	return b.String()
}
