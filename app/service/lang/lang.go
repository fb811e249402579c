package lang

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

const (
	English = "English"
	Arabic  = "Arabic"
)

// Detect reports whether a message reads as Arabic or English. Anything the
// detector is unsure about, and every other language, counts as English.
func Detect(msg string) string {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return English
	}

	info := whatlanggo.Detect(msg)
	if info.Lang == whatlanggo.Arb {
		return Arabic
	}

	return English
}
