package constants

import "strings"

// Length selects how long a summary should be.
type Length string

const (
	LengthShort  Length = "short"
	LengthMedium Length = "medium"
	LengthLong   Length = "long"
)

// Mode selects the summarization strategy.
type Mode string

const (
	ModeAI          Mode = "ai"
	ModeTraditional Mode = "traditional"
)

// ParseLength lowercases s; empty means medium. ok is false for unknown values.
func ParseLength(s string) (Length, bool) {
	switch l := Length(strings.ToLower(strings.TrimSpace(s))); l {
	case "":
		return LengthMedium, true
	case LengthShort, LengthMedium, LengthLong:
		return l, true
	default:
		return l, false
	}
}

// ParseMode lowercases s; empty means ai. ok is false for unknown values.
func ParseMode(s string) (Mode, bool) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeAI, true
	case ModeAI, ModeTraditional:
		return m, true
	default:
		return m, false
	}
}
