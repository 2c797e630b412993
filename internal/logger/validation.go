package logger

import (
	"fmt"
	"runtime"
	"strings"
)

// FilenameValidationError explains why a log filename pattern was rejected.
type FilenameValidationError struct {
	Pattern      string
	InvalidChars []rune
	Platform     string
	Suggestion   string
}

func (e *FilenameValidationError) Error() string {
	quoted := make([]string, len(e.InvalidChars))
	for i, r := range e.InvalidChars {
		quoted[i] = fmt.Sprintf("'%c' (%s)", r, describeRune(r))
	}
	msg := fmt.Sprintf("invalid filename pattern %q: contains %s not allowed on %s",
		e.Pattern, strings.Join(quoted, ", "), e.Platform)
	if e.Suggestion != "" {
		msg += fmt.Sprintf("; try %q", e.Suggestion)
	}
	return msg
}

// ValidateFilenamePattern rejects patterns that would escape the log
// directory or be unusable as a filename on the current platform.
func ValidateFilenamePattern(pattern string) error {
	if pattern == "" {
		return nil
	}

	invalid := "/\\"
	platform := "all platforms"
	if runtime.GOOS == "windows" {
		invalid += `:*?"<>|`
		platform = "Windows"
	}

	var found []rune
	for _, r := range pattern {
		if strings.ContainsRune(invalid, r) || r < 0x20 {
			found = append(found, r)
		}
	}
	if len(found) == 0 {
		return nil
	}

	return &FilenameValidationError{
		Pattern:      pattern,
		InvalidChars: found,
		Platform:     platform,
		Suggestion:   suggestFilename(pattern, invalid),
	}
}

func suggestFilename(pattern, invalid string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalid, r) || r < 0x20 {
			return '-'
		}
		return r
	}, pattern)
}

func describeRune(r rune) string {
	switch r {
	case '/':
		return "slash"
	case '\\':
		return "backslash"
	case ':':
		return "colon"
	case '*':
		return "asterisk"
	case '?':
		return "question mark"
	case '"':
		return "quotes"
	case '<', '>':
		return "angle brackets"
	case '|':
		return "pipe"
	default:
		return "control character"
	}
}
