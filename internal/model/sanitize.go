package model

import (
	"regexp"
	"strings"
)

const (
	maxNameLen = 24
	CodeLength = 6
)

var codePattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)

// SanitizeName trims and truncates a player name. An empty result means the
// name is unusable.
func SanitizeName(name string) string {
	name = strings.TrimSpace(name)
	runes := []rune(name)
	if len(runes) > maxNameLen {
		name = string(runes[:maxNameLen])
	}
	return name
}

// SanitizeCode upper-cases and trims a room code and reports whether the
// result has the expected shape.
func SanitizeCode(code string) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	return code, codePattern.MatchString(code)
}
