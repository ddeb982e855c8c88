package matching

import (
	"strings"
	"unicode"
)

// honorificSuffixes are stripped from the tail of a name before comparison.
// Longest first so compound suffixes win over their own tails.
var honorificSuffixes = []string{
	"議員",
	"先生",
	"さん",
	"氏",
	"君",
	"様",
}

// Normalize strips all full- and half-width whitespace and trailing honorific
// suffixes. Pure; safe for concurrent use.
func Normalize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	out := b.String()
	for _, suffix := range honorificSuffixes {
		if trimmed, ok := strings.CutSuffix(out, suffix); ok && trimmed != "" {
			out = trimmed
			break
		}
	}
	return out
}

// SplitNames splits a raw submitter string on comma variants into independent
// names, preserving original order and dropping empty segments.
func SplitNames(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		switch r {
		case ',', '、', '，':
			return true
		}
		return false
	})
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f != "" {
			names = append(names, f)
		}
	}
	return names
}
