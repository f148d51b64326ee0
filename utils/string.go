package utils

import (
	"strings"
	"unicode/utf8"
)

// https://stackoverflow.com/a/59955447/6917520
func TruncateText(s string, max int) string {
	if max > len(s) {
		return s
	}

	end := runeBoundary(s, max)
	cut := strings.LastIndexAny(s[:end], " .,:;-\n")
	if cut <= 0 {
		return s[:end]
	}
	return s[:cut]
}

// runeBoundary returns the largest index <= max that does not split a rune.
func runeBoundary(s string, max int) int {
	if max >= len(s) {
		return len(s)
	}
	for i := max; i > 0; i-- {
		if utf8.RuneStart(s[i]) {
			return i
		}
	}
	return 0
}

func StringOrNone(s string) string {
	if s == "" {
		return "None"
	}

	return s
}

func TrimSlash(s string) string {
	return strings.TrimRight(s, "/")
}

// SplitMessage breaks s into pieces of at most max bytes, preferring line breaks.
// Runes are never split.
func SplitMessage(s string, max int) []string {
	if len(s) <= max {
		return []string{s}
	}

	var out []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}

	for _, line := range strings.Split(s, "\n") {
		for len(line) > max {
			flush()
			cut := runeBoundary(line, max)
			if cut == 0 {
				_, cut = utf8.DecodeRuneInString(line)
			}
			out = append(out, line[:cut])
			line = line[cut:]
		}
		if cur.Len() > 0 && cur.Len()+1+len(line) > max {
			flush()
		}
		if cur.Len() > 0 {
			cur.WriteByte('\n')
		}
		cur.WriteString(line)
	}
	flush()

	return out
}
