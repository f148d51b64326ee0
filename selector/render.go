package selector

import (
	"strconv"
	"strings"
)

// Render numbers list from 1, one "<i>.<name>" per line.
func Render(list []string) string {
	var sb strings.Builder
	for i, name := range list {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(strconv.Itoa(i + 1))
		sb.WriteByte('.')
		sb.WriteString(name)
	}
	return sb.String()
}
