// Package diag renders NuwaScript errors against their originating source
// text: a header line, the offending source line, and a caret pointing at
// the column.
package diag

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Positioned is implemented by any error that can report a line/column.
type Positioned interface {
	error
	Line() int
	Column() int
}

// Format renders err against source, with an optional file name header. If
// color is true, the header and caret are colorized for a TTY.
func Format(err error, source, file string, useColor bool) string {
	pos, ok := err.(Positioned)
	var sb strings.Builder

	header := fmt.Sprintf("error: %s", err.Error())
	if useColor {
		header = color.New(color.FgRed, color.Bold).Sprint(header)
	}
	sb.WriteString(header)
	sb.WriteByte('\n')

	if !ok {
		return sb.String()
	}

	line := sourceLine(source, pos.Line())
	if line == "" {
		return sb.String()
	}

	if file != "" {
		fmt.Fprintf(&sb, "  --> %s:%d:%d\n", file, pos.Line(), pos.Column())
	} else {
		fmt.Fprintf(&sb, "  --> line %d:%d\n", pos.Line(), pos.Column())
	}

	prefix := fmt.Sprintf("%4d | ", pos.Line())
	sb.WriteString(prefix)
	sb.WriteString(line)
	sb.WriteByte('\n')

	caret := strings.Repeat(" ", len(prefix)+max(pos.Column()-1, 0)) + "^"
	if useColor {
		caret = color.New(color.FgRed, color.Bold).Sprint(caret)
	}
	sb.WriteString(caret)
	return sb.String()
}

func sourceLine(source string, lineNum int) string {
	if source == "" || lineNum < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
