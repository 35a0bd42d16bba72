// Package term is the terminal front end: it prints the quiz, results and
// history screens and reads answers line by line.
package term

import "strings"

const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorCyan   = "\033[36m"
	colorYellow = "\033[33m"
	colorBold   = "\033[1m"

	checkMark = "✅"
	crossMark = "❌"
)

type painter struct{ on bool }

func (p painter) paint(s, color string) string {
	if !p.on || color == "" {
		return s
	}
	return color + s + colorReset
}

func padRight(s string, width int) string {
	runes := []rune(s)
	if len(runes) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(runes))
}
