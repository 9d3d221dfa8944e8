package progress

import (
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// terminalCapabilities holds detected terminal features
type terminalCapabilities struct {
	supportsANSI  bool
	terminalWidth int
}

func detectCapabilities() terminalCapabilities {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		width = 80
	}

	return terminalCapabilities{
		supportsANSI:  os.Getenv("TERM") != "dumb",
		terminalWidth: width,
	}
}

// clearLine returns the escape sequence to clear the current line
func clearLine(caps terminalCapabilities) string {
	if caps.supportsANSI {
		return "\033[2K\r"
	}
	return "\r" + strings.Repeat(" ", caps.terminalWidth) + "\r"
}

// truncateToWidth cuts s to width display cells. ANSI escape sequences take
// no space; wide runes take two cells.
func truncateToWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}

	var result strings.Builder
	visible := 0
	inEscape := false
	truncated := false

	for _, r := range s {
		if r == '\033' {
			inEscape = true
			result.WriteRune(r)
			continue
		}

		if inEscape {
			result.WriteRune(r)
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				inEscape = false
			}
			continue
		}

		w := runewidth.RuneWidth(r)
		if visible+w > width {
			truncated = true
			break
		}
		result.WriteRune(r)
		visible += w
	}

	if truncated && !inEscape {
		result.WriteString("\033[0m")
	}

	return result.String()
}
