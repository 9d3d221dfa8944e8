package output

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/term"
)

// ColorsEnabled returns true if terminal colors should be used.
// Respects NO_COLOR environment variable (https://no-color.org/)
func ColorsEnabled() bool {
	_, noColor := os.LookupEnv("NO_COLOR")
	if noColor {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// ANSI color codes
const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	cyan   = "\033[36m"
)

// Symbols for CLI output (ASCII-compatible)
const (
	SymbolSuccess = "+"
	SymbolError   = "x"
	SymbolWarning = "!"
	SymbolInfo    = "*"
	SymbolArrow   = "->"
)

func styled(codes string, text string) string {
	if !ColorsEnabled() {
		return text
	}
	return codes + text + reset
}

func Bold(text string) string    { return styled(bold, text) }
func Dim(text string) string     { return styled(dim, text) }
func Success(text string) string { return styled(green, text) }
func Error(text string) string   { return styled(red, text) }
func Warning(text string) string { return styled(yellow, text) }
func Info(text string) string    { return styled(cyan, text) }

// PrintHeader prints a bold section header
func PrintHeader(text string) {
	fmt.Println(Bold(text))
}

func PrintSuccess(message string) {
	fmt.Printf("%s %s\n", Success(SymbolSuccess), Success(message))
}

// PrintError prints an error message with X symbol to stderr
func PrintError(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", Error(SymbolError), Error(message))
}

// PrintWarning prints a warning message with ! symbol to stderr
func PrintWarning(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", Warning(SymbolWarning), Warning(message))
}

func PrintInfo(message string) {
	fmt.Printf("%s %s\n", Info(SymbolInfo), Info(message))
}

// PrintStep prints an indented detail line
func PrintStep(message string) {
	fmt.Printf("  %s %s\n", SymbolArrow, message)
}

// PrintBlock prints multi-line text indented under the previous line, dimmed.
func PrintBlock(text string) {
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		fmt.Printf("    %s\n", Dim(line))
	}
}

// WriteTable renders rows as a borderless table. The first column is left
// aligned, the rest centered. A nil footer is omitted.
func WriteTable(w io.Writer, header []string, rows [][]string, footer []string) {
	var buffer bytes.Buffer

	table := tablewriter.NewWriter(&buffer)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	alignment := make([]int, len(header))
	for i := range alignment {
		alignment[i] = tablewriter.ALIGN_CENTER
	}
	if len(alignment) > 0 {
		alignment[0] = tablewriter.ALIGN_LEFT
	}
	table.SetColumnAlignment(alignment)

	table.AppendBulk(rows)
	if footer != nil {
		table.SetFooter(footer)
	}

	table.Render()
	_, _ = fmt.Fprint(w, buffer.String())
}

// Plural returns the singular or plural form based on count
func Plural(count int, singular, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}
