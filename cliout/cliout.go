package cliout

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/term"
)

// Format represents the output format.
type Format string

const (
	// FormatDefault prints one line per process.
	FormatDefault Format = "default"
	// FormatTable prints aligned columns.
	FormatTable Format = "table"
	// FormatJSON is JSON format.
	FormatJSON Format = "json"
)

// ANSI color codes for consistent styling
const (
	Reset = "\033[0m"
	Bold  = "\033[1m"
	Dim   = "\033[2m"

	Red         = "\033[31m"
	Cyan        = "\033[36m"
	BrightBlue  = "\033[94m"

	BrightYellow = "\033[93m"
)

// Unicode symbols with ASCII fallbacks
const (
	SymbolWarning = "⚠"
	SymbolInfo    = "ℹ"

	ASCIIWarning = "[!]"
	ASCIIInfo    = "[i]"
)

var (
	mu           sync.RWMutex
	globalFormat           = FormatDefault
	out          io.Writer = os.Stdout
	noColor                = !detectColorSupport()
)

// supportsUnicode detects if the terminal supports Unicode symbols
var supportsUnicode = detectUnicodeSupport()

// detectColorSupport reports whether stdout is a terminal that wants color.
func detectColorSupport() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// detectUnicodeSupport checks if the terminal can display Unicode properly
func detectUnicodeSupport() bool {
	if runtime.GOOS != "windows" {
		return true
	}

	// Windows Terminal, VS Code, ConEmu and PowerShell handle Unicode;
	// old cmd.exe consoles do not.
	for _, name := range []string{"WT_SESSION", "ConEmuPID", "PSModulePath", "POWERSHELL_DISTRIBUTION_CHANNEL", "TERM"} {
		if os.Getenv(name) != "" {
			return true
		}
	}
	return os.Getenv("TERM_PROGRAM") == "vscode"
}

func getIcon(unicode, ascii string) string {
	if supportsUnicode {
		return unicode
	}
	return ascii
}

// ForceColor enables color output regardless of terminal detection.
func ForceColor() {
	mu.Lock()
	noColor = false
	mu.Unlock()
}

// NoColor disables color output.
func NoColor() {
	mu.Lock()
	noColor = true
	mu.Unlock()
}

// SetOutput redirects all output. Passing nil restores stdout.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stdout
	}
	out = w
}

func writer() io.Writer {
	mu.RLock()
	defer mu.RUnlock()
	return out
}

// paint wraps text in an ANSI code unless color is disabled.
func paint(code, text string) string {
	mu.RLock()
	disabled := noColor
	mu.RUnlock()
	if disabled || code == "" {
		return text
	}
	return code + text + Reset
}

func printf(format string, args ...any) {
	_, _ = fmt.Fprintf(writer(), format, args...)
}

// SetFormat sets the global output format.
func SetFormat(format string) error {
	var f Format
	switch format {
	case "default", "":
		f = FormatDefault
	case "table":
		f = FormatTable
	case "json":
		f = FormatJSON
	default:
		return fmt.Errorf("invalid output format: %s (valid options: default, table, json)", format)
	}

	mu.Lock()
	globalFormat = f
	mu.Unlock()
	return nil
}

// GetFormat returns the current output format.
func GetFormat() Format {
	mu.RLock()
	defer mu.RUnlock()
	return globalFormat
}

// IsJSON returns true if the output format is JSON.
func IsJSON() bool {
	return GetFormat() == FormatJSON
}

// PrintJSON prints data as indented JSON.
func PrintJSON(data any) error {
	encoder := json.NewEncoder(writer())
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Print outputs data as JSON in JSON mode and calls formatter otherwise.
func Print(data any, formatter func()) error {
	if IsJSON() {
		return PrintJSON(data)
	}
	formatter()
	return nil
}

// Header prints a bold header with a divider
func Header(text string) {
	printf("\n%s\n", paint(Bold, text))
	printf("%s\n", strings.Repeat("=", len(text)))
}

// Warning prints a warning message with yellow triangle
func Warning(format string, args ...any) {
	printf("%s  %s\n", paint(BrightYellow, getIcon(SymbolWarning, ASCIIWarning)), fmt.Sprintf(format, args...))
}

// Info prints an info message with blue info icon
func Info(format string, args ...any) {
	printf("%s  %s\n", paint(BrightBlue, getIcon(SymbolInfo, ASCIIInfo)), fmt.Sprintf(format, args...))
}

// Plain prints plain text without any formatting.
func Plain(format string, args ...any) {
	printf(format+"\n", args...)
}

// Label prints a label and value pair
func Label(label, value string) {
	printf("   %s %s\n", paint(Dim, fmt.Sprintf("%-12s", label+":")), value)
}

// Muted returns dim text.
func Muted(format string, args ...any) string {
	return paint(Dim, fmt.Sprintf(format, args...))
}

// Failure returns text colored as an error.
func Failure(format string, args ...any) string {
	return paint(Red, fmt.Sprintf(format, args...))
}

// TableRow represents a row in a table as a map of column header to value.
type TableRow map[string]string

// Table prints a table with the given headers and rows. Nothing is printed
// when there are no rows.
func Table(headers []string, rows []TableRow) {
	if len(rows) == 0 {
		return
	}

	widths := make(map[string]int, len(headers))
	for _, header := range headers {
		widths[header] = ansi.StringWidth(header)
	}
	for _, row := range rows {
		for _, header := range headers {
			if w := ansi.StringWidth(row[header]); w > widths[header] {
				widths[header] = w
			}
		}
	}

	var b strings.Builder
	b.WriteString("   ")
	for _, header := range headers {
		b.WriteString(paint(Bold, pad(header, widths[header])))
		b.WriteString("  ")
	}
	b.WriteString("\n   ")
	for _, header := range headers {
		b.WriteString(strings.Repeat("─", widths[header]) + "  ")
	}
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString("   ")
		for _, header := range headers {
			b.WriteString(pad(row[header], widths[header]))
			b.WriteString("  ")
		}
		b.WriteString("\n")
	}
	printf("%s", b.String())
}

// pad right-pads s to width terminal cells. Escape sequences take no space.
func pad(s string, width int) string {
	if n := width - ansi.StringWidth(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}
