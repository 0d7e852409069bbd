package cliout

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capture redirects output to a buffer with colors disabled.
func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	NoColor()
	t.Cleanup(func() {
		SetOutput(nil)
		_ = SetFormat("default")
	})
	return &buf
}

func TestSetFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
	}{
		{"", FormatDefault},
		{"default", FormatDefault},
		{"table", FormatTable},
		{"json", FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			require.NoError(t, SetFormat(tt.input))
			assert.Equal(t, tt.expected, GetFormat())
		})
	}
	_ = SetFormat("default")
}

func TestSetFormatInvalid(t *testing.T) {
	_ = SetFormat("json")

	err := SetFormat("xml")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format: xml")
	assert.True(t, IsJSON(), "format must be unchanged after an invalid value")
	_ = SetFormat("default")
}

func TestMessagesWithoutColor(t *testing.T) {
	buf := capture(t)

	Warning("skipped %d", 1)
	Info("listing")
	Plain("PID %d: %s", 4, "System")

	output := buf.String()
	for _, want := range []string{"skipped 1", "listing", "PID 4: System\n"} {
		assert.Contains(t, output, want)
	}
	assert.NotContains(t, output, "\033[")
}

func TestForceColor(t *testing.T) {
	buf := capture(t)
	ForceColor()
	defer NoColor()

	Header("Processes")

	assert.Contains(t, buf.String(), Bold+"Processes"+Reset)
	assert.Contains(t, buf.String(), strings.Repeat("=", len("Processes")))
}

func TestLabel(t *testing.T) {
	buf := capture(t)

	Label("Version", "1.0.0")

	assert.Contains(t, buf.String(), "Version:")
	assert.Contains(t, buf.String(), "1.0.0")
}

func TestMutedAndFailure(t *testing.T) {
	NoColor()
	assert.Equal(t, "n/a", Muted("n/a"))
	assert.Equal(t, "err 5", Failure("err %d", 5))

	ForceColor()
	defer NoColor()
	assert.Equal(t, Dim+"n/a"+Reset, Muted("n/a"))
}

func TestTable(t *testing.T) {
	buf := capture(t)

	Table([]string{"PID", "PATH"}, []TableRow{
		{"PID": "4", "PATH": "System"},
		{"PID": "1234", "PATH": `C:\Windows\explorer.exe`},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "PID ")
	assert.Contains(t, lines[0], "PATH")
	assert.Contains(t, lines[1], "────")
	assert.Contains(t, lines[2], "4     System")
	assert.Contains(t, lines[3], `1234  C:\Windows\explorer.exe`)
}

func TestTableIgnoresColorAndMultibyteWidth(t *testing.T) {
	buf := capture(t)
	ForceColor()
	defer NoColor()

	Table([]string{"PID", "PATH"}, []TableRow{
		{"PID": "4", "PATH": Muted("<unavailable>")},
		{"PID": "17", "PATH": "/opt/caf\uFFFD"},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	// Widest visible cell is "<unavailable>", 13 columns.
	assert.Equal(t, "   "+strings.Repeat("─", 3)+"  "+strings.Repeat("─", 13)+"  ", lines[1])
	assert.Equal(t, Bold+"PATH"+strings.Repeat(" ", 9)+Reset+"  ",
		strings.SplitAfterN(lines[0], Reset+"  ", 2)[1])
	assert.Equal(t, "   17   /opt/caf\uFFFD"+strings.Repeat(" ", 4)+"  ", lines[3])
}

func TestTableEmpty(t *testing.T) {
	buf := capture(t)

	Table([]string{"PID"}, nil)

	assert.Empty(t, buf.String())
}

func TestPrint(t *testing.T) {
	buf := capture(t)
	data := map[string]int{"processes": 2}

	called := false
	require.NoError(t, Print(data, func() { called = true }))
	assert.True(t, called)
	assert.Empty(t, buf.String())

	require.NoError(t, SetFormat("json"))
	called = false
	require.NoError(t, Print(data, func() { called = true }))
	assert.False(t, called)

	var parsed map[string]int
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
	assert.Equal(t, 2, parsed["processes"])
}

func TestGetIcon(t *testing.T) {
	original := supportsUnicode
	defer func() { supportsUnicode = original }()

	supportsUnicode = true
	assert.Equal(t, SymbolWarning, getIcon(SymbolWarning, ASCIIWarning))
	supportsUnicode = false
	assert.Equal(t, ASCIIWarning, getIcon(SymbolWarning, ASCIIWarning))
}

func TestWaitForKeyPipedInput(t *testing.T) {
	buf := capture(t)

	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	_, err = w.WriteString("\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	require.NoError(t, waitForKey(r, "Press any key to continue..."))
	assert.Equal(t, "Press any key to continue...\n", buf.String())
}

func TestWaitForKeyClosedInput(t *testing.T) {
	capture(t)

	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	require.NoError(t, w.Close())

	assert.NoError(t, waitForKey(r, "> "))
}
