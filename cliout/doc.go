// Package cliout formats proclist's terminal output.
//
// Output goes to stdout by default (SetOutput redirects it) in one of three
// formats:
//   - default: one "PID <n>: <path>" line per process
//   - table: aligned columns with a header row
//   - json: machine-readable output for scripting
//
// ANSI colors are used only when stdout is a terminal and NO_COLOR is unset.
// Unicode symbols fall back to ASCII on legacy Windows consoles.
//
// # Basic Usage
//
//	if err := cliout.SetFormat("table"); err != nil {
//	    return err
//	}
//	cliout.Table([]string{"PID", "PATH"}, rows)
//	cliout.Warning("%d processes could not be inspected", failed)
//
// WaitForKey pauses until a key is pressed, for consoles that close as soon
// as the program exits.
package cliout
