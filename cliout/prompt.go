package cliout

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// WaitForKey prints msg and blocks until a key is pressed on stdin.
func WaitForKey(msg string) error {
	return waitForKey(os.Stdin, msg)
}

// waitForKey reads a single byte in raw mode when in is a terminal, and a
// whole line otherwise (piped input cannot deliver single key presses).
func waitForKey(in *os.File, msg string) error {
	printf("%s", msg)
	defer printf("\n")

	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		_, err := bufio.NewReader(in).ReadString('\n')
		if err == io.EOF {
			return nil
		}
		return err
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to set raw mode: %w", err)
	}
	defer func() { _ = term.Restore(fd, state) }()

	var key [1]byte
	if _, err := in.Read(key[:]); err != nil && err != io.EOF {
		return err
	}
	return nil
}
