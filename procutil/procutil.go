// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package procutil

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/jongio/proclist/fillbuf"
	"github.com/shirou/gopsutil/v4/process"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

var (
	// ErrProcessList is returned when the OS process enumeration fails.
	ErrProcessList = errors.New("failed fetching process list")
	// ErrProcessInformation is returned when a process cannot be opened or
	// its executable path cannot be read.
	ErrProcessInformation = errors.New("failed fetching process information (missing permission?)")

	errInvalidHandle = errors.New("invalid process handle")
)

const (
	// ListInitialCapacity is the number of PIDs the first enumeration call can hold.
	ListInitialCapacity = 1024
	// NameInitialCapacity is the size in bytes of the first path buffer.
	NameInitialCapacity = 512

	// processQueryInformation is PROCESS_QUERY_INFORMATION, the only right
	// GetModuleFileNameEx needs.
	processQueryInformation = 0x0400

	pidSize = 4
)

// processHandle is an open process. close must be safe on a handle whose open failed.
type processHandle interface {
	close() error
}

// api is the OS boundary the probes run against.
type api interface {
	// enumProcesses writes PIDs into pids and stores the number of bytes written.
	enumProcesses(pids []uint32, bytesReturned *uint32) error
	// openProcess returns a handle even on failure, so callers can pass it on.
	openProcess(access uint32, inherit bool, pid uint32) (processHandle, error)
	// moduleFileName copies the executable path of h into buf as a
	// NUL-terminated string and returns the length without the terminator.
	// Zero means failure.
	moduleFileName(h processHandle, buf []byte) (uint32, error)
}

// system is the platform backend, set in the per-OS files.
var system api = newSystemAPI()

// ProcessList returns the IDs of the processes currently known to the OS, in
// the order the OS enumerated them.
func ProcessList() ([]uint32, error) {
	return processList(system)
}

// ProcessName resolves a process ID to the full path of its executable.
// Invalid UTF-8 in the path is replaced with U+FFFD rather than failing.
func ProcessName(pid uint32) (string, error) {
	return processName(system, pid)
}

func processList(sys api) ([]uint32, error) {
	return fillbuf.Query[uint32](listProbe(sys), 0, ListInitialCapacity)
}

func processName(sys api, pid uint32) (string, error) {
	raw, err := fillbuf.Query[byte](nameProbe(sys, pid), 0, NameInitialCapacity)
	if err != nil {
		return "", err
	}
	return decodeName(raw), nil
}

func listProbe(sys api) fillbuf.ProbeFunc[uint32] {
	return func(buf []uint32) (int, error) {
		var written uint32
		if err := sys.enumProcesses(buf, &written); err != nil {
			return 0, fmt.Errorf("%w: %w", ErrProcessList, err)
		}
		return int(written) / pidSize, nil
	}
}

func nameProbe(sys api, pid uint32) fillbuf.ProbeFunc[byte] {
	return func(buf []byte) (int, error) {
		// A failed open is not checked here; the path call fails on the bad handle.
		h, openErr := sys.openProcess(processQueryInformation, false, pid)
		defer func() { _ = h.close() }()

		n, err := sys.moduleFileName(h, buf)
		if n == 0 {
			return 0, informationError(pid, openErr, err)
		}
		// The terminator is not counted by the OS; a path of len(buf)-1
		// bytes must still look like a full buffer.
		return int(n) + 1, nil
	}
}

func informationError(pid uint32, causes ...error) error {
	if cause := errors.Join(causes...); cause != nil {
		return fmt.Errorf("%w: pid %d: %w", ErrProcessInformation, pid, cause)
	}
	return fmt.Errorf("%w: pid %d", ErrProcessInformation, pid)
}

// decodeName strips the terminator and decodes the path as UTF-8, replacing
// ill-formed bytes.
func decodeName(raw []byte) string {
	raw = bytes.TrimSuffix(raw, []byte{0})
	out, _, err := transform.Bytes(runes.ReplaceIllFormed(), raw)
	if err != nil {
		return strings.ToValidUTF8(string(raw), "\uFFFD")
	}
	return string(out)
}

// copyCString copies s into buf the way the Win32 path calls do: at most
// len(buf)-1 bytes followed by a NUL. It returns the bytes copied without the
// terminator.
func copyCString(buf []byte, s string) int {
	if len(buf) == 0 {
		return 0
	}
	n := copy(buf[:len(buf)-1], s)
	buf[n] = 0
	return n
}

// IsProcessRunning reports whether a process with the given PID exists.
// It returns false for PIDs that are not positive or do not fit in 32 bits.
func IsProcessRunning(pid int) bool {
	if pid <= 0 || pid > math.MaxInt32 {
		return false
	}

	exists, err := process.PidExists(int32(pid))
	if err != nil {
		return false
	}
	return exists
}
