//go:build !windows
// +build !windows

// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package procutil

import (
	"math"

	"github.com/shirou/gopsutil/v4/process"
)

// gopsutilAPI presents gopsutil's process table through the Win32-shaped
// fill-a-buffer calls.
type gopsutilAPI struct{}

func newSystemAPI() api {
	return gopsutilAPI{}
}

// gopsutilHandle holds no OS resource; p is nil when the open failed.
type gopsutilHandle struct {
	p *process.Process
}

func (gopsutilHandle) close() error {
	return nil
}

func (gopsutilAPI) enumProcesses(pids []uint32, bytesReturned *uint32) error {
	all, err := process.Pids()
	if err != nil {
		return err
	}

	n := 0
	for _, pid := range all {
		if n == len(pids) {
			break
		}
		if pid < 0 {
			continue
		}
		pids[n] = uint32(pid)
		n++
	}
	*bytesReturned = uint32(n * pidSize)
	return nil
}

func (gopsutilAPI) openProcess(_ uint32, _ bool, pid uint32) (processHandle, error) {
	if pid > math.MaxInt32 {
		return gopsutilHandle{}, process.ErrorProcessNotRunning
	}
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return gopsutilHandle{}, err
	}
	return gopsutilHandle{p: p}, nil
}

func (gopsutilAPI) moduleFileName(h processHandle, buf []byte) (uint32, error) {
	gh, ok := h.(gopsutilHandle)
	if !ok || gh.p == nil {
		return 0, errInvalidHandle
	}

	exe, err := gh.p.Exe()
	if err != nil {
		return 0, err
	}
	return uint32(copyCString(buf, exe)), nil
}
