//go:build windows
// +build windows

// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package procutil

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	modpsapi = windows.NewLazySystemDLL("psapi.dll")

	procGetModuleFileNameExA = modpsapi.NewProc("GetModuleFileNameExA")
)

type windowsAPI struct{}

func newSystemAPI() api {
	return windowsAPI{}
}

type windowsHandle windows.Handle

func (h windowsHandle) close() error {
	if h == 0 {
		return nil
	}
	return windows.CloseHandle(windows.Handle(h))
}

func (windowsAPI) enumProcesses(pids []uint32, bytesReturned *uint32) error {
	return windows.EnumProcesses(pids, bytesReturned)
}

func (windowsAPI) openProcess(access uint32, inherit bool, pid uint32) (processHandle, error) {
	h, err := windows.OpenProcess(access, inherit, pid)
	return windowsHandle(h), err
}

// moduleFileName calls GetModuleFileNameExA with a NULL module, which selects
// the process executable.
func (windowsAPI) moduleFileName(h processHandle, buf []byte) (uint32, error) {
	wh, ok := h.(windowsHandle)
	if !ok || len(buf) == 0 {
		return 0, errInvalidHandle
	}
	if err := procGetModuleFileNameExA.Find(); err != nil {
		return 0, err
	}

	r1, _, e1 := procGetModuleFileNameExA.Call(
		uintptr(wh),
		0,
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(len(buf)),
	)
	if r1 == 0 {
		return 0, e1
	}
	return uint32(r1), nil
}
