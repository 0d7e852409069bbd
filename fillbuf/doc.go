// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package fillbuf runs "fill this buffer" OS queries whose result size is
// not known up front.
//
// Many enumeration APIs (EnumProcesses, GetModuleFileNameEx, readlink) write
// into a caller-supplied buffer and report how much they wrote, with no
// separate flag for truncation. A result that exactly fills the buffer cannot
// be told apart from one that was cut short, so Query treats a full buffer as
// truncated and retries with twice the capacity until the probe reports less
// than the buffer holds.
//
// # Example Usage
//
//	pids, err := fillbuf.QueryFunc(func(buf []uint32) (int, error) {
//	    var written uint32
//	    if err := windows.EnumProcesses(buf, &written); err != nil {
//	        return 0, err
//	    }
//	    return int(written) / 4, nil
//	}, 0, 1024)
//
// An exact fit costs one redundant probe call. The number of retries is
// bounded by log2(final size / initial capacity).
package fillbuf
