// Package procutil lists running processes and resolves process IDs to
// executable paths.
//
// Both queries run on the fillbuf retry protocol: the OS call writes into a
// fixed buffer, and a full buffer is treated as a possibly truncated result
// and retried with twice the capacity.
//
// # Platforms
//
//   - Windows: EnumProcesses, OpenProcess(PROCESS_QUERY_INFORMATION) and
//     psapi GetModuleFileNameExA through golang.org/x/sys/windows
//   - Everything else: github.com/shirou/gopsutil/v4/process, presented
//     through the same fill-a-buffer calls so the retry protocol is shared
//
// # Errors
//
// ProcessList fails with an error matching ErrProcessList. ProcessName fails
// with an error matching ErrProcessInformation, whether the process could not
// be opened (missing permission, stale PID) or its path could not be read.
//
// # Example Usage
//
//	pids, err := procutil.ProcessList()
//	if err != nil {
//	    return err
//	}
//	for _, pid := range pids {
//	    name, err := procutil.ProcessName(pid)
//	    if errors.Is(err, procutil.ErrProcessInformation) {
//	        continue // not inspectable, keep going
//	    }
//	    fmt.Printf("PID %d: %s\n", pid, name)
//	}
package procutil
