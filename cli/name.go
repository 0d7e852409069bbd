package cli

import (
	"fmt"
	"strconv"

	"github.com/jongio/proclist/cliout"
	"github.com/jongio/proclist/procutil"
	"github.com/jongio/proclist/snapshot"
	"github.com/spf13/cobra"
)

func newNameCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "name <pid>...",
		Short: "Resolve process IDs to executable paths",
		Example: `  proclist name 4 1234
  proclist name --output json 1234`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pids, err := parsePIDs(args)
			if err != nil {
				return err
			}
			return a.runName(pids)
		},
	}
}

func parsePIDs(args []string) ([]uint32, error) {
	pids := make([]uint32, 0, len(args))
	for _, arg := range args {
		pid, err := strconv.ParseUint(arg, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid process ID %q", arg)
		}
		pids = append(pids, uint32(pid))
	}
	return pids, nil
}

// runName resolves each PID in argument order. Failures are reported per
// PID; the command fails if any lookup failed.
func (a *app) runName(pids []uint32) error {
	entries := make([]snapshot.Entry, 0, len(pids))
	failed := 0
	for _, pid := range pids {
		name, err := a.src.ProcessName(pid)
		e := snapshot.Entry{PID: pid, Path: name}
		if err != nil {
			failed++
			e = snapshot.Entry{PID: pid, Error: err.Error(), Err: err}
		}
		entries = append(entries, e)
	}

	err := cliout.Print(entries, func() {
		if cliout.GetFormat() == cliout.FormatTable {
			renderTable(entries)
			return
		}
		for _, e := range entries {
			printEntry(e, failureHint(e.PID))
		}
	})
	if err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d lookups failed", failed, len(pids))
	}
	return nil
}

// failureHint tells a stale PID apart from one that exists but cannot be read.
func failureHint(pid uint32) string {
	if !procutil.IsProcessRunning(int(pid)) {
		return "process is not running"
	}
	return "permission denied?"
}
