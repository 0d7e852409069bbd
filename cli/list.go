package cli

import (
	"context"
	"strconv"

	"github.com/jongio/proclist/cliout"
	"github.com/jongio/proclist/logutil"
	"github.com/jongio/proclist/snapshot"
)

func (a *app) runList(ctx context.Context) error {
	snap, err := snapshot.Take(ctx, a.src, snapshot.Options{
		Workers:    a.cfg.Workers,
		SkipErrors: a.cfg.SkipErrors,
		Unsorted:   a.cfg.Unsorted,
	})
	if err != nil {
		return err
	}

	if a.cfg.MetricsFile != "" {
		if err := snapshot.WriteMetrics(a.cfg.MetricsFile, snap); err != nil {
			return err
		}
		logutil.NewLogger("cli").WithOperation("list").Info("metrics written", "path", a.cfg.MetricsFile)
	}

	return renderSnapshot(snap)
}

func renderSnapshot(snap *snapshot.Snapshot) error {
	switch cliout.GetFormat() {
	case cliout.FormatJSON:
		return cliout.PrintJSON(snap)
	case cliout.FormatTable:
		renderTable(snap.Entries)
		cliout.Plain("")
		cliout.Info("%d processes, %d resolved, %d unresolved",
			snap.Listed, snap.Resolved(), snap.Listed-snap.Resolved())
		if skipped := snap.Listed - len(snap.Entries); skipped > 0 {
			cliout.Warning("%d unresolved processes omitted", skipped)
		}
	default:
		for _, e := range snap.Entries {
			printEntry(e, "permission denied?")
		}
	}
	return nil
}

func renderTable(entries []snapshot.Entry) {
	rows := make([]cliout.TableRow, 0, len(entries))
	for _, e := range entries {
		path := e.Path
		if e.Err != nil {
			path = cliout.Muted("<unavailable>")
		}
		rows = append(rows, cliout.TableRow{
			"PID":  strconv.FormatUint(uint64(e.PID), 10),
			"PATH": path,
		})
	}
	cliout.Table([]string{"PID", "PATH"}, rows)
}

func printEntry(e snapshot.Entry, hint string) {
	if e.Err != nil {
		cliout.Plain("PID %d: %s", e.PID, cliout.Failure("failed with %v (%s)", e.Err, hint))
		return
	}
	cliout.Plain("PID %d: %s", e.PID, e.Path)
}
