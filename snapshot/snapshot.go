// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package snapshot

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/jongio/proclist/logutil"
	"github.com/jongio/proclist/procutil"
	"golang.org/x/sync/errgroup"
)

// Source lists processes and resolves their executable paths.
type Source interface {
	ProcessList() ([]uint32, error)
	ProcessName(pid uint32) (string, error)
}

type systemSource struct{}

func (systemSource) ProcessList() ([]uint32, error)         { return procutil.ProcessList() }
func (systemSource) ProcessName(pid uint32) (string, error) { return procutil.ProcessName(pid) }

// System returns the Source backed by the operating system.
func System() Source {
	return systemSource{}
}

// Options configures Take.
type Options struct {
	// Workers bounds concurrent name lookups. Values below 1 mean 1.
	Workers int
	// SkipErrors drops entries whose path could not be resolved.
	SkipErrors bool
	// Unsorted keeps the OS enumeration order.
	Unsorted bool
}

// Entry is one process in a snapshot.
type Entry struct {
	PID   uint32 `json:"pid"`
	Path  string `json:"path,omitempty"`
	Error string `json:"error,omitempty"`

	// Err is the lookup failure, nil when Path is set.
	Err error `json:"-"`
}

// Snapshot is the result of one Take.
type Snapshot struct {
	TakenAt  time.Time     `json:"takenAt"`
	Duration time.Duration `json:"-"`
	// Listed is the number of PIDs the OS returned, including skipped ones.
	Listed  int     `json:"listed"`
	Entries []Entry `json:"processes"`
}

// Failed returns the number of entries without a path.
func (s *Snapshot) Failed() int {
	n := 0
	for _, e := range s.Entries {
		if e.Err != nil {
			n++
		}
	}
	return n
}

// Resolved returns the number of entries with a path.
func (s *Snapshot) Resolved() int {
	return len(s.Entries) - s.Failed()
}

// Take lists the processes once and resolves every PID. It fails only if
// listing fails or ctx is done before all lookups complete.
func Take(ctx context.Context, src Source, opts Options) (*Snapshot, error) {
	log := logutil.NewLogger("snapshot")
	start := time.Now()

	pids, err := src.ProcessList()
	if err != nil {
		return nil, err
	}
	log.Debug("listed processes", "count", len(pids))

	workers := max(opts.Workers, 1)
	entries := make([]Entry, len(pids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, pid := range pids {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			entries[i] = resolve(src, pid, log)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("snapshot interrupted: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("snapshot interrupted: %w", err)
	}

	resolved := 0
	for _, e := range entries {
		if e.Err == nil {
			resolved++
		}
	}

	if opts.SkipErrors {
		entries = slices.DeleteFunc(entries, func(e Entry) bool { return e.Err != nil })
	}
	if !opts.Unsorted {
		slices.SortStableFunc(entries, func(a, b Entry) int { return cmp.Compare(a.PID, b.PID) })
	}

	snap := &Snapshot{
		TakenAt:  start,
		Duration: time.Since(start),
		Listed:   len(pids),
		Entries:  entries,
	}
	log.Debug("snapshot complete", "listed", snap.Listed, "failed", snap.Failed(), "duration", snap.Duration)
	if len(pids) > 0 && resolved == 0 {
		log.Warn("no executable paths could be resolved", "listed", len(pids))
	}
	return snap, nil
}

func resolve(src Source, pid uint32, log *logutil.ComponentLogger) Entry {
	name, err := src.ProcessName(pid)
	if err != nil {
		log.WithPID(pid).Debug("name lookup failed", "error", err)
		return Entry{PID: pid, Error: err.Error(), Err: err}
	}
	return Entry{PID: pid, Path: name}
}
