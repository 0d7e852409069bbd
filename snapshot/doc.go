// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package snapshot captures the process table once: the PID list plus the
// executable path of each process.
//
// Name lookups run on a bounded worker pool. Each lookup is independent, so
// a process that cannot be inspected is recorded on its entry and the
// others continue. Only a failure to list processes fails the snapshot.
//
// # Example Usage
//
//	snap, err := snapshot.Take(ctx, snapshot.System(), snapshot.Options{Workers: 8})
//	if err != nil {
//	    return err
//	}
//	for _, e := range snap.Entries {
//	    fmt.Printf("PID %d: %s\n", e.PID, e.Path)
//	}
//
// WriteMetrics exports the snapshot totals as a Prometheus textfile for the
// node_exporter textfile collector.
package snapshot
