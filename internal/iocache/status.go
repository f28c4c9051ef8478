package iocache

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/huangsam/repometrics/schema"
)

const statusTimeLayout = "2006-01-02 15:04:05"

// PrintReportStoreStatus prints report store status information.
func PrintReportStoreStatus(w io.Writer, status schema.ReportStoreStatus) {
	_, _ = fmt.Fprintf(w, "Report Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Reports: %d\n", status.TotalReports)
	if status.TotalReports > 0 {
		_, _ = fmt.Fprintf(w, "Last Report: %s\n", status.LastReportTime.Format(statusTimeLayout))
		_, _ = fmt.Fprintf(w, "Oldest Report: %s\n", status.OldestReportTime.Format(statusTimeLayout))
	}
	_, _ = fmt.Fprintf(w, "Table Size: %d bytes\n", status.TableSizeBytes)
}

// PrintRunStoreStatus prints run store status information.
func PrintRunStoreStatus(w io.Writer, status schema.RunStoreStatus) {
	_, _ = fmt.Fprintf(w, "Run Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Runs: %d\n", status.TotalRuns)
	if status.TotalRuns > 0 {
		_, _ = fmt.Fprintf(w, "Last Run ID: %d\n", status.LastRunID)
		_, _ = fmt.Fprintf(w, "Last Run: %s\n", status.LastRunTime.Format(statusTimeLayout))
		_, _ = fmt.Fprintf(w, "Oldest Run: %s\n", status.OldestRunTime.Format(statusTimeLayout))
		_, _ = fmt.Fprintf(w, "Total Repositories Evaluated: %d\n", status.TotalRepositories)
	}
	_, _ = fmt.Fprintln(w, "Table Sizes:")
	for _, table := range slices.Sorted(maps.Keys(status.TableSizes)) {
		_, _ = fmt.Fprintf(w, "  %s: %d rows\n", table, status.TableSizes[table])
	}
}
