package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/repometrics/internal/contract"
	"github.com/huangsam/repometrics/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteTimeseriesOutput outputs the per-commit reports of one repository.
func WriteTimeseriesOutput(out *schema.TimeseriesOutput, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, out)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.YAMLOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeYAML(w, out)
		}, "Wrote YAML"); err != nil {
			return fmt.Errorf("error writing YAML output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTimeseriesCSV(w, out)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTimeseriesTable(w, out, cfg)
		}, "Wrote table")
	}
	return nil
}

// writeTimeseriesCSV writes one row per commit and metric. A failed commit gets a single row with its error.
func writeTimeseriesCSV(w io.Writer, out *schema.TimeseriesOutput) error {
	header := []string{"Commit", "Date", "Group", "Metric", "Result", "Error"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, p := range out.Points {
			date := p.Commit.Date.Format(time.RFC3339)
			if p.Report == nil {
				if err := cw.Write([]string{p.Commit.Hash, date, "", "", "", p.Error}); err != nil {
					return fmt.Errorf("failed to write CSV record: %w", err)
				}
				continue
			}
			for _, m := range p.Report.Metrics {
				record := []string{p.Commit.Hash, date, string(m.Info.Group), m.Info.Name, FormatResult(m.Result), m.Error}
				if err := cw.Write(record); err != nil {
					return fmt.Errorf("failed to write CSV record: %w", err)
				}
			}
		}
		return nil
	})
}

// writeTimeseriesTable pivots the points into one row per commit and one column per metric.
func writeTimeseriesTable(w io.Writer, out *schema.TimeseriesOutput, cfg *contract.Config) error {
	if _, err := fmt.Fprintf(w, "%s (%d commits)\n", out.Repository, len(out.Points)); err != nil {
		return err
	}

	names := timeseriesColumns(out.Points)
	table := tablewriter.NewWriter(w)
	table.Header(append([]string{"Commit", "Date"}, names...))
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	var data [][]string
	for _, p := range out.Points {
		row := []string{shortHash(p.Commit.Hash), p.Commit.Date.Format(time.DateOnly)}
		results := map[string]any{}
		if p.Report != nil {
			for _, m := range p.Report.Metrics {
				results[m.Info.Name] = m.Result
			}
		}
		for _, name := range names {
			if v, ok := results[name]; ok {
				row = append(row, formatCell(v, cfg))
			} else {
				row = append(row, schema.UnavailableResult)
			}
		}
		data = append(data, row)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	for _, p := range out.Points {
		if p.Error == "" {
			continue
		}
		if _, err := fmt.Fprintf(w, "Not evaluated: %s: %s\n", shortHash(p.Commit.Hash), p.Error); err != nil {
			return err
		}
	}
	return nil
}

// timeseriesColumns lists metric names in report order, across every evaluated point.
func timeseriesColumns(points []schema.CommitReport) []string {
	var names []string
	seen := map[string]bool{}
	for _, p := range points {
		if p.Report == nil {
			continue
		}
		for _, m := range p.Report.Metrics {
			if !seen[m.Info.Name] {
				seen[m.Info.Name] = true
				names = append(names, m.Info.Name)
			}
		}
	}
	return names
}
