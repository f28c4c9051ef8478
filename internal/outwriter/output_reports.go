package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/repometrics/internal/contract"
	"github.com/huangsam/repometrics/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteRunOutput outputs the run results, dispatching based on the output format configured.
func WriteRunOutput(out *schema.RunOutput, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, out.Reports)
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
			return writeReportsCSV(w, out)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportsTable(w, out, cfg)
		}, "Wrote table")
	}
	return nil
}

// writeReportsCSV writes one row per metric result, then one row per unevaluated repository.
func writeReportsCSV(w io.Writer, out *schema.RunOutput) error {
	header := []string{"Repository", "Group", "Metric", "Result", "HashLastCommit", "InstalledGitHash", "Error"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, report := range out.Reports {
			for _, m := range report.Metrics {
				record := []string{
					report.Repository,
					string(m.Info.Group),
					m.Info.Name,
					FormatResult(m.Result),
					m.HashLastCommit,
					report.InstalledGitHash,
					m.Error,
				}
				if err := cw.Write(record); err != nil {
					return fmt.Errorf("failed to write CSV record: %w", err)
				}
			}
		}
		for _, u := range out.Unevaluated {
			if err := cw.Write([]string{u.Repository, "", "", "", "", "", u.Error}); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}

// writeReportsTable generates and writes one human-readable table per repository.
func writeReportsTable(w io.Writer, out *schema.RunOutput, cfg *contract.Config) error {
	for _, report := range out.Reports {
		if _, err := fmt.Fprintf(w, "%s (installed %s)\n", report.Repository, orDash(shortHash(report.InstalledGitHash))); err != nil {
			return err
		}
		table := tablewriter.NewWriter(w)
		table.Header([]string{"#", "Group", "Metric", "Result", "Commit"})
		table.Configure(func(cfg *tablewriter.Config) {
			cfg.Row.Alignment.Global = tw.AlignLeft
		})

		var data [][]string
		for i, m := range report.Metrics {
			data = append(data, []string{
				strconv.Itoa(i + 1),
				string(m.Info.Group),
				m.Info.Name,
				formatCell(m.Result, cfg),
				shortHash(m.HashLastCommit),
			})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
	}

	for _, u := range out.Unevaluated {
		if _, err := fmt.Fprintf(w, "Not evaluated: %s: %s\n", u.Repository, u.Error); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Evaluated %d of %d repositories\n", len(out.Reports), len(out.Reports)+len(out.Unevaluated))
	return err
}

func orDash(s string) string {
	if s == "" {
		return schema.UnavailableResult
	}
	return s
}
