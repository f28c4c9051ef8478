package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/huangsam/repometrics/internal/contract"
	"github.com/huangsam/repometrics/schema"

	"github.com/olekukonko/tablewriter"
)

// lookupView is the serialized form of a single metric lookup.
type lookupView struct {
	Repository string              `json:"repository" yaml:"repository"`
	Result     schema.MetricResult `json:"result" yaml:"result"`
}

// WriteLookupResult displays the stored result of one metric for one repository.
func WriteLookupResult(label string, result schema.MetricResult, cfg *contract.Config) error {
	view := lookupView{Repository: label, Result: result}

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, view)
		}, "Wrote JSON")
	case schema.YAMLOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeYAML(w, view)
		}, "Wrote YAML")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"Repository", "Metric", "Result", "HashLastCommit"}, func(cw *csv.Writer) error {
				return cw.Write([]string{label, result.Info.Name, FormatResult(result.Result), result.HashLastCommit})
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			table := tablewriter.NewWriter(w)
			table.Header([]string{"Repository", "Metric", "Result", "Commit"})
			if err := table.Bulk([][]string{{label, result.Info.Name, formatCell(result.Result, cfg), shortHash(result.HashLastCommit)}}); err != nil {
				return err
			}
			if err := table.Render(); err != nil {
				return err
			}
			if result.Error != "" {
				_, err := fmt.Fprintf(w, "Error: %s\n", result.Error)
				return err
			}
			return nil
		}, "Wrote table")
	}
}
