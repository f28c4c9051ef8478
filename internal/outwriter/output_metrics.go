package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/huangsam/repometrics/internal/contract"
	"github.com/huangsam/repometrics/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// groupView is the serialized form of one metric group.
type groupView struct {
	Group   schema.MetricGroup  `json:"group" yaml:"group"`
	Metrics []schema.MetricInfo `json:"metrics" yaml:"metrics"`
}

// WriteMetricGroups displays the registered metrics partitioned by group, groups in the given order.
func WriteMetricGroups(groups []schema.MetricGroup, view map[schema.MetricGroup][]schema.MetricInfo, cfg *contract.Config) error {
	ordered := make([]groupView, 0, len(groups))
	for _, g := range groups {
		ordered = append(ordered, groupView{Group: g, Metrics: view[g]})
	}

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, ordered)
		}, "Wrote JSON")
	case schema.YAMLOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeYAML(w, ordered)
		}, "Wrote YAML")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"Group", "Metric", "Description", "Schema"}, func(cw *csv.Writer) error {
				for _, g := range ordered {
					for _, info := range g.Metrics {
						if err := cw.Write([]string{string(g.Group), info.Name, info.Description, formatSchema(info.Schema)}); err != nil {
							return fmt.Errorf("failed to write CSV record: %w", err)
						}
					}
				}
				return nil
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeMetricGroupsTable(w, ordered)
		}, "Wrote table")
	}
}

func writeMetricGroupsTable(w io.Writer, groups []groupView) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Group", "Metric", "Description", "Schema"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	var data [][]string
	total := 0
	for _, g := range groups {
		for _, info := range g.Metrics {
			data = append(data, []string{string(g.Group), info.Name, info.Description, formatSchema(info.Schema)})
			total++
		}
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d metrics in %d groups\n", total, len(groups))
	return err
}

// formatSchema renders a result schema as sorted field:type pairs.
func formatSchema(s schema.ResultSchema) string {
	keys := slices.Sorted(maps.Keys(s))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+s[k])
	}
	return strings.Join(parts, "; ")
}
