package core

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/huangsam/repometrics/internal/contract"
	"github.com/huangsam/repometrics/schema"
)

// LoadPriorReports returns the prior report set of a run. A configured prior
// report file wins over the report store; with neither the set is empty.
func LoadPriorReports(cfg *contract.Config, store contract.ReportStore) ([]schema.Report, error) {
	if cfg.PriorReport != "" {
		return ReadReportFile(cfg.PriorReport)
	}
	if store == nil {
		return nil, nil
	}
	reports, err := store.List()
	if err != nil {
		return nil, fmt.Errorf("failed to load prior reports: %w", err)
	}
	return reports, nil
}

// ReadReportFile reads a report set written by the JSON output mode.
// A missing file is an empty set, as on the very first run.
func ReadReportFile(path string) ([]schema.Report, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		contract.LogInfo("no prior report file", "file", path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read prior report %s: %w", path, err)
	}

	var reports []schema.Report
	if err := json.Unmarshal(data, &reports); err != nil {
		return nil, fmt.Errorf("failed to parse prior report %s: %w", path, err)
	}
	return reports, nil
}
