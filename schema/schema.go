// Package schema has the data types shared across repometrics.
package schema

import "time"

// Repository describes a source repository under evaluation.
// Label is the stable join key between runs and reports.
type Repository struct {
	Label            string `json:"label" yaml:"label"`
	URL              string `json:"gitRepoUrl,omitempty" yaml:"url,omitempty"`
	Branch           string `json:"targetBranch,omitempty" yaml:"branch,omitempty"`
	InstalledGitHash string `json:"installedGitHash,omitempty" yaml:"installedGitHash,omitempty"`
	Local            bool   `json:"isLocal,omitempty" yaml:"local,omitempty"`
	Path             string `json:"path,omitempty" yaml:"path,omitempty"` // Working copy path for local repositories
}

// Manifest is the parsed dependency-declaration file of a repository.
type Manifest struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Scripts         map[string]string `json:"scripts,omitempty"`
	Dependencies    map[string]string `json:"dependencies,omitempty"`
	DevDependencies map[string]string `json:"devDependencies,omitempty"`
	Raw             map[string]any    `json:"-"` // Every top-level key, for metrics that inspect custom sections
}

// MetricInfo is the static identity of a metric type.
type MetricInfo struct {
	Name        string       `json:"name" yaml:"name"`
	Group       MetricGroup  `json:"group" yaml:"group"`
	Description string       `json:"description" yaml:"description"`
	Schema      ResultSchema `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// ResultSchema describes the shape of a metric's execute result: field name to type description.
type ResultSchema map[string]string

// Verdict is the typed form of a boolean metric result.
type Verdict struct {
	Result bool `json:"result"`
}

// MetricResult is the outcome of one metric against one repository.
type MetricResult struct {
	Info           MetricInfo `json:"info" yaml:"info"`
	Result         any        `json:"result" yaml:"result"`
	HashLastCommit string     `json:"hashLastCommit" yaml:"hashLastCommit"`
	Error          string     `json:"error,omitempty" yaml:"error,omitempty"`
}

// Report is the full evaluation output for one repository.
type Report struct {
	Repository       string         `json:"repository" yaml:"repository"`
	Metrics          []MetricResult `json:"metrics" yaml:"metrics"`
	InstalledGitHash string         `json:"installedGitHash" yaml:"installedGitHash"`
}

// Unevaluated records a repository whose evaluation batch failed.
type Unevaluated struct {
	Repository string `json:"repository" yaml:"repository"`
	Error      string `json:"error" yaml:"error"`
}

// RunOutput is everything one run produced, in configuration order.
type RunOutput struct {
	Reports     []Report      `json:"reports" yaml:"reports"`
	Unevaluated []Unevaluated `json:"unevaluated,omitempty" yaml:"unevaluated,omitempty"`
}

// IsUnavailable reports whether the result carries the unavailable sentinel.
func (r MetricResult) IsUnavailable() bool {
	s, ok := r.Result.(string)
	return ok && s == UnavailableResult
}

// Commit is one revision of a repository's history.
type Commit struct {
	Hash string    `json:"hash" yaml:"hash"`
	Date time.Time `json:"date" yaml:"date"`
}

// CommitReport is the evaluation of one repository at a past commit.
// Report is nil when the evaluation at that commit failed.
type CommitReport struct {
	Commit Commit  `json:"commit" yaml:"commit"`
	Report *Report `json:"report,omitempty" yaml:"report,omitempty"`
	Error  string  `json:"error,omitempty" yaml:"error,omitempty"`
}

// TimeseriesOutput holds the reports of one repository across its recent commits, newest first.
type TimeseriesOutput struct {
	Repository string         `json:"repository" yaml:"repository"`
	Points     []CommitReport `json:"points" yaml:"points"`
}
