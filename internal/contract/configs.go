package contract

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/huangsam/repometrics/schema"
)

// Default values for configuration.
const (
	DefaultWorkDir       = "./tmp"
	DefaultMetricWorkers = 0 // unlimited
	DefaultCommits       = 5
)

// DefaultWorkers is the default number of concurrent repository workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// RepositoryRawInput is one repository entry from the YAML config file.
type RepositoryRawInput struct {
	Label  string `mapstructure:"label"`
	URL    string `mapstructure:"url"`
	Branch string `mapstructure:"branch"`
	Local  bool   `mapstructure:"local"`
	Path   string `mapstructure:"path"`
}

// Config holds the runtime configuration for a run.
// This struct remains the "final, validated" config.
type Config struct {
	Repositories []schema.Repository
	Metrics      []string // Empty means every built-in metric

	WorkDir         string
	Workers         int
	MetricWorkers   int  // 0 = unlimited
	Fetch           bool // Clone or update remote repositories before evaluation
	Install         bool // Install dependencies before evaluation
	PartialResults  bool // Keep sibling results when one metric fails
	RegistryLookups bool // Allow metrics to query package registries
	Strict          bool // Exit non-zero when any repository is unevaluated
	Commits         int  // Most recent commits evaluated by timeseries

	Output      schema.OutputMode
	OutputFile  string
	PriorReport string // JSON file with a prior report set; overrides the report store
	Width       int    // Terminal width override (0 = auto-detect)
	UseColors   bool   // Enable colored verdicts in table output

	ReportBackend   schema.DatabaseBackend
	ReportDBConnect string // Please use env var as this is plaintext

	RunBackend   schema.DatabaseBackend
	RunDBConnect string // Please use env var as this is plaintext
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from the config file ---
	Repositories []RepositoryRawInput `mapstructure:"repositories"`
	Metrics      []string             `mapstructure:"metrics"`

	// --- Fields from rootCmd.PersistentFlags() ---
	WorkDir         string `mapstructure:"work-dir"`
	Workers         int    `mapstructure:"workers"`
	MetricWorkers   int    `mapstructure:"metric-workers"`
	Output          string `mapstructure:"output"`
	OutputFile      string `mapstructure:"output-file"`
	PriorReport     string `mapstructure:"prior-report"`
	Width           int    `mapstructure:"width"`
	Color           string `mapstructure:"color"`
	ReportBackend   string `mapstructure:"report-backend"`
	ReportDBConnect string `mapstructure:"report-db-connect"`
	RunBackend      string `mapstructure:"run-backend"`
	RunDBConnect    string `mapstructure:"run-db-connect"`

	// --- Fields from runCmd.Flags() ---
	Fetch           bool `mapstructure:"fetch"`
	Install         bool `mapstructure:"install"`
	Strict          bool `mapstructure:"strict"`
	PartialResults  bool `mapstructure:"partial-results"`
	RegistryLookups bool `mapstructure:"registry-lookups"`

	// --- Fields from timeseriesCmd.Flags() ---
	Commits int `mapstructure:"commits"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Repositories != nil {
		clone.Repositories = make([]schema.Repository, len(c.Repositories))
		copy(clone.Repositories, c.Repositories)
	}
	if c.Metrics != nil {
		clone.Metrics = make([]string, len(c.Metrics))
		copy(clone.Metrics, c.Metrics)
	}
	return &clone
}

// Repository returns the configured repository with the given label.
func (c *Config) Repository(label string) (schema.Repository, bool) {
	for _, repo := range c.Repositories {
		if repo.Label == label {
			return repo, true
		}
	}
	return schema.Repository{}, false
}

// RepoDir returns the working directory for a repository.
// Local repositories are used in place, remote ones live under WorkDir.
func (c *Config) RepoDir(repo schema.Repository) string {
	if repo.Local {
		return repo.Path
	}
	return filepath.Join(c.WorkDir, RepoFolder(repo.URL))
}

// RepoFolder returns the folder name a remote repository is cloned into.
func RepoFolder(url string) string {
	url = strings.TrimRight(url, "/")
	if idx := strings.LastIndexAny(url, "/:"); idx >= 0 {
		url = url[idx+1:]
	}
	return strings.TrimSuffix(url, ".git")
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processRepositories(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// validateSimpleInputs processes and validates all non-repository fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.PriorReport = input.PriorReport
	cfg.Width = input.Width
	cfg.Fetch = input.Fetch
	cfg.Install = input.Install
	cfg.Strict = input.Strict
	cfg.PartialResults = input.PartialResults
	cfg.RegistryLookups = input.RegistryLookups

	cfg.WorkDir = strings.TrimSpace(input.WorkDir)
	if cfg.WorkDir == "" {
		cfg.WorkDir = DefaultWorkDir
	}

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	if input.MetricWorkers < 0 {
		return fmt.Errorf("metric-workers cannot be negative (received %d)", input.MetricWorkers)
	}
	cfg.MetricWorkers = input.MetricWorkers

	switch {
	case input.Commits < 0:
		return fmt.Errorf("commits cannot be negative (received %d)", input.Commits)
	case input.Commits == 0:
		cfg.Commits = DefaultCommits
	default:
		cfg.Commits = input.Commits
	}

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, json, csv, yaml", input.Output)
	}

	cfg.Metrics = nil
	seen := make(map[string]struct{}, len(input.Metrics))
	for _, name := range input.Metrics {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		cfg.Metrics = append(cfg.Metrics, name)
	}
	return nil
}

// validateBackendConfigs validates report and run backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.ReportBackend = schema.DatabaseBackend(strings.ToLower(input.ReportBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.ReportBackend]; !ok {
		return fmt.Errorf("invalid report backend '%s'. must be sqlite, mysql, postgresql, none", input.ReportBackend)
	}
	cfg.ReportDBConnect = input.ReportDBConnect
	if err := ValidateDatabaseConnectionString(cfg.ReportBackend, cfg.ReportDBConnect); err != nil {
		return fmt.Errorf("report store: %w", err)
	}

	cfg.RunBackend = schema.DatabaseBackend(strings.ToLower(input.RunBackend))
	if cfg.RunBackend == "" {
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.RunBackend]; !ok {
		return fmt.Errorf("invalid run backend '%s'. must be sqlite, mysql, postgresql, none", input.RunBackend)
	}
	cfg.RunDBConnect = input.RunDBConnect
	if err := ValidateDatabaseConnectionString(cfg.RunBackend, cfg.RunDBConnect); err != nil {
		return fmt.Errorf("run store: %w", err)
	}

	// For SQLite, resolve to actual file paths to catch default path conflicts
	if cfg.ReportBackend == schema.SQLiteBackend && cfg.RunBackend == schema.SQLiteBackend {
		reportDBPath := cfg.ReportDBConnect
		if reportDBPath == "" {
			reportDBPath = GetReportDBFilePath()
		}
		runDBPath := cfg.RunDBConnect
		if runDBPath == "" {
			runDBPath = GetRunDBFilePath()
		}
		if reportDBPath == runDBPath {
			return fmt.Errorf("report and run storage must use different SQLite database files. Both resolve to %q", reportDBPath)
		}
	}
	return nil
}

// processRepositories validates repository entries and converts them to descriptors.
func processRepositories(cfg *Config, input *ConfigRawInput) error {
	cfg.Repositories = make([]schema.Repository, 0, len(input.Repositories))
	labels := make(map[string]struct{}, len(input.Repositories))
	for i, raw := range input.Repositories {
		label := strings.TrimSpace(raw.Label)
		if label == "" {
			return fmt.Errorf("repository #%d has an empty label", i+1)
		}
		if _, dup := labels[label]; dup {
			return fmt.Errorf("repository label %q is used more than once", label)
		}
		labels[label] = struct{}{}

		repo := schema.Repository{
			Label:  label,
			URL:    strings.TrimSpace(raw.URL),
			Branch: strings.TrimSpace(raw.Branch),
			Local:  raw.Local,
			Path:   strings.TrimSpace(raw.Path),
		}
		switch {
		case repo.Local && repo.Path == "":
			return fmt.Errorf("local repository %q requires a path", label)
		case !repo.Local && repo.URL == "":
			return fmt.Errorf("repository %q requires a url", label)
		}
		if repo.Local {
			abs, err := filepath.Abs(repo.Path)
			if err != nil {
				return fmt.Errorf("repository %q: %w", label, err)
			}
			repo.Path = abs
		}
		if repo.Branch == "" && !repo.Local {
			repo.Branch = "main"
		}
		cfg.Repositories = append(cfg.Repositories, repo)
	}
	return nil
}
