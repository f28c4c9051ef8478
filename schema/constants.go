package schema

// Custom string types for type safety.
type (
	// MetricGroup is the presentation group of a metric.
	MetricGroup string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for persistence.
	DatabaseBackend string
)

// UnavailableResult is the result payload of a metric that does not apply to a repository.
const UnavailableResult = "-"

// All metric groups supported.
const (
	RandomGroup   MetricGroup = "Random"
	VersionsGroup MetricGroup = "Versions"
	CommandsGroup MetricGroup = "Commands"
	HasGroup      MetricGroup = "Has"
)

// All output modes supported.
const (
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
	CSVOut  OutputMode = "csv"
	YAMLOut OutputMode = "yaml"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut: {},
	JSONOut: {},
	CSVOut:  {},
	YAMLOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
