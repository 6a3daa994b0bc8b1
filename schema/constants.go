package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the console summary.
	OutputMode string

	// GitBackend represents the source-control backend used to read history.
	GitBackend string

	// DatabaseBackend represents the database backend for caching and run history.
	DatabaseBackend string

	// ChangeKind represents how a file changed between two trees.
	ChangeKind string
)

// All output modes supported.
const (
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
	CSVOut  OutputMode = "csv"
	NoneOut OutputMode = "none"
)

// All git backends supported.
const (
	GitCLIBackend  GitBackend = "git" // default
	Libgit2Backend GitBackend = "libgit2"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All change kinds reported by a tree diff.
const (
	Added    ChangeKind = "added"
	Deleted  ChangeKind = "deleted"
	Modified ChangeKind = "modified"
	Renamed  ChangeKind = "renamed"
	Copied   ChangeKind = "copied"
	Other    ChangeKind = "other"
)

// DefaultReportPath is where the JSON report lands unless overridden.
const DefaultReportPath = "/tmp/commit-analysis.json"

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut: {},
	JSONOut: {},
	CSVOut:  {},
	NoneOut: {},
}

// ValidGitBackends lists all valid git backends.
var ValidGitBackends = map[GitBackend]struct{}{
	GitCLIBackend:  {},
	Libgit2Backend: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
