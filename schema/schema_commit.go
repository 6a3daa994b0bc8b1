package schema

import "time"

// AuthorTime is an author timestamp as recorded in a commit object.
type AuthorTime struct {
	Seconds       int64 // Unix seconds
	OffsetMinutes int   // Offset from UTC of the author's wall clock
}

// CommitRecord is the backend-neutral view of one commit.
type CommitRecord struct {
	ID         string
	Parents    []string // Ordered parent ids
	Tree       string   // Root tree id, always present
	AuthorTime AuthorTime
	Summary    string // First line of the message
}

// FileDelta is one changed path between two trees.
type FileDelta struct {
	Path string // New path, slash separated
	Kind ChangeKind
}

// ComponentFact records the first change kind seen for a component in one commit.
type ComponentFact struct {
	Component string
	Kind      ChangeKind
}

// CommitOutcome is everything one commit contributes to Stats.
type CommitOutcome struct {
	ID          string
	Date        time.Time // UTC calendar date of the author's wall clock
	HasPR       bool
	PRNumber    string // Empty when the summary carries no (#N) reference
	Languages   []string
	Components  []ComponentFact
	FileChanges int
}
