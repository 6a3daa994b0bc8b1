// Package schema has the models shared by every part of commitstat.
package schema

// ComponentChanges counts the commits that added, deleted or modified files
// in one component. Each commit contributes at most one increment per component.
type ComponentChanges struct {
	FilesAdded    int `json:"files_added"`
	FilesDeleted  int `json:"files_deleted"`
	FilesModified int `json:"files_modified"`
}

// Add returns the component-wise sum of c and other.
// The zero value is the identity.
func (c ComponentChanges) Add(other ComponentChanges) ComponentChanges {
	return ComponentChanges{
		FilesAdded:    c.FilesAdded + other.FilesAdded,
		FilesDeleted:  c.FilesDeleted + other.FilesDeleted,
		FilesModified: c.FilesModified + other.FilesModified,
	}
}

// Total returns the sum of all three counters.
func (c ComponentChanges) Total() int {
	return c.FilesAdded + c.FilesDeleted + c.FilesModified
}

// Stats is the aggregate document produced by one walk over the history.
// Its JSON form is the report written to disk.
type Stats struct {
	NumCommitsToMaster int                         `json:"num_commits_to_master"`
	NumPRs             int                         `json:"num_prs"`
	MissingPRs         int                         `json:"missing_prs"`
	NumFileChanges     int                         `json:"num_file_changes"`
	ComponentStats     map[string]int              `json:"component_stats"`
	LangStats          map[string]int              `json:"lang_stats"`
	CommitsByMonth     map[string][12]int          `json:"commits_by_month"`       // year -> Jan..Dec
	CommitsByDayOfWeek map[string]int              `json:"commits_by_day_of_week"` // Mon..Sun
	ChangesByComponent map[string]ComponentChanges `json:"changes_by_component"`
}

// NewStats returns an empty Stats with every map allocated.
func NewStats() Stats {
	return Stats{
		ComponentStats:     make(map[string]int),
		LangStats:          make(map[string]int),
		CommitsByMonth:     make(map[string][12]int),
		CommitsByDayOfWeek: make(map[string]int),
		ChangesByComponent: make(map[string]ComponentChanges),
	}
}
