// Package agg folds per-commit outcomes into repository-wide Stats.
package agg

import (
	"maps"
	"strconv"

	"github.com/huangsam/commitstat/core/classify"
	"github.com/huangsam/commitstat/schema"
)

// Accumulator owns a partial Stats document and the distinct PR numbers seen.
// It is not safe for concurrent use; each worker owns its own instance.
type Accumulator struct {
	stats     schema.Stats
	prNumbers map[string]struct{}
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{
		stats:     schema.NewStats(),
		prNumbers: make(map[string]struct{}),
	}
}

// Add folds one commit outcome into the accumulator.
func (a *Accumulator) Add(o schema.CommitOutcome) {
	s := &a.stats
	s.NumCommitsToMaster++
	if o.HasPR {
		s.NumPRs++
	} else {
		s.MissingPRs++
	}
	if o.PRNumber != "" {
		a.prNumbers[o.PRNumber] = struct{}{}
	}

	year := strconv.Itoa(o.Date.Year())
	months := s.CommitsByMonth[year]
	months[o.Date.Month()-1]++
	s.CommitsByMonth[year] = months
	s.CommitsByDayOfWeek[classify.WeekdayName(o.Date)]++

	s.NumFileChanges += o.FileChanges
	for _, lang := range o.Languages {
		s.LangStats[lang]++
	}
	for _, fact := range o.Components {
		s.ComponentStats[fact.Component]++
		s.ChangesByComponent[fact.Component] = s.ChangesByComponent[fact.Component].Add(changesFor(fact.Kind))
	}
}

// Merge folds other into a. Other is left untouched.
func (a *Accumulator) Merge(other *Accumulator) {
	s, o := &a.stats, &other.stats
	s.NumCommitsToMaster += o.NumCommitsToMaster
	s.NumPRs += o.NumPRs
	s.MissingPRs += o.MissingPRs
	s.NumFileChanges += o.NumFileChanges

	for k, v := range o.ComponentStats {
		s.ComponentStats[k] += v
	}
	for k, v := range o.LangStats {
		s.LangStats[k] += v
	}
	for k, v := range o.CommitsByDayOfWeek {
		s.CommitsByDayOfWeek[k] += v
	}
	for year, months := range o.CommitsByMonth {
		sum := s.CommitsByMonth[year]
		for i, n := range months {
			sum[i] += n
		}
		s.CommitsByMonth[year] = sum
	}
	for k, v := range o.ChangesByComponent {
		s.ChangesByComponent[k] = s.ChangesByComponent[k].Add(v)
	}
	maps.Copy(a.prNumbers, other.prNumbers)
}

// Stats returns a copy of the accumulated document.
func (a *Accumulator) Stats() schema.Stats {
	return schema.Stats{
		NumCommitsToMaster: a.stats.NumCommitsToMaster,
		NumPRs:             a.stats.NumPRs,
		MissingPRs:         a.stats.MissingPRs,
		NumFileChanges:     a.stats.NumFileChanges,
		ComponentStats:     maps.Clone(a.stats.ComponentStats),
		LangStats:          maps.Clone(a.stats.LangStats),
		CommitsByMonth:     maps.Clone(a.stats.CommitsByMonth),
		CommitsByDayOfWeek: maps.Clone(a.stats.CommitsByDayOfWeek),
		ChangesByComponent: maps.Clone(a.stats.ChangesByComponent),
	}
}

// DistinctPRNumbers returns how many different "(#N)" references were seen.
func (a *Accumulator) DistinctPRNumbers() int {
	return len(a.prNumbers)
}

// Reduce merges partial accumulators into a fresh one.
func Reduce(parts ...*Accumulator) *Accumulator {
	total := NewAccumulator()
	for _, p := range parts {
		if p != nil {
			total.Merge(p)
		}
	}
	return total
}

// changesFor maps a change kind to its ComponentChanges increment.
// Kinds other than added, deleted and modified contribute nothing.
func changesFor(kind schema.ChangeKind) schema.ComponentChanges {
	switch kind {
	case schema.Added:
		return schema.ComponentChanges{FilesAdded: 1}
	case schema.Deleted:
		return schema.ComponentChanges{FilesDeleted: 1}
	case schema.Modified:
		return schema.ComponentChanges{FilesModified: 1}
	default:
		return schema.ComponentChanges{}
	}
}
