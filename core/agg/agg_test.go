package agg

import (
	"testing"
	"time"

	"github.com/huangsam/commitstat/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func outcome(id string, date time.Time, pr string, langs []string, facts ...schema.ComponentFact) schema.CommitOutcome {
	return schema.CommitOutcome{
		ID:          id,
		Date:        date,
		HasPR:       pr != "",
		PRNumber:    pr,
		Languages:   langs,
		Components:  facts,
		FileChanges: len(facts),
	}
}

var (
	jan1 = time.Date(2023, time.January, 1, 12, 0, 0, 0, time.UTC)  // Sun
	jan2 = time.Date(2023, time.January, 2, 12, 0, 0, 0, time.UTC)  // Mon
	dec9 = time.Date(2022, time.December, 9, 12, 0, 0, 0, time.UTC) // Fri
)

func sampleOutcomes() []schema.CommitOutcome {
	return []schema.CommitOutcome{
		outcome("c1", jan1, "", []string{"java"}, schema.ComponentFact{Component: "compA", Kind: schema.Added}),
		outcome("c2", jan2, "42", []string{"java", "py"},
			schema.ComponentFact{Component: "compA", Kind: schema.Modified},
			schema.ComponentFact{Component: "compB", Kind: schema.Deleted}),
		outcome("c3", dec9, "42", nil, schema.ComponentFact{Component: "compB", Kind: schema.Renamed}),
		outcome("c4", dec9, "", nil),
	}
}

func TestAccumulatorAdd(t *testing.T) {
	acc := NewAccumulator()
	for _, o := range sampleOutcomes() {
		acc.Add(o)
	}
	s := acc.Stats()

	assert.Equal(t, 4, s.NumCommitsToMaster)
	assert.Equal(t, 2, s.NumPRs)
	assert.Equal(t, 2, s.MissingPRs)
	assert.Equal(t, s.NumCommitsToMaster, s.NumPRs+s.MissingPRs)
	assert.Equal(t, 4, s.NumFileChanges)
	assert.Equal(t, 1, acc.DistinctPRNumbers())

	assert.Equal(t, map[string]int{"compA": 2, "compB": 2}, s.ComponentStats)
	assert.Equal(t, map[string]int{"java": 2, "py": 1}, s.LangStats)
	assert.Equal(t, map[string]int{"Sun": 1, "Mon": 1, "Fri": 2}, s.CommitsByDayOfWeek)
	assert.Equal(t, [12]int{2}, s.CommitsByMonth["2023"])
	assert.Equal(t, [12]int{11: 2}, s.CommitsByMonth["2022"])

	assert.Equal(t, schema.ComponentChanges{FilesAdded: 1, FilesModified: 1}, s.ChangesByComponent["compA"])
	// The rename still counts the component but adds no change.
	assert.Equal(t, schema.ComponentChanges{FilesDeleted: 1}, s.ChangesByComponent["compB"])
}

func TestAccumulatorEmpty(t *testing.T) {
	s := NewAccumulator().Stats()
	assert.Zero(t, s.NumCommitsToMaster)
	assert.NotNil(t, s.ComponentStats)
	assert.NotNil(t, s.CommitsByMonth)
	assert.Empty(t, s.ChangesByComponent)
}

func TestMergeMatchesSequentialFold(t *testing.T) {
	outcomes := sampleOutcomes()

	sequential := NewAccumulator()
	for _, o := range outcomes {
		sequential.Add(o)
	}

	left, right := NewAccumulator(), NewAccumulator()
	left.Add(outcomes[3])
	left.Add(outcomes[0])
	right.Add(outcomes[2])
	right.Add(outcomes[1])

	assert.Equal(t, sequential.Stats(), Reduce(left, right).Stats())
	assert.Equal(t, sequential.Stats(), Reduce(right, left).Stats())
	assert.Equal(t, sequential.DistinctPRNumbers(), Reduce(left, right).DistinctPRNumbers())
}

func TestMergeAssociative(t *testing.T) {
	outcomes := sampleOutcomes()
	parts := make([]*Accumulator, len(outcomes))
	for i, o := range outcomes {
		parts[i] = NewAccumulator()
		parts[i].Add(o)
	}

	ab := Reduce(parts[0], parts[1])
	abThenC := Reduce(ab, parts[2], parts[3])

	bc := Reduce(parts[1], parts[2])
	aThenBC := Reduce(parts[0], bc, parts[3])

	assert.Equal(t, abThenC.Stats(), aThenBC.Stats())
}

func TestMergeLeavesOtherUntouched(t *testing.T) {
	a, b := NewAccumulator(), NewAccumulator()
	b.Add(sampleOutcomes()[0])
	before := b.Stats()

	a.Merge(b)
	a.Merge(b)

	assert.Equal(t, before, b.Stats())
	assert.Equal(t, 2, a.Stats().ComponentStats["compA"])
}

func TestStatsReturnsCopy(t *testing.T) {
	acc := NewAccumulator()
	acc.Add(sampleOutcomes()[0])

	s := acc.Stats()
	s.ComponentStats["compA"] = 100
	require.Equal(t, 1, acc.Stats().ComponentStats["compA"])
}

func TestReduceSkipsNil(t *testing.T) {
	acc := NewAccumulator()
	acc.Add(sampleOutcomes()[1])
	assert.Equal(t, acc.Stats(), Reduce(nil, acc, nil).Stats())
}

func TestChangesFor(t *testing.T) {
	assert.Equal(t, schema.ComponentChanges{FilesAdded: 1}, changesFor(schema.Added))
	assert.Equal(t, schema.ComponentChanges{FilesDeleted: 1}, changesFor(schema.Deleted))
	assert.Equal(t, schema.ComponentChanges{FilesModified: 1}, changesFor(schema.Modified))
	for _, kind := range []schema.ChangeKind{schema.Renamed, schema.Copied, schema.Other} {
		assert.Equal(t, schema.ComponentChanges{}, changesFor(kind))
	}
}
