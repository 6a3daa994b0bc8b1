package core

import (
	"context"

	"github.com/huangsam/commitstat/core/classify"
	"github.com/huangsam/commitstat/internal/contract"
	"github.com/huangsam/commitstat/schema"
)

// processCommit resolves one commit, diffs it against its baseline and
// summarizes the result. The baseline is the parent tree for a single-parent
// commit and the empty tree for root and merge commits.
func processCommit(ctx context.Context, client contract.GitClient, repoPath, id string) (schema.CommitOutcome, error) {
	rec, err := client.GetCommit(ctx, repoPath, id)
	if err != nil {
		return schema.CommitOutcome{}, &contract.CommitResolutionError{Ref: id, Err: err}
	}

	var oldTree string
	if len(rec.Parents) == 1 {
		parent, err := client.GetCommit(ctx, repoPath, rec.Parents[0])
		if err != nil {
			return schema.CommitOutcome{}, &contract.CommitResolutionError{Ref: rec.Parents[0], Err: err}
		}
		oldTree = parent.Tree
	}

	deltas, err := client.DiffTreeToTree(ctx, repoPath, oldTree, rec.Tree)
	if err != nil {
		return schema.CommitOutcome{}, &contract.DiffComputationError{OldTree: oldTree, NewTree: rec.Tree, Err: err}
	}
	return summarizeCommit(rec, deltas), nil
}

// summarizeCommit turns a commit and its deltas into a CommitOutcome.
// Languages and components are deduplicated in diff order; a component keeps
// the change kind of the first delta that mentions it.
func summarizeCommit(rec schema.CommitRecord, deltas []schema.FileDelta) schema.CommitOutcome {
	out := schema.CommitOutcome{
		ID:    rec.ID,
		Date:  classify.CommitDate(rec.AuthorTime.Seconds, rec.AuthorTime.OffsetMinutes),
		HasPR: classify.HasPRMarker(rec.Summary),
	}
	if n, ok := classify.ExtractPRNumber(rec.Summary); ok {
		out.PRNumber = n
	}

	seenLangs := make(map[string]struct{})
	seenComps := make(map[string]struct{})
	for _, d := range deltas {
		if !classify.IsComponentPath(d.Path) {
			continue
		}
		out.FileChanges++

		if lang, ok := classify.Language(d.Path); ok && classify.IsInterestingLanguage(lang) {
			if _, seen := seenLangs[lang]; !seen {
				seenLangs[lang] = struct{}{}
				out.Languages = append(out.Languages, lang)
			}
		}

		comp, _ := classify.Component(d.Path)
		if _, seen := seenComps[comp]; seen {
			continue
		}
		seenComps[comp] = struct{}{}
		out.Components = append(out.Components, schema.ComponentFact{Component: comp, Kind: factKind(d.Kind)})
	}
	return out
}

// factKind keeps added, deleted and modified and folds everything else into Other.
func factKind(kind schema.ChangeKind) schema.ChangeKind {
	switch kind {
	case schema.Added, schema.Deleted, schema.Modified:
		return kind
	default:
		return schema.Other
	}
}
