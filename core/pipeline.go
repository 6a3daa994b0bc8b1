package core

import (
	"context"
	"errors"
	"time"

	"github.com/huangsam/commitstat/core/agg"
	"github.com/huangsam/commitstat/internal/contract"
	"github.com/huangsam/commitstat/schema"
	"golang.org/x/sync/errgroup"
)

// WalkHistory walks every commit reachable from HEAD and reduces the
// per-commit outcomes into Stats. It spawns cfg.Workers goroutines, each
// folding into its own accumulator. The first failure cancels the walk and
// no Stats are returned.
func WalkHistory(ctx context.Context, cfg *contract.Config, client contract.GitClient) (*schema.WalkResult, error) {
	start := time.Now()

	root, err := client.OpenRepository(ctx, cfg.RepoPath)
	if err != nil {
		return nil, asRepoOpenError(cfg.RepoPath, err)
	}

	ids, err := client.RevWalk(ctx, root)
	if err != nil {
		var resErr *contract.CommitResolutionError
		if errors.As(err, &resErr) {
			return nil, err
		}
		return nil, &contract.CommitResolutionError{Ref: "HEAD", Err: err}
	}

	parts, err := walkCommits(ctx, client, root, ids, cfg.Workers)
	if err != nil {
		return nil, err
	}
	walked := time.Now()

	total := agg.Reduce(parts...)
	reduced := time.Now()

	result := &schema.WalkResult{
		RepoPath:          root,
		Backend:           cfg.Backend,
		Commits:           len(ids),
		DistinctPRNumbers: total.DistinctPRNumbers(),
		Stats:             total.Stats(),
		RevWalkDuration:   walked.Sub(start),
		ReduceDuration:    reduced.Sub(walked),
		TotalDuration:     reduced.Sub(start),
	}
	if len(ids) > 0 {
		result.HeadHash = ids[0] // Topological order yields HEAD first
	}
	return result, nil
}

// walkCommits fans ids out to a bounded pool and returns one accumulator per worker.
func walkCommits(ctx context.Context, client contract.GitClient, root string, ids []string, workers int) ([]*agg.Accumulator, error) {
	workers = max(1, min(workers, len(ids)))
	g, gctx := errgroup.WithContext(ctx)
	idCh := make(chan string)

	g.Go(func() error {
		defer close(idCh)
		for _, id := range ids {
			select {
			case idCh <- id:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	parts := make([]*agg.Accumulator, workers)
	for i := range workers {
		acc := agg.NewAccumulator()
		parts[i] = acc
		g.Go(func() error {
			for id := range idCh {
				outcome, err := processCommit(gctx, client, root, id)
				if err != nil {
					return err
				}
				acc.Add(outcome)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return parts, nil
}

func asRepoOpenError(path string, err error) error {
	var openErr *contract.RepoOpenError
	if errors.As(err, &openErr) {
		return err
	}
	return &contract.RepoOpenError{Path: path, Err: err}
}
