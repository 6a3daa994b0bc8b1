//go:build libgit2

package contract

import (
	"context"
	"fmt"
	"sync"

	"github.com/huangsam/commitstat/schema"
	git2go "github.com/libgit2/git2go/v34"
)

func init() {
	RegisterGitClient(schema.Libgit2Backend, func() (GitClient, error) {
		return NewLibgit2Client(), nil
	})
}

// Libgit2Client implements the GitClient interface on top of libgit2.
// Repository handles are shared by all workers, so lookups and diffs are serialized.
type Libgit2Client struct {
	mu    sync.Mutex
	repos map[string]*git2go.Repository
	local *LocalGitClient
}

var _ GitClient = &Libgit2Client{} // Compile-time check

// NewLibgit2Client creates a new libgit2-backed client.
func NewLibgit2Client() *Libgit2Client {
	return &Libgit2Client{
		repos: make(map[string]*git2go.Repository),
		local: NewLocalGitClient(),
	}
}

// Run delegates raw commands to the git binary.
func (c *Libgit2Client) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	return c.local.Run(ctx, repoPath, args...)
}

// repo returns the cached handle for path. Callers must hold c.mu.
func (c *Libgit2Client) repo(path string) (*git2go.Repository, error) {
	if r, ok := c.repos[path]; ok {
		return r, nil
	}
	r, err := git2go.OpenRepository(path)
	if err != nil {
		return nil, err
	}
	c.repos[path] = r
	return r, nil
}

// OpenRepository implements the GitClient interface.
func (c *Libgit2Client) OpenRepository(_ context.Context, path string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, err := c.repo(path)
	if err != nil {
		return "", err
	}
	root := r.Workdir()
	if r.IsBare() || root == "" {
		root = r.Path()
	}
	root = trimTrailingSlash(root)
	c.repos[root] = r
	return root, nil
}

// GetRepoHash implements the GitClient interface.
func (c *Libgit2Client) GetRepoHash(_ context.Context, repoPath string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, err := c.repo(repoPath)
	if err != nil {
		return "", err
	}
	head, err := r.Head()
	if err != nil {
		return "", err
	}
	defer head.Free()
	return head.Target().String(), nil
}

// RevWalk implements the GitClient interface.
func (c *Libgit2Client) RevWalk(_ context.Context, repoPath string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, err := c.repo(repoPath)
	if err != nil {
		return nil, err
	}
	walk, err := r.Walk()
	if err != nil {
		return nil, fmt.Errorf("create revwalk: %w", err)
	}
	defer walk.Free()

	if err := walk.PushHead(); err != nil {
		return nil, &CommitResolutionError{Ref: "HEAD", Err: err}
	}
	walk.Sorting(git2go.SortTopological)

	var ids []string
	err = walk.Iterate(func(commit *git2go.Commit) bool {
		ids = append(ids, commit.Id().String())
		commit.Free()
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("revwalk iterate: %w", err)
	}
	return ids, nil
}

// GetCommit implements the GitClient interface.
func (c *Libgit2Client) GetCommit(_ context.Context, repoPath string, id string) (schema.CommitRecord, error) {
	oid, err := git2go.NewOid(id)
	if err != nil {
		return schema.CommitRecord{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	r, err := c.repo(repoPath)
	if err != nil {
		return schema.CommitRecord{}, err
	}
	commit, err := r.LookupCommit(oid)
	if err != nil {
		return schema.CommitRecord{}, fmt.Errorf("lookup commit: %w", err)
	}
	defer commit.Free()

	when := commit.Author().When
	_, offset := when.Zone()
	parents := make([]string, 0, commit.ParentCount())
	for n := uint(0); n < commit.ParentCount(); n++ {
		parents = append(parents, commit.ParentId(n).String())
	}
	return schema.CommitRecord{
		ID:         id,
		Parents:    parents,
		Tree:       commit.TreeId().String(),
		AuthorTime: schema.AuthorTime{Seconds: when.Unix(), OffsetMinutes: offset / 60},
		Summary:    commit.Summary(),
	}, nil
}

// DiffTreeToTree implements the GitClient interface.
func (c *Libgit2Client) DiffTreeToTree(_ context.Context, repoPath string, oldTree, newTree string) ([]schema.FileDelta, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, err := c.repo(repoPath)
	if err != nil {
		return nil, err
	}

	var oldT *git2go.Tree
	if oldTree != "" {
		if oldT, err = lookupTree(r, oldTree); err != nil {
			return nil, err
		}
		defer oldT.Free()
	}
	newT, err := lookupTree(r, newTree)
	if err != nil {
		return nil, err
	}
	defer newT.Free()

	opts, err := git2go.DefaultDiffOptions()
	if err != nil {
		return nil, fmt.Errorf("get diff options: %w", err)
	}
	diff, err := r.DiffTreeToTree(oldT, newT, &opts)
	if err != nil {
		return nil, fmt.Errorf("diff trees: %w", err)
	}
	defer func() { _ = diff.Free() }()

	n, err := diff.NumDeltas()
	if err != nil {
		return nil, fmt.Errorf("get num deltas: %w", err)
	}
	deltas := make([]schema.FileDelta, 0, n)
	for i := range n {
		d, err := diff.Delta(i)
		if err != nil {
			return nil, fmt.Errorf("get delta: %w", err)
		}
		deltas = append(deltas, schema.FileDelta{Path: d.NewFile.Path, Kind: changeKindFromDelta(d.Status)})
	}
	return deltas, nil
}

func lookupTree(r *git2go.Repository, id string) (*git2go.Tree, error) {
	oid, err := git2go.NewOid(id)
	if err != nil {
		return nil, err
	}
	tree, err := r.LookupTree(oid)
	if err != nil {
		return nil, fmt.Errorf("lookup tree: %w", err)
	}
	return tree, nil
}

func changeKindFromDelta(status git2go.Delta) schema.ChangeKind {
	switch status {
	case git2go.DeltaAdded:
		return schema.Added
	case git2go.DeltaDeleted:
		return schema.Deleted
	case git2go.DeltaModified:
		return schema.Modified
	case git2go.DeltaRenamed:
		return schema.Renamed
	case git2go.DeltaCopied:
		return schema.Copied
	default:
		return schema.Other
	}
}

func trimTrailingSlash(p string) string {
	for len(p) > 1 && p[len(p)-1] == '/' {
		p = p[:len(p)-1]
	}
	return p
}
