package contract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/huangsam/commitstat/schema"
)

const (
	fieldSep  = "\x1f"
	recordSep = "\x00"

	// commitFormat yields id, tree, parents, author seconds, author date and summary.
	commitFormat = "--format=%H%x1f%T%x1f%P%x1f%at%x1f%ai%x1f%s"
)

// LocalGitClient implements the GitClient interface by executing the
// local 'git' binary installed on the machine.
type LocalGitClient struct {
	mu         sync.RWMutex
	commits    map[string]schema.CommitRecord // Keyed by repo path and commit id
	emptyTrees map[string]string              // Keyed by repo path
}

var _ GitClient = &LocalGitClient{} // Compile-time check

// NewLocalGitClient creates a new instance of the local Git client.
func NewLocalGitClient() *LocalGitClient {
	return &LocalGitClient{
		commits:    make(map[string]schema.CommitRecord),
		emptyTrees: make(map[string]string),
	}
}

// Run executes a git command and returns its stdout output.
func (c *LocalGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("git command failed in %q: %s", repoPath, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("git command failed: %w. Ensure Git is installed and available on your PATH", err)
	}
	return out, nil
}

// OpenRepository implements the GitClient interface.
// The path must be the work tree root or the directory of a bare repository.
func (c *LocalGitClient) OpenRepository(ctx context.Context, path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	out, err := c.Run(ctx, abs, "rev-parse", "--is-bare-repository")
	if err != nil {
		return "", err
	}
	bare := strings.TrimSpace(string(out)) == "true"

	query := "--show-toplevel"
	if bare {
		query = "--absolute-git-dir"
	}
	out, err = c.Run(ctx, abs, "rev-parse", query)
	if err != nil {
		return "", err
	}
	root := strings.TrimSpace(string(out))
	if !samePath(root, abs) {
		return "", fmt.Errorf("%s is inside the repository at %s, not its root", abs, root)
	}
	if bare {
		return abs, nil
	}
	return root, nil
}

// GetRepoHash implements the GitClient interface.
func (c *LocalGitClient) GetRepoHash(ctx context.Context, repoPath string) (string, error) {
	out, err := c.Run(ctx, repoPath, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// RevWalk implements the GitClient interface.
// A single log pass also primes the commit cache used by GetCommit.
func (c *LocalGitClient) RevWalk(ctx context.Context, repoPath string) ([]string, error) {
	out, err := c.Run(ctx, repoPath, "log", "--no-show-signature", "--topo-order", "-z", commitFormat, "HEAD")
	if err != nil {
		return nil, &CommitResolutionError{Ref: "HEAD", Err: err}
	}
	records, err := parseCommitRecords(out)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(records))
	c.mu.Lock()
	for _, rec := range records {
		c.commits[cacheKey(repoPath, rec.ID)] = rec
		ids = append(ids, rec.ID)
	}
	c.mu.Unlock()
	return ids, nil
}

// GetCommit implements the GitClient interface.
func (c *LocalGitClient) GetCommit(ctx context.Context, repoPath string, id string) (schema.CommitRecord, error) {
	c.mu.RLock()
	rec, ok := c.commits[cacheKey(repoPath, id)]
	c.mu.RUnlock()
	if ok {
		return rec, nil
	}

	out, err := c.Run(ctx, repoPath, "log", "--no-show-signature", "-1", "-z", commitFormat, id)
	if err != nil {
		return schema.CommitRecord{}, err
	}
	records, err := parseCommitRecords(out)
	if err != nil {
		return schema.CommitRecord{}, err
	}
	if len(records) != 1 {
		return schema.CommitRecord{}, fmt.Errorf("expected one commit for %s, got %d", id, len(records))
	}

	c.mu.Lock()
	c.commits[cacheKey(repoPath, id)] = records[0]
	c.mu.Unlock()
	return records[0], nil
}

// DiffTreeToTree implements the GitClient interface.
func (c *LocalGitClient) DiffTreeToTree(ctx context.Context, repoPath string, oldTree, newTree string) ([]schema.FileDelta, error) {
	if oldTree == "" {
		empty, err := c.emptyTree(ctx, repoPath)
		if err != nil {
			return nil, err
		}
		oldTree = empty
	}
	out, err := c.Run(ctx, repoPath, "diff-tree", "-r", "-z", "--no-renames", "--name-status", oldTree, newTree)
	if err != nil {
		return nil, err
	}
	return parseNameStatus(out)
}

// emptyTree returns the empty tree id in the object format of the repository.
func (c *LocalGitClient) emptyTree(ctx context.Context, repoPath string) (string, error) {
	c.mu.RLock()
	id, ok := c.emptyTrees[repoPath]
	c.mu.RUnlock()
	if ok {
		return id, nil
	}

	out, err := c.Run(ctx, repoPath, "hash-object", "-t", "tree", os.DevNull)
	if err != nil {
		return "", err
	}
	id = strings.TrimSpace(string(out))

	c.mu.Lock()
	c.emptyTrees[repoPath] = id
	c.mu.Unlock()
	return id, nil
}

// samePath reports whether a and b name the same directory once symlinks are resolved.
func samePath(a, b string) bool {
	if ra, err := filepath.EvalSymlinks(a); err == nil {
		a = ra
	}
	if rb, err := filepath.EvalSymlinks(b); err == nil {
		b = rb
	}
	return filepath.Clean(a) == filepath.Clean(b)
}

func cacheKey(repoPath, id string) string {
	return repoPath + "@" + id
}

// parseCommitRecords parses NUL separated records produced with commitFormat.
func parseCommitRecords(out []byte) ([]schema.CommitRecord, error) {
	var records []schema.CommitRecord
	for raw := range strings.SplitSeq(string(out), recordSep) {
		raw = strings.Trim(raw, "\n")
		if raw == "" {
			continue
		}
		fields := strings.SplitN(raw, fieldSep, 6)
		if len(fields) != 6 {
			return nil, fmt.Errorf("malformed commit record: %q", raw)
		}
		seconds, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid author time for %s: %w", fields[0], err)
		}
		offset, err := parseOffsetMinutes(fields[4])
		if err != nil {
			return nil, fmt.Errorf("invalid author date for %s: %w", fields[0], err)
		}
		records = append(records, schema.CommitRecord{
			ID:         fields[0],
			Tree:       fields[1],
			Parents:    strings.Fields(fields[2]),
			AuthorTime: schema.AuthorTime{Seconds: seconds, OffsetMinutes: offset},
			Summary:    fields[5],
		})
	}
	return records, nil
}

// parseOffsetMinutes reads the zone of an ISO-like date such as
// "2023-01-01 10:00:00 +0200" and returns it in minutes.
func parseOffsetMinutes(date string) (int, error) {
	parts := strings.Fields(date)
	if len(parts) == 0 {
		return 0, errors.New("empty date")
	}
	zone := parts[len(parts)-1]
	if len(zone) != 5 || (zone[0] != '+' && zone[0] != '-') {
		return 0, fmt.Errorf("unexpected zone %q", zone)
	}
	hours, err := strconv.Atoi(zone[1:3])
	if err != nil {
		return 0, err
	}
	minutes, err := strconv.Atoi(zone[3:5])
	if err != nil {
		return 0, err
	}
	offset := hours*60 + minutes
	if zone[0] == '-' {
		offset = -offset
	}
	return offset, nil
}

// parseNameStatus parses `diff-tree -z --name-status` output.
func parseNameStatus(out []byte) ([]schema.FileDelta, error) {
	fields := bytes.Split(bytes.TrimRight(out, recordSep), []byte(recordSep))
	var deltas []schema.FileDelta
	for i := 0; i < len(fields); i++ {
		status := string(fields[i])
		if status == "" {
			continue
		}
		kind := changeKindFromStatus(status)
		// Renames and copies carry the source path before the destination.
		if kind == schema.Renamed || kind == schema.Copied {
			i++
		}
		i++
		if i >= len(fields) {
			return nil, fmt.Errorf("missing path for status %q", status)
		}
		deltas = append(deltas, schema.FileDelta{Path: string(fields[i]), Kind: kind})
	}
	return deltas, nil
}

func changeKindFromStatus(status string) schema.ChangeKind {
	switch status[0] {
	case 'A':
		return schema.Added
	case 'D':
		return schema.Deleted
	case 'M':
		return schema.Modified
	case 'R':
		return schema.Renamed
	case 'C':
		return schema.Copied
	default:
		return schema.Other
	}
}
