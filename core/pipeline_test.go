package core

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/commitstat/internal/contract"
	"github.com/huangsam/commitstat/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockTwoCommitRepo wires a root commit and one child into client.
func mockTwoCommitRepo(client *contract.MockGitClient) {
	client.On("OpenRepository", mock.Anything, "/repo").Return("/repo", nil)
	client.On("RevWalk", mock.Anything, "/repo").Return([]string{"c2", "c1"}, nil)
	client.On("GetCommit", mock.Anything, "/repo", "c2").Return(schema.CommitRecord{
		ID: "c2", Parents: []string{"c1"}, Tree: "t2",
		AuthorTime: schema.AuthorTime{Seconds: jan1}, Summary: "fix (#42)",
	}, nil)
	client.On("GetCommit", mock.Anything, "/repo", "c1").Return(schema.CommitRecord{
		ID: "c1", Tree: "t1",
		AuthorTime: schema.AuthorTime{Seconds: jan1}, Summary: "init",
	}, nil)
	client.On("DiffTreeToTree", mock.Anything, "/repo", "", "t1").Return([]schema.FileDelta{
		{Path: "compA/Foo.java", Kind: schema.Added},
		{Path: "README.md", Kind: schema.Added},
	}, nil)
	client.On("DiffTreeToTree", mock.Anything, "/repo", "t1", "t2").Return([]schema.FileDelta{
		{Path: "compA/Foo.java", Kind: schema.Modified},
	}, nil)
}

func TestWalkHistory_Mock(t *testing.T) {
	for _, workers := range []int{1, 2, 8} {
		client := new(contract.MockGitClient)
		mockTwoCommitRepo(client)
		cfg := &contract.Config{RepoPath: "/repo", Workers: workers, Backend: schema.GitCLIBackend}

		result, err := WalkHistory(context.Background(), cfg, client)
		require.NoError(t, err)

		assert.Equal(t, "/repo", result.RepoPath)
		assert.Equal(t, "c2", result.HeadHash)
		assert.Equal(t, 2, result.Commits)
		assert.Equal(t, 1, result.DistinctPRNumbers)

		s := result.Stats
		assert.Equal(t, 2, s.NumCommitsToMaster)
		assert.Equal(t, 1, s.NumPRs)
		assert.Equal(t, 1, s.MissingPRs)
		assert.Equal(t, 2, s.NumFileChanges)
		assert.Equal(t, map[string]int{"compA": 2}, s.ComponentStats)
		assert.Equal(t, map[string]int{"java": 2}, s.LangStats)
		assert.Equal(t, map[string]int{"Sun": 2}, s.CommitsByDayOfWeek)
		assert.Equal(t, [12]int{2}, s.CommitsByMonth["2023"])
		assert.Equal(t, schema.ComponentChanges{FilesAdded: 1, FilesModified: 1}, s.ChangesByComponent["compA"])
	}
}

func TestWalkHistory_EmptyHistory(t *testing.T) {
	client := new(contract.MockGitClient)
	client.On("OpenRepository", mock.Anything, "/repo").Return("/repo", nil)
	client.On("RevWalk", mock.Anything, "/repo").Return([]string{}, nil)

	result, err := WalkHistory(context.Background(), &contract.Config{RepoPath: "/repo", Workers: 4}, client)
	require.NoError(t, err)
	assert.Empty(t, result.HeadHash)
	assert.Equal(t, schema.NewStats(), result.Stats)
}

func TestWalkHistory_Errors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	t.Run("open", func(t *testing.T) {
		client := new(contract.MockGitClient)
		client.On("OpenRepository", mock.Anything, "/nope").Return("", boom)

		result, err := WalkHistory(ctx, &contract.Config{RepoPath: "/nope", Workers: 1}, client)
		assert.Nil(t, result)
		var openErr *contract.RepoOpenError
		require.ErrorAs(t, err, &openErr)
		assert.Equal(t, "/nope", openErr.Path)
	})

	t.Run("revwalk", func(t *testing.T) {
		client := new(contract.MockGitClient)
		client.On("OpenRepository", mock.Anything, "/repo").Return("/repo", nil)
		client.On("RevWalk", mock.Anything, "/repo").Return(nil, boom)

		_, err := WalkHistory(ctx, &contract.Config{RepoPath: "/repo", Workers: 1}, client)
		var resErr *contract.CommitResolutionError
		require.ErrorAs(t, err, &resErr)
		assert.Equal(t, "HEAD", resErr.Ref)
	})

	t.Run("one bad commit fails the walk", func(t *testing.T) {
		client := new(contract.MockGitClient)
		client.On("OpenRepository", mock.Anything, "/repo").Return("/repo", nil)
		client.On("RevWalk", mock.Anything, "/repo").Return([]string{"c2", "c1"}, nil)
		client.On("GetCommit", mock.Anything, "/repo", "c2").Return(schema.CommitRecord{}, boom)
		client.On("GetCommit", mock.Anything, "/repo", "c1").Return(schema.CommitRecord{ID: "c1", Tree: "t1"}, nil)
		client.On("DiffTreeToTree", mock.Anything, "/repo", "", "t1").Return(nil, nil)

		result, err := WalkHistory(ctx, &contract.Config{RepoPath: "/repo", Workers: 2}, client)
		assert.Nil(t, result)
		var resErr *contract.CommitResolutionError
		require.ErrorAs(t, err, &resErr)
		assert.Equal(t, "c2", resErr.Ref)
	})
}

// skipIfGitNotAvailable skips the test if git binary is not found in PATH
func skipIfGitNotAvailable(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skipf("git binary not found in PATH: %v", err)
	}
}

// runGit runs git in dir with a fixed identity and the given date.
func runGit(t *testing.T, dir, date string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", append([]string{"-c", "commit.gpgsign=false", "-C", dir}, args...)...)
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=Test", "GIT_AUTHOR_EMAIL=test@example.com",
		"GIT_COMMITTER_NAME=Test", "GIT_COMMITTER_EMAIL=test@example.com",
		"GIT_AUTHOR_DATE="+date, "GIT_COMMITTER_DATE="+date,
		"GIT_EDITOR=true", "GIT_MERGE_AUTOEDIT=no",
	)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
	return strings.TrimSpace(string(out))
}

// writeFiles writes each path with a unique content and stages it.
func writeFiles(t *testing.T, dir, date string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(dir, p)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(p+" "+date+"\n"), 0o644))
		runGit(t, dir, date, "add", p)
	}
}

// commitFiles writes paths and commits them with msg.
func commitFiles(t *testing.T, dir, msg, date string, paths ...string) {
	t.Helper()
	writeFiles(t, dir, date, paths...)
	runGit(t, dir, date, "commit", "-q", "-m", msg)
}

func initRepo(t *testing.T) string {
	t.Helper()
	skipIfGitNotAvailable(t)
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	runGit(t, dir, "2023-01-01T00:00:00Z", "init", "-q")
	return dir
}

func walkRepo(t *testing.T, dir string, workers int) *schema.WalkResult {
	t.Helper()
	cfg := &contract.Config{RepoPath: dir, Workers: workers, Backend: schema.GitCLIBackend}
	result, err := WalkHistory(context.Background(), cfg, contract.NewLocalGitClient())
	require.NoError(t, err)
	return result
}

func TestWalkHistory_EndToEnd(t *testing.T) {
	dir := initRepo(t)
	commitFiles(t, dir, "init", "2023-01-01T10:00:00Z", "compA/Foo.java")
	commitFiles(t, dir, "fix (#42)", "2023-01-02T10:00:00Z", "compA/Foo.java")

	result := walkRepo(t, dir, 2)
	s := result.Stats

	assert.Equal(t, 2, s.NumCommitsToMaster)
	assert.Equal(t, 1, s.NumPRs)
	assert.Equal(t, 1, s.MissingPRs)
	assert.Equal(t, 2, s.NumFileChanges)
	assert.Equal(t, map[string]int{"compA": 2}, s.ComponentStats)
	assert.Equal(t, map[string]int{"java": 2}, s.LangStats)
	assert.Equal(t, map[string]schema.ComponentChanges{"compA": {FilesAdded: 1, FilesModified: 1}}, s.ChangesByComponent)
	assert.Equal(t, map[string]int{"Sun": 1, "Mon": 1}, s.CommitsByDayOfWeek)
	assert.Equal(t, [12]int{2}, s.CommitsByMonth["2023"])

	assert.Equal(t, runGit(t, dir, "2023-01-02T10:00:00Z", "rev-parse", "HEAD"), result.HeadHash)
	assert.Equal(t, 1, result.DistinctPRNumbers)
}

func TestWalkHistory_DedupPerCommit(t *testing.T) {
	dir := initRepo(t)
	commitFiles(t, dir, "five files", "2023-03-01T10:00:00Z",
		"compA/A.java", "compA/B.java", "compA/C.java", "compA/sub/D.java", "compA/E.java")

	s := walkRepo(t, dir, 1).Stats
	assert.Equal(t, map[string]int{"compA": 1}, s.ComponentStats)
	assert.Equal(t, map[string]int{"java": 1}, s.LangStats)
	assert.Equal(t, 5, s.NumFileChanges)
	assert.Equal(t, schema.ComponentChanges{FilesAdded: 1}, s.ChangesByComponent["compA"])
}

func TestWalkHistory_MergeBaseline(t *testing.T) {
	dir := initRepo(t)
	commitFiles(t, dir, "base", "2023-01-01T10:00:00Z", "compA/a.java")
	runGit(t, dir, "2023-01-01T10:00:00Z", "checkout", "-q", "-b", "feature")
	commitFiles(t, dir, "feature work", "2023-01-02T10:00:00Z", "compB/b.py")
	runGit(t, dir, "2023-01-02T10:00:00Z", "checkout", "-q", "-")
	commitFiles(t, dir, "mainline work", "2023-01-03T10:00:00Z", "compC/c.sh")
	runGit(t, dir, "2023-01-04T10:00:00Z", "merge", "-q", "--no-ff", "-m", "Merge feature (#7)", "feature")

	s := walkRepo(t, dir, 4).Stats
	assert.Equal(t, 4, s.NumCommitsToMaster)
	assert.Equal(t, 1, s.NumPRs)
	assert.Equal(t, map[string]int{"compA": 2, "compB": 2, "compC": 2}, s.ComponentStats)
	for _, comp := range []string{"compA", "compB", "compC"} {
		assert.Equal(t, schema.ComponentChanges{FilesAdded: 2}, s.ChangesByComponent[comp], comp)
	}
	assert.Equal(t, map[string]int{"java": 2, "py": 2, "sh": 2}, s.LangStats)
}

func TestWalkHistory_DeletesAndIgnoredPaths(t *testing.T) {
	dir := initRepo(t)
	commitFiles(t, dir, "init", "2023-02-01T10:00:00Z", "compA/a.xml", "master/x.java", "top.java")
	runGit(t, dir, "2023-02-02T10:00:00Z", "rm", "-q", "compA/a.xml")
	runGit(t, dir, "2023-02-02T10:00:00Z", "commit", "-q", "-m", "drop xml")

	s := walkRepo(t, dir, 1).Stats
	assert.Equal(t, map[string]int{"compA": 2}, s.ComponentStats)
	assert.Equal(t, schema.ComponentChanges{FilesAdded: 1, FilesDeleted: 1}, s.ChangesByComponent["compA"])
	assert.Equal(t, map[string]int{"xml": 2}, s.LangStats)
	assert.Equal(t, 2, s.NumFileChanges)
	assert.Equal(t, [12]int{0, 2}, s.CommitsByMonth["2023"])
}

func TestWalkHistory_Idempotent(t *testing.T) {
	dir := initRepo(t)
	commitFiles(t, dir, "one", "2022-06-01T10:00:00Z", "compA/a.java", "compB/b.yml")
	commitFiles(t, dir, "two (#1)", "2023-06-01T10:00:00Z", "compA/a.java")
	commitFiles(t, dir, "three (#2)", "2024-06-01T10:00:00Z", "compC/c.kt")

	first := walkRepo(t, dir, 1)
	second := walkRepo(t, dir, 3)
	assert.Equal(t, first.Stats, second.Stats)
	assert.Equal(t, first.HeadHash, second.HeadHash)
	assert.Equal(t, 2, second.DistinctPRNumbers)
}

func TestWalkHistory_NotARepository(t *testing.T) {
	skipIfGitNotAvailable(t)
	cfg := &contract.Config{RepoPath: t.TempDir(), Workers: 1, Backend: schema.GitCLIBackend}
	_, err := WalkHistory(context.Background(), cfg, contract.NewLocalGitClient())
	var openErr *contract.RepoOpenError
	assert.ErrorAs(t, err, &openErr)
}
