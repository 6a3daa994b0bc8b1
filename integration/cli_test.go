//go:build basic || database

package integration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolatedEnv points every store at files under a fresh directory.
func isolatedEnv(t *testing.T) []string {
	t.Helper()
	dir := t.TempDir()
	return []string{
		"HOME=" + dir,
		"COMMITSTAT_CACHE_DB_CONNECT=" + filepath.Join(dir, "cache.db"),
		"COMMITSTAT_ANALYSIS_DB_CONNECT=" + filepath.Join(dir, "runs.db"),
	}
}

func TestWalkUsage(t *testing.T) {
	for _, args := range [][]string{{"walk"}, {"walk", "a", "b"}} {
		out, err := runCommand(t, nil, args...)
		require.Error(t, err)
		assert.Contains(t, out, "usage: commitstat walk <git_repo_path>")
	}
}

func TestWalkInvalidRepository(t *testing.T) {
	out, err := runCommand(t, isolatedEnv(t), "walk", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Contains(t, out, "cannot open repository")
}

func TestWalkFixtureRepository(t *testing.T) {
	repo := fixtureRepo(t)
	env := isolatedEnv(t)
	report := filepath.Join(t.TempDir(), "commit-analysis.json")

	_, err := runCommand(t, env, "walk", repo, "--output", "none", "--output-file", report)
	require.NoError(t, err)

	data, err := os.ReadFile(report)
	require.NoError(t, err)
	var stats struct {
		NumCommits         int                       `json:"num_commits_to_master"`
		NumPRs             int                       `json:"num_prs"`
		MissingPRs         int                       `json:"missing_prs"`
		ComponentStats     map[string]int            `json:"component_stats"`
		LangStats          map[string]int            `json:"lang_stats"`
		ChangesByComponent map[string]map[string]int `json:"changes_by_component"`
	}
	require.NoError(t, json.Unmarshal(data, &stats))
	assert.Equal(t, 2, stats.NumCommits)
	assert.Equal(t, 1, stats.NumPRs)
	assert.Equal(t, 1, stats.MissingPRs)
	assert.Equal(t, map[string]int{"compA": 2}, stats.ComponentStats)
	assert.Equal(t, map[string]int{"java": 2}, stats.LangStats)
	assert.Equal(t, map[string]int{"files_added": 1, "files_deleted": 0, "files_modified": 1}, stats.ChangesByComponent["compA"])

	// A second walk is served from the cache and writes the same report
	out, err := runCommand(t, env, "walk", repo, "--output-file", report)
	require.NoError(t, err)
	assert.Contains(t, out, "served from cache")
	again, err := os.ReadFile(report)
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(again))
}

func TestWalkOutputModes(t *testing.T) {
	repo := fixtureRepo(t)
	env := isolatedEnv(t)
	report := filepath.Join(t.TempDir(), "report.json")

	out, err := runCommand(t, env, "walk", repo, "--output", "csv", "--output-file", report, "--cache-backend", "none")
	require.NoError(t, err)
	assert.Contains(t, out, "compA")

	out, err = runCommand(t, env, "walk", repo, "--output", "json", "--output-file", report, "--cache-backend", "none")
	require.NoError(t, err)
	assert.Contains(t, out, `"num_commits_to_master": 2`)

	_, err = runCommand(t, env, "walk", repo, "--output", "yaml", "--output-file", report)
	require.Error(t, err)
}

func TestStoreCommands(t *testing.T) {
	repo := fixtureRepo(t)
	env := append(isolatedEnv(t), "COMMITSTAT_ANALYSIS_BACKEND=sqlite")
	report := filepath.Join(t.TempDir(), "report.json")
	exportBase := filepath.Join(t.TempDir(), "history")

	_, err := runCommand(t, env, "walk", repo, "--output", "none", "--output-file", report)
	require.NoError(t, err)

	out, err := runCommand(t, env, "cache", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "sqlite")

	out, err = runCommand(t, env, "runs", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "sqlite")

	_, err = runCommand(t, env, "runs", "export", "--output-file", exportBase)
	require.NoError(t, err)
	assert.FileExists(t, exportBase+".walk_runs.parquet")
	assert.FileExists(t, exportBase+".component_stats.parquet")

	_, err = runCommand(t, env, "runs", "clear")
	require.NoError(t, err)
	_, err = runCommand(t, env, "cache", "clear")
	require.NoError(t, err)
}

func TestVersion(t *testing.T) {
	out, err := runCommand(t, nil, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "commitstat CLI")
}
