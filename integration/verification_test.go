//go:build integration

// Package integration contains integration tests for commitstat.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags integration ./integration
package integration

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// walkedStats is the subset of the report checked against plain git.
type walkedStats struct {
	NumCommits int `json:"num_commits_to_master"`
	NumPRs     int `json:"num_prs"`
	MissingPRs int `json:"missing_prs"`
}

// TestExternalRepoVerification walks COMMITSTAT_VERIFY_REPO (or the enclosing
// repository) and checks the headline counters against git log.
func TestExternalRepoVerification(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	repoDir := os.Getenv("COMMITSTAT_VERIFY_REPO")
	if repoDir == "" {
		out, err := exec.Command("git", "rev-parse", "--show-toplevel").Output()
		if err != nil {
			t.Skip("not inside a git repository and COMMITSTAT_VERIFY_REPO is unset")
		}
		repoDir = strings.TrimSpace(string(out))
	}

	verifyRepo(t, repoDir)
}

// TestFixtureVerification runs the same checks against the two-commit fixture.
func TestFixtureVerification(t *testing.T) {
	verifyRepo(t, fixtureRepo(t))
}

func verifyRepo(t *testing.T, repoDir string) {
	t.Helper()
	report := filepath.Join(t.TempDir(), "report.json")
	_, err := runCommand(t, []string{"HOME=" + t.TempDir()},
		"walk", repoDir, "--output", "none", "--output-file", report, "--cache-backend", "none")
	require.NoError(t, err)

	data, err := os.ReadFile(report)
	require.NoError(t, err)
	var stats walkedStats
	require.NoError(t, json.Unmarshal(data, &stats))

	countOut, err := exec.Command("git", "-C", repoDir, "rev-list", "--count", "HEAD").Output()
	require.NoError(t, err)
	total, err := strconv.Atoi(strings.TrimSpace(string(countOut)))
	require.NoError(t, err)

	summaries, err := exec.Command("git", "-C", repoDir, "log", "--format=%s").Output()
	require.NoError(t, err)
	prs := 0
	for line := range strings.SplitSeq(strings.TrimRight(string(summaries), "\n"), "\n") {
		if strings.Contains(line, "(#") {
			prs++
		}
	}

	assert.Equal(t, total, stats.NumCommits, "commit count should match git rev-list")
	assert.Equal(t, prs, stats.NumPRs, "PR count should match summaries carrying (#")
	assert.Equal(t, total-prs, stats.MissingPRs)
}
