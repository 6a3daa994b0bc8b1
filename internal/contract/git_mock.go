package contract

import (
	"context"

	"github.com/huangsam/commitstat/schema"
	"github.com/stretchr/testify/mock"
)

// MockGitClient is a mock implementation of GitClient for testing.
type MockGitClient struct {
	mock.Mock
}

var _ GitClient = &MockGitClient{} // Compile-time check

// Run implements the GitClient interface.
func (m *MockGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	callArgs := []any{ctx, repoPath}
	for _, a := range args {
		callArgs = append(callArgs, a)
	}
	ret := m.Called(callArgs...)
	out, _ := ret.Get(0).([]byte)
	return out, ret.Error(1)
}

// OpenRepository implements the GitClient interface.
func (m *MockGitClient) OpenRepository(ctx context.Context, path string) (string, error) {
	ret := m.Called(ctx, path)
	return ret.String(0), ret.Error(1)
}

// GetRepoHash implements the GitClient interface.
func (m *MockGitClient) GetRepoHash(ctx context.Context, repoPath string) (string, error) {
	ret := m.Called(ctx, repoPath)
	return ret.String(0), ret.Error(1)
}

// RevWalk implements the GitClient interface.
func (m *MockGitClient) RevWalk(ctx context.Context, repoPath string) ([]string, error) {
	ret := m.Called(ctx, repoPath)
	ids, _ := ret.Get(0).([]string)
	return ids, ret.Error(1)
}

// GetCommit implements the GitClient interface.
func (m *MockGitClient) GetCommit(ctx context.Context, repoPath string, id string) (schema.CommitRecord, error) {
	ret := m.Called(ctx, repoPath, id)
	rec, _ := ret.Get(0).(schema.CommitRecord)
	return rec, ret.Error(1)
}

// DiffTreeToTree implements the GitClient interface.
func (m *MockGitClient) DiffTreeToTree(ctx context.Context, repoPath string, oldTree, newTree string) ([]schema.FileDelta, error) {
	ret := m.Called(ctx, repoPath, oldTree, newTree)
	deltas, _ := ret.Get(0).([]schema.FileDelta)
	return deltas, ret.Error(1)
}
