package core

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/huangsam/commitstat/internal/contract"
	"github.com/huangsam/commitstat/internal/iocache"
	"github.com/huangsam/commitstat/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGenerateCacheKey(t *testing.T) {
	key := generateCacheKey("/repo", "abc", schema.GitCLIBackend)
	assert.Len(t, key, 64)
	assert.Equal(t, key, generateCacheKey("/repo", "abc", schema.GitCLIBackend))
	assert.NotEqual(t, key, generateCacheKey("/repo", "abd", schema.GitCLIBackend))
	assert.NotEqual(t, key, generateCacheKey("/repo", "abc", schema.Libgit2Backend))
	assert.NotEqual(t, key, generateCacheKey("/other", "abc", schema.GitCLIBackend))
}

func cachedPayload(t *testing.T) []byte {
	t.Helper()
	stats := schema.NewStats()
	stats.NumCommitsToMaster = 99
	data, err := json.Marshal(schema.WalkResult{RepoPath: "/repo", HeadHash: "c2", Commits: 99, Stats: stats})
	require.NoError(t, err)
	return data
}

func TestCachedWalkHistory(t *testing.T) {
	ctx := context.Background()
	cfg := &contract.Config{RepoPath: "/repo", Workers: 2, Backend: schema.GitCLIBackend}
	key := generateCacheKey("/repo", "c2", schema.GitCLIBackend)

	t.Run("hit skips the walk", func(t *testing.T) {
		client := new(contract.MockGitClient)
		client.On("OpenRepository", mock.Anything, "/repo").Return("/repo", nil)
		client.On("GetRepoHash", mock.Anything, "/repo").Return("c2", nil)
		store := new(iocache.MockCacheStore)
		store.On("Get", key).Return(cachedPayload(t), currentCacheVersion, time.Now().Unix(), nil)

		result, err := cachedWalkHistory(ctx, cfg, client, store)
		require.NoError(t, err)
		assert.True(t, result.FromCache)
		assert.Equal(t, 99, result.Stats.NumCommitsToMaster)
		client.AssertNotCalled(t, "RevWalk", mock.Anything, mock.Anything)
		store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	misses := []struct {
		name    string
		data    []byte
		version int
		ts      int64
		err     error
	}{
		{"not found", nil, 0, 0, sql.ErrNoRows},
		{"stale", cachedPayload(t), currentCacheVersion, time.Now().Add(-cacheTTL - time.Hour).Unix(), nil},
		{"old version", cachedPayload(t), currentCacheVersion + 1, time.Now().Unix(), nil},
		{"corrupt", []byte("{not json"), currentCacheVersion, time.Now().Unix(), nil},
	}
	for _, tt := range misses {
		t.Run(tt.name, func(t *testing.T) {
			client := new(contract.MockGitClient)
			mockTwoCommitRepo(client)
			client.On("GetRepoHash", mock.Anything, "/repo").Return("c2", nil)
			store := new(iocache.MockCacheStore)
			store.On("Get", key).Return(tt.data, tt.version, tt.ts, tt.err)
			store.On("Set", key, mock.Anything, currentCacheVersion, mock.Anything).Return(nil)

			result, err := cachedWalkHistory(ctx, cfg, client, store)
			require.NoError(t, err)
			assert.False(t, result.FromCache)
			assert.Equal(t, 2, result.Stats.NumCommitsToMaster)
			store.AssertExpectations(t)
		})
	}

	t.Run("set failure still returns the walk", func(t *testing.T) {
		client := new(contract.MockGitClient)
		mockTwoCommitRepo(client)
		client.On("GetRepoHash", mock.Anything, "/repo").Return("c2", nil)
		store := new(iocache.MockCacheStore)
		store.On("Get", key).Return(nil, 0, int64(0), sql.ErrNoRows)
		store.On("Set", key, mock.Anything, currentCacheVersion, mock.Anything).Return(errors.New("disk full"))

		result, err := cachedWalkHistory(ctx, cfg, client, store)
		require.NoError(t, err)
		assert.Equal(t, 2, result.Commits)
	})

	t.Run("no store", func(t *testing.T) {
		client := new(contract.MockGitClient)
		mockTwoCommitRepo(client)

		result, err := cachedWalkHistory(ctx, cfg, client, nil)
		require.NoError(t, err)
		assert.Equal(t, 2, result.Commits)
		client.AssertNotCalled(t, "GetRepoHash", mock.Anything, mock.Anything)
	})

	t.Run("open failure", func(t *testing.T) {
		client := new(contract.MockGitClient)
		client.On("OpenRepository", mock.Anything, "/repo").Return("", errors.New("nope"))
		store := new(iocache.MockCacheStore)

		_, err := cachedWalkHistory(ctx, cfg, client, store)
		var openErr *contract.RepoOpenError
		assert.ErrorAs(t, err, &openErr)
	})
}
