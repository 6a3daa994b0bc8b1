package core

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/commitstat/internal/contract"
	"github.com/huangsam/commitstat/schema"
)

// currentCacheVersion defines the version of the cached WalkResult payload
const currentCacheVersion = 1

// cacheTTL bounds how long a cached walk is trusted
const cacheTTL = 7 * 24 * time.Hour

// cachedWalkHistory returns the cached walk for the current HEAD when one exists.
// The walk is deterministic for a given HEAD, so a hit is equivalent to a fresh walk.
func cachedWalkHistory(ctx context.Context, cfg *contract.Config, client contract.GitClient, store contract.CacheStore) (*schema.WalkResult, error) {
	if store == nil {
		return WalkHistory(ctx, cfg, client)
	}

	root, err := client.OpenRepository(ctx, cfg.RepoPath)
	if err != nil {
		return nil, asRepoOpenError(cfg.RepoPath, err)
	}
	head, err := client.GetRepoHash(ctx, root)
	if err != nil {
		// Unborn HEAD; let the walk report it
		return WalkHistory(ctx, cfg, client)
	}

	key := generateCacheKey(root, head, cfg.Backend)
	if result := checkCacheHit(store, key); result != nil {
		return result, nil
	}
	return computeAndStore(ctx, cfg, client, store, key)
}

// checkCacheHit attempts to retrieve and validate a cached result
func checkCacheHit(store contract.CacheStore, key string) *schema.WalkResult {
	data, version, ts, err := store.Get(key)
	if err != nil || data == nil {
		return nil // Cache miss
	}

	// Validate version and staleness
	if version != currentCacheVersion || time.Since(time.Unix(ts, 0)) > cacheTTL {
		return nil
	}
	var result schema.WalkResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil
	}
	result.FromCache = true
	return &result
}

// computeAndStore walks the history and stores the result in cache
func computeAndStore(ctx context.Context, cfg *contract.Config, client contract.GitClient, store contract.CacheStore, key string) (*schema.WalkResult, error) {
	result, err := WalkHistory(ctx, cfg, client)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(result)
	if err != nil {
		contract.LogWarn("Cannot encode walk for cache", err)
		return result, nil
	}
	if err := store.Set(key, data, currentCacheVersion, time.Now().Unix()); err != nil {
		contract.LogWarn("Cannot store walk in cache", err)
	}
	return result, nil
}

// generateCacheKey creates a unique key for one repository state and backend
func generateCacheKey(root, head string, backend schema.GitBackend) string {
	key := fmt.Sprintf("%s:%s:%s", root, head, backend)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}
