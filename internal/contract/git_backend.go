package contract

import (
	"fmt"
	"sync"

	"github.com/huangsam/commitstat/schema"
)

// GitClientFactory builds a GitClient for one backend.
type GitClientFactory func() (GitClient, error)

var (
	gitFactoriesMu sync.RWMutex
	gitFactories   = map[schema.GitBackend]GitClientFactory{
		schema.GitCLIBackend: func() (GitClient, error) { return NewLocalGitClient(), nil },
	}
)

// RegisterGitClient makes a backend available to NewGitClient.
// Optional backends register themselves from an init function.
func RegisterGitClient(backend schema.GitBackend, factory GitClientFactory) {
	gitFactoriesMu.Lock()
	defer gitFactoriesMu.Unlock()
	gitFactories[backend] = factory
}

// NewGitClient returns a client for the given backend.
func NewGitClient(backend schema.GitBackend) (GitClient, error) {
	gitFactoriesMu.RLock()
	factory, ok := gitFactories[backend]
	gitFactoriesMu.RUnlock()
	if ok {
		return factory()
	}
	if backend == schema.Libgit2Backend {
		return nil, fmt.Errorf("backend %q is unavailable: binary built without libgit2 support (rebuild with -tags libgit2)", backend)
	}
	return nil, fmt.Errorf("unknown git backend %q", backend)
}
