// Package repo declares branch/merge bookkeeping over an external
// version-control tool. The serialization core never calls it; the
// interfaces are bundled for library completeness, together with the
// in-memory merge-result cache implementations share.
package repo

import (
	"context"
	"sync"
)

// Commit identifies one revision in the underlying version-control tool.
type Commit string

// RefKind distinguishes the reference shapes Resolve accepts.
type RefKind int

const (
	RefBranch RefKind = iota
	RefPullRequest
	RefFork
)

// Ref names a branch, pull request, or fork to be resolved to a commit.
type Ref struct {
	Kind RefKind
	Name string
}

// Manager wraps repository bookkeeping over an external tool.
type Manager interface {
	// EnsureWorkingCopy checks out commit and returns the working directory.
	EnsureWorkingCopy(ctx context.Context, commit Commit) (string, error)
	// Fetch updates the local view of the remote.
	Fetch(ctx context.Context) error
	// Merge computes the commit resulting from merging branch into base.
	// Implementations cache results; see MergeCache.
	Merge(ctx context.Context, base, branch Commit) (Commit, error)
	// Resolve maps a pull-request, fork, or branch reference to a commit.
	Resolve(ctx context.Context, ref Ref) (Commit, error)
}

type mergeKey struct {
	base, branch Commit
}

// MergeCache memoizes merge results keyed by (base, branch). Safe for
// concurrent use.
type MergeCache struct {
	mu sync.RWMutex
	m  map[mergeKey]Commit
}

// NewMergeCache returns an empty cache.
func NewMergeCache() *MergeCache {
	return &MergeCache{m: make(map[mergeKey]Commit)}
}

// Get returns the cached merge result for (base, branch).
func (c *MergeCache) Get(base, branch Commit) (Commit, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.m[mergeKey{base, branch}]
	return r, ok
}

// Put records the merge result for (base, branch), overwriting any previous
// entry.
func (c *MergeCache) Put(base, branch, result Commit) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[mergeKey{base, branch}] = result
}

// Len reports the number of cached results.
func (c *MergeCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}
