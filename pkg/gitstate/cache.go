package gitstate

import (
	"os"
	"path/filepath"

	"github.com/Hanaasagi/suzuri/pkg/promptexpand"
)

// Provider supplies primitive repository facts as independent queries.
// Implementations may be arbitrarily expensive per call; Cache guarantees
// each fact is resolved at most once per invocation.
type Provider interface {
	InRepo() bool
	Branch() string
	Ahead() int
	Behind() int
	Stashes() int
	Dirty() bool
	Modified() bool
	Staged() bool
	RemoteDomain() Domain
}

var _ Provider = (*State)(nil)

// Cache memoizes a Provider for the lifetime of one invocation and
// implements promptexpand.Info. When the provider reports no repository,
// every other fact short-circuits to its zero value without touching the
// provider again. Cache is not safe for concurrent use; expansion is
// single-threaded.
type Cache struct {
	provider Provider

	path     *string
	inRepo   *bool
	branch   *string
	ahead    *int
	behind   *int
	stashes  *int
	dirty    *bool
	modified *bool
	staged   *bool
	domain   *Domain
}

var _ promptexpand.Info = (*Cache)(nil)

// NewCache wraps a provider. One Cache serves every template of an
// invocation so repeated codes trigger one underlying query each.
func NewCache(provider Provider) *Cache {
	return &Cache{provider: provider}
}

// CurrentPath prefers PWD so the displayed path matches what the shell
// believes it is, falling back to the canonical working directory.
func (c *Cache) CurrentPath() string {
	if c.path == nil {
		path := os.Getenv("PWD")
		if path == "" {
			if wd, err := os.Getwd(); err == nil {
				path = filepath.Clean(wd)
			}
		}
		c.path = &path
	}
	return *c.path
}

func (c *Cache) GitExists() bool {
	if c.inRepo == nil {
		v := c.provider.InRepo()
		c.inRepo = &v
	}
	return *c.inRepo
}

func (c *Cache) GitBranch() string {
	if c.branch == nil {
		var v string
		if c.GitExists() {
			v = c.provider.Branch()
		}
		c.branch = &v
	}
	return *c.branch
}

func (c *Cache) GitRemoteAhead() int {
	if c.ahead == nil {
		var v int
		if c.GitExists() {
			v = c.provider.Ahead()
		}
		c.ahead = &v
	}
	return *c.ahead
}

func (c *Cache) GitRemoteBehind() int {
	if c.behind == nil {
		var v int
		if c.GitExists() {
			v = c.provider.Behind()
		}
		c.behind = &v
	}
	return *c.behind
}

func (c *Cache) GitStashes() int {
	if c.stashes == nil {
		var v int
		if c.GitExists() {
			v = c.provider.Stashes()
		}
		c.stashes = &v
	}
	return *c.stashes
}

func (c *Cache) GitDirty() bool {
	if c.dirty == nil {
		var v bool
		if c.GitExists() {
			v = c.provider.Dirty()
		}
		c.dirty = &v
	}
	return *c.dirty
}

func (c *Cache) GitModified() bool {
	if c.modified == nil {
		var v bool
		if c.GitExists() {
			v = c.provider.Modified()
		}
		c.modified = &v
	}
	return *c.modified
}

func (c *Cache) GitStaged() bool {
	if c.staged == nil {
		var v bool
		if c.GitExists() {
			v = c.provider.Staged()
		}
		c.staged = &v
	}
	return *c.staged
}

func (c *Cache) GitRemoteDomain() int {
	if c.domain == nil {
		v := DomainGit
		if c.GitExists() {
			v = c.provider.RemoteDomain()
		}
		c.domain = &v
	}
	return int(*c.domain)
}
