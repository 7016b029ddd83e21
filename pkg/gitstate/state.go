// Package gitstate resolves the version-control facts substituted into
// prompt templates: branch, ahead/behind counts, worktree status, stash
// count and the hosting domain of the tracking remote. Absence of a
// repository, an upstream or a remote is always a normal silent state,
// never an error.
package gitstate

import (
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Domain classifies the host of the tracking remote.
type Domain int

// Known hosting providers, in their fixed classification order.
const (
	DomainGit       Domain = iota // any other host, or no remote
	DomainGithub                  // github.com
	DomainGitlab                  // gitlab.com
	DomainBitbucket               // bitbucket.org
	DomainAzure                   // dev.azure.com
)

func classifyHost(host string) Domain {
	switch host {
	case "github.com":
		return DomainGithub
	case "gitlab.com":
		return DomainGitlab
	case "bitbucket.org":
		return DomainBitbucket
	case "dev.azure.com":
		return DomainAzure
	default:
		return DomainGit
	}
}

// State answers repository fact queries directly against the repository on
// every call. Wrap it in a Cache so each fact is resolved at most once per
// invocation.
type State struct {
	dir string

	opened bool
	repo   *git.Repository
	gitDir string
}

// NewState creates a provider that discovers the repository enclosing dir.
func NewState(dir string) *State {
	return &State{dir: dir}
}

// open discovers and opens the enclosing repository once. nil means there is
// none, which is the normal state outside a checkout.
func (s *State) open() *git.Repository {
	if !s.opened {
		s.opened = true
		root, gitDir, ok := discover(s.dir)
		if !ok {
			return nil
		}
		repo, err := git.PlainOpen(root)
		if err != nil {
			return nil
		}
		s.repo = repo
		s.gitDir = gitDir
	}
	return s.repo
}

// discover walks up from start looking for a .git entry, resolving worktree
// gitfiles along the way.
func discover(start string) (root, gitDir string, ok bool) {
	if start == "" {
		start = "."
	}
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", "", false
	}
	for {
		dot := filepath.Join(dir, ".git")
		if fi, err := os.Stat(dot); err == nil {
			if fi.IsDir() {
				return dir, dot, true
			}
			if target, ok := readGitFile(dot); ok {
				return dir, target, true
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", "", false
		}
		dir = parent
	}
}

// readGitFile resolves a worktree ".git" file of the form "gitdir: <path>".
func readGitFile(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	line := strings.TrimSpace(string(data))
	const prefix = "gitdir:"
	if !strings.HasPrefix(line, prefix) {
		return "", false
	}
	target := strings.TrimSpace(strings.TrimPrefix(line, prefix))
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(path), target)
	}
	return target, true
}

// InRepo reports whether dir sits inside a repository.
func (s *State) InRepo() bool {
	return s.open() != nil
}

// Branch returns the short name of the checked-out branch, empty on a
// detached HEAD or outside a repository.
func (s *State) Branch() string {
	repo := s.open()
	if repo == nil {
		return ""
	}
	head, err := repo.Head()
	if err != nil || !head.Name().IsBranch() {
		return ""
	}
	return head.Name().Short()
}

// upstream resolves the tracking reference configured for HEAD's branch.
// A nil reference is the silent no-upstream state.
func (s *State) upstream() (remoteName string, ref *plumbing.Reference) {
	repo := s.open()
	if repo == nil {
		return "", nil
	}
	head, err := repo.Head()
	if err != nil || !head.Name().IsBranch() {
		return "", nil
	}
	cfg, err := repo.Config()
	if err != nil {
		return "", nil
	}
	branch := cfg.Branches[head.Name().Short()]
	if branch == nil || branch.Remote == "" || branch.Merge == "" {
		return "", nil
	}
	target := branch.Merge
	if branch.Remote != "." {
		target = plumbing.NewRemoteReferenceName(branch.Remote, branch.Merge.Short())
	}
	resolved, err := repo.Reference(target, true)
	if err != nil {
		return "", nil
	}
	return branch.Remote, resolved
}

// Ahead returns how many commits HEAD is ahead of its upstream.
func (s *State) Ahead() int {
	ahead, _ := s.aheadBehind()
	return ahead
}

// Behind returns how many commits HEAD is behind its upstream.
func (s *State) Behind() int {
	_, behind := s.aheadBehind()
	return behind
}

func (s *State) aheadBehind() (int, int) {
	repo := s.open()
	if repo == nil {
		return 0, 0
	}
	_, ref := s.upstream()
	if ref == nil {
		return 0, 0
	}
	head, err := repo.Head()
	if err != nil {
		return 0, 0
	}
	local, err := repo.CommitObject(head.Hash())
	if err != nil {
		return 0, 0
	}
	remote, err := repo.CommitObject(ref.Hash())
	if err != nil {
		return 0, 0
	}
	bases, err := local.MergeBase(remote)
	if err != nil {
		return 0, 0
	}
	prune := make([]plumbing.Hash, 0, len(bases))
	for _, base := range bases {
		prune = append(prune, base.Hash)
	}
	return countCommits(local, prune), countCommits(remote, prune)
}

// countCommits walks ancestors of from, pruning at the given commits.
func countCommits(from *object.Commit, prune []plumbing.Hash) int {
	count := 0
	iter := object.NewCommitPreorderIter(from, nil, prune)
	_ = iter.ForEach(func(*object.Commit) error {
		count++
		return nil
	})
	return count
}

// RemoteDomain classifies the host of the upstream's remote.
func (s *State) RemoteDomain() Domain {
	repo := s.open()
	if repo == nil {
		return DomainGit
	}
	name, ref := s.upstream()
	if ref == nil || name == "" || name == "." {
		return DomainGit
	}
	remote, err := repo.Remote(name)
	if err != nil {
		return DomainGit
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return DomainGit
	}
	return classifyHost(remoteHost(urls[0]))
}

// Modified reports worktree changes. Untracked files count as modified, the
// porcelain "anything to commit" reading.
func (s *State) Modified() bool {
	modified, _ := s.status()
	return modified
}

// Staged reports index changes.
func (s *State) Staged() bool {
	_, staged := s.status()
	return staged
}

// Dirty reports whether the repository has modified or staged files.
func (s *State) Dirty() bool {
	modified, staged := s.status()
	return modified || staged
}

func (s *State) status() (modified, staged bool) {
	repo := s.open()
	if repo == nil {
		return false, false
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return false, false
	}
	st, err := worktree.Status()
	if err != nil {
		return false, false
	}
	for _, fs := range st {
		switch fs.Worktree {
		case git.Untracked, git.Modified, git.Deleted, git.Renamed, git.Copied:
			modified = true
		}
		switch fs.Staging {
		case git.Added, git.Modified, git.Deleted, git.Renamed, git.Copied:
			staged = true
		}
		if modified && staged {
			break
		}
	}
	return modified, staged
}

// Stashes counts reflog entries of refs/stash. go-git exposes no stash API,
// so the reflog file is read directly; a missing file means no stashes.
func (s *State) Stashes() int {
	if s.open() == nil {
		return 0
	}
	data, err := os.ReadFile(filepath.Join(s.gitDir, "logs", "refs", "stash"))
	if err != nil {
		return 0
	}
	count := 0
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}
