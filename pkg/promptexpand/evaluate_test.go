package promptexpand

import (
	"testing"
)

// nopInfo reports no repository and a fixed working directory.
type nopInfo struct{}

func (nopInfo) CurrentPath() string  { return "/home/user/sub/dir" }
func (nopInfo) GitExists() bool      { return false }
func (nopInfo) GitDirty() bool       { return false }
func (nopInfo) GitModified() bool    { return false }
func (nopInfo) GitStaged() bool      { return false }
func (nopInfo) GitRemoteDomain() int { return 0 }
func (nopInfo) GitRemoteAhead() int  { return 0 }
func (nopInfo) GitRemoteBehind() int { return 0 }
func (nopInfo) GitBranch() string    { return "" }
func (nopInfo) GitStashes() int      { return 0 }

// fakeInfo returns canned repository facts.
type fakeInfo struct {
	path     string
	exists   bool
	dirty    bool
	modified bool
	staged   bool
	domain   int
	ahead    int
	behind   int
	branch   string
	stashes  int
}

func (f fakeInfo) CurrentPath() string  { return f.path }
func (f fakeInfo) GitExists() bool      { return f.exists }
func (f fakeInfo) GitDirty() bool       { return f.dirty }
func (f fakeInfo) GitModified() bool    { return f.modified }
func (f fakeInfo) GitStaged() bool      { return f.staged }
func (f fakeInfo) GitRemoteDomain() int { return f.domain }
func (f fakeInfo) GitRemoteAhead() int  { return f.ahead }
func (f fakeInfo) GitRemoteBehind() int { return f.behind }
func (f fakeInfo) GitBranch() string    { return f.branch }
func (f fakeInfo) GitStashes() int      { return f.stashes }

func TestExpandPassthrough(t *testing.T) {
	tests := []struct {
		name     string
		template string
	}{
		{"percent literal", "%% "},
		{"truncated tilde", "%-3~"},
		{"date format", "%D{%f-%K-%L}"},
		{"color escapes", "%F{red}%f"},
		{"width hints", "%{seq%3G%}"},
		{"psvar", "%v"},
		{"truncation fences", "%10<...<%~%<<"},
		{"privilege marker", "%# "},
		{"standard conditional", "%(?.ok.no)"},
		{"empty directory rule braces", "%d{}"},
		{"nested standard conditionals", "%(C.a.%(g#b#c))"},
		{"everything at once", "%% %-3~ %D{%f-%K-%L} %F{red} %{seq%3G%} %v %(C.a.%(g#b#c)) %10<...<%~%<< %# "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Expand(tt.template, nopInfo{}); got != tt.template {
				t.Errorf("Expected %q to pass through, got %q", tt.template, got)
			}
		})
	}
}

func TestExpandSubstitutions(t *testing.T) {
	info := fakeInfo{
		path:    "/home/user/sub/dir",
		exists:  true,
		branch:  "main",
		ahead:   2,
		behind:  1,
		stashes: 3,
	}

	tests := []struct {
		name     string
		template string
		info     Info
		expected string
	}{
		{"branch", "r=%r", info, "r=main"},
		{"counts", "a%p b%q s%x", info, "a2 b1 s3"},
		{"no repository yields zero values", "r%r a%p b%q s%x", nopInfo{}, "r a0 b0 s0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Expand(tt.template, tt.info); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestExpandBooleanConditionals(t *testing.T) {
	tests := []struct {
		name     string
		template string
		info     Info
		expected string
	}{
		{"in repository", "%(G.in.out)", fakeInfo{exists: true}, "in"},
		{"outside repository", "%(G.in.out)", nopInfo{}, "out"},
		{"dirty marker", "%(y.*.)", fakeInfo{exists: true, dirty: true}, "*"},
		{"clean", "%(y.*.)", fakeInfo{exists: true}, ""},
		{"missing false branch", "%(m.M)", fakeInfo{exists: true}, ""},
		{"modified and staged", "%(m.m.)%(s.s.)", fakeInfo{exists: true, modified: true, staged: true}, "ms"},
		{"extras beyond two branches are ignored", "%(G.a.b.c.d)", fakeInfo{exists: true}, "a"},
		{"open paren delimiter selects true branch", "%(G(a(b)", fakeInfo{exists: true}, "a"},
		{"open paren delimiter selects false branch", "%(G(a(b)", nopInfo{}, "b"},
		{"brace argument is kept whole", "%(G.%F{red}x.y)", fakeInfo{exists: true}, "%F{red}x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Expand(tt.template, tt.info); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestExpandNumericConditionals(t *testing.T) {
	tests := []struct {
		name     string
		template string
		info     Info
		expected string
	}{
		{"ahead threshold met", "%1(p.^%p.)", fakeInfo{exists: true, ahead: 2}, "^2"},
		{"ahead threshold missed", "%1(p.^%p.)", fakeInfo{exists: true}, ""},
		{"behind threshold", "%1(q.v%q.)", fakeInfo{exists: true, behind: 3}, "v3"},
		{"stash threshold is at-least", "%3(x.many.few)", fakeInfo{exists: true, stashes: 5}, "many"},
		{"domain threshold is exact", "%2(o.lab.other)", fakeInfo{exists: true, domain: 2}, "lab"},
		{"domain mismatch", "%2(o.lab.other)", fakeInfo{exists: true, domain: 1}, "other"},
		{"index selection", "%(p.zero.one.two)", fakeInfo{exists: true, ahead: 1}, "one"},
		{"index saturates at last branch", "%(p.zero.one.two)", fakeInfo{exists: true, ahead: 9}, "two"},
		{"domain index", "%(o.git.hub.lab.bucket.azure)", fakeInfo{exists: true, domain: 4}, "azure"},
		{"domain index saturates", "%(o.git.hub)", fakeInfo{exists: true, domain: 3}, "hub"},
		{"zero selects first branch", "%(x.-.≡)", fakeInfo{exists: true}, "-"},
		{"nested fallback branch", "%1(p. .%1(q. .0))", fakeInfo{exists: true}, "0"},
		{"stash index saturates", "%(x.0-none.1-one.2-many)", fakeInfo{exists: true, stashes: 5}, "2-many"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Expand(tt.template, tt.info); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestExpandDirectoryRules(t *testing.T) {
	info := fakeInfo{path: "/home/user/sub/dir"}

	tests := []struct {
		name     string
		template string
		info     Info
		expected string
	}{
		{"no rules keeps path", "%/{:}", info, "/home/user/sub/dir"},
		{"first matching rule wins", "%/{:missing:/dev:~:/home/user}", info, "~/sub/dir"},
		{"abbreviate then keep leading", "%-2/{:~:/home/user}", info, "~/sub"},
		{"keep trailing components", "%2/{:}", info, "sub/dir"},
		{"root survives truncation", "%2/{:}", fakeInfo{path: "/"}, "/"},
		{"exact prefix match", "%/{:~:/home/user}", fakeInfo{path: "/home/user"}, "~"},
		{
			"rule nested in a conditional branch",
			"%(G.%/{:~:/home/x.y}.f)",
			fakeInfo{exists: true, path: "/home/x.y/sub"},
			"~/sub",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Expand(tt.template, tt.info); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestExpandDirectoryRuleEnv(t *testing.T) {
	t.Setenv("HOME", "/home/user")

	info := fakeInfo{path: "/home/user/sub/dir"}
	if got := Expand("%d{.~.$HOME}", info); got != "~/sub/dir" {
		t.Errorf("Expected %q, got %q", "~/sub/dir", got)
	}
}

func TestExpandFullPrompt(t *testing.T) {
	const template = "%(G.%(y.*.) %r%1(p.^%p.)%1(q.v%q.)%1(x.s%x.) .)%/{:~:/home/user} %# "

	tests := []struct {
		name     string
		info     Info
		expected string
	}{
		{
			name: "dirty feature branch ahead with stashes",
			info: fakeInfo{
				path: "/home/user/sub/dir", exists: true, dirty: true,
				branch: "feature", ahead: 2, stashes: 3,
			},
			expected: "* feature^2s3 ~/sub/dir %# ",
		},
		{
			name: "clean main behind",
			info: fakeInfo{
				path: "/home/user", exists: true, branch: "main", behind: 1,
			},
			expected: " mainv1 ~ %# ",
		},
		{
			name:     "outside a repository",
			info:     nopInfo{},
			expected: "~/sub/dir %# ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Expand(template, tt.info); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}
