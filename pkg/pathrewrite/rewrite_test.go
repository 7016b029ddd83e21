package pathrewrite

import (
	"testing"
)

func TestApplyRules(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		rules    []Rule
		expected string
	}{
		{
			name:     "no rules",
			path:     "/home/user/sub/dir",
			rules:    nil,
			expected: "/home/user/sub/dir",
		},
		{
			name:     "single match",
			path:     "/home/user/sub/dir",
			rules:    []Rule{{Replacement: "~", Prefix: "/home/user"}},
			expected: "~/sub/dir",
		},
		{
			name: "first matching rule wins",
			path: "/home/user/work/proj",
			rules: []Rule{
				{Replacement: "w", Prefix: "/home/user/work"},
				{Replacement: "~", Prefix: "/home/user"},
			},
			expected: "w/proj",
		},
		{
			name: "later rules are skipped after a match",
			path: "/home/user/work/proj",
			rules: []Rule{
				{Replacement: "~", Prefix: "/home/user"},
				{Replacement: "w", Prefix: "~/work"},
			},
			expected: "~/work/proj",
		},
		{
			name:     "no match keeps path",
			path:     "/var/log",
			rules:    []Rule{{Replacement: "~", Prefix: "/home/user"}},
			expected: "/var/log",
		},
		{
			name:     "exact match leaves only replacement",
			path:     "/home/user",
			rules:    []Rule{{Replacement: "~", Prefix: "/home/user"}},
			expected: "~",
		},
		{
			name:     "empty replacement strips prefix",
			path:     "/home/user/sub",
			rules:    []Rule{{Replacement: "", Prefix: "/home/user/"}},
			expected: "sub",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Apply(tt.path, tt.rules, 0); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestApplyEnvPrefix(t *testing.T) {
	t.Setenv("HOME", "/home/user")
	t.Setenv("EMPTY", "")

	tests := []struct {
		name     string
		path     string
		rules    []Rule
		expected string
	}{
		{
			name:     "variable resolves in prefix",
			path:     "/home/user/sub",
			rules:    []Rule{{Replacement: "~", Prefix: "$HOME"}},
			expected: "~/sub",
		},
		{
			name:     "variable with suffix",
			path:     "/home/user/work/proj",
			rules:    []Rule{{Replacement: "w", Prefix: "$HOME/work"}},
			expected: "w/proj",
		},
		{
			name:     "unset variable becomes empty",
			path:     "/anything",
			rules:    []Rule{{Replacement: "x:", Prefix: "$SUZURI_UNSET_VAR"}},
			expected: "x:/anything",
		},
		{
			name:     "replacement is never expanded",
			path:     "/home/user/sub",
			rules:    []Rule{{Replacement: "$HOME", Prefix: "/home/user"}},
			expected: "$HOME/sub",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Apply(tt.path, tt.rules, 0); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestApplyTruncation(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		keep     int
		expected string
	}{
		{"zero keeps everything", "/home/user/sub/dir", 0, "/home/user/sub/dir"},
		{"keep trailing two", "/home/user/sub/dir", 2, "sub/dir"},
		{"keep trailing one", "/home/user/sub/dir", 1, "dir"},
		{"keep leading two counts root", "/home/user/sub/dir", -2, "/home"},
		{"keep leading from relative path", "home/user/sub", -2, "home/user"},
		{"keep more than available", "a/b", 5, "a/b"},
		{"root alone", "/", 2, "/"},
		{"root counts toward leading keep", "/home", -1, "/"},
		{"trailing separator is stripped", "/home/user/", 0, "/home/user"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Apply(tt.path, nil, tt.keep); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}
