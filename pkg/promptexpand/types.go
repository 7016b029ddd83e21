// Package promptexpand parses an extended dialect of zsh prompt escape
// syntax and expands it against repository state. Standard zsh escapes are
// preserved byte-for-byte for the shell to expand itself.
package promptexpand

import (
	"fmt"

	"github.com/Hanaasagi/suzuri/pkg/pathrewrite"
)

// TokenType represents different types of elements in a prompt template.
type TokenType int

// Token types produced by Parse
const (
	TokenLiteral     TokenType = iota // Raw text, emitted unchanged
	TokenSimple                       // %r, %p, %q, %x substitutions
	TokenConditional                  // %(c.text.text) directives
	TokenDirRule                      // %d{...} and %/{...} directory rewrites
)

// Token represents a parsed element from the template string.
// Conditional and directory-rule tokens own their arguments recursively;
// everything the extended grammar does not recognize stays a literal.
type Token struct {
	Type     TokenType
	Text     string // literal content, TokenLiteral only
	Code     byte   // directive code letter
	Num      int    // numeric argument, meaningful only when HasNum
	HasNum   bool
	Delim    byte // argument delimiter, fixed per directive
	Extended bool // conditional code belongs to the extended set
	Branches []TokenSequence
	Rules    []pathrewrite.Rule
}

// TokenSequence is an ordered list of tokens parsed from one template.
type TokenSequence []Token

// Info supplies the repository facts and working directory the evaluator
// substitutes into a template. Implementations are expected to be cheap on
// repeated calls; see gitstate.Cache.
type Info interface {
	// CurrentPath returns the working directory used by directory rules.
	CurrentPath() string
	// GitExists reports whether the working directory is inside a repository.
	GitExists() bool
	// GitDirty reports whether the repository has modified or staged files.
	GitDirty() bool
	// GitModified reports whether the worktree has modified files.
	GitModified() bool
	// GitStaged reports whether the index has staged files.
	GitStaged() bool
	// GitRemoteDomain classifies the tracking remote's host, 0 for unknown.
	GitRemoteDomain() int
	// GitRemoteAhead returns how many commits HEAD is ahead of its upstream.
	GitRemoteAhead() int
	// GitRemoteBehind returns how many commits HEAD is behind its upstream.
	GitRemoteBehind() int
	// GitBranch returns the short branch name, empty outside a repository.
	GitBranch() string
	// GitStashes returns the number of stashes.
	GitStashes() int
}

// String returns a human-readable string for a token type
func (t TokenType) String() string {
	switch t {
	case TokenLiteral:
		return "Literal"
	case TokenSimple:
		return "Simple"
	case TokenConditional:
		return "Conditional"
	case TokenDirRule:
		return "DirRule"
	default:
		return "Unknown"
	}
}

// String returns a string representation of a token
func (t Token) String() string {
	switch t.Type {
	case TokenLiteral:
		return fmt.Sprintf("%s(%q)", t.Type, t.Text)
	case TokenSimple:
		return fmt.Sprintf("%s(%%%c)", t.Type, t.Code)
	case TokenConditional:
		return fmt.Sprintf("%s(%%%c, %d branches)", t.Type, t.Code, len(t.Branches))
	case TokenDirRule:
		return fmt.Sprintf("%s(%d pairs)", t.Type, len(t.Rules))
	default:
		return fmt.Sprintf("%s(%q)", t.Type, t.Text)
	}
}
