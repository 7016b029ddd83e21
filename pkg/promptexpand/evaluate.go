package promptexpand

import (
	"strconv"
	"strings"

	"github.com/Hanaasagi/suzuri/pkg/pathrewrite"
)

// Expand is the high-level entry point: parse a template and evaluate it in
// one step.
func Expand(template string, info Info) string {
	return Evaluate(Parse(template), info)
}

// Evaluate walks a token sequence and concatenates the expansion of each
// token. It is total; re-evaluating the same tokens against the same facts
// always yields the same text.
func Evaluate(tokens TokenSequence, info Info) string {
	var b strings.Builder
	evalSequence(&b, tokens, info)
	return b.String()
}

func evalSequence(b *strings.Builder, tokens TokenSequence, info Info) {
	for _, token := range tokens {
		switch token.Type {
		case TokenLiteral:
			b.WriteString(token.Text)
		case TokenSimple:
			evalSimple(b, token, info)
		case TokenConditional:
			evalConditional(b, token, info)
		case TokenDirRule:
			keep := 0
			if token.HasNum {
				keep = token.Num
			}
			b.WriteString(pathrewrite.Apply(info.CurrentPath(), token.Rules, keep))
		}
	}
}

func evalSimple(b *strings.Builder, token Token, info Info) {
	switch token.Code {
	case 'r':
		b.WriteString(info.GitBranch())
	case 'p':
		b.WriteString(strconv.Itoa(info.GitRemoteAhead()))
	case 'q':
		b.WriteString(strconv.Itoa(info.GitRemoteBehind()))
	case 'x':
		b.WriteString(strconv.Itoa(info.GitStashes()))
	}
}

func evalConditional(b *strings.Builder, token Token, info Info) {
	if !token.Extended {
		// Standard zsh conditionals are re-rendered for the shell to
		// resolve, with their branches still expanded recursively.
		b.WriteByte('%')
		if token.HasNum {
			b.WriteString(strconv.Itoa(token.Num))
		}
		b.WriteByte('(')
		b.WriteByte(token.Code)
		for _, branch := range token.Branches {
			b.WriteByte(token.Delim)
			evalSequence(b, branch, info)
		}
		b.WriteByte(')')
		return
	}

	switch token.Code {
	case 'G', 'y', 'm', 's':
		var cond bool
		switch token.Code {
		case 'G':
			cond = info.GitExists()
		case 'y':
			cond = info.GitDirty()
		case 'm':
			cond = info.GitModified()
		case 's':
			cond = info.GitStaged()
		}
		evalBool(b, token, cond, info)

	default: // 'o', 'p', 'q', 'x'
		var value int
		switch token.Code {
		case 'o':
			value = info.GitRemoteDomain()
		case 'p':
			value = info.GitRemoteAhead()
		case 'q':
			value = info.GitRemoteBehind()
		case 'x':
			value = info.GitStashes()
		}

		if token.HasNum {
			// An explicit numeric argument makes the directive boolean.
			cond := value >= token.Num
			if token.Code == 'o' {
				cond = value == token.Num
			}
			evalBool(b, token, cond, info)
			return
		}

		// No argument: the value indexes the branch list, saturating at
		// the last branch.
		idx := value
		if idx >= len(token.Branches) {
			idx = len(token.Branches) - 1
		}
		evalSequence(b, token.Branches[idx], info)
	}
}

// evalBool picks the true branch or the false branch. Branches beyond the
// first two are a user error and never evaluated; a missing false branch
// renders as empty text.
func evalBool(b *strings.Builder, token Token, cond bool, info Info) {
	idx := 1
	if cond {
		idx = 0
	}
	if idx < len(token.Branches) {
		evalSequence(b, token.Branches[idx], info)
	}
}
