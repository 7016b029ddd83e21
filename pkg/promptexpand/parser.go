package promptexpand

import (
	"strconv"
	"strings"

	"github.com/Hanaasagi/suzuri/pkg/pathrewrite"
)

// Codes accepted inside %(...) groups. Only the extended subset is resolved
// by the evaluator; the remaining zsh codes re-render as passthrough.
const (
	conditionalCodes = "!#?_C/c.~DdegjLlSTtvVwGymsopqx"
	extendedCodes    = "Gymsopqx"
	simpleCodes      = "rpqx"
)

// Parse turns a raw template string into a token sequence. It is a total
// function: malformed or unrecognized sequences degrade to literal
// passthrough instead of failing, matching shell tolerance for unknown
// escape codes.
func Parse(text string) TokenSequence {
	var tokens TokenSequence
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			tokens = append(tokens, Token{Type: TokenLiteral, Text: lit.String()})
			lit.Reset()
		}
	}

	pos := 0
	for pos < len(text) {
		if text[pos] != '%' {
			next := strings.IndexByte(text[pos:], '%')
			if next == -1 {
				lit.WriteString(text[pos:])
				pos = len(text)
			} else {
				lit.WriteString(text[pos : pos+next])
				pos += next
			}
			continue
		}

		token, next, ok := parseDirective(text, pos)
		if !ok {
			// Not part of the extended grammar: copy through literally,
			// including the %, up to and not consuming the next %.
			end := len(text)
			if i := strings.IndexByte(text[pos+1:], '%'); i >= 0 {
				end = pos + 1 + i
			}
			lit.WriteString(text[pos:end])
			pos = end
			continue
		}

		flush()
		tokens = append(tokens, token)
		pos = next
	}

	flush()
	return tokens
}

// parseDirective parses one extended directive starting at the % in text[pos].
// A false return means the sequence belongs to the host shell and should pass
// through untouched.
func parseDirective(text string, pos int) (Token, int, bool) {
	i := pos + 1
	if i >= len(text) {
		return Token{}, 0, false
	}

	num, hasNum, i := scanNumber(text, i)
	if i >= len(text) {
		return Token{}, 0, false
	}

	switch c := text[i]; {
	case c == '(':
		return parseConditional(text, i, num, hasNum)
	case (c == 'd' || c == '/') && i+1 < len(text) && text[i+1] == '{':
		return parseDirRule(text, i+1, num, hasNum)
	case strings.IndexByte(simpleCodes, c) >= 0:
		// A numeric prefix carries no meaning for plain substitutions and
		// is dropped along with the directive.
		return Token{Type: TokenSimple, Code: c}, i + 1, true
	default:
		return Token{}, 0, false
	}
}

// scanNumber reads an optional signed decimal at text[pos]. A sign without
// digits consumes nothing.
func scanNumber(text string, pos int) (int, bool, int) {
	i := pos
	if i < len(text) && text[i] == '-' {
		i++
	}
	start := i
	for i < len(text) && text[i] >= '0' && text[i] <= '9' {
		i++
	}
	if i == start {
		return 0, false, pos
	}
	n, err := strconv.Atoi(text[pos:i])
	if err != nil {
		return 0, false, pos
	}
	return n, true, i
}

// parseConditional parses %(c<d>text<d>text...) with open at '('. The code
// letter follows the paren and the delimiter is the character immediately
// after the code, fixed for the whole group. The delimiter may be any
// character, including '(' and ')'.
func parseConditional(text string, open int, num int, hasNum bool) (Token, int, bool) {
	if open+2 >= len(text) {
		return Token{}, 0, false
	}
	code := text[open+1]
	if strings.IndexByte(conditionalCodes, code) < 0 {
		return Token{}, 0, false
	}
	delim := text[open+2]

	token := Token{
		Type:     TokenConditional,
		Code:     code,
		Num:      num,
		HasNum:   hasNum,
		Delim:    delim,
		Extended: strings.IndexByte(extendedCodes, code) >= 0,
	}

	pos := open + 3
	if token.Extended {
		// Extended codes take any number of branches: each runs to the
		// next delimiter, the last to the closing paren.
		stops := string([]byte{delim, ')'})
		for {
			branch, next, stop, ok := scanBranch(text, pos, stops)
			if !ok {
				return Token{}, 0, false
			}
			token.Branches = append(token.Branches, Parse(branch))
			pos = next
			if stop == ')' {
				return token, pos, true
			}
		}
	}

	// Standard zsh codes keep their two-part shape so re-rendering
	// reproduces the input exactly: the first branch runs to the delimiter,
	// the second to the closing paren.
	first, pos, _, ok := scanBranch(text, pos, string(delim))
	if !ok {
		return Token{}, 0, false
	}
	second, pos, _, ok := scanBranch(text, pos, ")")
	if !ok {
		return Token{}, 0, false
	}
	token.Branches = append(token.Branches, Parse(first), Parse(second))
	return token, pos, true
}

// scanBranch collects branch text from pos until one of the stop characters,
// consuming it. Stops count only between elements: a stop character inside a
// nested directive or a standard %-escape never ends the branch. Running out
// of text before a stop fails the enclosing group.
func scanBranch(text string, pos int, stops string) (string, int, byte, bool) {
	var b strings.Builder
	i := pos
	for i < len(text) {
		if text[i] == '%' {
			end := i
			if _, next, ok := parseDirective(text, i); ok {
				end = next
			} else {
				end = skipOpaque(text, i)
			}
			b.WriteString(text[i:end])
			i = end
			continue
		}
		if strings.IndexByte(stops, text[i]) >= 0 {
			return b.String(), i + 1, text[i], true
		}
		b.WriteByte(text[i])
		i++
	}
	return "", 0, 0, false
}

// skipOpaque returns the end of the host-shell escape starting at the % in
// text[i]. The bracketed forms whose bodies may contain delimiter characters
// are swallowed whole: %{...%} literal fences, %D{...} %F{...} %K{...} brace
// arguments and %N<...< truncation fences. Anything else is an opaque
// two-character pair.
func skipOpaque(text string, i int) int {
	pair := i + 2
	if pair > len(text) {
		pair = len(text)
	}

	j := i + 1
	if j < len(text) && text[j] == '{' {
		if end := strings.Index(text[j:], "%}"); end >= 0 {
			return j + end + 2
		}
		return pair
	}

	_, _, j = scanNumber(text, j)
	if j >= len(text) {
		return pair
	}
	switch c := text[j]; {
	case (c == 'D' || c == 'F' || c == 'K') && j+1 < len(text) && text[j+1] == '{':
		if end := strings.IndexByte(text[j+2:], '}'); end >= 0 {
			return j + 2 + end + 1
		}
		return pair
	case c == '<' || c == '>':
		for k := j + 1; k < len(text); k++ {
			if text[k] == '\\' {
				k++
				continue
			}
			if text[k] == c {
				return k + 1
			}
		}
		return pair
	}
	return pair
}

// parseDirRule parses %d{<d>replacement<d>prefix...} and %/{...} with brace
// at '{'. Tokens are split on the delimiter up to the matching unescaped
// brace and grouped in (replacement, prefix) pairs; an odd token count makes
// the whole directive malformed.
func parseDirRule(text string, brace int, num int, hasNum bool) (Token, int, bool) {
	i := brace + 1
	if i >= len(text) {
		return Token{}, 0, false
	}
	delim := text[i]
	i++

	var parts []string
	var cur strings.Builder
	sawDelim := false
	closed := false
	for i < len(text) && !closed {
		switch c := text[i]; {
		case c == '\\' && i+1 < len(text):
			// Escapes are honored only here, nowhere else in the grammar.
			esc := text[i+1]
			if esc == delim || esc == '\\' || esc == '}' {
				cur.WriteByte(esc)
			} else {
				cur.WriteByte(c)
				cur.WriteByte(esc)
			}
			i += 2
		case c == delim:
			parts = append(parts, cur.String())
			cur.Reset()
			sawDelim = true
			i++
		case c == '}':
			parts = append(parts, cur.String())
			closed = true
			i++
		default:
			cur.WriteByte(c)
			i++
		}
	}
	if !closed {
		return Token{}, 0, false
	}
	if !sawDelim && len(parts) == 1 && parts[0] == "" {
		parts = nil // %d{.} style: a delimiter but no pairs
	}
	if len(parts)%2 != 0 {
		return Token{}, 0, false
	}

	token := Token{Type: TokenDirRule, Num: num, HasNum: hasNum, Delim: delim}
	for j := 0; j+1 < len(parts); j += 2 {
		token.Rules = append(token.Rules, pathrewrite.Rule{
			Replacement: parts[j],
			Prefix:      parts[j+1],
		})
	}
	return token, i, true
}
