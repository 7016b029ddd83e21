// Package pathrewrite rewrites working-directory paths for prompt display
// using ordered prefix replacement rules, in the spirit of zsh's %~ home
// abbreviation but with arbitrary prefixes.
package pathrewrite

import (
	"os"
	"strings"
)

const separator = "/"

// Rule rewrites a path starting with Prefix to begin with Replacement
// instead. Prefix may reference environment variables as $NAME; Replacement
// text is never expanded.
type Rule struct {
	Replacement string
	Prefix      string
}

// Apply rewrites path with the first rule whose resolved prefix is a
// byte-for-byte prefix of it; later rules are not tried. The result is then
// reduced to keep path components: positive keeps the trailing components,
// negative the leading ones, zero keeps everything. No matching rule leaves
// the path unchanged.
func Apply(path string, rules []Rule, keep int) string {
	for _, rule := range rules {
		prefix := expandEnv(rule.Prefix)
		if strings.HasPrefix(path, prefix) {
			path = rule.Replacement + path[len(prefix):]
			break
		}
	}

	path = truncateComponents(path, keep)

	if path != separator {
		path = strings.TrimSuffix(path, separator)
	}
	return path
}

// expandEnv substitutes $NAME sequences with environment values in a single
// pass. Unset variables become empty text; nothing else is expanded.
func expandEnv(s string) string {
	if !strings.Contains(s, "$") {
		return s
	}
	var b strings.Builder
	i := 0
	for i < len(s) {
		if s[i] == '$' && i+1 < len(s) && isVarStartChar(s[i+1]) {
			j := i + 1
			for j < len(s) && isVarChar(s[j]) {
				j++
			}
			b.WriteString(os.Getenv(s[i+1 : j]))
			i = j
			continue
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

// truncateComponents keeps the last keep components of the path when keep is
// positive, the first -keep when negative. A root separator counts as a
// component and survives on its own.
func truncateComponents(path string, keep int) string {
	if keep == 0 {
		return path
	}

	rooted := strings.HasPrefix(path, separator)
	var parts []string
	if rooted {
		parts = append(parts, separator)
	}
	for _, comp := range strings.Split(strings.Trim(path, separator), separator) {
		if comp != "" {
			parts = append(parts, comp)
		}
	}
	if len(parts) == 0 {
		return path
	}

	if keep > 0 && len(parts) > keep {
		parts = parts[len(parts)-keep:]
	} else if keep < 0 && len(parts) > -keep {
		parts = parts[:-keep]
	}

	if parts[0] == separator {
		return separator + strings.Join(parts[1:], separator)
	}
	return strings.Join(parts, separator)
}

// isVarStartChar checks if a character can start a variable name.
func isVarStartChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

// isVarChar checks if a character can be part of a variable name.
func isVarChar(c byte) bool {
	return isVarStartChar(c) || (c >= '0' && c <= '9')
}
