// nolint:errcheck
package cmd

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	titleStyle   = color.New(color.Bold, color.FgHiWhite)
	commandStyle = color.New(color.FgHiGreen)
	aliasStyle   = color.New(color.FgHiGreen)
	exampleStyle = color.New(color.FgHiCyan)
	flagStyle    = color.New(color.Bold, color.FgHiCyan)
)

var HelpTemplate = `{{with (or .Long .Short)}}{{. | trimTrailingWhitespaces}}

{{end}}{{if or .Runnable .HasSubCommands}}{{.UsageString}}{{end}}` + titleStyle.Sprintf("GitHub:") + color.New(color.FgYellow).Sprintln(
	"		https://github.com/Hanaasagi/suzuri",
)

func trimRightSpace(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}

var (
	reWithShort = regexp.MustCompile(`^( {2,})(-[a-zA-Z0-9]), (--[a-zA-Z0-9-]+)(.*)$`)
	reLongOnly  = regexp.MustCompile(`^( {2,})(--[a-zA-Z0-9-]+)(.*)$`)
)

func colorFlags(raw string) []byte {
	lines := strings.Split(raw, "\n")

	var out bytes.Buffer

	for _, line := range lines {
		switch {
		case reWithShort.MatchString(line):
			m := reWithShort.FindStringSubmatch(line)
			indent, shortFlag, longFlag, rest := m[1], m[2], m[3], m[4]
			out.WriteString(indent)
			flagStyle.Fprint(&out, shortFlag)
			out.WriteString(", ")
			out.WriteString(longFlag)
			out.WriteString(rest)
			out.WriteByte('\n')

		case reLongOnly.MatchString(line):
			m := reLongOnly.FindStringSubmatch(line)
			indent, longFlag, rest := m[1], m[2], m[3]
			out.WriteString(indent)
			flagStyle.Fprint(&out, longFlag)
			out.WriteString(rest)
			out.WriteByte('\n')

		default:
			out.WriteString(line)
			out.WriteByte('\n')
		}
	}

	return out.Bytes()
}

// ColorUsageFunc renders colored usage for a single-command CLI.
func ColorUsageFunc(w io.Writer, cmd *cobra.Command) error {
	buf := &bytes.Buffer{}

	titleStyle.Fprint(buf, "Usage:")
	if cmd.Runnable() {
		fmt.Fprint(buf, "\n  ")
		commandStyle.Fprint(buf, cmd.UseLine())
	}

	if len(cmd.Aliases) > 0 {
		fmt.Fprint(buf, "\n\n")
		titleStyle.Fprint(buf, "Aliases:")
		fmt.Fprint(buf, "\n  ")
		aliasStyle.Fprint(buf, strings.Join(cmd.Aliases, ", "))
	}

	if cmd.HasExample() {
		fmt.Fprint(buf, "\n\n")
		titleStyle.Fprint(buf, "Examples:")
		fmt.Fprint(buf, "\n")
		exampleStyle.Fprint(buf, cmd.Example)
	}

	if cmd.HasAvailableLocalFlags() {
		fmt.Fprint(buf, "\n\n")
		titleStyle.Fprint(buf, "Flags:")
		fmt.Fprint(buf, "\n")

		raw := trimRightSpace(cmd.LocalFlags().FlagUsages())
		buf.Write(colorFlags(raw))
	}

	fmt.Fprintln(buf)

	_, err := w.Write(buf.Bytes())
	return err
}

// ColorHelpFunc is a cobra help func wrapper around ColorUsageFunc.
func ColorHelpFunc(c *cobra.Command, _ []string) {
	ColorUsageFunc(c.OutOrStdout(), c)
}
