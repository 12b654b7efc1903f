package main

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/hiredesk/internal/ui"
)

// helpRule styles the submatches of one pattern in cobra's help text.
type helpRule struct {
	re    *regexp.Regexp
	paint func(groups []string) string
}

var helpRules = []helpRule{
	// Group and section headers such as "Pipeline:" or "Flags:".
	{regexp.MustCompile(`(?m)^([A-Z][^\n]*:)\s*$`), func(g []string) string {
		return ui.RenderAccent(g[1])
	}},
	// Command names in the command lists.
	{regexp.MustCompile(`(?m)^(  )(\S+)(  )`), func(g []string) string {
		return g[1] + ui.RenderGood(g[2]) + g[3]
	}},
	// Flag value types, e.g. "--job string".
	{regexp.MustCompile(`(--?\S+\s+)(string|int|duration|strings)\b`), func(g []string) string {
		return g[1] + ui.RenderMuted(g[2])
	}},
	{regexp.MustCompile(`(\(default [^)]*\))`), func(g []string) string {
		return ui.RenderMuted(g[1])
	}},
}

func colorizeHelp(s string) string {
	for _, r := range helpRules {
		s = r.re.ReplaceAllStringFunc(s, func(m string) string {
			return r.paint(r.re.FindStringSubmatch(m))
		})
	}
	return s
}

// colorizedHelpFunc renders cobra's usage text, colored when stdout is a
// color-capable terminal.
func colorizedHelpFunc() func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, _ []string) {
		out := cmd.OutOrStdout()
		if !ui.ShouldUseColor() {
			_ = cmd.Usage()
			return
		}
		var buf bytes.Buffer
		cmd.SetOut(&buf)
		_ = cmd.Usage()
		cmd.SetOut(out)
		fmt.Fprint(out, colorizeHelp(buf.String()))
	}
}
