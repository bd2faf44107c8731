package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize/english"
)

// ListTasks prints the declared tasks grouped by group label. Groups appear
// in the order of their first task; tasks keep declaration order.
func (a *App) ListTasks(w io.Writer) error {
	var groups []string
	byGroup := map[string][]string{}
	for _, t := range a.graph.Tasks() {
		g := t.Group
		if g == "" {
			g = "other"
		}
		if _, seen := byGroup[g]; !seen {
			groups = append(groups, g)
		}
		line := t.Name
		if t.Description != "" {
			line += " - " + t.Description
		}
		byGroup[g] = append(byGroup[g], line)
	}

	for i, g := range groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		title := strings.ToUpper(g[:1]) + g[1:] + " tasks"
		fmt.Fprintln(w, title)
		fmt.Fprintln(w, strings.Repeat("-", len(title)))
		for _, line := range byGroup[g] {
			fmt.Fprintln(w, line)
		}
	}

	fmt.Fprintf(w, "\n%s in %s.\n",
		english.Plural(a.graph.Len(), "task", ""),
		english.Plural(len(groups), "group", ""))
	return nil
}
