package swisskit

import (
	"fmt"
	"sort"
	"strings"
)

// Describe returns a human-readable overview of a roster: player count,
// players per group and per federation, and duplicated names.
// Useful for checking an import before generating XML.
func Describe(rows Roster) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Players: %d\n", len(rows))

	describeCounts(&b, "Groups", rows, FieldGroup)
	describeCounts(&b, "Federations", rows, FieldFederation)

	teams := make(map[string]bool)
	for _, r := range rows {
		if id := r.Get(FieldTeamID); id != "" {
			teams[id] = true
		}
	}
	if len(teams) > 0 {
		fmt.Fprintf(&b, "Teams: %d\n", len(teams))
	}

	dups := Duplicates(rows)
	if len(dups) > 0 {
		b.WriteString("Duplicates:\n")
		for _, r := range dups {
			fmt.Fprintf(&b, "  #%s %s\n", r.Get(FieldPlayerID), strings.TrimSpace(nameKey(r)))
		}
	}
	return b.String()
}

// describeCounts writes "title:" followed by one line per distinct value.
func describeCounts(b *strings.Builder, title string, rows Roster, f Field) {
	counts := make(map[string]int)
	for _, r := range rows {
		v := r.Get(f)
		if v == "" {
			v = "(none)"
		}
		counts[v]++
	}
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintf(b, "%s:\n", title)
	for _, k := range keys {
		fmt.Fprintf(b, "  %s: %d\n", k, counts[k])
	}
}
