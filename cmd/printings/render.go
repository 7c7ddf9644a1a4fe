package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/konstantinfoerster/card-printings-go/internal/cards"
)

type viewer interface {
	Groups() []cards.SetGroup
	Required(name string) int
	Selected(name string) int
	Progress() (selected int, required int)
	ManaSymbols(manaCost string) []cards.Symbol
}

// render writes the grouped printings followed by a summary of the lookup.
func render(w io.Writer, v viewer, report cards.ResolveReport) {
	groups := v.Groups()
	for _, g := range groups {
		fmt.Fprintf(w, "%s (%d)", g.SetName, len(g.Cards))
		if g.Icon != "" {
			fmt.Fprintf(w, " %s", g.Icon)
		}
		fmt.Fprintln(w)

		for _, c := range g.Cards {
			fmt.Fprintf(w, "  %-6s %-32s %-16s %-10s %d/%d\n",
				c.CollectorNumber, c.Name, manaCost(v, c.ManaCost), c.Rarity, v.Selected(c.Name), v.Required(c.Name))
		}
	}

	selected, required := v.Progress()
	fmt.Fprintf(w, "\n%d sets, %d/%d cards resolved, %d/%d copies selected\n",
		len(groups), report.Resolved, report.Entries, selected, required)
	if len(report.Missing) > 0 {
		fmt.Fprintf(w, "not found: %s\n", strings.Join(report.Missing, ", "))
	}
}

func manaCost(v viewer, cost string) string {
	var b strings.Builder
	for _, s := range v.ManaSymbols(cost) {
		if s.Symbol == "//" {
			b.WriteString(" // ")

			continue
		}
		b.WriteString(s.Symbol)
	}

	return b.String()
}
