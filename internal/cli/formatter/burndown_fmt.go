package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/programhub/internal/app"
	"github.com/alexanderramin/programhub/internal/burndown"
)

const burndownBarWidth = 24

// FormatBurndown renders the burndown series as a table with an inline bar
// per period. Periods without data show a dash; the current month and scope
// changes are marked.
func FormatBurndown(resp *app.BurndownResponse) string {
	var b strings.Builder

	title := string(resp.Kind)
	if resp.ScopeLabel != "" {
		title = resp.ScopeLabel
	}
	if p := resp.Program; p != nil {
		b.WriteString(Bold(p.Name) + " " + StylePurple.Render(p.DisplayID()) + "  " + Dim(title) + "\n\n")
	}

	if len(resp.Points) == 0 {
		b.WriteString(Dim("Timeline is empty.") + "\n")
		return RenderBox("Burndown", b.String())
	}

	headers := []string{"PERIOD", "IDEAL", "SCOPE", "REMAINING", "", ""}
	rows := make([][]string, 0, len(resp.Points))
	for _, p := range resp.Points {
		remaining := Dim("--")
		if p.Remaining != nil {
			remaining = fmt.Sprintf("%d", *p.Remaining)
		}
		label := p.Label
		if p.IsCurrent {
			label = StyleHeader.Render(label)
		}
		var marks []string
		if p.IsCurrent {
			marks = append(marks, StyleHeader.Render("◀ now"))
		}
		if p.ScopeChanged {
			marks = append(marks, StylePurple.Render("Δ scope"))
		}
		rows = append(rows, []string{
			label,
			fmt.Sprintf("%d", p.Ideal),
			fmt.Sprintf("%d", p.Scope),
			remaining,
			remainingBar(p, resp.PeakScope),
			strings.Join(marks, " "),
		})
	}
	b.WriteString(RenderTable(headers, rows, 1, 2, 3))

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %d  %s %d  %s %s\n",
		Dim("start"), resp.StartTotal,
		Dim("peak"), resp.PeakScope,
		Dim("live"), Points(resp.Live.CompletedPoints, resp.Live.TotalPoints)))

	if len(resp.Warnings) > 0 {
		b.WriteString("\n")
		for _, w := range resp.Warnings {
			b.WriteString(Warning(w) + "\n")
		}
	}
	return RenderBox("Burndown", b.String())
}

// remainingBar draws remaining points against the ideal line, scaled to
// the peak scope.
func remainingBar(p burndown.ChartPoint, peak int) string {
	if peak <= 0 {
		return ""
	}
	scale := func(v int) int {
		if v < 0 {
			v = 0
		}
		n := v * burndownBarWidth / peak
		if n > burndownBarWidth {
			n = burndownBarWidth
		}
		return n
	}
	ideal := scale(p.Ideal)
	if p.Remaining == nil {
		return Dim(strings.Repeat(" ", ideal) + "·")
	}
	rem := scale(*p.Remaining)
	style := StyleGreen
	if *p.Remaining > p.Ideal {
		style = StyleRed
	}
	return style.Render(strings.Repeat(filledBlock, rem))
}
