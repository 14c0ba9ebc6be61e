package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/programhub/internal/app"
)

const statusProgressBarWidth = 10

// FormatStatus renders a program rollup: one row per workstream followed by
// its subcomponents, then the program summary and any warnings.
func FormatStatus(resp *app.StatusResponse) string {
	var b strings.Builder

	if p := resp.Program; p != nil {
		b.WriteString(Bold(p.Name) + " " + StylePurple.Render(p.DisplayID()) + "  " + Dim(p.FYLabel()) + "\n\n")
	}

	headers := []string{"NAME", "OWNER", "STATUS", "DONE", "PROGRESS", "SCOPE", "TARGET"}
	var rows [][]string
	for _, ws := range resp.Workstreams {
		rows = append(rows, []string{
			Bold(ws.Name),
			"",
			"",
			Points(ws.Points.CompletedPoints, ws.Points.TotalPoints),
			RenderProgress(ws.Points.Progress.Percent(), statusProgressBarWidth),
			scopeCell(ws.Points),
			OrDash(ws.TargetCompletionDate),
		})
		for _, sc := range ws.Subcomponents {
			name := "  " + sc.Name
			if sc.ManualFallback {
				name += Dim(" (manual)")
			}
			rows = append(rows, []string{
				name,
				OrDash(sc.OwnerInitials),
				StatusPill(sc.Status),
				Points(sc.Points.CompletedPoints, sc.Points.TotalPoints),
				RenderProgress(sc.Points.Progress.Percent(), statusProgressBarWidth),
				scopeCell(sc.Points),
				Window(sc.PlannedStart, sc.PlannedEnd),
			})
		}
	}
	if len(rows) == 0 {
		b.WriteString(Dim("Nothing to show.") + "\n")
	} else {
		b.WriteString(RenderTable(headers, rows))
	}

	s := resp.Summary
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %s  %s\n",
		Bold("Total:"),
		Points(s.CompletedPoints, s.TotalPoints),
		Dim(fmt.Sprintf("(%d%% done, %d%% weighted)", s.Percent, s.Progress.Percent()))))
	if added := s.Scope.Added(); added != 0 {
		b.WriteString(StylePurple.Render(fmt.Sprintf("Scope: %d base, %d current (%+d added)", s.Scope.Base, s.Scope.Current, added)) + "\n")
	}

	if len(resp.Warnings) > 0 {
		b.WriteString("\n")
		for _, w := range resp.Warnings {
			b.WriteString(Warning(w) + "\n")
		}
	}

	return RenderBox("Status", b.String())
}

func scopeCell(p app.PointsSummary) string {
	if added := p.Scope.Added(); added != 0 {
		return StylePurple.Render(fmt.Sprintf("%+d", added))
	}
	return Dim("--")
}
