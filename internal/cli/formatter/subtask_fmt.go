package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/programhub/internal/domain"
	"github.com/alexanderramin/programhub/internal/estimate"
	"github.com/alexanderramin/programhub/internal/rollup"
)

// FormatSubtaskList renders subtasks with points, completion and flags.
func FormatSubtaskList(subtasks []*domain.Subtask) string {
	headers := []string{"ID", "TITLE", "POINTS", "SOURCE", "PROGRESS", "STATUS", "ORG"}
	rows := make([][]string, 0, len(subtasks))
	for _, st := range subtasks {
		source := "manual"
		if st.Estimation.Active() {
			source = fmt.Sprintf("%gd est", st.Estimation.Days)
		}
		title := st.Title
		if st.IsAddedScope {
			title += " " + StylePurple.Render("+scope")
		}
		rows = append(rows, []string{
			TruncID(st.ID),
			title,
			fmt.Sprintf("%d", rollup.EffectivePoints(st)),
			Dim(source),
			RenderProgress(st.CompletionPercent, 10),
			StatusPill(st.Status),
			OrDash(st.AssignedOrganization),
		})
	}
	return RenderTable(headers, rows, 2)
}

// FormatCompletionHistory renders the completion notes of a subtask, oldest
// first.
func FormatCompletionHistory(notes []*domain.CompletionNote) string {
	if len(notes) == 0 {
		return Dim("No completion changes recorded.") + "\n"
	}
	headers := []string{"WHEN", "CHANGE", "ACTOR", "REASON"}
	rows := make([][]string, 0, len(notes))
	for _, n := range notes {
		actor := ""
		if n.ActorID != nil {
			actor = *n.ActorID
		}
		rows = append(rows, []string{
			n.CreatedAt.Format("2006-01-02 15:04"),
			fmt.Sprintf("%d%% → %d%%", n.PreviousPercent, n.NewPercent),
			OrDash(actor),
			OrDash(n.Reason),
		})
	}
	return RenderTable(headers, rows)
}

// FormatEstimate renders the breakdown of a story point estimate.
func FormatEstimate(est domain.Estimation, r estimate.Result) string {
	var b strings.Builder
	n := est.Normalized()

	b.WriteString(fmt.Sprintf("%s %s\n", Dim("Duration:   "), fmt.Sprintf("%g days", n.Days)))
	b.WriteString(fmt.Sprintf("%s %s\n", Dim("Unknowns:   "), n.Unknowns))
	b.WriteString(fmt.Sprintf("%s %s\n\n", Dim("Integration:"), n.Integration))

	b.WriteString(fmt.Sprintf("%s %+d\n", Dim("Base        "), r.Base))
	b.WriteString(fmt.Sprintf("%s %+d\n", Dim("Unknowns    "), r.UnknownsAdj))
	b.WriteString(fmt.Sprintf("%s %+d\n", Dim("Integration "), r.IntegrationAdj))
	b.WriteString(fmt.Sprintf("%s %d\n\n", Dim("Raw         "), r.Raw))

	b.WriteString(Bold("Story points: ") + StyleHeader.Render(r.Final.String()) + "\n")

	if r.HasFlag(estimate.FlagBreakDownRequired) {
		b.WriteString("\n" + StyleRed.Render(fmt.Sprintf("  Break this task down: %d+ days cannot be estimated as one task.", estimate.BreakDownThresholdDays)) + "\n")
	}
	if r.HasFlag(estimate.FlagVeryHighUnknowns) {
		b.WriteString("\n" + Warning("very high unknowns; consider a spike first") + "\n")
	}
	return RenderBox("Estimate", b.String())
}

// FormatSnapshotList renders stored snapshots, oldest first.
func FormatSnapshotList(snaps []*domain.BurnSnapshot) string {
	if len(snaps) == 0 {
		return Dim("No snapshots saved.") + "\n"
	}
	headers := []string{"MONTH", "TOTAL", "COMPLETED", "REMAINING", "PROGRESS", "BREAKDOWN"}
	rows := make([][]string, 0, len(snaps))
	for _, s := range snaps {
		breakdown := Dim("no")
		if s.Workstreams != nil {
			breakdown = fmt.Sprintf("%d workstreams", len(s.Workstreams))
		}
		rows = append(rows, []string{
			s.Date,
			fmt.Sprintf("%d", s.TotalPoints),
			fmt.Sprintf("%d", s.CompletedPoints),
			fmt.Sprintf("%d", s.Remaining()),
			RenderProgress(s.PercentComplete, 10),
			breakdown,
		})
	}
	return RenderTable(headers, rows, 1, 2, 3)
}
