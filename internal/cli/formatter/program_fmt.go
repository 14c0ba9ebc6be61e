package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/programhub/internal/domain"
	"github.com/alexanderramin/programhub/internal/rollup"
)

// FormatProgramList renders programs as a table.
func FormatProgramList(programs []*domain.Program) string {
	headers := []string{"ID", "NAME", "FISCAL", "START", "TARGET"}
	rows := make([][]string, 0, len(programs))
	for _, p := range programs {
		rows = append(rows, []string{
			StylePurple.Render(p.DisplayID()),
			Bold(p.Name),
			p.FYLabel(),
			DateOrDash(p.StartDate),
			DateOrDash(p.TargetDate),
		})
	}
	return RenderTable(headers, rows)
}

// FormatProgramInspect renders a loaded program tree: workstreams,
// subcomponents and subtasks with their point totals.
func FormatProgramInspect(p *domain.Program) string {
	var b strings.Builder

	b.WriteString(Bold(p.Name) + " " + StylePurple.Render(p.DisplayID()) + "\n")
	b.WriteString(Dim(fmt.Sprintf("%s  start %s  target %s", p.FYLabel(), DateOrDash(p.StartDate), DateOrDash(p.TargetDate))) + "\n")

	progress := rollup.InitiativeProgress(p.Workstreams)
	b.WriteString(fmt.Sprintf("%s  %s\n\n", RenderProgress(progress.Percent(), 20), Dim(Points(progress.CompletedRounded(), progress.Total))))

	if len(p.Workstreams) == 0 {
		b.WriteString(Dim("No workstreams yet.") + "\n")
		return RenderBox("Program", b.String())
	}

	var items []TreeItem
	for wi, ws := range p.Workstreams {
		wsDetail := fmt.Sprintf("%d pts", rollup.WorkstreamTotalPoints(ws))
		if ws.TargetCompletionDate != "" {
			wsDetail += " · " + ws.TargetCompletionDate
		}
		items = append(items, TreeItem{
			Title:  Bold(ws.Name) + " " + TruncID(ws.ID),
			Level:  1,
			IsLast: wi == len(p.Workstreams)-1,
			Detail: wsDetail,
		})
		for si, sc := range ws.Subcomponents {
			detail := fmt.Sprintf("%d pts · %d%%", rollup.SubcomponentTotalPoints(sc), rollup.SubcomponentPercent(sc))
			if sc.OwnerInitials != "" {
				detail += " · " + sc.OwnerInitials
			}
			items = append(items, TreeItem{
				Title:  sc.Name + " " + TruncID(sc.ID),
				Level:  2,
				IsLast: si == len(ws.Subcomponents)-1,
				Status: sc.Status,
				Detail: detail,
			})
			for ti, st := range sc.Subtasks {
				items = append(items, TreeItem{
					Title:  st.Title + " " + TruncID(st.ID),
					Level:  3,
					IsLast: ti == len(sc.Subtasks)-1,
					Status: st.Status,
					Detail: subtaskBadge(st),
				})
			}
		}
	}
	b.WriteString(RenderTree(items))
	return RenderBox("Program", b.String())
}

func subtaskBadge(st *domain.Subtask) string {
	badge := fmt.Sprintf("%d pts · %d%%", rollup.EffectivePoints(st), st.CompletionPercent)
	if st.Estimation.Active() {
		badge += " · est"
	}
	if st.IsAddedScope {
		badge += " · added"
	}
	return badge
}

// FormatWorkstreamList renders the workstreams of a program.
func FormatWorkstreamList(workstreams []*domain.Workstream) string {
	headers := []string{"ID", "NAME", "TARGET"}
	rows := make([][]string, 0, len(workstreams))
	for _, ws := range workstreams {
		rows = append(rows, []string{TruncID(ws.ID), Bold(ws.Name), OrDash(ws.TargetCompletionDate)})
	}
	return RenderTable(headers, rows)
}

// FormatSubcomponentList renders subcomponents with owner, status and window.
func FormatSubcomponentList(subcomponents []*domain.Subcomponent) string {
	headers := []string{"ID", "NAME", "OWNER", "STATUS", "WINDOW", "MANUAL PTS"}
	rows := make([][]string, 0, len(subcomponents))
	for _, sc := range subcomponents {
		rows = append(rows, []string{
			TruncID(sc.ID),
			Bold(sc.Name),
			OrDash(domain.CoalesceStr(sc.OwnerInitials, sc.OwnerID)),
			StatusPill(sc.Status),
			Window(sc.PlannedStart, sc.PlannedEnd),
			fmt.Sprintf("%d", sc.TotalPoints),
		})
	}
	return RenderTable(headers, rows, 5)
}
