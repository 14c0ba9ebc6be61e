package formatter

import (
	"fmt"

	"github.com/alexanderramin/programhub/internal/app"
)

// FormatImportResult summarizes an imported program plan.
func FormatImportResult(r *app.ImportResult) string {
	return fmt.Sprintf("%s %s %s\n%s\n",
		StyleGreen.Render("Imported"),
		Bold(r.Program.Name),
		StylePurple.Render("["+r.Program.DisplayID()+"]"),
		Dim(fmt.Sprintf("%d workstreams, %d subcomponents, %d subtasks", r.WorkstreamCount, r.SubcomponentCount, r.SubtaskCount)))
}
