package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/programhub/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// TreeItem is one row of the program tree. Level 1 is a workstream, 2 a
// subcomponent and 3 a subtask; level 0 rows have no connector.
type TreeItem struct {
	Title  string
	Level  int
	IsLast bool
	Status domain.WorkStatus
	Detail string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
	treeBlank  = "   "
)

// RenderTree draws items in order with box connectors and right-aligned
// point badges. A closed branch (IsLast) stops drawing its pipe for the
// rows nested below it.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	closed := make([]bool, 0, 4)
	contents := make([]string, len(items))
	width := 0
	for i, item := range items {
		if item.Level > 0 {
			for len(closed) < item.Level {
				closed = append(closed, false)
			}
			closed = closed[:item.Level]
			closed[item.Level-1] = item.IsLast
		}
		contents[i] = treePrefix(closed, item.Level) + statusTitle(item)
		width = max(width, lipgloss.Width(contents[i]))
	}

	var b strings.Builder
	for i, item := range items {
		b.WriteString(contents[i])
		if item.Detail != "" {
			b.WriteString(strings.Repeat(" ", width-lipgloss.Width(contents[i])+2))
			b.WriteString(StyleBlue.Render(fmt.Sprintf("[ %s ]", item.Detail)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func treePrefix(closed []bool, level int) string {
	if level == 0 {
		return ""
	}
	var b strings.Builder
	for _, last := range closed[:level-1] {
		if last {
			b.WriteString(treeBlank)
		} else {
			b.WriteString(treePipe)
		}
	}
	if closed[level-1] {
		b.WriteString(treeCorner)
	} else {
		b.WriteString(treeBranch)
	}
	return b.String()
}

func statusTitle(item TreeItem) string {
	switch item.Status {
	case domain.StatusDone:
		return StyleGreen.Render("✔ ") + Dim(item.Title)
	case domain.StatusInProgress:
		return StyleYellowBold.Render("▶ " + item.Title)
	default:
		return item.Title
	}
}
