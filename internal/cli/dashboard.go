package cli

import (
	"context"
	"fmt"
	"strings"

	hubapp "github.com/alexanderramin/programhub/internal/app"
	"github.com/alexanderramin/programhub/internal/cli/formatter"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newDashboardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard PROGRAM",
		Short: "Browse a program's rollups and burndowns interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return fmt.Errorf("dashboard requires an interactive terminal; use `status` or `burndown` instead")
			}
			p, err := app.Programs.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			m := newDashboardModel(cmd.Context(), app, p.ID)
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
}

// dashboardRow maps a table row back to the slice it represents. A row with
// an empty subcomponentID is a workstream.
type dashboardRow struct {
	workstreamID   string
	subcomponentID string
}

type dashboardModel struct {
	ctx       context.Context
	app       *App
	programID string

	table    table.Model
	rows     []dashboardRow
	status   *hubapp.StatusResponse
	burndown *hubapp.BurndownResponse
	err      error
	width    int
	height   int
}

type dashboardStatusMsg struct{ resp *hubapp.StatusResponse }
type dashboardBurndownMsg struct{ resp *hubapp.BurndownResponse }
type dashboardErrMsg struct{ err error }

func newDashboardModel(ctx context.Context, app *App, programID string) dashboardModel {
	columns := []table.Column{
		{Title: "NAME", Width: 32},
		{Title: "OWNER", Width: 6},
		{Title: "STATUS", Width: 12},
		{Title: "POINTS", Width: 12},
		{Title: "DONE", Width: 6},
		{Title: "WINDOW", Width: 20},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	t.SetStyles(dashboardTableStyles())

	return dashboardModel{ctx: ctx, app: app, programID: programID, table: t}
}

func (m dashboardModel) Init() tea.Cmd {
	return m.loadStatus()
}

func (m dashboardModel) loadStatus() tea.Cmd {
	return func() tea.Msg {
		resp, err := m.app.Status.GetStatus(m.ctx, hubapp.StatusRequest{ProgramID: m.programID})
		if err != nil {
			return dashboardErrMsg{err}
		}
		return dashboardStatusMsg{resp}
	}
}

func (m dashboardModel) loadBurndown(row dashboardRow) tea.Cmd {
	req := hubapp.BurndownRequest{ProgramID: m.programID}
	if row.subcomponentID != "" {
		req.SubcomponentID = row.subcomponentID
	} else {
		req.WorkstreamID = row.workstreamID
	}
	return func() tea.Msg {
		resp, err := m.app.Burndown.Burndown(m.ctx, req)
		if err != nil {
			return dashboardErrMsg{err}
		}
		return dashboardBurndownMsg{resp}
	}
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetWidth(m.width)
		if m.height > 10 {
			m.table.SetHeight(m.height - 8)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			m.err = nil
			return m, m.loadStatus()
		case "esc":
			m.burndown = nil
			return m, nil
		case "b", "enter":
			if m.burndown != nil {
				m.burndown = nil
				return m, nil
			}
			if row, ok := m.selected(); ok {
				return m, m.loadBurndown(row)
			}
			return m, nil
		}

	case dashboardStatusMsg:
		m.status = msg.resp
		m.setRows()
		return m, nil

	case dashboardBurndownMsg:
		m.burndown = msg.resp
		return m, nil

	case dashboardErrMsg:
		m.err = msg.err
		return m, nil
	}

	if m.burndown != nil {
		return m, nil
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m dashboardModel) selected() (dashboardRow, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.rows) {
		return dashboardRow{}, false
	}
	return m.rows[i], true
}

func (m *dashboardModel) setRows() {
	m.rows = nil
	var rows []table.Row
	for _, ws := range m.status.Workstreams {
		m.rows = append(m.rows, dashboardRow{workstreamID: ws.WorkstreamID})
		rows = append(rows, table.Row{
			ws.Name,
			"",
			"",
			formatter.Points(ws.Points.CompletedPoints, ws.Points.TotalPoints),
			fmt.Sprintf("%d%%", ws.Points.Progress.Percent()),
			formatter.OrDash(ws.TargetCompletionDate),
		})
		for _, sc := range ws.Subcomponents {
			m.rows = append(m.rows, dashboardRow{workstreamID: ws.WorkstreamID, subcomponentID: sc.SubcomponentID})
			rows = append(rows, table.Row{
				"  " + sc.Name,
				formatter.OrDash(sc.OwnerInitials),
				strings.ReplaceAll(strings.ToLower(string(sc.Status)), "_", " "),
				formatter.Points(sc.Points.CompletedPoints, sc.Points.TotalPoints),
				fmt.Sprintf("%d%%", sc.Points.Progress.Percent()),
				formatter.Window(sc.PlannedStart, sc.PlannedEnd),
			})
		}
	}
	m.table.SetRows(rows)
}

func (m dashboardModel) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\n%s\n", m.err, formatter.Dim("r retry · q quit"))
	}
	if m.status == nil {
		return formatter.Dim("Loading...") + "\n"
	}

	var b strings.Builder
	if p := m.status.Program; p != nil {
		b.WriteString(formatter.Bold(p.Name) + " " + formatter.StylePurple.Render(p.DisplayID()) + "  " + formatter.Dim(p.FYLabel()) + "\n\n")
	}

	if m.burndown != nil {
		b.WriteString(formatter.FormatBurndown(m.burndown))
		b.WriteString("\n" + formatter.Dim("b/esc back · q quit") + "\n")
		return b.String()
	}

	b.WriteString(m.table.View() + "\n\n")
	s := m.status.Summary
	b.WriteString(fmt.Sprintf("Total: %s  %d%% done, %d%% weighted\n",
		formatter.Points(s.CompletedPoints, s.TotalPoints), s.Percent, s.Progress.Percent()))
	for _, w := range m.status.Warnings {
		b.WriteString(formatter.Warning(w) + "\n")
	}
	b.WriteString(formatter.Dim("↑/↓ move · b burndown · r refresh · q quit") + "\n")
	return b.String()
}
