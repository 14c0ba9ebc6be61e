package cli

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/alexanderramin/programhub/internal/app"
	"github.com/alexanderramin/programhub/internal/config"
	"github.com/alexanderramin/programhub/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Programs  service.ProgramService
	Hierarchy service.HierarchyService
	Subtasks  service.SubtaskService
	Snapshots service.SnapshotService
	Status    service.StatusService
	Burndown  service.BurndownService
	Import    service.ImportService

	// Use-case overrides. When nil the matching service above is used.
	SaveSnapshot     app.SaveSnapshotUseCase
	UpdateCompletion app.UpdateCompletionUseCase
	ImportProgram    app.ImportProgramUseCase

	// Metrics is served by `serve`; nil disables the command.
	Metrics        http.Handler
	MetricsAddr    string
	MetricsRefresh time.Duration
	Logger         *slog.Logger

	// IsInteractive reports whether stdin is a terminal. Forms and the
	// dashboard are only offered when it returns true.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}

// NewRootCmd creates the top-level "programhub" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "programhub",
		Short:         "Program hub: story points, rollups and burndowns",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Read by main before the App is built; registered here so cobra
	// accepts them on every command.
	root.PersistentFlags().String("config", "", "config file (default ./programhub.yaml or ~/.programhub/programhub.yaml)")
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		newProgramCmd(app),
		newWorkstreamCmd(app),
		newSubcomponentCmd(app),
		newSubtaskCmd(app),
		newEstimateCmd(app),
		newStatusCmd(app),
		newBurndownCmd(app),
		newSnapshotCmd(app),
		newImportCmd(app),
		newDashboardCmd(app),
		newServeCmd(app),
	)

	return root
}
