package cli

import (
	"fmt"

	"github.com/alexanderramin/programhub/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newSnapshotCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save and list monthly burndown snapshots",
	}
	cmd.AddCommand(
		newSnapshotSaveCmd(app),
		newSnapshotListCmd(app),
	)
	return cmd
}

func newSnapshotSaveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "save PROGRAM",
		Short: "Record this month's totals (re-saving overwrites)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Programs.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			snap, err := app.saveSnapshotUseCase().SaveCurrent(ctx, p.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved snapshot %s for %s: %s (%d%%)\n",
				snap.Date, p.DisplayID(), formatter.Points(snap.CompletedPoints, snap.TotalPoints), snap.PercentComplete)
			return nil
		},
	}
}

func newSnapshotListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list PROGRAM",
		Short: "List saved snapshots",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Programs.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			snaps, err := app.Snapshots.List(ctx, p.ID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSnapshotList(snaps))
			return nil
		},
	}
}
