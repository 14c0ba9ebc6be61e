package cli

import (
	"fmt"

	"github.com/alexanderramin/programhub/internal/cli/formatter"
	"github.com/alexanderramin/programhub/internal/domain"
	"github.com/spf13/cobra"
)

func newWorkstreamCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workstream",
		Aliases: []string{"ws"},
		Short:   "Manage workstreams",
	}
	cmd.AddCommand(
		newWorkstreamAddCmd(app),
		newWorkstreamListCmd(app),
		newWorkstreamRemoveCmd(app),
	)
	return cmd
}

func newWorkstreamAddCmd(app *App) *cobra.Command {
	var name, target string
	var order int

	cmd := &cobra.Command{
		Use:   "add PROGRAM",
		Short: "Add a workstream to a program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Programs.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			ws := &domain.Workstream{
				ProgramID:            p.ID,
				Name:                 name,
				TargetCompletionDate: target,
				OrderIndex:           order,
			}
			if err := app.Hierarchy.CreateWorkstream(ctx, ws); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created workstream %s (%s) in %s\n", ws.Name, ws.ID, p.DisplayID())
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Workstream name")
	cmd.Flags().StringVar(&target, "target", "", `Target completion month, e.g. "March 2027"`)
	cmd.Flags().IntVar(&order, "order", 0, "Display position (default: append)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newWorkstreamListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list PROGRAM",
		Short: "List a program's workstreams",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Programs.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			workstreams, err := app.Hierarchy.ListWorkstreams(ctx, p.ID)
			if err != nil {
				return err
			}
			if len(workstreams) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No workstreams found.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatWorkstreamList(workstreams))
			return nil
		},
	}
}

func newWorkstreamRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove PROGRAM WORKSTREAM",
		Short: "Delete a workstream and everything under it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := loadProgramTree(ctx, app, args[0])
			if err != nil {
				return err
			}
			ws, err := findWorkstream(p, args[1])
			if err != nil {
				return err
			}
			if err := app.Hierarchy.DeleteWorkstream(ctx, ws.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed workstream %s\n", ws.Name)
			return nil
		},
	}
}

func newSubcomponentCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subcomponent",
		Aliases: []string{"sc"},
		Short:   "Manage subcomponents",
	}
	cmd.AddCommand(
		newSubcomponentAddCmd(app),
		newSubcomponentListCmd(app),
		newSubcomponentUpdateCmd(app),
		newSubcomponentRemoveCmd(app),
	)
	return cmd
}

// subcomponentFlags are shared by add and update.
type subcomponentFlags struct {
	name, owner, initials, start, end string
	status                            domain.WorkStatus
	total                             int
}

func (f *subcomponentFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Subcomponent name")
	cmd.Flags().StringVar(&f.owner, "owner", "", "Owner ID")
	cmd.Flags().StringVar(&f.initials, "initials", "", "Owner initials")
	cmd.Flags().Var(newStatusValue(&f.status), "status", "Status (not_started|in_progress|done)")
	cmd.Flags().IntVar(&f.total, "total", 0, "Manual point total, used while there are no subtasks")
	cmd.Flags().StringVar(&f.start, "start", "", "Planned start month (YYYY-MM)")
	cmd.Flags().StringVar(&f.end, "end", "", "Planned end month (YYYY-MM)")
}

func (f *subcomponentFlags) apply(cmd *cobra.Command, sc *domain.Subcomponent) {
	flags := cmd.Flags()
	if flags.Changed("name") {
		sc.Name = f.name
	}
	if flags.Changed("owner") {
		sc.OwnerID = f.owner
	}
	if flags.Changed("initials") {
		sc.OwnerInitials = f.initials
	}
	if flags.Changed("status") {
		sc.Status = f.status
	}
	if flags.Changed("total") {
		sc.TotalPoints = f.total
	}
	if flags.Changed("start") {
		sc.PlannedStart = f.start
	}
	if flags.Changed("end") {
		sc.PlannedEnd = f.end
	}
}

func newSubcomponentAddCmd(app *App) *cobra.Command {
	var f subcomponentFlags

	cmd := &cobra.Command{
		Use:   "add PROGRAM WORKSTREAM",
		Short: "Add a subcomponent to a workstream",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := loadProgramTree(ctx, app, args[0])
			if err != nil {
				return err
			}
			ws, err := findWorkstream(p, args[1])
			if err != nil {
				return err
			}
			sc := &domain.Subcomponent{WorkstreamID: ws.ID}
			f.apply(cmd, sc)
			if err := app.Hierarchy.CreateSubcomponent(ctx, sc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created subcomponent %s (%s) in %s\n", sc.Name, sc.ID, ws.Name)
			return nil
		},
	}
	f.register(cmd)
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newSubcomponentListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list PROGRAM WORKSTREAM",
		Short: "List a workstream's subcomponents",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProgramTree(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			ws, err := findWorkstream(p, args[1])
			if err != nil {
				return err
			}
			if len(ws.Subcomponents) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No subcomponents found.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSubcomponentList(ws.Subcomponents))
			return nil
		},
	}
}

func newSubcomponentUpdateCmd(app *App) *cobra.Command {
	var f subcomponentFlags

	cmd := &cobra.Command{
		Use:   "update PROGRAM SUBCOMPONENT",
		Short: "Update a subcomponent",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := loadProgramTree(ctx, app, args[0])
			if err != nil {
				return err
			}
			sc, err := findSubcomponent(p, args[1])
			if err != nil {
				return err
			}
			f.apply(cmd, sc)
			if err := app.Hierarchy.UpdateSubcomponent(ctx, sc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated subcomponent %s\n", sc.Name)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newSubcomponentRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove PROGRAM SUBCOMPONENT",
		Short: "Delete a subcomponent and its subtasks",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := loadProgramTree(ctx, app, args[0])
			if err != nil {
				return err
			}
			sc, err := findSubcomponent(p, args[1])
			if err != nil {
				return err
			}
			if err := app.Hierarchy.DeleteSubcomponent(ctx, sc.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed subcomponent %s\n", sc.Name)
			return nil
		},
	}
}
