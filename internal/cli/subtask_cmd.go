package cli

import (
	"fmt"
	"strconv"

	hubapp "github.com/alexanderramin/programhub/internal/app"
	"github.com/alexanderramin/programhub/internal/cli/formatter"
	"github.com/alexanderramin/programhub/internal/domain"
	"github.com/spf13/cobra"
)

func newSubtaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subtask",
		Aliases: []string{"st"},
		Short:   "Manage subtasks, estimates and completion",
	}
	cmd.AddCommand(
		newSubtaskAddCmd(app),
		newSubtaskListCmd(app),
		newSubtaskEstimateCmd(app),
		newSubtaskPointsCmd(app),
		newSubtaskCompleteCmd(app),
		newSubtaskHistoryCmd(app),
		newSubtaskRemoveCmd(app),
	)
	return cmd
}

// estimationFlags collect the estimator inputs shared by several commands.
type estimationFlags struct {
	days        float64
	unknowns    domain.UnknownsLevel
	integration domain.IntegrationLevel
}

func (f *estimationFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.days, "days", 0, "Estimated duration in days")
	cmd.Flags().Var(newUnknownsValue(&f.unknowns), "unknowns", "Unknowns (none|low|low-moderate|high|very-high)")
	cmd.Flags().Var(newIntegrationValue(&f.integration), "integration", "Integration (single|1-2|multiple|cross-team)")
}

func (f *estimationFlags) estimation() domain.Estimation {
	return domain.Estimation{Days: f.days, Unknowns: f.unknowns, Integration: f.integration}.Normalized()
}

func newSubtaskAddCmd(app *App) *cobra.Command {
	var title, org string
	var points, completion int
	var addedScope bool
	var est estimationFlags

	cmd := &cobra.Command{
		Use:   "add PROGRAM SUBCOMPONENT",
		Short: "Add a subtask with manual points or an estimate",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			flags := cmd.Flags()
			if flags.Changed("points") && flags.Changed("days") {
				return fmt.Errorf("use either --points or --days, not both")
			}

			p, err := loadProgramTree(ctx, app, args[0])
			if err != nil {
				return err
			}
			sc, err := findSubcomponent(p, args[1])
			if err != nil {
				return err
			}

			st := &domain.Subtask{
				SubcomponentID:       sc.ID,
				Title:                title,
				Points:               points,
				CompletionPercent:    completion,
				IsAddedScope:         addedScope,
				AssignedOrganization: org,
			}
			if flags.Changed("days") {
				e := est.estimation()
				st.Estimation = &e
			}
			if err := app.Subtasks.Create(ctx, st); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created subtask %s (%d pts) in %s\n", st.Title, st.Points, sc.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Subtask title")
	cmd.Flags().IntVar(&points, "points", 0, "Manual story points")
	cmd.Flags().IntVar(&completion, "completion", 0, "Initial completion percentage")
	cmd.Flags().BoolVar(&addedScope, "added-scope", false, "Mark as scope added after the baseline")
	cmd.Flags().StringVar(&org, "org", "", "Assigned organization")
	est.register(cmd)
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newSubtaskListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list PROGRAM SUBCOMPONENT",
		Short: "List a subcomponent's subtasks",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProgramTree(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			sc, err := findSubcomponent(p, args[1])
			if err != nil {
				return err
			}
			if len(sc.Subtasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No subtasks found.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSubtaskList(sc.Subtasks))
			return nil
		},
	}
}

func newSubtaskEstimateCmd(app *App) *cobra.Command {
	var est estimationFlags

	cmd := &cobra.Command{
		Use:   "estimate PROGRAM SUBTASK",
		Short: "Estimate a subtask's points from duration, unknowns and integration",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := loadProgramTree(ctx, app, args[0])
			if err != nil {
				return err
			}
			st, err := findSubtask(p, args[1])
			if err != nil {
				return err
			}
			e := est.estimation()
			updated, res, err := app.Subtasks.UpdateEstimation(ctx, st.ID, e)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatEstimate(e, res))
			fmt.Fprintf(cmd.OutOrStdout(), "%s now carries %d pts\n", updated.Title, updated.Points)
			return nil
		},
	}
	est.register(cmd)
	_ = cmd.MarkFlagRequired("days")
	return cmd
}

func newSubtaskPointsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "points PROGRAM SUBTASK POINTS",
		Short: "Set manual points, dropping any estimate",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			points, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid points %q: %w", args[2], err)
			}
			p, err := loadProgramTree(ctx, app, args[0])
			if err != nil {
				return err
			}
			st, err := findSubtask(p, args[1])
			if err != nil {
				return err
			}
			updated, err := app.Subtasks.SetManualPoints(ctx, st.ID, points)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s now carries %d manual pts\n", updated.Title, updated.Points)
			return nil
		},
	}
}

func newSubtaskCompleteCmd(app *App) *cobra.Command {
	var reason, actor string

	cmd := &cobra.Command{
		Use:   "complete PROGRAM SUBTASK PERCENT",
		Short: "Record a subtask's completion percentage",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pct, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid percent %q: %w", args[2], err)
			}
			p, err := loadProgramTree(ctx, app, args[0])
			if err != nil {
				return err
			}
			st, err := findSubtask(p, args[1])
			if err != nil {
				return err
			}

			req := hubapp.CompletionUpdate{SubtaskID: st.ID, Percent: pct, Reason: reason}
			if actor != "" {
				req.ActorID = &actor
			}
			res, err := app.updateCompletionUseCase().UpdateCompletion(ctx, req)
			if err != nil {
				return err
			}
			if res.Note == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is already at %d%%\n", res.Subtask.Title, res.Subtask.CompletionPercent)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d%% → %d%% (%s)\n",
				res.Subtask.Title, res.Note.PreviousPercent, res.Note.NewPercent, res.Subtask.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Why the completion changed")
	cmd.Flags().StringVar(&actor, "actor", "", "Who made the change")

	return cmd
}

func newSubtaskHistoryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "history PROGRAM SUBTASK",
		Short: "Show a subtask's completion history",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := loadProgramTree(ctx, app, args[0])
			if err != nil {
				return err
			}
			st, err := findSubtask(p, args[1])
			if err != nil {
				return err
			}
			notes, err := app.Subtasks.History(ctx, st.ID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCompletionHistory(notes))
			return nil
		},
	}
}

func newSubtaskRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove PROGRAM SUBTASK",
		Short: "Delete a subtask",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := loadProgramTree(ctx, app, args[0])
			if err != nil {
				return err
			}
			st, err := findSubtask(p, args[1])
			if err != nil {
				return err
			}
			if err := app.Subtasks.Delete(ctx, st.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed subtask %s\n", st.Title)
			return nil
		},
	}
}
