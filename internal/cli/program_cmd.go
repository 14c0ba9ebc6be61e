package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/programhub/internal/cli/formatter"
	"github.com/alexanderramin/programhub/internal/domain"
	"github.com/spf13/cobra"
)

func newProgramCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "program",
		Short: "Manage programs",
	}

	cmd.AddCommand(
		newProgramAddCmd(app),
		newProgramListCmd(app),
		newProgramInspectCmd(app),
		newProgramUpdateCmd(app),
		newProgramRemoveCmd(app),
	)

	return cmd
}

func newProgramAddCmd(app *App) *cobra.Command {
	var shortID, name, start, target string
	var fyStart, fyEnd int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new program",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := &domain.Program{
				ShortID:     strings.ToUpper(shortID),
				Name:        name,
				FYStartYear: fyStart,
				FYEndYear:   fyEnd,
			}
			var err error
			if p.StartDate, err = parseOptionalDate("start", start); err != nil {
				return err
			}
			if p.TargetDate, err = parseOptionalDate("target", target); err != nil {
				return err
			}

			if err := app.Programs.Create(cmd.Context(), p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created program %s [%s]\n", p.Name, p.ShortID)
			return nil
		},
	}

	cmd.Flags().StringVar(&shortID, "id", "", "Short ID (3-6 uppercase letters + 2-4 digits, e.g. NRN01)")
	cmd.Flags().StringVar(&name, "name", "", "Program name")
	cmd.Flags().IntVar(&fyStart, "fy-start", 0, "First fiscal year, two digits (26 = FY26)")
	cmd.Flags().IntVar(&fyEnd, "fy-end", 0, "Last fiscal year, two digits")
	cmd.Flags().StringVar(&start, "start", "", "Explicit start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&target, "target", "", "Explicit target date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("fy-start")
	_ = cmd.MarkFlagRequired("fy-end")

	return cmd
}

func newProgramListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List programs",
		RunE: func(cmd *cobra.Command, args []string) error {
			programs, err := app.Programs.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(programs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No programs found.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProgramList(programs))
			return nil
		},
	}
}

func newProgramInspectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect PROGRAM",
		Short: "Show a program with its workstreams, subcomponents and subtasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProgramTree(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProgramInspect(p))
			return nil
		},
	}
}

func newProgramUpdateCmd(app *App) *cobra.Command {
	var name, start, target string
	var fyStart, fyEnd int

	cmd := &cobra.Command{
		Use:   "update PROGRAM",
		Short: "Update a program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Programs.Resolve(ctx, args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("name") {
				p.Name = name
			}
			if flags.Changed("fy-start") {
				p.FYStartYear = fyStart
			}
			if flags.Changed("fy-end") {
				p.FYEndYear = fyEnd
			}
			if flags.Changed("start") {
				if p.StartDate, err = parseOptionalDate("start", start); err != nil {
					return err
				}
			}
			if flags.Changed("target") {
				if p.TargetDate, err = parseOptionalDate("target", target); err != nil {
					return err
				}
			}

			if err := app.Programs.Update(ctx, p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated program %s [%s]\n", p.Name, p.ShortID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Program name")
	cmd.Flags().IntVar(&fyStart, "fy-start", 0, "First fiscal year, two digits")
	cmd.Flags().IntVar(&fyEnd, "fy-end", 0, "Last fiscal year, two digits")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD, empty to clear)")
	cmd.Flags().StringVar(&target, "target", "", "Target date (YYYY-MM-DD, empty to clear)")

	return cmd
}

func newProgramRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove PROGRAM",
		Short: "Delete a program and everything under it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Programs.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			if err := app.Programs.Delete(ctx, p.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed program %s [%s]\n", p.Name, p.ShortID)
			return nil
		},
	}
}
