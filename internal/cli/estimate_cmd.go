package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/programhub/internal/cli/formatter"
	"github.com/alexanderramin/programhub/internal/domain"
	"github.com/alexanderramin/programhub/internal/estimate"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

// estimateOutput is the JSON shape of `estimate -o json`.
type estimateOutput struct {
	Days        float64                 `json:"days"`
	Unknowns    domain.UnknownsLevel    `json:"unknowns"`
	Integration domain.IntegrationLevel `json:"integration"`
	estimate.Result
}

func newEstimateCmd(app *App) *cobra.Command {
	var est estimationFlags
	var interactive bool
	var output outputFormat

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Compute story points from duration, unknowns and integration",
		Long: `Compute story points without touching any program.

Duration maps to base points, unknowns and integration add adjustments,
and the raw sum is rounded to the Fibonacci scale. Durations beyond 30 days
are flagged for breakdown.`,
		Example: `  programhub estimate --days 4 --unknowns high --integration multiple
  programhub estimate --interactive`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interactive {
				if !app.interactive() {
					return fmt.Errorf("--interactive requires a terminal")
				}
				if err := estimateForm(&est).Run(); err != nil {
					return err
				}
			} else if !cmd.Flags().Changed("days") {
				return fmt.Errorf("--days is required (or use --interactive)")
			}

			e := est.estimation()
			res := estimate.ForEstimation(e)
			if output == outputJSON {
				return writeJSON(cmd.OutOrStdout(), estimateOutput{
					Days:        e.Days,
					Unknowns:    e.Unknowns,
					Integration: e.Integration,
					Result:      res,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatEstimate(e, res))
			return nil
		},
	}

	est.register(cmd)
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Prompt for the inputs")
	addOutputFlag(cmd.Flags(), &output)

	return cmd
}

// estimateForm collects days, unknowns and integration into est.
func estimateForm(est *estimationFlags) *huh.Form {
	days := ""
	if est.days > 0 {
		days = strconv.FormatFloat(est.days, 'f', -1, 64)
	}
	if est.unknowns == "" {
		est.unknowns = domain.DefaultUnknownsLevel
	}
	if est.integration == "" {
		est.integration = domain.DefaultIntegrationLevel
	}

	unknowns := make([]huh.Option[domain.UnknownsLevel], 0, len(domain.UnknownsLevels))
	for _, l := range domain.UnknownsLevels {
		unknowns = append(unknowns, huh.NewOption(string(l), l))
	}
	integrations := make([]huh.Option[domain.IntegrationLevel], 0, len(domain.IntegrationLevels))
	for _, l := range domain.IntegrationLevels {
		integrations = append(integrations, huh.NewOption(string(l), l))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Duration (days)").
				Placeholder("5").
				Value(&days).
				Validate(func(s string) error {
					d, err := parseDays(s)
					if err != nil {
						return err
					}
					est.days = d
					return nil
				}),
			huh.NewSelect[domain.UnknownsLevel]().
				Title("Unknowns").
				Options(unknowns...).
				Value(&est.unknowns),
			huh.NewSelect[domain.IntegrationLevel]().
				Title("Integration").
				Options(integrations...).
				Value(&est.integration),
		),
	).WithTheme(programhubHuhTheme()).WithShowHelp(false)
}

func parseDays(s string) (float64, error) {
	d, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("enter a non-negative number of days")
	}
	return d, nil
}
