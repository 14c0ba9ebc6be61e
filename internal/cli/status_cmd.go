package cli

import (
	"fmt"

	hubapp "github.com/alexanderramin/programhub/internal/app"
	"github.com/alexanderramin/programhub/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newStatusCmd(app *App) *cobra.Command {
	var owner string
	var output outputFormat

	cmd := &cobra.Command{
		Use:   "status PROGRAM",
		Short: "Show point rollups for a program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Programs.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			resp, err := app.Status.GetStatus(ctx, hubapp.StatusRequest{ProgramID: p.ID, OwnerID: owner})
			if err != nil {
				return err
			}
			if output == outputJSON {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatStatus(resp))
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "Only include subcomponents owned by this person")
	addOutputFlag(cmd.Flags(), &output)

	return cmd
}
