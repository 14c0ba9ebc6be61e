package cli

import (
	"fmt"
	"os"

	hubapp "github.com/alexanderramin/programhub/internal/app"
	"github.com/alexanderramin/programhub/internal/cli/formatter"
	"github.com/alexanderramin/programhub/internal/export"
	"github.com/spf13/cobra"
)

func newBurndownCmd(app *App) *cobra.Command {
	var workstream, subcomponent, owner, xlsxPath string
	var output outputFormat

	cmd := &cobra.Command{
		Use:   "burndown PROGRAM",
		Short: "Show the monthly burndown for a program or one slice of it",
		Long: `Show the monthly burndown timeline.

Saved snapshots supply past months, the live hierarchy supplies the current
month, and later months are left blank. At most one of --workstream,
--subcomponent and --owner may be given.`,
		Example: `  programhub burndown NRN01
  programhub burndown NRN01 --workstream Platform
  programhub burndown NRN01 --subcomponent Platform/Ingest --xlsx ingest.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			req, err := burndownRequest(cmd, app, args[0], workstream, subcomponent, owner)
			if err != nil {
				return err
			}
			resp, err := app.Burndown.Burndown(ctx, req)
			if err != nil {
				return err
			}

			if xlsxPath != "" {
				if err := writeWorkbookFile(xlsxPath, resp); err != nil {
					return err
				}
				app.logger().Info("burndown workbook written", "path", xlsxPath, "periods", len(resp.Points))
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", xlsxPath)
				return nil
			}
			if output == outputJSON {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatBurndown(resp))
			return nil
		},
	}

	cmd.Flags().StringVar(&workstream, "workstream", "", "Limit to one workstream")
	cmd.Flags().StringVar(&subcomponent, "subcomponent", "", "Limit to one subcomponent (name, ID or Workstream/Subcomponent)")
	cmd.Flags().StringVar(&owner, "owner", "", "Limit to subcomponents owned by this person")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Write the series and a line chart to an Excel workbook")
	addOutputFlag(cmd.Flags(), &output)
	cmd.MarkFlagsMutuallyExclusive("workstream", "subcomponent", "owner")

	return cmd
}

// burndownRequest resolves the program and any slice selector to IDs.
func burndownRequest(cmd *cobra.Command, app *App, programRef, wsRef, scRef, owner string) (hubapp.BurndownRequest, error) {
	ctx := cmd.Context()
	req := hubapp.BurndownRequest{OwnerID: owner}
	if wsRef == "" && scRef == "" {
		p, err := app.Programs.Resolve(ctx, programRef)
		if err != nil {
			return req, err
		}
		req.ProgramID = p.ID
		return req, nil
	}

	p, err := loadProgramTree(ctx, app, programRef)
	if err != nil {
		return req, err
	}
	req.ProgramID = p.ID
	if wsRef != "" {
		ws, err := findWorkstream(p, wsRef)
		if err != nil {
			return req, err
		}
		req.WorkstreamID = ws.ID
	}
	if scRef != "" {
		sc, err := findSubcomponent(p, scRef)
		if err != nil {
			return req, err
		}
		req.SubcomponentID = sc.ID
	}
	return req, nil
}

func writeWorkbookFile(path string, resp *hubapp.BurndownResponse) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	return export.WriteBurndownWorkbook(f, resp)
}
