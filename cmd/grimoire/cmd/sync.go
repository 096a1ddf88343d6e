package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/agentstation/grimoire"
	"github.com/agentstation/grimoire/internal/cmd/output"
	"github.com/agentstation/grimoire/pkg/constants"
)

// NewSyncCommand creates the sync command with app dependencies.
func NewSyncCommand(app AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync [kind...]",
		Short: "Rescan element directories and update the catalogs",
		Long: `Sync walks the configured element directories, reconciles what it finds
against the stored catalogs, and rewrites each changed manifest
atomically. Unchanged entries keep their timestamps, so syncing an
unchanged tree is a no-op. ` + kindArgHint + `.`,
		Example: `  grimoire sync            # all kinds
  grimoire sync agents     # agents only
  grimoire sync --strict   # fail on the first invalid file`,
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds, err := parseKinds(args)
			if err != nil {
				return err
			}

			g, err := app.Grimoire()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), constants.DefaultSyncTimeout)
			defer cancel()

			results, syncErr := g.Sync(ctx, kinds...)

			for _, result := range results {
				app.Logger().Info().Msg(result.Report.Summary())
			}

			// Kinds that synced are still reported when others failed.
			if len(results) > 0 {
				if err := render(app, cmd.OutOrStdout(), results, func() output.Data {
					return syncRows(results)
				}); err != nil {
					return err
				}
			}
			return syncErr
		},
	}

	return cmd
}

func syncRows(results []*grimoire.SyncResult) output.Data {
	rows := make([][]string, 0, len(results))
	for _, result := range results {
		report := result.Report
		rows = append(rows, []string{
			report.Kind.Plural(),
			strconv.Itoa(len(report.Added)),
			strconv.Itoa(len(report.Updated)),
			strconv.Itoa(len(report.Removed)),
			strconv.Itoa(len(report.Unchanged)),
			strconv.Itoa(len(result.Skipped)),
			fmt.Sprintf("%dms", report.Duration.Milliseconds()),
		})
	}
	return output.Data{
		Headers: []string{"KIND", "ADDED", "UPDATED", "REMOVED", "UNCHANGED", "SKIPPED", "DURATION"},
		Rows:    rows,
	}
}
