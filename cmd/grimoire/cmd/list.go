package cmd

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/grimoire/internal/cmd/output"
	"github.com/agentstation/grimoire/pkg/catalogs"
)

// NewListCommand creates the list command with app dependencies.
func NewListCommand(app AppContext) *cobra.Command {
	var scopeFlag string

	cmd := &cobra.Command{
		Use:   "list [kind]",
		Short: "List cataloged elements",
		Long: `List displays cataloged elements of one kind, or of every kind when
no kind is given. ` + kindArgHint + `.`,
		Example: `  grimoire list                 # every element
  grimoire list agents          # agents only
  grimoire list skills -s local # local-scope skills`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds, err := parseKinds(args)
			if err != nil {
				return err
			}

			var scope *catalogs.Scope
			if scopeFlag != "" {
				parsed, err := catalogs.ParseScope(scopeFlag)
				if err != nil {
					return err
				}
				scope = &parsed
			}

			g, err := app.Grimoire()
			if err != nil {
				return err
			}

			var entries []*catalogs.Entry
			for _, kind := range kinds {
				kindEntries, err := g.List(cmd.Context(), kind)
				if err != nil {
					return err
				}
				for _, entry := range kindEntries {
					if scope != nil && entry.Scope != *scope {
						continue
					}
					entries = append(entries, entry)
				}
			}

			return render(app, cmd.OutOrStdout(), entries, func() output.Data {
				return entryRows(entries)
			})
		},
	}

	cmd.Flags().StringVarP(&scopeFlag, "scope", "s", "", "filter by scope: global, project, local")

	return cmd
}
