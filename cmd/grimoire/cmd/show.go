package cmd

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/grimoire/internal/cmd/output"
	"github.com/agentstation/grimoire/pkg/catalogs"
)

// NewShowCommand creates the show command with app dependencies.
func NewShowCommand(app AppContext) *cobra.Command {
	var scopeFlag string

	cmd := &cobra.Command{
		Use:   "show <kind> <name>",
		Short: "Show one cataloged element",
		Long: `Show resolves an element by name. Without --scope the highest priority
scope wins: local shadows project, project shadows global. With --scope
only that scope is consulted; there is no fallback. ` + kindArgHint + `.`,
		Example: `  grimoire show agent code-reviewer
  grimoire show skill deploy --scope global`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := catalogs.ParseKind(args[0])
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

			entry, err := g.Show(cmd.Context(), kind, args[1], scope)
			if err != nil {
				return err
			}

			return render(app, cmd.OutOrStdout(), entry, func() output.Data {
				return detailRows(entry)
			})
		},
	}

	cmd.Flags().StringVarP(&scopeFlag, "scope", "s", "", "resolve in this scope only: global, project, local")

	return cmd
}

// detailRows renders one entry as a field/value table.
func detailRows(entry *catalogs.Entry) output.Data {
	rows := [][]string{
		{"ID", entry.ID},
		{"Name", entry.Name},
		{"Kind", entry.Kind.String()},
		{"Scope", string(entry.Scope)},
		{"Description", entry.Description},
		{"Path", entry.Path},
		{"Size", strconv.FormatInt(entry.FileSize, 10)},
		{"Modified", entry.FileModTime.String()},
		{"Created", entry.CreatedAt.String()},
		{"Updated", entry.UpdatedAt.String()},
	}

	switch {
	case entry.Agent != nil:
		rows = append(rows,
			[]string{"Model", entry.Agent.Model},
			[]string{"Tools", strings.Join(entry.Agent.Tools, ", ")},
			[]string{"Color", entry.Agent.Color},
		)
	case entry.Skill != nil:
		rows = append(rows,
			[]string{"Template", entry.Skill.Template},
			[]string{"Scripts", strconv.FormatBool(entry.Skill.HasScripts)},
			[]string{"Files", strconv.Itoa(entry.Skill.FileCount)},
		)
	case entry.Command != nil:
		rows = append(rows,
			[]string{"Aliases", strings.Join(entry.Command.Aliases, ", ")},
			[]string{"Requires", strings.Join(entry.Command.RequiresTools, ", ")},
			[]string{"Tags", strings.Join(entry.Command.Tags, ", ")},
		)
	}

	return output.Data{Headers: []string{"FIELD", "VALUE"}, Rows: rows}
}
