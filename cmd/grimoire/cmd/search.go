package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/agentstation/grimoire/internal/cmd/output"
	"github.com/agentstation/grimoire/pkg/catalogs"
	"github.com/agentstation/grimoire/pkg/search"
)

// NewSearchCommand creates the search command with app dependencies.
func NewSearchCommand(app AppContext) *cobra.Command {
	var (
		kindFlags    []string
		scopeFlags   []string
		tagFlag      string
		toolFlag     string
		scriptsFlag  bool
		limitFlag    int
		scriptsIsSet bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search cataloged elements by relevance",
		Long: `Search ranks cataloged elements against a query. Name matches outrank
tag and alias matches, which outrank description matches. Results are
ordered by score, then name, then scope.`,
		Example: `  grimoire search deploy
  grimoire search test --kind command --tag ci
  grimoire search review --scope project --limit 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scriptsIsSet = cmd.Flags().Changed("has-scripts")

			filters, err := buildFilters(kindFlags, scopeFlags, tagFlag, toolFlag, scriptsFlag, scriptsIsSet)
			if err != nil {
				return err
			}

			g, err := app.Grimoire()
			if err != nil {
				return err
			}

			results, err := g.Search(cmd.Context(), search.Query{
				Text:    args[0],
				Filters: filters,
				Limit:   limitFlag,
			})
			if err != nil {
				return err
			}

			return render(app, cmd.OutOrStdout(), results, func() output.Data {
				return resultRows(results)
			})
		},
	}

	cmd.Flags().StringSliceVarP(&kindFlags, "kind", "k", nil, "filter by kind (repeatable)")
	cmd.Flags().StringSliceVarP(&scopeFlags, "scope", "s", nil, "filter by scope (repeatable)")
	cmd.Flags().StringVarP(&tagFlag, "tag", "t", "", "require an exact tag")
	cmd.Flags().StringVar(&toolFlag, "requires-tool", "", "require a command that needs this tool")
	cmd.Flags().BoolVar(&scriptsFlag, "has-scripts", false, "require skills with (or without) bundled scripts")
	cmd.Flags().IntVarP(&limitFlag, "limit", "n", 0, "maximum number of results (0 for all)")

	return cmd
}

func buildFilters(kindFlags, scopeFlags []string, tag, tool string, hasScripts, scriptsSet bool) (search.Filters, error) {
	filters := search.Filters{Tag: tag, RequiresTool: tool}

	for _, k := range kindFlags {
		kind, err := catalogs.ParseKind(k)
		if err != nil {
			return search.Filters{}, err
		}
		filters.Kinds = append(filters.Kinds, kind)
	}
	for _, s := range scopeFlags {
		scope, err := catalogs.ParseScope(s)
		if err != nil {
			return search.Filters{}, err
		}
		filters.Scopes = append(filters.Scopes, scope)
	}
	if scriptsSet {
		filters.HasScripts = &hasScripts
	}
	return filters, nil
}

func resultRows(results []search.Result) output.Data {
	rows := make([][]string, 0, len(results))
	for _, result := range results {
		rows = append(rows, []string{
			strconv.Itoa(result.Score),
			result.Entry.Name,
			result.Entry.Kind.String(),
			string(result.Entry.Scope),
			truncate(result.Entry.Description, 50),
		})
	}
	return output.Data{
		Headers: []string{"SCORE", "NAME", "KIND", "SCOPE", "DESCRIPTION"},
		Rows:    rows,
	}
}
