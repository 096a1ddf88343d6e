// Package cmd implements the grimoire CLI subcommands.
package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agentstation/grimoire"
	"github.com/agentstation/grimoire/internal/cmd/output"
	"github.com/agentstation/grimoire/pkg/catalogs"
)

// AppContext defines the interface commands need from the app. It keeps
// commands decoupled from the full app for testability.
type AppContext interface {
	Grimoire() (grimoire.Grimoire, error)
	Logger() *zerolog.Logger
	Format() string
}

// render writes data in the app's requested format, auto-detecting when
// none was given. The table function supplies the tabular projection of
// data and may be nil for detail views.
func render(app AppContext, w io.Writer, data any, table func() output.Data) error {
	format, err := output.ParseFormat(app.Format())
	if err != nil {
		return err
	}
	detected := output.DetectFormat(string(format))
	if detected == output.FormatTable && table != nil {
		return output.NewFormatter(detected).Format(w, table())
	}
	return output.NewFormatter(detected).Format(w, data)
}

// parseKinds resolves kind arguments, defaulting to every kind.
func parseKinds(args []string) ([]catalogs.Kind, error) {
	if len(args) == 0 {
		return catalogs.AllKinds(), nil
	}
	kinds := make([]catalogs.Kind, 0, len(args))
	for _, arg := range args {
		kind, err := catalogs.ParseKind(arg)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

// entryRows converts entries to table rows shared by list and search.
func entryRows(entries []*catalogs.Entry) output.Data {
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{
			entry.Name,
			entry.Kind.String(),
			string(entry.Scope),
			truncate(entry.Description, 60),
			entry.Path,
		})
	}
	return output.Data{
		Headers: []string{"NAME", "KIND", "SCOPE", "DESCRIPTION", "PATH"},
		Rows:    rows,
	}
}

func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// kindArgHint documents the kind argument in command help.
var kindArgHint = fmt.Sprintf("kind is one of: %s", strings.Join(kindNames(), ", "))

func kindNames() []string {
	kinds := catalogs.AllKinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return names
}
