package cmd

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/grimoire"
	"github.com/agentstation/grimoire/internal/cmd/output"
)

// NewDoctorCommand creates the doctor command with app dependencies.
func NewDoctorCommand(app AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor [kind...]",
		Short: "Report element files that would be skipped and why",
		Long: `Doctor scans the configured element directories without writing
anything and reports every file that sync would skip, with the reason.
` + kindArgHint + `.`,
		Example: `  grimoire doctor
  grimoire doctor skills`,
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds, err := parseKinds(args)
			if err != nil {
				return err
			}

			g, err := app.Grimoire()
			if err != nil {
				return err
			}

			diagnoses, doctorErr := g.Doctor(cmd.Context(), kinds...)

			// Kinds that scanned are still reported when others failed.
			if len(diagnoses) > 0 {
				if err := render(app, cmd.OutOrStdout(), diagnoses, func() output.Data {
					return doctorRows(diagnoses)
				}); err != nil {
					return err
				}
			}
			return doctorErr
		},
	}

	return cmd
}

func doctorRows(diagnoses []*grimoire.Diagnosis) output.Data {
	var rows [][]string
	for _, d := range diagnoses {
		if len(d.Skipped) == 0 {
			rows = append(rows, []string{d.Kind.Plural(), "", "ok"})
			continue
		}
		for _, skip := range d.Skipped {
			rows = append(rows, []string{d.Kind.Plural(), skip.Path, skip.Reason})
		}
	}
	return output.Data{
		Headers: []string{"KIND", "PATH", "PROBLEM"},
		Rows:    rows,
	}
}
