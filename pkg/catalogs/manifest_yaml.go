package catalogs

import (
	"fmt"

	"github.com/goccy/go-yaml"
)

// formatManifestYAML renders a manifest with a header comment and stable
// key ordering so on-disk diffs stay human-reviewable.
func formatManifestYAML(doc *manifest) ([]byte, error) {
	commentMap := yaml.CommentMap{
		"$": {
			yaml.HeadComment(
				fmt.Sprintf(" Grimoire %s catalog manifest.", doc.Kind),
				" Managed by `grimoire sync`; manual edits are overwritten.",
			),
		},
	}

	data, err := yaml.MarshalWithOptions(doc,
		yaml.Indent(2),
		yaml.IndentSequence(false),
		yaml.UseLiteralStyleIfMultiline(true),
		yaml.WithComment(commentMap),
	)
	if err != nil {
		// Fall back to a plain marshal if comment marshaling fails.
		return yaml.Marshal(doc)
	}
	return data, nil
}
