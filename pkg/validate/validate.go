// Package validate checks extracted element metadata before it is
// admitted into a catalog.
package validate

import (
	"fmt"

	"github.com/gosimple/slug"

	"github.com/agentstation/grimoire/pkg/catalogs"
	"github.com/agentstation/grimoire/pkg/constants"
	"github.com/agentstation/grimoire/pkg/errors"
	"github.com/agentstation/grimoire/pkg/extract"
)

// Validator reports whether extracted metadata is admissible for a kind.
// A failed check returns a *errors.ValidationErrors describing every issue.
type Validator interface {
	Validate(kind catalogs.Kind, meta *extract.Metadata) error
}

// Rules is the default Validator.
type Rules struct{}

// NewRules creates the default validator.
func NewRules() *Rules {
	return &Rules{}
}

// Validate implements Validator.
func (r *Rules) Validate(kind catalogs.Kind, meta *extract.Metadata) error {
	issues := &errors.ValidationErrors{}

	if meta.Name == "" {
		issues.Add(errors.NewValidationError("name", meta.Name, "name is required"))
	} else {
		if len(meta.Name) > constants.MaxNameLength {
			issues.Add(errors.NewValidationError("name", meta.Name,
				fmt.Sprintf("name exceeds %d characters", constants.MaxNameLength)))
		}
		if !slug.IsSlug(meta.Name) {
			issues.Add(errors.NewValidationError("name", meta.Name,
				"name must be a lowercase slug (letters, digits, hyphens)"))
		}
	}

	if len(meta.Description) > constants.MaxDescriptionLength {
		issues.Add(errors.NewValidationError("description", nil,
			fmt.Sprintf("description exceeds %d characters", constants.MaxDescriptionLength)))
	}

	switch kind {
	case catalogs.KindAgent:
		r.validateAgent(meta, issues)
	case catalogs.KindCommand:
		r.validateCommand(meta, issues)
	case catalogs.KindSkill:
		// Skills carry no required fields beyond the common set.
	}

	if issues.HasErrors() {
		return issues
	}
	return nil
}

func (r *Rules) validateAgent(meta *extract.Metadata, issues *errors.ValidationErrors) {
	for i, tool := range meta.Tools {
		if tool == "" {
			issues.Add(errors.NewValidationError(
				fmt.Sprintf("tools[%d]", i), tool, "tool name must not be empty"))
		}
	}
}

func (r *Rules) validateCommand(meta *extract.Metadata, issues *errors.ValidationErrors) {
	seen := make(map[string]bool, len(meta.Aliases))
	for i, alias := range meta.Aliases {
		if alias == "" {
			issues.Add(errors.NewValidationError(
				fmt.Sprintf("aliases[%d]", i), alias, "alias must not be empty"))
			continue
		}
		if !slug.IsSlug(alias) {
			issues.Add(errors.NewValidationError(
				fmt.Sprintf("aliases[%d]", i), alias, "alias must be a lowercase slug"))
		}
		if seen[alias] {
			issues.Add(errors.NewValidationError(
				fmt.Sprintf("aliases[%d]", i), alias, "duplicate alias"))
		}
		seen[alias] = true
	}
	for i, tag := range meta.Tags {
		if tag == "" {
			issues.Add(errors.NewValidationError(
				fmt.Sprintf("tags[%d]", i), tag, "tag must not be empty"))
		}
	}
}
