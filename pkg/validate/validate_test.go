package validate

import (
	"strings"
	"testing"

	"github.com/agentstation/grimoire/pkg/catalogs"
	"github.com/agentstation/grimoire/pkg/constants"
	"github.com/agentstation/grimoire/pkg/errors"
	"github.com/agentstation/grimoire/pkg/extract"
)

func TestValidateName(t *testing.T) {
	rules := NewRules()

	tests := []struct {
		name    string
		meta    *extract.Metadata
		wantErr bool
	}{
		{"valid slug", &extract.Metadata{Name: "code-reviewer"}, false},
		{"valid with digits", &extract.Metadata{Name: "review-v2"}, false},
		{"empty name", &extract.Metadata{Name: ""}, true},
		{"uppercase", &extract.Metadata{Name: "CodeReviewer"}, true},
		{"spaces", &extract.Metadata{Name: "code reviewer"}, true},
		{"too long", &extract.Metadata{Name: strings.Repeat("a", constants.MaxNameLength+1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rules.Validate(catalogs.KindAgent, tt.meta)
			if tt.wantErr && err == nil {
				t.Error("expected validation to fail")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateDescriptionLength(t *testing.T) {
	rules := NewRules()
	meta := &extract.Metadata{
		Name:        "verbose",
		Description: strings.Repeat("x", constants.MaxDescriptionLength+1),
	}
	if err := rules.Validate(catalogs.KindSkill, meta); err == nil {
		t.Error("expected oversized description to fail")
	}
}

func TestValidateCommand(t *testing.T) {
	rules := NewRules()

	t.Run("duplicate aliases", func(t *testing.T) {
		meta := &extract.Metadata{Name: "deploy", Aliases: []string{"ship", "ship"}}
		err := rules.Validate(catalogs.KindCommand, meta)
		if !errors.IsValidationError(err) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("invalid alias", func(t *testing.T) {
		meta := &extract.Metadata{Name: "deploy", Aliases: []string{"Not A Slug"}}
		if err := rules.Validate(catalogs.KindCommand, meta); err == nil {
			t.Error("expected invalid alias to fail")
		}
	})

	t.Run("empty tag", func(t *testing.T) {
		meta := &extract.Metadata{Name: "deploy", Tags: []string{""}}
		if err := rules.Validate(catalogs.KindCommand, meta); err == nil {
			t.Error("expected empty tag to fail")
		}
	})

	t.Run("valid command", func(t *testing.T) {
		meta := &extract.Metadata{
			Name:    "deploy",
			Aliases: []string{"ship"},
			Tags:    []string{"ci"},
		}
		if err := rules.Validate(catalogs.KindCommand, meta); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestValidateAggregatesIssues(t *testing.T) {
	rules := NewRules()
	meta := &extract.Metadata{
		Name:        "Bad Name",
		Description: strings.Repeat("x", constants.MaxDescriptionLength+1),
	}

	err := rules.Validate(catalogs.KindSkill, meta)
	if err == nil {
		t.Fatal("expected validation to fail")
	}

	var issues *errors.ValidationErrors
	if !errors.As(err, &issues) {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	if len(issues.Issues) < 2 {
		t.Errorf("expected both issues reported, got %d", len(issues.Issues))
	}
}
