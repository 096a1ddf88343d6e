package extract

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/grimoire/pkg/errors"
)

// delimiter opens and closes a front matter block.
const delimiter = "---"

// FrontMatter is the default Extractor. It parses the YAML front matter
// block at the top of a markdown element file.
type FrontMatter struct{}

// NewFrontMatter creates the default front matter extractor.
func NewFrontMatter() *FrontMatter {
	return &FrontMatter{}
}

// frontMatter is the YAML shape of an element's front matter block.
type frontMatter struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`

	Model string   `yaml:"model"`
	Tools []string `yaml:"tools"`
	Color string   `yaml:"color"`

	Template string `yaml:"template"`

	Aliases       []string `yaml:"aliases"`
	RequiresTools []string `yaml:"requires_tools"`
	Tags          []string `yaml:"tags"`
}

// Extract implements Extractor.
func (f *FrontMatter) Extract(path string) (*Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	block, err := frontMatterBlock(path, string(data))
	if err != nil {
		return nil, err
	}

	var fm frontMatter
	if err := yaml.Unmarshal([]byte(block), &fm); err != nil {
		return nil, errors.WrapParse("frontmatter", path, err)
	}

	meta := &Metadata{
		Name:          strings.TrimSpace(fm.Name),
		Description:   strings.TrimSpace(fm.Description),
		Model:         fm.Model,
		Tools:         fm.Tools,
		Color:         fm.Color,
		Template:      fm.Template,
		Aliases:       fm.Aliases,
		RequiresTools: fm.RequiresTools,
		Tags:          fm.Tags,
	}

	// A file may omit the name field; the filename stem (or the skill
	// directory name) is the declared slug in that case.
	if meta.Name == "" {
		meta.Name = fallbackName(path)
	}

	return meta, nil
}

// frontMatterBlock isolates the YAML between the opening and closing
// delimiters. A file without a front matter block is malformed.
func frontMatterBlock(path, content string) (string, error) {
	if !strings.HasPrefix(content, delimiter) {
		return "", errors.NewParseError("frontmatter", path, "missing front matter block", nil)
	}

	rest := strings.TrimPrefix(content[len(delimiter):], "\n")
	idx := strings.Index(rest, "\n"+delimiter)
	if idx == -1 {
		return "", errors.NewParseError("frontmatter", path, "unterminated front matter block", nil)
	}
	return rest[:idx], nil
}

// fallbackName derives an element name from its source path.
func fallbackName(path string) string {
	base := filepath.Base(path)
	if strings.EqualFold(base, "SKILL.md") {
		// Skills are named after their directory.
		return filepath.Base(filepath.Dir(path))
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
