package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/eventsite/internal/foundation/errors"
)

// Validate checks the configuration after defaults were applied.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Content.DataDir) == "" {
		problems = append(problems, "content.data_dir must not be empty")
	}
	if !strings.HasPrefix(c.Site.BasePath, "/") {
		problems = append(problems, fmt.Sprintf("site.base_path %q must start with /", c.Site.BasePath))
	}
	if strings.TrimSpace(c.Templates.Index) == "" {
		problems = append(problems, "templates.index must not be empty")
	}
	if strings.TrimSpace(c.Templates.Detail) == "" {
		problems = append(problems, "templates.detail must not be empty")
	}
	if strings.TrimSpace(c.Output.Directory) == "" {
		problems = append(problems, "output.directory must not be empty")
	} else if c.Output.Clean {
		cleaned := filepath.Clean(c.Output.Directory)
		if cleaned == "." || cleaned == string(filepath.Separator) {
			problems = append(problems, fmt.Sprintf("output.directory %q cannot be cleaned", c.Output.Directory))
		}
	}
	if c.Develop.Port < 0 || c.Develop.Port > 65535 {
		problems = append(problems, fmt.Sprintf("develop.port %d out of range", c.Develop.Port))
	}

	if len(problems) > 0 {
		return errors.ValidationError("invalid configuration: " + strings.Join(problems, "; ")).
			WithContext("problems", problems).
			Build()
	}
	return nil
}
