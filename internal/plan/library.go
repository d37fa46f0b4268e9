package plan

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed data/templates.yaml
var embeddedTemplates embed.FS

// Template ids known to the selection cascade.
const (
	TemplateFullBody        = "full_body"
	TemplateUpperLower      = "upper_lower"
	TemplatePushPullLegs    = "push_pull_legs"
	TemplateKettlebell      = "kettlebell"
	TemplateHybridEndurance = "hybrid_endurance"
)

// Library is the load-once set of workout templates. A loaded Library is
// immutable and safe for concurrent use.
type Library struct {
	templates map[string]Template
}

type templatesFile struct {
	Templates []Template `yaml:"templates"`
}

// LoadLibrary parses the embedded template data. Like the catalog, this is
// the single startup failure path for template data.
func LoadLibrary() (*Library, error) {
	data, err := embeddedTemplates.ReadFile("data/templates.yaml")
	if err != nil {
		return nil, fmt.Errorf("read embedded templates: %w", err)
	}

	var file templatesFile
	if err = yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	lib := &Library{templates: make(map[string]Template, len(file.Templates))}
	for _, tmpl := range file.Templates {
		if _, ok := lib.templates[tmpl.ID]; ok {
			return nil, fmt.Errorf("duplicate template id %q", tmpl.ID)
		}
		if len(tmpl.Days) == 0 {
			return nil, fmt.Errorf("template %q has no days", tmpl.ID)
		}
		if tmpl.TotalWeeks() == 0 {
			return nil, fmt.Errorf("template %q has no phases", tmpl.ID)
		}
		lib.templates[tmpl.ID] = tmpl
	}

	// Every template the cascade can pick must exist.
	for _, id := range []string{
		TemplateFullBody,
		TemplateUpperLower,
		TemplatePushPullLegs,
		TemplateKettlebell,
		TemplateHybridEndurance,
	} {
		if _, ok := lib.templates[id]; !ok {
			return nil, fmt.Errorf("selection cascade target %q missing from library", id)
		}
	}

	return lib, nil
}

// Get returns the template with the given id.
func (l *Library) Get(id string) (Template, bool) {
	tmpl, ok := l.templates[id]
	return tmpl, ok
}

// Len returns the number of templates.
func (l *Library) Len() int {
	return len(l.templates)
}
