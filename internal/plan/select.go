package plan

import (
	"fmt"
	"strings"

	"github.com/jkarvonen/trainwell/internal/catalog"
)

// selectionRule pairs a predicate with the template it selects. The cascade
// is evaluated in order and the first match wins; both the ordering and the
// tie-break are part of the contract.
type selectionRule struct {
	name       string
	templateID string
	matches    func(Request) bool
}

// selectionCascade returns the fixed-order template selection rules.
func selectionCascade() []selectionRule {
	return []selectionRule{
		{
			name:       "high frequency or push/pull/legs preference",
			templateID: TemplatePushPullLegs,
			matches: func(req Request) bool {
				return req.DaysPerWeek >= 5 || prefContainsAny(req.Preferences,
					"push/pull/legs", "push pull legs", "push-pull-legs", "ppl")
			},
		},
		{
			name:       "four days or upper/lower preference",
			templateID: TemplateUpperLower,
			matches: func(req Request) bool {
				return req.DaysPerWeek == 4 || prefContainsAny(req.Preferences,
					"upper/lower", "upper lower", "upper-lower")
			},
		},
		{
			name:       "kettlebell-only equipment",
			templateID: TemplateKettlebell,
			matches: func(req Request) bool {
				return req.Equipment.SubsetOf(catalog.NewEquipmentSet("kettlebell"))
			},
		},
		{
			name:       "hybrid or endurance preference",
			templateID: TemplateHybridEndurance,
			matches: func(req Request) bool {
				return prefContainsAny(req.Preferences, "hybrid", "endurance")
			},
		},
		{
			name:       "default",
			templateID: TemplateFullBody,
			matches:    func(Request) bool { return true },
		},
	}
}

// SelectTemplate applies the fixed-order rule cascade against the library.
func (l *Library) SelectTemplate(req Request) (Template, error) {
	for _, rule := range selectionCascade() {
		if !rule.matches(req) {
			continue
		}
		tmpl, ok := l.Get(rule.templateID)
		if !ok {
			return Template{}, fmt.Errorf("selection rule %q targets missing template %q",
				rule.name, rule.templateID)
		}
		return tmpl, nil
	}
	// The default rule always matches; reaching this is a programming error.
	return Template{}, fmt.Errorf("no selection rule matched")
}

// prefContainsAny reports whether the normalized preference text contains any
// of the markers.
func prefContainsAny(preferences string, markers ...string) bool {
	normalized := strings.ToLower(preferences)
	for _, marker := range markers {
		if strings.Contains(normalized, marker) {
			return true
		}
	}
	return false
}
