// Package plan selects and constrains multi-week workout templates: template
// selection by a fixed-order rule cascade, equipment-based exercise
// substitution, and trimming days to a per-session time budget. All
// operations are pure; persistence of the resulting DraftPlan belongs to the
// caller.
package plan

import (
	"log/slog"

	"github.com/jkarvonen/trainwell/internal/catalog"
	"github.com/jkarvonen/trainwell/internal/errors"
)

// ErrInvalidRequest is returned when a plan request fails validation.
var ErrInvalidRequest = errors.NewSentinel("invalid plan request")

// Generator turns a plan request into a DraftPlan using the immutable
// catalog and template library.
type Generator struct {
	catalog *catalog.Catalog
	library *Library
}

// NewGenerator constructs a plan generator.
func NewGenerator(cat *catalog.Catalog, lib *Library) *Generator {
	return &Generator{catalog: cat, library: lib}
}

// Propose composes template selection, exercise substitution, and per-day
// time capping into a DraftPlan. The plan id is left empty for the caller to
// assign.
func (g *Generator) Propose(req Request) (DraftPlan, error) {
	if err := validateRequest(req); err != nil {
		return DraftPlan{}, err
	}

	tmpl, err := g.library.SelectTemplate(req)
	if err != nil {
		return DraftPlan{}, errors.Wrap(err, "select template")
	}

	capMinutes := req.SessionMinutes
	if capMinutes == 0 {
		capMinutes = tmpl.DefaultSessionMinutes
	}

	days := SubstituteExercises(tmpl.Days, req.Equipment, g.catalog)
	for i, day := range days {
		days[i] = ApplyTimeCap(day, capMinutes, g.catalog)
	}

	return DraftPlan{
		TemplateID:        tmpl.ID,
		Name:              tmpl.Name,
		Phases:            append([]Phase(nil), tmpl.Phases...),
		TotalWeeks:        tmpl.TotalWeeks(),
		Days:              days,
		SessionCapMinutes: capMinutes,
	}, nil
}

// validateRequest rejects out-of-range inputs before any computation.
func validateRequest(req Request) error {
	if req.DaysPerWeek < 1 || req.DaysPerWeek > 7 {
		return errors.Wrap(ErrInvalidRequest, "days per week out of range",
			slog.Int("days_per_week", req.DaysPerWeek))
	}
	if req.SessionMinutes < 0 {
		return errors.Wrap(ErrInvalidRequest, "session minutes must be positive",
			slog.Int("session_minutes", req.SessionMinutes))
	}
	return nil
}
