package plan

import (
	"errors"
	"testing"

	"github.com/jkarvonen/trainwell/internal/catalog"
)

func testGenerator(t *testing.T) *Generator {
	t.Helper()
	return NewGenerator(testCatalog(t), testLibrary(t))
}

func TestProposeFullGym(t *testing.T) {
	t.Parallel()

	gen := testGenerator(t)
	req := Request{
		UserID:         "user-1",
		Equipment:      catalog.NewEquipmentSet("barbell", "rack", "bench", "dumbbell", "pull_up_bar"),
		DaysPerWeek:    3,
		SessionMinutes: 45,
	}

	draft, err := gen.Propose(req)
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}

	if draft.TemplateID != TemplateFullBody {
		t.Errorf("TemplateID = %q, want %q", draft.TemplateID, TemplateFullBody)
	}
	if draft.ID != "" {
		t.Errorf("ID = %q, want empty for the caller to assign", draft.ID)
	}
	if draft.SessionCapMinutes != 45 {
		t.Errorf("SessionCapMinutes = %d, want 45", draft.SessionCapMinutes)
	}
	if draft.TotalWeeks == 0 {
		t.Error("TotalWeeks should come from the template phases")
	}
	if len(draft.Days) == 0 {
		t.Fatal("draft has no days")
	}
	for _, day := range draft.Days {
		if day.DurationMin == 0 {
			t.Errorf("day %q has no duration estimate", day.Title)
		}
		if day.DurationMin > 45 {
			t.Errorf("day %q duration %d exceeds the cap", day.Title, day.DurationMin)
		}
	}
}

func TestProposeDefaultsSessionCap(t *testing.T) {
	t.Parallel()

	gen := testGenerator(t)
	req := Request{
		UserID:      "user-1",
		Equipment:   catalog.NewEquipmentSet("barbell", "rack", "bench", "dumbbell"),
		DaysPerWeek: 3,
	}

	draft, err := gen.Propose(req)
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}

	lib := testLibrary(t)
	tmpl, _ := lib.Get(TemplateFullBody)
	if draft.SessionCapMinutes != tmpl.DefaultSessionMinutes {
		t.Errorf("SessionCapMinutes = %d, want template default %d",
			draft.SessionCapMinutes, tmpl.DefaultSessionMinutes)
	}
}

func TestProposeSubstitutesForEquipment(t *testing.T) {
	t.Parallel()

	gen := testGenerator(t)
	cat := testCatalog(t)
	req := Request{
		UserID:      "user-1",
		Equipment:   catalog.NewEquipmentSet("kettlebell"),
		DaysPerWeek: 3,
	}

	draft, err := gen.Propose(req)
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}

	// Every surviving exercise must be performable with the available
	// equipment.
	for _, day := range draft.Days {
		for _, block := range day.Blocks {
			for _, id := range block.ExerciseIDs {
				ex, ok := cat.Lookup(id)
				if !ok {
					t.Errorf("day %q references unknown exercise %q", day.Title, id)
					continue
				}
				if !req.Equipment.Covers(ex.EquipmentRequired) {
					t.Errorf("day %q kept %q which needs %v", day.Title, id, ex.EquipmentRequired)
				}
			}
		}
	}
}

func TestProposeValidation(t *testing.T) {
	t.Parallel()

	gen := testGenerator(t)
	tests := []struct {
		name string
		req  Request
	}{
		{
			name: "zero days per week",
			req:  Request{Equipment: catalog.NewEquipmentSet("barbell"), DaysPerWeek: 0},
		},
		{
			name: "eight days per week",
			req:  Request{Equipment: catalog.NewEquipmentSet("barbell"), DaysPerWeek: 8},
		},
		{
			name: "negative session minutes",
			req:  Request{Equipment: catalog.NewEquipmentSet("barbell"), DaysPerWeek: 3, SessionMinutes: -30},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := gen.Propose(tt.req)
			if !errors.Is(err, ErrInvalidRequest) {
				t.Errorf("err = %v, want ErrInvalidRequest", err)
			}
		})
	}
}
