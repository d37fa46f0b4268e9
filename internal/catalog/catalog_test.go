package catalog_test

import (
	"testing"

	"github.com/jkarvonen/trainwell/internal/catalog"
)

func TestLoad(t *testing.T) {
	c, err := catalog.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if c.Len() == 0 {
		t.Fatal("expected a non-empty catalog")
	}

	ex, ok := c.Lookup("back_squat")
	if !ok {
		t.Fatal("expected back_squat in catalog")
	}
	if ex.MovementPattern != catalog.PatternSquat {
		t.Errorf("back_squat pattern = %q, want %q", ex.MovementPattern, catalog.PatternSquat)
	}
	if !ex.IsMainLift {
		t.Error("back_squat should be a main lift")
	}

	if _, ok = c.Lookup("underwater_basket_weaving"); ok {
		t.Error("unexpected hit for unknown exercise id")
	}
}

func TestSubstitutionRanking(t *testing.T) {
	c, err := catalog.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	tests := []struct {
		name      string
		pattern   catalog.MovementPattern
		available catalog.EquipmentSet
		wantID    string
		wantOK    bool
	}{
		{
			name:      "first ranked option wins when available",
			pattern:   catalog.PatternSquat,
			available: catalog.NewEquipmentSet("dumbbell", "kettlebell"),
			wantID:    "goblet_squat",
			wantOK:    true,
		},
		{
			name:      "falls through to later option",
			pattern:   catalog.PatternSquat,
			available: catalog.NewEquipmentSet("kettlebell"),
			wantID:    "kettlebell_goblet_squat",
			wantOK:    true,
		},
		{
			name:      "bodyweight fallback always matches",
			pattern:   catalog.PatternSquat,
			available: catalog.NewEquipmentSet(),
			wantID:    "bodyweight_squat",
			wantOK:    true,
		},
		{
			name:      "no qualifying alternative",
			pattern:   catalog.PatternCarry,
			available: catalog.NewEquipmentSet("barbell"),
			wantOK:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.FirstAvailableAlternative(tt.pattern, tt.available)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got.ID != tt.wantID {
				t.Errorf("alternative = %q, want %q", got.ID, tt.wantID)
			}
		})
	}
}

func TestEquipmentSet(t *testing.T) {
	home := catalog.NewEquipmentSet("dumbbell", "bench")

	if !home.Covers([]string{"dumbbell"}) {
		t.Error("expected dumbbell to be covered")
	}
	if !home.Covers(nil) {
		t.Error("empty requirement should always be covered")
	}
	if home.Covers([]string{"barbell", "rack"}) {
		t.Error("barbell+rack should not be covered")
	}

	kb := catalog.NewEquipmentSet("kettlebell")
	if !kb.SubsetOf(catalog.NewEquipmentSet("kettlebell", "dumbbell")) {
		t.Error("kettlebell should be subset of kettlebell+dumbbell")
	}
	if kb.SubsetOf(catalog.NewEquipmentSet("dumbbell")) {
		t.Error("kettlebell should not be subset of dumbbell only")
	}
}
