package plan

import (
	"github.com/jkarvonen/trainwell/internal/catalog"
)

// SubstituteExercises replaces exercises the user cannot perform with the
// best available alternative for the same movement pattern.
//
// Rules, per exercise:
//   - catalog miss: pass through unchanged (non-fatal),
//   - required equipment available: keep unchanged,
//   - otherwise the first substitution option with available equipment wins,
//   - with no qualifying option, accessories are dropped and anything else is
//     kept unchanged as a best-effort fallback.
//
// The operation is idempotent: substituted days resolve to exercises whose
// equipment is available, so a second pass keeps them unchanged.
func SubstituteExercises(days []Day, available catalog.EquipmentSet, cat *catalog.Catalog) []Day {
	out := make([]Day, len(days))
	for i, day := range days {
		out[i] = substituteDay(day, available, cat)
	}
	return out
}

func substituteDay(day Day, available catalog.EquipmentSet, cat *catalog.Catalog) Day {
	out := Day{Title: day.Title, Blocks: make([]Block, 0, len(day.Blocks))}
	for _, block := range day.Blocks {
		substituted := block.clone()
		substituted.ExerciseIDs = substituted.ExerciseIDs[:0]

		for _, id := range block.ExerciseIDs {
			replacement, keep := substituteExercise(id, available, cat)
			if keep {
				substituted.ExerciseIDs = append(substituted.ExerciseIDs, replacement)
			}
		}

		// A block whose every exercise was dropped carries no prescription.
		if len(substituted.ExerciseIDs) > 0 {
			out.Blocks = append(out.Blocks, substituted)
		}
	}
	return out
}

// substituteExercise resolves a single exercise reference. The boolean is
// false when the exercise should be dropped.
func substituteExercise(id string, available catalog.EquipmentSet, cat *catalog.Catalog) (string, bool) {
	ex, ok := cat.Lookup(id)
	if !ok {
		// Catalog miss: tolerated pass-through.
		return id, true
	}

	if available.Covers(ex.EquipmentRequired) {
		return id, true
	}

	if alt, found := cat.FirstAvailableAlternative(ex.MovementPattern, available); found {
		return alt.ID, true
	}

	if ex.IsAccessory {
		return "", false
	}
	// Best-effort fallback: keep main work even without a substitute.
	return id, true
}
