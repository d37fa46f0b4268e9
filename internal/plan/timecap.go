package plan

import (
	"strings"

	"github.com/jkarvonen/trainwell/internal/catalog"
)

// Duration estimation constants.
const (
	// Per-set work estimates in seconds. Timed and AMRAP sets run longer
	// than counted-rep sets.
	standardSetWorkSeconds = 45
	extendedSetWorkSeconds = 60

	// MinSessionMinutes is the floor for any duration estimate.
	MinSessionMinutes = 30

	// Rest reduction parameters for time-cap trimming.
	restReductionStepSeconds = 15
	minRestSeconds           = 45
)

// EstimateDurationMinutes estimates how long a day takes: per block,
// sets x (work + rest), summed and floored to whole minutes, with a floor of
// MinSessionMinutes.
func EstimateDurationMinutes(day Day) int {
	totalSeconds := 0
	for _, block := range day.Blocks {
		totalSeconds += block.Sets * (perSetWorkSeconds(block.Reps) + block.RestSeconds)
	}
	minutes := totalSeconds / 60
	if minutes < MinSessionMinutes {
		return MinSessionMinutes
	}
	return minutes
}

// perSetWorkSeconds estimates the working time of one set from the rep
// prescription. AMRAP sets and minute-denominated sets get the extended
// estimate.
func perSetWorkSeconds(reps string) int {
	normalized := strings.ToLower(reps)
	if strings.Contains(normalized, "amrap") || strings.Contains(normalized, "min") {
		return extendedSetWorkSeconds
	}
	return standardSetWorkSeconds
}

// ApplyTimeCap trims a day to fit the cap, in strict order:
//
//  1. remove trailing accessory blocks one at a time,
//  2. reduce set counts by one, accessory blocks first, then any block
//     without a main lift, never below one set,
//  3. reduce rest in 15 s steps down to a 45 s floor on any block.
//
// Each step recomputes the estimate and stops as soon as the day fits.
// The returned day carries DurationMin = min(cap, final estimate).
// Applying the cap twice with the same budget yields an identical result.
func ApplyTimeCap(day Day, capMinutes int, cat *catalog.Catalog) Day {
	out := day.Clone()

	estimate := EstimateDurationMinutes(out)
	if estimate <= capMinutes {
		out.DurationMin = estimate
		return out
	}

	estimate = trimTrailingAccessories(&out, capMinutes)
	if estimate > capMinutes {
		estimate = reduceSetCounts(&out, capMinutes, cat)
	}
	if estimate > capMinutes {
		estimate = reduceRestTimes(&out, capMinutes)
	}

	out.DurationMin = min(capMinutes, estimate)
	return out
}

// trimTrailingAccessories removes accessory blocks from the end of the day
// until the estimate fits or a non-accessory block is reached.
func trimTrailingAccessories(day *Day, capMinutes int) int {
	estimate := EstimateDurationMinutes(*day)
	for estimate > capMinutes && len(day.Blocks) > 0 {
		last := len(day.Blocks) - 1
		if day.Blocks[last].Role != RoleAccessory {
			break
		}
		day.Blocks = day.Blocks[:last]
		estimate = EstimateDurationMinutes(*day)
	}
	return estimate
}

// reduceSetCounts repeatedly walks the blocks reducing set counts by one,
// accessory blocks first and then any block without a main lift, until the
// day fits or a full pass changes nothing.
func reduceSetCounts(day *Day, capMinutes int, cat *catalog.Catalog) int {
	estimate := EstimateDurationMinutes(*day)
	for estimate > capMinutes {
		changed := false

		for _, accessoryOnly := range []bool{true, false} {
			for i := range day.Blocks {
				block := &day.Blocks[i]
				if block.Sets <= 1 {
					continue
				}
				if accessoryOnly && block.Role != RoleAccessory {
					continue
				}
				if !accessoryOnly && isMainLiftBlock(*block, cat) {
					continue
				}

				block.Sets--
				changed = true
				estimate = EstimateDurationMinutes(*day)
				if estimate <= capMinutes {
					return estimate
				}
			}
		}

		if !changed {
			break
		}
	}
	return estimate
}

// reduceRestTimes shaves rest in fixed steps on any block down to the floor
// until the day fits or nothing can be reduced further.
func reduceRestTimes(day *Day, capMinutes int) int {
	estimate := EstimateDurationMinutes(*day)
	for estimate > capMinutes {
		changed := false
		for i := range day.Blocks {
			block := &day.Blocks[i]
			if block.RestSeconds <= minRestSeconds {
				continue
			}

			block.RestSeconds -= restReductionStepSeconds
			if block.RestSeconds < minRestSeconds {
				block.RestSeconds = minRestSeconds
			}
			changed = true
			estimate = EstimateDurationMinutes(*day)
			if estimate <= capMinutes {
				return estimate
			}
		}
		if !changed {
			break
		}
	}
	return estimate
}

// isMainLiftBlock reports whether any exercise in the block is a catalog
// main lift. Set reduction never touches these blocks.
func isMainLiftBlock(block Block, cat *catalog.Catalog) bool {
	for _, id := range block.ExerciseIDs {
		if ex, ok := cat.Lookup(id); ok && ex.IsMainLift {
			return true
		}
	}
	return false
}
