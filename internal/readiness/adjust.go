package readiness

import (
	"fmt"
	"math"

	"github.com/jkarvonen/trainwell/internal/catalog"
	"github.com/jkarvonen/trainwell/internal/plan"
)

// Adjustment mutation constants.
const (
	reduceSetFactor = 0.75
	reduceRPECap    = 8.0

	recoverySessionMinutes = 30
	recoveryTitlePrefix    = "Recovery • "
)

// Change is one entry in an adjustment's change log.
type Change struct {
	Action  string `json:"action"`
	Details string `json:"details"`
}

// Change log actions.
const (
	ActionSuggestExtra = "suggest_extra_accessory"
	ActionReduceSets   = "reduce_sets"
	ActionCapRPE       = "cap_rpe"
	ActionTimeCap      = "time_cap"
	ActionSwapSession  = "swap_session"
)

// Adjustment is the outcome of applying a recommendation tier to a session:
// the (possibly rewritten) session, the ordered change log, and a short
// human-readable reasoning line. A nil Session means there was nothing
// scheduled to adjust.
type Adjustment struct {
	Session   *plan.Session `json:"session,omitempty"`
	Changes   []Change      `json:"changes,omitempty"`
	Reasoning string        `json:"reasoning"`
}

// Adjuster rewrites scheduled sessions according to a recommendation tier.
type Adjuster struct {
	catalog *catalog.Catalog
}

// NewAdjuster constructs an adjuster over the exercise catalog.
func NewAdjuster(cat *catalog.Catalog) *Adjuster {
	return &Adjuster{catalog: cat}
}

// Apply maps a tier to session mutations. The input session is never
// mutated; keep returns a clone with an optional-extra suggestion, reduce
// trims volume and effort, and swap replaces the session with a fixed
// recovery session. With no session scheduled the adjustment carries only
// reasoning.
func (a *Adjuster) Apply(tier Tier, session *plan.Session, minutesAvailable int) Adjustment {
	if session == nil {
		return Adjustment{Reasoning: "no session scheduled today; nothing to adjust"}
	}

	switch tier {
	case TierKeep:
		return a.keep(session)
	case TierReduce:
		return a.reduce(session, minutesAvailable)
	default:
		return a.swap(session)
	}
}

// keep leaves the session intact and suggests optional extra work.
func (a *Adjuster) keep(session *plan.Session) Adjustment {
	out := session.Clone()
	return Adjustment{
		Session: &out,
		Changes: []Change{{
			Action:  ActionSuggestExtra,
			Details: "readiness is high; add one optional accessory exercise if time allows",
		}},
		Reasoning: "high readiness: session kept as planned",
	}
}

// reduce trims accessory volume by a quarter, caps effort at RPE 8, and
// re-fits the session when less time is available than planned.
func (a *Adjuster) reduce(session *plan.Session, minutesAvailable int) Adjustment {
	out := session.Clone()
	var changes []Change

	for i := range out.Blocks {
		block := &out.Blocks[i]
		if a.reducibleVolume(*block) && block.Sets > 1 {
			reduced := int(math.Floor(float64(block.Sets) * reduceSetFactor))
			if reduced < 1 {
				reduced = 1
			}
			if reduced != block.Sets {
				changes = append(changes, Change{
					Action:  ActionReduceSets,
					Details: fmt.Sprintf("%s: %d sets to %d", blockLabel(*block), block.Sets, reduced),
				})
				block.Sets = reduced
			}
		}

		if block.RPE != nil && block.RPE.High > reduceRPECap {
			changes = append(changes, Change{
				Action:  ActionCapRPE,
				Details: fmt.Sprintf("%s: rpe %s capped at %s", blockLabel(*block), block.RPE, plan.RPE{Low: math.Min(block.RPE.Low, reduceRPECap), High: reduceRPECap}),
			})
			block.RPE.High = reduceRPECap
			block.RPE.Low = math.Min(block.RPE.Low, reduceRPECap)
		}
	}

	if minutesAvailable > 0 && minutesAvailable < out.DurationMin {
		day := plan.ApplyTimeCap(plan.Day{Title: out.Title, Blocks: out.Blocks}, minutesAvailable, a.catalog)
		changes = append(changes, Change{
			Action:  ActionTimeCap,
			Details: fmt.Sprintf("session re-fit from %d to %d minutes", out.DurationMin, day.DurationMin),
		})
		out.Blocks = day.Blocks
		out.DurationMin = day.DurationMin
	}

	return Adjustment{
		Session:   &out,
		Changes:   changes,
		Reasoning: "moderate readiness: volume and effort trimmed, main work preserved",
	}
}

// swap replaces the session with a fixed low-intensity recovery session.
func (a *Adjuster) swap(session *plan.Session) Adjustment {
	out := recoverySession(session.Title)
	return Adjustment{
		Session: &out,
		Changes: []Change{{
			Action:  ActionSwapSession,
			Details: fmt.Sprintf("%q replaced with a recovery session", session.Title),
		}},
		Reasoning: "low readiness: planned work swapped for mobility, core, and easy cardio",
	}
}

// recoverySession builds the fixed replacement used by the swap tier.
func recoverySession(originalTitle string) plan.Session {
	return plan.Session{
		Title:       recoveryTitlePrefix + originalTitle,
		DurationMin: recoverySessionMinutes,
		Blocks: []plan.Block{
			{
				Role:        plan.RoleAccessory,
				ExerciseIDs: []string{"mobility_flow"},
				Sets:        1,
				Reps:        "10min",
			},
			{
				Role:        plan.RoleAccessory,
				ExerciseIDs: []string{"core_stability"},
				Sets:        3,
				Reps:        "30-60s",
				RestSeconds: 45,
			},
			{
				Role:        plan.RoleAccessory,
				ExerciseIDs: []string{"easy_cardio"},
				Sets:        1,
				Reps:        "20-30min",
			},
		},
	}
}

// reducibleVolume reports whether the reduce tier may trim a block's sets:
// accessory blocks and core work, never main lifts.
func (a *Adjuster) reducibleVolume(block plan.Block) bool {
	if block.Role == plan.RoleAccessory {
		return true
	}
	for _, id := range block.ExerciseIDs {
		ex, ok := a.catalog.Lookup(id)
		if !ok {
			continue
		}
		if ex.IsMainLift {
			return false
		}
		if ex.MovementPattern == catalog.PatternCore {
			return true
		}
	}
	return false
}

// blockLabel names a block for the change log by its first exercise.
func blockLabel(block plan.Block) string {
	if len(block.ExerciseIDs) == 0 {
		return "block"
	}
	return block.ExerciseIDs[0]
}
