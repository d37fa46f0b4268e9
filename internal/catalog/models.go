package catalog

// MovementPattern is the categorical tag for an exercise's primary
// biomechanical pattern, used to find substitutes.
type MovementPattern string

// Movement pattern constants.
const (
	PatternSquat          MovementPattern = "squat"
	PatternHinge          MovementPattern = "hinge"
	PatternLunge          MovementPattern = "lunge"
	PatternHorizontalPush MovementPattern = "horizontal_push"
	PatternVerticalPush   MovementPattern = "vertical_push"
	PatternHorizontalPull MovementPattern = "horizontal_pull"
	PatternVerticalPull   MovementPattern = "vertical_pull"
	PatternCore           MovementPattern = "core"
	PatternCarry          MovementPattern = "carry"
	PatternCardio         MovementPattern = "cardio"
	PatternMobility       MovementPattern = "mobility"
)

// ExerciseDefinition describes a single exercise in the catalog.
type ExerciseDefinition struct {
	ID                string          `yaml:"id"`
	Name              string          `yaml:"name"`
	MovementPattern   MovementPattern `yaml:"movement_pattern"`
	EquipmentRequired []string        `yaml:"equipment"`
	IsAccessory       bool            `yaml:"accessory"`
	IsMainLift        bool            `yaml:"main_lift"`
}

// SubstitutionOption is one ranked alternative for a movement pattern.
// The first option whose required equipment is fully available wins.
type SubstitutionOption struct {
	ExerciseID        string   `yaml:"exercise"`
	EquipmentRequired []string `yaml:"equipment"`
}

// EquipmentSet is the set of equipment available to a user.
type EquipmentSet map[string]bool

// NewEquipmentSet builds an EquipmentSet from equipment names.
func NewEquipmentSet(names ...string) EquipmentSet {
	set := make(EquipmentSet, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}

// Covers reports whether every required piece of equipment is available.
// An empty requirement (bodyweight movement) is always covered.
func (s EquipmentSet) Covers(required []string) bool {
	for _, name := range required {
		if !s[name] {
			return false
		}
	}
	return true
}

// Names returns the equipment names in the set.
func (s EquipmentSet) Names() []string {
	names := make([]string, 0, len(s))
	for name, present := range s {
		if present {
			names = append(names, name)
		}
	}
	return names
}

// SubsetOf reports whether this set contains no equipment outside other.
func (s EquipmentSet) SubsetOf(other EquipmentSet) bool {
	for name, present := range s {
		if present && !other[name] {
			return false
		}
	}
	return true
}
