package plan

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jkarvonen/trainwell/internal/catalog"
)

// Role classifies a block within a training day.
type Role string

// Block role constants.
const (
	RoleMain      Role = "main"
	RoleAccessory Role = "accessory"
)

// RPE is a rate-of-perceived-exertion prescription, either a scalar
// (Low == High) or a range.
type RPE struct {
	Low  float64
	High float64
}

// UnmarshalYAML accepts "7", 7, or "6-8".
func (r *RPE) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseRPE(value.Value)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// MarshalYAML renders the prescription back into its scalar or range form.
func (r RPE) MarshalYAML() (any, error) {
	return r.String(), nil
}

// ParseRPE parses a scalar ("7.5") or range ("6-8") prescription.
func ParseRPE(s string) (RPE, error) {
	s = strings.TrimSpace(s)
	if lo, hi, ok := strings.Cut(s, "-"); ok {
		low, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
		if err != nil {
			return RPE{}, fmt.Errorf("parse rpe low %q: %w", s, err)
		}
		high, err := strconv.ParseFloat(strings.TrimSpace(hi), 64)
		if err != nil {
			return RPE{}, fmt.Errorf("parse rpe high %q: %w", s, err)
		}
		return RPE{Low: low, High: high}, nil
	}
	scalar, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return RPE{}, fmt.Errorf("parse rpe %q: %w", s, err)
	}
	return RPE{Low: scalar, High: scalar}, nil
}

// String renders "7" for scalars and "6-8" for ranges.
func (r RPE) String() string {
	if r.Low == r.High {
		return trimFloat(r.Low)
	}
	return trimFloat(r.Low) + "-" + trimFloat(r.High)
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Block is one prescription unit of a training day: one or more exercises
// performed for a number of sets with shared rep, effort, and rest targets.
type Block struct {
	Role        Role     `yaml:"role" json:"role"`
	ExerciseIDs []string `yaml:"exercises" json:"exercises"`
	Sets        int      `yaml:"sets" json:"sets"`
	// Reps is numeric ("5") or text ("8-12", "30-60s", "AMRAP").
	Reps        string `yaml:"reps" json:"reps"`
	RPE         *RPE   `yaml:"rpe,omitempty" json:"rpe,omitempty"`
	RestSeconds int    `yaml:"rest_seconds" json:"rest_seconds"`
}

// clone returns a deep copy so transformations never alias the input.
func (b Block) clone() Block {
	out := b
	out.ExerciseIDs = append([]string(nil), b.ExerciseIDs...)
	if b.RPE != nil {
		rpe := *b.RPE
		out.RPE = &rpe
	}
	return out
}

// Day is a single training day within a template or plan. DurationMin is the
// capped duration estimate filled in by ApplyTimeCap; zero means not yet
// estimated.
type Day struct {
	Title       string  `yaml:"title" json:"title"`
	DurationMin int     `yaml:"duration_min,omitempty" json:"duration_min,omitempty"`
	Blocks      []Block `yaml:"blocks" json:"blocks"`
}

// Clone returns a deep copy of the day.
func (d Day) Clone() Day {
	out := Day{Title: d.Title, DurationMin: d.DurationMin, Blocks: make([]Block, len(d.Blocks))}
	for i, b := range d.Blocks {
		out.Blocks[i] = b.clone()
	}
	return out
}

// Phase names a multi-week stretch of a template with an effort range.
type Phase struct {
	Name     string `yaml:"name" json:"name"`
	Weeks    int    `yaml:"weeks" json:"weeks"`
	RPERange RPE    `yaml:"rpe" json:"rpe"`
}

// Template is a multi-day, multi-phase workout template from the library.
type Template struct {
	ID                    string  `yaml:"id"`
	Name                  string  `yaml:"name"`
	DefaultSessionMinutes int     `yaml:"default_session_minutes"`
	Phases                []Phase `yaml:"phases"`
	Days                  []Day   `yaml:"days"`
}

// TotalWeeks sums the phase durations.
func (t Template) TotalWeeks() int {
	weeks := 0
	for _, p := range t.Phases {
		weeks += p.Weeks
	}
	return weeks
}

// DraftPlan is the post-substitution, post-time-cap output of plan
// generation. Ownership passes to the caller on return.
type DraftPlan struct {
	ID                string  `json:"id"`
	TemplateID        string  `json:"template_id"`
	Name              string  `json:"name"`
	Phases            []Phase `json:"phases"`
	TotalWeeks        int     `json:"total_weeks"`
	Days              []Day   `json:"days"`
	SessionCapMinutes int     `json:"session_cap_minutes"`
}

// Session is a scheduled workout snapshot: the unit the adjustment policy
// consumes and produces. It owns no storage.
type Session struct {
	Title       string  `json:"title"`
	DurationMin int     `json:"duration_min"`
	Blocks      []Block `json:"blocks"`
}

// Clone returns a deep copy of the session.
func (s Session) Clone() Session {
	out := Session{Title: s.Title, DurationMin: s.DurationMin, Blocks: make([]Block, len(s.Blocks))}
	for i, b := range s.Blocks {
		out.Blocks[i] = b.clone()
	}
	return out
}

// Request carries everything plan generation needs about the user.
type Request struct {
	UserID         string
	Goals          []string
	Equipment      catalog.EquipmentSet
	DaysPerWeek    int
	SessionMinutes int
	// Preferences is free text, scanned for split markers during template
	// selection.
	Preferences string
}
