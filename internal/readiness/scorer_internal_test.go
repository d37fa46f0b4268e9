package readiness

import (
	"errors"
	"math"
	"testing"

	"github.com/jkarvonen/trainwell/internal/ptr"
)

func TestScoreReadinessLowHRV(t *testing.T) {
	t.Parallel()

	baseline := baselineWith(MetricHRV, MetricBaseline{Mean: 50, Spread: 4, SampleCount: 14})
	input := Input{
		Sample:           Sample{HRV: ptr.Ref(40.0)},
		Energy:           3,
		Soreness:         3,
		Stress:           3,
		MinutesAvailable: 60,
	}

	result, err := ScoreReadiness(baseline, input)
	if err != nil {
		t.Fatalf("ScoreReadiness: %v", err)
	}

	// HRV ratio 0.8 scores 16.67; the other components sit at neutral 50
	// under full weights: 0.4*16.67 + 0.6*50 = 36.67.
	if result.Score != 37 {
		t.Errorf("Score = %d, want 37", result.Score)
	}
	if result.Recommendation != TierSwap {
		t.Errorf("Recommendation = %q, want %q", result.Recommendation, TierSwap)
	}
	if result.Components.HRV == nil {
		t.Fatal("hrv component should be present")
	}
	if got := *result.Components.HRV; math.Abs(got-16.666666) > 0.001 {
		t.Errorf("hrv component = %v, want ~16.67", got)
	}
	if result.Components.RestingHR != nil || result.Components.Sleep != nil {
		t.Error("components without data should be reported as absent")
	}
}

func TestScoreReadinessFallbackWeights(t *testing.T) {
	t.Parallel()

	// No baseline at all: the composite leans on sleep and subjective, and
	// the missing components count as neutral 50.
	input := Input{
		Energy:           5,
		Soreness:         1,
		Stress:           1,
		MinutesAvailable: 45,
	}

	result, err := ScoreReadiness(NewBaseline("test-user"), input)
	if err != nil {
		t.Fatalf("ScoreReadiness: %v", err)
	}

	// 0.1*50 + 0.1*50 + 0.3*50 + 0.5*100 = 75.
	if result.Score != 75 {
		t.Errorf("Score = %d, want 75", result.Score)
	}
	if result.Recommendation != TierReduce {
		t.Errorf("Recommendation = %q, want %q", result.Recommendation, TierReduce)
	}
	if result.Confidence != 0 {
		t.Errorf("Confidence = %v, want 0 without any baseline data", result.Confidence)
	}
}

func TestScoreReadinessAllComponents(t *testing.T) {
	t.Parallel()

	baseline := baselineWith(MetricHRV, MetricBaseline{Mean: 50, Spread: 4, SampleCount: 14})
	baseline.Metrics[MetricRestingHR] = MetricBaseline{Mean: 60, Spread: 2, SampleCount: 10}
	input := Input{
		Sample: Sample{
			HRV:        ptr.Ref(60.0),
			RestingHR:  ptr.Ref(55.0),
			SleepHours: ptr.Ref(9.0),
		},
		Energy:           5,
		Soreness:         1,
		Stress:           1,
		MinutesAvailable: 60,
	}

	result, err := ScoreReadiness(baseline, input)
	if err != nil {
		t.Fatalf("ScoreReadiness: %v", err)
	}

	// hrv 83.33, rhr 65.15, sleep 83.33, subjective 100 under full weights
	// compose to 83.03.
	if result.Score != 83 {
		t.Errorf("Score = %d, want 83", result.Score)
	}
	if result.Recommendation != TierKeep {
		t.Errorf("Recommendation = %q, want %q", result.Recommendation, TierKeep)
	}
	if result.Confidence != 1 {
		t.Errorf("Confidence = %v, want 1 with saturated baselines", result.Confidence)
	}
}

func TestScoreReadinessValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input Input
	}{
		{
			name:  "energy out of range",
			input: Input{Energy: 0, Soreness: 3, Stress: 3, MinutesAvailable: 60},
		},
		{
			name:  "soreness out of range",
			input: Input{Energy: 3, Soreness: 6, Stress: 3, MinutesAvailable: 60},
		},
		{
			name:  "non-positive minutes",
			input: Input{Energy: 3, Soreness: 3, Stress: 3, MinutesAvailable: 0},
		},
		{
			name: "non-positive measurement",
			input: Input{
				Sample:           Sample{RestingHR: ptr.Ref(-10.0)},
				Energy:           3,
				Soreness:         3,
				Stress:           3,
				MinutesAvailable: 60,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ScoreReadiness(NewBaseline("test-user"), tt.input)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestScoreMonotonicInPhysiology(t *testing.T) {
	t.Parallel()

	baseline := baselineWith(MetricHRV, MetricBaseline{Mean: 50, Spread: 4, SampleCount: 14})
	baseline.Metrics[MetricRestingHR] = MetricBaseline{Mean: 60, Spread: 2, SampleCount: 10}

	// Higher HRV and lower resting heart rate must never lower the score.
	prev := -1
	for i := 0; i < 10; i++ {
		input := Input{
			Sample: Sample{
				HRV:       ptr.Ref(35.0 + 4*float64(i)),
				RestingHR: ptr.Ref(70.0 - 2*float64(i)),
			},
			Energy:           3,
			Soreness:         3,
			Stress:           3,
			MinutesAvailable: 60,
		}
		result, err := ScoreReadiness(baseline, input)
		if err != nil {
			t.Fatalf("ScoreReadiness: %v", err)
		}
		if result.Score < prev {
			t.Fatalf("score dropped from %d to %d as physiology improved", prev, result.Score)
		}
		prev = result.Score
	}
}

func TestTierBoundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score int
		want  Tier
	}{
		{100, TierKeep},
		{80, TierKeep},
		{79, TierReduce},
		{60, TierReduce},
		{59, TierSwap},
		{0, TierSwap},
	}

	for _, tt := range tests {
		if got := tierFor(tt.score); got != tt.want {
			t.Errorf("tierFor(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestSubjectiveComponent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                     string
		energy, soreness, stress int
		want                     float64
	}{
		{"best possible", 5, 1, 1, 100},
		{"worst possible", 1, 5, 5, 0},
		{"middling", 3, 3, 3, 50},
		{"fresh but stressed", 4, 2, 4, 175.0 / 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := subjectiveComponent(Input{Energy: tt.energy, Soreness: tt.soreness, Stress: tt.stress})
			if math.Abs(*got-tt.want) > 1e-9 {
				t.Errorf("subjectiveComponent = %v, want %v", *got, tt.want)
			}
		})
	}
}
