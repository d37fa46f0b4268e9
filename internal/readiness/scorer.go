package readiness

import (
	"log/slog"
	"math"

	"github.com/jkarvonen/trainwell/internal/errors"
)

// ErrInvalidInput is returned when a readiness submission fails validation.
var ErrInvalidInput = errors.NewSentinel("invalid readiness input")

// Scoring constants.
const (
	// sleepTargetHours is the fixed reference for the sleep component; sleep
	// needs no learned baseline.
	sleepTargetHours = 7.5

	// ratioSaturation is the deviation from baseline ratio 1.0 that pins a
	// component score to 0 or 100.
	ratioSaturation = 0.30

	neutralComponentScore = 50.0
)

// componentWeights splits the composite across the four components.
type componentWeights struct {
	hrv, restingHR, sleep, subjective float64
}

var (
	// fullWeights applies once the HRV baseline has enough samples to trust.
	fullWeights = componentWeights{hrv: 0.40, restingHR: 0.20, sleep: 0.20, subjective: 0.20}

	// fallbackWeights lean on sleep and subjective ratings while the
	// physiological baselines are still young.
	fallbackWeights = componentWeights{hrv: 0.10, restingHR: 0.10, sleep: 0.30, subjective: 0.50}
)

// ScoreReadiness turns one day's submission into a 0-100 readiness score, a
// recommendation tier, the per-component breakdown, and the baseline
// confidence. Components without data score neutrally but are reported as
// absent.
func ScoreReadiness(baseline Baseline, input Input) (Result, error) {
	if err := validateInput(input); err != nil {
		return Result{}, err
	}

	components := ComponentScores{
		HRV:        hrvComponent(baseline, input.Sample),
		RestingHR:  restingHRComponent(baseline, input.Sample),
		Sleep:      sleepComponent(input.Sample),
		Subjective: subjectiveComponent(input),
	}

	weights := fallbackWeights
	if hrv, ok := baseline.Metric(MetricHRV); ok && hrv.SampleCount >= paramsByMetric[MetricHRV].minTrustSamples {
		weights = fullWeights
	}

	composite := weights.hrv*orNeutral(components.HRV) +
		weights.restingHR*orNeutral(components.RestingHR) +
		weights.sleep*orNeutral(components.Sleep) +
		weights.subjective*orNeutral(components.Subjective)

	score := roundHalfUp(clamp(composite, 0, 100))
	return Result{
		Score:          score,
		Recommendation: tierFor(score),
		Components:     components,
		Confidence:     overallConfidence(baseline),
	}, nil
}

// tierFor maps a score to its recommendation tier.
func tierFor(score int) Tier {
	switch {
	case score >= 80:
		return TierKeep
	case score >= 60:
		return TierReduce
	default:
		return TierSwap
	}
}

func validateInput(input Input) error {
	for _, rating := range []struct {
		name  string
		value int
	}{
		{"energy", input.Energy},
		{"soreness", input.Soreness},
		{"stress", input.Stress},
	} {
		if rating.value < 1 || rating.value > 5 {
			return errors.Wrap(ErrInvalidInput, "subjective rating out of range",
				slog.String("rating", rating.name),
				slog.Int("value", rating.value))
		}
	}
	if input.MinutesAvailable <= 0 {
		return errors.Wrap(ErrInvalidInput, "minutes available must be positive",
			slog.Int("minutes_available", input.MinutesAvailable))
	}
	for _, measurement := range []struct {
		name  string
		value *float64
	}{
		{"hrv", input.HRV},
		{"resting_hr", input.RestingHR},
		{"sleep_hours", input.SleepHours},
	} {
		if measurement.value != nil && *measurement.value <= 0 {
			return errors.Wrap(ErrInvalidInput, "measurement must be positive",
				slog.String("metric", measurement.name),
				slog.Float64("value", *measurement.value))
		}
	}
	return nil
}

// hrvComponent scores today's HRV against the learned mean. Higher is better.
func hrvComponent(baseline Baseline, sample Sample) *float64 {
	if sample.HRV == nil {
		return nil
	}
	mb, ok := baseline.Metric(MetricHRV)
	if !ok || mb.Mean <= 0 {
		return nil
	}
	return ratioScore(*sample.HRV / mb.Mean)
}

// restingHRComponent scores today's resting heart rate against the learned
// mean with the ratio inverted, since a lower resting rate is better.
func restingHRComponent(baseline Baseline, sample Sample) *float64 {
	if sample.RestingHR == nil {
		return nil
	}
	mb, ok := baseline.Metric(MetricRestingHR)
	if !ok || mb.Mean <= 0 {
		return nil
	}
	return ratioScore(mb.Mean / *sample.RestingHR)
}

// sleepComponent scores sleep against the fixed target.
func sleepComponent(sample Sample) *float64 {
	if sample.SleepHours == nil {
		return nil
	}
	return ratioScore(*sample.SleepHours / sleepTargetHours)
}

// subjectiveComponent averages the three 1-5 ratings, each rescaled to 0-100.
// Energy counts up; soreness and stress count down.
func subjectiveComponent(input Input) *float64 {
	energy := float64(input.Energy-1) * 25
	soreness := float64(5-input.Soreness) * 25
	stress := float64(5-input.Stress) * 25
	score := (energy + soreness + stress) / 3
	return &score
}

// ratioScore maps a baseline ratio to 0-100: ratio 1.0 scores 50, and a
// deviation of ratioSaturation in either direction pins the score.
func ratioScore(ratio float64) *float64 {
	score := clamp(50+50*((ratio-1)/ratioSaturation), 0, 100)
	return &score
}

func orNeutral(component *float64) float64 {
	if component == nil {
		return neutralComponentScore
	}
	return *component
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
