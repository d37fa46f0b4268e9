package readiness

import (
	"time"
)

// Metric identifies a tracked physiological signal.
type Metric string

// Tracked metrics.
const (
	MetricHRV        Metric = "hrv"
	MetricRestingHR  Metric = "resting_hr"
	MetricSleepHours Metric = "sleep_hours"
)

// Metrics lists all tracked metrics in canonical order.
func Metrics() []Metric {
	return []Metric{MetricHRV, MetricRestingHR, MetricSleepHours}
}

// MetricBaseline is the learned baseline for one metric: an EWMA mean, a
// running spread, and a bounded history of recent accepted samples used for
// trend detection.
type MetricBaseline struct {
	Mean        float64   `json:"mean"`
	Spread      float64   `json:"spread"`
	SampleCount int       `json:"sample_count"`
	History     []float64 `json:"history,omitempty"`
}

// Baseline is the per-user collection of metric baselines.
// Invariant: sample counts never decrease; mean and spread move only on
// accepted samples.
type Baseline struct {
	UserID      string                    `json:"user_id"`
	Metrics     map[Metric]MetricBaseline `json:"metrics"`
	LastUpdated time.Time                 `json:"last_updated"`
}

// NewBaseline creates an empty baseline for a user.
func NewBaseline(userID string) Baseline {
	return Baseline{UserID: userID, Metrics: make(map[Metric]MetricBaseline)}
}

// Clone returns a deep copy so updates never alias the caller's baseline.
func (b Baseline) Clone() Baseline {
	out := Baseline{UserID: b.UserID, LastUpdated: b.LastUpdated}
	out.Metrics = make(map[Metric]MetricBaseline, len(b.Metrics))
	for metric, mb := range b.Metrics {
		mb.History = append([]float64(nil), mb.History...)
		out.Metrics[metric] = mb
	}
	return out
}

// Metric returns the baseline for a metric; the boolean is false when the
// metric has no samples yet.
func (b Baseline) Metric(metric Metric) (MetricBaseline, bool) {
	mb, ok := b.Metrics[metric]
	return mb, ok && mb.SampleCount > 0
}

// Sample carries the optional physiological measurements of one day.
type Sample struct {
	HRV        *float64 `json:"hrv,omitempty"`
	RestingHR  *float64 `json:"resting_hr,omitempty"`
	SleepHours *float64 `json:"sleep_hours,omitempty"`
}

// value returns the sample value for a metric, if present.
func (s Sample) value(metric Metric) (float64, bool) {
	var ptr *float64
	switch metric {
	case MetricHRV:
		ptr = s.HRV
	case MetricRestingHR:
		ptr = s.RestingHR
	case MetricSleepHours:
		ptr = s.SleepHours
	}
	if ptr == nil {
		return 0, false
	}
	return *ptr, true
}

// Trend describes the direction of a metric over recent samples.
type Trend string

// Trend constants.
const (
	TrendIncreasing       Trend = "increasing"
	TrendDecreasing       Trend = "decreasing"
	TrendStable           Trend = "stable"
	TrendInsufficientData Trend = "insufficient_data"
)

// ReasonOutlierDetected reports why an update left the baseline untouched.
const ReasonOutlierDetected = "outlier_detected"

// MetricUpdate reports the outcome of one metric's baseline update.
type MetricUpdate struct {
	Updated    bool            `json:"updated"`
	Reason     string          `json:"reason,omitempty"`
	Baseline   *MetricBaseline `json:"new_baseline,omitempty"`
	Confidence float64         `json:"confidence"`
	Trend      Trend           `json:"trend"`
}

// UpdateReport is the structured result of a baseline update call.
type UpdateReport struct {
	PerMetric         map[Metric]MetricUpdate `json:"per_metric"`
	OverallConfidence float64                 `json:"overall_confidence"`
}

// Input is one day's readiness submission: optional physiological
// measurements plus required subjective ratings on a 1-5 scale and the
// minutes available for training.
type Input struct {
	Sample
	Energy           int `json:"energy"`
	Soreness         int `json:"soreness"`
	Stress           int `json:"stress"`
	MinutesAvailable int `json:"minutes_available"`
}

// Tier is the readiness recommendation.
type Tier string

// Recommendation tiers. They partition [0,100]: keep for scores of 80 and
// above, reduce for [60,80), swap below 60.
const (
	TierKeep   Tier = "keep"
	TierReduce Tier = "reduce"
	TierSwap   Tier = "swap"
)

// ComponentScores holds the per-component normalized scores. A nil entry
// means the component had no data and was scored neutrally.
type ComponentScores struct {
	HRV        *float64 `json:"hrv,omitempty"`
	RestingHR  *float64 `json:"resting_hr,omitempty"`
	Sleep      *float64 `json:"sleep,omitempty"`
	Subjective *float64 `json:"subjective,omitempty"`
}

// Result is the outcome of scoring one day's readiness.
type Result struct {
	Score          int             `json:"score"`
	Recommendation Tier            `json:"recommendation"`
	Components     ComponentScores `json:"component_scores"`
	Confidence     float64         `json:"confidence"`
}
