// Package readiness learns per-user physiological baselines, scores daily
// readiness on a 0-100 scale, and maps the score to a session adjustment. All
// operations are pure; callers own persistence of baselines and sessions.
package readiness

import (
	"math"
	"time"
)

// metricParams tunes the EWMA learner per metric. Noisier signals get slower
// learning rates and wider outlier bands.
type metricParams struct {
	learningRate       float64
	minTrustSamples    int
	fullConfidenceAt   int
	outlierThreshold   float64
	seedSpreadFraction float64
	trendMinDelta      float64
}

var paramsByMetric = map[Metric]metricParams{
	MetricHRV: {
		learningRate:       0.10,
		minTrustSamples:    7,
		fullConfidenceAt:   14,
		outlierThreshold:   3.0,
		seedSpreadFraction: 0.20,
		trendMinDelta:      2.0,
	},
	MetricRestingHR: {
		learningRate:       0.15,
		minTrustSamples:    5,
		fullConfidenceAt:   10,
		outlierThreshold:   2.5,
		seedSpreadFraction: 0.10,
		trendMinDelta:      1.0,
	},
	MetricSleepHours: {
		learningRate:       0.20,
		minTrustSamples:    3,
		fullConfidenceAt:   7,
		outlierThreshold:   2.0,
		seedSpreadFraction: 0.10,
		trendMinDelta:      0.3,
	},
}

const (
	// Outlier screening needs a few samples before deviations mean anything.
	outlierScreenMinSamples = 3

	// Trend detection compares the most recent samples against the window
	// before them; History keeps enough for both windows.
	trendWindow       = 7
	trendHistoryLimit = 2 * trendWindow
)

// UpdateBaseline folds one day's sample into the baseline and reports, per
// submitted metric, whether the value was accepted, the resulting confidence,
// and the recent trend. Rejected outliers leave the metric untouched. The
// input baseline is never mutated.
func UpdateBaseline(baseline Baseline, sample Sample, now time.Time) (Baseline, UpdateReport) {
	out := baseline.Clone()
	if out.Metrics == nil {
		out.Metrics = make(map[Metric]MetricBaseline)
	}
	report := UpdateReport{PerMetric: make(map[Metric]MetricUpdate)}

	touched := false
	for _, metric := range Metrics() {
		value, ok := sample.value(metric)
		if !ok {
			continue
		}

		mb, update := updateMetric(out.Metrics[metric], metric, value)
		if update.Updated {
			out.Metrics[metric] = mb
			touched = true
		}
		report.PerMetric[metric] = update
	}

	if touched {
		out.LastUpdated = now
	}
	report.OverallConfidence = overallConfidence(out)
	return out, report
}

// updateMetric applies the EWMA update for one metric value.
func updateMetric(mb MetricBaseline, metric Metric, value float64) (MetricBaseline, MetricUpdate) {
	params := paramsByMetric[metric]

	// First sample seeds the baseline directly.
	if mb.SampleCount == 0 {
		mb = MetricBaseline{Mean: value, SampleCount: 1, History: []float64{value}}
		return mb, MetricUpdate{
			Updated:    true,
			Baseline:   &mb,
			Confidence: confidence(mb.SampleCount, params),
			Trend:      trend(mb.History, params),
		}
	}

	if mb.SampleCount >= outlierScreenMinSamples && isOutlier(mb, value, params) {
		return mb, MetricUpdate{
			Reason:     ReasonOutlierDetected,
			Confidence: confidence(mb.SampleCount, params),
			Trend:      trend(mb.History, params),
		}
	}

	alpha := params.learningRate
	deviation := value - mb.Mean
	variance := (1-alpha)*mb.Spread*mb.Spread + alpha*deviation*deviation

	mb.Mean += alpha * deviation
	mb.Spread = math.Sqrt(variance)
	mb.SampleCount++
	mb.History = append(mb.History, value)
	if len(mb.History) > trendHistoryLimit {
		mb.History = append([]float64(nil), mb.History[len(mb.History)-trendHistoryLimit:]...)
	}

	return mb, MetricUpdate{
		Updated:    true,
		Baseline:   &mb,
		Confidence: confidence(mb.SampleCount, params),
		Trend:      trend(mb.History, params),
	}
}

// isOutlier screens a value against the baseline spread. A zero spread is
// seeded as a fraction of the current mean so early identical samples do not
// lock the baseline.
func isOutlier(mb MetricBaseline, value float64, params metricParams) bool {
	spread := mb.Spread
	if spread == 0 {
		spread = params.seedSpreadFraction * math.Abs(mb.Mean)
	}
	if spread == 0 {
		return false
	}
	return math.Abs(value-mb.Mean)/spread > params.outlierThreshold
}

// confidence grows linearly with accepted samples and saturates at 1.
func confidence(sampleCount int, params metricParams) float64 {
	c := float64(sampleCount) / float64(params.fullConfidenceAt)
	return math.Min(1, c)
}

// trend compares the mean of the most recent samples against the window
// before them. Deltas below the metric's noise floor read as stable.
func trend(history []float64, params metricParams) Trend {
	if len(history) <= trendWindow {
		return TrendInsufficientData
	}

	recent := history[len(history)-trendWindow:]
	earlier := history[:len(history)-trendWindow]

	delta := mean(recent) - mean(earlier)
	switch {
	case math.Abs(delta) < params.trendMinDelta:
		return TrendStable
	case delta > 0:
		return TrendIncreasing
	default:
		return TrendDecreasing
	}
}

// overallConfidence averages per-metric confidence over metrics with data.
func overallConfidence(baseline Baseline) float64 {
	sum, n := 0.0, 0
	for _, metric := range Metrics() {
		mb, ok := baseline.Metric(metric)
		if !ok {
			continue
		}
		sum += confidence(mb.SampleCount, paramsByMetric[metric])
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
