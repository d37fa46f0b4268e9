// Command smoketest runs the full coaching flow against a database: propose a
// plan, schedule its first day, and submit a week of readiness check-ins. It
// exits non-zero on the first failure.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/jkarvonen/trainwell/internal/catalog"
	"github.com/jkarvonen/trainwell/internal/coach"
	"github.com/jkarvonen/trainwell/internal/envstruct"
	"github.com/jkarvonen/trainwell/internal/errors"
	"github.com/jkarvonen/trainwell/internal/logging"
	"github.com/jkarvonen/trainwell/internal/plan"
	"github.com/jkarvonen/trainwell/internal/ptr"
	"github.com/jkarvonen/trainwell/internal/readiness"
	"github.com/jkarvonen/trainwell/internal/sqlite"
)

type config struct {
	// SqliteURL is the URL to the SQLite database. Defaults to an ethereal
	// in-memory database so the smoke test leaves nothing behind.
	SqliteURL string `env:"TRAINWELL_SQLITE_URL" envDefault:":memory:"`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var cfg config
	if err := envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	db, err := sqlite.NewDatabase(ctx, cfg.SqliteURL, logger)
	if err != nil {
		return errors.Wrap(err, "open db", slog.String("url", cfg.SqliteURL))
	}
	defer func() { _ = db.Close() }()

	svc, err := coach.NewService(db, logger)
	if err != nil {
		return errors.Wrap(err, "new coach service")
	}

	const userID = "smoketest-user"
	ctx = logging.WithAttrs(ctx, slog.String("user_id", userID))

	draft, err := svc.ProposePlan(ctx, plan.Request{
		UserID:         userID,
		Goals:          []string{"strength"},
		Equipment:      catalog.NewEquipmentSet("barbell", "rack", "bench", "dumbbell", "pull_up_bar"),
		DaysPerWeek:    3,
		SessionMinutes: 60,
	})
	if err != nil {
		return errors.Wrap(err, "propose plan")
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "proposed plan",
		slog.String("plan_id", draft.ID),
		slog.String("template_id", draft.TemplateID),
		slog.Int("days", len(draft.Days)))

	day := draft.Days[0]
	today := time.Now().Truncate(24 * time.Hour)
	session := plan.Session{Title: day.Title, DurationMin: day.DurationMin, Blocks: day.Blocks}
	if err = svc.ScheduleSession(ctx, userID, today, session); err != nil {
		return errors.Wrap(err, "schedule session")
	}

	// A week of check-ins walks the baseline from cold start to trend data
	// and should hit all three recommendation tiers.
	checkIns := []readiness.Input{
		{Sample: readiness.Sample{HRV: ptr.Ref(52.0), RestingHR: ptr.Ref(58.0)}, Energy: 4, Soreness: 2, Stress: 2, MinutesAvailable: 60},
		{Sample: readiness.Sample{HRV: ptr.Ref(50.0), RestingHR: ptr.Ref(59.0), SleepHours: ptr.Ref(7.5)}, Energy: 4, Soreness: 2, Stress: 2, MinutesAvailable: 60},
		{Sample: readiness.Sample{HRV: ptr.Ref(49.0), RestingHR: ptr.Ref(60.0), SleepHours: ptr.Ref(8.0)}, Energy: 5, Soreness: 1, Stress: 1, MinutesAvailable: 60},
		{Sample: readiness.Sample{HRV: ptr.Ref(51.0), RestingHR: ptr.Ref(58.0), SleepHours: ptr.Ref(6.5)}, Energy: 3, Soreness: 3, Stress: 3, MinutesAvailable: 45},
		{Sample: readiness.Sample{HRV: ptr.Ref(40.0), RestingHR: ptr.Ref(66.0), SleepHours: ptr.Ref(5.0)}, Energy: 1, Soreness: 5, Stress: 5, MinutesAvailable: 30},
		{Sample: readiness.Sample{HRV: ptr.Ref(48.0), RestingHR: ptr.Ref(60.0), SleepHours: ptr.Ref(7.0)}, Energy: 3, Soreness: 2, Stress: 2, MinutesAvailable: 60},
		{Sample: readiness.Sample{HRV: ptr.Ref(53.0), RestingHR: ptr.Ref(57.0), SleepHours: ptr.Ref(8.5)}, Energy: 5, Soreness: 1, Stress: 1, MinutesAvailable: 60},
	}

	for i, input := range checkIns {
		date := today.AddDate(0, 0, i)
		var outcome coach.ReadinessOutcome
		if outcome, err = svc.SubmitReadiness(ctx, userID, date, input); err != nil {
			return errors.Wrap(err, "submit readiness", slog.Int("day", i))
		}
		logger.LogAttrs(ctx, slog.LevelInfo, "readiness check-in",
			slog.Int("day", i),
			slog.Int("score", outcome.Result.Score),
			slog.String("recommendation", string(outcome.Result.Recommendation)),
			slog.Float64("confidence", outcome.Result.Confidence),
			slog.Int("changes", len(outcome.Adjustment.Changes)))
	}

	baseline, err := svc.Baseline(ctx, userID)
	if err != nil {
		return errors.Wrap(err, "get baseline")
	}
	for _, metric := range readiness.Metrics() {
		if mb, ok := baseline.Metric(metric); ok {
			logger.LogAttrs(ctx, slog.LevelInfo, "learned baseline",
				slog.String("metric", string(metric)),
				slog.Float64("mean", mb.Mean),
				slog.Float64("spread", mb.Spread),
				slog.Int("samples", mb.SampleCount))
		}
	}

	history, err := svc.ReadinessHistory(ctx, userID, today)
	if err != nil {
		return errors.Wrap(err, "get readiness history")
	}
	if len(history) != len(checkIns) {
		return errors.New("readiness history is missing entries")
	}

	return nil
}

func main() {
	ctx := context.Background()
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)

	start := time.Now()
	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "smoke test failed", errors.SlogError(err))
		os.Exit(1)
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌", slog.Duration("duration", time.Since(start)))
}
