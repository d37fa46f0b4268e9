package coach

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/jkarvonen/trainwell/internal/catalog"
	"github.com/jkarvonen/trainwell/internal/errors"
	"github.com/jkarvonen/trainwell/internal/plan"
	"github.com/jkarvonen/trainwell/internal/ptr"
	"github.com/jkarvonen/trainwell/internal/readiness"
	"github.com/jkarvonen/trainwell/internal/sqlite"
	"github.com/jkarvonen/trainwell/internal/testhelpers"
)

func newTestService(t *testing.T) (*Service, context.Context) {
	t.Helper()
	ctx := t.Context()
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))

	db, err := sqlite.NewDatabase(ctx, ":memory:", logger)
	if err != nil {
		t.Fatalf("create database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("close database: %v", err)
		}
	})

	svc, err := NewService(db, logger)
	if err != nil {
		t.Fatalf("create service: %v", err)
	}
	return svc, ctx
}

func legDaySession() plan.Session {
	return plan.Session{
		Title:       "Leg Day",
		DurationMin: 60,
		Blocks: []plan.Block{
			{
				Role:        plan.RoleMain,
				ExerciseIDs: []string{"back_squat"},
				Sets:        5,
				Reps:        "5",
				RPE:         &plan.RPE{Low: 7, High: 8},
				RestSeconds: 180,
			},
			{
				Role:        plan.RoleAccessory,
				ExerciseIDs: []string{"walking_lunge"},
				Sets:        3,
				Reps:        "10",
				RestSeconds: 90,
			},
		},
	}
}

func TestProposePlanPersists(t *testing.T) {
	t.Parallel()

	svc, ctx := newTestService(t)
	req := plan.Request{
		UserID:         "user-1",
		Equipment:      catalog.NewEquipmentSet("barbell", "rack", "bench", "dumbbell", "pull_up_bar"),
		DaysPerWeek:    3,
		SessionMinutes: 45,
	}

	draft, err := svc.ProposePlan(ctx, req)
	if err != nil {
		t.Fatalf("ProposePlan: %v", err)
	}
	if draft.ID == "" {
		t.Fatal("ProposePlan should assign a plan id")
	}

	stored, err := svc.Plan(ctx, draft.ID)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if diff := cmp.Diff(draft, stored); diff != "" {
		t.Errorf("stored plan mismatch (-want +got):\n%s", diff)
	}

	plans, err := svc.Plans(ctx, "user-1")
	if err != nil {
		t.Fatalf("Plans: %v", err)
	}
	if len(plans) != 1 {
		t.Errorf("Plans returned %d entries, want 1", len(plans))
	}
}

func TestSessionRoundTrip(t *testing.T) {
	t.Parallel()

	svc, ctx := newTestService(t)
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	session := legDaySession()

	if err := svc.ScheduleSession(ctx, "user-1", date, session); err != nil {
		t.Fatalf("ScheduleSession: %v", err)
	}

	stored, err := svc.Session(ctx, "user-1", date)
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	if diff := cmp.Diff(session, stored); diff != "" {
		t.Errorf("stored session mismatch (-want +got):\n%s", diff)
	}

	_, err = svc.Session(ctx, "user-1", date.AddDate(0, 0, 1))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound for an unscheduled date", err)
	}
}

func TestSubmitReadinessLowScoreSwapsSession(t *testing.T) {
	t.Parallel()

	svc, ctx := newTestService(t)
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	if err := svc.ScheduleSession(ctx, "user-1", date, legDaySession()); err != nil {
		t.Fatalf("ScheduleSession: %v", err)
	}

	// Worst subjective ratings with no baseline: 0.5*0 plus three neutral
	// components gives 25, well below the swap threshold.
	input := readiness.Input{
		Sample:           readiness.Sample{HRV: ptr.Ref(48.0)},
		Energy:           1,
		Soreness:         5,
		Stress:           5,
		MinutesAvailable: 45,
	}

	outcome, err := svc.SubmitReadiness(ctx, "user-1", date, input)
	if err != nil {
		t.Fatalf("SubmitReadiness: %v", err)
	}

	if outcome.Result.Score != 25 {
		t.Errorf("Score = %d, want 25", outcome.Result.Score)
	}
	if outcome.Result.Recommendation != readiness.TierSwap {
		t.Errorf("Recommendation = %q, want %q", outcome.Result.Recommendation, readiness.TierSwap)
	}

	stored, err := svc.Session(ctx, "user-1", date)
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	if want := "Recovery • Leg Day"; stored.Title != want {
		t.Errorf("stored session title = %q, want %q", stored.Title, want)
	}

	baseline, err := svc.Baseline(ctx, "user-1")
	if err != nil {
		t.Fatalf("Baseline: %v", err)
	}
	hrv, ok := baseline.Metric(readiness.MetricHRV)
	if !ok {
		t.Fatal("baseline should have an hrv entry after the submission")
	}
	if hrv.SampleCount != 1 || hrv.Mean != 48 {
		t.Errorf("hrv baseline = %+v, want one sample with mean 48", hrv)
	}
}

func TestSubmitReadinessScoresAgainstPriorBaseline(t *testing.T) {
	t.Parallel()

	svc, ctx := newTestService(t)
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	// Day one seeds the HRV baseline at 50 but scores without it.
	first := readiness.Input{
		Sample:           readiness.Sample{HRV: ptr.Ref(50.0)},
		Energy:           3,
		Soreness:         3,
		Stress:           3,
		MinutesAvailable: 45,
	}
	outcome, err := svc.SubmitReadiness(ctx, "user-1", date, first)
	if err != nil {
		t.Fatalf("SubmitReadiness day one: %v", err)
	}
	if outcome.Result.Components.HRV != nil {
		t.Error("day one has no prior baseline, hrv component should be absent")
	}

	// Day two scores against the day-one baseline of 50.
	second := readiness.Input{
		Sample:           readiness.Sample{HRV: ptr.Ref(40.0)},
		Energy:           3,
		Soreness:         3,
		Stress:           3,
		MinutesAvailable: 45,
	}
	outcome, err = svc.SubmitReadiness(ctx, "user-1", date.AddDate(0, 0, 1), second)
	if err != nil {
		t.Fatalf("SubmitReadiness day two: %v", err)
	}
	if outcome.Result.Components.HRV == nil {
		t.Fatal("day two should score hrv against the day-one baseline")
	}

	baseline, err := svc.Baseline(ctx, "user-1")
	if err != nil {
		t.Fatalf("Baseline: %v", err)
	}
	hrv, _ := baseline.Metric(readiness.MetricHRV)
	if hrv.SampleCount != 2 {
		t.Errorf("hrv sample count = %d, want 2", hrv.SampleCount)
	}
}

func TestSubmitReadinessWithoutScheduledSession(t *testing.T) {
	t.Parallel()

	svc, ctx := newTestService(t)
	input := readiness.Input{
		Energy:           3,
		Soreness:         3,
		Stress:           3,
		MinutesAvailable: 45,
	}

	outcome, err := svc.SubmitReadiness(ctx, "user-1", time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), input)
	if err != nil {
		t.Fatalf("SubmitReadiness: %v", err)
	}
	if outcome.Adjustment.Session != nil {
		t.Errorf("Adjustment.Session = %+v, want nil with nothing scheduled", outcome.Adjustment.Session)
	}
	if outcome.Adjustment.Reasoning == "" {
		t.Error("Adjustment should explain that nothing was scheduled")
	}
}

func TestReadinessHistory(t *testing.T) {
	t.Parallel()

	svc, ctx := newTestService(t)
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	input := readiness.Input{
		Energy:           4,
		Soreness:         2,
		Stress:           2,
		MinutesAvailable: 45,
	}

	for day := range 3 {
		if _, err := svc.SubmitReadiness(ctx, "user-1", date.AddDate(0, 0, day), input); err != nil {
			t.Fatalf("SubmitReadiness day %d: %v", day, err)
		}
	}

	history, err := svc.ReadinessHistory(ctx, "user-1", date)
	if err != nil {
		t.Fatalf("ReadinessHistory: %v", err)
	}
	if len(history) != 3 {
		t.Errorf("history has %d entries, want 3", len(history))
	}
}
