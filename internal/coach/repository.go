package coach

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jkarvonen/trainwell/internal/errors"
	"github.com/jkarvonen/trainwell/internal/plan"
	"github.com/jkarvonen/trainwell/internal/readiness"
	"github.com/jkarvonen/trainwell/internal/sqlite"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.NewSentinel("not found")

const dateFormat = time.DateOnly

// repository persists coach state as JSON documents keyed by user and date.
// The documents are always read and written whole, which keeps the schema
// stable while the in-memory models evolve.
type repository struct {
	db *sqlite.Database
}

func newRepository(db *sqlite.Database) *repository {
	return &repository{db: db}
}

func (r *repository) getBaseline(ctx context.Context, userID string) (readiness.Baseline, error) {
	var data []byte
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT data
		FROM readiness_baselines
		WHERE user_id = ?`, userID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return readiness.Baseline{}, errors.Wrap(ErrNotFound, fmt.Sprintf("baseline for user %s", userID))
	}
	if err != nil {
		return readiness.Baseline{}, fmt.Errorf("query baseline: %w", err)
	}

	var baseline readiness.Baseline
	if err = json.Unmarshal(data, &baseline); err != nil {
		return readiness.Baseline{}, fmt.Errorf("unmarshal baseline: %w", err)
	}
	return baseline, nil
}

func (r *repository) saveBaseline(ctx context.Context, baseline readiness.Baseline) error {
	data, err := json.Marshal(baseline)
	if err != nil {
		return fmt.Errorf("marshal baseline: %w", err)
	}

	if _, err = r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO readiness_baselines (user_id, data, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at`,
		baseline.UserID, data, baseline.LastUpdated); err != nil {
		return fmt.Errorf("save baseline: %w", err)
	}
	return nil
}

func (r *repository) savePlan(ctx context.Context, userID string, draft plan.DraftPlan, createdAt time.Time) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}

	if _, err = r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO training_plans (id, user_id, data, created_at)
		VALUES (?, ?, ?, ?)`,
		draft.ID, userID, data, createdAt); err != nil {
		return fmt.Errorf("save plan: %w", err)
	}
	return nil
}

func (r *repository) getPlan(ctx context.Context, planID string) (plan.DraftPlan, error) {
	var data []byte
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT data
		FROM training_plans
		WHERE id = ?`, planID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return plan.DraftPlan{}, errors.Wrap(ErrNotFound, fmt.Sprintf("plan %s", planID))
	}
	if err != nil {
		return plan.DraftPlan{}, fmt.Errorf("query plan: %w", err)
	}

	var draft plan.DraftPlan
	if err = json.Unmarshal(data, &draft); err != nil {
		return plan.DraftPlan{}, fmt.Errorf("unmarshal plan: %w", err)
	}
	return draft, nil
}

func (r *repository) listPlans(ctx context.Context, userID string) ([]plan.DraftPlan, error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT data
		FROM training_plans
		WHERE user_id = ?
		ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("query plans: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var drafts []plan.DraftPlan
	for rows.Next() {
		var data []byte
		if err = rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		var draft plan.DraftPlan
		if err = json.Unmarshal(data, &draft); err != nil {
			return nil, fmt.Errorf("unmarshal plan: %w", err)
		}
		drafts = append(drafts, draft)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate plans: %w", err)
	}
	return drafts, nil
}

func (r *repository) saveSession(
	ctx context.Context,
	userID string,
	date time.Time,
	session plan.Session,
	updatedAt time.Time,
) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if _, err = r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO workout_sessions (user_id, session_date, data, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, session_date) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at`,
		userID, date.Format(dateFormat), data, updatedAt); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *repository) getSession(ctx context.Context, userID string, date time.Time) (plan.Session, error) {
	var data []byte
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT data
		FROM workout_sessions
		WHERE user_id = ? AND session_date = ?`,
		userID, date.Format(dateFormat)).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return plan.Session{}, errors.Wrap(ErrNotFound,
			fmt.Sprintf("session for user %s on %s", userID, date.Format(dateFormat)))
	}
	if err != nil {
		return plan.Session{}, fmt.Errorf("query session: %w", err)
	}

	var session plan.Session
	if err = json.Unmarshal(data, &session); err != nil {
		return plan.Session{}, fmt.Errorf("unmarshal session: %w", err)
	}
	return session, nil
}

// logReadiness records one day's readiness result for history views. Multiple
// submissions on the same day keep the latest result.
func (r *repository) logReadiness(
	ctx context.Context,
	userID string,
	date time.Time,
	result readiness.Result,
) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal readiness result: %w", err)
	}

	if _, err = r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO readiness_log (user_id, log_date, score, recommendation, data)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id, log_date) DO UPDATE SET
			score = excluded.score,
			recommendation = excluded.recommendation,
			data = excluded.data`,
		userID, date.Format(dateFormat), result.Score, string(result.Recommendation), data); err != nil {
		return fmt.Errorf("log readiness: %w", err)
	}
	return nil
}

// listReadiness returns logged results from the given date onward, oldest
// first.
func (r *repository) listReadiness(
	ctx context.Context,
	userID string,
	since time.Time,
) ([]readiness.Result, error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT data
		FROM readiness_log
		WHERE user_id = ? AND log_date >= ?
		ORDER BY log_date`,
		userID, since.Format(dateFormat))
	if err != nil {
		return nil, fmt.Errorf("query readiness log: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []readiness.Result
	for rows.Next() {
		var data []byte
		if err = rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan readiness log: %w", err)
		}
		var result readiness.Result
		if err = json.Unmarshal(data, &result); err != nil {
			return nil, fmt.Errorf("unmarshal readiness result: %w", err)
		}
		results = append(results, result)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate readiness log: %w", err)
	}
	return results, nil
}
