// Package coach ties plan generation and readiness adjustment together behind
// a persistent, per-user service.
package coach

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jkarvonen/trainwell/internal/catalog"
	"github.com/jkarvonen/trainwell/internal/errors"
	"github.com/jkarvonen/trainwell/internal/plan"
	"github.com/jkarvonen/trainwell/internal/readiness"
	"github.com/jkarvonen/trainwell/internal/sqlite"
)

// Service handles the business logic for training plans and daily readiness.
type Service struct {
	repo      *repository
	logger    *slog.Logger
	generator *plan.Generator
	adjuster  *readiness.Adjuster
	now       func() time.Time

	// userLocks serializes readiness submissions per user so the
	// read-modify-write of the baseline never races with itself.
	mu        sync.Mutex
	userLocks map[string]*sync.Mutex
}

// NewService loads the exercise catalog and template library and wires up a
// coach service on the given database.
func NewService(db *sqlite.Database, logger *slog.Logger) (*Service, error) {
	cat, err := catalog.Load()
	if err != nil {
		return nil, errors.Wrap(err, "load exercise catalog")
	}
	lib, err := plan.LoadLibrary()
	if err != nil {
		return nil, errors.Wrap(err, "load template library")
	}

	return &Service{
		repo:      newRepository(db),
		logger:    logger,
		generator: plan.NewGenerator(cat, lib),
		adjuster:  readiness.NewAdjuster(cat),
		now:       time.Now,
		userLocks: make(map[string]*sync.Mutex),
	}, nil
}

// ReadinessOutcome is everything one readiness submission produces.
type ReadinessOutcome struct {
	Result     readiness.Result       `json:"result"`
	Report     readiness.UpdateReport `json:"baseline_report"`
	Adjustment readiness.Adjustment   `json:"adjustment"`
}

// ProposePlan generates and persists a training plan for the user.
func (s *Service) ProposePlan(ctx context.Context, req plan.Request) (plan.DraftPlan, error) {
	draft, err := s.generator.Propose(req)
	if err != nil {
		return plan.DraftPlan{}, errors.Wrap(err, "propose plan")
	}
	draft.ID = uuid.NewString()

	if err = s.repo.savePlan(ctx, req.UserID, draft, s.now()); err != nil {
		return plan.DraftPlan{}, errors.Wrap(err, "persist plan")
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "proposed plan",
		slog.String("user_id", req.UserID),
		slog.String("plan_id", draft.ID),
		slog.String("template_id", draft.TemplateID))
	return draft, nil
}

// Plan retrieves a stored plan by id.
func (s *Service) Plan(ctx context.Context, planID string) (plan.DraftPlan, error) {
	draft, err := s.repo.getPlan(ctx, planID)
	if err != nil {
		return plan.DraftPlan{}, errors.Wrap(err, "get plan")
	}
	return draft, nil
}

// Plans lists the user's stored plans, oldest first.
func (s *Service) Plans(ctx context.Context, userID string) ([]plan.DraftPlan, error) {
	drafts, err := s.repo.listPlans(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "list plans")
	}
	return drafts, nil
}

// ScheduleSession stores a workout session for the user on the given date,
// replacing any previously scheduled session.
func (s *Service) ScheduleSession(ctx context.Context, userID string, date time.Time, session plan.Session) error {
	if err := s.repo.saveSession(ctx, userID, date, session, s.now()); err != nil {
		return errors.Wrap(err, "schedule session")
	}
	return nil
}

// Session retrieves the session scheduled for the user on the given date.
func (s *Service) Session(ctx context.Context, userID string, date time.Time) (plan.Session, error) {
	session, err := s.repo.getSession(ctx, userID, date)
	if err != nil {
		return plan.Session{}, errors.Wrap(err, "get session")
	}
	return session, nil
}

// Baseline retrieves the user's learned baseline. A user with no submissions
// yet gets an empty baseline.
func (s *Service) Baseline(ctx context.Context, userID string) (readiness.Baseline, error) {
	baseline, err := s.repo.getBaseline(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return readiness.NewBaseline(userID), nil
	}
	if err != nil {
		return readiness.Baseline{}, errors.Wrap(err, "get baseline")
	}
	return baseline, nil
}

// ReadinessHistory lists logged readiness results from the given date onward.
func (s *Service) ReadinessHistory(ctx context.Context, userID string, since time.Time) ([]readiness.Result, error) {
	results, err := s.repo.listReadiness(ctx, userID, since)
	if err != nil {
		return nil, errors.Wrap(err, "list readiness history")
	}
	return results, nil
}

// SubmitReadiness processes one day's readiness submission: it scores the
// day against the baseline as it stood before the submission, folds the
// sample into the baseline, and adjusts the session scheduled for the date.
// Submissions for the same user are serialized.
func (s *Service) SubmitReadiness(
	ctx context.Context,
	userID string,
	date time.Time,
	input readiness.Input,
) (ReadinessOutcome, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	baseline, err := s.Baseline(ctx, userID)
	if err != nil {
		return ReadinessOutcome{}, err
	}

	// Scoring uses the pre-submission baseline, so it can run concurrently
	// with the baseline update.
	var (
		updated readiness.Baseline
		report  readiness.UpdateReport
		result  readiness.Result
	)
	var g errgroup.Group
	g.Go(func() error {
		updated, report = readiness.UpdateBaseline(baseline, input.Sample, s.now())
		return nil
	})
	g.Go(func() error {
		var scoreErr error
		result, scoreErr = readiness.ScoreReadiness(baseline, input)
		return scoreErr
	})
	if err = g.Wait(); err != nil {
		return ReadinessOutcome{}, errors.Wrap(err, "score readiness")
	}

	if err = s.repo.saveBaseline(ctx, updated); err != nil {
		return ReadinessOutcome{}, errors.Wrap(err, "persist baseline")
	}

	adjustment, err := s.adjustScheduledSession(ctx, userID, date, result.Recommendation, input.MinutesAvailable)
	if err != nil {
		return ReadinessOutcome{}, err
	}

	if err = s.repo.logReadiness(ctx, userID, date, result); err != nil {
		return ReadinessOutcome{}, errors.Wrap(err, "log readiness")
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "submitted readiness",
		slog.String("user_id", userID),
		slog.Int("score", result.Score),
		slog.String("recommendation", string(result.Recommendation)),
		slog.Float64("confidence", result.Confidence))
	return ReadinessOutcome{Result: result, Report: report, Adjustment: adjustment}, nil
}

// adjustScheduledSession applies the recommendation to the session scheduled
// for the date, if any, and persists the rewritten session.
func (s *Service) adjustScheduledSession(
	ctx context.Context,
	userID string,
	date time.Time,
	tier readiness.Tier,
	minutesAvailable int,
) (readiness.Adjustment, error) {
	session, err := s.repo.getSession(ctx, userID, date)
	if errors.Is(err, ErrNotFound) {
		return s.adjuster.Apply(tier, nil, minutesAvailable), nil
	}
	if err != nil {
		return readiness.Adjustment{}, errors.Wrap(err, "get scheduled session")
	}

	adjustment := s.adjuster.Apply(tier, &session, minutesAvailable)
	if adjustment.Session != nil {
		if err = s.repo.saveSession(ctx, userID, date, *adjustment.Session, s.now()); err != nil {
			return readiness.Adjustment{}, errors.Wrap(err, "persist adjusted session")
		}
	}
	return adjustment, nil
}

func (s *Service) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.userLocks[userID] = lock
	}
	return lock
}
