package streak

import (
	"context"
	"fmt"
	"os"

	"github.com/jonboulle/clockwork"
)

const dayLayout = "2006-01-02"

// Repo is the durable home of the streak record and of today's session
// minutes. *store.LocalState satisfies it.
type Repo interface {
	LoadStreak(ctx context.Context) (*Record, error)
	SaveStreak(ctx context.Context, rec Record) error

	// AddSessionMinutes accumulates minutes under a UTC day key and
	// returns the day's new total.
	AddSessionMinutes(ctx context.Context, day string, minutes int) (int, error)
}

// Mirror pushes the streak record to the backend. *api.Client satisfies
// it.
type Mirror interface {
	MirrorStreak(ctx context.Context, rec Record) error
}

// Service runs the state machine against persisted state: load or default
// the record, apply the transition, persist, then mirror to the backend
// best-effort. Local state remains the source of truth for streak
// continuity within a session.
type Service struct {
	repo   Repo
	mirror Mirror // may be nil
	tier   Tier
	clock  clockwork.Clock
}

// NewService creates a streak Service. mirror may be nil when the backend
// is unreachable or unconfigured.
func NewService(repo Repo, mirror Mirror, tier Tier, clock clockwork.Clock) *Service {
	return &Service{repo: repo, mirror: mirror, tier: tier, clock: clock}
}

// Update adds practice minutes to today and applies the streak
// transition.
func (s *Service) Update(ctx context.Context, minutesAdded int) (Result, error) {
	if minutesAdded < 0 {
		minutesAdded = 0
	}
	now := s.clock.Now().UTC()

	rec, err := s.repo.LoadStreak(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load streak record: %w", err)
	}
	if rec == nil {
		rec = &Record{}
	}

	// Session minutes are keyed by UTC day, so a record carrying another
	// day's TodayMinutes cannot leak into today's goal.
	total, err := s.repo.AddSessionMinutes(ctx, now.Format(dayLayout), minutesAdded)
	if err != nil {
		return Result{}, fmt.Errorf("accumulate session minutes: %w", err)
	}
	rec.TodayMinutes = total - minutesAdded

	res := Update(*rec, minutesAdded, s.tier, now)
	if err := s.repo.SaveStreak(ctx, res.Record); err != nil {
		return res, fmt.Errorf("persist streak record: %w", err)
	}

	// Mirror the record but don't fail the update if the backend is down.
	if s.mirror != nil {
		if err := s.mirror.MirrorStreak(ctx, res.Record); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to mirror streak record: %v\n", err)
		}
	}
	return res, nil
}

// Risk evaluates the persisted record without mutating it.
func (s *Service) Risk(ctx context.Context) (Risk, error) {
	rec, err := s.repo.LoadStreak(ctx)
	if err != nil {
		return Risk{}, fmt.Errorf("load streak record: %w", err)
	}
	if rec == nil {
		return Risk{Message: "No active streak"}, nil
	}
	return CheckRisk(*rec, s.tier, s.clock.Now()), nil
}

// Current returns the persisted record, or a zero record when none
// exists.
func (s *Service) Current(ctx context.Context) (Record, error) {
	rec, err := s.repo.LoadStreak(ctx)
	if err != nil {
		return Record{}, fmt.Errorf("load streak record: %w", err)
	}
	if rec == nil {
		return Record{}, nil
	}
	return *rec, nil
}
