package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tvu/thesisdesk/internal/app/models"
	"github.com/tvu/thesisdesk/internal/pkg/apperrors"
)

// TopicSchedule is one topic's scheduling metadata as either persisted or
// desired by the user.
type TopicSchedule struct {
	TopicCode string
	Session   models.SessionNumber
	StartTime time.Time
}

// ReconcilePlan is the minimal set of operations turning the persisted
// topic set of a committee into the desired one.
type ReconcilePlan struct {
	Removed []string
	Added   []TopicSchedule
	Kept    []string
	Changed []TopicSchedule
}

// Empty reports whether the plan contains no work.
func (p *ReconcilePlan) Empty() bool {
	return len(p.Removed) == 0 && len(p.Added) == 0 && len(p.Changed) == 0
}

// BuildPlan diffs the persisted topic schedules against the desired ones:
// removed = persisted − desired, added = desired − persisted, kept = the
// intersection, with kept items whose schedule moved listed as changed.
func BuildPlan(persisted, desired []TopicSchedule) ReconcilePlan {
	persistedBy := make(map[string]TopicSchedule, len(persisted))
	for _, t := range persisted {
		persistedBy[t.TopicCode] = t
	}
	desiredBy := make(map[string]TopicSchedule, len(desired))
	for _, t := range desired {
		desiredBy[t.TopicCode] = t
	}

	var plan ReconcilePlan
	for _, t := range persisted {
		if _, ok := desiredBy[t.TopicCode]; !ok {
			plan.Removed = append(plan.Removed, t.TopicCode)
		}
	}
	for _, t := range desired {
		old, ok := persistedBy[t.TopicCode]
		if !ok {
			plan.Added = append(plan.Added, t)
			continue
		}
		plan.Kept = append(plan.Kept, t.TopicCode)
		if old.Session != t.Session || !old.StartTime.Equal(t.StartTime) {
			plan.Changed = append(plan.Changed, t)
		}
	}
	return plan
}

// ItemError points at the specific item that failed mid-sequence, so the
// caller can retry just that item.
type ItemError struct {
	TopicCode string
	Err       error
}

// Error implements the error interface.
func (e *ItemError) Error() string {
	return fmt.Sprintf("reconcile failed at topic %s: %v", e.TopicCode, e.Err)
}

// Unwrap exposes the underlying error.
func (e *ItemError) Unwrap() error {
	return e.Err
}

// ReconcileService applies a user's pending committee edits against the
// previously persisted state. Removals are issued before additions so a
// committee at capacity can swap topics; applied removals are idempotent
// and are deliberately not rolled back when a later step fails.
type ReconcileService struct {
	schedule   *ScheduleService
	committees CommitteeStore
}

// NewReconcileService creates a new reconcile service.
func NewReconcileService(schedule *ScheduleService, committees CommitteeStore) *ReconcileService {
	return &ReconcileService{schedule: schedule, committees: committees}
}

// SaveSchedule reconciles a committee's stored topic set with the desired
// one. Topics absent from desired are unscheduled, so an empty desired set
// clears the committee's day. The applied plan is returned for reporting.
func (s *ReconcileService) SaveSchedule(ctx context.Context, committeeCode string, desired []TopicSchedule, overrideQuota bool) (ReconcilePlan, error) {
	var committee *models.Committee
	err := withRetry(ctx, "load committee schedule", func(ctx context.Context) error {
		var opErr error
		committee, opErr = s.committees.GetByCode(ctx, committeeCode)
		return opErr
	})
	if err != nil {
		return ReconcilePlan{}, err
	}

	plan := BuildPlan(persistedSchedules(committee), desired)
	if plan.Empty() {
		return plan, nil
	}
	return plan, s.Apply(ctx, committeeCode, plan, overrideQuota)
}

// persistedSchedules flattens a committee's stored assignments into the
// diffable schedule form.
func persistedSchedules(committee *models.Committee) []TopicSchedule {
	var schedules []TopicSchedule
	for _, sess := range committee.Sessions {
		for _, a := range sess.Assignments {
			schedules = append(schedules, TopicSchedule{
				TopicCode: a.TopicCode,
				Session:   a.Session,
				StartTime: a.StartTime,
			})
		}
	}
	return schedules
}

// Apply executes a plan: all removals first, then additions batched per
// session, then moves for kept items whose schedule changed.
func (s *ReconcileService) Apply(ctx context.Context, committeeCode string, plan ReconcilePlan, overrideQuota bool) error {
	for _, topicCode := range plan.Removed {
		err := withRetry(ctx, "remove assignment", func(ctx context.Context) error {
			return s.schedule.RemoveAssignment(ctx, topicCode)
		})
		// Already gone is the outcome we wanted.
		if err != nil && !errors.Is(err, apperrors.ErrAssignmentNotFound) {
			return &ItemError{TopicCode: topicCode, Err: err}
		}
	}

	for _, session := range []models.SessionNumber{models.SessionMorning, models.SessionAfternoon} {
		var placements []TopicPlacement
		for _, t := range plan.Added {
			if t.Session != session {
				continue
			}
			start := t.StartTime
			placements = append(placements, TopicPlacement{TopicCode: t.TopicCode, StartTime: startOrNil(start)})
		}
		if len(placements) == 0 {
			continue
		}
		err := withRetry(ctx, "assign topics", func(ctx context.Context) error {
			_, opErr := s.schedule.AssignTopics(ctx, committeeCode, session, placements, overrideQuota)
			return opErr
		})
		if err != nil {
			return &ItemError{TopicCode: placements[0].TopicCode, Err: err}
		}
	}

	for _, t := range plan.Changed {
		err := withRetry(ctx, "change assignment", func(ctx context.Context) error {
			_, opErr := s.schedule.ChangeAssignment(ctx, committeeCode, t.TopicCode, t.Session, startOrNil(t.StartTime), overrideQuota)
			return opErr
		})
		if err != nil {
			return &ItemError{TopicCode: t.TopicCode, Err: err}
		}
	}

	return nil
}

func startOrNil(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
