package services

import (
	"context"
	"fmt"
	"time"

	"github.com/tvu/thesisdesk/internal/app/models"
	"github.com/tvu/thesisdesk/internal/pkg/apperrors"
)

// TopicPlacement names one topic to schedule, with an optional explicit
// slot. Without a start time the allocator takes the next free slot in
// template order.
type TopicPlacement struct {
	TopicCode string
	StartTime *time.Time
}

// ScheduleService maps topics onto the fixed slot grid of a committee's two
// sessions. All capacity checks happen before any write; the storage layer
// revalidates through the committee version and the slot/topic uniqueness
// constraints.
type ScheduleService struct {
	committees  CommitteeStore
	topics      TopicStore
	lecturers   LecturerStore
	assignments AssignmentStore
}

// NewScheduleService creates a new schedule service.
func NewScheduleService(committees CommitteeStore, topics TopicStore, lecturers LecturerStore, assignments AssignmentStore) *ScheduleService {
	return &ScheduleService{
		committees:  committees,
		topics:      topics,
		lecturers:   lecturers,
		assignments: assignments,
	}
}

// AssignTopics places the given topics into one session of a committee.
// Rejections (capacity, eligibility, lifecycle, quota) happen before any
// mutation. Member defense quotas are a soft ceiling: overrideQuota skips
// that one check, every other rule stays hard.
func (s *ScheduleService) AssignTopics(ctx context.Context, committeeCode string, session models.SessionNumber, placements []TopicPlacement, overrideQuota bool) ([]models.Assignment, error) {
	if len(placements) == 0 {
		return nil, apperrors.New(apperrors.ErrInvalidRequest, "no topics to assign")
	}
	if !session.Valid() {
		return nil, apperrors.New(apperrors.ErrInvalidRequest, fmt.Sprintf("invalid session %d", session))
	}

	committee, err := s.committees.GetByCode(ctx, committeeCode)
	if err != nil {
		return nil, err
	}
	if err := s.committeeSchedulable(committee); err != nil {
		return nil, err
	}

	assignments, err := s.planPlacements(ctx, committee, session, placements, overrideQuota)
	if err != nil {
		return nil, err
	}

	if err := s.assignments.CreateBatch(ctx, committee.ID, committee.Version, assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

// planPlacements validates capacity and eligibility and maps each topic to
// a concrete slot, without touching storage.
func (s *ScheduleService) planPlacements(ctx context.Context, committee *models.Committee, session models.SessionNumber, placements []TopicPlacement, overrideQuota bool) ([]models.Assignment, error) {
	sess := committee.Session(session)
	if sess == nil {
		return nil, apperrors.New(apperrors.ErrInvalidRequest, fmt.Sprintf("committee has no session %d", session))
	}

	// The daily ceiling is checked before the per-session one: a committee
	// whose whole day is booked reports the day as full, not the session.
	if committee.TopicCount()+len(placements) > models.MaxTopicsPerDay {
		return nil, apperrors.New(apperrors.ErrDailyCapacityExceeded,
			fmt.Sprintf("committee %s would exceed %d topics for the day", committee.Code, models.MaxTopicsPerDay))
	}
	free := sess.FreeSlots(committee.DefenseDate)
	if len(placements) > len(free) {
		return nil, apperrors.New(apperrors.ErrSessionCapacityExceeded,
			fmt.Sprintf("%d topics requested, %d free slots in session %d", len(placements), len(free), session))
	}
	if !overrideQuota {
		if err := s.checkMemberQuotas(ctx, committee, len(placements)); err != nil {
			return nil, err
		}
	}

	codes := make([]string, 0, len(placements))
	seen := make(map[string]struct{}, len(placements))
	for _, p := range placements {
		if _, dup := seen[p.TopicCode]; dup {
			return nil, apperrors.New(apperrors.ErrInvalidRequest,
				fmt.Sprintf("topic %s listed twice", p.TopicCode))
		}
		seen[p.TopicCode] = struct{}{}
		codes = append(codes, p.TopicCode)
	}

	topics, err := s.topics.GetByCodes(ctx, codes)
	if err != nil {
		return nil, fmt.Errorf("error retrieving topics: %w", err)
	}
	for _, code := range codes {
		topic, ok := topics[code]
		if !ok {
			return nil, apperrors.New(apperrors.ErrTopicNotFound, fmt.Sprintf("topic %s not found", code))
		}
		if !topic.Approved() {
			return nil, apperrors.New(apperrors.ErrTopicNotEligible,
				fmt.Sprintf("topic %s is %s, only approved topics can be scheduled", code, topic.Status))
		}
		if _, err := s.assignments.GetByTopicCode(ctx, code); err == nil {
			return nil, apperrors.New(apperrors.ErrTopicAlreadyAssigned,
				fmt.Sprintf("topic %s already has an active assignment", code))
		} else if !apperrors.IsNotFound(err) {
			return nil, fmt.Errorf("error checking topic assignment: %w", err)
		}
	}

	// Explicit slots claim their start time first, the rest fill the
	// remaining free slots in template order.
	taken := make(map[int64]struct{})
	assignments := make([]models.Assignment, 0, len(placements))
	for _, p := range placements {
		if p.StartTime == nil {
			continue
		}
		start, ok := matchSlot(free, *p.StartTime)
		if !ok {
			return nil, apperrors.New(apperrors.ErrInvalidRequest,
				fmt.Sprintf("start time %s is not a free slot of session %d", p.StartTime.Format("15:04"), session))
		}
		if _, dup := taken[start.Unix()]; dup {
			return nil, apperrors.New(apperrors.ErrInvalidRequest,
				fmt.Sprintf("slot %s requested twice", start.Format("15:04")))
		}
		taken[start.Unix()] = struct{}{}
		assignments = append(assignments, models.NewAssignment(p.TopicCode, committee.Code, session, start))
	}
	for _, p := range placements {
		if p.StartTime != nil {
			continue
		}
		start, ok := nextFreeSlot(free, taken)
		if !ok {
			return nil, apperrors.New(apperrors.ErrSessionCapacityExceeded,
				fmt.Sprintf("no free slot left in session %d", session))
		}
		taken[start.Unix()] = struct{}{}
		assignments = append(assignments, models.NewAssignment(p.TopicCode, committee.Code, session, start))
	}

	return assignments, nil
}

// checkMemberQuotas rejects a batch that would push any committee member
// past their defense quota. Loads are the derived figures from the store,
// projected forward by the batch size since every member sits through every
// defense of the committee.
func (s *ScheduleService) checkMemberQuotas(ctx context.Context, committee *models.Committee, added int) error {
	if len(committee.Members) == 0 {
		return nil
	}
	codes := make([]string, 0, len(committee.Members))
	for _, m := range committee.Members {
		codes = append(codes, m.LecturerCode)
	}
	lecturers, err := s.lecturers.GetByCodes(ctx, codes)
	if err != nil {
		return fmt.Errorf("error loading committee members: %w", err)
	}
	for _, code := range codes {
		lecturer, ok := lecturers[code]
		if !ok {
			continue
		}
		if lecturer.CurrentDefenseLoad+added > lecturer.DefenseQuota {
			return apperrors.New(apperrors.ErrQuotaExceeded,
				fmt.Sprintf("lecturer %s would exceed the defense quota of %d", code, lecturer.DefenseQuota)).
				WithDetails(map[string]interface{}{
					"lecturerCode": code,
					"currentLoad":  lecturer.CurrentDefenseLoad,
					"quota":        lecturer.DefenseQuota,
				})
		}
	}
	return nil
}

// RemoveAssignment frees a topic's slot immediately. It does not compact or
// shift other topics; the vacated slot is simply free again.
func (s *ScheduleService) RemoveAssignment(ctx context.Context, topicCode string) error {
	return s.assignments.DeleteByTopicCode(ctx, topicCode)
}

// ChangeAssignment moves a topic to another session or slot of its
// committee. An assignment is never edited in place: the move is a removal
// followed by a fresh placement.
func (s *ScheduleService) ChangeAssignment(ctx context.Context, committeeCode, topicCode string, session models.SessionNumber, startTime *time.Time, overrideQuota bool) (*models.Assignment, error) {
	existing, err := s.assignments.GetByTopicCode(ctx, topicCode)
	if err != nil {
		return nil, err
	}
	if existing.CommitteeCode != committeeCode {
		return nil, apperrors.New(apperrors.ErrInvalidRequest,
			fmt.Sprintf("topic %s is assigned to committee %s, not %s", topicCode, existing.CommitteeCode, committeeCode))
	}

	if err := s.assignments.DeleteByTopicCode(ctx, topicCode); err != nil {
		return nil, err
	}

	created, err := s.AssignTopics(ctx, committeeCode, session, []TopicPlacement{{TopicCode: topicCode, StartTime: startTime}}, overrideQuota)
	if err != nil {
		return nil, err
	}
	return &created[0], nil
}

func (s *ScheduleService) committeeSchedulable(committee *models.Committee) error {
	switch committee.Status {
	case models.CommitteeFinalized:
		return apperrors.ErrCommitteeFinalized
	case models.CommitteeTopicsPending:
		return nil
	default:
		return apperrors.New(apperrors.ErrIncompleteRequiredRoles,
			fmt.Sprintf("committee %s has no saved membership yet", committee.Code))
	}
}

func matchSlot(free []time.Time, want time.Time) (time.Time, bool) {
	for _, t := range free {
		if t.Equal(want) {
			return t, true
		}
	}
	return time.Time{}, false
}

func nextFreeSlot(free []time.Time, taken map[int64]struct{}) (time.Time, bool) {
	for _, t := range free {
		if _, ok := taken[t.Unix()]; !ok {
			return t, true
		}
	}
	return time.Time{}, false
}
