package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/tvu/thesisdesk/internal/app/models"
	"github.com/tvu/thesisdesk/internal/pkg/apperrors"
	"github.com/tvu/thesisdesk/internal/pkg/logger"
)

// CommitteePlacement is the allocator's report for one committee.
type CommitteePlacement struct {
	CommitteeCode string
	Topics        []*models.Topic
}

// AutoAssignResult is the outcome of one bulk allocation run. Unplaced
// counts eligible topics no committee could take, which is an outcome, not
// an error.
type AutoAssignResult struct {
	Placements  []CommitteePlacement
	PlacedCount int
	Unplaced    int
}

// AutoAssignService packs the eligible topic pool across a set of
// committees. The allocator is a deterministic single-pass greedy: inputs
// are small and a predictable result is worth more than a provably optimal
// packing. The full decision is computed on a snapshot before anything is
// written; the commit step revalidates through the committee versions.
type AutoAssignService struct {
	committees  CommitteeStore
	topics      TopicStore
	lecturers   LecturerStore
	assignments AssignmentStore
}

// NewAutoAssignService creates a new auto-assignment service.
func NewAutoAssignService(committees CommitteeStore, topics TopicStore, lecturers LecturerStore, assignments AssignmentStore) *AutoAssignService {
	return &AutoAssignService{
		committees:  committees,
		topics:      topics,
		lecturers:   lecturers,
		assignments: assignments,
	}
}

// AutoAssign fills the named committees from the eligible topic pool.
func (s *AutoAssignService) AutoAssign(ctx context.Context, committeeCodes []string) (*AutoAssignResult, error) {
	if len(committeeCodes) == 0 {
		return nil, apperrors.New(apperrors.ErrInvalidRequest, "no committees provided")
	}

	snapshot, err := s.loadSnapshot(ctx, committeeCodes)
	if err != nil {
		return nil, err
	}

	decision := s.decide(snapshot)

	// Writes happen only after the whole decision is computed, never
	// incrementally, so an aborted run commits nothing.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.commit(ctx, snapshot, decision); err != nil {
		return nil, err
	}

	return s.report(snapshot, decision), nil
}

// allocationSnapshot is the consistent view of the world the decision runs
// against. No lock is held over it; staleness surfaces at commit time.
type allocationSnapshot struct {
	committees []*models.Committee
	pool       []*models.Topic
	lecturers  map[string]*models.Lecturer
}

func (s *AutoAssignService) loadSnapshot(ctx context.Context, committeeCodes []string) (*allocationSnapshot, error) {
	snap := &allocationSnapshot{}

	seen := make(map[string]struct{}, len(committeeCodes))
	for _, code := range committeeCodes {
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		committee, err := s.committees.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		snap.committees = append(snap.committees, committee)
	}

	err := withRetry(ctx, "eligible topic pool", func(ctx context.Context) error {
		var opErr error
		snap.pool, opErr = s.topics.ListEligible(ctx, nil)
		return opErr
	})
	if err != nil {
		return nil, fmt.Errorf("error loading eligible topics: %w", err)
	}

	var memberCodes []string
	for _, committee := range snap.committees {
		for _, m := range committee.Members {
			memberCodes = append(memberCodes, m.LecturerCode)
		}
	}
	if len(memberCodes) > 0 {
		snap.lecturers, err = s.lecturers.GetByCodes(ctx, memberCodes)
		if err != nil {
			return nil, fmt.Errorf("error loading committee members: %w", err)
		}
	} else {
		snap.lecturers = map[string]*models.Lecturer{}
	}

	return snap, nil
}

// decision maps committee code to the assignments to create there.
type decision map[string][]models.Assignment

func (s *AutoAssignService) decide(snap *allocationSnapshot) decision {
	// Projected defense load per lecturer, seeded from the derived
	// current load; each placement burdens every member of the committee.
	projected := make(map[string]int, len(snap.lecturers))
	for code, lecturer := range snap.lecturers {
		projected[code] = lecturer.CurrentDefenseLoad
	}

	// Least-loaded committees first, code ascending on ties, so the run
	// balances load and stays reproducible.
	ordered := make([]*models.Committee, len(snap.committees))
	copy(ordered, snap.committees)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].TopicCount() != ordered[j].TopicCount() {
			return ordered[i].TopicCount() < ordered[j].TopicCount()
		}
		return ordered[i].Code < ordered[j].Code
	})

	placed := make(map[string]struct{})
	result := decision{}

	for _, committee := range ordered {
		if committee.Status != models.CommitteeTopicsPending {
			logger.Debug().Str("committee", committee.Code).Str("status", string(committee.Status)).
				Msg("Committee not ready for topics, skipping in auto-assign")
			continue
		}

		candidates := s.rankCandidates(committee, snap.pool, placed)
		slots := s.freeSlotQueue(committee)
		dailyLeft := models.MaxTopicsPerDay - committee.TopicCount()

		for _, topic := range candidates {
			if dailyLeft <= 0 || len(slots) == 0 {
				break
			}
			if !s.membersHaveQuota(committee, snap.lecturers, projected) {
				break
			}

			slot := slots[0]
			slots = slots[1:]
			result[committee.Code] = append(result[committee.Code],
				models.NewAssignment(topic.Code, committee.Code, slot.session, slot.start))
			placed[topic.Code] = struct{}{}
			dailyLeft--
			for _, m := range committee.Members {
				projected[m.LecturerCode]++
			}
		}
	}

	return result
}

// rankCandidates orders the unplaced pool by tag affinity against the
// committee, highest first, topic code ascending on ties. A committee with
// tags only sees topics sharing at least one tag; a committee without tags
// sees the whole pool.
func (s *AutoAssignService) rankCandidates(committee *models.Committee, pool []*models.Topic, placed map[string]struct{}) []*models.Topic {
	type scored struct {
		topic    *models.Topic
		affinity int
	}
	var candidates []scored
	for _, topic := range pool {
		if _, done := placed[topic.Code]; done {
			continue
		}
		affinity := models.TagAffinity(topic.TagCodes, committee.TagCodes)
		if len(committee.TagCodes) > 0 && affinity == 0 {
			continue
		}
		candidates = append(candidates, scored{topic: topic, affinity: affinity})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].affinity != candidates[j].affinity {
			return candidates[i].affinity > candidates[j].affinity
		}
		return candidates[i].topic.Code < candidates[j].topic.Code
	})

	topics := make([]*models.Topic, len(candidates))
	for i, c := range candidates {
		topics[i] = c.topic
	}
	return topics
}

type slotRef struct {
	session models.SessionNumber
	start   time.Time
}

// freeSlotQueue lists the committee's free slots, session 1 exhausted
// before session 2, each session in template order.
func (s *AutoAssignService) freeSlotQueue(committee *models.Committee) []slotRef {
	var queue []slotRef
	for _, n := range []models.SessionNumber{models.SessionMorning, models.SessionAfternoon} {
		sess := committee.Session(n)
		if sess == nil {
			sess = &models.Session{Number: n}
		}
		for _, start := range sess.FreeSlots(committee.DefenseDate) {
			queue = append(queue, slotRef{session: n, start: start})
		}
	}
	return queue
}

// membersHaveQuota checks whether every member of the committee can absorb
// one more defense duty under the projected load.
func (s *AutoAssignService) membersHaveQuota(committee *models.Committee, lecturers map[string]*models.Lecturer, projected map[string]int) bool {
	for _, m := range committee.Members {
		lecturer, ok := lecturers[m.LecturerCode]
		if !ok {
			return false
		}
		if projected[m.LecturerCode]+1 > lecturer.DefenseQuota {
			return false
		}
	}
	return true
}

func (s *AutoAssignService) commit(ctx context.Context, snap *allocationSnapshot, dec decision) error {
	for _, committee := range snap.committees {
		assignments := dec[committee.Code]
		if len(assignments) == 0 {
			continue
		}
		if err := s.assignments.CreateBatch(ctx, committee.ID, committee.Version, assignments); err != nil {
			return fmt.Errorf("committing placements for committee %s: %w", committee.Code, err)
		}
	}
	return nil
}

func (s *AutoAssignService) report(snap *allocationSnapshot, dec decision) *AutoAssignResult {
	topicsByCode := make(map[string]*models.Topic, len(snap.pool))
	for _, topic := range snap.pool {
		topicsByCode[topic.Code] = topic
	}

	result := &AutoAssignResult{}
	for _, committee := range snap.committees {
		placement := CommitteePlacement{CommitteeCode: committee.Code, Topics: []*models.Topic{}}
		for _, a := range dec[committee.Code] {
			placement.Topics = append(placement.Topics, topicsByCode[a.TopicCode])
		}
		result.PlacedCount += len(placement.Topics)
		result.Placements = append(result.Placements, placement)
	}
	result.Unplaced = len(snap.pool) - result.PlacedCount
	return result
}
