package services

import (
	"context"
	"fmt"

	"github.com/tvu/thesisdesk/internal/app/models"
)

// EligibilityService resolves which lecturers and topics currently qualify
// for committee duty or scheduling. Resolution is a pure read: the union
// across tags is computed in one store query, so a partially failed
// multi-tag lookup can never masquerade as a complete result.
type EligibilityService struct {
	lecturers  LecturerStore
	topics     TopicStore
	committees CommitteeStore
}

// NewEligibilityService creates a new eligibility service.
func NewEligibilityService(lecturers LecturerStore, topics TopicStore, committees CommitteeStore) *EligibilityService {
	return &EligibilityService{
		lecturers:  lecturers,
		topics:     topics,
		committees: committees,
	}
}

// EligibleLecturers returns the deduplicated set of lecturers matching any
// of the given tags, or the full pool when no tags are given. Each carries
// its derived defense load so callers can render quota headroom.
func (s *EligibilityService) EligibleLecturers(ctx context.Context, tagCodes []string) ([]*models.Lecturer, error) {
	var lecturers []*models.Lecturer
	err := withRetry(ctx, "eligible lecturers", func(ctx context.Context) error {
		var opErr error
		lecturers, opErr = s.lecturers.ListByTags(ctx, tagCodes)
		return opErr
	})
	if err != nil {
		return nil, fmt.Errorf("error resolving eligible lecturers: %w", err)
	}
	return lecturers, nil
}

// EligibleTopics returns topics that are approved and unassigned, matching
// any of the given tags; no tags means the full eligible pool.
func (s *EligibilityService) EligibleTopics(ctx context.Context, tagCodes []string) ([]*models.Topic, error) {
	var topics []*models.Topic
	err := withRetry(ctx, "eligible topics", func(ctx context.Context) error {
		var opErr error
		topics, opErr = s.topics.ListEligible(ctx, tagCodes)
		return opErr
	})
	if err != nil {
		return nil, fmt.Errorf("error resolving eligible topics: %w", err)
	}
	return topics, nil
}

// EligibleTopicsForCommittee resolves the eligible pool using the
// committee's own specialty tags as the filter.
func (s *EligibilityService) EligibleTopicsForCommittee(ctx context.Context, committeeCode string) ([]*models.Topic, error) {
	committee, err := s.committees.GetByCode(ctx, committeeCode)
	if err != nil {
		return nil, err
	}
	return s.EligibleTopics(ctx, committee.TagCodes)
}
