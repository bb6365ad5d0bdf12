package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tvu/thesisdesk/internal/app/models"
	"github.com/tvu/thesisdesk/internal/pkg/apperrors"
)

// CommitteeService handles the committee lifecycle around the assignment
// engine: creation, metadata edits, finalization and cascading deletion.
type CommitteeService struct {
	committees CommitteeStore
}

// NewCommitteeService creates a new committee service.
func NewCommitteeService(committees CommitteeStore) *CommitteeService {
	return &CommitteeService{committees: committees}
}

// CreateCommittee creates an empty committee in Draft state with a freshly
// generated sequential code.
func (s *CommitteeService) CreateCommittee(ctx context.Context, name string, defenseDate time.Time, room string, tagCodes []string) (*models.Committee, error) {
	if defenseDate.IsZero() {
		return nil, apperrors.New(apperrors.ErrInvalidRequest, "defense date is required")
	}

	committee := &models.Committee{
		Name:        strings.TrimSpace(name),
		DefenseDate: defenseDate,
		Room:        strings.TrimSpace(room),
		TagCodes:    tagCodes,
	}
	if err := s.committees.Create(ctx, committee); err != nil {
		return nil, fmt.Errorf("error creating committee: %w", err)
	}
	if committee.Name == "" {
		committee.Name = fmt.Sprintf("Defense committee %s", committee.Code)
	}
	return committee, nil
}

// GetCommittee retrieves a committee with members and sessions.
func (s *CommitteeService) GetCommittee(ctx context.Context, code string) (*models.Committee, error) {
	return s.committees.GetByCode(ctx, code)
}

// ListCommittees retrieves all committees.
func (s *CommitteeService) ListCommittees(ctx context.Context) ([]*models.Committee, error) {
	return s.committees.List(ctx)
}

// UpdateCommittee edits committee metadata. Finalized committees are
// immutable; the expected version guards against concurrent editors.
func (s *CommitteeService) UpdateCommittee(ctx context.Context, code string, name, room *string, defenseDate *time.Time, tagCodes []string, expectedVersion int) (*models.Committee, error) {
	committee, err := s.committees.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if committee.Status == models.CommitteeFinalized {
		return nil, apperrors.ErrCommitteeFinalized
	}
	if committee.Version != expectedVersion {
		return nil, apperrors.ErrStaleVersion
	}

	if name != nil {
		committee.Name = strings.TrimSpace(*name)
	}
	if room != nil {
		committee.Room = strings.TrimSpace(*room)
	}
	if defenseDate != nil {
		if committee.TopicCount() > 0 && !defenseDate.Equal(committee.DefenseDate) {
			return nil, apperrors.New(apperrors.ErrInvalidRequest,
				"cannot move the defense date while topics are scheduled")
		}
		committee.DefenseDate = *defenseDate
	}
	if tagCodes != nil {
		committee.TagCodes = tagCodes
	}

	if err := s.committees.UpdateMeta(ctx, committee, expectedVersion); err != nil {
		return nil, err
	}
	return committee, nil
}

// FinalizeCommittee locks a committee. It requires a complete membership
// and at least one scheduled topic.
func (s *CommitteeService) FinalizeCommittee(ctx context.Context, code string) (*models.Committee, error) {
	committee, err := s.committees.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if committee.Status == models.CommitteeFinalized {
		return committee, nil
	}
	if committee.Status != models.CommitteeTopicsPending {
		return nil, apperrors.New(apperrors.ErrInvalidTransition,
			fmt.Sprintf("committee %s is %s, membership must be completed first", code, committee.Status))
	}
	if committee.TopicCount() == 0 {
		return nil, apperrors.New(apperrors.ErrInvalidRequest,
			"cannot finalize a committee with no scheduled topics")
	}

	if err := s.committees.UpdateStatus(ctx, code, models.CommitteeFinalized, committee.Version); err != nil {
		return nil, err
	}
	committee.Status = models.CommitteeFinalized
	committee.Version++
	return committee, nil
}

// DeleteCommittee removes a committee; its memberships and assignments are
// cascaded away with it, freeing every involved topic and lecturer.
func (s *CommitteeService) DeleteCommittee(ctx context.Context, code string) error {
	return s.committees.Delete(ctx, code)
}
