package services

import (
	"context"
	"fmt"

	"github.com/tvu/thesisdesk/internal/app/models"
	"github.com/tvu/thesisdesk/internal/pkg/apperrors"
)

// MembershipService fills and edits the fixed role slots of a committee.
// Every precondition is checked before anything is written, so a rejected
// operation leaves the membership untouched.
type MembershipService struct {
	committees CommitteeStore
	lecturers  LecturerStore
}

// NewMembershipService creates a new membership service.
func NewMembershipService(committees CommitteeStore, lecturers LecturerStore) *MembershipService {
	return &MembershipService{
		committees: committees,
		lecturers:  lecturers,
	}
}

// SaveMembers replaces the complete member set of a committee. Whether this
// is the first save or an update of a saved set is decided here, not by the
// caller. A valid full set advances the committee to the topics step.
func (s *MembershipService) SaveMembers(ctx context.Context, committeeCode string, members []models.CommitteeMember) (*models.Committee, error) {
	committee, err := s.committees.GetByCode(ctx, committeeCode)
	if err != nil {
		return nil, err
	}
	if committee.Status == models.CommitteeFinalized {
		return nil, apperrors.ErrCommitteeFinalized
	}

	for i := range members {
		members[i].IsChair = members[i].Role == models.RoleChair
	}

	lecturers, err := s.lookupLecturers(ctx, members)
	if err != nil {
		return nil, err
	}
	if err := models.ValidateMemberSet(members, lecturers); err != nil {
		return nil, err
	}

	if err := s.committees.ReplaceMembers(ctx, committee.ID, committee.Version, members); err != nil {
		return nil, fmt.Errorf("error saving members: %w", err)
	}
	committee.Members = members
	committee.Version++

	// A complete, valid member set moves the committee through the
	// membership step to topic scheduling.
	if err := s.advance(ctx, committee, models.CommitteeTopicsPending); err != nil {
		return nil, err
	}
	return committee, nil
}

// AssignMember places one lecturer into one role slot, leaving the other
// slots alone. Used by the step-by-step committee wizard; the full-set
// gates (all required roles filled) apply when the set is saved, not here.
func (s *MembershipService) AssignMember(ctx context.Context, committeeCode string, role models.CommitteeRole, lecturerCode string) (*models.Committee, error) {
	committee, err := s.committees.GetByCode(ctx, committeeCode)
	if err != nil {
		return nil, err
	}
	if committee.Status == models.CommitteeFinalized {
		return nil, apperrors.ErrCommitteeFinalized
	}
	if !role.Valid() {
		return nil, apperrors.New(apperrors.ErrInvalidRequest, fmt.Sprintf("unknown role %q", role))
	}

	lecturer, err := s.lecturers.GetByCode(ctx, lecturerCode)
	if err != nil {
		return nil, err
	}

	for _, m := range committee.Members {
		if m.LecturerCode == lecturerCode && m.Role != role {
			return nil, apperrors.New(apperrors.ErrRoleExclusivity,
				fmt.Sprintf("lecturer %s already holds role %s", lecturerCode, m.Role))
		}
	}
	if role == models.RoleChair && !lecturer.ChairEligible() {
		return nil, apperrors.New(apperrors.ErrChairDegree,
			fmt.Sprintf("lecturer %s holds %s, chair requires a doctorate", lecturerCode, lecturer.Degree))
	}

	member := models.CommitteeMember{
		Role:         role,
		LecturerCode: lecturerCode,
		IsChair:      role == models.RoleChair,
	}
	members := replaceRole(committee.Members, member)

	if err := s.committees.ReplaceMembers(ctx, committee.ID, committee.Version, members); err != nil {
		return nil, fmt.Errorf("error assigning member: %w", err)
	}
	committee.Members = members
	committee.Version++

	if err := s.advance(ctx, committee, models.CommitteeMembersPending); err != nil {
		return nil, err
	}
	return committee, nil
}

// ClearMember vacates one role slot. Vacating a required slot of a
// committee that already advanced past the membership step is rejected.
func (s *MembershipService) ClearMember(ctx context.Context, committeeCode string, role models.CommitteeRole) (*models.Committee, error) {
	committee, err := s.committees.GetByCode(ctx, committeeCode)
	if err != nil {
		return nil, err
	}
	if committee.Status == models.CommitteeFinalized {
		return nil, apperrors.ErrCommitteeFinalized
	}

	if committee.MemberByRole(role) == nil {
		return nil, apperrors.New(apperrors.ErrInvalidRequest,
			fmt.Sprintf("role %s is not filled", role))
	}
	if committee.Status == models.CommitteeTopicsPending && isRequiredRole(role) {
		return nil, apperrors.New(apperrors.ErrIncompleteRequiredRoles,
			fmt.Sprintf("cannot vacate required role %s after membership is saved", role))
	}

	var members []models.CommitteeMember
	for _, m := range committee.Members {
		if m.Role != role {
			members = append(members, m)
		}
	}

	if err := s.committees.ReplaceMembers(ctx, committee.ID, committee.Version, members); err != nil {
		return nil, fmt.Errorf("error clearing member: %w", err)
	}
	committee.Members = members
	committee.Version++
	return committee, nil
}

// advance walks the committee lifecycle forward until it reaches target,
// one legal transition at a time. Already being at or past target is fine.
func (s *MembershipService) advance(ctx context.Context, committee *models.Committee, target models.CommitteeStatus) error {
	order := []models.CommitteeStatus{
		models.CommitteeDraft,
		models.CommitteeMembersPending,
		models.CommitteeTopicsPending,
		models.CommitteeFinalized,
	}
	targetIdx := statusIndex(order, target)
	for i := statusIndex(order, committee.Status) + 1; i > 0 && i <= targetIdx; i++ {
		next := order[i]
		if !committee.Status.CanTransition(next) {
			return apperrors.New(apperrors.ErrInvalidTransition,
				fmt.Sprintf("cannot move committee from %s to %s", committee.Status, next))
		}
		if err := s.committees.UpdateStatus(ctx, committee.Code, next, committee.Version); err != nil {
			return err
		}
		committee.Status = next
		committee.Version++
	}
	return nil
}

func statusIndex(order []models.CommitteeStatus, status models.CommitteeStatus) int {
	for i, s := range order {
		if s == status {
			return i
		}
	}
	return -1
}

func (s *MembershipService) lookupLecturers(ctx context.Context, members []models.CommitteeMember) (map[string]*models.Lecturer, error) {
	codes := make([]string, 0, len(members))
	for _, m := range members {
		codes = append(codes, m.LecturerCode)
	}
	lecturers, err := s.lecturers.GetByCodes(ctx, codes)
	if err != nil {
		return nil, fmt.Errorf("error retrieving lecturers: %w", err)
	}
	return lecturers, nil
}

func replaceRole(members []models.CommitteeMember, member models.CommitteeMember) []models.CommitteeMember {
	result := make([]models.CommitteeMember, 0, len(members)+1)
	replaced := false
	for _, m := range members {
		if m.Role == member.Role {
			result = append(result, member)
			replaced = true
			continue
		}
		result = append(result, m)
	}
	if !replaced {
		result = append(result, member)
	}
	return result
}

func isRequiredRole(role models.CommitteeRole) bool {
	for _, r := range models.RequiredRoles {
		if r == role {
			return true
		}
	}
	return false
}
