package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tvu/thesisdesk/internal/app/models"
	"github.com/tvu/thesisdesk/internal/pkg/apperrors"
)

func newMembershipFixture(t *testing.T) (*fakeStore, *MembershipService) {
	t.Helper()
	f := newFakeStore()
	f.addLecturer("GV001", models.DegreeProfessor, []string{"CNTT01"}, 8)
	f.addLecturer("GV002", models.DegreeDoctorate, []string{"CNTT02"}, 6)
	f.addLecturer("GV003", models.DegreeMaster, []string{"CNTT01"}, 6)
	f.addLecturer("GV004", models.DegreeMaster, []string{"CNTT03"}, 6)
	f.addLecturer("GV005", models.DegreeMaster, []string{"CNTT02"}, 6)
	return f, NewMembershipService(f.committeeView(), f)
}

func TestSaveMembersAdvancesToTopicsPending(t *testing.T) {
	f, svc := newMembershipFixture(t)
	f.addCommittee("HD2025001", models.CommitteeDraft, nil, nil)

	committee, err := svc.SaveMembers(context.Background(), "HD2025001",
		fullMemberSet("GV001", "GV002", "GV003", "GV004"))
	require.NoError(t, err)
	require.Equal(t, models.CommitteeTopicsPending, committee.Status)
	require.Len(t, committee.Members, 4)

	stored, err := f.committeeView().GetByCode(context.Background(), "HD2025001")
	require.NoError(t, err)
	require.Equal(t, models.CommitteeTopicsPending, stored.Status)
	// one version bump for the member swap, one per lifecycle step
	require.Equal(t, 4, stored.Version)
}

func TestSaveMembersViolations(t *testing.T) {
	tests := []struct {
		name    string
		members []models.CommitteeMember
		wantErr error
	}{
		{
			name:    "chair without doctorate",
			members: fullMemberSet("GV003", "GV002", "GV004", "GV005"),
			wantErr: apperrors.ErrChairDegree,
		},
		{
			name:    "lecturer in two roles",
			members: fullMemberSet("GV001", "GV001", "GV003", "GV004"),
			wantErr: apperrors.ErrRoleExclusivity,
		},
		{
			name: "missing required role",
			members: []models.CommitteeMember{
				{Role: models.RoleChair, LecturerCode: "GV001"},
				{Role: models.RoleSecretary, LecturerCode: "GV002"},
				{Role: models.RoleReviewer, LecturerCode: "GV003"},
				{Role: models.RoleMember2, LecturerCode: "GV004"},
			},
			wantErr: apperrors.ErrIncompleteRequiredRoles,
		},
		{
			name:    "unknown lecturer",
			members: fullMemberSet("GV001", "GV002", "GV003", "GV999"),
			wantErr: apperrors.ErrLecturerNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, svc := newMembershipFixture(t)
			f.addCommittee("HD2025001", models.CommitteeDraft, nil, nil)

			_, err := svc.SaveMembers(context.Background(), "HD2025001", tt.members)
			require.ErrorIs(t, err, tt.wantErr)

			stored, getErr := f.committeeView().GetByCode(context.Background(), "HD2025001")
			require.NoError(t, getErr)
			require.Empty(t, stored.Members, "rejected save must not touch the membership")
			require.Equal(t, models.CommitteeDraft, stored.Status)
		})
	}
}

func TestSaveMembersOnFinalizedCommittee(t *testing.T) {
	f, svc := newMembershipFixture(t)
	f.addCommittee("HD2025001", models.CommitteeFinalized, nil,
		fullMemberSet("GV001", "GV002", "GV003", "GV004"))

	_, err := svc.SaveMembers(context.Background(), "HD2025001",
		fullMemberSet("GV002", "GV001", "GV003", "GV004"))
	require.ErrorIs(t, err, apperrors.ErrCommitteeFinalized)
}

func TestSaveMembersNormalizesChairFlag(t *testing.T) {
	f, svc := newMembershipFixture(t)
	f.addCommittee("HD2025001", models.CommitteeDraft, nil, nil)

	members := fullMemberSet("GV001", "GV002", "GV003", "GV004")
	// the flag follows the role, whatever the payload claims
	members[0].IsChair = false
	members[1].IsChair = true

	committee, err := svc.SaveMembers(context.Background(), "HD2025001", members)
	require.NoError(t, err)
	require.True(t, committee.MemberByRole(models.RoleChair).IsChair)
	require.False(t, committee.MemberByRole(models.RoleSecretary).IsChair)
}

func TestAssignMemberAdvancesToMembersPendingOnly(t *testing.T) {
	f, svc := newMembershipFixture(t)
	f.addCommittee("HD2025001", models.CommitteeDraft, nil, nil)

	committee, err := svc.AssignMember(context.Background(), "HD2025001", models.RoleSecretary, "GV003")
	require.NoError(t, err)
	require.Equal(t, models.CommitteeMembersPending, committee.Status)
	require.Len(t, committee.Members, 1)
}

func TestAssignMemberDoesNotRegressLifecycle(t *testing.T) {
	f, svc := newMembershipFixture(t)
	f.addCommittee("HD2025001", models.CommitteeTopicsPending, nil,
		fullMemberSet("GV001", "GV002", "GV003", "GV004"))

	committee, err := svc.AssignMember(context.Background(), "HD2025001", models.RoleReviewer, "GV005")
	require.NoError(t, err)
	require.Equal(t, models.CommitteeTopicsPending, committee.Status)
	require.Equal(t, "GV005", committee.MemberByRole(models.RoleReviewer).LecturerCode)
}

func TestAssignMemberChairRequiresDoctorate(t *testing.T) {
	f, svc := newMembershipFixture(t)
	f.addCommittee("HD2025001", models.CommitteeDraft, nil, nil)

	_, err := svc.AssignMember(context.Background(), "HD2025001", models.RoleChair, "GV003")
	require.ErrorIs(t, err, apperrors.ErrChairDegree)
}

func TestAssignMemberRejectsSecondRole(t *testing.T) {
	f, svc := newMembershipFixture(t)
	f.addCommittee("HD2025001", models.CommitteeMembersPending, nil,
		[]models.CommitteeMember{{Role: models.RoleSecretary, LecturerCode: "GV003"}})

	_, err := svc.AssignMember(context.Background(), "HD2025001", models.RoleReviewer, "GV003")
	require.ErrorIs(t, err, apperrors.ErrRoleExclusivity)
}

func TestClearMember(t *testing.T) {
	five := append(fullMemberSet("GV001", "GV002", "GV003", "GV004"),
		models.CommitteeMember{Role: models.RoleMember2, LecturerCode: "GV005"})

	t.Run("optional role of an advanced committee", func(t *testing.T) {
		f, svc := newMembershipFixture(t)
		f.addCommittee("HD2025001", models.CommitteeTopicsPending, nil, five)

		committee, err := svc.ClearMember(context.Background(), "HD2025001", models.RoleMember2)
		require.NoError(t, err)
		require.Nil(t, committee.MemberByRole(models.RoleMember2))
	})

	t.Run("required role of an advanced committee", func(t *testing.T) {
		f, svc := newMembershipFixture(t)
		f.addCommittee("HD2025001", models.CommitteeTopicsPending, nil, five)

		_, err := svc.ClearMember(context.Background(), "HD2025001", models.RoleChair)
		require.ErrorIs(t, err, apperrors.ErrIncompleteRequiredRoles)
	})

	t.Run("required role while still pending", func(t *testing.T) {
		f, svc := newMembershipFixture(t)
		f.addCommittee("HD2025001", models.CommitteeMembersPending, nil, five)

		committee, err := svc.ClearMember(context.Background(), "HD2025001", models.RoleChair)
		require.NoError(t, err)
		require.Nil(t, committee.MemberByRole(models.RoleChair))
	})

	t.Run("unfilled role", func(t *testing.T) {
		f, svc := newMembershipFixture(t)
		f.addCommittee("HD2025001", models.CommitteeDraft, nil, nil)

		_, err := svc.ClearMember(context.Background(), "HD2025001", models.RoleChair)
		require.ErrorIs(t, err, apperrors.ErrInvalidRequest)
	})
}
