package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tvu/thesisdesk/internal/app/models"
	"github.com/tvu/thesisdesk/internal/pkg/apperrors"
)

func newScheduleFixture(t *testing.T) (*fakeStore, *ScheduleService) {
	t.Helper()
	f := newFakeStore()
	for _, code := range []string{"GV001", "GV002", "GV003", "GV004"} {
		f.addLecturer(code, models.DegreeDoctorate, nil, 10)
	}
	for _, code := range []string{"DT001", "DT002", "DT003", "DT004", "DT005"} {
		f.addTopic(code, []string{"CNTT01"}, models.TopicStatusApproved)
	}
	f.addCommittee("HD2025001", models.CommitteeTopicsPending, nil,
		fullMemberSet("GV001", "GV002", "GV003", "GV004"))
	return f, NewScheduleService(f.committeeView(), f.topicView(), f, f.assignmentView())
}

func slotAt(hour, minute int) time.Time {
	return time.Date(2025, time.June, 10, hour, minute, 0, 0, time.UTC)
}

func TestAssignTopicsFillsSlotsInTemplateOrder(t *testing.T) {
	_, svc := newScheduleFixture(t)

	assignments, err := svc.AssignTopics(context.Background(), "HD2025001", models.SessionMorning,
		[]TopicPlacement{{TopicCode: "DT001"}, {TopicCode: "DT002"}}, false)
	require.NoError(t, err)
	require.Len(t, assignments, 2)
	require.Equal(t, slotAt(7, 30), assignments[0].StartTime)
	require.Equal(t, slotAt(8, 30), assignments[0].EndTime)
	require.Equal(t, slotAt(8, 30), assignments[1].StartTime)
}

func TestAssignTopicsHonorsExplicitSlots(t *testing.T) {
	_, svc := newScheduleFixture(t)

	start := slotAt(9, 30)
	assignments, err := svc.AssignTopics(context.Background(), "HD2025001", models.SessionMorning,
		[]TopicPlacement{
			{TopicCode: "DT001", StartTime: &start},
			{TopicCode: "DT002"},
		}, false)
	require.NoError(t, err)
	// explicit slot claimed first, the auto-placed topic takes the
	// earliest remaining slot
	require.Equal(t, slotAt(9, 30), assignments[0].StartTime)
	require.Equal(t, "DT001", assignments[0].TopicCode)
	require.Equal(t, slotAt(7, 30), assignments[1].StartTime)
}

func TestAssignTopicsRejectsOffGridSlot(t *testing.T) {
	_, svc := newScheduleFixture(t)

	start := slotAt(8, 0)
	_, err := svc.AssignTopics(context.Background(), "HD2025001", models.SessionMorning,
		[]TopicPlacement{{TopicCode: "DT001", StartTime: &start}}, false)
	require.ErrorIs(t, err, apperrors.ErrInvalidRequest)
}

func TestAssignTopicsSessionCapacity(t *testing.T) {
	_, svc := newScheduleFixture(t)

	placements := make([]TopicPlacement, 5)
	for i, code := range []string{"DT001", "DT002", "DT003", "DT004", "DT005"} {
		placements[i] = TopicPlacement{TopicCode: code}
	}
	_, err := svc.AssignTopics(context.Background(), "HD2025001", models.SessionMorning, placements, false)
	require.ErrorIs(t, err, apperrors.ErrSessionCapacityExceeded)

	// four fit exactly, the fifth no longer finds a slot
	_, err = svc.AssignTopics(context.Background(), "HD2025001", models.SessionMorning, placements[:4], false)
	require.NoError(t, err)
	_, err = svc.AssignTopics(context.Background(), "HD2025001", models.SessionMorning, placements[4:], false)
	require.ErrorIs(t, err, apperrors.ErrSessionCapacityExceeded)
}

func TestAssignTopicsDailyCapacity(t *testing.T) {
	f, svc := newScheduleFixture(t)
	for _, code := range []string{"DT006", "DT007", "DT008", "DT009"} {
		f.addTopic(code, []string{"CNTT01"}, models.TopicStatusApproved)
	}
	ctx := context.Background()

	_, err := svc.AssignTopics(ctx, "HD2025001", models.SessionMorning,
		[]TopicPlacement{{TopicCode: "DT001"}, {TopicCode: "DT002"}, {TopicCode: "DT003"}, {TopicCode: "DT004"}}, false)
	require.NoError(t, err)
	_, err = svc.AssignTopics(ctx, "HD2025001", models.SessionAfternoon,
		[]TopicPlacement{{TopicCode: "DT005"}, {TopicCode: "DT006"}, {TopicCode: "DT007"}, {TopicCode: "DT008"}}, false)
	require.NoError(t, err)

	// with all eight slots of the day taken, a ninth topic is a day
	// problem in either session, not a session problem
	for _, session := range []models.SessionNumber{models.SessionMorning, models.SessionAfternoon} {
		_, err = svc.AssignTopics(ctx, "HD2025001", session,
			[]TopicPlacement{{TopicCode: "DT009"}}, false)
		require.ErrorIs(t, err, apperrors.ErrDailyCapacityExceeded)
		require.NotErrorIs(t, err, apperrors.ErrSessionCapacityExceeded)
	}
}

func TestAssignTopicsMemberQuota(t *testing.T) {
	f := newFakeStore()
	f.addTopic("DT001", nil, models.TopicStatusApproved)
	f.addLecturer("GV001", models.DegreeProfessor, nil, 2)
	f.addLecturer("GV002", models.DegreeDoctorate, nil, 2)
	f.addLecturer("GV003", models.DegreeMaster, nil, 2)
	f.addLecturer("GV004", models.DegreeMaster, nil, 0)
	f.addCommittee("HD2025001", models.CommitteeTopicsPending, nil,
		fullMemberSet("GV001", "GV002", "GV003", "GV004"))
	svc := NewScheduleService(f.committeeView(), f.topicView(), f, f.assignmentView())
	ctx := context.Background()

	_, err := svc.AssignTopics(ctx, "HD2025001", models.SessionMorning,
		[]TopicPlacement{{TopicCode: "DT001"}}, false)
	require.ErrorIs(t, err, apperrors.ErrQuotaExceeded)

	var detailed *apperrors.CustomError
	require.ErrorAs(t, err, &detailed)
	require.Equal(t, "GV004", detailed.Details["lecturerCode"])

	// the rejection happens before any write
	_, err = f.assignmentView().GetByTopicCode(ctx, "DT001")
	require.ErrorIs(t, err, apperrors.ErrAssignmentNotFound)

	// the explicit override places the topic anyway
	assignments, err := svc.AssignTopics(ctx, "HD2025001", models.SessionMorning,
		[]TopicPlacement{{TopicCode: "DT001"}}, true)
	require.NoError(t, err)
	require.Equal(t, slotAt(7, 30), assignments[0].StartTime)
}

func TestAssignTopicsQuotaProjectsBatchSize(t *testing.T) {
	f, svc := newScheduleFixture(t)
	f.lecturers["GV002"].DefenseQuota = 3
	f.lecturers["GV002"].CurrentDefenseLoad = 2

	// GV002 has room for one more defense, not two
	_, err := svc.AssignTopics(context.Background(), "HD2025001", models.SessionMorning,
		[]TopicPlacement{{TopicCode: "DT001"}, {TopicCode: "DT002"}}, false)
	require.ErrorIs(t, err, apperrors.ErrQuotaExceeded)

	_, err = svc.AssignTopics(context.Background(), "HD2025001", models.SessionMorning,
		[]TopicPlacement{{TopicCode: "DT001"}}, false)
	require.NoError(t, err)
}

func TestAssignTopicsLifecycleGates(t *testing.T) {
	tests := []struct {
		name    string
		status  models.CommitteeStatus
		wantErr error
	}{
		{"draft committee", models.CommitteeDraft, apperrors.ErrIncompleteRequiredRoles},
		{"membership incomplete", models.CommitteeMembersPending, apperrors.ErrIncompleteRequiredRoles},
		{"finalized committee", models.CommitteeFinalized, apperrors.ErrCommitteeFinalized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeStore()
			f.addTopic("DT001", nil, models.TopicStatusApproved)
			f.addCommittee("HD2025001", tt.status, nil, nil)
			svc := NewScheduleService(f.committeeView(), f.topicView(), f, f.assignmentView())

			_, err := svc.AssignTopics(context.Background(), "HD2025001", models.SessionMorning,
				[]TopicPlacement{{TopicCode: "DT001"}}, false)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAssignTopicsEligibilityChecks(t *testing.T) {
	f, svc := newScheduleFixture(t)
	f.addTopic("DT010", nil, models.TopicStatusPending)

	t.Run("unapproved topic", func(t *testing.T) {
		_, err := svc.AssignTopics(context.Background(), "HD2025001", models.SessionMorning,
			[]TopicPlacement{{TopicCode: "DT010"}}, false)
		require.ErrorIs(t, err, apperrors.ErrTopicNotEligible)
	})

	t.Run("unknown topic", func(t *testing.T) {
		_, err := svc.AssignTopics(context.Background(), "HD2025001", models.SessionMorning,
			[]TopicPlacement{{TopicCode: "DT999"}}, false)
		require.ErrorIs(t, err, apperrors.ErrTopicNotFound)
	})

	t.Run("topic listed twice", func(t *testing.T) {
		_, err := svc.AssignTopics(context.Background(), "HD2025001", models.SessionMorning,
			[]TopicPlacement{{TopicCode: "DT001"}, {TopicCode: "DT001"}}, false)
		require.ErrorIs(t, err, apperrors.ErrInvalidRequest)
	})

	t.Run("already assigned topic", func(t *testing.T) {
		_, err := svc.AssignTopics(context.Background(), "HD2025001", models.SessionMorning,
			[]TopicPlacement{{TopicCode: "DT001"}}, false)
		require.NoError(t, err)
		_, err = svc.AssignTopics(context.Background(), "HD2025001", models.SessionAfternoon,
			[]TopicPlacement{{TopicCode: "DT001"}}, false)
		require.ErrorIs(t, err, apperrors.ErrTopicAlreadyAssigned)
	})
}

func TestRemoveAssignmentFreesTheSlot(t *testing.T) {
	_, svc := newScheduleFixture(t)
	ctx := context.Background()

	_, err := svc.AssignTopics(ctx, "HD2025001", models.SessionMorning,
		[]TopicPlacement{{TopicCode: "DT001"}}, false)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveAssignment(ctx, "DT001"))
	require.ErrorIs(t, svc.RemoveAssignment(ctx, "DT001"), apperrors.ErrAssignmentNotFound)

	// the vacated 07:30 slot is immediately reusable
	assignments, err := svc.AssignTopics(ctx, "HD2025001", models.SessionMorning,
		[]TopicPlacement{{TopicCode: "DT002"}}, false)
	require.NoError(t, err)
	require.Equal(t, slotAt(7, 30), assignments[0].StartTime)
}

func TestChangeAssignmentMovesBetweenSessions(t *testing.T) {
	_, svc := newScheduleFixture(t)
	ctx := context.Background()

	_, err := svc.AssignTopics(ctx, "HD2025001", models.SessionMorning,
		[]TopicPlacement{{TopicCode: "DT001"}}, false)
	require.NoError(t, err)

	moved, err := svc.ChangeAssignment(ctx, "HD2025001", "DT001", models.SessionAfternoon, nil, false)
	require.NoError(t, err)
	require.Equal(t, models.SessionAfternoon, moved.Session)
	require.Equal(t, slotAt(13, 30), moved.StartTime)
}

func TestChangeAssignmentChecksOwnership(t *testing.T) {
	f, svc := newScheduleFixture(t)
	ctx := context.Background()
	f.addCommittee("HD2025002", models.CommitteeTopicsPending, nil,
		fullMemberSet("GV001", "GV002", "GV003", "GV004"))

	_, err := svc.AssignTopics(ctx, "HD2025001", models.SessionMorning,
		[]TopicPlacement{{TopicCode: "DT001"}}, false)
	require.NoError(t, err)

	_, err = svc.ChangeAssignment(ctx, "HD2025002", "DT001", models.SessionMorning, nil, false)
	require.ErrorIs(t, err, apperrors.ErrInvalidRequest)

	_, err = svc.ChangeAssignment(ctx, "HD2025001", "DT999", models.SessionMorning, nil, false)
	require.ErrorIs(t, err, apperrors.ErrAssignmentNotFound)
}
