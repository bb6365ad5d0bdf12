package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tvu/thesisdesk/internal/app/models"
	"github.com/tvu/thesisdesk/internal/pkg/apperrors"
)

func newEligibilityFixture(t *testing.T) (*fakeStore, *EligibilityService) {
	t.Helper()
	f := newFakeStore()
	f.addLecturer("GV001", models.DegreeProfessor, []string{"CNTT01"}, 8)
	f.addLecturer("GV002", models.DegreeDoctorate, []string{"CNTT02"}, 6)
	f.addLecturer("GV003", models.DegreeMaster, []string{"CNTT03"}, 6)
	f.addTopic("DT001", []string{"CNTT01"}, models.TopicStatusApproved)
	f.addTopic("DT002", []string{"CNTT02"}, models.TopicStatusApproved)
	f.addTopic("DT003", []string{"CNTT03"}, models.TopicStatusPending)
	return f, NewEligibilityService(f, f.topicView(), f.committeeView())
}

func TestEligibleLecturersUnionAcrossTags(t *testing.T) {
	_, svc := newEligibilityFixture(t)

	lecturers, err := svc.EligibleLecturers(context.Background(), []string{"CNTT01", "CNTT02"})
	require.NoError(t, err)
	require.Len(t, lecturers, 2)
	require.Equal(t, "GV001", lecturers[0].Code)
	require.Equal(t, "GV002", lecturers[1].Code)
}

func TestEligibleLecturersNoTagsReturnsFullPool(t *testing.T) {
	_, svc := newEligibilityFixture(t)

	lecturers, err := svc.EligibleLecturers(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, lecturers, 3)
}

func TestEligibleTopicsExcludesUnapprovedAndAssigned(t *testing.T) {
	f, svc := newEligibilityFixture(t)

	topics, err := svc.EligibleTopics(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, topics, 2, "pending topic must not appear")

	f.assignments["DT001"] = models.NewAssignment("DT001", "HD2025001", models.SessionMorning, slotAt(7, 30))
	topics, err = svc.EligibleTopics(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, topics, 1)
	require.Equal(t, "DT002", topics[0].Code)
}

func TestEligibleTopicsForCommittee(t *testing.T) {
	f, svc := newEligibilityFixture(t)
	f.addCommittee("HD2025001", models.CommitteeDraft, []string{"CNTT02"}, nil)

	topics, err := svc.EligibleTopicsForCommittee(context.Background(), "HD2025001")
	require.NoError(t, err)
	require.Len(t, topics, 1)
	require.Equal(t, "DT002", topics[0].Code)

	_, err = svc.EligibleTopicsForCommittee(context.Background(), "HD2025999")
	require.ErrorIs(t, err, apperrors.ErrCommitteeNotFound)
}

func TestEligibilityRetriesTransientFailures(t *testing.T) {
	t.Run("single transient failure recovers", func(t *testing.T) {
		f, svc := newEligibilityFixture(t)
		f.lecturerListErrs = []error{context.DeadlineExceeded}

		lecturers, err := svc.EligibleLecturers(context.Background(), nil)
		require.NoError(t, err)
		require.Len(t, lecturers, 3)
	})

	t.Run("repeated transient failure surfaces as unavailable", func(t *testing.T) {
		f, svc := newEligibilityFixture(t)
		f.topicListErrs = []error{context.DeadlineExceeded, context.DeadlineExceeded}

		_, err := svc.EligibleTopics(context.Background(), nil)
		require.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
	})
}
