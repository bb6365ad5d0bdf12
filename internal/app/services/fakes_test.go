package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tvu/thesisdesk/internal/app/models"
	"github.com/tvu/thesisdesk/internal/pkg/apperrors"
)

// fakeStore is an in-memory implementation of every store interface,
// mirroring the version-check semantics of the pgx repositories.
type fakeStore struct {
	lecturers   map[string]*models.Lecturer
	topics      map[string]*models.Topic
	committees  map[string]*models.Committee
	assignments map[string]models.Assignment
	nextID      int64

	// Errors popped before serving list calls, to exercise retry paths.
	topicListErrs    []error
	lecturerListErrs []error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		lecturers:   map[string]*models.Lecturer{},
		topics:      map[string]*models.Topic{},
		committees:  map[string]*models.Committee{},
		assignments: map[string]models.Assignment{},
	}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) addLecturer(code string, degree models.Degree, tags []string, defenseQuota int) *models.Lecturer {
	l := &models.Lecturer{
		ID:           f.id(),
		Code:         code,
		FullName:     "Lecturer " + code,
		Degree:       degree,
		TagCodes:     tags,
		GuideQuota:   5,
		DefenseQuota: defenseQuota,
	}
	f.lecturers[code] = l
	return l
}

func (f *fakeStore) addTopic(code string, tags []string, status models.TopicStatus) *models.Topic {
	t := &models.Topic{
		ID:       f.id(),
		Code:     code,
		Title:    "Topic " + code,
		TagCodes: tags,
		Status:   status,
	}
	f.topics[code] = t
	return t
}

func (f *fakeStore) addCommittee(code string, status models.CommitteeStatus, tags []string, members []models.CommitteeMember) *models.Committee {
	c := &models.Committee{
		ID:          f.id(),
		Code:        code,
		Name:        "Defense committee " + code,
		DefenseDate: time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC),
		TagCodes:    tags,
		Status:      status,
		Version:     1,
		Members:     members,
	}
	f.committees[code] = c
	return c
}

// fullMemberSet builds a valid four-role membership over the given codes.
func fullMemberSet(chair, secretary, reviewer, member string) []models.CommitteeMember {
	return []models.CommitteeMember{
		{Role: models.RoleChair, LecturerCode: chair, IsChair: true},
		{Role: models.RoleSecretary, LecturerCode: secretary},
		{Role: models.RoleReviewer, LecturerCode: reviewer},
		{Role: models.RoleMember1, LecturerCode: member},
	}
}

// --- LecturerStore ---

func (f *fakeStore) GetByCode(ctx context.Context, code string) (*models.Lecturer, error) {
	l, ok := f.lecturers[code]
	if !ok {
		return nil, apperrors.ErrLecturerNotFound
	}
	cp := *l
	return &cp, nil
}

func (f *fakeStore) GetByCodes(ctx context.Context, codes []string) (map[string]*models.Lecturer, error) {
	result := make(map[string]*models.Lecturer, len(codes))
	for _, code := range codes {
		if l, ok := f.lecturers[code]; ok {
			cp := *l
			result[code] = &cp
		}
	}
	return result, nil
}

func (f *fakeStore) ListByTags(ctx context.Context, tagCodes []string) ([]*models.Lecturer, error) {
	if len(f.lecturerListErrs) > 0 {
		err := f.lecturerListErrs[0]
		f.lecturerListErrs = f.lecturerListErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	var result []*models.Lecturer
	for _, l := range f.lecturers {
		if len(tagCodes) == 0 || models.TagAffinity(l.TagCodes, tagCodes) > 0 {
			cp := *l
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result, nil
}

// --- TopicStore ---

// topicStore narrows fakeStore so Get methods don't collide with the
// lecturer ones on the same receiver.
type topicStore struct{ *fakeStore }

func (f *fakeStore) topicView() topicStore { return topicStore{f} }

func (f topicStore) GetByCode(ctx context.Context, code string) (*models.Topic, error) {
	t, ok := f.topics[code]
	if !ok {
		return nil, apperrors.ErrTopicNotFound
	}
	cp := *t
	return &cp, nil
}

func (f topicStore) GetByCodes(ctx context.Context, codes []string) (map[string]*models.Topic, error) {
	result := make(map[string]*models.Topic, len(codes))
	for _, code := range codes {
		if t, ok := f.topics[code]; ok {
			cp := *t
			result[code] = &cp
		}
	}
	return result, nil
}

func (f topicStore) ListEligible(ctx context.Context, tagCodes []string) ([]*models.Topic, error) {
	if len(f.topicListErrs) > 0 {
		err := f.topicListErrs[0]
		f.topicListErrs = f.topicListErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	var result []*models.Topic
	for _, t := range f.topics {
		if !t.Approved() {
			continue
		}
		if _, assigned := f.assignments[t.Code]; assigned {
			continue
		}
		if len(tagCodes) > 0 && models.TagAffinity(t.TagCodes, tagCodes) == 0 {
			continue
		}
		cp := *t
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result, nil
}

// --- CommitteeStore ---

type committeeStore struct{ *fakeStore }

func (f *fakeStore) committeeView() committeeStore { return committeeStore{f} }

func (f committeeStore) Create(ctx context.Context, committee *models.Committee) error {
	year := committee.DefenseDate.Year()
	prefix := fmt.Sprintf("HD%d", year)
	lastSeq := 0
	for code := range f.committees {
		if !strings.HasPrefix(code, prefix) {
			continue
		}
		if seq, err := strconv.Atoi(code[len(prefix):]); err == nil && seq > lastSeq {
			lastSeq = seq
		}
	}
	committee.ID = f.id()
	committee.Code = models.NextCommitteeCode(year, lastSeq)
	committee.Status = models.CommitteeDraft
	committee.Version = 1
	cp := *committee
	f.committees[committee.Code] = &cp
	return nil
}

func (f committeeStore) GetByCode(ctx context.Context, code string) (*models.Committee, error) {
	c, ok := f.committees[code]
	if !ok {
		return nil, apperrors.ErrCommitteeNotFound
	}
	return f.load(c), nil
}

func (f committeeStore) List(ctx context.Context) ([]*models.Committee, error) {
	var result []*models.Committee
	for _, c := range f.committees {
		result = append(result, f.load(c))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result, nil
}

// load returns a fresh copy with the sessions rebuilt from the assignment
// table, like a repository read.
func (f committeeStore) load(c *models.Committee) *models.Committee {
	cp := *c
	cp.Members = append([]models.CommitteeMember(nil), c.Members...)
	cp.Sessions = []models.Session{
		{Number: models.SessionMorning},
		{Number: models.SessionAfternoon},
	}
	var starts []models.Assignment
	for _, a := range f.assignments {
		if a.CommitteeCode == c.Code {
			starts = append(starts, a)
		}
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].StartTime.Before(starts[j].StartTime) })
	for _, a := range starts {
		for i := range cp.Sessions {
			if cp.Sessions[i].Number == a.Session {
				cp.Sessions[i].Assignments = append(cp.Sessions[i].Assignments, a)
			}
		}
	}
	return &cp
}

func (f committeeStore) UpdateMeta(ctx context.Context, committee *models.Committee, expectedVersion int) error {
	stored, ok := f.committees[committee.Code]
	if !ok {
		return apperrors.ErrCommitteeNotFound
	}
	if stored.Version != expectedVersion {
		return apperrors.ErrStaleVersion
	}
	stored.Name = committee.Name
	stored.DefenseDate = committee.DefenseDate
	stored.Room = committee.Room
	stored.TagCodes = committee.TagCodes
	stored.Version++
	committee.Version = stored.Version
	return nil
}

func (f committeeStore) UpdateStatus(ctx context.Context, code string, status models.CommitteeStatus, expectedVersion int) error {
	stored, ok := f.committees[code]
	if !ok {
		return apperrors.ErrCommitteeNotFound
	}
	if stored.Version != expectedVersion {
		return apperrors.ErrStaleVersion
	}
	stored.Status = status
	stored.Version++
	return nil
}

func (f committeeStore) ReplaceMembers(ctx context.Context, committeeID int64, expectedVersion int, members []models.CommitteeMember) error {
	for _, stored := range f.committees {
		if stored.ID != committeeID {
			continue
		}
		if stored.Version != expectedVersion {
			return apperrors.ErrStaleVersion
		}
		stored.Members = append([]models.CommitteeMember(nil), members...)
		stored.Version++
		return nil
	}
	return apperrors.ErrStaleVersion
}

func (f committeeStore) Delete(ctx context.Context, code string) error {
	if _, ok := f.committees[code]; !ok {
		return apperrors.ErrCommitteeNotFound
	}
	for topicCode, a := range f.assignments {
		if a.CommitteeCode == code {
			delete(f.assignments, topicCode)
		}
	}
	delete(f.committees, code)
	return nil
}

// --- AssignmentStore ---

type assignmentStore struct{ *fakeStore }

func (f *fakeStore) assignmentView() assignmentStore { return assignmentStore{f} }

func (f assignmentStore) GetByTopicCode(ctx context.Context, topicCode string) (*models.Assignment, error) {
	a, ok := f.assignments[topicCode]
	if !ok {
		return nil, apperrors.ErrAssignmentNotFound
	}
	cp := a
	return &cp, nil
}

func (f assignmentStore) CreateBatch(ctx context.Context, committeeID int64, expectedVersion int, assignments []models.Assignment) error {
	var stored *models.Committee
	for _, c := range f.committees {
		if c.ID == committeeID {
			stored = c
			break
		}
	}
	if stored == nil {
		return apperrors.ErrCommitteeNotFound
	}
	if stored.Version != expectedVersion {
		return apperrors.ErrStaleVersion
	}
	for _, a := range assignments {
		if _, dup := f.assignments[a.TopicCode]; dup {
			return apperrors.ErrTopicAlreadyAssigned
		}
		for _, existing := range f.assignments {
			if existing.CommitteeCode == a.CommitteeCode && existing.StartTime.Equal(a.StartTime) {
				return apperrors.ErrStaleVersion
			}
		}
	}
	for _, a := range assignments {
		a.ID = f.id()
		f.assignments[a.TopicCode] = a
	}
	stored.Version++
	return nil
}

func (f assignmentStore) DeleteByTopicCode(ctx context.Context, topicCode string) error {
	a, ok := f.assignments[topicCode]
	if !ok {
		return apperrors.ErrAssignmentNotFound
	}
	delete(f.assignments, topicCode)
	if stored, ok := f.committees[a.CommitteeCode]; ok {
		stored.Version++
	}
	return nil
}
