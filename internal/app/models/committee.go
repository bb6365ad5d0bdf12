package models

import (
	"fmt"
	"time"

	"github.com/tvu/thesisdesk/internal/pkg/apperrors"
)

// CommitteeRole is one of the fixed role slots of a committee.
type CommitteeRole string

const (
	RoleChair     CommitteeRole = "CHAIR"
	RoleSecretary CommitteeRole = "SECRETARY"
	RoleReviewer  CommitteeRole = "REVIEWER"
	RoleMember1   CommitteeRole = "MEMBER_1"
	RoleMember2   CommitteeRole = "MEMBER_2"
)

// CommitteeRoles lists every role slot in presentation order.
var CommitteeRoles = []CommitteeRole{
	RoleChair, RoleSecretary, RoleReviewer, RoleMember1, RoleMember2,
}

// RequiredRoles are the slots that must be filled before a committee can
// advance past the membership step. The second member is optional.
var RequiredRoles = []CommitteeRole{
	RoleChair, RoleSecretary, RoleReviewer, RoleMember1,
}

// Valid reports whether the role names a real slot.
func (r CommitteeRole) Valid() bool {
	for _, role := range CommitteeRoles {
		if role == r {
			return true
		}
	}
	return false
}

// CommitteeMember occupies one role slot of a committee.
type CommitteeMember struct {
	ID           int64         `json:"id" db:"id"`
	Role         CommitteeRole `json:"role" db:"role"`
	LecturerCode string        `json:"lecturerCode" db:"lecturer_code"`
	IsChair      bool          `json:"isChair" db:"is_chair"`
	Lecturer     *Lecturer     `json:"lecturer,omitempty"`
}

// CommitteeStatus is the lifecycle state of a committee.
type CommitteeStatus string

const (
	CommitteeDraft          CommitteeStatus = "DRAFT"
	CommitteeMembersPending CommitteeStatus = "MEMBERS_PENDING"
	CommitteeTopicsPending  CommitteeStatus = "TOPICS_PENDING"
	CommitteeFinalized      CommitteeStatus = "FINALIZED"
)

// committeeTransitions describes the forward edges of the lifecycle.
var committeeTransitions = map[CommitteeStatus][]CommitteeStatus{
	CommitteeDraft:          {CommitteeMembersPending},
	CommitteeMembersPending: {CommitteeTopicsPending},
	CommitteeTopicsPending:  {CommitteeFinalized},
}

// CanTransition reports whether moving from the current status to next is a
// legal lifecycle step.
func (s CommitteeStatus) CanTransition(next CommitteeStatus) bool {
	for _, allowed := range committeeTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Committee defines the examination committee model based on the
// 'committees' table. Version backs the optimistic concurrency check: every
// write must carry the version it read, and a mismatch rejects the write.
type Committee struct {
	ID          int64             `json:"id" db:"id"`
	Code        string            `json:"code" db:"code" example:"HD2025001"`
	Name        string            `json:"name" db:"name"`
	DefenseDate time.Time         `json:"defenseDate" db:"defense_date"`
	Room        string            `json:"room" db:"room"`
	TagCodes    []string          `json:"tagCodes" db:"tag_codes"`
	Status      CommitteeStatus   `json:"status" db:"status"`
	Version     int               `json:"version" db:"version"`
	Members     []CommitteeMember `json:"members"`
	Sessions    []Session         `json:"sessions"`
}

// Session returns the committee's session with the given number, or nil.
func (c *Committee) Session(n SessionNumber) *Session {
	for i := range c.Sessions {
		if c.Sessions[i].Number == n {
			return &c.Sessions[i]
		}
	}
	return nil
}

// TopicCount is the number of topics scheduled across both sessions.
func (c *Committee) TopicCount() int {
	total := 0
	for i := range c.Sessions {
		total += len(c.Sessions[i].Assignments)
	}
	return total
}

// MemberByRole returns the member occupying the role, or nil.
func (c *Committee) MemberByRole(role CommitteeRole) *CommitteeMember {
	for i := range c.Members {
		if c.Members[i].Role == role {
			return &c.Members[i]
		}
	}
	return nil
}

// HasSavedMembers reports whether a membership set has ever been persisted
// for this committee. It drives the create-vs-update decision on save.
func (c *Committee) HasSavedMembers() bool {
	return len(c.Members) > 0
}

// ValidateMemberSet checks a full candidate member set against the
// committee invariants before anything is persisted:
// each role slot at most once, no lecturer in two slots, all required roles
// present, exactly one chair, and the chair holding a doctorate or higher.
// The lecturers map supplies the degree lookup, keyed by lecturer code.
func ValidateMemberSet(members []CommitteeMember, lecturers map[string]*Lecturer) error {
	seenRoles := make(map[CommitteeRole]struct{}, len(members))
	seenLecturers := make(map[string]CommitteeRole, len(members))
	chairs := 0

	for _, m := range members {
		if !m.Role.Valid() {
			return apperrors.New(apperrors.ErrInvalidRequest,
				fmt.Sprintf("unknown role %q", m.Role))
		}
		if _, dup := seenRoles[m.Role]; dup {
			return apperrors.New(apperrors.ErrInvalidRequest,
				fmt.Sprintf("role %s specified twice", m.Role))
		}
		seenRoles[m.Role] = struct{}{}

		if other, dup := seenLecturers[m.LecturerCode]; dup {
			return apperrors.New(apperrors.ErrRoleExclusivity,
				fmt.Sprintf("lecturer %s already holds role %s", m.LecturerCode, other))
		}
		seenLecturers[m.LecturerCode] = m.Role

		lecturer, ok := lecturers[m.LecturerCode]
		if !ok {
			return apperrors.New(apperrors.ErrLecturerNotFound,
				fmt.Sprintf("lecturer %s not found", m.LecturerCode))
		}

		isChair := m.Role == RoleChair || m.IsChair
		if isChair {
			chairs++
			if !lecturer.ChairEligible() {
				return apperrors.New(apperrors.ErrChairDegree,
					fmt.Sprintf("lecturer %s holds %s, chair requires a doctorate", m.LecturerCode, lecturer.Degree))
			}
		}
	}

	for _, required := range RequiredRoles {
		if _, ok := seenRoles[required]; !ok {
			return apperrors.New(apperrors.ErrIncompleteRequiredRoles,
				fmt.Sprintf("role %s is not filled", required))
		}
	}

	if chairs != 1 {
		return apperrors.New(apperrors.ErrInvalidRequest,
			fmt.Sprintf("expected exactly one chair, got %d", chairs))
	}

	return nil
}

// NextCommitteeCode generates the sequential committee code for a year,
// e.g. HD2025001 for year 2025, sequence 1.
func NextCommitteeCode(year, lastSequence int) string {
	return fmt.Sprintf("HD%d%03d", year, lastSequence+1)
}
