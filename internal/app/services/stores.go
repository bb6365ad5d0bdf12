package services

import (
	"context"

	"github.com/tvu/thesisdesk/internal/app/models"
)

// The services accept narrow store interfaces so the allocation logic can
// be exercised against in-memory fakes; the pgx repositories satisfy them.

// LecturerStore reads lecturers with their derived load figures.
type LecturerStore interface {
	GetByCode(ctx context.Context, code string) (*models.Lecturer, error)
	GetByCodes(ctx context.Context, codes []string) (map[string]*models.Lecturer, error)
	ListByTags(ctx context.Context, tagCodes []string) ([]*models.Lecturer, error)
}

// TopicStore reads thesis topics.
type TopicStore interface {
	GetByCode(ctx context.Context, code string) (*models.Topic, error)
	GetByCodes(ctx context.Context, codes []string) (map[string]*models.Topic, error)
	ListEligible(ctx context.Context, tagCodes []string) ([]*models.Topic, error)
}

// CommitteeStore persists committees, their members and lifecycle state.
// Mutations take the version the caller read; a concurrent write in between
// surfaces as apperrors.ErrStaleVersion.
type CommitteeStore interface {
	Create(ctx context.Context, committee *models.Committee) error
	GetByCode(ctx context.Context, code string) (*models.Committee, error)
	List(ctx context.Context) ([]*models.Committee, error)
	UpdateMeta(ctx context.Context, committee *models.Committee, expectedVersion int) error
	UpdateStatus(ctx context.Context, code string, status models.CommitteeStatus, expectedVersion int) error
	ReplaceMembers(ctx context.Context, committeeID int64, expectedVersion int, members []models.CommitteeMember) error
	Delete(ctx context.Context, code string) error
}

// AssignmentStore persists topic assignments.
type AssignmentStore interface {
	GetByTopicCode(ctx context.Context, topicCode string) (*models.Assignment, error)
	CreateBatch(ctx context.Context, committeeID int64, expectedVersion int, assignments []models.Assignment) error
	DeleteByTopicCode(ctx context.Context, topicCode string) error
}
