package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tvu/thesisdesk/internal/app/models"
	"github.com/tvu/thesisdesk/internal/pkg/apperrors"
	"github.com/tvu/thesisdesk/internal/pkg/dberrors"
)

// AssignmentRepository handles database operations for topic assignments.
// Every write bumps the owning committee's version under the optimistic
// check, so concurrent allocations against one committee cannot both land.
type AssignmentRepository struct {
	db *pgxpool.Pool
}

// NewAssignmentRepository creates a new assignment repository.
func NewAssignmentRepository(db *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// GetByTopicCode retrieves the active assignment of a topic, if any.
func (r *AssignmentRepository) GetByTopicCode(ctx context.Context, topicCode string) (*models.Assignment, error) {
	var a models.Assignment
	err := r.db.QueryRow(ctx, `
		SELECT a.id, a.topic_code, c.code, a.session_number, a.start_time, a.end_time
		FROM assignments a
		JOIN committees c ON c.id = a.committee_id
		WHERE a.topic_code = $1`,
		topicCode,
	).Scan(&a.ID, &a.TopicCode, &a.CommitteeCode, &a.Session, &a.StartTime, &a.EndTime)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("error retrieving assignment: %w", err)
	}
	return &a, nil
}

// CreateBatch inserts a set of assignments for one committee in a single
// transaction. The committee version is checked and bumped first; a stale
// version aborts before any insert. The unique constraints on topic and
// slot back the engine's validation at the storage level.
func (r *AssignmentRepository) CreateBatch(ctx context.Context, committeeID int64, expectedVersion int, assignments []models.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE committees SET version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2`,
		committeeID, expectedVersion)
	if err != nil {
		return fmt.Errorf("error bumping committee version: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStaleVersion
	}

	for _, a := range assignments {
		_, err := tx.Exec(ctx, `
			INSERT INTO assignments (topic_code, committee_id, session_number, start_time, end_time)
			VALUES ($1, $2, $3, $4, $5)`,
			a.TopicCode, committeeID, a.Session, a.StartTime, a.EndTime)
		if err != nil {
			if dberrors.IsUniqueViolation(err, "assignments_topic_uniq") {
				return apperrors.New(apperrors.ErrTopicAlreadyAssigned,
					fmt.Sprintf("topic %s already has an active assignment", a.TopicCode))
			}
			if dberrors.IsUniqueViolation(err, "assignments_slot_uniq") {
				return apperrors.ErrStaleVersion
			}
			if dberrors.IsForeignKeyViolation(err) {
				return apperrors.New(apperrors.ErrTopicNotFound,
					fmt.Sprintf("topic %s does not exist", a.TopicCode))
			}
			return fmt.Errorf("error inserting assignment for topic %s: %w", a.TopicCode, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		if dberrors.IsSerializationFailure(err) {
			return apperrors.ErrStaleVersion
		}
		return fmt.Errorf("error committing assignments: %w", err)
	}
	return nil
}

// DeleteByTopicCode removes a topic's assignment and bumps the committee
// version. A missing assignment reports ErrAssignmentNotFound so a repeated
// removal stays well-defined.
func (r *AssignmentRepository) DeleteByTopicCode(ctx context.Context, topicCode string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var committeeID int64
	err = tx.QueryRow(ctx,
		`DELETE FROM assignments WHERE topic_code = $1 RETURNING committee_id`,
		topicCode,
	).Scan(&committeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrAssignmentNotFound
		}
		return fmt.Errorf("error deleting assignment: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE committees SET version = version + 1, updated_at = NOW()
		WHERE id = $1`,
		committeeID); err != nil {
		return fmt.Errorf("error bumping committee version: %w", err)
	}

	return tx.Commit(ctx)
}
