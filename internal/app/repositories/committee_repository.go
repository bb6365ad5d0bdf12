package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tvu/thesisdesk/internal/app/models"
	"github.com/tvu/thesisdesk/internal/pkg/apperrors"
	"github.com/tvu/thesisdesk/internal/pkg/dberrors"
)

// CommitteeRepository handles database operations for committees, their
// members and their lifecycle state.
type CommitteeRepository struct {
	db *pgxpool.Pool
}

// NewCommitteeRepository creates a new committee repository.
func NewCommitteeRepository(db *pgxpool.Pool) *CommitteeRepository {
	return &CommitteeRepository{db: db}
}

// Create inserts a committee with a freshly generated sequential code for
// its defense year. The insert and the sequence read share a transaction so
// concurrent creates cannot mint the same code.
func (r *CommitteeRepository) Create(ctx context.Context, committee *models.Committee) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	year := committee.DefenseDate.Year()
	var lastSeq int
	err = tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(RIGHT(code, 3)::int), 0) FROM committees WHERE code LIKE $1`,
		fmt.Sprintf("HD%d%%", year),
	).Scan(&lastSeq)
	if err != nil {
		return fmt.Errorf("error generating committee code: %w", err)
	}
	committee.Code = models.NextCommitteeCode(year, lastSeq)
	committee.Status = models.CommitteeDraft
	committee.Version = 1

	err = tx.QueryRow(ctx, `
		INSERT INTO committees (code, name, defense_date, room, tag_codes, status, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		committee.Code, committee.Name, committee.DefenseDate, committee.Room,
		committee.TagCodes, committee.Status, committee.Version,
	).Scan(&committee.ID)
	if err != nil {
		return fmt.Errorf("error creating committee: %w", err)
	}

	return tx.Commit(ctx)
}

// GetByCode retrieves a committee with its members and both sessions.
func (r *CommitteeRepository) GetByCode(ctx context.Context, code string) (*models.Committee, error) {
	var committee models.Committee
	var status string
	err := r.db.QueryRow(ctx, `
		SELECT id, code, name, defense_date, room, tag_codes, status, version
		FROM committees WHERE code = $1`,
		code,
	).Scan(
		&committee.ID, &committee.Code, &committee.Name, &committee.DefenseDate,
		&committee.Room, &committee.TagCodes, &status, &committee.Version,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCommitteeNotFound
		}
		return nil, fmt.Errorf("error retrieving committee: %w", err)
	}
	committee.Status = models.CommitteeStatus(status)

	if committee.Members, err = r.loadMembers(ctx, committee.ID); err != nil {
		return nil, err
	}
	if committee.Sessions, err = r.loadSessions(ctx, committee.ID); err != nil {
		return nil, err
	}
	return &committee, nil
}

func (r *CommitteeRepository) loadMembers(ctx context.Context, committeeID int64) ([]models.CommitteeMember, error) {
	rows, err := r.db.Query(ctx, `
		SELECT cm.id, cm.role, cm.lecturer_code, cm.is_chair, l.full_name, l.degree
		FROM committee_members cm
		JOIN lecturers l ON l.code = cm.lecturer_code
		WHERE cm.committee_id = $1
		ORDER BY cm.id`,
		committeeID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving committee members: %w", err)
	}
	defer rows.Close()

	var members []models.CommitteeMember
	for rows.Next() {
		var m models.CommitteeMember
		var fullName, degree string
		if err := rows.Scan(&m.ID, &m.Role, &m.LecturerCode, &m.IsChair, &fullName, &degree); err != nil {
			return nil, err
		}
		parsed, err := models.ParseDegree(degree)
		if err != nil {
			return nil, fmt.Errorf("member %s: %w", m.LecturerCode, err)
		}
		m.Lecturer = &models.Lecturer{Code: m.LecturerCode, FullName: fullName, Degree: parsed}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return members, nil
}

func (r *CommitteeRepository) loadSessions(ctx context.Context, committeeID int64) ([]models.Session, error) {
	rows, err := r.db.Query(ctx, `
		SELECT a.id, a.topic_code, c.code, a.session_number, a.start_time, a.end_time
		FROM assignments a
		JOIN committees c ON c.id = a.committee_id
		WHERE a.committee_id = $1
		ORDER BY a.start_time`,
		committeeID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving assignments: %w", err)
	}
	defer rows.Close()

	sessions := []models.Session{
		{Number: models.SessionMorning},
		{Number: models.SessionAfternoon},
	}
	for rows.Next() {
		var a models.Assignment
		if err := rows.Scan(&a.ID, &a.TopicCode, &a.CommitteeCode, &a.Session, &a.StartTime, &a.EndTime); err != nil {
			return nil, err
		}
		for i := range sessions {
			if sessions[i].Number == a.Session {
				sessions[i].Assignments = append(sessions[i].Assignments, a)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// List retrieves all committees ordered by code, without member or session
// detail but with the current topic count.
func (r *CommitteeRepository) List(ctx context.Context) ([]*models.Committee, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, code, name, defense_date, room, tag_codes, status, version
		FROM committees
		ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("error listing committees: %w", err)
	}
	defer rows.Close()

	var committees []*models.Committee
	for rows.Next() {
		var c models.Committee
		var status string
		if err := rows.Scan(&c.ID, &c.Code, &c.Name, &c.DefenseDate, &c.Room, &c.TagCodes, &status, &c.Version); err != nil {
			return nil, err
		}
		c.Status = models.CommitteeStatus(status)
		committees = append(committees, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return committees, nil
}

// UpdateMeta updates committee metadata under the optimistic version check:
// zero affected rows on an existing committee means a concurrent writer won.
func (r *CommitteeRepository) UpdateMeta(ctx context.Context, committee *models.Committee, expectedVersion int) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE committees
		SET name = $1, defense_date = $2, room = $3, tag_codes = $4,
		    version = version + 1, updated_at = $5
		WHERE code = $6 AND version = $7`,
		committee.Name, committee.DefenseDate, committee.Room, committee.TagCodes,
		time.Now(), committee.Code, expectedVersion)
	if err != nil {
		return fmt.Errorf("error updating committee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.staleOrMissing(ctx, committee.Code)
	}
	committee.Version = expectedVersion + 1
	return nil
}

// UpdateStatus advances the committee lifecycle state under the version check.
func (r *CommitteeRepository) UpdateStatus(ctx context.Context, code string, status models.CommitteeStatus, expectedVersion int) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE committees
		SET status = $1, version = version + 1, updated_at = $2
		WHERE code = $3 AND version = $4`,
		status, time.Now(), code, expectedVersion)
	if err != nil {
		return fmt.Errorf("error updating committee status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.staleOrMissing(ctx, code)
	}
	return nil
}

func (r *CommitteeRepository) staleOrMissing(ctx context.Context, code string) error {
	var exists bool
	if err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM committees WHERE code = $1)`, code,
	).Scan(&exists); err != nil {
		return fmt.Errorf("error checking committee: %w", err)
	}
	if exists {
		return apperrors.ErrStaleVersion
	}
	return apperrors.ErrCommitteeNotFound
}

// ReplaceMembers swaps the committee's member set atomically and bumps the
// version. The caller has already validated the set.
func (r *CommitteeRepository) ReplaceMembers(ctx context.Context, committeeID int64, expectedVersion int, members []models.CommitteeMember) error {
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

	if _, err := tx.Exec(ctx, `DELETE FROM committee_members WHERE committee_id = $1`, committeeID); err != nil {
		return fmt.Errorf("error clearing committee members: %w", err)
	}

	for _, m := range members {
		_, err := tx.Exec(ctx, `
			INSERT INTO committee_members (committee_id, role, lecturer_code, is_chair)
			VALUES ($1, $2, $3, $4)`,
			committeeID, m.Role, m.LecturerCode, m.IsChair)
		if err != nil {
			if dberrors.IsForeignKeyViolation(err) {
				return apperrors.New(apperrors.ErrLecturerNotFound,
					fmt.Sprintf("lecturer %s does not exist", m.LecturerCode))
			}
			return fmt.Errorf("error inserting member %s: %w", m.LecturerCode, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		if dberrors.IsSerializationFailure(err) {
			return apperrors.ErrStaleVersion
		}
		return fmt.Errorf("error committing member update: %w", err)
	}
	return nil
}

// Delete removes a committee; memberships and assignments go with it
// through the ON DELETE CASCADE foreign keys.
func (r *CommitteeRepository) Delete(ctx context.Context, code string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM committees WHERE code = $1`, code)
	if err != nil {
		return fmt.Errorf("error deleting committee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCommitteeNotFound
	}
	return nil
}
