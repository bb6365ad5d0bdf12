package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tvu/thesisdesk/internal/app/models"
	"github.com/tvu/thesisdesk/internal/pkg/apperrors"
)

// lecturerColumns selects the stored lecturer fields plus both load figures
// derived from live data, so counters can never drift from reality.
const lecturerColumns = `
	l.id, l.code, l.full_name, l.degree, l.tag_codes, l.guide_quota, l.defense_quota,
	(SELECT COUNT(*) FROM topics t
		WHERE t.supervisor_code = l.code AND t.status <> 'REJECTED') AS guiding_count,
	(SELECT COUNT(*) FROM assignments a
		JOIN committee_members cm ON cm.committee_id = a.committee_id
		WHERE cm.lecturer_code = l.code) AS defense_load`

// LecturerRepository handles database operations for lecturers.
type LecturerRepository struct {
	db *pgxpool.Pool
}

// NewLecturerRepository creates a new lecturer repository.
func NewLecturerRepository(db *pgxpool.Pool) *LecturerRepository {
	return &LecturerRepository{db: db}
}

func scanLecturer(row pgx.Row) (*models.Lecturer, error) {
	var lecturer models.Lecturer
	var degree string
	err := row.Scan(
		&lecturer.ID,
		&lecturer.Code,
		&lecturer.FullName,
		&degree,
		&lecturer.TagCodes,
		&lecturer.GuideQuota,
		&lecturer.DefenseQuota,
		&lecturer.CurrentGuidingCount,
		&lecturer.CurrentDefenseLoad,
	)
	if err != nil {
		return nil, err
	}
	lecturer.Degree, err = models.ParseDegree(degree)
	if err != nil {
		return nil, fmt.Errorf("lecturer %s: %w", lecturer.Code, err)
	}
	return &lecturer, nil
}

// GetByCode retrieves a lecturer by code.
func (r *LecturerRepository) GetByCode(ctx context.Context, code string) (*models.Lecturer, error) {
	query := `SELECT ` + lecturerColumns + ` FROM lecturers l WHERE l.code = $1`

	lecturer, err := scanLecturer(r.db.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrLecturerNotFound
		}
		return nil, fmt.Errorf("error retrieving lecturer: %w", err)
	}
	return lecturer, nil
}

// GetByCodes retrieves multiple lecturers keyed by code. Missing codes are
// simply absent from the result; the caller decides whether that is fatal.
func (r *LecturerRepository) GetByCodes(ctx context.Context, codes []string) (map[string]*models.Lecturer, error) {
	query := `SELECT ` + lecturerColumns + ` FROM lecturers l WHERE l.code = ANY($1)`

	rows, err := r.db.Query(ctx, query, codes)
	if err != nil {
		return nil, fmt.Errorf("error retrieving lecturers: %w", err)
	}
	defer rows.Close()

	result := make(map[string]*models.Lecturer, len(codes))
	for rows.Next() {
		lecturer, err := scanLecturer(rows)
		if err != nil {
			return nil, err
		}
		result[lecturer.Code] = lecturer
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListByTags retrieves lecturers whose specialty tags overlap any of the
// given tags, in one query so the union is computed server-side. An empty
// tag list returns the full pool.
func (r *LecturerRepository) ListByTags(ctx context.Context, tagCodes []string) ([]*models.Lecturer, error) {
	query := `SELECT ` + lecturerColumns + ` FROM lecturers l`
	args := []interface{}{}
	if len(tagCodes) > 0 {
		query += ` WHERE l.tag_codes && $1`
		args = append(args, tagCodes)
	}
	query += ` ORDER BY l.code`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing lecturers: %w", err)
	}
	defer rows.Close()

	var lecturers []*models.Lecturer
	for rows.Next() {
		lecturer, err := scanLecturer(rows)
		if err != nil {
			return nil, err
		}
		lecturers = append(lecturers, lecturer)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lecturers, nil
}
