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

const topicColumns = `t.id, t.code, t.title, t.supervisor_code, t.student_code, t.tag_codes, t.status`

// TopicRepository handles database operations for thesis topics.
type TopicRepository struct {
	db *pgxpool.Pool
}

// NewTopicRepository creates a new topic repository.
func NewTopicRepository(db *pgxpool.Pool) *TopicRepository {
	return &TopicRepository{db: db}
}

func scanTopic(row pgx.Row) (*models.Topic, error) {
	var topic models.Topic
	err := row.Scan(
		&topic.ID,
		&topic.Code,
		&topic.Title,
		&topic.SupervisorCode,
		&topic.StudentCode,
		&topic.TagCodes,
		&topic.Status,
	)
	if err != nil {
		return nil, err
	}
	return &topic, nil
}

// GetByCode retrieves a topic by code.
func (r *TopicRepository) GetByCode(ctx context.Context, code string) (*models.Topic, error) {
	query := `SELECT ` + topicColumns + ` FROM topics t WHERE t.code = $1`

	topic, err := scanTopic(r.db.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTopicNotFound
		}
		return nil, fmt.Errorf("error retrieving topic: %w", err)
	}
	return topic, nil
}

// GetByCodes retrieves multiple topics keyed by code.
func (r *TopicRepository) GetByCodes(ctx context.Context, codes []string) (map[string]*models.Topic, error) {
	query := `SELECT ` + topicColumns + ` FROM topics t WHERE t.code = ANY($1)`

	rows, err := r.db.Query(ctx, query, codes)
	if err != nil {
		return nil, fmt.Errorf("error retrieving topics: %w", err)
	}
	defer rows.Close()

	result := make(map[string]*models.Topic, len(codes))
	for rows.Next() {
		topic, err := scanTopic(rows)
		if err != nil {
			return nil, err
		}
		result[topic.Code] = topic
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListEligible retrieves topics that are approved and have no active
// assignment, optionally narrowed to any-tag overlap with tagCodes. The
// union across tags happens server-side in this single query.
func (r *TopicRepository) ListEligible(ctx context.Context, tagCodes []string) ([]*models.Topic, error) {
	query := `
		SELECT ` + topicColumns + `
		FROM topics t
		WHERE t.status = 'APPROVED'
		  AND NOT EXISTS (SELECT 1 FROM assignments a WHERE a.topic_code = t.code)`
	args := []interface{}{}
	if len(tagCodes) > 0 {
		query += ` AND t.tag_codes && $1`
		args = append(args, tagCodes)
	}
	query += ` ORDER BY t.code`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing eligible topics: %w", err)
	}
	defer rows.Close()

	var topics []*models.Topic
	for rows.Next() {
		topic, err := scanTopic(rows)
		if err != nil {
			return nil, err
		}
		topics = append(topics, topic)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return topics, nil
}
