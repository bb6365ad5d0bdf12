package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances.
type Repositories struct {
	LecturerRepository   *LecturerRepository
	TopicRepository      *TopicRepository
	CommitteeRepository  *CommitteeRepository
	AssignmentRepository *AssignmentRepository
}

// NewRepositories initializes all repositories.
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		LecturerRepository:   NewLecturerRepository(db),
		TopicRepository:      NewTopicRepository(db),
		CommitteeRepository:  NewCommitteeRepository(db),
		AssignmentRepository: NewAssignmentRepository(db),
	}
}
