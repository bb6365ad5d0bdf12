package dto

import "time"

// CreateCommitteeRequest is the payload for creating a committee. The code
// is generated server-side, sequentially per year.
type CreateCommitteeRequest struct {
	Name        string    `json:"name"`
	DefenseDate time.Time `json:"defenseDate" binding:"required"`
	Room        string    `json:"room"`
	TagCodes    []string  `json:"tagCodes"`
}

// UpdateCommitteeRequest edits committee metadata. Version must echo the
// version the client read; a mismatch is rejected as a stale write.
type UpdateCommitteeRequest struct {
	Name        *string    `json:"name"`
	DefenseDate *time.Time `json:"defenseDate"`
	Room        *string    `json:"room"`
	TagCodes    []string   `json:"tagCodes"`
	Version     int        `json:"version" binding:"required"`
}

// MemberInput is one role slot in a save-members payload.
type MemberInput struct {
	Role         string `json:"role" binding:"required" example:"CHAIR"`
	LecturerCode string `json:"lecturerCode" binding:"required,lecturercode" example:"GV010"`
	IsChair      bool   `json:"isChair"`
}

// SaveMembersRequest replaces the full member set of a committee. Whether
// this creates or updates the membership is decided server-side from
// whether a saved set already exists.
type SaveMembersRequest struct {
	Members []MemberInput `json:"members" binding:"required,min=4,max=5,dive"`
}
