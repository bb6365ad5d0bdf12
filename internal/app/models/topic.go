package models

// TopicStatus is the review status of a thesis topic.
type TopicStatus string

const (
	TopicStatusPending  TopicStatus = "PENDING"
	TopicStatusApproved TopicStatus = "APPROVED"
	TopicStatusRejected TopicStatus = "REJECTED"
)

// Topic defines the thesis topic model based on the 'topics' table.
type Topic struct {
	ID             int64       `json:"id" db:"id"`
	Code           string      `json:"code" db:"code" example:"DT042"`
	Title          string      `json:"title" db:"title"`
	SupervisorCode string      `json:"supervisorCode" db:"supervisor_code"`
	StudentCode    string      `json:"studentCode" db:"student_code"`
	TagCodes       []string    `json:"tagCodes" db:"tag_codes"`
	Status         TopicStatus `json:"status" db:"status"`
}

// Approved reports whether the topic passed review. Approval is necessary
// but not sufficient for scheduling: the topic must also be unassigned.
func (t *Topic) Approved() bool {
	return t.Status == TopicStatusApproved
}

// TagAffinity counts the overlapping tags between two tag sets. It is the
// score used to rank topics against a committee during auto-assignment.
func TagAffinity(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(a))
	for _, tag := range a {
		set[tag] = struct{}{}
	}
	overlap := 0
	for _, tag := range b {
		if _, ok := set[tag]; ok {
			overlap++
			delete(set, tag)
		}
	}
	return overlap
}
