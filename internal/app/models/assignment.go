package models

import "time"

// Assignment binds one topic to one slot of a committee session. An
// assignment is never mutated in place: moving a topic removes the old
// assignment and creates a new one.
type Assignment struct {
	ID            int64         `json:"id" db:"id"`
	TopicCode     string        `json:"topicCode" db:"topic_code"`
	CommitteeCode string        `json:"committeeCode" db:"committee_code"`
	Session       SessionNumber `json:"session" db:"session_number"`
	StartTime     time.Time     `json:"startTime" db:"start_time"`
	EndTime       time.Time     `json:"endTime" db:"end_time"`
	Topic         *Topic        `json:"topic,omitempty"`
}

// NewAssignment creates an assignment for the slot starting at start; the
// end time is always derived, never supplied.
func NewAssignment(topicCode, committeeCode string, session SessionNumber, start time.Time) Assignment {
	return Assignment{
		TopicCode:     topicCode,
		CommitteeCode: committeeCode,
		Session:       session,
		StartTime:     start,
		EndTime:       start.Add(SlotDuration),
	}
}
