package dto

import "time"

// TopicSlotInput names one topic to schedule. StartTime is optional: when
// omitted the allocator picks the next free slot in template order.
type TopicSlotInput struct {
	TopicCode string     `json:"topicCode" binding:"required,topiccode" example:"DT042"`
	StartTime *time.Time `json:"startTime"`
}

// AssignTopicsRequest places topics into one session of a committee.
// OverrideQuota waives the member defense quota check for this request
// only; capacity and eligibility rules still apply.
type AssignTopicsRequest struct {
	Session       int              `json:"session" binding:"required,min=1,max=2"`
	Topics        []TopicSlotInput `json:"topics" binding:"required,min=1,dive"`
	OverrideQuota bool             `json:"overrideQuota"`
}

// ChangeAssignmentRequest reschedules an already assigned topic. The engine
// models this as remove plus recreate, never an in-place update.
type ChangeAssignmentRequest struct {
	Session       int        `json:"session" binding:"required,min=1,max=2"`
	StartTime     *time.Time `json:"startTime"`
	OverrideQuota bool       `json:"overrideQuota"`
}

// ScheduleItemInput is one topic's desired placement in a full schedule
// save. StartTime is optional like in TopicSlotInput.
type ScheduleItemInput struct {
	TopicCode string     `json:"topicCode" binding:"required,topiccode" example:"DT042"`
	Session   int        `json:"session" binding:"required,min=1,max=2"`
	StartTime *time.Time `json:"startTime"`
}

// SaveScheduleRequest declares the full desired topic set of a committee.
// Topics missing from the list are unscheduled; an empty list clears the
// committee's day.
type SaveScheduleRequest struct {
	Topics        []ScheduleItemInput `json:"topics" binding:"dive"`
	OverrideQuota bool                `json:"overrideQuota"`
}

// SchedulePlanResponse reports the operations a schedule save applied.
type SchedulePlanResponse struct {
	Removed []string `json:"removed"`
	Added   []string `json:"added"`
	Kept    []string `json:"kept"`
	Changed []string `json:"changed"`
}

// AutoAssignRequest runs the bulk allocator over the named committees.
type AutoAssignRequest struct {
	CommitteeCodes []string `json:"committeeCodes" binding:"required,min=1"`
}

// CommitteePlacements reports what the allocator put into one committee.
type CommitteePlacements struct {
	CommitteeCode string   `json:"committeeCode" example:"HD2025001"`
	PlacedTopics  []string `json:"placedTopics"`
}

// AutoAssignResponse is the allocator's full report. UnplacedTopics counts
// eligible topics no committee could take; that is an outcome, not an error.
type AutoAssignResponse struct {
	Placements     []CommitteePlacements `json:"placements"`
	PlacedCount    int                   `json:"placedCount"`
	UnplacedTopics int                   `json:"unplacedTopics"`
}
