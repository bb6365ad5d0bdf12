package dto

// EligibleLecturer is one candidate in an eligibility resolution, with the
// derived load figures the caller needs to render quota headroom.
type EligibleLecturer struct {
	LecturerCode       string   `json:"lecturerCode" example:"GV010"`
	FullName           string   `json:"fullName"`
	Degree             string   `json:"degree" example:"DOCTORATE"`
	Specialties        []string `json:"specialties"`
	ChairEligible      bool     `json:"chairEligible"`
	CurrentDefenseLoad int      `json:"currentDefenseLoad"`
	DefenseQuota       int      `json:"defenseQuota"`
}

// EligibleTopic is one schedulable topic: approved and not yet assigned.
type EligibleTopic struct {
	TopicCode      string   `json:"topicCode" example:"DT042"`
	Title          string   `json:"title"`
	StudentCode    string   `json:"studentCode"`
	SupervisorCode string   `json:"supervisorCode"`
	TagCodes       []string `json:"tagCodes"`
}
