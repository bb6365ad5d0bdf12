package models

// Lecturer defines the lecturer model based on the 'lecturers' table.
// CurrentGuidingCount and CurrentDefenseLoad are not stored columns: they
// are recomputed on read from active supervisions and committee duties, so
// they can never drift from the assignments that define them.
type Lecturer struct {
	ID                  int64    `json:"id" db:"id"`
	Code                string   `json:"code" db:"code" example:"GV010"`
	FullName            string   `json:"fullName" db:"full_name"`
	Degree              Degree   `json:"degree" db:"degree" example:"DOCTORATE"`
	TagCodes            []string `json:"tagCodes" db:"tag_codes"`
	GuideQuota          int      `json:"guideQuota" db:"guide_quota"`
	DefenseQuota        int      `json:"defenseQuota" db:"defense_quota"`
	CurrentGuidingCount int      `json:"currentGuidingCount"`
	CurrentDefenseLoad  int      `json:"currentDefenseLoad"`
}

// ChairEligible reports whether the lecturer may hold the chair role.
func (l *Lecturer) ChairEligible() bool {
	return l.Degree.ChairEligible()
}

// DefenseCapacityLeft returns how many more defense duties the lecturer can
// take before hitting the quota.
func (l *Lecturer) DefenseCapacityLeft() int {
	left := l.DefenseQuota - l.CurrentDefenseLoad
	if left < 0 {
		return 0
	}
	return left
}
