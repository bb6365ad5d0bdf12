package validation

import (
	"regexp"
)

// Code format patterns. Codes are issued by the faculty information system
// and follow fixed shapes: GV for lecturers, DT for topics, HD plus the
// defense year for committees.
var (
	LecturerCodePattern  = `^GV\d{3}$`
	TopicCodePattern     = `^DT\d{3}$`
	CommitteeCodePattern = `^HD\d{7}$`
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	LecturerCode  *regexp.Regexp
	TopicCode     *regexp.Regexp
	CommitteeCode *regexp.Regexp
}{
	LecturerCode:  regexp.MustCompile(LecturerCodePattern),
	TopicCode:     regexp.MustCompile(TopicCodePattern),
	CommitteeCode: regexp.MustCompile(CommitteeCodePattern),
}

// IsLecturerCode reports whether s is a well-formed lecturer code.
func IsLecturerCode(s string) bool {
	return CompiledPatterns.LecturerCode.MatchString(s)
}

// IsTopicCode reports whether s is a well-formed topic code.
func IsTopicCode(s string) bool {
	return CompiledPatterns.TopicCode.MatchString(s)
}

// IsCommitteeCode reports whether s is a well-formed committee code.
func IsCommitteeCode(s string) bool {
	return CompiledPatterns.CommitteeCode.MatchString(s)
}
