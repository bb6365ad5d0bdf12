package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/tvu/thesisdesk/internal/app/models"
)

// CreateDefaultData seeds a starter set of lecturers and topics if they don't
// exist. Inserts are idempotent on the code column, so repeated startups are
// safe. Real data normally arrives through the faculty information system;
// this set makes a fresh database usable immediately.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (Lecturers/Topics)...")
	var finalErr error

	lecturers := []struct {
		code         string
		fullName     string
		degree       appModels.Degree
		tags         []string
		guideQuota   int
		defenseQuota int
	}{
		{"GV001", "Nguyen Van An", appModels.DegreeProfessor, []string{"CNTT01", "CNTT02"}, 5, 8},
		{"GV002", "Tran Thi Binh", appModels.DegreeAssocProfessor, []string{"CNTT01", "CNTT03"}, 5, 8},
		{"GV003", "Le Van Cuong", appModels.DegreeDoctorate, []string{"CNTT02"}, 4, 6},
		{"GV004", "Pham Thi Dao", appModels.DegreeDoctorate, []string{"CNTT03", "CNTT04"}, 4, 6},
		{"GV005", "Hoang Van Em", appModels.DegreeMaster, []string{"CNTT01"}, 3, 6},
		{"GV006", "Vo Thi Phuong", appModels.DegreeMaster, []string{"CNTT02", "CNTT04"}, 3, 6},
		{"GV007", "Dang Van Giang", appModels.DegreeMaster, []string{"CNTT03"}, 3, 6},
		{"GV008", "Bui Thi Hoa", appModels.DegreeDoctorate, []string{"CNTT04"}, 4, 6},
	}
	for _, l := range lecturers {
		_, err := dbPool.Exec(ctx, `
			INSERT INTO lecturers (code, full_name, degree, tag_codes, guide_quota, defense_quota)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (code) DO NOTHING`,
			l.code, l.fullName, l.degree.String(), l.tags, l.guideQuota, l.defenseQuota)
		if err != nil {
			lgr.Error().Err(err).Str("lecturer", l.code).Msg("Error seeding lecturer")
			finalErr = errors.Join(finalErr, err)
		}
	}

	topics := []struct {
		code       string
		title      string
		supervisor string
		student    string
		tags       []string
		status     appModels.TopicStatus
	}{
		{"DT001", "Course recommendation with collaborative filtering", "GV001", "SV1001", []string{"CNTT01"}, appModels.TopicStatusApproved},
		{"DT002", "Campus network intrusion detection", "GV002", "SV1002", []string{"CNTT03"}, appModels.TopicStatusApproved},
		{"DT003", "Timetable generation with constraint solving", "GV003", "SV1003", []string{"CNTT02"}, appModels.TopicStatusApproved},
		{"DT004", "Mobile attendance with face recognition", "GV004", "SV1004", []string{"CNTT04"}, appModels.TopicStatusApproved},
		{"DT005", "Library chatbot for student services", "GV005", "SV1005", []string{"CNTT01", "CNTT02"}, appModels.TopicStatusPending},
	}
	for _, t := range topics {
		_, err := dbPool.Exec(ctx, `
			INSERT INTO topics (code, title, supervisor_code, student_code, tag_codes, status)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (code) DO NOTHING`,
			t.code, t.title, t.supervisor, t.student, t.tags, string(t.status))
		if err != nil {
			lgr.Error().Err(err).Str("topic", t.code).Msg("Error seeding topic")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if finalErr == nil {
		lgr.Info().Msg("Default data check/creation complete.")
	}
	return finalErr
}
