package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tvu/thesisdesk/internal/app/models"
	"github.com/tvu/thesisdesk/internal/app/models/dto"
	"github.com/tvu/thesisdesk/internal/app/services"
	"github.com/tvu/thesisdesk/internal/middleware"
)

// EligibilityController answers candidate queries for committee building.
type EligibilityController struct {
	eligibilityService *services.EligibilityService
}

// NewEligibilityController creates a new EligibilityController.
func NewEligibilityController(eligibilityService *services.EligibilityService) *EligibilityController {
	return &EligibilityController{eligibilityService: eligibilityService}
}

// GetEligibleLecturers resolves lecturers matching a tag filter
// @Summary List eligible lecturers
// @Description Returns lecturers whose specialties overlap the given tags, with derived guiding and defense loads. No tags returns the full pool.
// @Tags eligibility
// @Produce json
// @Security BearerAuth
// @Param tags query string false "Comma-separated tag codes" example(CNTT01,CNTT03)
// @Success 200 {object} dto.APIResponse{data=[]dto.EligibleLecturer}
// @Router /eligibility/lecturers [get]
func (c *EligibilityController) GetEligibleLecturers(ctx *gin.Context) {
	lecturers, err := c.eligibilityService.EligibleLecturers(ctx, splitTags(ctx.Query("tags")))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	result := make([]dto.EligibleLecturer, 0, len(lecturers))
	for _, l := range lecturers {
		result = append(result, toEligibleLecturer(l))
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result, ""))
}

// GetEligibleTopics resolves topics that can still be scheduled
// @Summary List eligible topics
// @Description Returns approved, unassigned topics. Filter by explicit tags or by the tag set of an existing committee; committee wins when both are given.
// @Tags eligibility
// @Produce json
// @Security BearerAuth
// @Param tags query string false "Comma-separated tag codes"
// @Param committee query string false "Committee code whose tags to filter by" example(HD2025001)
// @Success 200 {object} dto.APIResponse{data=[]dto.EligibleTopic}
// @Failure 404 {object} dto.APIResponse "Committee not found"
// @Router /eligibility/topics [get]
func (c *EligibilityController) GetEligibleTopics(ctx *gin.Context) {
	var (
		topics []*models.Topic
		err    error
	)
	if committeeCode := ctx.Query("committee"); committeeCode != "" {
		topics, err = c.eligibilityService.EligibleTopicsForCommittee(ctx, committeeCode)
	} else {
		topics, err = c.eligibilityService.EligibleTopics(ctx, splitTags(ctx.Query("tags")))
	}
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	result := make([]dto.EligibleTopic, 0, len(topics))
	for _, t := range topics {
		result = append(result, dto.EligibleTopic{
			TopicCode:      t.Code,
			Title:          t.Title,
			StudentCode:    t.StudentCode,
			SupervisorCode: t.SupervisorCode,
			TagCodes:       t.TagCodes,
		})
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result, ""))
}

func toEligibleLecturer(l *models.Lecturer) dto.EligibleLecturer {
	return dto.EligibleLecturer{
		LecturerCode:       l.Code,
		FullName:           l.FullName,
		Degree:             l.Degree.String(),
		Specialties:        l.TagCodes,
		ChairEligible:      l.ChairEligible(),
		CurrentDefenseLoad: l.CurrentDefenseLoad,
		DefenseQuota:       l.DefenseQuota,
	}
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}
