package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tvu/thesisdesk/internal/app/models"
	"github.com/tvu/thesisdesk/internal/app/models/dto"
	"github.com/tvu/thesisdesk/internal/app/services"
	"github.com/tvu/thesisdesk/internal/middleware"
)

// AssignmentController handles topic scheduling endpoints.
type AssignmentController struct {
	scheduleService   *services.ScheduleService
	autoAssignService *services.AutoAssignService
	reconcileService  *services.ReconcileService
}

// NewAssignmentController creates a new AssignmentController.
func NewAssignmentController(scheduleService *services.ScheduleService, autoAssignService *services.AutoAssignService, reconcileService *services.ReconcileService) *AssignmentController {
	return &AssignmentController{
		scheduleService:   scheduleService,
		autoAssignService: autoAssignService,
		reconcileService:  reconcileService,
	}
}

// AssignTopics schedules topics into one session of a committee
// @Summary Assign topics to a session
// @Description Places topics into the given session; explicit start times are honoured first, the rest take the earliest free slots in template order
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param code path string true "Committee code"
// @Param request body dto.AssignTopicsRequest true "Session and topic list"
// @Success 201 {object} dto.APIResponse{data=[]models.Assignment}
// @Failure 409 {object} dto.APIResponse "Stale version or topic already assigned"
// @Failure 422 {object} dto.APIResponse "Session or daily capacity exceeded"
// @Router /committees/{code}/assignments [post]
func (c *AssignmentController) AssignTopics(ctx *gin.Context) {
	var req dto.AssignTopicsRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	placements := make([]services.TopicPlacement, 0, len(req.Topics))
	for _, t := range req.Topics {
		placements = append(placements, services.TopicPlacement{
			TopicCode: t.TopicCode,
			StartTime: t.StartTime,
		})
	}

	assignments, err := c.scheduleService.AssignTopics(ctx, ctx.Param("code"),
		models.SessionNumber(req.Session), placements, req.OverrideQuota)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(assignments, "Topics assigned"))
}

// RemoveAssignment unschedules a topic
// @Summary Remove a topic assignment
// @Description Frees the topic's slot; the topic returns to the eligible pool
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param topicCode path string true "Topic code" example(DT042)
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse "Topic is not assigned anywhere"
// @Router /assignments/{topicCode} [delete]
func (c *AssignmentController) RemoveAssignment(ctx *gin.Context) {
	if err := c.scheduleService.RemoveAssignment(ctx, ctx.Param("topicCode")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Assignment removed"))
}

// ChangeAssignment moves a topic to another slot
// @Summary Reschedule an assigned topic
// @Description Removes the current placement and recreates it in the requested session and slot
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param code path string true "Committee code"
// @Param topicCode path string true "Topic code"
// @Param request body dto.ChangeAssignmentRequest true "New session and optional start time"
// @Success 200 {object} dto.APIResponse{data=models.Assignment}
// @Failure 404 {object} dto.APIResponse "Assignment not found in this committee"
// @Failure 422 {object} dto.APIResponse "Target session full"
// @Router /committees/{code}/assignments/{topicCode} [put]
func (c *AssignmentController) ChangeAssignment(ctx *gin.Context) {
	var req dto.ChangeAssignmentRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	assignment, err := c.scheduleService.ChangeAssignment(ctx, ctx.Param("code"), ctx.Param("topicCode"),
		models.SessionNumber(req.Session), req.StartTime, req.OverrideQuota)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(assignment, "Assignment moved"))
}

// SaveSchedule reconciles a committee's whole topic set
// @Summary Save a committee's full schedule
// @Description Diffs the desired topic set against the persisted one and applies the difference: removals first, then additions and moves; topics missing from the list are unscheduled
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param code path string true "Committee code"
// @Param request body dto.SaveScheduleRequest true "Desired topic set"
// @Success 200 {object} dto.APIResponse{data=dto.SchedulePlanResponse}
// @Failure 409 {object} dto.APIResponse "Stale version"
// @Failure 422 {object} dto.APIResponse "Capacity or quota exceeded"
// @Router /committees/{code}/schedule [put]
func (c *AssignmentController) SaveSchedule(ctx *gin.Context) {
	var req dto.SaveScheduleRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	desired := make([]services.TopicSchedule, 0, len(req.Topics))
	for _, t := range req.Topics {
		item := services.TopicSchedule{
			TopicCode: t.TopicCode,
			Session:   models.SessionNumber(t.Session),
		}
		if t.StartTime != nil {
			item.StartTime = *t.StartTime
		}
		desired = append(desired, item)
	}

	plan, err := c.reconcileService.SaveSchedule(ctx, ctx.Param("code"), desired, req.OverrideQuota)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.SchedulePlanResponse{
		Removed: append([]string{}, plan.Removed...),
		Kept:    append([]string{}, plan.Kept...),
		Added:   make([]string, 0, len(plan.Added)),
		Changed: make([]string, 0, len(plan.Changed)),
	}
	for _, a := range plan.Added {
		resp.Added = append(resp.Added, a.TopicCode)
	}
	for _, ch := range plan.Changed {
		resp.Changed = append(resp.Changed, ch.TopicCode)
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Schedule saved"))
}

// AutoAssign runs the bulk allocator
// @Summary Auto-assign topics across committees
// @Description Fills the named committees from the eligible topic pool with a deterministic greedy pass; topics the pool cannot place are reported, not errored
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AutoAssignRequest true "Committees to fill"
// @Success 200 {object} dto.APIResponse{data=dto.AutoAssignResponse}
// @Failure 400 {object} dto.APIResponse "No committees given"
// @Router /assignments/auto [post]
func (c *AssignmentController) AutoAssign(ctx *gin.Context) {
	var req dto.AutoAssignRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	result, err := c.autoAssignService.AutoAssign(ctx, req.CommitteeCodes)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.AutoAssignResponse{
		Placements:     make([]dto.CommitteePlacements, 0, len(result.Placements)),
		PlacedCount:    result.PlacedCount,
		UnplacedTopics: result.Unplaced,
	}
	for _, p := range result.Placements {
		codes := make([]string, 0, len(p.Topics))
		for _, t := range p.Topics {
			codes = append(codes, t.Code)
		}
		resp.Placements = append(resp.Placements, dto.CommitteePlacements{
			CommitteeCode: p.CommitteeCode,
			PlacedTopics:  codes,
		})
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Auto-assignment complete"))
}
