package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tvu/thesisdesk/internal/app/models"
	"github.com/tvu/thesisdesk/internal/app/models/dto"
	"github.com/tvu/thesisdesk/internal/app/services"
	"github.com/tvu/thesisdesk/internal/middleware"
)

// CommitteeController handles committee lifecycle and membership endpoints.
type CommitteeController struct {
	committeeService  *services.CommitteeService
	membershipService *services.MembershipService
}

// NewCommitteeController creates a new CommitteeController.
func NewCommitteeController(committeeService *services.CommitteeService, membershipService *services.MembershipService) *CommitteeController {
	return &CommitteeController{
		committeeService:  committeeService,
		membershipService: membershipService,
	}
}

// CreateCommittee handles committee creation
// @Summary Create a new committee
// @Description Creates an empty committee in Draft state with a generated sequential code
// @Tags committees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCommitteeRequest true "Committee information"
// @Success 201 {object} dto.APIResponse{data=models.Committee} "Committee created"
// @Failure 400 {object} dto.APIResponse "Invalid request data"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Router /committees [post]
func (c *CommitteeController) CreateCommittee(ctx *gin.Context) {
	var req dto.CreateCommitteeRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	committee, err := c.committeeService.CreateCommittee(ctx, req.Name, req.DefenseDate, req.Room, req.TagCodes)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(committee, "Committee created"))
}

// GetCommittee retrieves one committee with members and sessions
// @Summary Get committee by code
// @Tags committees
// @Produce json
// @Security BearerAuth
// @Param code path string true "Committee code" example(HD2025001)
// @Success 200 {object} dto.APIResponse{data=models.Committee}
// @Failure 404 {object} dto.APIResponse "Committee not found"
// @Router /committees/{code} [get]
func (c *CommitteeController) GetCommittee(ctx *gin.Context) {
	committee, err := c.committeeService.GetCommittee(ctx, ctx.Param("code"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(committee, ""))
}

// ListCommittees retrieves all committees
// @Summary List committees
// @Tags committees
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Committee}
// @Router /committees [get]
func (c *CommitteeController) ListCommittees(ctx *gin.Context) {
	committees, err := c.committeeService.ListCommittees(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(committees, ""))
}

// UpdateCommittee edits committee metadata
// @Summary Update committee metadata
// @Description Updates name, room, date or tags of a non-finalized committee under an optimistic version check
// @Tags committees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param code path string true "Committee code"
// @Param request body dto.UpdateCommitteeRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=models.Committee}
// @Failure 404 {object} dto.APIResponse "Committee not found"
// @Failure 409 {object} dto.APIResponse "Stale version or committee finalized"
// @Router /committees/{code} [put]
func (c *CommitteeController) UpdateCommittee(ctx *gin.Context) {
	var req dto.UpdateCommitteeRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	committee, err := c.committeeService.UpdateCommittee(ctx, ctx.Param("code"),
		req.Name, req.Room, req.DefenseDate, req.TagCodes, req.Version)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(committee, "Committee updated"))
}

// SaveMembers replaces the member set of a committee
// @Summary Save committee members
// @Description Creates or updates the full member set; all required roles must be filled and the chair must hold a doctorate
// @Tags committees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param code path string true "Committee code"
// @Param request body dto.SaveMembersRequest true "Member set"
// @Success 200 {object} dto.APIResponse{data=models.Committee}
// @Failure 422 {object} dto.APIResponse "Role exclusivity, chair degree or incomplete roles violation"
// @Router /committees/{code}/members [put]
func (c *CommitteeController) SaveMembers(ctx *gin.Context) {
	var req dto.SaveMembersRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	members := make([]models.CommitteeMember, 0, len(req.Members))
	for _, m := range req.Members {
		members = append(members, models.CommitteeMember{
			Role:         models.CommitteeRole(m.Role),
			LecturerCode: m.LecturerCode,
			IsChair:      m.IsChair,
		})
	}

	committee, err := c.membershipService.SaveMembers(ctx, ctx.Param("code"), members)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(committee, "Members saved"))
}

// FinalizeCommittee locks a committee
// @Summary Finalize a committee
// @Tags committees
// @Produce json
// @Security BearerAuth
// @Param code path string true "Committee code"
// @Success 200 {object} dto.APIResponse{data=models.Committee}
// @Failure 409 {object} dto.APIResponse "Committee not ready to finalize"
// @Router /committees/{code}/finalize [post]
func (c *CommitteeController) FinalizeCommittee(ctx *gin.Context) {
	committee, err := c.committeeService.FinalizeCommittee(ctx, ctx.Param("code"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(committee, "Committee finalized"))
}

// DeleteCommittee removes a committee and cascades its assignments
// @Summary Delete a committee
// @Description Deletes the committee together with its memberships and topic assignments
// @Tags committees
// @Produce json
// @Security BearerAuth
// @Param code path string true "Committee code"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse "Committee not found"
// @Router /committees/{code} [delete]
func (c *CommitteeController) DeleteCommittee(ctx *gin.Context) {
	if err := c.committeeService.DeleteCommittee(ctx, ctx.Param("code")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Committee deleted"))
}
