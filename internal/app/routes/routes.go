package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/tvu/thesisdesk/internal/app/controllers"
	"github.com/tvu/thesisdesk/internal/middleware"
)

// RoleModerator is the role allowed to mutate committees and schedules.
// Read-only endpoints accept any authenticated user.
const RoleModerator = "MODERATOR"

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	committeeController *controllers.CommitteeController,
	eligibilityController *controllers.EligibilityController,
	assignmentController *controllers.AssignmentController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// Every engine route requires a valid token; identity comes from the
	// external auth service, this API only verifies it.
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	// Eligibility routes (read-only, any authenticated user)
	eligibility := authenticated.Group("/eligibility")
	{
		eligibility.GET("/lecturers", eligibilityController.GetEligibleLecturers)
		eligibility.GET("/topics", eligibilityController.GetEligibleTopics)
	}

	// Committee routes
	committees := authenticated.Group("/committees")
	{
		committees.GET("", committeeController.ListCommittees)
		committees.GET("/:code", committeeController.GetCommittee)

		// Mutations are restricted to moderators
		committeesModeratorProtected := committees.Group("")
		committeesModeratorProtected.Use(authMiddleware.RoleRequired(RoleModerator))
		{
			committeesModeratorProtected.POST("", committeeController.CreateCommittee)
			committeesModeratorProtected.PUT("/:code", committeeController.UpdateCommittee)
			committeesModeratorProtected.DELETE("/:code", committeeController.DeleteCommittee)
			committeesModeratorProtected.PUT("/:code/members", committeeController.SaveMembers)
			committeesModeratorProtected.POST("/:code/finalize", committeeController.FinalizeCommittee)

			// Per-committee scheduling
			committeesModeratorProtected.POST("/:code/assignments", assignmentController.AssignTopics)
			committeesModeratorProtected.PUT("/:code/schedule", assignmentController.SaveSchedule)
			committeesModeratorProtected.PUT("/:code/assignments/:topicCode", assignmentController.ChangeAssignment)
		}
	}

	// Assignment routes addressed by topic rather than committee
	assignments := authenticated.Group("/assignments")
	assignments.Use(authMiddleware.RoleRequired(RoleModerator))
	{
		assignments.POST("/auto", assignmentController.AutoAssign)
		assignments.DELETE("/:topicCode", assignmentController.RemoveAssignment)
	}
}
