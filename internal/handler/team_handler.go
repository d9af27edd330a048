package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/planhive/planhive/internal/service"
	"github.com/planhive/planhive/pkg/response"
)

// TeamHandler handles team-directory requests
type TeamHandler struct {
	teamService *service.TeamService
}

// NewTeamHandler creates a new TeamHandler
func NewTeamHandler(teamService *service.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

// ListTeamMembers handles the team directory listing request
func (h *TeamHandler) ListTeamMembers(ctx context.Context, c *app.RequestContext) {
	members, err := h.teamService.ListTeamMembers(ctx, c.Query("projectId"))
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, members)
}
