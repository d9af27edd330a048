package service

import (
	"context"

	"github.com/mbeoliero/kit/log"
	"github.com/planhive/planhive/internal/entity"
	"github.com/planhive/planhive/internal/repository"
	"github.com/planhive/planhive/pkg/errcode"
)

// TeamService serves the team-member directory used to start conversations
type TeamService struct {
	teamRepo *repository.TeamRepo
}

// NewTeamService creates a new TeamService
func NewTeamService(teamRepo *repository.TeamRepo) *TeamService {
	return &TeamService{teamRepo: teamRepo}
}

// ListTeamMembers gets directory entries, scoped to a project's confirmed
// assignments when projectId is given
func (s *TeamService) ListTeamMembers(ctx context.Context, projectId string) ([]*entity.TeamMemberInfo, error) {
	var (
		members []*entity.TeamMember
		err     error
	)

	if projectId != "" {
		members, err = s.teamRepo.ListByProject(ctx, projectId)
	} else {
		members, err = s.teamRepo.ListAll(ctx)
	}
	if err != nil {
		log.CtxError(ctx, "list team members failed: project_id=%s, error=%v", projectId, err)
		return nil, errcode.ErrInternalServer
	}

	if projectId != "" && len(members) == 0 {
		return nil, errcode.ErrTeamNotFound
	}

	result := make([]*entity.TeamMemberInfo, 0, len(members))
	for _, m := range members {
		result = append(result, m.ToTeamMemberInfo())
	}
	return result, nil
}
