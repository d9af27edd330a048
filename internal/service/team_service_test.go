package service

import (
	"context"
	"testing"

	"github.com/planhive/planhive/internal/entity"
	"github.com/planhive/planhive/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTeamMembers(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewTeamService(repos.Team)
	ctx := context.Background()

	require.NoError(t, repos.DB.Create([]*entity.TeamMember{
		{Email: "a@x.com", Name: "Alice", Role: "Designer", ProjectId: "p1", Confirmed: true},
		{Email: "b@x.com", Name: "Bob", Role: "Engineer", ProjectId: "p1", Confirmed: false},
		{Email: "c@x.com", Name: "Carol", Role: "PM", ProjectId: "p2", Confirmed: true},
	}).Error)

	members, err := svc.ListTeamMembers(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "a@x.com", members[0].Email)
	assert.Equal(t, "Designer", members[0].Role)

	all, err := svc.ListTeamMembers(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestListTeamMembers_UnknownProject(t *testing.T) {
	repos := newTestRepos(t)
	svc := NewTeamService(repos.Team)

	_, err := svc.ListTeamMembers(context.Background(), "ghost")
	assert.ErrorIs(t, err, errcode.ErrTeamNotFound)
}
