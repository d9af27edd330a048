package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/planhive/planhive/internal/entity"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func seedTeamMember(t *testing.T, repos *Repositories, email, name, projectId string, confirmed bool) {
	t.Helper()

	require.NoError(t, repos.DB.Create(&entity.TeamMember{
		Email:     email,
		Name:      name,
		Role:      "Engineer",
		ProjectId: projectId,
		Confirmed: confirmed,
		Assigned:  true,
	}).Error)
}

func TestTeamRepo_ListByProject_ConfirmedOnly(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	seedTeamMember(t, repos, "a@x.com", "Alice", "p1", true)
	seedTeamMember(t, repos, "b@x.com", "Bob", "p1", false)
	seedTeamMember(t, repos, "c@x.com", "Carol", "p2", true)

	members, err := repos.Team.ListByProject(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "a@x.com", members[0].Email)
}

func TestTeamRepo_ListAll(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	seedTeamMember(t, repos, "b@x.com", "Bob", "p1", false)
	seedTeamMember(t, repos, "a@x.com", "Alice", "p2", true)

	members, err := repos.Team.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, members, 2)
	// Directory listing is name-ordered
	assert.Equal(t, "Alice", members[0].Name)
	assert.Equal(t, "Bob", members[1].Name)
}

func TestTeamRepo_ListByProject_CacheAside(t *testing.T) {
	repos := newTestRepos(t)
	mr, rdb := newTestRedis(t)
	repos.Team = NewTeamRepo(repos.DB, rdb)
	ctx := context.Background()

	seedTeamMember(t, repos, "a@x.com", "Alice", "p1", true)

	members, err := repos.Team.ListByProject(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, members, 1)

	// The database row changes but the cached directory is still served
	seedTeamMember(t, repos, "d@x.com", "Dave", "p1", true)

	members, err = repos.Team.ListByProject(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, members, 1)

	// After the TTL expires the fresh rows show up
	mr.FastForward(10 * time.Minute)

	members, err = repos.Team.ListByProject(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, members, 2)
}

func TestTeamRepo_CacheFailureFallsThrough(t *testing.T) {
	repos := newTestRepos(t)
	mr, rdb := newTestRedis(t)
	repos.Team = NewTeamRepo(repos.DB, rdb)
	ctx := context.Background()

	seedTeamMember(t, repos, "a@x.com", "Alice", "p1", true)

	mr.Close()

	members, err := repos.Team.ListByProject(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, members, 1)
}
