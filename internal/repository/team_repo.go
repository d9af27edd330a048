package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/planhive/planhive/internal/entity"
	"github.com/planhive/planhive/pkg/constant"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// TeamRepo is the repository for the team-assignment directory.
// Directory reads go through a Redis cache-aside with TTL; the database rows
// are owned by the project-management side and only read here.
type TeamRepo struct {
	db  *gorm.DB
	rdb *redis.Client
	ttl time.Duration
}

// NewTeamRepo creates a new TeamRepo
func NewTeamRepo(db *gorm.DB, rdb *redis.Client) *TeamRepo {
	return &TeamRepo{db: db, rdb: rdb, ttl: 5 * time.Minute}
}

// SetCacheTTL overrides the directory cache TTL
func (r *TeamRepo) SetCacheTTL(ttl time.Duration) {
	if ttl > 0 {
		r.ttl = ttl
	}
}

// ListByProject gets confirmed team assignments for a project
func (r *TeamRepo) ListByProject(ctx context.Context, projectId string) ([]*entity.TeamMember, error) {
	key := fmt.Sprintf(constant.RedisKeyTeamProject(), projectId)

	var members []*entity.TeamMember
	if found := r.getCached(ctx, key, &members); found {
		return members, nil
	}

	err := r.db.WithContext(ctx).
		Where("project_id = ? AND confirmed = ?", projectId, true).
		Order("name ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}

	r.setCached(ctx, key, members)
	return members, nil
}

// ListAll gets every team member in the directory
func (r *TeamRepo) ListAll(ctx context.Context) ([]*entity.TeamMember, error) {
	key := constant.RedisKeyTeamAll()

	var members []*entity.TeamMember
	if found := r.getCached(ctx, key, &members); found {
		return members, nil
	}

	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}

	r.setCached(ctx, key, members)
	return members, nil
}

// getCached tries the cache; a miss or any cache failure falls through to the database
func (r *TeamRepo) getCached(ctx context.Context, key string, dest interface{}) bool {
	if r.rdb == nil {
		return false
	}
	s, err := r.rdb.Get(ctx, key).Result()
	if err != nil {
		// redis.Nil and transport errors both fall through to the database
		return false
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		return false
	}
	return true
}

// setCached stores the result best-effort; failures are ignored
func (r *TeamRepo) setCached(ctx context.Context, key string, v interface{}) {
	if r.rdb == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = r.rdb.Set(ctx, key, b, r.ttl).Err()
}
