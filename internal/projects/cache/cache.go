package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/craftplan-dev/craftplan-backend/internal/projects/domain"
)

const (
	allProjectsKey   = "projects:all"  // hydrated list, JSON
	projectKeyPrefix = "projects:id:"  // projects:id:{project_id}, JSON
)

// ProjectCache keeps hydrated projects in redis so repeated list/detail
// reads skip the five-table hydration. Misses and redis failures both
// fall through to the store: the cache is never load-bearing.
type ProjectCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProjectCache creates a cache over the given client.
func NewProjectCache(client *redis.Client, ttl time.Duration) *ProjectCache {
	return &ProjectCache{client: client, ttl: ttl}
}

// GetAll returns the cached project list and whether it was present.
func (c *ProjectCache) GetAll(ctx context.Context) ([]domain.Project, bool) {
	data, err := c.client.Get(ctx, allProjectsKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("[cache] get %s: %v", allProjectsKey, err)
		}
		return nil, false
	}

	var projects []domain.Project
	if err := json.Unmarshal(data, &projects); err != nil {
		log.Printf("[cache] decode %s: %v", allProjectsKey, err)
		return nil, false
	}
	return projects, true
}

// SetAll stores the project list.
func (c *ProjectCache) SetAll(ctx context.Context, projects []domain.Project) {
	data, err := json.Marshal(projects)
	if err != nil {
		log.Printf("[cache] encode %s: %v", allProjectsKey, err)
		return
	}
	if err := c.client.Set(ctx, allProjectsKey, data, c.ttl).Err(); err != nil {
		log.Printf("[cache] set %s: %v", allProjectsKey, err)
	}
}

// GetByID returns one cached project and whether it was present.
func (c *ProjectCache) GetByID(ctx context.Context, id int64) (*domain.Project, bool) {
	key := projectKey(id)
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("[cache] get %s: %v", key, err)
		}
		return nil, false
	}

	var p domain.Project
	if err := json.Unmarshal(data, &p); err != nil {
		log.Printf("[cache] decode %s: %v", key, err)
		return nil, false
	}
	return &p, true
}

// SetByID stores one project.
func (c *ProjectCache) SetByID(ctx context.Context, p *domain.Project) {
	data, err := json.Marshal(p)
	if err != nil {
		log.Printf("[cache] encode project %d: %v", p.ID, err)
		return
	}
	if err := c.client.Set(ctx, projectKey(p.ID), data, c.ttl).Err(); err != nil {
		log.Printf("[cache] set project %d: %v", p.ID, err)
	}
}

// Invalidate drops the list key and the given per-project keys. Called
// after every successful mutation.
func (c *ProjectCache) Invalidate(ctx context.Context, ids ...int64) {
	keys := make([]string, 0, len(ids)+1)
	keys = append(keys, allProjectsKey)
	for _, id := range ids {
		keys = append(keys, projectKey(id))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("[cache] invalidate: %v", err)
	}
}

func projectKey(id int64) string {
	return projectKeyPrefix + strconv.FormatInt(id, 10)
}
