// Package cache gives each list/detail read a cache key, serves cached
// results until a mutation or change-feed event invalidates the entity,
// and exposes mutation state to the UI.
package cache

import (
	"sync"

	"github.com/mtran/planhub/internal/store"
)

// Entity names used for cache keys and invalidation.
const (
	EntityProjects     = "projects"
	EntityTasks        = "tasks"
	EntityLabels       = "labels"
	EntityTemplates    = "templates"
	EntityComments     = "comments"
	EntityAttachments  = "attachments"
	EntitySavedFilters = "saved_filters"
	EntityDigest       = "digest_settings"
)

// tableEntities maps store tables to the entity whose queries go stale
// when that table changes. Join-table changes invalidate the owning
// entity.
var tableEntities = map[string]string{
	"projects":              EntityProjects,
	"tasks":                 EntityTasks,
	"task_labels":           EntityTasks,
	"labels":                EntityLabels,
	"project_templates":     EntityTemplates,
	"template_tasks":        EntityTemplates,
	"comments":              EntityComments,
	"attachments":           EntityAttachments,
	"saved_filters":         EntitySavedFilters,
	"daily_digest_settings": EntityDigest,
}

// Cache tracks a generation counter per entity. Queries remember the
// generation they fetched at; invalidation bumps the counter, so every
// query of that entity, regardless of scope, refetches on next read.
type Cache struct {
	mu  sync.Mutex
	gen map[string]uint64
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{gen: make(map[string]uint64)}
}

// Invalidate marks every query of the entity stale.
func (c *Cache) Invalidate(entities ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range entities {
		c.gen[e]++
	}
}

// generation returns the current generation for an entity.
func (c *Cache) generation(entity string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen[entity]
}

// WatchFeed subscribes to the store change feed and invalidates
// entities as events arrive, so writes that bypass this process's
// mutations still mark queries stale. The returned stop function ends
// the watch.
func (c *Cache) WatchFeed(feed *store.Feed) func() {
	ch, cancel := feed.Subscribe()
	go func() {
		for ev := range ch {
			if entity, ok := tableEntities[ev.Table]; ok {
				c.Invalidate(entity)
			}
		}
	}()
	return cancel
}
