// Package threads caches two-level comment trees per entity. Top-level
// comments load lazily per post or progress item; each comment's replies load
// lazily and independently when expanded. Server ordering is preserved as-is.
package threads

import (
	"context"
	"sync"

	"github.com/skillforge/skillforge/internal/api"
)

type EntityKind string

const (
	KindPost     EntityKind = "post"
	KindProgress EntityKind = "progress"
)

// EntityRef identifies the parent of a comment tree.
type EntityRef struct {
	Kind EntityKind
	ID   string
}

func PostRef(id string) EntityRef     { return EntityRef{Kind: KindPost, ID: id} }
func ProgressRef(id string) EntityRef { return EntityRef{Kind: KindProgress, ID: id} }

// Loader is the slice of the data-access client the cache needs.
// *api.Client satisfies it.
type Loader interface {
	CommentsByPost(ctx context.Context, postID string) ([]api.Comment, error)
	CommentsByProgress(ctx context.Context, progressID string) ([]api.Comment, error)
	Replies(ctx context.Context, commentID string) ([]api.Comment, error)
}

type entry struct {
	top     []api.Comment
	loaded  bool
	replies map[string][]api.Comment // keyed by parent comment id, present once loaded
}

type Cache struct {
	mu      sync.Mutex
	loader  Loader
	entries map[EntityRef]*entry
}

func NewCache(loader Loader) *Cache {
	return &Cache{
		loader:  loader,
		entries: map[EntityRef]*entry{},
	}
}

// LoadComments returns the top-level comments for an entity, fetching them at
// most once until the entity is invalidated.
func (c *Cache) LoadComments(ctx context.Context, ref EntityRef) ([]api.Comment, error) {
	c.mu.Lock()
	if e, ok := c.entries[ref]; ok && e.loaded {
		top := e.top
		c.mu.Unlock()
		return top, nil
	}
	c.mu.Unlock()

	var top []api.Comment
	var err error
	switch ref.Kind {
	case KindProgress:
		top, err = c.loader.CommentsByProgress(ctx, ref.ID)
	default:
		top, err = c.loader.CommentsByPost(ctx, ref.ID)
	}
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[ref] = &entry{top: top, loaded: true, replies: map[string][]api.Comment{}}
	c.mu.Unlock()
	return top, nil
}

// LoadReplies returns the replies beneath one top-level comment, fetching
// them at most once. Expanding one comment never loads another's replies.
func (c *Cache) LoadReplies(ctx context.Context, ref EntityRef, commentID string) ([]api.Comment, error) {
	c.mu.Lock()
	if e, ok := c.entries[ref]; ok {
		if replies, ok := e.replies[commentID]; ok {
			c.mu.Unlock()
			return replies, nil
		}
	}
	c.mu.Unlock()

	replies, err := c.loader.Replies(ctx, commentID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	e, ok := c.entries[ref]
	if !ok {
		e = &entry{replies: map[string][]api.Comment{}}
		c.entries[ref] = e
	}
	e.replies[commentID] = replies
	c.mu.Unlock()
	return replies, nil
}

// Invalidate drops the entity's top-level list and every reply cache under
// it. The next LoadComments hits the network.
func (c *Cache) Invalidate(ref EntityRef) {
	c.mu.Lock()
	delete(c.entries, ref)
	c.mu.Unlock()
}

// Refresh is invalidate-then-load. The mutation coordinator calls it after
// every confirmed comment change instead of patching single items, so the
// displayed list always matches server ordering and derived fields.
func (c *Cache) Refresh(ctx context.Context, ref EntityRef) ([]api.Comment, error) {
	c.Invalidate(ref)
	return c.LoadComments(ctx, ref)
}

// TotalCount recomputes the entity's comment total from actual cache
// contents: top-level comments plus replies. Loaded reply lists count by
// length; unexpanded ones fall back to the server's reply count. Never a
// speculative increment.
func (c *Cache) TotalCount(ref EntityRef) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[ref]
	if !ok || !e.loaded {
		return 0
	}
	total := len(e.top)
	for _, cm := range e.top {
		if replies, ok := e.replies[cm.ID]; ok {
			total += len(replies)
		} else {
			total += cm.ReplyCount
		}
	}
	return total
}

// Loaded reports whether the entity's top-level list is cached.
func (c *Cache) Loaded(ref EntityRef) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[ref]
	return ok && e.loaded
}
