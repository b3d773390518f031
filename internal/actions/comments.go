package actions

import (
	"context"
	"strings"

	"github.com/skillforge/skillforge/internal/api"
	"github.com/skillforge/skillforge/internal/bus"
	"github.com/skillforge/skillforge/internal/threads"
)

// AddComment creates a top-level comment on an entity and returns the
// re-fetched list. The full list is always reloaded after a confirmed
// mutation instead of patching one item, so ordering and derived fields
// match the server.
func (c *Coordinator) AddComment(ctx context.Context, ref threads.EntityRef, content string) ([]api.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyComment
	}

	nc := api.NewComment{Content: content}
	switch ref.Kind {
	case threads.KindProgress:
		nc.ProgressID = ref.ID
	default:
		nc.PostID = ref.ID
	}
	if _, err := c.api.CreateComment(ctx, nc); err != nil {
		return nil, c.fail("add-comment", err)
	}
	return c.refresh(ctx, ref, "add")
}

// AddReply creates a reply beneath one top-level comment. Replies cannot be
// nested further; the tree is exactly two levels deep.
func (c *Coordinator) AddReply(ctx context.Context, ref threads.EntityRef, parentCommentID, content string) ([]api.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyComment
	}

	nc := api.NewComment{ParentCommentID: parentCommentID, Content: content}
	if _, err := c.api.CreateComment(ctx, nc); err != nil {
		return nil, c.fail("add-reply", err)
	}
	return c.refresh(ctx, ref, "add")
}

// EditComment updates a comment's text and re-fetches the list. A NotFound
// response means the target is already gone; the list is refreshed anyway so
// the view self-heals.
func (c *Coordinator) EditComment(ctx context.Context, ref threads.EntityRef, commentID, content string) ([]api.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyComment
	}

	if _, err := c.api.UpdateComment(ctx, commentID, content); err != nil {
		if api.IsNotFound(err) {
			c.refresh(ctx, ref, "edit")
		}
		return nil, c.fail("edit-comment", err)
	}
	return c.refresh(ctx, ref, "edit")
}

// DeleteComment removes a comment (or reply) and re-fetches the list.
func (c *Coordinator) DeleteComment(ctx context.Context, ref threads.EntityRef, commentID string) ([]api.Comment, error) {
	if err := c.api.DeleteComment(ctx, commentID); err != nil {
		if api.IsNotFound(err) {
			c.refresh(ctx, ref, "delete")
		}
		return nil, c.fail("delete-comment", err)
	}
	return c.refresh(ctx, ref, "delete")
}

func (c *Coordinator) refresh(ctx context.Context, ref threads.EntityRef, action string) ([]api.Comment, error) {
	list, err := c.threads.Refresh(ctx, ref)
	if err != nil {
		return nil, c.fail("refresh-comments", err)
	}
	c.bus.Publish(bus.TopicComment, bus.CommentChange{
		EntityKind: string(ref.Kind),
		EntityID:   ref.ID,
		Action:     action,
		Total:      c.threads.TotalCount(ref),
	})
	return list, nil
}
