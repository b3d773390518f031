package actions

import (
	"context"

	"github.com/skillforge/skillforge/internal/api"
	"github.com/skillforge/skillforge/internal/bus"
	"github.com/skillforge/skillforge/internal/threads"
)

// ToggleLike flips the current user's like on an entity and returns the
// server's authoritative state. Callers must display exactly what comes back,
// never their pre-click guess.
func (c *Coordinator) ToggleLike(ctx context.Context, kind threads.EntityKind, entityID string) (*api.LikeState, error) {
	var state *api.LikeState
	var err error
	switch kind {
	case threads.KindProgress:
		state, err = c.api.ToggleProgressLike(ctx, entityID)
	default:
		state, err = c.api.ToggleLike(ctx, entityID)
	}
	if err != nil {
		return nil, c.fail("toggle-like", err)
	}

	c.bus.Publish(bus.TopicLike, bus.LikeChange{
		EntityKind: string(kind),
		EntityID:   entityID,
		Likes:      state.Likes,
		Liked:      state.LikedByCurrentUser,
		ActorID:    c.session.Current().UserID,
	})
	return state, nil
}

// FollowUser adds a follow edge from the current user to targetID.
// Self-follow is rejected before any network call.
func (c *Coordinator) FollowUser(ctx context.Context, targetID string) (*api.FollowState, error) {
	return c.setFollow(ctx, targetID, true)
}

// UnfollowUser removes exactly one follow edge.
func (c *Coordinator) UnfollowUser(ctx context.Context, targetID string) (*api.FollowState, error) {
	return c.setFollow(ctx, targetID, false)
}

func (c *Coordinator) setFollow(ctx context.Context, targetID string, follow bool) (*api.FollowState, error) {
	self := c.session.Current().UserID
	if self == targetID {
		return nil, ErrSelfFollow
	}

	var state *api.FollowState
	var err error
	if follow {
		state, err = c.api.Follow(ctx, self, targetID)
	} else {
		state, err = c.api.Unfollow(ctx, self, targetID)
	}
	if err != nil {
		return nil, c.fail("follow", err)
	}

	action := "follow"
	if !follow {
		action = "unfollow"
	}
	c.bus.Publish(bus.TopicFollow, bus.FollowChange{
		Action:       action,
		TargetUserID: targetID,
		ActorUserID:  self,
		Followers:    state.Followers,
	})
	return state, nil
}
