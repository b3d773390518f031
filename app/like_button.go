package main

import (
	"fmt"

	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/skillforge/skillforge/internal/bus"
	"github.com/skillforge/skillforge/internal/threads"
)

// LikeButton is confirm-first: the click shows a busy affordance, and the
// displayed state only changes to whatever the server returns. Other mounted
// buttons for the same entity follow along via the bus.
type LikeButton struct {
	app.Compo

	Kind         threads.EntityKind
	EntityID     string
	InitialLikes int
	InitialLiked bool

	likes int
	liked bool
	busy  bool
	unsub func()
}

func (l *LikeButton) OnMount(ctx app.Context) {
	l.likes = l.InitialLikes
	l.liked = l.InitialLiked

	l.unsub = events.Subscribe(bus.TopicLike, func(e bus.Event) {
		lc := e.Payload.(bus.LikeChange)
		if lc.EntityKind != string(l.Kind) || lc.EntityID != l.EntityID {
			return
		}
		ctx.Dispatch(func(ctx app.Context) {
			l.likes = lc.Likes
			l.liked = lc.Liked
		})
	})
}

func (l *LikeButton) OnDismount() {
	if l.unsub != nil {
		l.unsub()
	}
}

func (l *LikeButton) onClick(ctx app.Context, e app.Event) {
	if l.busy {
		return
	}
	l.busy = true
	ctx.Async(func() {
		state, err := coord.ToggleLike(ctx, l.Kind, l.EntityID)
		ctx.Dispatch(func(ctx app.Context) {
			l.busy = false
			if err != nil {
				return // state untouched, coordinator surfaced the failure
			}
			l.likes = state.Likes
			l.liked = state.LikedByCurrentUser
		})
	})
}

func (l *LikeButton) Render() app.UI {
	cls := "like-btn"
	if l.liked {
		cls += " liked"
	}
	if l.busy {
		cls += " busy"
	}
	label := "♡"
	if l.liked {
		label = "♥"
	}
	return app.Button().
		Class(cls).
		Disabled(l.busy).
		OnClick(l.onClick).
		Body(
			app.Span().Text(label),
			app.Span().Class("like-count").Text(fmt.Sprintf("%d", l.likes)),
		)
}

// likedBy reports whether userID is in the like set.
func likedBy(likes []string, userID string) bool {
	for _, id := range likes {
		if id == userID {
			return true
		}
	}
	return false
}
