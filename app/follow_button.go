package main

import (
	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/skillforge/skillforge/internal/bus"
)

// FollowButton toggles the follow edge from the current user to Target.
// Confirm-first: the control shows a busy affordance until the server
// answers, then displays the returned state. Every mounted instance for the
// same target stays in sync through the bus. Renders nothing for yourself.
type FollowButton struct {
	app.Compo

	TargetID         string
	InitialFollowing bool

	following bool
	busy      bool
	unsub     func()
}

func (f *FollowButton) OnMount(ctx app.Context) {
	f.following = f.InitialFollowing

	f.unsub = events.Subscribe(bus.TopicFollow, func(e bus.Event) {
		fc := e.Payload.(bus.FollowChange)
		if fc.TargetUserID != f.TargetID {
			return
		}
		ctx.Dispatch(func(ctx app.Context) {
			f.following = fc.Action == "follow"
		})
	})
}

// OnUpdate re-syncs with the parent's freshly fetched state when its props
// change, unless a toggle is mid-flight.
func (f *FollowButton) OnUpdate(ctx app.Context) {
	if !f.busy {
		f.following = f.InitialFollowing
	}
}

func (f *FollowButton) OnDismount() {
	if f.unsub != nil {
		f.unsub()
	}
}

func (f *FollowButton) onClick(ctx app.Context, e app.Event) {
	if f.busy {
		return
	}
	f.busy = true
	follow := !f.following
	ctx.Async(func() {
		var err error
		if follow {
			_, err = coord.FollowUser(ctx, f.TargetID)
		} else {
			_, err = coord.UnfollowUser(ctx, f.TargetID)
		}
		ctx.Dispatch(func(ctx app.Context) {
			f.busy = false
			if err != nil {
				return // prior state stays on screen
			}
			f.following = follow
		})
	})
}

func (f *FollowButton) Render() app.UI {
	if f.TargetID == sess.Current().UserID {
		return app.Div() // no self follow
	}

	cls := "btn follow-btn"
	label := "Follow"
	if f.following {
		cls += " following"
		label = "Following"
	}
	if f.busy {
		cls += " busy"
		label = "…"
	}
	return app.Button().Class(cls).Disabled(f.busy).Text(label).OnClick(f.onClick)
}
