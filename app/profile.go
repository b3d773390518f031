package main

import (
	"fmt"
	"strings"

	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/skillforge/skillforge/internal/api"
	"github.com/skillforge/skillforge/internal/bus"
)

// ProfilePage shows a user, their follower/following counts and their posts.
// The counts re-derive by re-fetching whenever a confirmed follow change for
// this user crosses the bus, so no mounted view needs a manual refresh.
type ProfilePage struct {
	app.Compo

	userID    string
	user      *api.User
	followers []api.User
	following []api.User
	posts     []api.Post
	loaded    bool
	unsub     func()
}

func (p *ProfilePage) OnMount(ctx app.Context) {
	p.loadFromURL(ctx)

	p.unsub = events.Subscribe(bus.TopicFollow, func(e bus.Event) {
		fc := e.Payload.(bus.FollowChange)
		if fc.TargetUserID != p.userID {
			return
		}
		ctx.Dispatch(func(ctx app.Context) {
			p.loadCounts(ctx)
		})
	})
}

func (p *ProfilePage) OnNav(ctx app.Context) {
	p.loadFromURL(ctx)
}

func (p *ProfilePage) OnDismount() {
	if p.unsub != nil {
		p.unsub()
	}
}

func (p *ProfilePage) loadFromURL(ctx app.Context) {
	path := ctx.Page().URL().Path
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) >= 2 && parts[0] == "profile" {
		p.userID = parts[1]
	}
	p.load(ctx)
}

func (p *ProfilePage) load(ctx app.Context) {
	id := p.userID
	if id == "" {
		return
	}
	ctx.Async(func() {
		user, err := client.User(ctx, id)
		if err != nil {
			app.Log("profile load failed:", err)
			return
		}
		posts, err := client.PostsByUser(ctx, id)
		if err != nil {
			app.Log("profile posts load failed:", err)
		}
		ctx.Dispatch(func(ctx app.Context) {
			p.user = user
			p.posts = posts
			p.loaded = true
		})
	})
	p.loadCounts(ctx)
}

func (p *ProfilePage) loadCounts(ctx app.Context) {
	id := p.userID
	ctx.Async(func() {
		followers, err := client.Followers(ctx, id)
		if err != nil {
			app.Log("followers load failed:", err)
			return
		}
		following, err := client.Following(ctx, id)
		if err != nil {
			app.Log("following load failed:", err)
			return
		}
		ctx.Dispatch(func(ctx app.Context) {
			p.followers = followers
			p.following = following
		})
	})
}

func (p *ProfilePage) isFollowedBySelf() bool {
	self := sess.Current().UserID
	for _, u := range p.followers {
		if u.ID == self {
			return true
		}
	}
	return false
}

func (p *ProfilePage) Render() app.UI {
	if !p.loaded || p.user == nil {
		return withShell(app.Div().Class("loading").Text("Loading..."))
	}

	u := p.user
	return withShell(
		app.Div().Class("profile-head").Body(
			app.H2().Text(u.Username),
			app.If(u.Bio != "", func() app.UI {
				return app.P().Class("profile-bio").Text(u.Bio)
			}),
			app.Div().Class("profile-stats").Body(
				app.Span().Text(fmt.Sprintf("%d followers", len(p.followers))),
				app.Span().Text(fmt.Sprintf("%d following", len(p.following))),
			),
			&FollowButton{TargetID: u.ID, InitialFollowing: p.isFollowedBySelf()},
		),
		app.H3().Text("Posts"),
		app.If(len(p.posts) == 0, func() app.UI {
			return app.Div().Class("empty").Text("No posts yet")
		}).Else(func() app.UI {
			return app.Div().Class("feed").Body(
				app.Range(p.posts).Slice(func(i int) app.UI {
					return &PostCard{Post: p.posts[i]}
				}),
			)
		}),
	)
}
