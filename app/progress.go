package main

import (
	"fmt"

	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/skillforge/skillforge/internal/api"
	"github.com/skillforge/skillforge/internal/threads"
)

// ProgressPage lists learning-progress items. Each card carries the same
// like button and comment thread as a post, keyed by progress id.
type ProgressPage struct {
	app.Compo

	items  []api.ProgressItem
	loaded bool
}

func (p *ProgressPage) OnMount(ctx app.Context) {
	ctx.Async(func() {
		items, err := client.ProgressItems(ctx)
		if err != nil {
			app.Log("progress load failed:", err)
			return
		}
		ctx.Dispatch(func(ctx app.Context) {
			p.items = items
			p.loaded = true
		})
	})
}

func (p *ProgressPage) Render() app.UI {
	return withShell(
		app.H2().Text("Learning progress"),
		app.If(!p.loaded, func() app.UI {
			return app.Div().Class("loading").Text("Loading...")
		}).ElseIf(len(p.items) == 0, func() app.UI {
			return app.Div().Class("empty").Text("Nobody has shared progress yet")
		}).Else(func() app.UI {
			return app.Div().Class("progress-list").Body(
				app.Range(p.items).Slice(func(i int) app.UI {
					return &ProgressCard{Item: p.items[i]}
				}),
			)
		}),
	)
}

type ProgressCard struct {
	app.Compo

	Item api.ProgressItem

	showComments bool
}

func (p *ProgressCard) onToggleComments(ctx app.Context, e app.Event) {
	p.showComments = !p.showComments
}

func (p *ProgressCard) Render() app.UI {
	cur := sess.Current()
	item := p.Item
	return app.Article().Class("progress-card").Body(
		app.Div().Class("post-head").Body(
			app.A().Class("post-author").Href("/profile/"+item.AuthorID).Text(item.AuthorName),
			app.Span().Class("muted").Text(timeAgo(item.CreatedAt)),
		),
		app.H3().Text(item.Title),
		app.P().Text(item.Description),
		app.Div().Class("progress-bar").Body(
			app.Div().Class("progress-fill").Style("width", fmt.Sprintf("%d%%", item.Percent)),
		),
		app.Span().Class("muted").Text(fmt.Sprintf("%d%% complete", item.Percent)),
		app.Div().Class("post-actions").Body(
			&LikeButton{
				Kind:         threads.KindProgress,
				EntityID:     item.ID,
				InitialLikes: len(item.Likes),
				InitialLiked: likedBy(item.Likes, cur.UserID),
			},
			app.Button().
				Class("btn-link").
				Text(fmt.Sprintf("%d comments", item.CommentCount)).
				OnClick(p.onToggleComments),
		),
		app.If(p.showComments, func() app.UI {
			return &CommentThread{Ref: threads.ProgressRef(item.ID)}
		}),
	)
}
