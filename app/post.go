package main

import (
	"strings"

	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/skillforge/skillforge/internal/api"
	"github.com/skillforge/skillforge/internal/threads"
)

// PostPage is the detail view for one post.
type PostPage struct {
	app.Compo

	postID string
	post   *api.Post
	gone   bool
}

func (p *PostPage) OnMount(ctx app.Context) {
	p.loadFromURL(ctx)
}

func (p *PostPage) OnNav(ctx app.Context) {
	p.loadFromURL(ctx)
}

func (p *PostPage) loadFromURL(ctx app.Context) {
	path := ctx.Page().URL().Path
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) >= 2 && parts[0] == "post" {
		p.postID = parts[1]
	}
	p.load(ctx)
}

func (p *PostPage) load(ctx app.Context) {
	id := p.postID
	if id == "" {
		return
	}
	ctx.Async(func() {
		post, err := client.Post(ctx, id)
		if err != nil {
			if api.IsNotFound(err) {
				ctx.Dispatch(func(ctx app.Context) { p.gone = true })
				return
			}
			app.Log("post load failed:", err)
			return
		}
		ctx.Dispatch(func(ctx app.Context) {
			p.post = post
			p.gone = false
		})
	})
}

func (p *PostPage) onDelete(ctx app.Context, e app.Event) {
	id := p.postID
	ctx.Async(func() {
		if err := client.DeletePost(ctx, id); err != nil {
			app.Log("post delete failed:", err)
			return
		}
		ctx.Dispatch(func(ctx app.Context) {
			ctx.Navigate("/")
		})
	})
}

func (p *PostPage) Render() app.UI {
	if p.gone {
		return withShell(app.Div().Class("empty").Text("This post no longer exists"))
	}
	if p.post == nil {
		return withShell(app.Div().Class("loading").Text("Loading..."))
	}

	cur := sess.Current()
	post := p.post
	return withShell(
		app.Article().Class("post-detail").Body(
			app.Div().Class("post-head").Body(
				app.A().Class("post-author").Href("/profile/"+post.AuthorID).Text(post.AuthorName),
				app.Span().Class("muted").Text(timeAgo(post.CreatedAt)),
				app.If(post.Category != "", func() app.UI {
					return app.Span().Class("post-category").Text(post.Category)
				}),
			),
			app.H2().Text(post.Title),
			app.P().Class("post-content").Text(post.Content),
			app.Div().Class("post-actions").Body(
				&LikeButton{
					Kind:         threads.KindPost,
					EntityID:     post.ID,
					InitialLikes: len(post.Likes),
					InitialLiked: likedBy(post.Likes, cur.UserID),
				},
				app.If(cur.UserID == post.AuthorID, func() app.UI {
					return app.Button().Class("btn-link").Text("Delete post").OnClick(p.onDelete)
				}),
			),
		),
		&CommentThread{Ref: threads.PostRef(post.ID)},
	)
}
