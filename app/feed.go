package main

import (
	"fmt"

	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/skillforge/skillforge/internal/api"
	"github.com/skillforge/skillforge/internal/bus"
	"github.com/skillforge/skillforge/internal/threads"
)

var feedCategories = []string{"programming", "design", "languages", "music", "science"}

// FeedPage lists posts: everything, one category, or a search result.
type FeedPage struct {
	app.Compo

	posts    []api.Post
	loaded   bool
	category string
	query    string
}

func (f *FeedPage) OnMount(ctx app.Context) {
	f.load(ctx)
}

func (f *FeedPage) load(ctx app.Context) {
	category := f.category
	query := f.query
	ctx.Async(func() {
		var posts []api.Post
		var err error
		switch {
		case query != "":
			posts, err = client.SearchPosts(ctx, query)
		case category != "":
			posts, err = client.PostsByCategory(ctx, category)
		default:
			posts, err = client.Posts(ctx)
		}
		if err != nil {
			app.Log("feed load failed:", err)
			return // keep whatever is displayed
		}
		ctx.Dispatch(func(ctx app.Context) {
			f.posts = posts
			f.loaded = true
		})
	})
}

func (f *FeedPage) onCategory(ctx app.Context, e app.Event) {
	f.category = e.Get("target").Get("value").String()
	f.query = ""
	f.load(ctx)
}

func (f *FeedPage) onSearchInput(ctx app.Context, e app.Event) {
	f.query = e.Get("target").Get("value").String()
}

func (f *FeedPage) onSearchKeyDown(ctx app.Context, e app.Event) {
	if e.Get("key").String() == "Enter" {
		f.load(ctx)
	}
}

func (f *FeedPage) Render() app.UI {
	return withShell(
		app.Div().Class("feed-controls").Body(
			app.Select().Class("feed-category").OnChange(f.onCategory).Body(
				app.Option().Value("").Text("All categories"),
				app.Range(feedCategories).Slice(func(i int) app.UI {
					c := feedCategories[i]
					return app.Option().Value(c).Text(c).Selected(c == f.category)
				}),
			),
			app.Input().
				Class("feed-search").
				Placeholder("Search posts...").
				Value(f.query).
				OnInput(f.onSearchInput).
				OnKeyDown(f.onSearchKeyDown),
		),
		app.If(!f.loaded, func() app.UI {
			return app.Div().Class("loading").Text("Loading...")
		}).ElseIf(len(f.posts) == 0, func() app.UI {
			return app.Div().Class("empty").Text("No posts yet")
		}).Else(func() app.UI {
			return app.Div().Class("feed").Body(
				app.Range(f.posts).Slice(func(i int) app.UI {
					return &PostCard{Post: f.posts[i]}
				}),
			)
		}),
	)
}

// PostCard is one feed entry. The comment count follows confirmed comment
// mutations made anywhere in the app through the bus.
type PostCard struct {
	app.Compo

	Post api.Post

	commentCount int
	unsub        func()
}

func (p *PostCard) OnMount(ctx app.Context) {
	p.commentCount = p.Post.CommentCount
	p.unsub = events.Subscribe(bus.TopicComment, func(e bus.Event) {
		cc := e.Payload.(bus.CommentChange)
		if cc.EntityKind != string(threads.KindPost) || cc.EntityID != p.Post.ID {
			return
		}
		ctx.Dispatch(func(ctx app.Context) {
			p.commentCount = cc.Total
		})
	})
}

func (p *PostCard) OnDismount() {
	if p.unsub != nil {
		p.unsub()
	}
}

func (p *PostCard) Render() app.UI {
	cur := sess.Current()
	return app.Article().Class("post-card").Body(
		app.Div().Class("post-head").Body(
			app.A().Class("post-author").Href("/profile/"+p.Post.AuthorID).Text(p.Post.AuthorName),
			app.Span().Class("muted").Text(timeAgo(p.Post.CreatedAt)),
			app.If(p.Post.Category != "", func() app.UI {
				return app.Span().Class("post-category").Text(p.Post.Category)
			}),
		),
		app.A().Href("/post/"+p.Post.ID).Body(
			app.H3().Text(p.Post.Title),
		),
		app.P().Class("post-excerpt").Text(excerpt(p.Post.Content, 180)),
		app.Div().Class("post-actions").Body(
			&LikeButton{
				Kind:         threads.KindPost,
				EntityID:     p.Post.ID,
				InitialLikes: len(p.Post.Likes),
				InitialLiked: likedBy(p.Post.Likes, cur.UserID),
			},
			app.A().Class("comment-link").Href("/post/"+p.Post.ID).
				Text(fmt.Sprintf("%d comments", p.commentCount)),
		),
	)
}

func excerpt(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
