package main

import (
	"fmt"

	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/skillforge/skillforge/internal/api"
	"github.com/skillforge/skillforge/internal/bus"
	"github.com/skillforge/skillforge/internal/threads"
)

// CommentThread renders the two-level comment tree for one entity. Top-level
// comments load lazily through the shared cache; each comment's replies load
// only when expanded. After any confirmed mutation the whole list is
// re-fetched, so ordering and counts always match the server.
type CommentThread struct {
	app.Compo

	Ref threads.EntityRef

	comments  []api.Comment
	loaded    bool
	draft     string
	inlineErr string

	expanded   map[string]bool
	replies    map[string][]api.Comment
	replyDraft map[string]string
	editingID  string
	editDraft  string
	unsub      func()
}

func (c *CommentThread) OnInit() {
	c.expanded = map[string]bool{}
	c.replies = map[string][]api.Comment{}
	c.replyDraft = map[string]string{}
}

func (c *CommentThread) OnMount(ctx app.Context) {
	c.load(ctx)

	// Another component mutated this entity's comments; re-derive from the
	// refreshed cache.
	c.unsub = events.Subscribe(bus.TopicComment, func(e bus.Event) {
		cc := e.Payload.(bus.CommentChange)
		if cc.EntityKind != string(c.Ref.Kind) || cc.EntityID != c.Ref.ID {
			return
		}
		ctx.Dispatch(func(ctx app.Context) {
			c.load(ctx)
		})
	})
}

func (c *CommentThread) OnDismount() {
	if c.unsub != nil {
		c.unsub()
	}
}

func (c *CommentThread) load(ctx app.Context) {
	ctx.Async(func() {
		list, err := threadCache.LoadComments(ctx, c.Ref)
		if err != nil {
			app.Log("comments load failed:", err)
			return
		}
		ctx.Dispatch(func(ctx app.Context) {
			c.comments = list
			c.loaded = true
		})
		// Re-resolve reply lists that were open before the refresh.
		for id, open := range c.expanded {
			if open {
				c.loadReplies(ctx, id)
			}
		}
	})
}

func (c *CommentThread) loadReplies(ctx app.Context, commentID string) {
	ctx.Async(func() {
		replies, err := threadCache.LoadReplies(ctx, c.Ref, commentID)
		if err != nil {
			app.Log("replies load failed:", err)
			return
		}
		ctx.Dispatch(func(ctx app.Context) {
			c.replies[commentID] = replies
		})
	})
}

func (c *CommentThread) onDraft(ctx app.Context, e app.Event) {
	c.draft = e.Get("target").Get("value").String()
}

func (c *CommentThread) onSubmit(ctx app.Context, e app.Event) {
	draft := c.draft
	ctx.Async(func() {
		list, err := coord.AddComment(ctx, c.Ref, draft)
		ctx.Dispatch(func(ctx app.Context) {
			if err != nil {
				c.inlineErr = inlineMessage(err)
				return
			}
			c.comments = list
			c.draft = ""
			c.inlineErr = ""
		})
	})
}

func (c *CommentThread) onToggleReplies(ctx app.Context, commentID string) {
	c.expanded[commentID] = !c.expanded[commentID]
	if c.expanded[commentID] {
		c.loadReplies(ctx, commentID)
	}
}

func (c *CommentThread) onSubmitReply(ctx app.Context, parentID string) {
	draft := c.replyDraft[parentID]
	ctx.Async(func() {
		list, err := coord.AddReply(ctx, c.Ref, parentID, draft)
		ctx.Dispatch(func(ctx app.Context) {
			if err != nil {
				c.inlineErr = inlineMessage(err)
				return
			}
			c.comments = list
			delete(c.replyDraft, parentID)
			c.inlineErr = ""
			if c.expanded[parentID] {
				// The refresh dropped the reply cache; re-resolve it.
				c.loadReplies(ctx, parentID)
			}
		})
	})
}

func (c *CommentThread) onStartEdit(ctx app.Context, cm api.Comment) {
	c.editingID = cm.ID
	c.editDraft = cm.Content
}

func (c *CommentThread) onSubmitEdit(ctx app.Context, commentID string) {
	draft := c.editDraft
	ctx.Async(func() {
		list, err := coord.EditComment(ctx, c.Ref, commentID, draft)
		ctx.Dispatch(func(ctx app.Context) {
			if err != nil {
				c.inlineErr = inlineMessage(err)
				return
			}
			c.comments = list
			c.editingID = ""
			c.editDraft = ""
			c.inlineErr = ""
		})
	})
}

func (c *CommentThread) onDelete(ctx app.Context, commentID string) {
	ctx.Async(func() {
		list, err := coord.DeleteComment(ctx, c.Ref, commentID)
		ctx.Dispatch(func(ctx app.Context) {
			if err != nil {
				c.inlineErr = inlineMessage(err)
				if api.IsNotFound(err) {
					// Coordinator already refreshed the cache; re-derive.
					c.load(ctx)
				}
				return
			}
			c.comments = list
			c.inlineErr = ""
		})
	})
}

func (c *CommentThread) Render() app.UI {
	cur := sess.Current()
	return app.Div().Class("comments").Body(
		app.H4().Text("Comments"),
		app.Div().Class("comment-form").Body(
			app.Textarea().
				Class("comment-input").
				Placeholder("Write a comment...").
				Text(c.draft).
				OnInput(c.onDraft),
			app.Button().Class("btn").Text("Post").OnClick(c.onSubmit),
		),
		app.If(c.inlineErr != "", func() app.UI {
			return app.Div().Class("inline-error").Text(c.inlineErr)
		}),
		app.If(!c.loaded, func() app.UI {
			return app.Div().Class("loading").Text("Loading comments...")
		}).ElseIf(len(c.comments) == 0, func() app.UI {
			return app.Div().Class("empty").Text("No comments yet")
		}).Else(func() app.UI {
			return app.Div().Class("comment-list").Body(
				app.Range(c.comments).Slice(func(i int) app.UI {
					return c.renderComment(c.comments[i], cur.UserID)
				}),
			)
		}),
	)
}

func (c *CommentThread) renderComment(cm api.Comment, selfID string) app.UI {
	return app.Div().Class("comment").Body(
		c.renderBody(cm, selfID),
		app.Div().Class("comment-meta").Body(
			app.Button().
				Class("btn-link").
				Text(replyToggleLabel(cm, c.expanded[cm.ID])).
				OnClick(func(ctx app.Context, e app.Event) {
					c.onToggleReplies(ctx, cm.ID)
				}),
		),
		app.If(c.expanded[cm.ID], func() app.UI {
			return c.renderReplies(cm.ID, selfID)
		}),
	)
}

func (c *CommentThread) renderBody(cm api.Comment, selfID string) app.UI {
	if c.editingID == cm.ID {
		return app.Div().Class("comment-edit").Body(
			app.Textarea().
				Class("comment-input").
				Text(c.editDraft).
				AutoFocus(true).
				OnInput(func(ctx app.Context, e app.Event) {
					c.editDraft = e.Get("target").Get("value").String()
				}),
			app.Button().Class("btn").Text("Save").OnClick(func(ctx app.Context, e app.Event) {
				c.onSubmitEdit(ctx, cm.ID)
			}),
			app.Button().Class("btn-link").Text("Cancel").OnClick(func(ctx app.Context, e app.Event) {
				c.editingID = ""
			}),
		)
	}
	return app.Div().Class("comment-body").Body(
		app.A().Class("comment-author").Href("/profile/"+cm.AuthorID).Text(cm.AuthorName),
		app.Span().Class("muted").Text(timeAgo(cm.CreatedAt)),
		app.P().Text(cm.Content),
		app.If(cm.AuthorID == selfID, func() app.UI {
			return app.Div().Class("comment-own-actions").Body(
				app.Button().Class("btn-link").Text("Edit").OnClick(func(ctx app.Context, e app.Event) {
					c.onStartEdit(ctx, cm)
				}),
				app.Button().Class("btn-link").Text("Delete").OnClick(func(ctx app.Context, e app.Event) {
					c.onDelete(ctx, cm.ID)
				}),
			)
		}),
	)
}

// renderReplies shows the single nested level. Replies carry no expand
// affordance of their own: the tree is exactly two levels deep.
func (c *CommentThread) renderReplies(parentID, selfID string) app.UI {
	replies := c.replies[parentID]
	return app.Div().Class("replies").Body(
		app.Range(replies).Slice(func(i int) app.UI {
			r := replies[i]
			return app.Div().Class("reply").Body(
				app.A().Class("comment-author").Href("/profile/"+r.AuthorID).Text(r.AuthorName),
				app.Span().Class("muted").Text(timeAgo(r.CreatedAt)),
				app.P().Text(r.Content),
				app.If(r.AuthorID == selfID, func() app.UI {
					return app.Button().Class("btn-link").Text("Delete").OnClick(func(ctx app.Context, e app.Event) {
						c.onDelete(ctx, r.ID)
					})
				}),
			)
		}),
		app.Div().Class("reply-form").Body(
			app.Input().
				Class("reply-input").
				Placeholder("Write a reply...").
				Value(c.replyDraft[parentID]).
				OnInput(func(ctx app.Context, e app.Event) {
					c.replyDraft[parentID] = e.Get("target").Get("value").String()
				}),
			app.Button().Class("btn").Text("Reply").OnClick(func(ctx app.Context, e app.Event) {
				c.onSubmitReply(ctx, parentID)
			}),
		),
	)
}

func replyToggleLabel(cm api.Comment, open bool) string {
	if open {
		return "Hide replies"
	}
	if cm.ReplyCount == 0 {
		return "Reply"
	}
	return fmt.Sprintf("%d replies", cm.ReplyCount)
}

// inlineMessage maps a failure to the message shown next to the control.
// Transport and unexpected failures already raised a toast and stay silent
// here.
func inlineMessage(err error) string {
	switch api.Classify(err) {
	case api.KindValidation:
		return err.Error()
	case api.KindForbidden:
		return "You don't have permission to do that"
	case api.KindNotFound:
		return "That comment no longer exists"
	default:
		return ""
	}
}
