package main

import (
	"context"

	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/skillforge/skillforge/internal/api"
	"github.com/skillforge/skillforge/internal/bus"
	"github.com/skillforge/skillforge/internal/chat"
	"github.com/skillforge/skillforge/internal/poll"
)

// ChatPage holds the recent-conversation list and the open conversation.
// The recent list refreshes every 30 seconds while mounted, on tab
// visibility regain, and after every confirmed message mutation.
type ChatPage struct {
	app.Compo

	recent       []chat.Summary
	recentLoaded bool

	partnerID   string
	partnerName string
	history     []api.ChatMessage

	draft     string
	editingID string
	editDraft string
	inlineErr string

	directory     []api.User
	showDirectory bool

	poller     *poll.Poller
	releaseVis func()
	unsub      func()
}

func (c *ChatPage) OnMount(ctx app.Context) {
	c.poller = poll.New(poll.RecentChatsInterval, func(pctx context.Context, seq uint64) {
		selfID := sess.Current().UserID
		recent, err := chatSvc.Recent(pctx, selfID)
		if err != nil {
			app.Log("recent chats refresh failed:", err)
			return // keep the list that is showing
		}
		c.poller.Commit(seq, func() {
			ctx.Dispatch(func(ctx app.Context) {
				c.recent = recent
				c.recentLoaded = true
			})
		})
	}, nil)
	c.poller.Start()

	c.releaseVis = app.Window().AddEventListener("visibilitychange", func(ctx app.Context, e app.Event) {
		if app.Window().Get("document").Get("visibilityState").String() == "visible" {
			c.poller.Wake()
		}
	})

	c.unsub = events.Subscribe(bus.TopicChat, func(e bus.Event) {
		cc := e.Payload.(bus.ChatChange)
		c.poller.Wake()
		if cc.PartnerID != c.partnerID {
			return
		}
		ctx.Dispatch(func(ctx app.Context) {
			c.loadHistory(ctx)
		})
	})
}

func (c *ChatPage) OnDismount() {
	c.poller.Stop()
	if c.releaseVis != nil {
		c.releaseVis()
	}
	if c.unsub != nil {
		c.unsub()
	}
}

func (c *ChatPage) openConversation(ctx app.Context, partnerID, partnerName string) {
	if partnerID == "" || partnerID == sess.Current().UserID {
		return // placeholder rows and self are not conversations
	}
	c.partnerID = partnerID
	c.partnerName = partnerName
	c.history = nil
	c.showDirectory = false
	c.inlineErr = ""
	c.loadHistory(ctx)
}

func (c *ChatPage) loadHistory(ctx app.Context) {
	partnerID := c.partnerID
	ctx.Async(func() {
		history, err := client.ChatHistory(ctx, partnerID)
		if err != nil {
			app.Log("chat history load failed:", err)
			return
		}
		ctx.Dispatch(func(ctx app.Context) {
			if c.partnerID != partnerID {
				return // conversation switched while loading
			}
			c.history = history
		})
	})
}

func (c *ChatPage) onSend(ctx app.Context, e app.Event) {
	partnerID := c.partnerID
	draft := c.draft
	ctx.Async(func() {
		_, err := coord.SendMessage(ctx, partnerID, draft)
		ctx.Dispatch(func(ctx app.Context) {
			if err != nil {
				c.inlineErr = inlineMessage(err)
				return
			}
			c.draft = ""
			c.inlineErr = ""
		})
	})
}

func (c *ChatPage) onSubmitEdit(ctx app.Context, messageID string) {
	partnerID := c.partnerID
	draft := c.editDraft
	ctx.Async(func() {
		_, err := coord.EditMessage(ctx, partnerID, messageID, draft)
		ctx.Dispatch(func(ctx app.Context) {
			if err != nil {
				c.inlineErr = inlineMessage(err)
				return
			}
			c.editingID = ""
			c.editDraft = ""
			c.inlineErr = ""
		})
	})
}

func (c *ChatPage) onDelete(ctx app.Context, messageID string) {
	partnerID := c.partnerID
	ctx.Async(func() {
		if err := coord.DeleteMessage(ctx, partnerID, messageID); err != nil {
			ctx.Dispatch(func(ctx app.Context) {
				c.inlineErr = inlineMessage(err)
			})
		}
	})
}

func (c *ChatPage) onToggleDirectory(ctx app.Context, e app.Event) {
	c.showDirectory = !c.showDirectory
	if !c.showDirectory {
		return
	}
	ctx.Async(func() {
		users, err := client.ChatUsers(ctx)
		if err != nil {
			app.Log("chat directory load failed:", err)
			return
		}
		self := sess.Current().UserID
		var others []api.User
		for _, u := range users {
			if u.ID != self {
				others = append(others, u)
			}
		}
		ctx.Dispatch(func(ctx app.Context) {
			c.directory = others
		})
	})
}

func (c *ChatPage) Render() app.UI {
	return withShell(
		app.Div().Class("chat").Body(
			c.renderSidebar(),
			c.renderConversation(),
		),
	)
}

func (c *ChatPage) renderSidebar() app.UI {
	return app.Div().Class("chat-sidebar").Body(
		app.Div().Class("chat-sidebar-head").Body(
			app.H3().Text("Chats"),
			app.Button().Class("btn-link").Text("New chat").OnClick(c.onToggleDirectory),
		),
		app.If(c.showDirectory, func() app.UI {
			return app.Ul().Class("chat-directory").Body(
				app.Range(c.directory).Slice(func(i int) app.UI {
					u := c.directory[i]
					return app.Li().Body(
						app.Button().Class("btn-link").Text(u.Username).
							OnClick(func(ctx app.Context, e app.Event) {
								c.openConversation(ctx, u.ID, u.Username)
							}),
					)
				}),
			)
		}),
		app.If(!c.recentLoaded, func() app.UI {
			return app.Div().Class("loading").Text("Loading...")
		}).Else(func() app.UI {
			return app.Ul().Class("chat-recent").Body(
				app.Range(c.recent).Slice(func(i int) app.UI {
					return c.renderRecentRow(c.recent[i])
				}),
			)
		}),
	)
}

func (c *ChatPage) renderRecentRow(row chat.Summary) app.UI {
	cls := "chat-row"
	if row.Placeholder {
		cls += " placeholder"
	}
	if row.PartnerID != "" && row.PartnerID == c.partnerID {
		cls += " active"
	}
	return app.Li().Class(cls).
		OnClick(func(ctx app.Context, e app.Event) {
			if !row.Placeholder {
				c.openConversation(ctx, row.PartnerID, row.PartnerName)
			}
		}).
		Body(
			app.Div().Class("chat-row-name").Text(row.PartnerName),
			app.Div().Class("chat-row-snippet").Text(row.LastMessage),
			app.Div().Class("muted").Text(timeAgo(row.LastAt)),
		)
}

func (c *ChatPage) renderConversation() app.UI {
	if c.partnerID == "" {
		return app.Div().Class("chat-main empty").Text("Pick a conversation")
	}

	self := sess.Current().UserID
	return app.Div().Class("chat-main").Body(
		app.H3().Text(c.partnerName),
		app.Div().Class("chat-messages").Body(
			app.Range(c.history).Slice(func(i int) app.UI {
				return c.renderMessage(c.history[i], self)
			}),
		),
		app.If(c.inlineErr != "", func() app.UI {
			return app.Div().Class("inline-error").Text(c.inlineErr)
		}),
		app.Div().Class("chat-compose").Body(
			app.Input().
				Class("chat-input").
				Placeholder("Write a message...").
				Value(c.draft).
				OnInput(func(ctx app.Context, e app.Event) {
					c.draft = e.Get("target").Get("value").String()
				}).
				OnKeyDown(func(ctx app.Context, e app.Event) {
					if e.Get("key").String() == "Enter" {
						c.onSend(ctx, e)
					}
				}),
			app.Button().Class("btn").Text("Send").OnClick(c.onSend),
		),
	)
}

func (c *ChatPage) renderMessage(m api.ChatMessage, selfID string) app.UI {
	own := m.SenderID == selfID
	cls := "chat-msg"
	if own {
		cls += " own"
	}

	if c.editingID == m.ID {
		return app.Div().Class(cls).Body(
			app.Input().
				Class("chat-input").
				Value(c.editDraft).
				AutoFocus(true).
				OnInput(func(ctx app.Context, e app.Event) {
					c.editDraft = e.Get("target").Get("value").String()
				}),
			app.Button().Class("btn").Text("Save").OnClick(func(ctx app.Context, e app.Event) {
				c.onSubmitEdit(ctx, m.ID)
			}),
			app.Button().Class("btn-link").Text("Cancel").OnClick(func(ctx app.Context, e app.Event) {
				c.editingID = ""
			}),
		)
	}

	return app.Div().Class(cls).Body(
		app.Span().Class("chat-msg-text").Text(m.Content),
		app.If(m.EditedAt != nil, func() app.UI {
			return app.Span().Class("muted").Text("(edited)")
		}),
		app.Span().Class("muted").Text(timeAgo(m.CreatedAt)),
		app.If(own, func() app.UI {
			// Only the sender can edit or delete.
			return app.Div().Class("chat-msg-actions").Body(
				app.Button().Class("btn-link").Text("Edit").OnClick(func(ctx app.Context, e app.Event) {
					c.editingID = m.ID
					c.editDraft = m.Content
				}),
				app.Button().Class("btn-link").Text("Delete").OnClick(func(ctx app.Context, e app.Event) {
					c.onDelete(ctx, m.ID)
				}),
			)
		}),
	)
}
