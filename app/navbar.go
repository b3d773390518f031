package main

import (
	"context"
	"fmt"

	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/skillforge/skillforge/internal/api"
	"github.com/skillforge/skillforge/internal/poll"
	"github.com/skillforge/skillforge/internal/session"
)

// withShell wraps page content with the navbar and the toast layer.
func withShell(content ...app.UI) app.UI {
	return app.Div().Class("shell").Body(
		&Navbar{},
		&Toasts{},
		app.Main().Class("page").Body(content...),
	)
}

type Navbar struct {
	app.Compo

	current session.Session
	unsub   func()
}

func (n *Navbar) OnMount(ctx app.Context) {
	n.current = sess.Current()
	n.unsub = sess.Subscribe(func(cur session.Session) {
		ctx.Dispatch(func(ctx app.Context) {
			n.current = cur
		})
	})
}

func (n *Navbar) OnDismount() {
	if n.unsub != nil {
		n.unsub()
	}
}

func (n *Navbar) onLogout(ctx app.Context, e app.Event) {
	sess.SignOut()
	ctx.Navigate("/login")
}

func (n *Navbar) Render() app.UI {
	return app.Header().Class("navbar").Body(
		app.A().Class("brand").Href("/").Text("SkillForge"),
		app.Nav().Body(
			app.A().Href("/").Text("Feed"),
			app.A().Href("/progress").Text("Progress"),
			app.A().Href("/chat").Text("Chat"),
		),
		app.Div().Class("navbar-right").Body(
			app.If(n.current.LoggedIn, func() app.UI {
				return app.Div().Class("navbar-session").Body(
					&NotificationBell{},
					app.A().Class("navbar-user").Href("/profile/"+n.current.UserID).Text(n.current.Username),
					app.Button().Class("btn-link").Text("Log out").OnClick(n.onLogout),
				)
			}).Else(func() app.UI {
				return app.A().Class("btn").Href("/login").Text("Log in")
			}),
		),
	)
}

// NotificationBell shows the unread badge and the dropdown. The unread list
// refreshes every 10 seconds while mounted, immediately when the tab regains
// visibility, and again whenever the dropdown opens.
type NotificationBell struct {
	app.Compo

	unread     []api.Notification
	open       bool
	poller     *poll.Poller
	releaseVis func()
}

func (b *NotificationBell) OnMount(ctx app.Context) {
	b.poller = poll.New(poll.NotificationsInterval, func(pctx context.Context, seq uint64) {
		items, err := client.UnreadNotifications(pctx)
		if err != nil {
			app.Log("notifications refresh failed:", err)
			return // keep what is displayed; the next tick retries
		}
		b.poller.Commit(seq, func() {
			ctx.Dispatch(func(ctx app.Context) {
				b.unread = items
			})
		})
	}, nil)
	b.poller.Start()

	b.releaseVis = app.Window().AddEventListener("visibilitychange", func(ctx app.Context, e app.Event) {
		state := app.Window().Get("document").Get("visibilityState").String()
		if state == "visible" {
			b.poller.Wake()
		}
	})
}

func (b *NotificationBell) OnDismount() {
	b.poller.Stop()
	if b.releaseVis != nil {
		b.releaseVis()
	}
}

func (b *NotificationBell) onToggle(ctx app.Context, e app.Event) {
	b.open = !b.open
	if b.open {
		b.poller.Wake()
	}
}

// Mark-as-read is one-way: the entry leaves the unread list and never comes
// back. The in-flight poll is superseded so a stale snapshot cannot
// resurrect it.
func (b *NotificationBell) onMarkRead(ctx app.Context, id string) {
	ctx.Async(func() {
		if err := client.MarkNotificationRead(ctx, id); err != nil {
			app.Log("mark notification read failed:", err)
			return
		}
		seq := b.poller.Supersede()
		b.poller.Commit(seq, func() {
			ctx.Dispatch(func(ctx app.Context) {
				for i, n := range b.unread {
					if n.ID == id {
						b.unread = append(b.unread[:i], b.unread[i+1:]...)
						break
					}
				}
			})
		})
	})
}

func (b *NotificationBell) onMarkAllRead(ctx app.Context, e app.Event) {
	ctx.Async(func() {
		if err := client.MarkAllNotificationsRead(ctx); err != nil {
			app.Log("mark all read failed:", err)
			return
		}
		seq := b.poller.Supersede()
		b.poller.Commit(seq, func() {
			ctx.Dispatch(func(ctx app.Context) {
				b.unread = nil
			})
		})
	})
}

func (b *NotificationBell) Render() app.UI {
	return app.Div().Class("bell").Body(
		app.Button().
			Class("bell-btn").
			Title("Notifications").
			OnClick(b.onToggle).
			Body(
				app.Span().Text("\U0001F514"),
				app.If(len(b.unread) > 0, func() app.UI {
					return app.Span().Class("bell-badge").Text(fmt.Sprintf("%d", len(b.unread)))
				}),
			),
		app.If(b.open, func() app.UI {
			return b.renderDropdown()
		}),
	)
}

func (b *NotificationBell) renderDropdown() app.UI {
	return app.Div().Class("bell-dropdown").Body(
		app.Div().Class("bell-header").Body(
			app.Span().Text("Notifications"),
			app.If(len(b.unread) > 0, func() app.UI {
				return app.Button().Class("btn-link").Text("Mark all read").OnClick(b.onMarkAllRead)
			}),
		),
		app.If(len(b.unread) == 0, func() app.UI {
			return app.Div().Class("bell-empty").Text("You're all caught up")
		}).Else(func() app.UI {
			return app.Ul().Class("bell-list").Body(
				app.Range(b.unread).Slice(func(i int) app.UI {
					n := b.unread[i]
					return app.Li().Class("bell-item").Body(
						app.Span().Class("bell-type").Text(n.Type),
						app.Span().Text(n.Content),
						app.Span().Class("muted").Text(timeAgo(n.CreatedAt)),
						app.Button().
							Class("btn-link").
							Text("Mark read").
							OnClick(func(ctx app.Context, e app.Event) {
								b.onMarkRead(ctx, n.ID)
							}),
					)
				}),
			)
		}),
	)
}
