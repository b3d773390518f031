package main

import (
	"time"

	"github.com/google/uuid"
	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/skillforge/skillforge/internal/bus"
)

const topicToast = "toast"

type toast struct {
	ID      string
	Message string
}

// toastAlerter implements actions.Alerter by publishing on the bus; the
// mounted Toasts component picks it up.
type toastAlerter struct{}

func (toastAlerter) Alert(message string) {
	events.Publish(topicToast, toast{ID: uuid.NewString(), Message: message})
}

// Toasts renders transient failure messages. Each toast dismisses itself
// after a few seconds or on click.
type Toasts struct {
	app.Compo

	items []toast
	unsub func()
}

func (t *Toasts) OnMount(ctx app.Context) {
	t.unsub = events.Subscribe(topicToast, func(e bus.Event) {
		item := e.Payload.(toast)
		ctx.Dispatch(func(ctx app.Context) {
			t.items = append(t.items, item)
		})
		time.AfterFunc(5*time.Second, func() {
			ctx.Dispatch(func(ctx app.Context) {
				t.remove(item.ID)
			})
		})
	})
}

func (t *Toasts) OnDismount() {
	if t.unsub != nil {
		t.unsub()
	}
}

func (t *Toasts) remove(id string) {
	for i, item := range t.items {
		if item.ID == id {
			t.items = append(t.items[:i], t.items[i+1:]...)
			return
		}
	}
}

func (t *Toasts) Render() app.UI {
	return app.Div().Class("toasts").Body(
		app.Range(t.items).Slice(func(i int) app.UI {
			item := t.items[i]
			return app.Div().
				Class("toast").
				Text(item.Message).
				OnClick(func(ctx app.Context, e app.Event) {
					t.remove(item.ID)
				})
		}),
	)
}
