package main

import (
	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/skillforge/skillforge/internal/actions"
	"github.com/skillforge/skillforge/internal/api"
	"github.com/skillforge/skillforge/internal/bus"
	"github.com/skillforge/skillforge/internal/chat"
	"github.com/skillforge/skillforge/internal/session"
	"github.com/skillforge/skillforge/internal/threads"
)

// Shared client-side singletons. The browser runtime is single-threaded, so
// every component sees the same caches and the same session.
var (
	sess        = session.NewStore(localStore{})
	client      = api.New("/api", sess)
	events      = bus.New()
	threadCache = threads.NewCache(client)
	chatSvc     = chat.NewService(client, nil)
	coord       = actions.NewCoordinator(client, sess, events, threadCache, loginNavigator{}, toastAlerter{}, nil)
)

func main() {
	app.Route("/", func() app.Composer { return &FeedPage{} })
	app.Route("/login", func() app.Composer { return &LoginPage{} })
	app.Route("/signup", func() app.Composer { return &SignupPage{} })
	app.Route("/progress", func() app.Composer { return &ProgressPage{} })
	app.Route("/chat", func() app.Composer { return &ChatPage{} })
	app.RouteWithRegexp(`^/post/.+$`, func() app.Composer { return &PostPage{} })
	app.RouteWithRegexp(`^/profile/.+$`, func() app.Composer { return &ProfilePage{} })
	app.RunWhenOnBrowser()
}

// localStore adapts browser localStorage to the session.Storage interface.
type localStore struct{}

func (localStore) Get(key string) (string, bool) {
	v := app.Window().Get("localStorage").Call("getItem", key)
	if !v.Truthy() {
		return "", false
	}
	return v.String(), true
}

func (localStore) Set(key, value string) {
	app.Window().Get("localStorage").Call("setItem", key, value)
}

func (localStore) Del(key string) {
	app.Window().Get("localStorage").Call("removeItem", key)
}

// loginNavigator implements actions.Navigator: remember where the user was
// headed, then hand off to the login page.
type loginNavigator struct{}

func (loginNavigator) LoginRedirect() {
	path := app.Window().Get("location").Get("pathname").String()
	app.Window().Get("sessionStorage").Call("setItem", "returnTo", path)
	app.Window().Get("location").Set("href", "/login")
}

// consumeReturnTo pops the destination stored before a login redirect,
// defaulting to the feed.
func consumeReturnTo() string {
	store := app.Window().Get("sessionStorage")
	v := store.Call("getItem", "returnTo")
	store.Call("removeItem", "returnTo")
	if v.Truthy() && v.String() != "" && v.String() != "/login" {
		return v.String()
	}
	return "/"
}
