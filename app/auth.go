package main

import (
	"github.com/maxence-charriere/go-app/v10/pkg/app"
)

type LoginPage struct {
	app.Compo

	email    string
	password string
	busy     bool
	errMsg   string
}

func (l *LoginPage) onSubmit(ctx app.Context, e app.Event) {
	if l.busy {
		return
	}
	if l.email == "" || l.password == "" {
		l.errMsg = "Email and password are required"
		return
	}
	l.busy = true
	email, password := l.email, l.password
	ctx.Async(func() {
		auth, err := client.SignIn(ctx, email, password)
		ctx.Dispatch(func(ctx app.Context) {
			l.busy = false
			if err != nil {
				l.errMsg = err.Error()
				return
			}
			sess.SignIn(auth.Token, auth.UserID, auth.Username, auth.Email)
			ctx.Navigate(consumeReturnTo())
		})
	})
}

func (l *LoginPage) onKeyDown(ctx app.Context, e app.Event) {
	if e.Get("key").String() == "Enter" {
		l.onSubmit(ctx, e)
	}
}

func (l *LoginPage) Render() app.UI {
	return app.Div().Class("auth-page").Body(
		app.H2().Text("Log in to SkillForge"),
		app.If(l.errMsg != "", func() app.UI {
			return app.Div().Class("inline-error").Text(l.errMsg)
		}),
		app.Input().
			Type("email").
			Placeholder("Email").
			Value(l.email).
			OnInput(func(ctx app.Context, e app.Event) {
				l.email = e.Get("target").Get("value").String()
			}).
			OnKeyDown(l.onKeyDown),
		app.Input().
			Type("password").
			Placeholder("Password").
			Value(l.password).
			OnInput(func(ctx app.Context, e app.Event) {
				l.password = e.Get("target").Get("value").String()
			}).
			OnKeyDown(l.onKeyDown),
		app.Button().Class("btn").Disabled(l.busy).Text("Log in").OnClick(l.onSubmit),
		app.P().Body(
			app.Span().Text("No account yet? "),
			app.A().Href("/signup").Text("Sign up"),
		),
	)
}

type SignupPage struct {
	app.Compo

	username string
	email    string
	password string
	busy     bool
	errMsg   string
}

func (s *SignupPage) onSubmit(ctx app.Context, e app.Event) {
	if s.busy {
		return
	}
	if s.username == "" || s.email == "" || s.password == "" {
		s.errMsg = "All fields are required"
		return
	}
	s.busy = true
	username, email, password := s.username, s.email, s.password
	ctx.Async(func() {
		auth, err := client.SignUp(ctx, username, email, password)
		ctx.Dispatch(func(ctx app.Context) {
			s.busy = false
			if err != nil {
				s.errMsg = err.Error()
				return
			}
			sess.SignIn(auth.Token, auth.UserID, auth.Username, auth.Email)
			ctx.Navigate("/")
		})
	})
}

func (s *SignupPage) Render() app.UI {
	return app.Div().Class("auth-page").Body(
		app.H2().Text("Create your account"),
		app.If(s.errMsg != "", func() app.UI {
			return app.Div().Class("inline-error").Text(s.errMsg)
		}),
		app.Input().
			Placeholder("Username").
			Value(s.username).
			OnInput(func(ctx app.Context, e app.Event) {
				s.username = e.Get("target").Get("value").String()
			}),
		app.Input().
			Type("email").
			Placeholder("Email").
			Value(s.email).
			OnInput(func(ctx app.Context, e app.Event) {
				s.email = e.Get("target").Get("value").String()
			}),
		app.Input().
			Type("password").
			Placeholder("Password").
			Value(s.password).
			OnInput(func(ctx app.Context, e app.Event) {
				s.password = e.Get("target").Get("value").String()
			}),
		app.Button().Class("btn").Disabled(s.busy).Text("Sign up").OnClick(s.onSubmit),
		app.P().Body(
			app.Span().Text("Already have an account? "),
			app.A().Href("/login").Text("Log in"),
		),
	)
}
