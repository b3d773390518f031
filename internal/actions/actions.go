// Package actions coordinates interactive mutations: likes, follows, comment
// CRUD and chat messages. The protocol is confirm-first: local state is
// replaced with the server-returned authoritative state after the request
// succeeds, never guessed beforehand. Bus events fire only on confirmation.
package actions

import (
	"context"

	"go.uber.org/zap"

	"github.com/skillforge/skillforge/internal/api"
	"github.com/skillforge/skillforge/internal/bus"
	"github.com/skillforge/skillforge/internal/session"
	"github.com/skillforge/skillforge/internal/threads"
)

// Client-side validation failures. Caught before any network call.
var (
	ErrEmptyComment = api.ValidationError("comment text cannot be empty")
	ErrEmptyMessage = api.ValidationError("message text cannot be empty")
	ErrSelfFollow   = api.ValidationError("you cannot follow yourself")
	ErrSelfChat     = api.ValidationError("you cannot message yourself")
)

// API is the slice of the data-access client the coordinator mutates through.
// *api.Client satisfies it.
type API interface {
	ToggleLike(ctx context.Context, postID string) (*api.LikeState, error)
	ToggleProgressLike(ctx context.Context, progressID string) (*api.LikeState, error)
	Follow(ctx context.Context, userID, targetID string) (*api.FollowState, error)
	Unfollow(ctx context.Context, userID, targetID string) (*api.FollowState, error)
	CreateComment(ctx context.Context, nc api.NewComment) (*api.Comment, error)
	UpdateComment(ctx context.Context, id, content string) (*api.Comment, error)
	DeleteComment(ctx context.Context, id string) error
	SendMessage(ctx context.Context, recipientID, content string) (*api.ChatMessage, error)
	EditMessage(ctx context.Context, id, content string) (*api.ChatMessage, error)
	DeleteMessage(ctx context.Context, id string) error
}

// Navigator sends the user to the login flow, preserving the intended return
// destination. Implemented by the browser shell.
type Navigator interface {
	LoginRedirect()
}

// Alerter surfaces a transient, non-blocking failure message (a toast).
type Alerter interface {
	Alert(message string)
}

type Coordinator struct {
	api     API
	session *session.Store
	bus     *bus.Bus
	threads *threads.Cache
	nav     Navigator
	alert   Alerter
	log     *zap.Logger
}

func NewCoordinator(a API, s *session.Store, b *bus.Bus, t *threads.Cache, nav Navigator, alert Alerter, log *zap.Logger) *Coordinator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Coordinator{api: a, session: s, bus: b, threads: t, nav: nav, alert: alert, log: log}
}

// fail classifies a confirmed failure and applies the shared UI policy:
// 401 redirects to login, transport and unexpected failures raise a toast.
// Forbidden and NotFound pass through untouched for inline handling. The
// error is always returned so callers keep their prior state.
func (c *Coordinator) fail(op string, err error) error {
	kind := api.Classify(err)
	c.log.Debug("mutation failed", zap.String("op", op), zap.Int("kind", int(kind)), zap.Error(err))

	switch kind {
	case api.KindUnauthorized:
		if c.nav != nil {
			c.nav.LoginRedirect()
		}
	case api.KindNetwork:
		if c.alert != nil {
			c.alert.Alert("Connection problem. Please try again.")
		}
	case api.KindForbidden, api.KindNotFound, api.KindValidation:
		// Inline treatment belongs to the caller.
	default:
		if c.alert != nil {
			c.alert.Alert("Something went wrong. Please try again.")
		}
	}
	return err
}
