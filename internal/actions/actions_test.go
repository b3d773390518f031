package actions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/skillforge/skillforge/internal/api"
	"github.com/skillforge/skillforge/internal/bus"
	"github.com/skillforge/skillforge/internal/session"
	"github.com/skillforge/skillforge/internal/threads"
)

type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) ToggleLike(ctx context.Context, postID string) (*api.LikeState, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.LikeState), args.Error(1)
}

func (m *mockAPI) ToggleProgressLike(ctx context.Context, progressID string) (*api.LikeState, error) {
	args := m.Called(ctx, progressID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.LikeState), args.Error(1)
}

func (m *mockAPI) Follow(ctx context.Context, userID, targetID string) (*api.FollowState, error) {
	args := m.Called(ctx, userID, targetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.FollowState), args.Error(1)
}

func (m *mockAPI) Unfollow(ctx context.Context, userID, targetID string) (*api.FollowState, error) {
	args := m.Called(ctx, userID, targetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.FollowState), args.Error(1)
}

func (m *mockAPI) CreateComment(ctx context.Context, nc api.NewComment) (*api.Comment, error) {
	args := m.Called(ctx, nc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.Comment), args.Error(1)
}

func (m *mockAPI) UpdateComment(ctx context.Context, id, content string) (*api.Comment, error) {
	args := m.Called(ctx, id, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.Comment), args.Error(1)
}

func (m *mockAPI) DeleteComment(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockAPI) SendMessage(ctx context.Context, recipientID, content string) (*api.ChatMessage, error) {
	args := m.Called(ctx, recipientID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.ChatMessage), args.Error(1)
}

func (m *mockAPI) EditMessage(ctx context.Context, id, content string) (*api.ChatMessage, error) {
	args := m.Called(ctx, id, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.ChatMessage), args.Error(1)
}

func (m *mockAPI) DeleteMessage(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// fakeLoader backs the thread cache during coordinator tests.
type fakeLoader struct {
	comments map[string][]api.Comment
	replies  map[string][]api.Comment
	calls    int
}

func (f *fakeLoader) CommentsByPost(ctx context.Context, postID string) ([]api.Comment, error) {
	f.calls++
	return f.comments[postID], nil
}

func (f *fakeLoader) CommentsByProgress(ctx context.Context, progressID string) ([]api.Comment, error) {
	f.calls++
	return f.comments[progressID], nil
}

func (f *fakeLoader) Replies(ctx context.Context, commentID string) ([]api.Comment, error) {
	return f.replies[commentID], nil
}

type fakeNav struct{ redirected bool }

func (f *fakeNav) LoginRedirect() { f.redirected = true }

type fakeAlert struct{ messages []string }

func (f *fakeAlert) Alert(msg string) { f.messages = append(f.messages, msg) }

type fixture struct {
	api     *mockAPI
	loader  *fakeLoader
	bus     *bus.Bus
	threads *threads.Cache
	session *session.Store
	nav     *fakeNav
	alert   *fakeAlert
	coord   *Coordinator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		api:    new(mockAPI),
		loader: &fakeLoader{comments: map[string][]api.Comment{}, replies: map[string][]api.Comment{}},
		bus:    bus.New(),
		nav:    &fakeNav{},
		alert:  &fakeAlert{},
	}
	f.threads = threads.NewCache(f.loader)
	f.session = session.NewStore(session.NewMemory())
	f.session.SignIn("tok", "U1", "ada", "ada@example.com")
	f.coord = NewCoordinator(f.api, f.session, f.bus, f.threads, f.nav, f.alert, nil)
	return f
}

func TestToggleLikeReturnsServerTruth(t *testing.T) {
	f := newFixture(t)
	// The server says "not liked" even though the click looked like a like:
	// another session unliked concurrently. Server truth wins.
	f.api.On("ToggleLike", mock.Anything, "P1").Return(&api.LikeState{Likes: 4, LikedByCurrentUser: false}, nil)

	var published []bus.LikeChange
	f.bus.Subscribe(bus.TopicLike, func(e bus.Event) {
		published = append(published, e.Payload.(bus.LikeChange))
	})

	state, err := f.coord.ToggleLike(context.Background(), threads.KindPost, "P1")
	require.NoError(t, err)
	assert.False(t, state.LikedByCurrentUser)
	assert.Equal(t, 4, state.Likes)

	require.Len(t, published, 1)
	assert.Equal(t, "P1", published[0].EntityID)
	assert.Equal(t, 4, published[0].Likes)
	assert.Equal(t, "U1", published[0].ActorID)
}

func TestToggleLikeUnauthorizedRedirectsToLogin(t *testing.T) {
	f := newFixture(t)
	f.api.On("ToggleLike", mock.Anything, "P1").Return(nil, &api.Error{Message: "token expired", Status: 401})

	_, err := f.coord.ToggleLike(context.Background(), threads.KindPost, "P1")
	assert.Error(t, err)
	assert.True(t, f.nav.redirected)
	assert.Empty(t, f.alert.messages)
}

func TestToggleLikeNetworkFailureAlertsAndKeepsState(t *testing.T) {
	f := newFixture(t)
	f.api.On("ToggleLike", mock.Anything, "P1").Return(nil, &api.Error{Message: "connection refused", Status: 0})

	var published int
	f.bus.Subscribe(bus.TopicLike, func(e bus.Event) { published++ })

	_, err := f.coord.ToggleLike(context.Background(), threads.KindPost, "P1")
	assert.Error(t, err)
	assert.NotEmpty(t, f.alert.messages)
	assert.Zero(t, published, "no event may fire before server confirmation")
}

func TestFollowPublishesConfirmedChange(t *testing.T) {
	f := newFixture(t)
	f.api.On("Follow", mock.Anything, "U1", "U2").Return(&api.FollowState{Following: true, Followers: 8}, nil)

	// Two mounted views showing U2's follower count.
	var sidebar, profile int
	for _, count := range []*int{&sidebar, &profile} {
		count := count
		f.bus.Subscribe(bus.TopicFollow, func(e bus.Event) {
			fc := e.Payload.(bus.FollowChange)
			if fc.TargetUserID == "U2" {
				*count = fc.Followers
			}
		})
	}

	_, err := f.coord.FollowUser(context.Background(), "U2")
	require.NoError(t, err)
	assert.Equal(t, 8, sidebar)
	assert.Equal(t, 8, profile)
}

func TestSelfFollowRejectedBeforeNetwork(t *testing.T) {
	f := newFixture(t)

	_, err := f.coord.FollowUser(context.Background(), "U1")
	assert.ErrorIs(t, err, ErrSelfFollow)
	assert.Equal(t, api.KindValidation, api.Classify(err))
	f.api.AssertNotCalled(t, "Follow", mock.Anything, mock.Anything, mock.Anything)
}

func TestUnfollowPublishesUnfollowAction(t *testing.T) {
	f := newFixture(t)
	f.api.On("Unfollow", mock.Anything, "U1", "U2").Return(&api.FollowState{Following: false, Followers: 7}, nil)

	var got bus.FollowChange
	f.bus.Subscribe(bus.TopicFollow, func(e bus.Event) { got = e.Payload.(bus.FollowChange) })

	_, err := f.coord.UnfollowUser(context.Background(), "U2")
	require.NoError(t, err)
	assert.Equal(t, "unfollow", got.Action)
	assert.Equal(t, 7, got.Followers)
}

func TestAddCommentRefetchesFullList(t *testing.T) {
	f := newFixture(t)
	ref := threads.PostRef("P123")
	f.loader.comments["P123"] = []api.Comment{{ID: "C1"}}
	_, _ = f.threads.LoadComments(context.Background(), ref)

	f.api.On("CreateComment", mock.Anything, api.NewComment{PostID: "P123", Content: "Great tutorial!"}).
		Return(&api.Comment{ID: "C2", PostID: "P123", Content: "Great tutorial!"}, nil)
	// Server sorts the new comment first.
	f.loader.comments["P123"] = []api.Comment{
		{ID: "C2", Content: "Great tutorial!"},
		{ID: "C1"},
	}

	var change bus.CommentChange
	f.bus.Subscribe(bus.TopicComment, func(e bus.Event) { change = e.Payload.(bus.CommentChange) })

	list, err := f.coord.AddComment(context.Background(), ref, "Great tutorial!")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "C2", list[0].ID, "server-returned order is kept, new comment not forced last")
	assert.Equal(t, 2, change.Total)
}

func TestAddCommentEmptyTextNeverReachesNetwork(t *testing.T) {
	f := newFixture(t)

	_, err := f.coord.AddComment(context.Background(), threads.PostRef("P1"), "   ")
	assert.ErrorIs(t, err, ErrEmptyComment)
	f.api.AssertNotCalled(t, "CreateComment", mock.Anything, mock.Anything)
}

func TestDeleteCommentRecountsFromCache(t *testing.T) {
	f := newFixture(t)
	ref := threads.PostRef("P1")
	f.loader.comments["P1"] = []api.Comment{
		{ID: "C1", ReplyCount: 2},
		{ID: "C2"},
	}
	_, _ = f.threads.LoadComments(context.Background(), ref)

	f.api.On("DeleteComment", mock.Anything, "C2").Return(nil)
	// After the delete the server also reports one fewer reply under C1 than
	// the old derived count did.
	f.loader.comments["P1"] = []api.Comment{{ID: "C1", ReplyCount: 1}}

	var change bus.CommentChange
	f.bus.Subscribe(bus.TopicComment, func(e bus.Event) { change = e.Payload.(bus.CommentChange) })

	list, err := f.coord.DeleteComment(context.Background(), ref, "C2")
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 2, change.Total, "count is recomputed from cache contents, not decremented")
	assert.Equal(t, 2, f.threads.TotalCount(ref))
}

func TestDeleteForeignCommentForbiddenLeavesListUnchanged(t *testing.T) {
	f := newFixture(t)
	ref := threads.PostRef("P1")
	f.loader.comments["P1"] = []api.Comment{{ID: "C1"}, {ID: "C2"}}
	before, _ := f.threads.LoadComments(context.Background(), ref)

	f.api.On("DeleteComment", mock.Anything, "C2").Return(&api.Error{Message: "permission denied", Status: 403})

	_, err := f.coord.DeleteComment(context.Background(), ref, "C2")
	require.Error(t, err)
	assert.True(t, api.IsForbidden(err))

	after, _ := f.threads.LoadComments(context.Background(), ref)
	assert.Equal(t, before, after, "the comment stays in the list unchanged")
}

func TestDeleteVanishedCommentSelfHeals(t *testing.T) {
	f := newFixture(t)
	ref := threads.PostRef("P1")
	f.loader.comments["P1"] = []api.Comment{{ID: "C1"}, {ID: "C2"}}
	_, _ = f.threads.LoadComments(context.Background(), ref)

	f.api.On("DeleteComment", mock.Anything, "C2").Return(&api.Error{Message: "comment not found", Status: 404})
	f.loader.comments["P1"] = []api.Comment{{ID: "C1"}}

	_, err := f.coord.DeleteComment(context.Background(), ref, "C2")
	require.Error(t, err)
	assert.True(t, api.IsNotFound(err))

	list, _ := f.threads.LoadComments(context.Background(), ref)
	assert.Len(t, list, 1, "the stale entry disappears after the self-healing refresh")
}

func TestAddReplySendsOnlyParentCommentID(t *testing.T) {
	f := newFixture(t)
	ref := threads.PostRef("P1")
	f.loader.comments["P1"] = []api.Comment{{ID: "C1", ReplyCount: 1}}

	f.api.On("CreateComment", mock.Anything, api.NewComment{ParentCommentID: "C1", Content: "agreed"}).
		Return(&api.Comment{ID: "R1", ParentCommentID: "C1", Content: "agreed"}, nil)

	_, err := f.coord.AddReply(context.Background(), ref, "C1", "agreed")
	require.NoError(t, err)
	// The expectation above asserts PostID stays empty on a reply: a comment
	// belongs to an entity or to a parent comment, never both.
	f.api.AssertExpectations(t)
}

func TestSendMessageToSelfRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.coord.SendMessage(context.Background(), "U1", "hello me")
	assert.ErrorIs(t, err, ErrSelfChat)
	f.api.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestSendMessagePublishesChatChange(t *testing.T) {
	f := newFixture(t)
	f.api.On("SendMessage", mock.Anything, "U2", "hi").Return(&api.ChatMessage{ID: "M1", SenderID: "U1", RecipientID: "U2", Content: "hi"}, nil)

	var got bus.ChatChange
	f.bus.Subscribe(bus.TopicChat, func(e bus.Event) { got = e.Payload.(bus.ChatChange) })

	msg, err := f.coord.SendMessage(context.Background(), "U2", "hi")
	require.NoError(t, err)
	assert.Equal(t, "M1", msg.ID)
	assert.Equal(t, bus.ChatChange{PartnerID: "U2", Action: "send"}, got)
}

func TestEditForeignMessageForbidden(t *testing.T) {
	f := newFixture(t)
	f.api.On("EditMessage", mock.Anything, "M9", "hacked").Return(nil, &api.Error{Message: "not your message", Status: 403})

	var published int
	f.bus.Subscribe(bus.TopicChat, func(e bus.Event) { published++ })

	_, err := f.coord.EditMessage(context.Background(), "U2", "M9", "hacked")
	require.Error(t, err)
	assert.True(t, api.IsForbidden(err))
	assert.Zero(t, published)
}
