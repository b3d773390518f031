package threads

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillforge/skillforge/internal/api"
)

type fakeLoader struct {
	postCalls     map[string]int
	progressCalls map[string]int
	replyCalls    map[string]int

	comments map[string][]api.Comment
	replies  map[string][]api.Comment
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{
		postCalls:     map[string]int{},
		progressCalls: map[string]int{},
		replyCalls:    map[string]int{},
		comments:      map[string][]api.Comment{},
		replies:       map[string][]api.Comment{},
	}
}

func (f *fakeLoader) CommentsByPost(ctx context.Context, postID string) ([]api.Comment, error) {
	f.postCalls[postID]++
	return f.comments[postID], nil
}

func (f *fakeLoader) CommentsByProgress(ctx context.Context, progressID string) ([]api.Comment, error) {
	f.progressCalls[progressID]++
	return f.comments[progressID], nil
}

func (f *fakeLoader) Replies(ctx context.Context, commentID string) ([]api.Comment, error) {
	f.replyCalls[commentID]++
	return f.replies[commentID], nil
}

func TestLoadCommentsCachesAfterFirstFetch(t *testing.T) {
	f := newFakeLoader()
	f.comments["P1"] = []api.Comment{{ID: "C1"}, {ID: "C2"}}
	c := NewCache(f)

	first, err := c.LoadComments(context.Background(), PostRef("P1"))
	require.NoError(t, err)
	second, err := c.LoadComments(context.Background(), PostRef("P1"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.postCalls["P1"], "second load must be a cache hit")
}

func TestLoadCommentsPreservesServerOrder(t *testing.T) {
	f := newFakeLoader()
	f.comments["P1"] = []api.Comment{{ID: "C3"}, {ID: "C1"}, {ID: "C2"}}
	c := NewCache(f)

	got, err := c.LoadComments(context.Background(), PostRef("P1"))
	require.NoError(t, err)
	assert.Equal(t, "C3", got[0].ID)
	assert.Equal(t, "C1", got[1].ID)
	assert.Equal(t, "C2", got[2].ID)
}

func TestLoadRepliesIsPerCommentAndCached(t *testing.T) {
	f := newFakeLoader()
	f.comments["P1"] = []api.Comment{{ID: "C1"}, {ID: "C2"}}
	f.replies["C1"] = []api.Comment{{ID: "R1", ParentCommentID: "C1"}}
	c := NewCache(f)
	ref := PostRef("P1")

	_, err := c.LoadComments(context.Background(), ref)
	require.NoError(t, err)

	got, err := c.LoadReplies(context.Background(), ref, "C1")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = c.LoadReplies(context.Background(), ref, "C1")
	require.NoError(t, err)
	assert.Equal(t, 1, f.replyCalls["C1"], "reply load must be a cache hit the second time")
	assert.Zero(t, f.replyCalls["C2"], "expanding C1 must not load C2's replies")
}

func TestInvalidateDropsTopLevelAndReplies(t *testing.T) {
	f := newFakeLoader()
	f.comments["P1"] = []api.Comment{{ID: "C1"}}
	f.replies["C1"] = []api.Comment{{ID: "R1", ParentCommentID: "C1"}}
	c := NewCache(f)
	ref := PostRef("P1")

	_, _ = c.LoadComments(context.Background(), ref)
	_, _ = c.LoadReplies(context.Background(), ref, "C1")
	c.Invalidate(ref)

	_, _ = c.LoadComments(context.Background(), ref)
	_, _ = c.LoadReplies(context.Background(), ref, "C1")
	assert.Equal(t, 2, f.postCalls["P1"])
	assert.Equal(t, 2, f.replyCalls["C1"])
}

func TestTotalCountRecomputesFromCacheContents(t *testing.T) {
	f := newFakeLoader()
	f.comments["P1"] = []api.Comment{
		{ID: "C1", ReplyCount: 2},
		{ID: "C2", ReplyCount: 1},
	}
	// C1's replies actually contain three entries, more than the stale
	// server-side derived count.
	f.replies["C1"] = []api.Comment{
		{ID: "R1", ParentCommentID: "C1"},
		{ID: "R2", ParentCommentID: "C1"},
		{ID: "R3", ParentCommentID: "C1"},
	}
	c := NewCache(f)
	ref := PostRef("P1")

	_, _ = c.LoadComments(context.Background(), ref)
	assert.Equal(t, 2+2+1, c.TotalCount(ref), "unexpanded replies use the server derived count")

	_, _ = c.LoadReplies(context.Background(), ref, "C1")
	assert.Equal(t, 2+3+1, c.TotalCount(ref), "loaded replies count by actual length")
}

func TestRefreshHitsNetworkAgain(t *testing.T) {
	f := newFakeLoader()
	f.comments["G1"] = []api.Comment{{ID: "C1"}}
	c := NewCache(f)
	ref := ProgressRef("G1")

	_, _ = c.LoadComments(context.Background(), ref)
	f.comments["G1"] = []api.Comment{{ID: "C1"}, {ID: "C2"}}

	got, err := c.Refresh(context.Background(), ref)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 2, f.progressCalls["G1"])
}
