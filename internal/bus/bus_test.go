package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublishReachesAllSubscribersInOrder(t *testing.T) {
	b := New()

	var order []string
	b.Subscribe(TopicFollow, func(e Event) { order = append(order, "first") })
	b.Subscribe(TopicFollow, func(e Event) { order = append(order, "second") })

	b.Publish(TopicFollow, FollowChange{Action: "follow", TargetUserID: "U2", ActorUserID: "U1"})
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestSubscribersFilterByPayload(t *testing.T) {
	b := New()

	var countForU2 int
	b.Subscribe(TopicFollow, func(e Event) {
		fc := e.Payload.(FollowChange)
		if fc.TargetUserID == "U2" {
			countForU2++
		}
	})

	b.Publish(TopicFollow, FollowChange{Action: "follow", TargetUserID: "U2"})
	b.Publish(TopicFollow, FollowChange{Action: "follow", TargetUserID: "U9"})
	assert.Equal(t, 1, countForU2)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := New()

	var n int
	unsub := b.Subscribe(TopicLike, func(e Event) { n++ })
	b.Publish(TopicLike, LikeChange{EntityID: "P1"})
	unsub()
	b.Publish(TopicLike, LikeChange{EntityID: "P1"})
	assert.Equal(t, 1, n)
}

func TestNoReplayForLateSubscribers(t *testing.T) {
	b := New()
	b.Publish(TopicComment, CommentChange{EntityID: "P1", Action: "add"})

	var n int
	b.Subscribe(TopicComment, func(e Event) { n++ })
	assert.Zero(t, n, "a late subscriber must not see events published before it mounted")
}

func TestUnrelatedTopicNotDelivered(t *testing.T) {
	b := New()

	var n int
	b.Subscribe(TopicChat, func(e Event) { n++ })
	b.Publish(TopicFollow, FollowChange{})
	assert.Zero(t, n)
}
