// Package bus is the in-process event channel between components that render
// derived state over the same entity (a follow button in a list, the follower
// count in a sidebar). It replaces the DOM custom-event mechanism with a
// typed emitter that has defined semantics: delivery is synchronous, in
// subscription order, at-most-once per subscriber, and there is no replay:
// a component mounted after an event fired must fetch current state itself.
package bus

import "sync"

const (
	TopicFollow       = "follow-change"
	TopicLike         = "like-change"
	TopicComment      = "comment-change"
	TopicChat         = "chat-change"
	TopicNotification = "notification-change"
)

// FollowChange is published after the server confirms a follow or unfollow.
type FollowChange struct {
	Action       string // "follow" or "unfollow"
	TargetUserID string
	ActorUserID  string
	Followers    int
}

// LikeChange carries the server-confirmed like state for an entity.
type LikeChange struct {
	EntityKind string // "post" or "progress"
	EntityID   string
	Likes      int
	Liked      bool
	ActorID    string
}

// CommentChange signals that an entity's comment tree changed and cached
// views of it should be re-derived.
type CommentChange struct {
	EntityKind string
	EntityID   string
	Action     string // "add", "edit", "delete"
	Total      int
}

// ChatChange signals that a conversation changed.
type ChatChange struct {
	PartnerID string
	Action    string // "send", "edit", "delete"
}

type Event struct {
	Topic   string
	Payload any
}

type Handler func(Event)

type subscriber struct {
	id int
	fn Handler
}

type Bus struct {
	mu     sync.Mutex
	topics map[string][]subscriber
	nextID int
}

func New() *Bus {
	return &Bus{topics: map[string][]subscriber{}}
}

// Subscribe registers h for a topic and returns an unsubscribe function.
func (b *Bus) Subscribe(topic string, h Handler) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.topics[topic] = append(b.topics[topic], subscriber{id: id, fn: h})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.topics[topic]
		for i, s := range subs {
			if s.id == id {
				b.topics[topic] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
	}
}

// Publish delivers the event to the subscribers registered at call time, in
// subscription order. Fire-and-forget: a handler cannot fail delivery to the
// handlers after it.
func (b *Bus) Publish(topic string, payload any) {
	b.mu.Lock()
	subs := make([]subscriber, len(b.topics[topic]))
	copy(subs, b.topics[topic])
	b.mu.Unlock()

	ev := Event{Topic: topic, Payload: payload}
	for _, s := range subs {
		s.fn(ev)
	}
}
