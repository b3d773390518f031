package actions

import (
	"context"
	"strings"

	"github.com/skillforge/skillforge/internal/api"
	"github.com/skillforge/skillforge/internal/bus"
)

// SendMessage sends a chat message to recipientID. Messaging yourself is
// rejected before any network call.
func (c *Coordinator) SendMessage(ctx context.Context, recipientID, content string) (*api.ChatMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}
	if recipientID == c.session.Current().UserID {
		return nil, ErrSelfChat
	}

	msg, err := c.api.SendMessage(ctx, recipientID, content)
	if err != nil {
		return nil, c.fail("send-message", err)
	}
	c.bus.Publish(bus.TopicChat, bus.ChatChange{PartnerID: recipientID, Action: "send"})
	return msg, nil
}

// EditMessage rewrites one of the current user's own messages. The server
// rejects edits of other users' messages with 403.
func (c *Coordinator) EditMessage(ctx context.Context, partnerID, messageID, content string) (*api.ChatMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}

	msg, err := c.api.EditMessage(ctx, messageID, content)
	if err != nil {
		return nil, c.fail("edit-message", err)
	}
	c.bus.Publish(bus.TopicChat, bus.ChatChange{PartnerID: partnerID, Action: "edit"})
	return msg, nil
}

// DeleteMessage removes one of the current user's own messages.
func (c *Coordinator) DeleteMessage(ctx context.Context, partnerID, messageID string) error {
	if err := c.api.DeleteMessage(ctx, messageID); err != nil {
		return c.fail("delete-message", err)
	}
	c.bus.Publish(bus.TopicChat, bus.ChatChange{PartnerID: partnerID, Action: "delete"})
	return nil
}
