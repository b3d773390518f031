// Package api is the data-access client for the skillforge REST backend.
// Every call attaches the ambient bearer credential when one is present,
// returns the decoded response body on success and a normalized *Error on
// failure. Retry policy belongs to callers; this layer never retries.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"
)

// TokenSource yields the current bearer credential, or "" when signed out.
// It is re-read on every call so out-of-band login changes take effect
// immediately.
type TokenSource interface {
	Token() string
}

type Client struct {
	base  string
	http  *http.Client
	creds TokenSource
}

func New(base string, creds TokenSource) *Client {
	return &Client{
		base:  base,
		http:  http.DefaultClient,
		creds: creds,
	}
}

// Auth

func (c *Client) SignIn(ctx context.Context, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/users/signin", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SignUp(ctx context.Context, username, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	body := map[string]string{"username": username, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/users/signup", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) User(ctx context.Context, id string) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodGet, "/users/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Follow graph

func (c *Client) Followers(ctx context.Context, userID string) ([]User, error) {
	var out []User
	err := c.do(ctx, http.MethodGet, "/users/"+userID+"/followers", nil, &out)
	return out, err
}

func (c *Client) Following(ctx context.Context, userID string) ([]User, error) {
	var out []User
	err := c.do(ctx, http.MethodGet, "/users/"+userID+"/following", nil, &out)
	return out, err
}

func (c *Client) Follow(ctx context.Context, userID, targetID string) (*FollowState, error) {
	var out FollowState
	if err := c.do(ctx, http.MethodPost, "/users/"+userID+"/follow/"+targetID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Unfollow(ctx context.Context, userID, targetID string) (*FollowState, error) {
	var out FollowState
	if err := c.do(ctx, http.MethodPost, "/users/"+userID+"/unfollow/"+targetID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Posts

func (c *Client) Posts(ctx context.Context) ([]Post, error) {
	var out []Post
	err := c.do(ctx, http.MethodGet, "/posts", nil, &out)
	return out, err
}

func (c *Client) Post(ctx context.Context, id string) (*Post, error) {
	var out Post
	if err := c.do(ctx, http.MethodGet, "/posts/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) PostsByUser(ctx context.Context, userID string) ([]Post, error) {
	var out []Post
	err := c.do(ctx, http.MethodGet, "/posts/user/"+userID, nil, &out)
	return out, err
}

func (c *Client) PostsByCategory(ctx context.Context, category string) ([]Post, error) {
	var out []Post
	err := c.do(ctx, http.MethodGet, "/posts/category/"+url.PathEscape(category), nil, &out)
	return out, err
}

func (c *Client) SearchPosts(ctx context.Context, query string) ([]Post, error) {
	var out []Post
	err := c.do(ctx, http.MethodGet, "/posts/search?q="+url.QueryEscape(query), nil, &out)
	return out, err
}

func (c *Client) ToggleLike(ctx context.Context, postID string) (*LikeState, error) {
	var out LikeState
	if err := c.do(ctx, http.MethodPost, "/posts/"+postID+"/like", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeletePost(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/posts/"+id, nil, nil)
}

// Progress items

func (c *Client) ProgressItems(ctx context.Context) ([]ProgressItem, error) {
	var out []ProgressItem
	err := c.do(ctx, http.MethodGet, "/progress", nil, &out)
	return out, err
}

func (c *Client) ProgressByUser(ctx context.Context, userID string) ([]ProgressItem, error) {
	var out []ProgressItem
	err := c.do(ctx, http.MethodGet, "/progress/user/"+userID, nil, &out)
	return out, err
}

func (c *Client) ToggleProgressLike(ctx context.Context, progressID string) (*LikeState, error) {
	var out LikeState
	if err := c.do(ctx, http.MethodPost, "/progress/"+progressID+"/like", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Comments

func (c *Client) CommentsByPost(ctx context.Context, postID string) ([]Comment, error) {
	var out []Comment
	err := c.do(ctx, http.MethodGet, "/comments/post/"+postID, nil, &out)
	return out, err
}

func (c *Client) CommentsByProgress(ctx context.Context, progressID string) ([]Comment, error) {
	var out []Comment
	err := c.do(ctx, http.MethodGet, "/comments/progress/"+progressID, nil, &out)
	return out, err
}

func (c *Client) Replies(ctx context.Context, commentID string) ([]Comment, error) {
	var out []Comment
	err := c.do(ctx, http.MethodGet, "/comments/"+commentID+"/replies", nil, &out)
	return out, err
}

func (c *Client) CreateComment(ctx context.Context, nc NewComment) (*Comment, error) {
	var out Comment
	if err := c.do(ctx, http.MethodPost, "/comments", nc, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateComment(ctx context.Context, id, content string) (*Comment, error) {
	var out Comment
	body := map[string]string{"content": content}
	if err := c.do(ctx, http.MethodPut, "/comments/"+id, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteComment(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/comments/"+id, nil, nil)
}

// Notifications

func (c *Client) Notifications(ctx context.Context) ([]Notification, error) {
	var out []Notification
	err := c.do(ctx, http.MethodGet, "/notifications", nil, &out)
	return out, err
}

func (c *Client) UnreadNotifications(ctx context.Context) ([]Notification, error) {
	var out []Notification
	err := c.do(ctx, http.MethodGet, "/notifications/unread", nil, &out)
	return out, err
}

func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPut, "/notifications/"+id+"/read", nil, nil)
}

func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.do(ctx, http.MethodPut, "/notifications/read-all", nil, nil)
}

// Chat

func (c *Client) RecentChats(ctx context.Context) ([]RecentChat, error) {
	var out []RecentChat
	err := c.do(ctx, http.MethodGet, "/chat/recent", nil, &out)
	return out, err
}

func (c *Client) ChatHistory(ctx context.Context, partnerID string) ([]ChatMessage, error) {
	var out []ChatMessage
	err := c.do(ctx, http.MethodGet, "/chat/history/"+partnerID, nil, &out)
	return out, err
}

func (c *Client) SendMessage(ctx context.Context, recipientID, content string) (*ChatMessage, error) {
	var out ChatMessage
	body := map[string]string{"recipient_id": recipientID, "content": content}
	if err := c.do(ctx, http.MethodPost, "/chat/messages", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) EditMessage(ctx context.Context, id, content string) (*ChatMessage, error) {
	var out ChatMessage
	body := map[string]string{"content": content}
	if err := c.do(ctx, http.MethodPut, "/chat/messages/"+id, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteMessage(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/chat/messages/"+id, nil, nil)
}

func (c *Client) ChatUsers(ctx context.Context) ([]User, error) {
	var out []User
	err := c.do(ctx, http.MethodGet, "/chat/users", nil, &out)
	return out, err
}

// do issues one request and normalizes the outcome. A transport failure
// yields *Error with Status 0; an HTTP failure yields *Error carrying the
// status and the raw response body.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return &Error{Message: err.Error()}
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return &Error{Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.creds != nil {
		if token := c.creds.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Message: err.Error(), Status: 0}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Message: err.Error(), Status: 0}
	}

	if resp.StatusCode >= 400 {
		return normalize(resp.StatusCode, raw)
	}
	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return &Error{Message: err.Error(), Status: resp.StatusCode, Data: raw}
		}
	}
	return nil
}

// normalize prefers a server-provided message, then a server-provided error
// field, then a generic status line.
func normalize(status int, raw []byte) *Error {
	var body struct {
		Message string `json:"message"`
		Err     string `json:"error"`
	}
	_ = json.Unmarshal(raw, &body)

	msg := body.Message
	if msg == "" {
		msg = body.Err
	}
	if msg == "" {
		msg = fmt.Sprintf("request failed with status %d", status)
	}
	return &Error{Message: msg, Status: status, Data: raw}
}
