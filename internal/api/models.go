package api

import "time"

type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Post struct {
	ID           string    `json:"id"`
	AuthorID     string    `json:"author_id"`
	AuthorName   string    `json:"author_name"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Category     string    `json:"category"`
	Likes        []string  `json:"likes"`
	CommentCount int       `json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
}

type ProgressItem struct {
	ID           string    `json:"id"`
	AuthorID     string    `json:"author_id"`
	AuthorName   string    `json:"author_name"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Percent      int       `json:"percent"`
	Likes        []string  `json:"likes"`
	CommentCount int       `json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// Comment belongs to exactly one post or progress item, or to one parent
// comment (a reply). Never both.
type Comment struct {
	ID              string    `json:"id"`
	PostID          string    `json:"post_id,omitempty"`
	ProgressID      string    `json:"progress_id,omitempty"`
	ParentCommentID string    `json:"parent_comment_id,omitempty"`
	AuthorID        string    `json:"author_id"`
	AuthorName      string    `json:"author_name"`
	Content         string    `json:"content"`
	ReplyCount      int       `json:"reply_count"`
	CreatedAt       time.Time `json:"created_at"`
}

func (c Comment) IsReply() bool { return c.ParentCommentID != "" }

type Notification struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"recipient_id"`
	Type        string    `json:"type"` // LIKE, COMMENT, FOLLOW, MESSAGE
	Content     string    `json:"content"`
	RefID       string    `json:"ref_id,omitempty"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}

type ChatMessage struct {
	ID          string     `json:"id"`
	SenderID    string     `json:"sender_id"`
	RecipientID string     `json:"recipient_id"`
	Content     string     `json:"content"`
	CreatedAt   time.Time  `json:"created_at"`
	EditedAt    *time.Time `json:"edited_at,omitempty"`
}

// RecentChat is the server's denormalized per-partner summary.
type RecentChat struct {
	PartnerID   string    `json:"partner_id"`
	PartnerName string    `json:"partner_name"`
	LastMessage string    `json:"last_message"`
	LastAt      time.Time `json:"last_at"`
}

// LikeState is the authoritative like state returned by a toggle.
type LikeState struct {
	Likes              int  `json:"likes"`
	LikedByCurrentUser bool `json:"liked_by_current_user"`
}

// FollowState is the authoritative follow state returned by follow/unfollow.
type FollowState struct {
	Following bool `json:"following"`
	Followers int  `json:"followers"`
}

type AuthResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// NewComment is the payload for creating a comment or a reply. Exactly one
// of PostID, ProgressID or ParentCommentID must be set.
type NewComment struct {
	PostID          string `json:"post_id,omitempty"`
	ProgressID      string `json:"progress_id,omitempty"`
	ParentCommentID string `json:"parent_comment_id,omitempty"`
	Content         string `json:"content"`
}
