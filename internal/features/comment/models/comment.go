package models

import "time"

// Comment belongs to a post and carries the commenter's wallet address.
type Comment struct {
	ID            int64     `json:"id"`
	PostID        int64     `json:"post_id"`
	WalletAddress string    `json:"user_id"`
	Nickname      string    `json:"user_nickname"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreateCommentRequest is the body of POST /api/posts/:id/comments.
type CreateCommentRequest struct {
	Nickname string `json:"user_nickname"`
	Content  string `json:"content" binding:"required"`
}
