package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/linkfeed/backend/internal/model"
)

// PostInput binds the body shared by create and edit: multipart form fields
// when an image is uploaded, plain JSON for text-only requests.
type PostInput struct {
	Text string `form:"text" json:"text" binding:"required,max=1000"`
}

type CommentRequest struct {
	Text string `json:"text" binding:"required,max=1000"`
}

type CommentResponse struct {
	ID        uint      `json:"id"`
	User      UserBrief `json:"user"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type PostResponse struct {
	ID        uuid.UUID         `json:"id"`
	User      UserResponse      `json:"user"`
	Text      string            `json:"text"`
	Image     *string           `json:"image,omitempty"`
	Likes     []UserBrief       `json:"likes"`
	Comments  []CommentResponse `json:"comments"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// NewPostResponse resolves a post and its preloaded associations into the
// denormalized shape the feed renders (author, likers, comment authors).
func NewPostResponse(p *model.Post) PostResponse {
	likes := make([]UserBrief, 0, len(p.Likes))
	for i := range p.Likes {
		likes = append(likes, NewUserBrief(&p.Likes[i].User))
	}

	comments := make([]CommentResponse, 0, len(p.Comments))
	for i := range p.Comments {
		c := &p.Comments[i]
		comments = append(comments, CommentResponse{
			ID:        c.ID,
			User:      NewUserBrief(&c.User),
			Text:      c.Text,
			CreatedAt: c.CreatedAt,
		})
	}

	return PostResponse{
		ID:        p.ID,
		User:      NewUserResponse(&p.User),
		Text:      p.Text,
		Image:     p.ImageURL,
		Likes:     likes,
		Comments:  comments,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func NewPostResponses(posts []*model.Post) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, NewPostResponse(p))
	}
	return out
}
