package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/linkfeed/backend/internal/model"
)

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// UserBrief is the display info resolved for likers and comment authors.
type UserBrief struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type ProfileResponse struct {
	User  UserResponse   `json:"user"`
	Posts []PostResponse `json:"posts"`
}

func NewUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func NewUserBrief(u *model.User) UserBrief {
	return UserBrief{ID: u.ID, Name: u.Name}
}
