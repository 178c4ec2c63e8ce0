package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/linkfeed/backend/internal/dto"
	"github.com/linkfeed/backend/internal/repository"
	"github.com/linkfeed/backend/pkg/apperror"
	"gorm.io/gorm"
)

type UserService interface {
	// GetProfile returns a user's public info together with their posts,
	// newest first.
	GetProfile(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error)
	ListUsers(ctx context.Context) ([]dto.UserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
	postRepo repository.PostRepository
}

func NewUserService(userRepo repository.UserRepository, postRepo repository.PostRepository) UserService {
	return &userService{
		userRepo: userRepo,
		postRepo: postRepo,
	}
}

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}

	posts, err := s.postRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &dto.ProfileResponse{
		User:  dto.NewUserResponse(user),
		Posts: dto.NewPostResponses(posts),
	}, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.NewUserResponse(u))
	}
	return out, nil
}
