package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/linkfeed/backend/internal/dto"
	"github.com/linkfeed/backend/internal/model"
	"github.com/linkfeed/backend/internal/repository"
	"github.com/linkfeed/backend/pkg/apperror"
	"github.com/linkfeed/backend/pkg/storage"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type PostService interface {
	CreatePost(ctx context.Context, userID uuid.UUID, text string, image *multipart.FileHeader) (*dto.PostResponse, error)
	ListPosts(ctx context.Context) ([]dto.PostResponse, error)
	ToggleLike(ctx context.Context, userID, postID uuid.UUID) (*dto.PostResponse, error)
	AddComment(ctx context.Context, userID, postID uuid.UUID, text string) (*dto.PostResponse, error)
	UpdatePost(ctx context.Context, userID, postID uuid.UUID, text string, image *multipart.FileHeader) (*dto.PostResponse, error)
	DeletePost(ctx context.Context, userID, postID uuid.UUID) error
}

type PostServiceConfig struct {
	UploadFolder  string
	MaxUploadSize int64
	MaxTextLength int
	RateLimitPost time.Duration
}

type postService struct {
	postRepo    repository.PostRepository
	fileStorage storage.ImageStorage
	redisClient *redis.Client
	sanitizer   *bluemonday.Policy
	cfg         PostServiceConfig
}

func NewPostService(postRepo repository.PostRepository, fileStorage storage.ImageStorage, redisClient *redis.Client, cfg PostServiceConfig) PostService {
	return &postService{
		postRepo:    postRepo,
		fileStorage: fileStorage,
		redisClient: redisClient,
		sanitizer:   bluemonday.StrictPolicy(),
		cfg:         cfg,
	}
}

func (s *postService) CreatePost(ctx context.Context, userID uuid.UUID, text string, image *multipart.FileHeader) (*dto.PostResponse, error) {
	allowed, err := CheckAndSetRateLimit(ctx, s.redisClient, userID, "post", s.cfg.RateLimitPost)
	if err != nil {
		return nil, fmt.Errorf("failed to check rate limit: %w", err)
	}
	if !allowed {
		ttl, ttlErr := GetRateLimitTTL(ctx, s.redisClient, userID, "post")
		wait := retryAfter(ttl, ttlErr, s.cfg.RateLimitPost)
		return nil, &RateLimitError{
			Message:    fmt.Sprintf("you are posting too fast. Please wait %.0f seconds", wait.Seconds()),
			RetryAfter: wait,
		}
	}

	creationFailed := true
	defer func() {
		if creationFailed {
			_ = ClearRateLimit(ctx, s.redisClient, userID, "post")
		}
	}()

	// Text is validated before anything touches the attachment store, so a
	// rejected request never leaves a stored file behind.
	cleaned, err := s.cleanText(text, "post text")
	if err != nil {
		return nil, err
	}

	var imageURL *string
	if image != nil {
		ref, err := s.storeImage(ctx, image)
		if err != nil {
			return nil, err
		}
		imageURL = &ref
	}

	post := &model.Post{
		UserID:   userID,
		Text:     cleaned,
		ImageURL: imageURL,
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		// The record never made it; the stored file must not outlive it.
		s.discardImage(imageURL)
		return nil, err
	}

	creationFailed = false

	return s.resolve(ctx, post.ID)
}

func (s *postService) ListPosts(ctx context.Context) ([]dto.PostResponse, error) {
	posts, err := s.postRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewPostResponses(posts), nil
}

func (s *postService) ToggleLike(ctx context.Context, userID, postID uuid.UUID) (*dto.PostResponse, error) {
	if _, err := s.findPost(ctx, postID); err != nil {
		return nil, err
	}

	if err := s.postRepo.ToggleLike(ctx, postID, userID); err != nil {
		return nil, err
	}

	return s.resolve(ctx, postID)
}

func (s *postService) AddComment(ctx context.Context, userID, postID uuid.UUID, text string) (*dto.PostResponse, error) {
	cleaned, err := s.cleanText(text, "comment text")
	if err != nil {
		return nil, err
	}

	if _, err := s.findPost(ctx, postID); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		PostID: postID,
		UserID: userID,
		Text:   cleaned,
	}
	if err := s.postRepo.AddComment(ctx, comment); err != nil {
		return nil, err
	}

	return s.resolve(ctx, postID)
}

func (s *postService) UpdatePost(ctx context.Context, userID, postID uuid.UUID, text string, image *multipart.FileHeader) (*dto.PostResponse, error) {
	cleaned, err := s.cleanText(text, "post text")
	if err != nil {
		return nil, err
	}

	post, err := s.findPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	if post.UserID != userID {
		return nil, fmt.Errorf("not authorized to update this post: %w", apperror.ErrForbidden)
	}

	oldImage := post.ImageURL

	var newImage *string
	if image != nil {
		ref, err := s.storeImage(ctx, image)
		if err != nil {
			return nil, err
		}
		newImage = &ref
		post.ImageURL = newImage
	}

	post.Text = cleaned

	if err := s.postRepo.Update(ctx, post); err != nil {
		// Rejected edit: the freshly stored replacement is never retained.
		s.discardImage(newImage)
		return nil, err
	}

	// Replacement committed; the old file is now unreferenced.
	if newImage != nil {
		s.discardImage(oldImage)
	}

	return s.resolve(ctx, postID)
}

func (s *postService) DeletePost(ctx context.Context, userID, postID uuid.UUID) error {
	post, err := s.findPost(ctx, postID)
	if err != nil {
		return err
	}

	if post.UserID != userID {
		return fmt.Errorf("not authorized to delete this post: %w", apperror.ErrForbidden)
	}

	// Record first, file second. A crash in between leaves a dangling file,
	// never a post pointing at a missing image.
	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}

	s.discardImage(post.ImageURL)
	return nil
}

func (s *postService) findPost(ctx context.Context, postID uuid.UUID) (*model.Post, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("post not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	return post, nil
}

func (s *postService) resolve(ctx context.Context, postID uuid.UUID) (*dto.PostResponse, error) {
	post, err := s.findPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewPostResponse(post)
	return &resp, nil
}

func (s *postService) cleanText(text, what string) (string, error) {
	// Sanitize before validating: markup-only input would pass an empty
	// check on the raw text and then land as an empty string at rest.
	cleaned := strings.TrimSpace(s.sanitizer.Sanitize(strings.TrimSpace(text)))
	if cleaned == "" {
		return "", fmt.Errorf("%s is required: %w", what, apperror.ErrInvalidInput)
	}
	if s.cfg.MaxTextLength > 0 && utf8.RuneCountInString(cleaned) > s.cfg.MaxTextLength {
		return "", fmt.Errorf("%s must be at most %d characters: %w", what, s.cfg.MaxTextLength, apperror.ErrInvalidInput)
	}
	return cleaned, nil
}

func (s *postService) storeImage(ctx context.Context, image *multipart.FileHeader) (string, error) {
	if s.cfg.MaxUploadSize > 0 && image.Size > s.cfg.MaxUploadSize {
		return "", fmt.Errorf("image exceeds %d bytes: %w", s.cfg.MaxUploadSize, apperror.ErrInvalidInput)
	}

	src, err := image.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded image: %w", err)
	}
	defer src.Close()

	return s.fileStorage.UploadImage(ctx, src, s.cfg.UploadFolder, image.Filename)
}

// discardImage is the single cleanup call site used by every failure and
// replacement path. It uses a fresh context so an aborted request still
// cleans up, and only logs: the caller's error is the one that matters.
func (s *postService) discardImage(ref *string) {
	if ref == nil || *ref == "" {
		return
	}
	if err := s.fileStorage.DeleteImage(context.Background(), *ref); err != nil {
		log.Printf("failed to delete stored image %s: %v", *ref, err)
	}
}
