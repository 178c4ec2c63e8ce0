package handler

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/linkfeed/backend/internal/dto"
	"github.com/linkfeed/backend/internal/service"
	"github.com/linkfeed/backend/pkg/response"
	"github.com/linkfeed/backend/pkg/validator"
)

type PostHandler struct {
	service service.PostService
}

func NewPostHandler(service service.PostService) *PostHandler {
	return &PostHandler{service: service}
}

func (h *PostHandler) CreatePost(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	text, image, ok := h.bindPostInput(c)
	if !ok {
		return
	}

	resp, err := h.service.CreatePost(c.Request.Context(), userID, text, image)
	if err != nil {
		var rateLimitErr *service.RateLimitError
		if errors.As(err, &rateLimitErr) {
			c.Header("Retry-After", fmt.Sprintf("%.0f", rateLimitErr.RetryAfter.Seconds()))
		}
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *PostHandler) ListPosts(c *gin.Context) {
	posts, err := h.service.ListPosts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *PostHandler) ToggleLike(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	postID, ok := h.postID(c)
	if !ok {
		return
	}

	resp, err := h.service.ToggleLike(c.Request.Context(), userID, postID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *PostHandler) AddComment(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	postID, ok := h.postID(c)
	if !ok {
		return
	}

	var req dto.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": validator.FormatValidationError(err)})
		return
	}

	resp, err := h.service.AddComment(c.Request.Context(), userID, postID, req.Text)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *PostHandler) UpdatePost(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	postID, ok := h.postID(c)
	if !ok {
		return
	}

	text, image, ok := h.bindPostInput(c)
	if !ok {
		return
	}

	resp, err := h.service.UpdatePost(c.Request.Context(), userID, postID, text, image)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *PostHandler) DeletePost(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	postID, ok := h.postID(c)
	if !ok {
		return
	}

	if err := h.service.DeletePost(c.Request.Context(), userID, postID); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "post deleted successfully"})
}

func (h *PostHandler) postID(c *gin.Context) (uuid.UUID, bool) {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid post id"})
		return uuid.Nil, false
	}
	return postID, true
}

// bindPostInput accepts multipart form data (text field plus optional image
// file) or a plain JSON body when no image is sent, matching what the SPA
// submits in each case. Responds with 400 itself when binding fails.
func (h *PostHandler) bindPostInput(c *gin.Context) (string, *multipart.FileHeader, bool) {
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		var req dto.PostInput
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": validator.FormatValidationError(err)})
			return "", nil, false
		}

		image, err := c.FormFile("image")
		if err != nil {
			if !errors.Is(err, http.ErrMissingFile) {
				c.JSON(http.StatusBadRequest, gin.H{"message": "invalid image upload"})
				return "", nil, false
			}
			image = nil
		}
		return req.Text, image, true
	}

	var req dto.PostInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": validator.FormatValidationError(err)})
		return "", nil, false
	}
	return req.Text, nil, true
}
