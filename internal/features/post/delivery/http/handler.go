package http

import (
	"errors"
	"net/http"
	"strconv"

	"moneynerds-backend/internal/common/logger"
	"moneynerds-backend/internal/common/middleware"
	"moneynerds-backend/internal/common/token"
	"moneynerds-backend/internal/features/post/models"
	"moneynerds-backend/internal/features/post/repository"
	"moneynerds-backend/internal/features/post/service"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *service.Service
	issuer  *token.Issuer
}

func NewHandler(service *service.Service, issuer *token.Issuer) *Handler {
	return &Handler{service: service, issuer: issuer}
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	posts := router.Group("/posts")
	{
		posts.GET("", h.List)
		posts.GET("/:id", h.Get)
		posts.POST("", middleware.RequireAuth(h.issuer), h.Create)
		posts.POST("/:id/like", middleware.RequireAuth(h.issuer), h.Like)
	}
}

// @Summary List posts
// @Description Returns one page of posts, newest first
// @Tags posts
// @Produce json
// @Param page query int false "Page number" default(1)
// @Success 200 {object} models.ListResponse
// @Failure 500 {object} map[string]string
// @Router /posts [get]
func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	resp, err := h.service.List(c.Request.Context(), page)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list posts")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list posts"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get post
// @Tags posts
// @Produce json
// @Param id path int true "Post id"
// @Success 200 {object} models.Post
// @Failure 404 {object} map[string]string
// @Router /posts/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
		return
	}

	post, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		logger.Error().Err(err).Int64("post_id", id).Msg("Failed to get post")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get post"})
		return
	}

	c.JSON(http.StatusOK, post)
}

// @Summary Create post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerToken
// @Param body body models.CreatePostRequest true "Post content"
// @Success 201 {object} models.Post
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /posts [post]
func (h *Handler) Create(c *gin.Context) {
	var req models.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	post, err := h.service.Create(c.Request.Context(), middleware.Wallet(c), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error().Err(err).Msg("Failed to create post")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	c.JSON(http.StatusCreated, post)
}

// @Summary Like post
// @Description Adds the caller's wallet to the like set, once per wallet
// @Tags posts
// @Produce json
// @Security BearerToken
// @Param id path int true "Post id"
// @Success 200 {object} models.LikeResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /posts/{id}/like [post]
func (h *Handler) Like(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
		return
	}

	likes, err := h.service.Like(c.Request.Context(), id, middleware.Wallet(c))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrPostNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		case errors.Is(err, repository.ErrAlreadyLiked):
			c.JSON(http.StatusConflict, gin.H{"error": "Already liked"})
		default:
			logger.Error().Err(err).Int64("post_id", id).Msg("Failed to like post")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to like post"})
		}
		return
	}

	c.JSON(http.StatusOK, models.LikeResponse{Likes: likes})
}
