package http

import (
	"errors"
	"net/http"
	"strconv"

	"moneynerds-backend/internal/common/logger"
	"moneynerds-backend/internal/common/middleware"
	"moneynerds-backend/internal/common/token"
	"moneynerds-backend/internal/features/comment/models"
	"moneynerds-backend/internal/features/comment/service"
	postrepo "moneynerds-backend/internal/features/post/repository"

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
	comments := router.Group("/posts/:id/comments")
	{
		comments.GET("", h.List)
		comments.POST("", middleware.RequireAuth(h.issuer), h.Create)
	}
}

// @Summary List comments
// @Tags comments
// @Produce json
// @Param id path int true "Post id"
// @Success 200 {array} models.Comment
// @Failure 500 {object} map[string]string
// @Router /posts/{id}/comments [get]
func (h *Handler) List(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
		return
	}

	comments, err := h.service.ListByPost(c.Request.Context(), postID)
	if err != nil {
		logger.Error().Err(err).Int64("post_id", postID).Msg("Failed to list comments")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list comments"})
		return
	}

	c.JSON(http.StatusOK, comments)
}

// @Summary Create comment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerToken
// @Param id path int true "Post id"
// @Param body body models.CreateCommentRequest true "Comment content"
// @Success 201 {object} models.Comment
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /posts/{id}/comments [post]
func (h *Handler) Create(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
		return
	}

	var req models.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	comment, err := h.service.Create(c.Request.Context(), postID, middleware.Wallet(c), &req)
	if err != nil {
		switch {
		case errors.Is(err, postrepo.ErrPostNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		case errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error().Err(err).Int64("post_id", postID).Msg("Failed to create comment")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		}
		return
	}

	c.JSON(http.StatusCreated, comment)
}
