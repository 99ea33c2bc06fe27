package http

import (
	"net/http"
	"strings"
	"time"

	"moneynerds-backend/internal/common/logger"
	"moneynerds-backend/internal/common/token"
	"moneynerds-backend/internal/features/walletauth/models"
	"moneynerds-backend/internal/features/walletauth/service"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *service.Service
}

func NewHandler(service *service.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.GET("/nonce", h.Nonce)
		auth.POST("/verify", h.Verify)
		auth.GET("/check", h.Check)
		auth.POST("/refresh", h.Refresh)
	}
}

// @Summary Issue login nonce
// @Description Returns a fresh single-use nonce the wallet must sign
// @Tags auth
// @Produce json
// @Success 200 {object} models.NonceResponse
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /auth/nonce [get]
func (h *Handler) Nonce(c *gin.Context) {
	nonce, err := h.service.IssueNonce(c.Request.Context())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to issue nonce")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue nonce"})
		return
	}

	c.JSON(http.StatusOK, models.NonceResponse{Nonce: nonce})
}

// @Summary Verify signed nonce
// @Description Verifies a detached wallet signature over the nonce and issues a session
// @Tags auth
// @Accept json
// @Produce json
// @Param body body models.VerifyRequest true "Signed nonce"
// @Success 200 {object} models.VerifyResponse
// @Failure 400 {object} models.ErrorResponse "Malformed input"
// @Failure 401 {object} models.ErrorResponse "Invalid signature"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /auth/verify [post]
func (h *Handler) Verify(c *gin.Context) {
	var req models.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	resp, err := h.service.Verify(c.Request.Context(), &req)
	if err != nil {
		status, msg := verifyStatus(err)
		if status == http.StatusInternalServerError {
			logger.Error().Err(err).Msg("Verification failed")
		}
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func verifyStatus(err error) (int, string) {
	switch err {
	case service.ErrMissingFields:
		return http.StatusBadRequest, "Missing required fields"
	case service.ErrInvalidFormat:
		return http.StatusBadRequest, "Invalid signature format"
	case service.ErrNonceExpired:
		return http.StatusUnauthorized, "Nonce expired or unknown"
	case service.ErrInvalidSignature:
		return http.StatusUnauthorized, "Invalid signature"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// @Summary Check session token
// @Description Decodes the bearer token's expiry claim without verifying its signature
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 400 {object} models.ErrorResponse "Undecodable token"
// @Failure 401 {object} models.ErrorResponse "Missing or expired token"
// @Router /auth/check [get]
func (h *Handler) Check(c *gin.Context) {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[1] == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token not provided"})
		return
	}

	expiry, err := token.DecodeExpiry(parts[1])
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid token"})
		return
	}

	if !expiry.IsZero() && expiry.Before(time.Now()) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token expired"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Token valid"})
}

// @Summary Refresh session
// @Description Rotates a refresh token into a new access/refresh pair
// @Tags auth
// @Accept json
// @Produce json
// @Param body body models.RefreshRequest true "Refresh token"
// @Success 200 {object} token.Pair
// @Failure 400 {object} models.ErrorResponse "Invalid request body"
// @Failure 401 {object} models.ErrorResponse "Invalid refresh token"
// @Router /auth/refresh [post]
func (h *Handler) Refresh(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	pair, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}

	c.JSON(http.StatusOK, pair)
}
