package http

import (
	"errors"
	"net/http"
	"strconv"

	"moneynerds-backend/internal/common/logger"
	"moneynerds-backend/internal/common/middleware"
	"moneynerds-backend/internal/common/token"
	"moneynerds-backend/internal/features/donation/models"
	"moneynerds-backend/internal/features/donation/service"
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
	router.POST("/posts/:id/donations", middleware.RequireAuth(h.issuer), h.Donate)
}

// @Summary Record donation
// @Description Credits a confirmed on-chain transfer to the post's donation ledger
// @Tags donations
// @Accept json
// @Produce json
// @Security BearerToken
// @Param id path int true "Post id"
// @Param body body models.DonateRequest true "Transfer signature and amount"
// @Success 200 {object} models.Receipt
// @Failure 400 {object} map[string]string
// @Failure 402 {object} map[string]string "Transfer not confirmed"
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "Signature already credited"
// @Router /posts/{id}/donations [post]
func (h *Handler) Donate(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
		return
	}

	var req models.DonateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	receipt, err := h.service.Donate(c.Request.Context(), postID, middleware.Wallet(c), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Enter a valid amount"})
		case errors.Is(err, service.ErrDonorMismatch):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Transaction fee payer does not match wallet"})
		case errors.Is(err, service.ErrNotConfirmed):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "Transfer not confirmed on chain"})
		case errors.Is(err, postrepo.ErrPostNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		case errors.Is(err, postrepo.ErrDuplicateDonation):
			c.JSON(http.StatusConflict, gin.H{"error": "Donation already recorded"})
		default:
			logger.Error().Err(err).Int64("post_id", postID).Msg("Failed to record donation")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record donation"})
		}
		return
	}

	c.JSON(http.StatusOK, receipt)
}
