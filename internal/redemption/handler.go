package redemption

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"coopfund/internal/auth"
	"coopfund/internal/member"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Redeem reserves one unit of an inventory item for the authenticated member.
func (h *Handler) Redeem(c *gin.Context) {
	memberID, ok := auth.GetMemberID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	red, err := h.service.Redeem(c.Request.Context(), memberID, req.ItemID, req.DeliveryAddress, req.Pin)
	if err != nil {
		switch {
		case errors.Is(err, ErrItemUnavailable):
			c.JSON(http.StatusConflict, gin.H{"error": "Item is out of stock"})
		case errors.Is(err, ErrPinNotSet):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Transaction pin is not configured"})
		case errors.Is(err, ErrInvalidPin):
			c.JSON(http.StatusForbidden, gin.H{"error": "Invalid transaction pin"})
		case errors.Is(err, ErrNoTier):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "No active tier assigned"})
		case errors.Is(err, member.ErrMemberNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create redemption"})
		}
		return
	}

	c.JSON(http.StatusCreated, red)
}

func (h *Handler) ListMine(c *gin.Context) {
	memberID, ok := auth.GetMemberID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	redemptions, err := h.service.ListByMember(c.Request.Context(), memberID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list redemptions"})
		return
	}

	c.JSON(http.StatusOK, redemptions)
}

func (h *Handler) ListAll(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	redemptions, err := h.service.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list redemptions"})
		return
	}

	c.JSON(http.StatusOK, redemptions)
}

func (h *Handler) Approve(c *gin.Context) {
	h.moveStatus(c, h.service.Approve)
}

func (h *Handler) Deliver(c *gin.Context) {
	h.moveStatus(c, h.service.Deliver)
}

func (h *Handler) moveStatus(c *gin.Context, move func(ctx context.Context, actor string, id int) (*Redemption, error)) {
	id, err := strconv.Atoi(c.Param("redemptionID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid redemption ID"})
		return
	}

	actor := c.GetString("member_email")

	red, err := move(c.Request.Context(), actor, id)
	if err != nil {
		if errors.Is(err, ErrInvalidStatusChange) {
			c.JSON(http.StatusConflict, gin.H{"error": "Redemption is not in the expected status"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update redemption"})
		return
	}

	c.JSON(http.StatusOK, red)
}
