package wallet

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"coopfund/internal/auth"
	"coopfund/internal/tier"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetWallet(c *gin.Context) {
	memberID, ok := auth.GetMemberID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	balance, err := h.service.GetBalance(c.Request.Context(), memberID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load wallet"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	txs, err := h.service.GetTransactions(c.Request.Context(), memberID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load transactions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"balance_cents": balance,
		"transactions":  txs,
	})
}

// Fund records an externally settled wallet funding result.
func (h *Handler) Fund(c *gin.Context) {
	memberID, ok := auth.GetMemberID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req FundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.service.Fund(c.Request.Context(), memberID, req.AmountCents, req.Reference)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fund wallet"})
		return
	}

	c.JSON(http.StatusCreated, record)
}

func (h *Handler) Withdraw(c *gin.Context) {
	memberID, ok := auth.GetMemberID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.service.RequestWithdrawal(c.Request.Context(), memberID, req.AmountCents)
	if err != nil {
		if errors.Is(err, ErrInsufficientFunds) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to request withdrawal"})
		return
	}

	c.JSON(http.StatusCreated, record)
}

// AdminAdjust credits or debits any member's wallet. Admin only; debits
// require a reason.
func (h *Handler) AdminAdjust(c *gin.Context) {
	var req AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	direction := DirectionIn
	if req.Direction == "debit" {
		direction = DirectionOut
	}

	actor := c.GetString("member_email")

	record, err := h.service.AdminAdjust(c.Request.Context(), actor, req.MemberID, req.AmountCents, direction, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, ErrReasonRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, ErrInsufficientFunds):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, ErrMemberNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to adjust wallet"})
		}
		return
	}

	c.JSON(http.StatusCreated, record)
}

// Upgrade moves the authenticated member to a new tier, debiting its upgrade
// fee from the wallet.
func (h *Handler) Upgrade(c *gin.Context) {
	memberID, ok := auth.GetMemberID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req UpgradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := c.GetString("member_email")

	target, record, err := h.service.UpgradeTier(c.Request.Context(), actor, memberID, req.TierID)
	if err != nil {
		switch {
		case errors.Is(err, tier.ErrTierNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Tier not found"})
		case errors.Is(err, ErrInsufficientFunds):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade tier"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tier":        target,
		"transaction": record,
	})
}
