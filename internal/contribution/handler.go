package contribution

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"coopfund/internal/auth"
	"coopfund/internal/week"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Eligibility reports whether the authenticated member can pay this week,
// without side effects.
func (h *Handler) Eligibility(c *gin.Context) {
	memberID, ok := auth.GetMemberID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	now := time.Now()
	state, err := h.service.CanPay(c.Request.Context(), memberID, now)
	if err != nil && state == nil {
		if errors.Is(err, ErrMemberNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check eligibility"})
		return
	}

	window := week.ContributionWindow(now)
	resp := gin.H{
		"eligible":             err == nil,
		"window_open":          week.IsContributionWindowOpen(now),
		"window_closes":        window.Closes,
		"late_fee_cents":       week.LateFee(now, window.Closes),
		"wallet_balance_cents": state.WalletBalanceCents,
		"due_cents":            state.DueCents(),
		"weeks_paid":           state.WeeksPaid,
		"duration_weeks":       state.DurationWeeks,
	}
	if err != nil {
		resp["reason"] = err.Error()
	}

	c.JSON(http.StatusOK, resp)
}

// Pay executes this week's contribution payment.
func (h *Handler) Pay(c *gin.Context) {
	memberID, ok := auth.GetMemberID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	result, err := h.service.Pay(c.Request.Context(), memberID, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, ErrInsufficientFunds):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, ErrNoActiveTier):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "No active tier assigned"})
		case errors.Is(err, ErrCycleComplete):
			c.JSON(http.StatusConflict, gin.H{"error": "Contribution cycle already complete"})
		case errors.Is(err, ErrAlreadyPaid):
			c.JSON(http.StatusConflict, gin.H{"error": "Contribution already paid this week"})
		case errors.Is(err, ErrMemberNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process contribution"})
		}
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *Handler) ListMine(c *gin.Context) {
	memberID, ok := auth.GetMemberID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	contributions, err := h.service.ListByMember(c.Request.Context(), memberID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list contributions"})
		return
	}

	c.JSON(http.StatusOK, contributions)
}
