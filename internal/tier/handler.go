package tier

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

type CreateTierRequest struct {
	Name                string `json:"name" binding:"required"`
	WeeklyAmountCents   int64  `json:"weekly_amount_cents" binding:"required,gt=0"`
	MaintenanceFeeCents int64  `json:"maintenance_fee_cents" binding:"gte=0"`
	UpgradeFeeCents     int64  `json:"upgrade_fee_cents" binding:"gte=0"`
	DurationWeeks       int    `json:"duration_weeks"`
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.DurationWeeks <= 0 {
		req.DurationWeeks = 45
	}

	t, err := h.repo.Create(c.Request.Context(), req.Name, req.WeeklyAmountCents, req.MaintenanceFeeCents, req.UpgradeFeeCents, req.DurationWeeks)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create tier"})
		return
	}

	c.JSON(http.StatusCreated, t)
}

func (h *Handler) List(c *gin.Context) {
	tiers, err := h.repo.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list tiers"})
		return
	}

	c.JSON(http.StatusOK, tiers)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("tierID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tier ID"})
		return
	}

	t, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrTierNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Tier not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load tier"})
		return
	}

	c.JSON(http.StatusOK, t)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("tierID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tier ID"})
		return
	}

	var req CreateTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.DurationWeeks <= 0 {
		req.DurationWeeks = 45
	}

	t := &Tier{
		ID:                  id,
		Name:                req.Name,
		WeeklyAmountCents:   req.WeeklyAmountCents,
		MaintenanceFeeCents: req.MaintenanceFeeCents,
		UpgradeFeeCents:     req.UpgradeFeeCents,
		DurationWeeks:       req.DurationWeeks,
	}

	if err := h.repo.Update(c.Request.Context(), t); err != nil {
		if errors.Is(err, ErrTierNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Tier not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update tier"})
		return
	}

	c.JSON(http.StatusOK, t)
}
