package audit

import (
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

func (h *Handler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	if memberParam := c.Query("member_id"); memberParam != "" {
		memberID, err := strconv.Atoi(memberParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member_id"})
			return
		}

		entries, err := h.repo.ListByMember(c.Request.Context(), memberID, limit, offset)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list audit entries"})
			return
		}
		c.JSON(http.StatusOK, entries)
		return
	}

	entries, err := h.repo.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list audit entries"})
		return
	}

	c.JSON(http.StatusOK, entries)
}
