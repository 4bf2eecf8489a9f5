package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/arxiv-favorites/app/favorites"
	"github.com/lysyi3m/arxiv-favorites/app/stats"
)

func NewHandler(appender AppenderInterface, projector ProjectorInterface) *Handler {
	return &Handler{
		appender:  appender,
		projector: projector,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) GetFavorites(c *gin.Context) {
	started := time.Now()

	papers, err := h.projector.Project()
	if err != nil {
		slog.Error("Projection failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load favorites"})
		return
	}

	stats.ObserveProjection(time.Since(started), len(papers))

	c.JSON(http.StatusOK, FavoritesResponse{
		Favorites: papers,
		Count:     len(papers),
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) PostFavorite(c *gin.Context) {
	var req FavoriteEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.appender.Append(req.Action, req.Paper); err != nil {
		switch {
		case errors.Is(err, favorites.ErrMissingKey):
			c.JSON(http.StatusBadRequest, gin.H{"error": "paper.id or paper.url required"})
		case errors.Is(err, favorites.ErrUnknownAction):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Action must be 'add' or 'remove'"})
		default:
			slog.Error("Append failed", "action", req.Action, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record favorite event"})
		}
		return
	}

	stats.CountAppend(req.Action)

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
