package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/prodwatch/app/prod"
	"github.com/lysyi3m/prodwatch/app/tasks"
)

func NewHandler(snapshots SnapshotReader, status *tasks.StatusBoard, link func(id string) string, sinks []string, version string) *Handler {
	return &Handler{
		snapshots: snapshots,
		status:    status,
		link:      link,
		sinks:     sinks,
		version:   version,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	stats := h.status.Stats()

	c.JSON(http.StatusOK, gin.H{
		"timestamp":  time.Now().In(time.Local).Format(time.RFC3339),
		"prods":      len(h.status.List()),
		"cycles":     stats.Cycles,
		"running":    stats.Running,
		"last_cycle": stats.LastEndedAt,
	})
}

func (h *Handler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version": h.version,
		"sinks":   h.sinks,
		"cycles":  h.status.Stats(),
	})
}

func (h *Handler) APIListProds(c *gin.Context) {
	statuses := h.status.List()

	prods := make([]gin.H, 0, len(statuses))
	for _, status := range statuses {
		info := gin.H{
			"id":     status.ID,
			"link":   h.link(status.ID),
			"status": status,
		}

		snapshot, err := h.snapshots.Load(status.ID)
		if err != nil {
			slog.Warn("Failed to load snapshot", "prod", status.ID, "error", err)
		} else if snapshot != nil {
			info["name"] = snapshot.Prod.Name
			info["votes"] = votesJSON(snapshot.Prod)
		}

		prods = append(prods, info)
	}

	c.JSON(http.StatusOK, gin.H{
		"prods": prods,
		"total": len(prods),
	})
}

func (h *Handler) APIGetProd(c *gin.Context) {
	id := c.Param("id")
	if n, err := strconv.ParseUint(id, 10, 63); err != nil || n == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid prod id"})
		return
	}

	status, ok := h.status.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Prod is not tracked"})
		return
	}

	snapshot, err := h.snapshots.Load(id)
	if err != nil {
		slog.Error("Snapshot store error", "operation", "load", "prod", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load snapshot"})
		return
	}

	details := gin.H{
		"id":     id,
		"link":   h.link(id),
		"status": status,
	}
	if snapshot != nil {
		details["name"] = snapshot.Prod.Name
		details["votes"] = votesJSON(snapshot.Prod)
		details["snapshot"] = snapshot.Prod
	}

	c.JSON(http.StatusOK, details)
}

func votesJSON(p prod.Prod) gin.H {
	return gin.H{
		"up":    int(p.VoteUp),
		"pig":   int(p.VotePig),
		"down":  int(p.VoteDown),
		"cdc":   int(p.CDC),
		"total": p.Votes().Total(),
	}
}
