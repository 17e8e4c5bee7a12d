package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/flavor-watch/app/database"
	"github.com/lysyi3m/flavor-watch/app/tasks"
)

const defaultFeedLimit = 50

// NewHandler wires the status endpoints. history may be nil, in which case
// /stats reports no runs and /feed is unavailable.
func NewHandler(checker CheckerInterface, history database.RunRepository, generator GeneratorInterface,
	sourceURL, version string) *Handler {
	return &Handler{
		checker:   checker,
		history:   history,
		generator: generator,
		sourceURL: sourceURL,
		version:   version,
		feedLimit: defaultFeedLimit,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"timestamp":       time.Now().In(time.Local).Format(time.RFC3339),
		"history_enabled": h.history != nil,
	})
}

func (h *Handler) GetStats(c *gin.Context) {
	stats := gin.H{
		"source":  h.sourceURL,
		"version": h.version,
		"runs":    0,
	}

	if h.history == nil {
		c.JSON(http.StatusOK, stats)
		return
	}

	ctx := c.Request.Context()

	runCount, err := h.history.GetRunCount(ctx)
	if err != nil {
		slog.Error("Database error", "operation", "get_run_count", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	stats["runs"] = runCount

	lastRun, err := h.history.GetLastRun(ctx)
	if err != nil {
		slog.Error("Database error", "operation", "get_last_run", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if lastRun != nil {
		stats["last_run"] = gin.H{
			"id":          lastRun.ID,
			"started_at":  lastRun.StartedAt.In(time.Local).Format(time.RFC3339),
			"finished_at": lastRun.FinishedAt.In(time.Local).Format(time.RFC3339),
			"topic":       lastRun.Topic,
			"flavors":     lastRun.Flavors,
			"matches":     lastRun.Matches,
			"notified":    lastRun.Notified,
		}
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) GetFeed(c *gin.Context) {
	if h.history == nil {
		c.Status(http.StatusNotFound)
		return
	}

	records, err := h.history.GetRecentMatches(c.Request.Context(), h.feedLimit)
	if err != nil {
		slog.Error("Database error", "operation", "get_recent_matches", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	rss, err := h.generator.Run(records)
	if err != nil {
		slog.Error("RSS generation error", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.Header("X-Feed-Items", strconv.Itoa(len(records)))

	c.String(http.StatusOK, rss)
}

func (h *Handler) APICheck(c *gin.Context) {
	result, err := h.checker.Run(c.Request.Context())
	if errors.Is(err, tasks.ErrCheckInProgress) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	if err != nil {
		slog.Error("Flavor check failed", "error", err)
		body := gin.H{"error": err.Error()}
		if result != nil {
			body["result"] = result
		}
		c.JSON(http.StatusBadGateway, body)
		return
	}

	c.JSON(http.StatusOK, result)
}
