// Package api serves the stored event catalog over HTTP as GeoJSON.
package api

import (
	"context"
	"image"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/crisislens/gdacs-viewer/internal/models"
	"github.com/crisislens/gdacs-viewer/internal/store"
)

const defaultLimit = 50

// FlagFetcher retrieves a country flag image and its aspect ratio.
type FlagFetcher interface {
	Flag(ctx context.Context, code string) (image.Image, float64, error)
}

type Handler struct {
	store store.EventStore
	flags FlagFetcher
}

func NewHandler(st store.EventStore, flags FlagFetcher) *Handler {
	return &Handler{store: st, flags: flags}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/api/events", h.getEvents)
	if h.flags != nil {
		r.GET("/api/flags/:code", h.getFlag)
	}
	r.GET("/health", h.health)
}

// getEvents lists stored events filtered by the same three axes the CLI
// offers: category code, alert level and a recency window in days.
func (h *Handler) getEvents(c *gin.Context) {
	filter := store.Filter{
		Limit: defaultLimit,
	}

	if code := c.Query("category"); code != "" {
		category, err := models.ParseCategory(code)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		filter.Category = &category
	}
	if alert := c.Query("alert"); alert != "" {
		filter.Alert = &alert
	}
	if d := c.Query("days"); d != "" {
		days, err := strconv.Atoi(d)
		if err != nil || days < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a non-negative integer"})
			return
		}
		now := time.Now().UTC()
		since := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).
			AddDate(0, 0, -days)
		filter.Since = &since
	}
	if l := c.Query("limit"); l != "" {
		if lim, err := strconv.Atoi(l); err == nil && lim > 0 && lim <= 500 {
			filter.Limit = lim
		}
	}

	events, err := h.store.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to fetch events",
		})
		return
	}

	fc := toGeoJSON(events)
	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, fc)
}

// getFlag reports flag image dimensions so map clients can size their
// icons before loading the image from the CDN directly.
func (h *Handler) getFlag(c *gin.Context) {
	code := strings.ToLower(c.Param("code"))
	if len(code) != 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code must be a 2-letter country code"})
		return
	}

	img, ratio, err := h.flags.Flag(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "flag lookup failed"})
		return
	}

	bounds := img.Bounds()
	c.JSON(http.StatusOK, gin.H{
		"code":   code,
		"width":  bounds.Dx(),
		"height": bounds.Dy(),
		"ratio":  ratio,
	})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
