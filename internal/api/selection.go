package api

import (
	"net/http"

	"influencer-dashboard/internal/models"
	"influencer-dashboard/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	sessionHeader     = "X-Session-ID"
	sessionCookie     = "dashboard_session"
	sessionContextKey = "session_id"
	sessionMaxAge     = 30 * 24 * 60 * 60
)

// Filter query parameters. Each may repeat; present but empty selects nothing.
const (
	queryPlatform = "platform"
	queryCampaign = "campaign"
	queryBrand    = "brand"
)

// BlankQueryValue selects the empty filter option in a query string
const BlankQueryValue = "(blank)"

// sessionMiddleware identifies the caller by header or cookie, issuing a
// new session cookie when neither is present
func sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(sessionHeader)
		if id == "" {
			id, _ = c.Cookie(sessionCookie)
		}
		if id == "" {
			id = uuid.New().String()
			c.SetCookie(sessionCookie, id, sessionMaxAge, "/", "", false, true)
		}
		c.Set(sessionContextKey, id)
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	return c.GetString(sessionContextKey)
}

// resolveSelection applies query parameters over the stored session
// selection, which applies over the defaults
func (h *Handler) resolveSelection(c *gin.Context) models.Selection {
	sel := h.storedSelection(c)

	query := c.Request.URL.Query()
	if values, ok := query[queryPlatform]; ok {
		sel.Platforms = queryValues(values)
	}
	if values, ok := query[queryCampaign]; ok {
		sel.Campaigns = queryValues(values)
	}
	if values, ok := query[queryBrand]; ok {
		sel.Brands = queryValues(values)
	}
	return sel
}

// storedSelection falls back to the defaults when the store fails
func (h *Handler) storedSelection(c *gin.Context) models.Selection {
	if h.selections == nil {
		return models.Selection{}
	}
	sel, found, err := h.selections.GetSelection(c.Request.Context(), sessionID(c))
	if err != nil {
		util.SelectionStoreErrorsTotal.WithLabelValues("get").Inc()
		h.logger.Warn("Failed to read selection", zap.String("session_id", sessionID(c)), zap.Error(err))
		return models.Selection{}
	}
	if !found {
		return models.Selection{}
	}
	return sel
}

// queryValues drops blank values, maps BlankQueryValue to the empty option
// and never returns nil
func queryValues(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		switch v {
		case "":
		case BlankQueryValue:
			out = append(out, "")
		default:
			out = append(out, v)
		}
	}
	return out
}

// getSelection returns the session's stored selection
func (h *Handler) getSelection(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"session_id": sessionID(c),
		"selection":  h.storedSelection(c),
	})
}

// putSelection replaces the session's selection. Omitted or null
// dimensions select every value.
func (h *Handler) putSelection(c *gin.Context) {
	var sel models.Selection
	if err := c.ShouldBindJSON(&sel); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}
	if h.selections == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Selection store is not available",
		})
		return
	}

	if err := h.selections.SaveSelection(c.Request.Context(), sessionID(c), sel); err != nil {
		util.SelectionStoreErrorsTotal.WithLabelValues("save").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to save selection",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": sessionID(c),
		"selection":  sel,
	})
}

// deleteSelection resets the session to the defaults
func (h *Handler) deleteSelection(c *gin.Context) {
	if h.selections != nil {
		if err := h.selections.DeleteSelection(c.Request.Context(), sessionID(c)); err != nil {
			util.SelectionStoreErrorsTotal.WithLabelValues("delete").Inc()
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Failed to reset selection",
				"details": err.Error(),
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"session_id": sessionID(c),
		"selection":  models.Selection{},
	})
}
