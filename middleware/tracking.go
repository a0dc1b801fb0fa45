package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"visittrack/api/metrics"
	"visittrack/api/models"
	"visittrack/api/utils"
)

// VisitRecorder persists one visit row.
type VisitRecorder interface {
	InsertVisit(ctx context.Context, visit *models.Visit) error
}

// IsTrackedPath reports whether a request path counts as a page view. API and
// admin routes are excluded, as is anything with a dot (static assets).
func IsTrackedPath(path string) bool {
	return !strings.HasPrefix(path, "/api") &&
		!strings.HasPrefix(path, "/admin") &&
		!strings.Contains(path, ".")
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// Tracking records one visit per page request and makes sure the browser
// carries a session cookie. A failed insert is logged and never blocks the page.
func Tracking(visits VisitRecorder, m *metrics.Metrics, secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if !IsTrackedPath(path) {
			c.Next()
			return
		}

		sessionID, err := c.Cookie(utils.SessionCookieName)
		if err != nil || sessionID == "" {
			sessionID = utils.GenerateSessionID()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(utils.SessionCookieName, sessionID, utils.SessionCookieMaxAge, "/", "", secureCookie, true)
		}

		userAgent := c.GetHeader("User-Agent")
		referrer := c.GetHeader("Referer")
		if referrer == "" {
			referrer = c.GetHeader("Referrer")
		}

		visit := &models.Visit{
			UTMSource:  valueOr(c.Query("utm_source"), "direct"),
			IP:         utils.AnonymizeIP(c.ClientIP()),
			UserAgent:  valueOr(userAgent, "unknown"),
			Referrer:   valueOr(referrer, "direct"),
			PagePath:   path,
			DeviceType: utils.DeviceType(userAgent),
			SessionID:  sessionID,
		}

		if err := visits.InsertVisit(c.Request.Context(), visit); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"path":       path,
				"session_id": sessionID,
			}).Error("Tracking error")
			m.VisitsRecorded.WithLabelValues(metrics.OutcomeError).Inc()
		} else {
			m.VisitsRecorded.WithLabelValues(metrics.OutcomeOK).Inc()
		}

		c.Set(utils.SessionContextKey, sessionID)
		c.Next()
	}
}
