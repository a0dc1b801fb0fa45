package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visittrack/api/metrics"
	"visittrack/api/models"
	"visittrack/api/utils"
	"visittrack/api/web"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeRecorder struct {
	visits []models.Visit
	err    error
}

func (f *fakeRecorder) InsertVisit(_ context.Context, v *models.Visit) error {
	f.visits = append(f.visits, *v)
	return f.err
}

func TestIsTrackedPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/", true},
		{"/devis", true},
		{"/api/track", false},
		{"/api", false},
		{"/admin", false},
		{"/admin/api/stats", false},
		{"/favicon.ico", false},
		{"/assets/app.js", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsTrackedPath(tt.path), tt.path)
	}
}

func trackingEngine(rec VisitRecorder) (*gin.Engine, *string) {
	var seen string
	r := gin.New()
	r.Use(Tracking(rec, metrics.New(), false))
	r.NoRoute(func(c *gin.Context) {
		seen = c.GetString(utils.SessionContextKey)
		c.Status(http.StatusOK)
	})
	return r, &seen
}

func TestTrackingMintsSessionAndRecordsVisit(t *testing.T) {
	rec := &fakeRecorder{}
	r, seen := trackingEngine(rec)

	req := httptest.NewRequest(http.MethodGet, "/?utm_source=linkedin", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (iPhone; Mobile)")
	req.RemoteAddr = "203.0.113.42:5555"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Len(t, rec.visits, 1)
	v := rec.visits[0]
	assert.Equal(t, "linkedin", v.UTMSource)
	assert.Equal(t, "203.0.113.xxx", v.IP)
	assert.Equal(t, "direct", v.Referrer)
	assert.Equal(t, "/", v.PagePath)
	assert.Equal(t, models.DeviceMobile, v.DeviceType)
	assert.NotEmpty(t, v.SessionID)
	assert.Equal(t, v.SessionID, *seen)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, utils.SessionCookieName, cookies[0].Name)
	assert.Equal(t, v.SessionID, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, utils.SessionCookieMaxAge, cookies[0].MaxAge)
}

func TestTrackingReusesExistingSession(t *testing.T) {
	rec := &fakeRecorder{}
	r, _ := trackingEngine(rec)

	req := httptest.NewRequest(http.MethodGet, "/pricing", nil)
	req.AddCookie(&http.Cookie{Name: utils.SessionCookieName, Value: "known"})
	req.Header.Set("Referer", "https://google.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Len(t, rec.visits, 1)
	assert.Equal(t, "known", rec.visits[0].SessionID)
	assert.Equal(t, "direct", rec.visits[0].UTMSource)
	assert.Equal(t, "unknown", rec.visits[0].UserAgent)
	assert.Equal(t, "https://google.com", rec.visits[0].Referrer)
	assert.Empty(t, w.Result().Cookies())
}

func TestTrackingSkipsUntrackedPaths(t *testing.T) {
	rec := &fakeRecorder{}
	r, _ := trackingEngine(rec)

	for _, path := range []string{"/api/chat", "/admin", "/style.css"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Empty(t, w.Result().Cookies(), path)
	}
	assert.Empty(t, rec.visits)
}

func TestTrackingInsertFailureDoesNotBlockPage(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("database is locked")}
	r, seen := trackingEngine(rec)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, *seen)
}

func TestRateLimitByIP(t *testing.T) {
	r := gin.New()
	r.POST("/api/chat", RateLimitByIP(2, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	send := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, send("198.51.100.1:1000").Code)
	assert.Equal(t, http.StatusOK, send("198.51.100.1:1001").Code)

	limited := send("198.51.100.1:1002")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.JSONEq(t, rateLimitBody, limited.Body.String())

	assert.Equal(t, http.StatusOK, send("198.51.100.2:1000").Code)
}

func adminEngine(secret string) *gin.Engine {
	r := gin.New()
	r.SetHTMLTemplate(web.Templates())
	g := r.Group("/admin", AdminAuth(utils.NewAdminSecret(secret)))
	g.GET("", func(c *gin.Context) { c.String(http.StatusOK, "dashboard") })
	g.GET("/api/stats", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{}) })
	return r
}

func TestAdminAuth(t *testing.T) {
	tests := []struct {
		name     string
		secret   string
		cookie   string
		path     string
		wantCode int
		wantBody string
	}{
		{"api without cookie", "s3cret", "", "/admin/api/stats", http.StatusUnauthorized, `"error":"Unauthorized"`},
		{"api wrong cookie", "s3cret", "nope", "/admin/api/stats", http.StatusUnauthorized, `"error":"Unauthorized"`},
		{"page without cookie", "s3cret", "", "/admin", http.StatusOK, `name="password"`},
		{"page with cookie", "s3cret", "s3cret", "/admin", http.StatusOK, "dashboard"},
		{"api with cookie", "s3cret", "s3cret", "/admin/api/stats", http.StatusOK, "{}"},
		{"unset secret", "", "", "/admin/api/stats", http.StatusUnauthorized, `"error":"Unauthorized"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: utils.AdminCookieName, Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			adminEngine(tt.secret).ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "default-src 'self'")
}
