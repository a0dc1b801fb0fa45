package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/httprate"
)

const rateLimitBody = `{"error":"Too many requests, please try again later."}`

// RateLimitByIP caps each client address at requests per sliding window.
func RateLimitByIP(requests int, window time.Duration) gin.HandlerFunc {
	limiter := httprate.NewRateLimiter(requests, window,
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(rateLimitBody))
		}),
	)

	return func(c *gin.Context) {
		if limiter.RespondOnLimit(c.Writer, c.Request, c.ClientIP()) {
			c.Abort()
			return
		}
		c.Next()
	}
}
