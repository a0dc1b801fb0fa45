package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"visittrack/api/utils"
	"visittrack/api/web"
)

// AdminAuth lets a request through when its admin cookie holds the shared
// secret. Otherwise JSON endpoints get a 401 and pages get the login form.
func AdminAuth(secret *utils.AdminSecret) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, _ := c.Cookie(utils.AdminCookieName)
		if secret.Matches(cookie) {
			c.Next()
			return
		}

		if strings.HasPrefix(c.Request.URL.Path, "/admin/api") {
			logrus.WithField("path", c.Request.URL.Path).Debug("AdminAuth: rejected API request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.HTML(http.StatusOK, web.LoginTemplate, gin.H{"Error": ""})
		c.Abort()
	}
}
