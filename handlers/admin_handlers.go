package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"visittrack/api/store"
	"visittrack/api/utils"
	"visittrack/api/web"
)

const (
	defaultVisitLimit = 50
	defaultChatLimit  = 100
)

type AdminHandlers struct {
	VisitStore   *store.VisitStore
	ChatStore    *store.ChatStore
	Secret       *utils.AdminSecret
	SecureCookie bool
}

func NewAdminHandlers(visits *store.VisitStore, chats *store.ChatStore, secret *utils.AdminSecret, secureCookie bool) *AdminHandlers {
	return &AdminHandlers{
		VisitStore:   visits,
		ChatStore:    chats,
		Secret:       secret,
		SecureCookie: secureCookie,
	}
}

// Login checks the submitted password and stores it in the admin cookie.
func (h *AdminHandlers) Login(c *gin.Context) {
	password := c.PostForm("password")
	if !h.Secret.Matches(password) {
		logrus.WithField("client_ip", c.ClientIP()).Warn("Admin login failed")
		c.HTML(http.StatusOK, web.LoginTemplate, gin.H{"Error": "Mot de passe incorrect"})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(utils.AdminCookieName, password, utils.AdminCookieMaxAge, "/", "", h.SecureCookie, true)

	logrus.WithField("client_ip", c.ClientIP()).Info("Admin logged in")
	c.Redirect(http.StatusFound, "/admin")
}

func (h *AdminHandlers) Logout(c *gin.Context) {
	c.SetCookie(utils.AdminCookieName, "", -1, "/", "", h.SecureCookie, true)
	c.Redirect(http.StatusFound, "/admin")
}

func (h *AdminHandlers) Dashboard(c *gin.Context) {
	c.HTML(http.StatusOK, web.DashboardTemplate, nil)
}

// ListVisits serves GET /admin/api/visits?limit=&utm=.
func (h *AdminHandlers) ListVisits(c *gin.Context) {
	limit := utils.ParseLimit(c.Query("limit"), defaultVisitLimit)
	utm := c.Query("utm")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	visits, err := h.VisitStore.ListVisits(ctx, limit, utm)
	if err != nil {
		logrus.WithError(err).Error("Error listing visits")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve visits"})
		return
	}

	c.JSON(http.StatusOK, visits)
}

// Stats serves GET /admin/api/stats.
func (h *AdminHandlers) Stats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	stats, err := h.VisitStore.GetStats(ctx)
	if err != nil {
		logrus.WithError(err).Error("Error computing visit statistics")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve statistics"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ListChats serves GET /admin/api/chats?limit=&session=.
func (h *AdminHandlers) ListChats(c *gin.Context) {
	limit := utils.ParseLimit(c.Query("limit"), defaultChatLimit)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	entries, err := h.ChatStore.ListChatLogs(ctx, limit, c.Query("session"))
	if err != nil {
		logrus.WithError(err).Error("Error listing chat logs")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve chat logs"})
		return
	}

	c.JSON(http.StatusOK, entries)
}
