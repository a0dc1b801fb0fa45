package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"visittrack/api/chat"
	"visittrack/api/config"
	"visittrack/api/database"
	"visittrack/api/logger"
	"visittrack/api/metrics"
	"visittrack/api/routes"
	"visittrack/api/store"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Log)

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	// --- Relational store (visits, chat logs) ---
	dbClient, err := database.Open(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize database")
	}
	defer dbClient.Close()

	// --- Optional ClickHouse mirror ---
	var mirror store.VisitMirror
	if cfg.ClickHouse.Enabled() {
		chClient, err := database.NewClickHouseDB(cfg.ClickHouse)
		if err != nil {
			logrus.WithError(err).Warn("ClickHouse mirror disabled")
		} else {
			defer chClient.Close()
			mirror = store.NewClickHouseMirror(chClient)
		}
	}

	visitStore := store.NewVisitStore(dbClient, mirror)
	chatStore := store.NewChatStore(dbClient)

	chatClient := chat.NewClient(cfg.Chat)
	if !chatClient.Configured() {
		logrus.Warn("ANTHROPIC_API_KEY not set, chat answers with the fallback message")
	}
	if cfg.AdminPassword == "" {
		logrus.Warn("ADMIN_PASSWORD not set, admin dashboard is locked")
	}

	r := routes.New(routes.Deps{
		Config:    cfg,
		DB:        dbClient,
		Visits:    visitStore,
		Chats:     chatStore,
		Completer: chatClient,
		Metrics:   metrics.New(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.WithField("port", cfg.Port).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("Server forced to shutdown")
	}

	logrus.Info("Server exiting")
}
