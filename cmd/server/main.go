// Package main runs the classroom server: HTTP lecture/room API, WebSocket
// RTC relay, and graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/classroomlive/server/config"
	"github.com/classroomlive/server/internal/auth"
	"github.com/classroomlive/server/internal/events"
	"github.com/classroomlive/server/internal/gateway"
	"github.com/classroomlive/server/internal/httpapi"
	"github.com/classroomlive/server/internal/middleware"
	"github.com/classroomlive/server/internal/models"
	"github.com/classroomlive/server/internal/ratelimit"
	"github.com/classroomlive/server/internal/rooms"
	"github.com/classroomlive/server/internal/rtc"
	"github.com/classroomlive/server/internal/store"
	"github.com/classroomlive/server/pkg/response"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	st, err := store.New(cfg.Store.FilePath, logger)
	if err != nil {
		logger.Fatal("store", zap.Error(err))
	}

	rtcCore := rtc.New(logger)
	eventEngine := events.New(st, logger)
	roomRegistry := rooms.New(st, rtcCore, eventEngine, logger)
	eventEngine.Bind(roomRegistry, rtcCore)

	gw := gateway.New(eventEngine, roomRegistry)
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	limiter := ratelimit.New(cfg.Redis, cfg.RateLimit, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	router.GET("/ws", rtc.ServeWs(rtcCore, logger, limiter))

	h := httpapi.NewHandler(gw)
	api := router.Group("")
	api.Use(middleware.JWT(jwtService))
	{
		api.POST("/events", h.CreateEvent)
		api.GET("/events", h.ListEvents)
		api.GET("/events/:id", h.GetEvent)
		api.PATCH("/events/:id", h.UpdateEvent)
		api.PATCH("/events/:id/status", h.UpdateEventStatus)
		api.DELETE("/events/:id", h.CancelEvent)

		api.POST("/rooms", middleware.RequireRole(models.RoleAdmin), h.CreateRoom)
		api.GET("/rooms", h.ListRooms)
		api.GET("/rooms/:id", h.GetRoom)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	rtcCore.Shutdown()
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := cfg.Build()
	return logger
}
