package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/genmesh/meshstore/internal/auth"
	"github.com/genmesh/meshstore/internal/chat"
	"github.com/genmesh/meshstore/internal/config"
	"github.com/genmesh/meshstore/internal/handlers"
	"github.com/genmesh/meshstore/internal/keyval"
	"github.com/genmesh/meshstore/internal/logging"
	"github.com/genmesh/meshstore/internal/store"
	httpserver "github.com/genmesh/meshstore/internal/transport/http"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)
	ctx := logging.IntoContext(context.Background(), logger)

	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		log.Fatalf("data dir: %v", err)
	}

	kv, err := keyval.Open(filepath.Join(cfg.DataDir, "local-slots.json"))
	if err != nil {
		log.Fatalf("slot file: %v", err)
	}

	// A failed store init is logged and the app keeps running: reads degrade
	// to empty, writes are dropped.
	st, err := store.Open(kv, cfg.DataDir, logger)
	if err != nil {
		logger.Error("store initialization abandoned", "error", err)
		st = nil
	}

	authSvc := auth.NewService(st, kv, cfg.SessionSecret, logger)
	authSvc.Restore(ctx)

	chatSvc := chat.NewService(kv, logger)

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())

	deps := httpserver.Deps{
		Store:          st,
		Auth:           authSvc,
		AuthHandler:    &handlers.AuthHandler{Auth: authSvc},
		ProductHandler: &handlers.ProductHandler{Store: st, BaseURL: cfg.BaseURL},
		OrderHandler:   &handlers.OrderHandler{Store: st, Auth: authSvc},
		ChatHandler:    &handlers.ChatHandler{Chat: chatSvc, Auth: authSvc},
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()
	logger.Info("storefront listening", "addr", srv.Addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if st != nil {
		if err := st.Persist(); err != nil {
			logger.Error("final persist error", "error", err)
		}
		if err := st.Close(); err != nil {
			logger.Error("store close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
