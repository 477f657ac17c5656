package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/promiseee/pizza-delivery-api/internal/config"
	"github.com/promiseee/pizza-delivery-api/internal/db"
	"github.com/promiseee/pizza-delivery-api/internal/httpserver"
	"github.com/promiseee/pizza-delivery-api/internal/logging"
	authmw "github.com/promiseee/pizza-delivery-api/internal/middleware/auth"
	loggingmw "github.com/promiseee/pizza-delivery-api/internal/middleware/logging"
	"github.com/promiseee/pizza-delivery-api/internal/mykafka"
	"github.com/promiseee/pizza-delivery-api/internal/repo"
	"github.com/promiseee/pizza-delivery-api/internal/service"
	"github.com/promiseee/pizza-delivery-api/internal/tokens"
)

func main() {
	cfg := config.Load()
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	database, err := db.Open(initCtx, cfg.DSN())
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	producer := mykafka.NewProducer(cfg.KafkaBrokers)

	gormRepo := &repo.GormRepo{DB: database}

	policy := &service.AuthPolicy{
		Repo:               gormRepo,
		SuperAdminUsername: cfg.SuperAdminUsername,
	}

	tokenSvc := &tokens.Service{
		Secret:     cfg.JWTSecret,
		Blocklist:  gormRepo,
		AdminClaim: policy.ComputeAdminClaim,
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler: &httpserver.AuthHTTP{
			Svc: &service.AuthService{Repo: gormRepo, Tokens: tokenSvc, Producer: producer},
		},
		OrderHandler: &httpserver.OrderHTTP{
			Svc: &service.OrderService{Repo: gormRepo, Policy: policy, Producer: producer},
		},
		UserHandler: &httpserver.UserHTTP{
			Users:  &service.UserService{Repo: gormRepo, Policy: policy},
			Orders: &service.OrderService{Repo: gormRepo, Policy: policy, Producer: producer},
		},
		TokenMW: authmw.New(tokenSvc),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()
	logger.Info("server started", "port", cfg.ServerPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := database.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	logger.Info("shutdown complete")
}
