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

	"go-storefront/apps/gateway/middleware"
	"go-storefront/apps/gateway/router"
	"go-storefront/pkg/broker"
	"go-storefront/pkg/cache"
	"go-storefront/pkg/config"
	"go-storefront/pkg/database"
	"go-storefront/pkg/discovery"
	"go-storefront/pkg/jwt"
	"go-storefront/pkg/logger"
	"go-storefront/pkg/media"
	"go-storefront/pkg/password"
	"go-storefront/pkg/tracer"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	c, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zl, err := logger.New(c.Logger, c.IsDevelopment())
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zl.Sync()
	zl = zl.With(zap.String("service", c.Service.Name))

	if !c.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	password.SetCost(c.Auth.BcryptCost)

	ctx := context.Background()
	tp, err := tracer.InitTracer(ctx, c.Service.Name, c.Service.Env, c.Tracer.Endpoint)
	if err != nil {
		zl.Fatal("tracer init failed", zap.Error(err))
	}
	if tp != nil {
		defer tp.Shutdown(ctx)
	}

	db, err := database.Open(c.Database, c.Mysql, zl, c.IsDevelopment())
	if err != nil {
		zl.Fatal("database connection failed", zap.Error(err))
	}
	if c.Database.AutoMigrate {
		if err := router.Migrate(db); err != nil {
			zl.Fatal("migration failed", zap.Error(err))
		}
	}

	tokens, err := jwt.NewService(jwt.Config{
		Secret:     c.JWT.Secret,
		Algorithm:  c.JWT.Algorithm,
		AccessTTL:  c.JWT.AccessTTL,
		RefreshTTL: c.JWT.RefreshTTL,
	})
	if err != nil {
		zl.Fatal("token service init failed", zap.Error(err))
	}

	images, err := media.NewStore(c.Media.Root, c.Media.URLPrefix, c.Media.MaxImageSize)
	if err != nil {
		zl.Fatal("media store init failed", zap.Error(err))
	}

	opts := router.Options{
		ServiceName:       c.Service.Name,
		DB:                db,
		Log:               zl,
		Tokens:            tokens,
		Images:            images,
		ProtectCategories: c.Auth.ProtectCategories,
	}

	if c.Limits.CheckoutQPS > 0 {
		if err := middleware.InitRateLimit(map[string]float64{middleware.ResourceCheckout: c.Limits.CheckoutQPS}); err != nil {
			zl.Fatal("rate limiter init failed", zap.Error(err))
		}
		opts.LimitCheckout = true
	}

	rdb, err := database.InitRedis(c.Redis)
	if err != nil {
		// the catalog works without the cache
		zl.Warn("redis unavailable, list cache disabled", zap.Error(err))
	}
	if rdb != nil {
		defer rdb.Close()
		opts.Cache = cache.NewPageCache(rdb, "products", c.Catalog.ListCacheTTL)
	}

	if c.Broker.URL != "" {
		pub, err := broker.NewPublisher(c.Broker.URL, c.Broker.Exchange)
		if err != nil {
			zl.Warn("rabbitmq unavailable, order events disabled", zap.Error(err))
		} else {
			defer pub.Close()
			opts.Events = pub
		}
	}

	r := router.New(opts)

	if c.Consul.Address != "" {
		deregister, err := discovery.RegisterService(discovery.Registration{
			Name: c.Service.Name,
			Port: c.Service.Port,
			Tags: []string{"http", c.Service.Env},
		}, c.Consul.Address)
		if err != nil {
			zl.Warn("consul registration failed", zap.Error(err))
		} else {
			defer func() {
				if err := deregister(); err != nil {
					zl.Warn("consul deregistration failed", zap.Error(err))
				}
			}()
		}
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", c.Service.Port),
		Handler:      r,
		ReadTimeout:  c.Service.ReadTimeout,
		WriteTimeout: c.Service.WriteTimeout,
	}
	go func() {
		zl.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zl.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
	}
}
