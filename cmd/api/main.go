// Package main is the entry point for the Sendy API server.
package main

import (
	"context"
	"time"

	"github.com/roguepikachu/sendy/internal/config"
	"github.com/roguepikachu/sendy/internal/data"
	"github.com/roguepikachu/sendy/internal/http/handler"
	"github.com/roguepikachu/sendy/internal/http/router"
	"github.com/roguepikachu/sendy/internal/password"
	"github.com/roguepikachu/sendy/internal/repository/cached"
	postgresRepo "github.com/roguepikachu/sendy/internal/repository/postgres"
	redisRepo "github.com/roguepikachu/sendy/internal/repository/redis"
	"github.com/roguepikachu/sendy/internal/service"
	"github.com/roguepikachu/sendy/pkg/logger"
)

func main() {
	ctx := context.Background()

	logger.InitLogging()
	config.InitConf()

	pool, err := data.NewPostgresPool(ctx)
	if err != nil {
		logger.Fatal(ctx, "failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	redisClient := data.NewRedisClient()
	defer func() { _ = redisClient.Close() }()

	domains := postgresRepo.NewDomainRepository(pool)
	if err := domains.EnsureSchema(ctx); err != nil {
		logger.Fatal(ctx, "failed to ensure schema: %v", err)
	}
	cacheTTL := time.Duration(config.Conf.DomainCacheTTLSeconds) * time.Second
	cachedDomains := cached.NewDomainRepository(domains, redisClient, cacheTTL)

	tokens := redisRepo.NewTokenRepository(redisClient)
	clock := service.RealClock{}
	tokenTTL := time.Duration(config.Conf.AccessTokenTTLSeconds) * time.Second
	issuer := service.NewTokenIssuer(tokens, clock, tokenTTL)

	svc := service.NewService(cachedDomains, issuer, password.Bcrypt{}, clock)

	r := router.NewRouter(
		handler.NewHandler(svc),
		handler.NewHealthHandler(pool, redisClient),
		config.Conf.AllowedOrigins(),
	)

	port := config.Conf.SendyPort
	if port == "" {
		logger.Info(ctx, "no port configured, falling back to default: 8080")
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		logger.Fatal(ctx, "failed to start server: %v", err)
	}
}
