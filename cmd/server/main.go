package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/mkale/splitledger/internal/auth"
	"github.com/mkale/splitledger/internal/cache"
	"github.com/mkale/splitledger/internal/handler"
	"github.com/mkale/splitledger/internal/service"
	"github.com/mkale/splitledger/internal/storage/sqlite"
	"github.com/mkale/splitledger/pkg/logging"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	logging.Setup()

	dbPath := getEnv("DB_PATH", "./data/splitledger.db")
	port := getEnv("PORT", "8080")
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		slog.Error("JWT_SECRET must be set")
		os.Exit(1)
	}

	store, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", dbPath)

	// Balance views fall back to an in-process cache when Redis is not
	// configured.
	var balanceCache cache.Cache
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		redisCache, err := cache.NewRedisCache(redisAddr, os.Getenv("REDIS_PASSWORD"), 0, 5*time.Minute)
		if err != nil {
			slog.Error("Failed to connect to redis", "addr", redisAddr, "error", err)
			os.Exit(1)
		}
		defer redisCache.Close()
		balanceCache = redisCache
		slog.Info("Redis cache initialized", "addr", redisAddr)
	} else {
		balanceCache = cache.NewMemoryCache()
		slog.Info("Using in-memory cache")
	}

	jwtManager := auth.NewJWTManager(jwtSecret, 24*time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store)

	router := handler.NewRouter(handler.Services{
		Auth:        service.NewAuthService(authenticator, jwtManager, store),
		Dashboards:  service.NewDashboardService(store, balanceCache),
		Groups:      service.NewGroupService(store, balanceCache),
		Expenses:    service.NewExpenseService(store, balanceCache),
		Settlements: service.NewSettlementService(store, balanceCache),
		Contacts:    service.NewContactService(store),
		JWT:         jwtManager,
	})

	addr := ":" + port
	slog.Info("Server starting", "address", addr)
	if err := router.Run(addr); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
