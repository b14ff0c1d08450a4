package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/spender-app/spender/internal/api"
	"github.com/spender-app/spender/internal/assistant"
	"github.com/spender-app/spender/internal/auth"
	"github.com/spender-app/spender/internal/cache"
	"github.com/spender-app/spender/internal/config"
	"github.com/spender-app/spender/internal/middleware"
	"github.com/spender-app/spender/internal/notify"
	"github.com/spender-app/spender/internal/service"
	"github.com/spender-app/spender/internal/storage"
	"github.com/spender-app/spender/internal/storage/memory"
	"github.com/spender-app/spender/internal/storage/sqlite"
	"github.com/spender-app/spender/pkg/logging"
)

const tokenDuration = 24 * time.Hour

func main() {
	logging.Setup()
	cfg := config.Load()

	var store storage.Store
	if cfg.DBPath != "" {
		s, err := sqlite.New(cfg.DBPath)
		if err != nil {
			slog.Error("failed to initialize storage", "error", err)
			os.Exit(1)
		}
		defer s.Close()
		store = s
		slog.Info("storage initialized", "database", cfg.DBPath)
	} else {
		store = memory.New()
		slog.Info("using in-memory storage, data will not persist")
	}

	var balanceCache cache.Cache
	if cfg.RedisAddr != "" {
		r := cache.NewRedisCache(cache.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := r.Ping(context.Background()); err != nil {
			slog.Error("failed to connect to redis", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		defer r.Close()
		balanceCache = r
		slog.Info("balance cache on redis", "addr", cfg.RedisAddr)
	} else {
		balanceCache = cache.NewInMemoryCache()
	}

	var notifier notify.Notifier
	if cfg.SMSEnabled {
		notifier = notify.NewTwilioNotifier(notify.TwilioConfig{
			AccountSID: cfg.TwilioAccountSID,
			AuthToken:  cfg.TwilioAuthToken,
			FromNumber: cfg.TwilioPhoneNumber,
		})
		slog.Info("SMS delivery enabled", "from", cfg.TwilioPhoneNumber)
	} else {
		notifier = notify.NewConsoleNotifier()
	}

	ledger := service.NewLedgerService(store, balanceCache)
	groups := service.NewGroupService(store, balanceCache)
	authenticator := auth.NewPasswordAuthenticator(store)
	tokens := auth.NewJWTManager(cfg.JWTSecret, tokenDuration)
	chat := assistant.New(cfg.OpenAIAPIKey, ledger)
	if chat.Enabled() {
		slog.Info("assistant enabled")
	}

	app := api.New(ledger, groups, store, authenticator, tokens, notifier, chat)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
	handler := middleware.Metrics(middleware.Logging(corsHandler.Handler(app.Router())))

	// h2c allows HTTP/2 without TLS for local and proxied deployments.
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	addr := ":" + cfg.Port
	slog.Info("server starting", "address", addr)
	if err := http.ListenAndServe(addr, h2cHandler); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
