// Package main initializes and starts the WikiSmart API server, setting up
// configuration, logging, the database, external providers, repositories,
// services, handlers and TLS.
package main

import (
	"cmp"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/atinyakov/WikiSmart/internal/cache"
	"github.com/atinyakov/WikiSmart/internal/config"
	"github.com/atinyakov/WikiSmart/internal/db"
	"github.com/atinyakov/WikiSmart/internal/llm"
	"github.com/atinyakov/WikiSmart/internal/logger"
	"github.com/atinyakov/WikiSmart/internal/models"
	"github.com/atinyakov/WikiSmart/internal/repository"
	"github.com/atinyakov/WikiSmart/internal/server/handler/http"
	"github.com/atinyakov/WikiSmart/internal/service"
	"github.com/atinyakov/WikiSmart/internal/wikipedia"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	_ = godotenv.Load()

	// Parse flags, environment and config file.
	options, err := config.ParseServer(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if options.ShowVersion {
		fmt.Printf("WikiSmart Server\nVersion: %s\nBuild Date: %s\n", cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A"))
		return
	}

	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	zapLogger := log.Log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize PostgreSQL connection and schema.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}
	defer postgresDB.Close()

	db.StartQuizCleaner(ctx, postgresDB, options.CleanInterval, options.QuizRetention, zapLogger)

	// Repositories.
	userRepo := repository.NewPostgresUserRepository(postgresDB)
	articleRepo := repository.NewPostgresArticleRepository(postgresDB)
	quizRepo := repository.NewPostgresQuizRepository(postgresDB)
	statsRepo := repository.NewPostgresStatsRepository(postgresDB)

	// External providers.
	wiki := wikipedia.NewClient(options.WikipediaAPI, options.WikipediaUserAgent, nil, zapLogger)
	groq := llm.NewGroq(llm.Options{
		APIKey:       options.GroqAPIKey,
		Model:        options.GroqModel,
		BaseURL:      options.GroqURL,
		MaxInputChar: options.LLMMaxInputChars,
		MaxTokens:    options.LLMMaxTokens,
		Temperature:  options.LLMTemperature,
	}, zapLogger)
	gemini := llm.NewGemini(llm.Options{
		APIKey:       options.GeminiAPIKey,
		Model:        options.GeminiModel,
		BaseURL:      options.GeminiURL,
		MaxInputChar: options.LLMMaxInputChars,
		MaxTokens:    options.LLMMaxTokens,
		Temperature:  options.LLMTemperature,
	}, zapLogger)

	var resultCache service.Cache = cache.Nop{}
	if options.RedisAddr != "" {
		rc := cache.NewRedis(options.RedisAddr, options.RedisPassword)
		if err := rc.Ping(ctx); err != nil {
			zapLogger.Warn("redis unavailable, caching disabled", zap.String("addr", options.RedisAddr), zap.Error(err))
			_ = rc.Close()
		} else {
			defer rc.Close()
			resultCache = rc
		}
	}

	// Business-logic services.
	authService := service.NewAuthService(userRepo, options.JWTSecret, options.TokenTTL)
	articleService := service.NewArticleService(service.ArticleDeps{
		Fetcher:    wiki,
		Summarizer: groq,
		Translator: gemini,
		Articles:   articleRepo,
		Cache:      resultCache,
		CacheTTL:   options.CacheTTL,
		Log:        zapLogger,
	})
	quizService := service.NewQuizService(wiki, gemini, articleRepo, quizRepo, zapLogger)
	statsService := service.NewStatsService(statsRepo)

	if options.AdminUsername != "" {
		created, err := authService.EnsureAdmin(ctx, models.UserCreate{
			Username: options.AdminUsername,
			Email:    options.AdminEmail,
			Password: options.AdminPassword,
		})
		if err != nil {
			zapLogger.Fatal("failed to create admin account", zap.Error(err))
		}
		if created {
			zapLogger.Info("admin account created", zap.String("username", options.AdminUsername))
		}
	}

	// Build the router with middleware and routes.
	router := http.NewRouter(http.Handlers{
		Auth:     &http.AuthHandler{AuthService: authService, Log: zapLogger},
		Articles: &http.ArticleHandler{ArticleService: articleService, Log: zapLogger},
		Quiz:     &http.QuizHandler{QuizService: quizService, Log: zapLogger},
		Admin:    &http.AdminHandler{StatsService: statsService, Log: zapLogger},
	}, authService, zapLogger)

	server := &nethttp.Server{
		Addr:              options.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("graceful shutdown failed", zap.Error(err))
		}
	}()

	if options.TLSCert != "" {
		// Load server TLS certificate and key.
		cert, err := tls.LoadX509KeyPair(options.TLSCert, options.TLSKey)
		if err != nil {
			zapLogger.Fatal("failed to load server TLS cert/key", zap.Error(err))
		}
		server.TLSConfig = &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		}
		zapLogger.Info("starting HTTPS server", zap.String("addr", options.Addr))
		err = server.ListenAndServeTLS("", "")
		if err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			zapLogger.Fatal("failed to start HTTPS server", zap.Error(err))
		}
		return
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
