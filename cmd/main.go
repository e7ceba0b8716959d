package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	"github.com/sbilibin2017/messagely/internal/config"
	"github.com/sbilibin2017/messagely/internal/events"
	"github.com/sbilibin2017/messagely/internal/jwt"
	"github.com/sbilibin2017/messagely/internal/logger"
	"github.com/sbilibin2017/messagely/internal/migrations"
	"github.com/sbilibin2017/messagely/internal/repositories"
	"github.com/sbilibin2017/messagely/internal/server"
	"github.com/sbilibin2017/messagely/internal/services"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// @title messagely API
// @version 1.0.0
// @description Messaging service: users register, log in and exchange short messages
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath := parseFlags()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting service version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// kafkaBatchTimeout bounds how long a single event waits for batch-mates
// before the writer flushes it.
const kafkaBatchTimeout = 10 * time.Millisecond

// newKafkaWriter builds a writer that flushes every event on its own, so a
// publish inside a request never waits for a batch to fill.
func newKafkaWriter(cfg *config.Config) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafka.Hash{},
		BatchSize:              1,
		BatchTimeout:           kafkaBatchTimeout,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

// newEventPublisher connects the configured event backend. It returns a nil
// publisher for EVENTS_BACKEND=none.
func newEventPublisher(ctx context.Context, cfg *config.Config) (services.EventPublisher, func() error, error) {
	switch cfg.EventsBackend {
	case config.EventsKafka:
		pub := events.NewKafkaPublisher(newKafkaWriter(cfg))
		return pub, pub.Close, nil

	case config.EventsRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:         cfg.RedisAddr(),
			Password:     cfg.RedisPassword,
			DB:           cfg.RedisDB,
			PoolSize:     cfg.RedisPoolSize,
			MinIdleConns: cfg.RedisMinIdleConns,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, nil, fmt.Errorf("redis connection error: %w", err)
		}
		return events.NewRedisPublisher(rdb, cfg.RedisChannelPrefix), rdb.Close, nil

	default:
		return nil, func() error { return nil }, nil
	}
}

// run initializes the logger, database and event backend, then serves HTTP
// until a shutdown signal arrives.
func run(ctx context.Context, cfg *config.Config) error {
	if err := logger.Initialize(cfg.LogLevel, cfg.LogFormat); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Sync()
	logger.Log.Infof("Logger initialized with level %s", cfg.LogLevel)

	// Connect to PostgreSQL
	logger.Log.Infow("Connecting to PostgreSQL", "host", cfg.PostgresHost, "port", cfg.PostgresPort, "db", cfg.PostgresDB)
	db, err := sqlx.ConnectContext(ctx, "pgx", cfg.PostgresDSN())
	if err != nil {
		return fmt.Errorf("postgres connection error: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.PostgresMaxOpenConns)
	db.SetMaxIdleConns(cfg.PostgresMaxIdleConns)

	if err := migrations.Up(ctx, db.DB); err != nil {
		return fmt.Errorf("migrations failed: %w", err)
	}

	// Event backend
	publisher, closePublisher, err := newEventPublisher(ctx, cfg)
	if err != nil {
		return err
	}
	defer closePublisher()
	logger.Log.Infow("Event backend ready", "backend", cfg.EventsBackend)

	tokens := jwt.New(
		jwt.WithSecretKey(cfg.JWTSecretKey),
		jwt.WithExpiration(cfg.JWTExp),
	)

	// Repositories
	userReadRepo := repositories.NewUserReadRepository(db)
	userWriteRepo := repositories.NewUserWriteRepository(db)
	messageReadRepo := repositories.NewMessageReadRepository(db)
	messageWriteRepo := repositories.NewMessageWriteRepository(db)

	// Services
	userService := services.NewUserService(userReadRepo, userWriteRepo, cfg.BcryptCost)
	authService := services.NewAuthService(userService, tokens)
	messageService := services.NewMessageService(messageReadRepo, messageWriteRepo, publisher)

	router := server.NewRouter(server.Deps{
		Auth:       authService,
		Users:      userService,
		Messages:   messageService,
		Tokens:     tokens,
		SwaggerURL: cfg.SwaggerURL,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}
