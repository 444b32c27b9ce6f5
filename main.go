package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/dcode-github/hostel_pg_finder/backend/cache"
	"github.com/dcode-github/hostel_pg_finder/backend/config"
	"github.com/dcode-github/hostel_pg_finder/backend/controllers"
	"github.com/dcode-github/hostel_pg_finder/backend/logger"
	"github.com/dcode-github/hostel_pg_finder/backend/middleware"
	"github.com/dcode-github/hostel_pg_finder/backend/repository"
	"github.com/dcode-github/hostel_pg_finder/backend/routes"
	"github.com/dcode-github/hostel_pg_finder/backend/utils"
)

type mongoPinger struct {
	client *mongo.Client
}

func (p mongoPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx, readpref.Primary())
}

func setup() (config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, zerolog.Nop(), err
	}
	l := logger.Init(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	return cfg, l, nil
}

func newImageStore(cfg config.Config) utils.ImageStore {
	if cfg.CloudinaryURL == "" {
		log.Warn().Msg("CLOUDINARY_URL not set, uploads disabled")
		return utils.DisabledStore{}
	}
	store, err := utils.NewCloudinaryStore(cfg.CloudinaryURL)
	if err != nil {
		log.Error().Err(err).Msg("Invalid Cloudinary configuration, uploads disabled")
		return utils.DisabledStore{}
	}
	return utils.NewBreakerStore("cloudinary", store)
}

func serve(ctx context.Context) error {
	cfg, baseLogger, err := setup()
	if err != nil {
		return err
	}

	client, err := config.ConnectDB(ctx, cfg.MongoURI)
	if err != nil {
		return fmt.Errorf("failed to connect to the database: %w", err)
	}
	defer config.CloseDBConnection(client)

	cols := config.InitCollections(client, cfg.DBName)
	if err := config.EnsureIndexes(ctx, cols); err != nil {
		log.Warn().Err(err).Msg("Index creation failed")
	}

	redisClient, err := config.InitRedis(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, list cache disabled")
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	router := mux.NewRouter()
	routes.Routes(router, routes.Deps{
		Properties: repository.NewPropertyRepository(cols.Properties),
		Roommates:  repository.NewRoommateRepository(cols.Roommates),
		Users:      repository.NewUserRepository(cols.Users),
		Cache:      cache.New(redisClient, cache.DefaultTTL),
		Images:     newImageStore(cfg),
		Session:    controllers.Session{Key: []byte(cfg.JWTKey), Secure: !cfg.Development()},
		DB:         mongoPinger{client: client},
	})

	corsOptions := cors.New(cors.Options{
		AllowedOrigins:   cfg.Origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	var handler http.Handler = router
	handler = corsOptions.Handler(handler)
	handler = middleware.Recovery(cfg.Development())(handler)
	handler = middleware.RequestLogger(baseLogger)(handler)

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        handler,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.AppEnv).Msg("Server running")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("error starting server: %w", err)
		}
	case <-sigCtx.Done():
	}

	log.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error during server shutdown: %w", err)
	}
	log.Info().Msg("Server gracefully stopped")
	return nil
}

func ensureIndexes(ctx context.Context) error {
	cfg, _, err := setup()
	if err != nil {
		return err
	}

	client, err := config.ConnectDB(ctx, cfg.MongoURI)
	if err != nil {
		return fmt.Errorf("failed to connect to the database: %w", err)
	}
	defer config.CloseDBConnection(client)

	return config.EnsureIndexes(ctx, config.InitCollections(client, cfg.DBName))
}

func main() {
	rootCmd := &cobra.Command{
		Use:          "hostel-pg-finder",
		Short:        "Hostel, PG and roommate listing API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API",
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "indexes",
			Short: "Create the MongoDB indexes and exit",
			RunE: func(cmd *cobra.Command, args []string) error {
				return ensureIndexes(cmd.Context())
			},
		},
	)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
