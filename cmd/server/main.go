package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"alcyxob/painrelief/internal/api"
	"alcyxob/painrelief/internal/config"
	"alcyxob/painrelief/internal/platform/logger"
	"alcyxob/painrelief/internal/recommend"
	"alcyxob/painrelief/internal/repository/kv"
	"alcyxob/painrelief/internal/repository/mongo"
	"alcyxob/painrelief/internal/service"
	"alcyxob/painrelief/internal/storage"
)

// @title Pain Relief API
// @version 1.0
// @description Body map selection, pain tracking and exercise recommendations.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		// No logger yet.
		panic(err)
	}

	log, err := logger.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		panic(err)
	}
	log = log.WithHashSalt(cfg.Log.HashSalt)
	defer log.Sync()
	log.Info("starting pain relief server", "backend", cfg.Storage.Backend, "address", cfg.Server.Address)

	// --- Storage ---
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	store, closeStore, err := openStore(ctx, cfg, log)
	cancel()
	if err != nil {
		log.Fatal("could not open storage backend", "backend", cfg.Storage.Backend, "error", err)
	}
	defer closeStore()

	if cfg.Storage.EncryptionKey != "" {
		sealed, err := storage.NewSealed(store, cfg.Storage.EncryptionKey)
		if err != nil {
			log.Fatal("could not set up record encryption", "error", err)
		}
		store = sealed
		log.Info("stored records are encrypted")
	}

	// --- Repositories and services ---
	records := kv.NewPainRecordRepository(store, cfg.Storage.Prefix)

	engine, err := recommend.Default()
	if err != nil {
		log.Fatal("could not load exercise catalog", "error", err)
	}
	log.Info("exercise catalog loaded", "version", engine.Version(), "exercises", len(engine.Exercises()))

	sessionService := service.NewSessionService(cfg.Session.Secret, cfg.Session.Expiration)
	trackerService := service.NewTrackerService(engine, records, log)
	exerciseService := service.NewExerciseService(engine)

	evictCtx, stopEviction := context.WithCancel(context.Background())
	defer stopEviction()
	go service.RunEviction(evictCtx, trackerService, evictionInterval(cfg.Session.IdleTimeout), cfg.Session.IdleTimeout, log)

	// --- HTTP ---
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), api.RequestLogger(log))
	api.SetupRoutes(router, sessionService, trackerService, exerciseService)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// --- Graceful Shutdown ---
	go func() {
		log.Info("listening", "address", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("ListenAndServe failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")
	stopEviction()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}
	log.Info("server exiting")
}

// evictionInterval sweeps a few times per idle timeout, between once a
// second and once a minute.
func evictionInterval(idle time.Duration) time.Duration {
	interval := idle / 4
	if interval > time.Minute {
		interval = time.Minute
	}
	if interval < time.Second {
		interval = time.Second
	}
	return interval
}

// openStore connects the configured key-value backend. The returned func
// releases its connections.
func openStore(ctx context.Context, cfg config.Config, log *logger.Logger) (storage.KeyValueStore, func(), error) {
	noop := func() {}

	switch cfg.Storage.Backend {
	case config.BackendMongo:
		client, err := mongo.ConnectDB(ctx, cfg.Database.URI)
		if err != nil {
			return nil, noop, err
		}
		db := client.Database(cfg.Database.Name)
		if err := mongo.EnsureKVIndexes(ctx, db.Collection(cfg.Database.Collection), cfg.Session.Expiration); err != nil {
			// Records still work without the expiry index.
			log.Warn("could not ensure kv indexes", "error", err)
		}
		closeFn := func() {
			if err := mongo.DisconnectDB(client); err != nil {
				log.Error("failed to disconnect MongoDB", "error", err)
			}
		}
		return mongo.NewMongoKVStore(db, cfg.Database.Collection), closeFn, nil

	case config.BackendRedis:
		rs, err := storage.NewRedisStore(cfg.Redis)
		if err != nil {
			return nil, noop, err
		}
		closeFn := func() {
			if err := rs.Close(); err != nil {
				log.Error("failed to close redis client", "error", err)
			}
		}
		return rs.WithTTL(cfg.Session.Expiration), closeFn, nil

	case config.BackendS3:
		s3s, err := storage.NewS3Store(ctx, cfg.S3)
		if err != nil {
			return nil, noop, err
		}
		return s3s, noop, nil

	default:
		log.Warn("using in-memory storage, records are lost on restart")
		return storage.NewMemoryStore(), noop, nil
	}
}
