package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rainbow-properties/internal/auth"
	"rainbow-properties/internal/catalog"
	"rainbow-properties/internal/config"
	"rainbow-properties/internal/dashboard"
	"rainbow-properties/internal/gallery"
	"rainbow-properties/internal/handlers"
	"rainbow-properties/internal/inbox"
	"rainbow-properties/internal/kvstore"
	"rainbow-properties/internal/logging"
	"rainbow-properties/internal/objstore"
	"rainbow-properties/internal/reconcile"
	"rainbow-properties/internal/siteconfig"
)

func main() {
	configPath := getEnv("CONFIG_PATH", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.Setup(&cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logger.Sync()

	store, closeStore, err := openStore(cfg)
	if err != nil {
		zap.S().Fatalw("Failed to open key-value store", "type", cfg.Database.Type, "error", err)
	}
	if closeStore != nil {
		defer closeStore()
	}

	blobs, err := openBlobStore(cfg)
	if err != nil {
		zap.S().Fatalw("Failed to open object storage", "driver", cfg.Storage.Driver, "error", err)
	}

	authClient := auth.NewClient(&cfg.Supabase)

	recorder := reconcile.NewRecorder(store)
	sweeper := reconcile.NewSweeper(store, blobs, authClient)
	if cfg.Reconcile.Enabled {
		if err := sweeper.Start(cfg.Reconcile.Cron); err != nil {
			zap.S().Fatalw("Failed to start reconciliation sweep", "error", err)
		}
		defer sweeper.Stop()
	}

	catalogSvc := catalog.NewService(store)
	gallerySvc := gallery.NewService(store, blobs, recorder)
	inboxSvc := inbox.NewService(store)
	siteSvc := siteconfig.NewService(store, authClient, recorder)
	dashboardSvc := dashboard.NewService(catalogSvc, gallerySvc, siteSvc)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	handlers.Register(r, cfg.Server.BasePath, &handlers.API{
		Auth:      authClient,
		Catalog:   catalogSvc,
		Gallery:   gallerySvc,
		Inbox:     inboxSvc,
		Site:      siteSvc,
		Dashboard: dashboardSvc,
	}, authClient)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	zap.S().Infow("Starting server", "addr", addr, "basePath", cfg.Server.BasePath)
	if err := r.Run(addr); err != nil {
		zap.S().Fatalw("Server exited", "error", err)
	}
}

func openStore(cfg *config.Config) (kvstore.Store, func() error, error) {
	switch cfg.Database.Type {
	case "supabase":
		return kvstore.NewSupabaseStore(&cfg.Supabase), nil, nil
	case "mysql":
		store, err := kvstore.NewGormStore(&cfg.Database.MySQL)
		if err != nil {
			return nil, nil, err
		}
		if err := store.InitSchema(); err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case "postgres":
		store, err := kvstore.NewPostgresStore(&cfg.Database.Postgres)
		if err != nil {
			return nil, nil, err
		}
		if err := store.InitSchema(); err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case "memory":
		return kvstore.NewMemoryStore(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown database type %q", cfg.Database.Type)
	}
}

func openBlobStore(cfg *config.Config) (objstore.Store, error) {
	switch cfg.Storage.Driver {
	case "supabase":
		store := objstore.NewSupabaseStore(&cfg.Supabase, cfg.Storage.Bucket)
		// Bucket creation is best effort; uploads surface the real error.
		if err := store.EnsureBucket(context.Background()); err != nil {
			zap.S().Warnw("Failed to ensure storage bucket", "bucket", cfg.Storage.Bucket, "error", err)
		}
		return store, nil
	case "s3":
		return objstore.NewS3Store(context.Background(), &cfg.Storage.S3, cfg.Storage.Bucket)
	case "memory":
		return objstore.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
