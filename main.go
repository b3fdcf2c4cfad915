package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mission-bridge/config"
	"mission-bridge/handlers"
	"mission-bridge/middleware"
	"mission-bridge/models"
	"mission-bridge/services"
	"mission-bridge/utils"
	"mission-bridge/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.InitLogger("production")
		utils.Log.Fatal().Err(err).Msg("failed to load config")
	}
	utils.InitLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openSnapshotStore(ctx, cfg)
	if err != nil {
		utils.Log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("failed to open snapshot store")
	}

	proofs, err := openProofStore(ctx, cfg)
	if err != nil {
		utils.Log.Fatal().Err(err).Str("storage", cfg.ProofStorage).Msg("failed to initialize proof storage")
	}

	session := services.NewSession(ctx,
		services.NewEconomy(models.ThemeCatalog),
		services.NewMissionLifecycle(missionProvider(ctx, cfg), cfg.VerificationDelay),
		services.NewSnapshotRepository(store),
		proofs,
	)

	feed := workers.NewFeedSimulator(cfg.FeedWindow, cfg.FeedInterval, nil)
	if err := feed.Start(); err != nil {
		utils.Log.Fatal().Err(err).Msg("failed to start feed simulator")
	}
	defer feed.Stop()

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // proof images
	})
	app.Use(recover.New())
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Origins(),
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, X-Requested-With",
		MaxAge:       86400,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	handlers.SetupMissionRoutes(app, session)
	handlers.SetupShopRoutes(app, session)
	handlers.SetupFeedRoutes(app, feed)
	if cfg.ProofStorage == "local" {
		app.Static("/uploads", cfg.UploadDir)
	}

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			utils.Log.Error().Err(err).Msg("server error")
		}
	}()

	utils.Log.Info().Str("port", cfg.Port).Msg("✅ mission bridge running")
	utils.Log.Info().Str("origins", cfg.Origins()).Msg("✅ CORS configured")

	<-ctx.Done()
	utils.Log.Info().Msg("shutting down server...")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		utils.Log.Error().Err(err).Msg("shutdown error")
	}
}

func openSnapshotStore(ctx context.Context, cfg *config.Config) (services.SnapshotStore, error) {
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}

	switch cfg.StoreDriver {
	case "postgres":
		db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), gormCfg)
		if err != nil {
			return nil, err
		}
		return services.NewGormSnapshotStore(db)
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:         cfg.RedisAddr,
			Password:     cfg.RedisPassword,
			DB:           cfg.RedisDB,
			DialTimeout:  3 * time.Second,
			ReadTimeout:  2 * time.Second,
			WriteTimeout: 2 * time.Second,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			return nil, err
		}
		return services.NewRedisSnapshotStore(client), nil
	case "memory":
		utils.Log.Warn().Msg("⚠️  in-memory snapshot store: state is lost on restart")
		return services.NewMemorySnapshotStore(), nil
	default:
		db, err := gorm.Open(sqlite.Open(cfg.SQLitePath), gormCfg)
		if err != nil {
			return nil, err
		}
		return services.NewGormSnapshotStore(db)
	}
}

func openProofStore(ctx context.Context, cfg *config.Config) (services.ProofStore, error) {
	if cfg.ProofStorage == "r2" {
		return utils.NewR2Storage(ctx, utils.R2Config{
			AccountID:       cfg.CloudflareAccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			AccessKeySecret: cfg.R2AccessKeySecret,
			Bucket:          cfg.R2BucketName,
			CDNBaseURL:      cfg.CDNBaseURL,
		})
	}
	return utils.NewLocalStorage(cfg.UploadDir, "/uploads")
}

func missionProvider(ctx context.Context, cfg *config.Config) services.MissionProvider {
	if cfg.MissionProvider == "gemini" && cfg.GeminiAPIKey != "" {
		p, err := services.NewGeminiProvider(ctx, services.GeminiConfig{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
			BaseURL: cfg.GeminiBaseURL,
		})
		if err == nil {
			utils.Log.Info().Str("model", p.Model).Msg("missions generated by gemini")
			return p
		}
		utils.Log.Warn().Err(err).Msg("⚠️  gemini client unavailable, using local missions")
	} else if cfg.MissionProvider == "gemini" {
		utils.Log.Warn().Msg("⚠️  GEMINI_API_KEY not set, using local missions")
	}
	return services.NewLocalProvider(services.LocalMissions, nil)
}
