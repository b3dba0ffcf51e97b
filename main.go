package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"comic-publish-system/handlers"
	"comic-publish-system/middleware"
	"comic-publish-system/models"
	"comic-publish-system/services"
	"comic-publish-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 50 * 1024 * 1024, // covers + badge icons
	})

	// Only Gateway requests are allowed through.
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		log.Println("⚠️  ALLOWED_ORIGINS not set, using default: http://localhost:3000")
		allowedOrigins = "http://localhost:3000"
	}
	var origins []string
	for _, o := range strings.Split(allowedOrigins, ",") {
		origins = append(origins, strings.TrimSpace(o))
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, X-User-ID, X-User-Roles",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Comic{},
		&models.Chapter{},
		&models.Comment{},
		&models.Rating{},
		&models.UserActivity{},
		&models.Badge{},
		&models.UserBadge{},
		&models.RankTitle{},
		&models.LeaderboardEntry{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	if err := services.SeedProgressionData(db); err != nil {
		log.Fatal("failed to seed progression data:", err)
	}

	r2Enabled, err := utils.InitR2()
	if err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}
	if !r2Enabled {
		log.Println("⚠️  R2 not configured — icon and cover uploads go to local ./uploads")
		if err := utils.EnsureUploadDir(); err != nil {
			log.Fatal("failed to ensure upload dir:", err)
		}
	}

	cfg := services.DefaultProgressionConfig()
	cfg.Enabled = envBool("PROGRESSION_ENABLED", cfg.Enabled)
	cfg.BadgesEnabled = envBool("BADGES_ENABLED", cfg.BadgesEnabled)
	cfg.RankTitlesEnabled = envBool("RANK_TITLES_ENABLED", cfg.RankTitlesEnabled)

	rankService := services.NewRankService(db, cfg.RankTitlesEnabled)
	badgeService := services.NewBadgeService(db, cfg.BadgesEnabled)
	progressionService := services.NewProgressionService(db, cfg, badgeService, rankService)
	contentService := services.NewContentService(db, progressionService)
	leaderboardService := services.NewLeaderboardService(db, rankService, cfg.Enabled)

	leaderboardService.StartScheduler()

	handlers.SetupProgressionRoutes(app, progressionService, badgeService, rankService, leaderboardService)
	handlers.SetupActivityRoutes(app, contentService, progressionService)

	app.Static("/uploads", "./uploads")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := app.Listen(":5100"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5100")
	log.Printf("✅ Progression enabled=%t badges=%t rank_titles=%t", cfg.Enabled, cfg.BadgesEnabled, cfg.RankTitlesEnabled)

	<-ctx.Done()
	log.Println("Shutting down server...")
	_ = app.Shutdown()
}

func envBool(key string, fallback bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return fallback
}
