package main

import (
	"log"

	"backend_customerpro/api"
	"backend_customerpro/auth"
	"backend_customerpro/config"
	"backend_customerpro/database"
	"backend_customerpro/middleware"
	"backend_customerpro/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// initDB brings up the database: create if missing, connect, migrate, seed.
func initDB(cfg *config.Config) {
	log.Println("[INIT] Initializing database...")

	if err := database.CreateDatabaseIfNotExists(cfg); err != nil {
		log.Fatal("[INIT] Failed to create database: ", err)
	}
	if err := database.ConnectDatabase(cfg); err != nil {
		log.Fatal("[INIT] Failed to connect to database: ", err)
	}
	if err := database.SeedIfEmpty(database.GetDB()); err != nil {
		log.Fatal("[INIT] Failed to seed database: ", err)
	}

	log.Println("[INIT] Database ready")
}

// newSessionStore prefers Redis when configured and reachable, otherwise the
// process-local store is used.
func newSessionStore(cfg *config.Config) auth.SessionStore {
	if cfg.Redis.Enabled {
		if err := database.InitRedis(cfg); err == nil {
			return auth.NewRedisSessionStore(database.GetRedis())
		} else {
			log.Printf("[INIT] Redis unavailable, falling back to in-memory sessions: %v", err)
		}
	}
	return auth.NewMemorySessionStore()
}

func main() {
	cfg := config.Load()

	initDB(cfg)
	db := database.GetDB()

	sessions := newSessionStore(cfg)

	maintenance := services.NewMaintenanceService(sessions)
	if err := maintenance.Start(); err != nil {
		log.Fatal("[INIT] Failed to start maintenance scheduler: ", err)
	}
	defer maintenance.Stop()

	lifecycle := services.NewLifecycleService(db)
	exports := services.NewExportService()
	notifications := services.NewNotificationService(cfg)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	// Credentialed CORS with the identity fallback headers allowed, the
	// frontend may run from a file:// origin.
	corsCfg := cors.DefaultConfig()
	if len(cfg.CORS.AllowedOrigins) == 1 && cfg.CORS.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORS.AllowedOrigins
		corsCfg.AllowCredentials = true
	}
	corsCfg.AllowHeaders = []string{
		"Origin", "Content-Type", "Authorization",
		middleware.UserIDHeader, middleware.UsernameHeader, middleware.SessionTokenHeader,
	}
	r.Use(cors.New(corsCfg))

	identityMiddleware := middleware.NewIdentityMiddleware(db, sessions)
	r.Use(identityMiddleware.ResolveIdentity())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":   "success",
			"message":  "pong",
			"database": "connected",
		})
	})

	apiGroup := r.Group("/api")
	api.NewAuthAPI(db, sessions).RegisterRoutes(apiGroup)
	api.NewCustomersAPI(db, lifecycle, exports).RegisterRoutes(apiGroup)
	api.NewProtocolsAPI(db).RegisterRoutes(apiGroup)
	api.NewDocumentsAPI(db).RegisterRoutes(apiGroup)
	api.NewConstructionSitesAPI(db, lifecycle).RegisterRoutes(apiGroup)
	api.NewToursAPI(db, lifecycle, exports, notifications).RegisterRoutes(apiGroup)
	api.NewUsersAPI(db, lifecycle, notifications).RegisterRoutes(apiGroup)

	log.Printf("[INIT] Server listening on port %s", cfg.App.Port)
	if err := r.Run(":" + cfg.App.Port); err != nil {
		log.Fatal("[INIT] Server terminated: ", err)
	}
}
