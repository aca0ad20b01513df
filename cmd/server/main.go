package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"kidlanes/internal/config"
	"kidlanes/internal/database"
	"kidlanes/internal/genai"
	"kidlanes/internal/handlers"
	"kidlanes/internal/repository"
	"kidlanes/internal/security"
	"kidlanes/internal/service"
	"kidlanes/internal/youtube"
)

func main() {
	cfg := config.Load()

	db, err := database.Initialize(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Repositories
	accountRepo := repository.NewAccountRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	laneRepo := repository.NewLaneRepository(db)
	watchRepo := repository.NewWatchRepository(db)
	badgeRepo := repository.NewBadgeRepository(db)

	// External clients
	genClient, err := genai.NewClient(cfg.GenAIBaseURL, cfg.GenAIAPIKey, cfg.GenAIModel)
	if err != nil {
		log.Fatalf("Failed to create generation client: %v", err)
	}
	ytClient := youtube.NewClient(cfg.YouTubeAPIKey)

	tokenIssuer, err := security.NewChildTokenIssuer(cfg.ChildTokenSecret, cfg.ChildTokenTTL)
	if err != nil {
		log.Fatalf("Failed to create child token issuer: %v", err)
	}

	// Services
	authService := service.NewAuthService(accountRepo, profileRepo, tokenIssuer, cfg.SessionDuration)
	profileService := service.NewProfileService(profileRepo, laneRepo, watchRepo, badgeRepo)
	laneService := service.NewLaneService(laneRepo, profileRepo)
	generationService := service.NewGenerationService(genClient, ytClient)
	progressService := service.NewProgressService(watchRepo)
	badgeService := service.NewBadgeService(badgeRepo, watchRepo, laneRepo)

	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to create email service: %v", err)
	}

	oauthProviders := map[string]handlers.OAuthProvider{
		"google": {
			Name: "google",
			Config: &oauth2.Config{
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				Endpoint:     google.Endpoint,
				Scopes:       []string{"openid", "email", "profile"},
			},
			UserInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
		},
	}

	// Handlers
	rateLimiter := security.NewRateLimiter(10, time.Minute)
	middleware := handlers.NewMiddleware(authService, rateLimiter)
	authHandler := handlers.NewAuthHandler(authService, emailService, oauthProviders, cfg.OAuthRedirectBaseURL)
	profileHandler := handlers.NewProfileHandler(profileService, badgeService)
	laneHandler := handlers.NewLaneHandler(laneService, profileService)
	generationHandler := handlers.NewGenerationHandler(generationService, profileService)
	childHandler := handlers.NewChildHandler(authService, laneService, progressService, badgeService, emailService, profileService, accountRepo)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Parent auth
	mux.HandleFunc("POST /api/auth/register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /api/auth/login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)
	mux.HandleFunc("GET /api/auth/me", middleware.RequireAuth(authHandler.Me))
	mux.HandleFunc("GET /auth/{provider}/start", authHandler.StartOAuth)
	mux.HandleFunc("GET /auth/{provider}/callback", authHandler.OAuthCallback)

	// Profiles
	mux.HandleFunc("GET /api/profiles", middleware.RequireAuth(profileHandler.List))
	mux.HandleFunc("POST /api/profiles", middleware.RequireAuth(profileHandler.Create))
	mux.HandleFunc("GET /api/profiles/{id}", middleware.RequireAuth(profileHandler.Get))
	mux.HandleFunc("PUT /api/profiles/{id}", middleware.RequireAuth(profileHandler.Update))
	mux.HandleFunc("DELETE /api/profiles/{id}", middleware.RequireAuth(profileHandler.Delete))
	mux.HandleFunc("POST /api/profiles/{id}/pin", middleware.RequireAuth(profileHandler.RotatePIN))
	mux.HandleFunc("GET /api/profiles/{id}/stats", middleware.RequireAuth(profileHandler.Stats))
	mux.HandleFunc("GET /api/profiles/{id}/badges", middleware.RequireAuth(profileHandler.Badges))

	// Lanes and items
	mux.HandleFunc("GET /api/profiles/{id}/lanes", middleware.RequireAuth(laneHandler.ListForProfile))
	mux.HandleFunc("POST /api/profiles/{id}/lanes", middleware.RequireAuth(laneHandler.Create))
	mux.HandleFunc("PUT /api/profiles/{id}/lanes/order", middleware.RequireAuth(laneHandler.Reorder))
	mux.HandleFunc("POST /api/profiles/{id}/lanes/confirm", middleware.RequireAuth(laneHandler.Confirm))
	mux.HandleFunc("GET /api/lanes/{id}", middleware.RequireAuth(laneHandler.Get))
	mux.HandleFunc("PUT /api/lanes/{id}", middleware.RequireAuth(laneHandler.Update))
	mux.HandleFunc("DELETE /api/lanes/{id}", middleware.RequireAuth(laneHandler.Delete))
	mux.HandleFunc("POST /api/lanes/{id}/items", middleware.RequireAuth(laneHandler.AddItem))
	mux.HandleFunc("PUT /api/items/{id}", middleware.RequireAuth(laneHandler.UpdateItem))
	mux.HandleFunc("DELETE /api/items/{id}", middleware.RequireAuth(laneHandler.DeleteItem))

	// Lane generation
	mux.HandleFunc("POST /api/profiles/{id}/generate", middleware.RequireAuth(generationHandler.Generate))

	// Child surface
	mux.HandleFunc("POST /api/child/login", middleware.RateLimit(childHandler.Login))
	mux.HandleFunc("GET /api/child/lanes", middleware.RequireChild(childHandler.Lanes))
	mux.HandleFunc("GET /api/child/badges", middleware.RequireChild(childHandler.Badges))
	mux.HandleFunc("POST /api/child/progress", middleware.RequireChild(childHandler.Progress))

	handler := handlers.Logging(mux)

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go cleanupExpiredSessions(authService)

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
}

// cleanupExpiredSessions periodically removes expired parent sessions
func cleanupExpiredSessions(authService *service.AuthService) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if err := authService.CleanupExpiredSessions(); err != nil {
			log.Printf("Error cleaning up expired sessions: %v", err)
		}
	}
}
