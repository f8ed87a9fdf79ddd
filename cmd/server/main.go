package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/officialyou/backend/internal/config"
	"github.com/officialyou/backend/internal/handlers"
	appMiddleware "github.com/officialyou/backend/internal/middleware"
	"github.com/officialyou/backend/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	ctx := context.Background()

	// Firebase Auth (server-side verification of Google sign-in tokens).
	// Optional: password auth still works without it.
	var verifier *services.FirebaseVerifier
	var err error
	if cfg.FirebaseProject != "" {
		verifier, err = services.NewFirebaseVerifier(ctx, services.FirebaseConfig{
			ProjectID:       cfg.FirebaseProject,
			CredentialsJSON: cfg.FirebaseCreds,
		})
		if err != nil {
			log.Printf("Warning: failed to initialize Firebase Auth client: %v", err)
			verifier = nil
		}
	}

	// Persistence: MongoDB when configured, local JSON files otherwise.
	var (
		profileService  services.ProfileService
		accountService  services.AccountService
		referralService services.ReferralService
		waitlistService services.WaitlistService
	)
	if cfg.MongoURI != "" {
		profileService, err = services.NewMongoProfileService(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			log.Fatalf("Failed to connect profile service: %v", err)
		}
		accountService, err = services.NewMongoAccountService(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			log.Fatalf("Failed to connect account service: %v", err)
		}
		referralService, err = services.NewMongoReferralService(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			log.Fatalf("Failed to connect referral service: %v", err)
		}
		waitlistService, err = services.NewMongoWaitlistService(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			log.Fatalf("Failed to connect waitlist service: %v", err)
		}
		log.Println("Using MongoDB persistence")
	} else {
		profileService, err = services.NewLocalProfileService(cfg.DataDir)
		if err != nil {
			log.Fatalf("Failed to open profile store: %v", err)
		}
		accountService, err = services.NewLocalAccountService(cfg.DataDir)
		if err != nil {
			log.Fatalf("Failed to open account store: %v", err)
		}
		referralService, err = services.NewLocalReferralService(cfg.DataDir)
		if err != nil {
			log.Fatalf("Failed to open referral store: %v", err)
		}
		waitlistService, err = services.NewLocalWaitlistService(cfg.DataDir)
		if err != nil {
			log.Fatalf("Failed to open waitlist store: %v", err)
		}
		log.Println("Using local JSON persistence")
	}
	defer profileService.Close(ctx)
	defer accountService.Close(ctx)
	defer referralService.Close(ctx)
	defer waitlistService.Close(ctx)

	// Avatar storage: Cloud Storage bucket when configured, local disk otherwise.
	var avatarService services.AvatarService
	if cfg.StorageBucket != "" {
		avatarService, err = services.NewGCSAvatarService(ctx, cfg.StorageBucket, cfg.FirebaseCreds)
		if err != nil {
			log.Fatalf("Failed to initialize avatar storage: %v", err)
		}
	} else {
		avatarService, err = services.NewLocalAvatarService(cfg.UploadDir)
		if err != nil {
			log.Fatalf("Failed to initialize avatar storage: %v", err)
		}
	}

	mailer := services.NewSendGridMailer(cfg.SendGridAPIKey, cfg.NotifyFromEmail, cfg.NotifyToEmail)
	recaptcha := services.NewRecaptchaVerifier(cfg.RecaptchaSecret)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(accountService, profileService, verifier, cfg.JWTSecret, cfg.JWTExpiration)
	profileHandler := handlers.NewProfileHandler(profileService)
	linksHandler := handlers.NewLinksHandler(profileService)
	photoHandler := handlers.NewPhotoHandler(avatarService, profileService, cfg.MaxUploadSizeMB)
	accountHandler := handlers.NewAccountHandler(accountService, profileService, avatarService)
	referralHandler := handlers.NewReferralHandler(referralService)
	waitlistHandler := handlers.NewWaitlistHandler(waitlistService, mailer, recaptcha)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Admin-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/google", authHandler.GoogleSignIn)
		r.Get("/auth/username-available", authHandler.UsernameAvailable)
		r.Post("/waitlist", waitlistHandler.Join)
		r.Post("/referral/redeem", referralHandler.RedeemCode)
		r.Get("/profiles/{username}", profileHandler.GetPublicProfile)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.JWTAuth(cfg.JWTSecret))

			r.Route("/me", func(r chi.Router) {
				r.Get("/", profileHandler.GetMe)
				r.Put("/", profileHandler.UpdateMe)
				r.Delete("/", accountHandler.DeleteAccount)

				r.Post("/photo", photoHandler.Upload)

				r.Route("/links", func(r chi.Router) {
					r.Put("/", linksHandler.SetLinks)
					r.Post("/custom", linksHandler.AddCustomLink)
					r.Put("/social/{platform}", linksHandler.UpsertSocialLink)
					r.Delete("/{linkId}", linksHandler.DeleteLink)
					r.Post("/{index}/move", linksHandler.MoveLink)
				})
			})
		})

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.AdminToken(cfg.AdminToken))
			r.Post("/admin/referral-codes", referralHandler.CreateCodes)
		})
	})

	// Serve uploaded files when running on local storage
	if cfg.StorageBucket == "" {
		workDir, _ := os.Getwd()
		filesDir := http.Dir(workDir + "/" + cfg.UploadDir)
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(filesDir)))
	}

	log.Printf("Official You API server starting on %s", cfg.ServerAddress)
	if err := http.ListenAndServe(cfg.ServerAddress, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
