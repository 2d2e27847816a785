package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/barberqueue/barberqueue-api/internal/config"
	"github.com/barberqueue/barberqueue-api/internal/domain/address"
	"github.com/barberqueue/barberqueue-api/internal/domain/auth"
	"github.com/barberqueue/barberqueue-api/internal/domain/barberservice"
	"github.com/barberqueue/barberqueue-api/internal/domain/booking"
	"github.com/barberqueue/barberqueue-api/internal/domain/branch"
	"github.com/barberqueue/barberqueue-api/internal/domain/favorite"
	"github.com/barberqueue/barberqueue-api/internal/domain/notification"
	"github.com/barberqueue/barberqueue-api/internal/domain/review"
	"github.com/barberqueue/barberqueue-api/internal/domain/user"
	"github.com/barberqueue/barberqueue-api/internal/middleware"
	"github.com/barberqueue/barberqueue-api/internal/pkg/database"
	"github.com/barberqueue/barberqueue-api/internal/pkg/email"
	"github.com/barberqueue/barberqueue-api/internal/pkg/imaging"
	"github.com/barberqueue/barberqueue-api/internal/pkg/jwt"
	"github.com/barberqueue/barberqueue-api/internal/pkg/logger"
	"github.com/barberqueue/barberqueue-api/internal/pkg/queue"
	pkgresponse "github.com/barberqueue/barberqueue-api/internal/pkg/response"
	"github.com/barberqueue/barberqueue-api/internal/pkg/revocation"
	"github.com/barberqueue/barberqueue-api/internal/pkg/storage"
)

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env})

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting BarberQueue API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redis, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redis)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)

	var revoked revocation.Store
	if redis != nil {
		revoked = revocation.NewRedisStore(redis)
	} else {
		log.Warn().Msg("Redis unavailable, using in-process token revocation store")
		revoked = revocation.NewMemoryStore()
	}

	var mailer email.Sender
	if cfg.SendGridAPIKey != "" {
		emailService := email.NewService(email.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.EmailFrom,
			FromName:  cfg.EmailFromName,
		})
		defer emailService.Close()
		mailer = emailService
	} else {
		mailer = email.NopSender{}
	}

	publisher, err := queue.NewPublisher(cfg.AMQPURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to RabbitMQ")
	}
	defer publisher.Close()

	var store storage.Storage
	if cfg.S3AccessKey != "" {
		store, err = storage.NewS3Storage(storage.S3Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			PublicURL: cfg.S3PublicURL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create S3 storage")
		}
	} else {
		log.Warn().Msg("S3 not configured, storing uploads on local disk")
		store, err = storage.NewLocalStorage(cfg.LocalStorePath, cfg.LocalStoreURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create local storage")
		}
	}
	processor := imaging.NewProcessor(imaging.DefaultConfig())

	// ---------- Repositories ----------
	userRepo := user.NewRepository(db)
	addressRepo := address.NewRepository(db)
	refreshRepo := auth.NewRefreshTokenRepository(db)
	branchRepo := branch.NewRepository(db)
	serviceRepo := barberservice.NewRepository(db)
	bookingRepo := booking.NewRepository(db)
	reviewRepo := review.NewRepository(db)
	favoriteRepo := favorite.NewRepository(db)
	notificationRepo := notification.NewRepository(db)

	// ---------- WebSocket hub ----------
	hub := notification.NewHub(redis)
	go hub.Run()
	defer hub.Shutdown()

	// ---------- Services ----------
	addresses := &addressCreatorAdapter{repo: addressRepo}
	authService := auth.NewService(userRepo, refreshRepo, addresses, branchRepo, jwtService, revoked, mailer)
	bookingService := booking.NewService(bookingRepo, userRepo, branchRepo, publisher)

	// ---------- Handlers ----------
	authHandler := auth.NewHandler(authService)
	addressHandler := address.NewHandler(addressRepo)
	branchHandler := branch.NewHandler(branchRepo, addresses)
	branchPhotoHandler := branch.NewPhotoHandler(branchRepo, store, processor)
	serviceHandler := barberservice.NewHandler(serviceRepo)
	bookingHandler := booking.NewHandler(bookingService)
	reviewHandler := review.NewHandler(reviewRepo, bookingRepo)
	favoriteHandler := favorite.NewHandler(favoriteRepo, branchRepo)
	notificationHandler := notification.NewHandler(notificationRepo, hub, cfg.AllowedOrigins)

	authMiddleware := middleware.Auth(jwtService, revoked)

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	// WebSocket endpoint. Browsers cannot set headers on WS handshakes, so
	// the token arrives as a query parameter.
	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		if token := r.URL.Query().Get("token"); token != "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}
		authMiddleware(http.HandlerFunc(notificationHandler.HandleWebSocket)).ServeHTTP(w, r)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", authHandler.Routes(authMiddleware))
		r.Mount("/addresses", addressHandler.Routes(authMiddleware))
		r.With(authMiddleware).Get("/users/me/address", addressHandler.GetMine)
		r.Mount("/branches", branch.Routes(branchHandler, branchPhotoHandler, authMiddleware,
			review.BranchRoutes(reviewHandler),
			favorite.BranchRoutes(favoriteHandler, authMiddleware),
		))
		r.Mount("/barber-services", barberservice.Routes(serviceHandler, authMiddleware))
		r.Mount("/bookings", booking.Routes(bookingHandler, authMiddleware))
		r.Mount("/reviews", review.Routes(reviewHandler, authMiddleware))
		r.Mount("/favorites", favorite.Routes(favoriteHandler, authMiddleware))
		r.Mount("/notifications", notification.Routes(notificationHandler, authMiddleware))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}
}

// addressCreatorAdapter lets auth and branch create address rows without
// depending on the address package's entity types.
type addressCreatorAdapter struct {
	repo *address.Repository
}

func (a *addressCreatorAdapter) CreateAddress(ctx context.Context, text string, lat, lng float64) (int64, error) {
	now := time.Now()
	addr := &address.Address{
		Text:      text,
		Lat:       lat,
		Lng:       lng,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := a.repo.Create(ctx, addr); err != nil {
		return 0, err
	}
	return addr.ID, nil
}
