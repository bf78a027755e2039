package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/MinkyAI/reviews-platform-sub001/internal/config"
	"github.com/MinkyAI/reviews-platform-sub001/internal/identity"
	"github.com/MinkyAI/reviews-platform-sub001/internal/logging"
	"github.com/MinkyAI/reviews-platform-sub001/internal/media"
	"github.com/MinkyAI/reviews-platform-sub001/internal/ratelimit"
	miniorepo "github.com/MinkyAI/reviews-platform-sub001/internal/repository/minio"
	"github.com/MinkyAI/reviews-platform-sub001/internal/repository/postgres"
	"github.com/MinkyAI/reviews-platform-sub001/internal/service"
	transport "github.com/MinkyAI/reviews-platform-sub001/internal/transport/http"
	"github.com/MinkyAI/reviews-platform-sub001/internal/transport/mail"
)

func main() {
	cfg := config.Load()

	if cfg.LogstashTCPAddr != "" {
		writer, err := logging.NewLogstashWriter(cfg.LogstashTCPAddr)
		if err != nil {
			log.Printf("logstash disabled: %v", err)
		} else {
			defer writer.Close()
			log.SetOutput(io.MultiWriter(os.Stdout, writer))
		}
	}

	db, err := postgres.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer db.Close()

	minioClient, err := miniorepo.NewClient(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOUseSSL)
	if err != nil {
		log.Fatalf("connect minio: %v", err)
	}
	storage := miniorepo.NewStorage(minioClient, cfg.MinIOEndpoint, cfg.MinIOPublicURL, cfg.MinIOUseSSL)

	var limiter ratelimit.Limiter
	if cfg.RedisAddr != "" {
		redisClient := ratelimit.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer redisClient.Close()
		limiter = ratelimit.NewRedisLimiter(redisClient, "auth")
	} else {
		log.Println("redis not configured; credential rate limiting disabled")
	}

	users := postgres.NewUserRepo(db)
	sessions := postgres.NewSessionRepo(db)
	resets := postgres.NewPasswordResetRepo(db)
	clients := postgres.NewClientRepo(db)
	qrCodes := postgres.NewQRCodeRepo(db)
	reviews := postgres.NewReviewRepo(db)

	mailer := mail.NewPasswordResetMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom, cfg.ResetBaseURL)
	provider := identity.NewGoTrueProvider(cfg.AuthProviderURL, cfg.AuthProviderAPIKey, cfg.AuthProviderJWTSecret)

	authService := service.NewAuthService(users, sessions, resets, mailer, parseTTL(cfg.SessionTTL, 24*time.Hour), parseTTL(cfg.ResetTTL, time.Hour))
	adminService := service.NewAdminService(provider, clients, users, reviews)
	clientService := service.NewClientService(clients, users, storage, media.NewImageProcessor(cfg.LogoMaxDimension), cfg.MinIOBucketLogo, cfg.LogoMaxBytes, cfg.LogoMaxDimension)
	qrService := service.NewQRService(qrCodes, clients)
	reviewService := service.NewReviewService(reviews, qrCodes)

	e := transport.NewRouter(cfg.AllowOrigins)

	loginLimit := transport.RateLimit(limiter, "login", cfg.LoginRateLimit, time.Minute)
	resetLimit := transport.RateLimit(limiter, "reset", cfg.ResetRateLimit, time.Minute)

	transport.RegisterPortalAuth(e, authService, clientService, loginLimit, resetLimit)
	transport.RegisterClients(e, authService, clientService)
	transport.RegisterQRCodes(e, authService, qrService)
	transport.RegisterReviews(e, authService, reviewService, qrService)
	transport.RegisterAdmin(e, adminService, loginLimit)
	transport.RegisterSwagger(e)

	e.Logger.Fatal(e.Start(":" + cfg.Port))
}

func parseTTL(raw string, fallback time.Duration) time.Duration {
	ttl, err := time.ParseDuration(raw)
	if err != nil || ttl <= 0 {
		return fallback
	}
	return ttl
}
