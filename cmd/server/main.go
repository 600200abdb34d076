package main

import (
	"log"

	"datadvisor_backend/internal/app/router"
	authadapters "datadvisor_backend/internal/feature/auth/adapters"
	authhandler "datadvisor_backend/internal/feature/auth/transport/handler"
	authmw "datadvisor_backend/internal/feature/auth/transport/middleware"
	authusecase "datadvisor_backend/internal/feature/auth/usecase"
	confirmhandler "datadvisor_backend/internal/feature/emailconfirm/transport/handler"
	confirmusecase "datadvisor_backend/internal/feature/emailconfirm/usecase"
	resethandler "datadvisor_backend/internal/feature/resetpassword/transport/handler"
	resetusecase "datadvisor_backend/internal/feature/resetpassword/usecase"
	usershandler "datadvisor_backend/internal/feature/users/transport/handler"
	usersusecase "datadvisor_backend/internal/feature/users/usecase"
	"datadvisor_backend/internal/platform/config"
	"datadvisor_backend/internal/platform/db"
	"datadvisor_backend/internal/platform/mail"
	infraredis "datadvisor_backend/internal/platform/redis"
	"datadvisor_backend/internal/platform/session"
	"datadvisor_backend/internal/platform/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// db
	gormDB := db.OpenDB()

	// Redis（セッションストア。セッションはRedis必須）
	rdb, err := infraredis.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Fatal("Redis unavailable: ", err)
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Println("[ERROR] Failed to close Redis client:", err)
		}
	}()

	// Platform
	signer := token.NewSigner()
	mailer, err := mail.NewMailer(cfg.Email)
	if err != nil {
		log.Fatal(err)
	}

	// Repository
	userRepo := authadapters.NewUserPostgres(gormDB)
	sessionRepo := session.NewSessionRedis(rdb, "session")

	// Usecase
	confirmUC := confirmusecase.NewConfirmationUsecase(userRepo, signer, mailer,
		cfg.ConfirmationTokenSecret, cfg.ConfirmationTokenTTL, cfg.FrontendURL)
	authUC := authusecase.NewAuthUsecase(userRepo, sessionRepo, confirmUC,
		cfg.SaltRounds, cfg.SessionMaxAge)
	resetUC := resetusecase.NewResetUsecase(userRepo, signer, mailer,
		cfg.ResetTokenSecret, cfg.ResetTokenTTL, cfg.SaltRounds, cfg.FrontendURL)
	usersUC := usersusecase.NewUsersUsecase(userRepo, cfg.SaltRounds)

	// Handler
	cookie := authhandler.CookieOptions{
		MaxAge:   cfg.SessionMaxAge,
		Secure:   cfg.SessionSecure,
		HTTPOnly: cfg.SessionHTTPOnly,
	}
	handlers := router.Handlers{
		Auth:          authhandler.NewAuthHandler(authUC, cookie),
		Confirmations: confirmhandler.NewConfirmationHandler(confirmUC),
		Resets:        resethandler.NewResetHandler(resetUC),
		Users:         usershandler.NewUsersHandler(usersUC),
	}

	// Guard（セッションCookieによる認証・認可）
	guard := authmw.NewGuard(sessionRepo, userRepo)

	// ルータ生成
	r := router.NewRouter(handlers, guard)

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
