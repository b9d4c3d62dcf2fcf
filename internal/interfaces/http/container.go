// Package http wires the application together and serves it over gin.
package http

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"maven/internal/application/permission"
	settingapp "maven/internal/application/setting"
	"maven/internal/application/user/usecases"
	"maven/internal/domain/setting"
	"maven/internal/infrastructure/auth"
	"maven/internal/infrastructure/cache"
	"maven/internal/infrastructure/config"
	"maven/internal/infrastructure/ratelimit"
	"maven/internal/infrastructure/repository"
	"maven/internal/interfaces/http/handlers"
	"maven/internal/interfaces/http/middleware"
	"maven/internal/shared/logger"
)

// Container holds every constructed component. Built once at startup.
type Container struct {
	AuthHandler       *handlers.AuthHandler
	PasskeyHandler    *handlers.PasskeyHandler
	PermissionHandler *handlers.PermissionHandler
	SettingHandler    *handlers.SettingHandler
	ProvisionHandler  *handlers.ProvisionHandler
	AdminUserHandler  *handlers.AdminUserHandler
	AuthMiddleware    *middleware.AuthMiddleware
	SettingService    *settingapp.Service
}

// NewContainer builds the full dependency graph.
func NewContainer(cfg *config.Config, db *gorm.DB, log logger.Interface) (*Container, error) {
	userRepo := repository.NewUserRepository(db, log)
	passkeyRepo := repository.NewPasskeyCredentialRepository(db, log)
	seriesRepo := repository.NewSeriesRepository(db, log)
	unitRepo := repository.NewUnitRepository(db, log)
	grantRepo := repository.NewEditGrantRepository(db, log)
	settingRepo := repository.NewSettingRepository(db, log)

	hasher := auth.NewBcryptPasswordHasher(cfg.Auth.Password.BcryptCost)

	jwtService, err := auth.NewJWTService(
		cfg.Auth.JWT.PrivateKeyPEM,
		cfg.Auth.JWT.Issuer,
		tokenExpiryProvider(settingRepo),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	webAuthnService, err := auth.NewWebAuthnService(cfg.Auth.WebAuthn, cfg.Server.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create WebAuthn service: %w", err)
	}

	var challengeStore cache.ChallengeStore
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		challengeStore = cache.NewRedisChallengeStore(client)
	} else {
		challengeStore = cache.NewMemoryChallengeStore()
	}

	defaults := setting.DefaultAuthSettings()
	limiter := ratelimit.NewMemoryLoginLimiter(ratelimit.Policy{
		MaxAttempts: defaults.MaxLoginAttempts,
		Lockout:     defaults.LockoutDuration(),
	})

	botChallenge := auth.NewBotChallengeValidator("", log)
	provisionVerifier := auth.NewProvisionTokenVerifier(cfg.Auth.Provision.Secret)

	settingService := settingapp.NewService(settingRepo, limiter, log)
	if err := settingService.ApplyPolicy(context.Background()); err != nil {
		// Defaults were already pushed at construction; a failed read here is
		// worth noting but not fatal.
		log.Warnw("failed to apply stored lockout policy", "error", err)
	}

	permissionService := permission.NewService(seriesRepo, unitRepo, grantRepo, userRepo, log)

	loginUC := usecases.NewLoginWithPasswordUseCase(userRepo, settingRepo, hasher, jwtService, limiter, botChallenge, log)
	registerUC := usecases.NewRegisterWithPasswordUseCase(userRepo, settingRepo, hasher, jwtService, botChallenge, log)
	changePasswordUC := usecases.NewChangePasswordUseCase(userRepo, hasher, log)
	provisionUC := usecases.NewProvisionExternalUseCase(userRepo, settingRepo, provisionVerifier, jwtService, log)
	setPasswordLoginUC := usecases.NewSetPasswordLoginUseCase(userRepo, log)

	startRegUC := usecases.NewStartPasskeyRegistrationUseCase(userRepo, passkeyRepo, webAuthnService, challengeStore, log)
	finishRegUC := usecases.NewFinishPasskeyRegistrationUseCase(userRepo, passkeyRepo, webAuthnService, challengeStore, log)
	startAuthUC := usecases.NewStartPasskeyAuthenticationUseCase(userRepo, passkeyRepo, webAuthnService, challengeStore, log)
	finishAuthUC := usecases.NewFinishPasskeyAuthenticationUseCase(userRepo, passkeyRepo, settingRepo, webAuthnService, challengeStore, jwtService, log)
	managePasskeysUC := usecases.NewManagePasskeysUseCase(passkeyRepo, log)

	return &Container{
		AuthHandler:       handlers.NewAuthHandler(loginUC, registerUC, changePasswordUC, jwtService, userRepo, log),
		PasskeyHandler:    handlers.NewPasskeyHandler(startRegUC, finishRegUC, startAuthUC, finishAuthUC, managePasskeysUC, log),
		PermissionHandler: handlers.NewPermissionHandler(permissionService, userRepo, log),
		SettingHandler:    handlers.NewSettingHandler(settingService, log),
		ProvisionHandler:  handlers.NewProvisionHandler(provisionUC, log),
		AdminUserHandler:  handlers.NewAdminUserHandler(setPasswordLoginUC, log),
		AuthMiddleware:    middleware.NewAuthMiddleware(jwtService, log),
		SettingService:    settingService,
	}, nil
}

// tokenExpiryProvider reads the token lifetime from the settings record per
// token, so admin changes apply without a restart.
func tokenExpiryProvider(settingRepo setting.Repository) auth.ExpiryProvider {
	return func() time.Duration {
		settings, err := settingRepo.GetAuth(context.Background())
		if err != nil {
			return setting.DefaultAuthSettings().TokenExpiry()
		}
		return settings.TokenExpiry()
	}
}
