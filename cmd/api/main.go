package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"consentform/internal/config"
	"consentform/internal/handler"
	"consentform/internal/infra/db"
	infraRepo "consentform/internal/infra/repository"
	"consentform/internal/server"
	consent "consentform/internal/usecase/consent_usecase"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

func main() {
	logger := log.New("consent")
	logger.SetLevel(log.INFO)

	//.envは任意
	if err := godotenv.Load(); err != nil {
		logger.Infof(".env not loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal(err)
	}

	//未設定など運用者向けの警告
	for _, msg := range cfg.Diagnostics(time.Now()) {
		logger.Warn(msg)
	}

	store, err := buildStore(cfg, logger)
	if err != nil {
		logger.Fatal(err)
	}

	//Usecase生成
	factory := consent.NewFactory(store,
		consent.WithSimulatedDelay(cfg.SimulatedDelay),
		consent.WithLogger(logger),
	)
	sessions := consent.NewSessionRegistry(factory, cfg.SessionTTL, &uuidGenerator{}, &realClock{})

	//Handler生成
	h := handler.NewConsentHandler(sessions, factory, string(cfg.StoreMode()))

	e := server.New(h, sessions, server.Options{
		Logger:      logger,
		AllowOrigin: cfg.FEURL,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sweepSessions(ctx, sessions, cfg.SessionTTL, logger)

	//Server起動
	logger.Infoj(log.JSON{
		"msg":   "listening",
		"addr":  cfg.Port,
		"store": string(cfg.StoreMode()),
		"env":   cfg.GoEnv,
	})
	if err := server.Start(ctx, cfg.Port, e); err != nil {
		logger.Fatal(err)
	}
}

// 設定に応じて保存先を作る
func buildStore(cfg config.Config, logger *log.Logger) (consent.Store, error) {
	switch cfg.StoreMode() {
	case config.StoreModeDatabase:
		gormDB, err := db.Connect(cfg.DatabaseURL)
		if err != nil {
			return consent.Store{}, err
		}
		if cfg.AutoMigrate {
			if err := db.Migrate(gormDB); err != nil {
				return consent.Store{}, err
			}
		}
		return consent.ConfiguredStore(infraRepo.NewConsentGormRepository(gormDB, logger)), nil

	case config.StoreModeRemote:
		restRepo, err := infraRepo.NewConsentRestRepository(cfg.SupabaseURL, cfg.SupabaseAnonKey)
		if err != nil {
			return consent.Store{}, err
		}
		return consent.ConfiguredStore(restRepo), nil

	default:
		return consent.UnavailableStore(), nil
	}
}

// 期限切れセッションを定期的に消す
func sweepSessions(ctx context.Context, sessions *consent.SessionRegistry, ttl time.Duration, logger *log.Logger) {
	interval := ttl / 2
	if interval < time.Minute {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sessions.Sweep(); n > 0 {
				logger.Debugj(log.JSON{"msg": "expired sessions removed", "count": n})
			}
		}
	}
}
