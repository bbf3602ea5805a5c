package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"advance-auth/cmd"
	"advance-auth/internal/data/repository"
	"advance-auth/internal/usecase"
	"advance-auth/internal/wire"
	"advance-auth/pkg/clock"
	"advance-auth/pkg/database"
	"advance-auth/pkg/hash"
	"advance-auth/pkg/mail"
	"advance-auth/pkg/token"
	"advance-auth/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig(".env")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	if err := run(config, logger); err != nil {
		logger.Error("Application stopped with error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(config *utils.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("env", config.App.Env),
		zap.String("port", config.App.Port),
		zap.String("store", config.Store.Driver),
		zap.Bool("debug", config.App.Debug),
	)

	// Credential store
	userRepo, closeStore, err := openUserStore(ctx, config, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := userRepo.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate store: %w", err)
	}

	// Redis is optional; without it attempts are not limited and logout
	// only clears the cookie.
	var repos *repository.Repository
	if config.Redis.Enabled() {
		rdb, err := database.ConnectRedis(ctx, config.Redis)
		if err != nil {
			return err
		}
		defer rdb.Close()
		logger.Info("Redis connected", zap.String("addr", config.Redis.Addr))
		repos = repository.NewRepository(userRepo, rdb, logger)
	} else {
		logger.Warn("REDIS_ADDR not set; attempt limits and session revocation are disabled")
		repos = repository.NewRepository(userRepo, nil, logger)
	}

	// Mail
	var provider mail.Mail
	if config.Email.Host == "" {
		logger.Warn("SMTP_HOST not set; emails will be dropped")
		provider = mail.NewLogMail(logger)
	} else {
		provider, err = mail.NewSMTP(mail.SMTPConfig{
			Host:     config.Email.Host,
			Port:     config.Email.Port,
			Username: config.Email.User,
			Password: config.Email.Password,
			From:     config.Email.From,
		})
		if err != nil {
			return fmt.Errorf("init smtp: %w", err)
		}
	}
	dispatcher := mail.NewDispatcher(provider, logger)
	defer func() {
		if err := dispatcher.Close(); err != nil {
			logger.Warn("Failed to close mailer", zap.Error(err))
		}
	}()

	// Tokens
	clk := clock.New()
	issuer, err := token.NewHS256([]byte(config.JWT.Secret), config.JWT.TTL(), clk)
	if err != nil {
		return fmt.Errorf("init token issuer: %w", err)
	}

	app := wire.Wiring(ctx, repos, config, usecase.Deps{
		Hasher: hash.NewBcrypt(config.Password.BcryptCost, config.Password.Pepper),
		Tokens: issuer,
		Mailer: dispatcher,
		Clock:  clk,
		NewOTP: utils.GenerateOTP,
	}, logger)

	return cmd.APIServer(ctx, app.Router, config.App.Port, logger)
}

func openUserStore(ctx context.Context, config *utils.Config, logger *zap.Logger) (repository.UserRepository, func(), error) {
	switch config.Store.Driver {
	case utils.StorePostgres:
		db, err := database.InitDB(ctx, config.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		logger.Info("Database connected successfully", zap.String("driver", utils.StorePostgres))
		return repository.NewPostgresUserRepository(db, logger), db.Close, nil

	default:
		mdb, client, err := database.ConnectMongo(ctx, config.Mongo)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Database connected successfully", zap.String("driver", utils.StoreMongo))
		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Warn("Failed to disconnect mongo", zap.Error(err))
			}
		}
		return repository.NewMongoUserRepository(mdb, logger), closeFn, nil
	}
}
