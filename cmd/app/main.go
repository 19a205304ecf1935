package main

import (
	"log/slog"
	"os"
	"sync"

	"github.com/sushihentaime/blogapi/internal/blogservice"
	"github.com/sushihentaime/blogapi/internal/common"
	"github.com/sushihentaime/blogapi/internal/mailservice"
	"github.com/sushihentaime/blogapi/internal/userservice"
)

type application struct {
	config      *Config
	logger      *slog.Logger
	userService *userservice.UserService
	blogService *blogservice.BlogService
	mailService *mailservice.MailService
	broker      *common.MessageBroker
	limiters    *common.Cache
	limitersMu  sync.Mutex
}

func newLogger(environment string) *slog.Logger {
	if environment == "development" {
		return slog.New(slog.NewTextHandler(os.Stdout, nil))
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}

func main() {
	// Load the configuration
	cfg, err := loadConfig(".env")
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize the logger
	logger := newLogger(cfg.Environment)

	dsn, err := common.DSNWithDatabase(cfg.DatabaseURL, cfg.DatabaseName)
	if err != nil {
		logger.Error("invalid database configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.MigrationsSource != "" {
		err = common.Migrate(cfg.MigrationsSource, dsn)
		if err != nil {
			logger.Error("failed to run migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	// Initialize the database
	db, err := common.NewDB(dsn, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBMaxIdleTime)
	if err != nil {
		logger.Error("failed to connect to the database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer common.CloseDB(db)

	tokens, err := userservice.NewTokenService(userservice.TokenConfig{Secret: cfg.JWTSecret, TTL: cfg.JWTTTL})
	if err != nil {
		logger.Error("failed to create the token service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	app := &application{
		config: cfg,
		logger: logger,
	}

	// The message broker is optional; without it signups publish no events
	var producer common.MessageProducer
	if cfg.RabbitMQURL != "" {
		broker, err := common.NewMessageBroker(cfg.RabbitMQURL)
		if err != nil {
			logger.Error("failed to connect to the message broker", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer broker.Close()

		// Setup the exchange, queue, and binding key
		err = common.SetupUserExchange(broker)
		if err != nil {
			logger.Error("failed to setup the user exchange", slog.String("error", err.Error()))
			os.Exit(1)
		}

		app.broker = broker
		producer = broker
	}

	// Initialize the services
	app.userService = userservice.NewUserService(db, tokens, producer, logger)
	app.blogService = blogservice.NewBlogService(db, app.userService)

	if app.broker != nil && cfg.MailHost != "" {
		app.mailService = mailservice.NewMailService(app.broker, mailservice.Config{
			Host:     cfg.MailHost,
			Port:     cfg.MailPort,
			Username: cfg.MailUser,
			Password: cfg.MailPassword,
			Sender:   cfg.MailSender,
		}, logger)

		// Initialize the consumer
		err = app.mailService.SendWelcomeEmail()
		if err != nil {
			logger.Error("failed to start the welcome email consumer", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	// Start the HTTP server
	err = app.serve(cfg.Port)
	if err != nil {
		logger.Error("failed to start the server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
