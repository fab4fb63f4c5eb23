package config

import (
	"net/url"
	"path"
	"time"

	"github.com/avelkovic/matchpoint/internal/modules/env"

	"go.uber.org/zap"
)

const (
	PortEnv        = "PORT"
	DatabaseUrlEnv = "DATABASE_URL"
	RootPathEnv    = "ROOT_PATH"

	EmailServerHostEnv     = "EMAIL_SERVER_HOST"
	EmailServerUsernameEnv = "EMAIL_SERVER_USERNAME"
	EmailServerPasswordEnv = "EMAIL_SERVER_PASSWORD"
	EmailServerSenderEnv   = "EMAIL_SERVER_SENDER"

	EventCompletionIntervalEnv = "EVENT_COMPLETION_INTERVAL"
	ActivationEmailIntervalEnv = "ACTIVATION_EMAIL_INTERVAL"
)

type EmailConfiguration struct {
	Host     *url.URL
	Username string
	Password string
	Sender   string
}

type PollerConfiguration struct {
	EventCompletionInterval time.Duration
	ActivationEmailInterval time.Duration
}

type Config struct {
	Logger *zap.Logger

	Port           int
	DatabaseURL    string
	MigrationsPath string

	Email   EmailConfiguration
	Pollers PollerConfiguration
}

func Load() (Config, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return Config{}, err
	}

	port := env.MustGetInt(PortEnv)
	dbURL := env.MustGetString(DatabaseUrlEnv)

	rootPath := env.MustGetString(RootPathEnv)

	emailServerURL := env.MustGetURL(EmailServerHostEnv)
	emailServerUsername := env.MustGetString(EmailServerUsernameEnv)
	emailServerPassword := env.MustGetString(EmailServerPasswordEnv)
	emailServerSender := env.MustGetString(EmailServerSenderEnv)

	eventCompletionInterval := env.GetDurationOrDefault(EventCompletionIntervalEnv, time.Minute)
	activationEmailInterval := env.GetDurationOrDefault(ActivationEmailIntervalEnv, 30*time.Second)

	migrationsPath := path.Join(rootPath, "db", "migrations")

	return Config{
		Logger:         logger,
		Port:           port,
		DatabaseURL:    dbURL,
		MigrationsPath: migrationsPath,
		Email: EmailConfiguration{
			Host:     emailServerURL,
			Username: emailServerUsername,
			Password: emailServerPassword,
			Sender:   emailServerSender,
		},
		Pollers: PollerConfiguration{
			EventCompletionInterval: eventCompletionInterval,
			ActivationEmailInterval: activationEmailInterval,
		},
	}, nil
}
