package config

import (
	"errors"
	"fmt"
)

var ErrMissingEnv = errors.New("missing required env")

type required struct {
	env string
	set bool
}

func check(items ...required) error {
	var errs []error
	for _, it := range items {
		if !it.set {
			errs = append(errs, fmt.Errorf("%w %s", ErrMissingEnv, it.env))
		}
	}
	return errors.Join(errs...)
}

// ValidateServer reports every variable the HTTP server cannot start without.
func (c Config) ValidateServer() error {
	return check(
		required{"DATABASE_URL", c.DatabaseURL != ""},
		required{"JWT_SECRET", len(c.JWTAccessSecret) > 0},
		required{"JWT_REFRESH_SECRET", len(c.JWTRefreshSecret) > 0},
	)
}

func (c Config) ValidateNotifier() error {
	return check(
		required{"KAFKA_BROKERS", len(c.KafkaBrokers) > 0},
		required{"SMTP_HOST", c.SMTPHost != ""},
	)
}
