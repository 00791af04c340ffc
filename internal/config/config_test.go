package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSV(t *testing.T) {
	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"a:9092", "b:9092"}, CSV(" a:9092, ,b:9092 "))
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("LOCK_TIMEOUT", "")
	t.Setenv("ES_INDEX", "")
	t.Setenv("ORDER_EVENTS_TOPIC", "")

	cfg := Load("")

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, 5*time.Second, cfg.LockTimeout)
	assert.Equal(t, "products", cfg.ESIndex)
	assert.Equal(t, "order_events", cfg.OrderEventsTopic)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("LOCK_TIMEOUT", "750ms")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("ADMIN_EMAILS", "ops@dairy.test")
	t.Setenv("CSRF_ENABLED", "true")
	t.Setenv("JWT_SECRET", "access")

	cfg := Load("")

	assert.Equal(t, 9000, cfg.ServerPort)
	assert.Equal(t, 750*time.Millisecond, cfg.LockTimeout)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, []string{"ops@dairy.test"}, cfg.AdminEmails)
	assert.True(t, cfg.CSRFEnabled)
	assert.Equal(t, []byte("access"), cfg.JWTAccessSecret)
}

func TestEnvIntDefault_Invalid(t *testing.T) {
	t.Setenv("SMTP_PORT", "not-a-number")
	assert.Equal(t, 465, EnvIntDefault("SMTP_PORT", 465))
}

func TestValidateServer(t *testing.T) {
	err := Config{JWTAccessSecret: []byte("a")}.ValidateServer()
	require.ErrorIs(t, err, ErrMissingEnv)
	assert.Equal(t, "missing required env DATABASE_URL\nmissing required env JWT_REFRESH_SECRET", err.Error())

	ok := Config{DatabaseURL: "postgres://x", JWTAccessSecret: []byte("a"), JWTRefreshSecret: []byte("r")}
	assert.NoError(t, ok.ValidateServer())
}

func TestValidateNotifier(t *testing.T) {
	err := Config{SMTPHost: "smtp.test"}.ValidateNotifier()
	require.ErrorIs(t, err, ErrMissingEnv)
	assert.Equal(t, "missing required env KAFKA_BROKERS", err.Error())

	assert.NoError(t, Config{KafkaBrokers: []string{"k:9092"}, SMTPHost: "smtp.test"}.ValidateNotifier())
}
