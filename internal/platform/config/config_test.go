package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv(t *testing.T) {
	t.Run("requires DATABASE_URL", func(t *testing.T) {
		_, err := FromEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DATABASE_URL")
	})

	t.Run("applies defaults", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/rollcall")
		cfg, err := FromEnv()
		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.Addr)
		assert.Equal(t, 3, cfg.AttemptLimit)
		assert.Equal(t, 30*time.Minute, cfg.CheckInWindow)
		assert.Equal(t, 30*time.Minute, cfg.CheckOutWindow)
		assert.Equal(t, 5*time.Second, cfg.VerifyTimeout)
		assert.Empty(t, cfg.KafkaBrokers)
	})

	t.Run("parses overrides", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/rollcall")
		t.Setenv("ROLLCALL_ADDR", ":9090")
		t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
		t.Setenv("VERIFY_ATTEMPT_LIMIT", "5")
		t.Setenv("CHECKIN_WINDOW_MINUTES", "45")
		t.Setenv("VERIFY_TIMEOUT", "2s")

		cfg, err := FromEnv()
		require.NoError(t, err)
		assert.Equal(t, ":9090", cfg.Addr)
		assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
		assert.Equal(t, 5, cfg.AttemptLimit)
		assert.Equal(t, 45*time.Minute, cfg.CheckInWindow)
		assert.Equal(t, 2*time.Second, cfg.VerifyTimeout)
	})

	t.Run("rejects bad attempt limit", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/rollcall")
		t.Setenv("VERIFY_ATTEMPT_LIMIT", "zero")
		_, err := FromEnv()
		assert.Error(t, err)
	})
}
