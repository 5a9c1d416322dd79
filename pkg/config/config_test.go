package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, "clerkship_scheduler", cfg.Database.Name)
	assert.True(t, cfg.Scheduler.Enabled)
	assert.Equal(t, time.Hour, cfg.Scheduler.RunTTL)
	assert.Equal(t, 1, cfg.Scheduler.Workers)
	assert.Equal(t, 30*time.Second, cfg.Scheduler.DrainTimeout)
	assert.Equal(t, 2, cfg.Scheduler.DefaultMaxPerDay)
	assert.Equal(t, 20, cfg.Scheduler.DefaultMaxPerYear)
	assert.Nil(t, cfg.CORS.AllowedOrigins)
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("SCHEDULER_WORKERS", 0)
	v.Set("SCHEDULER_RUN_TTL", "not-a-duration")
	v.Set("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	v.Set("JWT_EXPIRATION", "2h")

	cfg := fromViper(v)

	assert.Equal(t, 1, cfg.Scheduler.Workers)
	assert.Equal(t, time.Hour, cfg.Scheduler.RunTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 2*time.Hour, cfg.JWT.Expiration)
}
