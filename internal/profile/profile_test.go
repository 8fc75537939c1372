package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var timewalkEnvVars = []string{
	"TIMEWALK_MODE",
	"TIMEWALK_ADDR",
	"TIMEWALK_PORT",
	"TIMEWALK_DATA",
	"TIMEWALK_DSN",
	"TIMEWALK_DRIVER",
	"TIMEWALK_TIMEZONE",
	"TIMEWALK_RATE_LIMIT_RPS",
	"TIMEWALK_MAX_PARALLEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range timewalkEnvVars {
		os.Unsetenv(key)
	}
}

func TestValidate_Defaults(t *testing.T) {
	clearEnv(t)

	p := &Profile{}
	p.FromEnv()
	require.NoError(t, p.Validate())

	assert.Equal(t, "dev", p.Mode)
	assert.True(t, p.IsDev())
	assert.Equal(t, 8230, p.Port)
	assert.Equal(t, "sqlite", p.Driver)
	assert.Equal(t, filepath.Join(".", "timewalk_dev.db"), p.DSN)
	assert.Equal(t, "UTC", p.DefaultTimezone)
	assert.Equal(t, 20.0, p.RateLimitRPS)
	assert.Equal(t, 8, p.MaxParallel)
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("TIMEWALK_MODE", "prod")
	t.Setenv("TIMEWALK_PORT", "9000")
	t.Setenv("TIMEWALK_DRIVER", "none")
	t.Setenv("TIMEWALK_TIMEZONE", "Asia/Shanghai")
	t.Setenv("TIMEWALK_RATE_LIMIT_RPS", "5.5")

	p := &Profile{}
	p.FromEnv()
	require.NoError(t, p.Validate())

	assert.Equal(t, "prod", p.Mode)
	assert.False(t, p.IsDev())
	assert.Equal(t, 9000, p.Port)
	assert.Equal(t, "none", p.Driver)
	assert.Empty(t, p.DSN, "no DSN is derived for the none driver")
	assert.Equal(t, "Asia/Shanghai", p.DefaultTimezone)
	assert.Equal(t, 5.5, p.RateLimitRPS)
}

func TestValidate_RejectsUnknownDriver(t *testing.T) {
	p := &Profile{Driver: "postgres"}
	assert.Error(t, p.Validate())
}
