package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	os.Setenv("APPENV", "test")
	os.Setenv("APPNAME", "clinic-server-test")
	os.Setenv("APPPORT", "8080")
	os.Setenv("SCHEDULE_TZ", "UTC")
	os.Exit(m.Run())
}

func TestLoadConfigSingleton(t *testing.T) {
	first := LoadConfig()
	assert.NotNil(t, first)
	assert.Equal(t, "test", first.AppEnv)
	assert.Equal(t, "clinic-server-test", first.AppName)
	assert.Equal(t, uint16(8080), first.AppPort)
	assert.Equal(t, "UTC", first.ScheduleTZ)

	// Environment changes after the first load are not picked up.
	os.Setenv("APPNAME", "changed")
	second := LoadConfig()
	assert.Same(t, first, second)
	assert.Equal(t, "clinic-server-test", second.AppName)
}

func TestConnectRedisSkippedInTestEnv(t *testing.T) {
	client, err := ConnectRedis()
	assert.NoError(t, err)
	assert.Nil(t, client)
	assert.Nil(t, GetRedisClient())
}
