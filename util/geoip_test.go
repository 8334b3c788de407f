package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeoIPUninitialized(t *testing.T) {
	// Without a database path initialization is a no-op and lookups are
	// empty rather than failing.
	assert.NoError(t, InitGeoIP(""))
	assert.Equal(t, "", CountryForIP("8.8.8.8"))
	assert.Equal(t, "", CountryForIP(""))
	CloseGeoIP()
}

func TestInitGeoIPBadPath(t *testing.T) {
	assert.Error(t, InitGeoIP("/nonexistent/geoip.mmdb"))
}
