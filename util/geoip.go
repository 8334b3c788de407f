package util

import (
	"net"
	"os"
	"sync/atomic"
	"time"

	"github.com/oschwald/geoip2-golang"
	cache "github.com/patrickmn/go-cache"
)

var (
	geoipDB        *geoip2.Reader
	geoipCache     *cache.Cache
	geoipCacheHits int64
	geoipCacheMiss int64
)

// InitGeoIP initializes the local GeoIP2 database reader and an in-memory
// lookup cache. Provide the path to a GeoIP2/GeoLite2 .mmdb file via dbPath
// or the GEOIP_DB_PATH env var. With neither set, initialization is a no-op
// and lookups return empty strings.
func InitGeoIP(dbPath string) error {
	if dbPath == "" {
		dbPath = os.Getenv("GEOIP_DB_PATH")
	}
	if dbPath == "" {
		return nil
	}

	r, err := geoip2.Open(dbPath)
	if err != nil {
		return err
	}
	geoipDB = r
	geoipCache = cache.New(6*time.Hour, 1*time.Hour)
	return nil
}

// CloseGeoIP releases the database reader.
func CloseGeoIP() {
	if geoipDB != nil {
		_ = geoipDB.Close()
		geoipDB = nil
	}
	geoipCache = nil
}

// CountryForIP resolves an IP address to a country name for audit
// enrichment. Unresolvable or private addresses yield an empty string.
func CountryForIP(ipStr string) string {
	if geoipDB == nil || ipStr == "" {
		return ""
	}
	if geoipCache != nil {
		if v, ok := geoipCache.Get(ipStr); ok {
			atomic.AddInt64(&geoipCacheHits, 1)
			if s, ok := v.(string); ok {
				return s
			}
		}
	}
	atomic.AddInt64(&geoipCacheMiss, 1)

	ip := net.ParseIP(ipStr)
	if ip == nil {
		return ""
	}
	record, err := geoipDB.Country(ip)
	if err != nil {
		return ""
	}
	country := record.Country.Names["en"]
	if geoipCache != nil {
		geoipCache.SetDefault(ipStr, country)
	}
	return country
}

// GeoIPCacheStats returns hit/miss counters for the lookup cache.
func GeoIPCacheStats() (hits, misses int64) {
	return atomic.LoadInt64(&geoipCacheHits), atomic.LoadInt64(&geoipCacheMiss)
}
