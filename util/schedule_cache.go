package util

import (
	"fmt"
	"time"

	cache "github.com/patrickmn/go-cache"
)

// Short-lived cache for weekly schedule responses. The aggregator is a pure
// read, so a stale entry is at worst a few seconds behind; any appointment
// mutation touching a doctor invalidates that doctor's entry.

var scheduleCache = cache.New(30*time.Second, 1*time.Minute)

func scheduleKey(doctorID uint) string {
	return fmt.Sprintf("weekly:%d", doctorID)
}

// ScheduleCacheGet returns the cached weekly schedule for a doctor, if any.
func ScheduleCacheGet(doctorID uint) (interface{}, bool) {
	return scheduleCache.Get(scheduleKey(doctorID))
}

// ScheduleCacheSet stores a doctor's weekly schedule response.
func ScheduleCacheSet(doctorID uint, payload interface{}) {
	scheduleCache.SetDefault(scheduleKey(doctorID), payload)
}

// ScheduleCacheInvalidate drops a doctor's cached schedule.
func ScheduleCacheInvalidate(doctorID uint) {
	scheduleCache.Delete(scheduleKey(doctorID))
}

// ScheduleCacheFlush clears the whole cache; used by tests.
func ScheduleCacheFlush() {
	scheduleCache.Flush()
}
