package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScheduleCache(t *testing.T) {
	ScheduleCacheFlush()

	_, ok := ScheduleCacheGet(1)
	assert.False(t, ok)

	ScheduleCacheSet(1, "payload-1")
	ScheduleCacheSet(2, "payload-2")

	v, ok := ScheduleCacheGet(1)
	assert.True(t, ok)
	assert.Equal(t, "payload-1", v)

	// Invalidation is per doctor.
	ScheduleCacheInvalidate(1)
	_, ok = ScheduleCacheGet(1)
	assert.False(t, ok)
	_, ok = ScheduleCacheGet(2)
	assert.True(t, ok)

	ScheduleCacheFlush()
	_, ok = ScheduleCacheGet(2)
	assert.False(t, ok)
}
