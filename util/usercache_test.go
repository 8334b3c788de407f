package util

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type cacheTestUser struct {
	ID    uint `gorm:"primaryKey"`
	Email string
}

func (cacheTestUser) TableName() string { return "users" }

func TestUserEmailCacheLRUEviction(t *testing.T) {
	InitUserEmailCache(2)

	UserEmailCacheSet(1, "one@test.com")
	UserEmailCacheSet(2, "two@test.com")

	// Touch 1 so 2 becomes the eviction candidate.
	_, ok := UserEmailCacheGet(1)
	assert.True(t, ok)

	UserEmailCacheSet(3, "three@test.com")

	_, ok = UserEmailCacheGet(2)
	assert.False(t, ok)
	email, ok := UserEmailCacheGet(1)
	assert.True(t, ok)
	assert.Equal(t, "one@test.com", email)
	_, ok = UserEmailCacheGet(3)
	assert.True(t, ok)
}

func TestUserEmailCacheInvalidate(t *testing.T) {
	InitUserEmailCache(10)
	UserEmailCacheSet(5, "five@test.com")
	UserEmailCacheInvalidate(5)
	_, ok := UserEmailCacheGet(5)
	assert.False(t, ok)
}

func TestUserEmailCacheUninitialized(t *testing.T) {
	userCache = nil
	defer InitUserEmailCache(0)

	UserEmailCacheSet(1, "one@test.com")
	_, ok := UserEmailCacheGet(1)
	assert.False(t, ok)
}

func TestResolveUserEmailFallsBackToDB(t *testing.T) {
	InitUserEmailCache(10)
	dsn := fmt.Sprintf("file:usercache_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&cacheTestUser{}))
	assert.NoError(t, db.Create(&cacheTestUser{ID: 9, Email: "nine@test.com"}).Error)

	assert.Equal(t, "nine@test.com", ResolveUserEmail(db, 9))

	// Second resolve is served from the cache.
	email, ok := UserEmailCacheGet(9)
	assert.True(t, ok)
	assert.Equal(t, "nine@test.com", email)

	assert.Equal(t, "", ResolveUserEmail(db, 12345))
	assert.Equal(t, "", ResolveUserEmail(nil, 77))
	assert.Equal(t, "", ResolveUserEmail(db, 0))
}
