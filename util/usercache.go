package util

import (
	"container/list"
	"sync"

	"gorm.io/gorm"
)

// LRU cache for userID -> email, used by the audit logger so request logging
// does not hit the users table on every call.

type userEntry struct {
	userID uint
	email  string
}

type userLRU struct {
	mu       sync.Mutex
	ll       *list.List
	cache    map[uint]*list.Element
	capacity int
}

var userCache *userLRU

// InitUserEmailCache initializes the LRU cache with the given capacity.
// If capacity <= 0, a default of 1000 is used.
func InitUserEmailCache(capacity int) {
	if capacity <= 0 {
		capacity = 1000
	}
	userCache = &userLRU{
		ll:       list.New(),
		cache:    make(map[uint]*list.Element),
		capacity: capacity,
	}
}

// UserEmailCacheGet returns the email and true if present in the cache.
func UserEmailCacheGet(userID uint) (string, bool) {
	if userCache == nil {
		return "", false
	}
	userCache.mu.Lock()
	defer userCache.mu.Unlock()
	if ele, ok := userCache.cache[userID]; ok {
		userCache.ll.MoveToFront(ele)
		if e, ok := ele.Value.(userEntry); ok {
			return e.email, true
		}
	}
	return "", false
}

// UserEmailCacheSet sets the email for a userID, evicting the least recently
// used entry when over capacity.
func UserEmailCacheSet(userID uint, email string) {
	if userCache == nil {
		return
	}
	userCache.mu.Lock()
	defer userCache.mu.Unlock()
	if ele, ok := userCache.cache[userID]; ok {
		userCache.ll.MoveToFront(ele)
		ele.Value = userEntry{userID: userID, email: email}
		return
	}
	ele := userCache.ll.PushFront(userEntry{userID: userID, email: email})
	userCache.cache[userID] = ele
	if userCache.ll.Len() > userCache.capacity {
		oldest := userCache.ll.Back()
		if oldest != nil {
			userCache.ll.Remove(oldest)
			if e, ok := oldest.Value.(userEntry); ok {
				delete(userCache.cache, e.userID)
			}
		}
	}
}

// UserEmailCacheInvalidate drops a single user from the cache.
func UserEmailCacheInvalidate(userID uint) {
	if userCache == nil {
		return
	}
	userCache.mu.Lock()
	defer userCache.mu.Unlock()
	if ele, ok := userCache.cache[userID]; ok {
		userCache.ll.Remove(ele)
		delete(userCache.cache, userID)
	}
}

// ResolveUserEmail returns a user's email, consulting the cache first and
// falling back to the database.
func ResolveUserEmail(db *gorm.DB, userID uint) string {
	if userID == 0 {
		return ""
	}
	if email, ok := UserEmailCacheGet(userID); ok {
		return email
	}
	if db == nil {
		return ""
	}
	var email string
	if err := db.Table("users").Select("email").Where("id = ?", userID).Scan(&email).Error; err != nil {
		return ""
	}
	if email != "" {
		UserEmailCacheSet(userID, email)
	}
	return email
}
