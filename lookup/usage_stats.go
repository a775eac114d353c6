package lookup

import (
	"encoding/json"
	"sync"
	"time"
)

// UsageStats collects a usage statistics of the provider.
type UsageStats struct {
	Name string

	mutex        sync.Mutex
	lastUsed     time.Time
	successCount uint64
	failureCount uint64
	cacheHits    uint64
	cacheMisses  uint64
}

// Used registers a result of provider lookup.
func (u *UsageStats) Used(err error) {
	now := time.Now()

	u.mutex.Lock()
	defer u.mutex.Unlock()

	u.lastUsed = now

	if err == nil {
		u.successCount++
	} else {
		u.failureCount++
	}
}

func (u *UsageStats) setCacheStats(stats CacheStats) {
	u.mutex.Lock()
	defer u.mutex.Unlock()

	u.cacheHits = stats.Hits
	u.cacheMisses = stats.Misses
}

func (u *UsageStats) MarshalJSON() ([]byte, error) {
	var lastUsedTime int64

	u.mutex.Lock()

	if !u.lastUsed.IsZero() {
		lastUsedTime = u.lastUsed.Unix()
	}

	rawStruct := struct {
		Name         string `json:"name"`
		LastUsed     int64  `json:"last_used"`
		SuccessCount uint64 `json:"success_count"`
		FailureCount uint64 `json:"failure_count"`
		CacheHits    uint64 `json:"cache_hits"`
		CacheMisses  uint64 `json:"cache_misses"`
	}{
		Name:         u.Name,
		LastUsed:     lastUsedTime,
		SuccessCount: u.successCount,
		FailureCount: u.failureCount,
		CacheHits:    u.cacheHits,
		CacheMisses:  u.cacheMisses,
	}

	u.mutex.Unlock()

	return json.Marshal(&rawStruct)
}
