package statistics

import (
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/scrivehq/scrive/app/models"
	"github.com/scrivehq/scrive/internal/pkg/cache"
	"github.com/scrivehq/scrive/internal/pkg/database"
)

const (
	CacheKeyGenerationsTotal = "statistics:generations:total"
	CacheKeyGenerationsDaily = "statistics:generations:daily:%s" // Format with date YYYY-MM-DD
	CacheKeyAccounts         = "statistics:accounts:total"
	CacheExpiration          = 30 * time.Minute
)

// StatisticsData holds the aggregate numbers shown on the public stats endpoint.
type StatisticsData struct {
	TodayGenerations int `json:"today_generations"`
	TotalAccounts    int `json:"total_accounts"`
	TotalGenerations int `json:"total_generations"`
}

var (
	lastCacheUpdate     time.Time
	cacheUpdateMutex    sync.Mutex
	cacheUpdateInterval = 5 * time.Minute
)

// ShouldUpdateCache reports whether the cached aggregates are stale.
func ShouldUpdateCache() bool {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	return time.Since(lastCacheUpdate) > cacheUpdateInterval
}

// UpdateCacheIfNeeded refreshes the cached aggregates when they are stale.
func UpdateCacheIfNeeded() {
	if !ShouldUpdateCache() {
		return
	}
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	if err := UpdateStatisticsCache(); err != nil {
		log.Printf("Failed to update statistics cache: %v", err)
		return
	}
	lastCacheUpdate = time.Now()
}

// UpdateStatisticsCache recomputes the aggregates from the database and
// stores them in Redis.
func UpdateStatisticsCache() error {
	db := database.GetDB()

	var totalGenerations int64
	if err := db.Model(&models.Generation{}).Count(&totalGenerations).Error; err != nil {
		return err
	}

	today := time.Now().Format("2006-01-02")
	var todayGenerations int64
	if err := db.Model(&models.Generation{}).
		Where("DATE(created_at) = ?", today).
		Count(&todayGenerations).Error; err != nil {
		return err
	}

	var totalAccounts int64
	if err := db.Model(&models.Account{}).Count(&totalAccounts).Error; err != nil {
		return err
	}

	if err := cache.Set(CacheKeyGenerationsTotal, strconv.FormatInt(totalGenerations, 10), CacheExpiration); err != nil {
		return err
	}
	dailyKey := fmt.Sprintf(CacheKeyGenerationsDaily, today)
	if err := cache.Set(dailyKey, strconv.FormatInt(todayGenerations, 10), CacheExpiration); err != nil {
		return err
	}
	return cache.Set(CacheKeyAccounts, strconv.FormatInt(totalAccounts, 10), CacheExpiration)
}

// GetStatistics returns the cached aggregates, refreshing them when stale.
func GetStatistics() StatisticsData {
	UpdateCacheIfNeeded()

	data := StatisticsData{}
	if v, err := cache.GetInt(CacheKeyGenerationsTotal); err == nil {
		data.TotalGenerations = v
	}
	dailyKey := fmt.Sprintf(CacheKeyGenerationsDaily, time.Now().Format("2006-01-02"))
	if v, err := cache.GetInt(dailyKey); err == nil {
		data.TodayGenerations = v
	}
	if v, err := cache.GetInt(CacheKeyAccounts); err == nil {
		data.TotalAccounts = v
	}
	return data
}
