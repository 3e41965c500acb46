package app

import (
	"sync"
	"time"

	"github.com/spf13/cast"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vendora/salesdesk/internal/domain"
)

const settingsCacheTTL = time.Minute

// ConfigManager reads runtime settings (sys_config rows) with a small
// read-through cache.
type ConfigManager struct {
	db    *gorm.DB
	mu    sync.RWMutex
	cache map[string]cachedValue
}

type cachedValue struct {
	value    string
	loadedAt time.Time
}

func NewConfigManager(db *gorm.DB) *ConfigManager {
	return &ConfigManager{db: db, cache: make(map[string]cachedValue)}
}

func (m *ConfigManager) get(category, name string) string {
	key := category + "." + name

	m.mu.RLock()
	if cached, ok := m.cache[key]; ok && time.Since(cached.loadedAt) < settingsCacheTTL {
		m.mu.RUnlock()
		return cached.value
	}
	m.mu.RUnlock()

	var row domain.SysConfig
	err := m.db.Where("type = ? AND name = ?", category, name).First(&row).Error
	if err != nil {
		zap.L().Debug("setting not found", zap.String("key", key), zap.Error(err))
		return ""
	}

	m.mu.Lock()
	m.cache[key] = cachedValue{value: row.Value, loadedAt: time.Now()}
	m.mu.Unlock()
	return row.Value
}

func (m *ConfigManager) GetString(category, name string) string {
	return m.get(category, name)
}

func (m *ConfigManager) GetInt64(category, name string) int64 {
	return cast.ToInt64(m.get(category, name))
}

func (m *ConfigManager) GetBool(category, name string) bool {
	return cast.ToBool(m.get(category, name))
}
