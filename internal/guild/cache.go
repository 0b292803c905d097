package guild

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/EconomyBot_Go/internal/domain"
)

// CacheSchemaVersion invalidates cached entries when GuildSettings changes shape.
const CacheSchemaVersion = "1.0"

type cachedSettings struct {
	Version  string
	Settings domain.GuildSettings
	CachedAt time.Time
}

// settingsCache is a read-through LRU of guild settings with a TTL so that
// edits made by another process show up eventually.
type settingsCache struct {
	lru *expirable.LRU[string, *cachedSettings]
}

func newSettingsCache(size int, ttl time.Duration) *settingsCache {
	return &settingsCache{
		lru: expirable.NewLRU[string, *cachedSettings](size, nil, ttl),
	}
}

// Get returns a copy of the cached settings.
func (c *settingsCache) Get(guildID string) (domain.GuildSettings, bool) {
	entry, found := c.lru.Get(guildID)
	if !found {
		return domain.GuildSettings{}, false
	}
	if entry.Version != CacheSchemaVersion {
		c.lru.Remove(guildID)
		return domain.GuildSettings{}, false
	}
	return entry.Settings, true
}

func (c *settingsCache) Set(settings domain.GuildSettings) {
	c.lru.Add(settings.GuildID, &cachedSettings{
		Version:  CacheSchemaVersion,
		Settings: settings,
		CachedAt: time.Now(),
	})
}

func (c *settingsCache) Invalidate(guildID string) {
	c.lru.Remove(guildID)
}

func (c *settingsCache) Clear() {
	c.lru.Purge()
}
