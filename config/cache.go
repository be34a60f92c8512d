package config

import "main/utils"

type CacheConfig struct {
	RedisURL string
}

func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		RedisURL: utils.GetEnvAsString("REDIS_URL", "redis://localhost:6379/0"),
	}
}
