package domain

import "time"

type HealthStatus struct {
	DatabaseHealthy bool      `json:"database_healthy"`
	RedisHealthy    bool      `json:"redis_healthy"`
	ServerTime      time.Time `json:"server_time"`
}
