package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"autocare/internal/models"
)

// LatestSampleStore caches the newest telemetry record per vehicle for quick
// dashboard reads.
type LatestSampleStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLatestSampleStore returns redis-backed store.
func NewLatestSampleStore(client *redis.Client, ttl time.Duration) *LatestSampleStore {
	return &LatestSampleStore{client: client, ttl: ttl}
}

func (s *LatestSampleStore) key(vehicleID int64) string {
	return fmt.Sprintf("telemetry:latest:%d", vehicleID)
}

// Save caches the record as the vehicle's newest.
func (s *LatestSampleStore) Save(ctx context.Context, record models.TelemetryRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(record.Sample.VehicleID), data, s.ttl).Err()
}

// Get returns the cached newest record for the vehicle.
func (s *LatestSampleStore) Get(ctx context.Context, vehicleID int64) (*models.TelemetryRecord, error) {
	result, err := s.client.Get(ctx, s.key(vehicleID)).Result()
	if err != nil {
		return nil, err
	}
	var record models.TelemetryRecord
	if err := json.Unmarshal([]byte(result), &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// Delete drops the cached record, used after a flush.
func (s *LatestSampleStore) Delete(ctx context.Context, vehicleID int64) error {
	return s.client.Del(ctx, s.key(vehicleID)).Err()
}
