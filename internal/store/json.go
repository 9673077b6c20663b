package store

import (
	"encoding/json"
	"fmt"

	"github.com/amishk599/jobdesk/internal/model"
)

// Storage keys.
const (
	KeyAnthropicAPIKey = "anthropic_api_key"
	KeyAdzunaAppID     = "adzuna_app_id"
	KeyAdzunaAppKey    = "adzuna_app_key"
	KeyApplications    = "applications"
)

// Load decodes the JSON value under key. A missing, unreadable or corrupt
// value yields def.
func Load[T any](kv model.KeyValueStore, key string, def T) T {
	raw, ok, err := kv.Get(key)
	if err != nil || !ok {
		return def
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return def
	}
	return v
}

// Save encodes v as JSON and stores it under key.
func Save(kv model.KeyValueStore, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := kv.Put(key, raw); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	return nil
}
