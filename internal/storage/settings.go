package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrPersistence wraps settings/log file write failures. The in-memory
// state stays authoritative; callers report the error and keep running.
var ErrPersistence = errors.New("persistence failure")

// GuildConfig holds one guild's settings. An empty field means unset;
// everything that depends on an unset field degrades to a no-op.
type GuildConfig struct {
	VoiceChannelID      string `json:"voiceChannelId,omitempty"`
	RoleID              string `json:"roleId,omitempty"`
	LogChannelID        string `json:"logChannelId,omitempty"`
	VoiceLogChannelID   string `json:"voiceLogChannelId,omitempty"`
	MessageLogChannelID string `json:"messageLogChannelId,omitempty"`
}

// VoiceLogTarget returns the channel that receives voice logs: the
// dedicated voice log channel when set, otherwise the shared one.
func (c GuildConfig) VoiceLogTarget() string {
	if c.VoiceLogChannelID != "" {
		return c.VoiceLogChannelID
	}
	return c.LogChannelID
}

// MessageLogTarget returns the channel that receives deleted-message logs.
func (c GuildConfig) MessageLogTarget() string {
	if c.MessageLogChannelID != "" {
		return c.MessageLogChannelID
	}
	return c.LogChannelID
}

func (c GuildConfig) IsZero() bool {
	return c == GuildConfig{}
}

// SettingsStore keeps per-guild configs in memory and mirrors them to a
// single JSON file keyed by guild id. The file is read whole at open and
// rewritten whole on each mutation. An empty path keeps the store
// memory-only, which the tests rely on.
type SettingsStore struct {
	mu      sync.Mutex
	path    string
	configs map[string]GuildConfig
}

func OpenSettings(path string) (*SettingsStore, error) {
	store := &SettingsStore{path: path, configs: make(map[string]GuildConfig)}
	if path == "" {
		return store, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return store, nil
		}
		return nil, err
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &store.configs); err != nil {
			return nil, fmt.Errorf("settings file %s: %w", path, err)
		}
	}
	return store, nil
}

// Get returns an immutable snapshot of the guild's config. A guild with
// no config yields the zero value, not an error.
func (s *SettingsStore) Get(guildID string) GuildConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.configs[guildID]
}

// Update applies mutate to the guild's config under the store lock, so
// two racing admin commands for the same guild can never lose a write.
// The entry is created lazily and removed again if mutate leaves it
// empty. A persistence failure leaves the in-memory update applied.
func (s *SettingsStore) Update(guildID string, mutate func(*GuildConfig)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.configs[guildID]
	mutate(&cfg)
	if cfg.IsZero() {
		delete(s.configs, guildID)
	} else {
		s.configs[guildID] = cfg
	}
	return s.save()
}

// Reset deletes the guild's config wholesale.
func (s *SettingsStore) Reset(guildID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.configs, guildID)
	return s.save()
}

func (s *SettingsStore) save() error {
	if s.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(s.configs, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}
