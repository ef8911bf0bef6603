package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	CategoryVoice         = "voice-join-leave"
	CategorySelfMute      = "self-mute"
	CategoryModMute       = "mod-mute"
	CategoryMessageDelete = "message-delete"
)

const defaultQueryLimit = 10

// LogEntry is one recorded line of guild activity. Entries are appended
// in chronological order and never mutated.
type LogEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"ts"`
	Category  string    `json:"category"`
	GuildID   string    `json:"guildId"`
	Text      string    `json:"text"`
}

// Retention bounds the per-(guild, category) logs. Zero values disable
// the respective bound.
type Retention struct {
	MaxEntries int
	MaxAge     time.Duration
}

// LogStore holds ordered, append-only logs per guild and category,
// mirrored to a single JSON file the same way SettingsStore mirrors
// configs. Entries only ever leave through retention pruning or a
// guild-level purge, both of which preserve order.
type LogStore struct {
	mu        sync.Mutex
	path      string
	retention Retention
	logs      map[string]map[string][]LogEntry
}

func OpenLogs(path string, retention Retention) (*LogStore, error) {
	store := &LogStore{
		path:      path,
		retention: retention,
		logs:      make(map[string]map[string][]LogEntry),
	}
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
		if err := json.Unmarshal(data, &store.logs); err != nil {
			return nil, fmt.Errorf("log file %s: %w", path, err)
		}
	}
	return store, nil
}

// Append records the entry at the tail of its (guild, category) log,
// assigning an id when the caller did not. Retention is enforced
// relative to the appended entry's timestamp.
func (s *LogStore) Append(entry LogEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	byCategory := s.logs[entry.GuildID]
	if byCategory == nil {
		byCategory = make(map[string][]LogEntry)
		s.logs[entry.GuildID] = byCategory
	}
	entries := append(byCategory[entry.Category], entry)
	byCategory[entry.Category] = s.prune(entries, entry.Timestamp)

	return s.save()
}

// Query returns the most recent limit entries for the guild and
// category, oldest first. Unknown keys yield an empty slice. A
// non-positive limit means the default of 10.
func (s *LogStore) Query(guildID, category string, limit int) []LogEntry {
	if limit <= 0 {
		limit = defaultQueryLimit
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.logs[guildID][category]
	if len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	out := make([]LogEntry, len(entries))
	copy(out, entries)
	return out
}

// PurgeGuild drops every log the guild has.
func (s *LogStore) PurgeGuild(guildID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.logs, guildID)
	return s.save()
}

func (s *LogStore) prune(entries []LogEntry, now time.Time) []LogEntry {
	if s.retention.MaxAge > 0 {
		cutoff := now.Add(-s.retention.MaxAge)
		idx := 0
		for idx < len(entries) && entries[idx].Timestamp.Before(cutoff) {
			idx++
		}
		entries = entries[idx:]
	}
	if s.retention.MaxEntries > 0 && len(entries) > s.retention.MaxEntries {
		entries = entries[len(entries)-s.retention.MaxEntries:]
	}
	return entries
}

func (s *LogStore) save() error {
	if s.path == "" {
		return nil
	}
	data, err := json.Marshal(s.logs)
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
