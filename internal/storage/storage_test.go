package storage

import (
	"path/filepath"
	"testing"
	"time"
)

func TestSettingsUpdateAndGet(t *testing.T) {
	store, err := OpenSettings("")
	if err != nil {
		t.Fatalf("open settings: %v", err)
	}

	if got := store.Get("g1"); !got.IsZero() {
		t.Fatalf("expected zero config for unknown guild, got %+v", got)
	}

	if err := store.Update("g1", func(cfg *GuildConfig) { cfg.VoiceChannelID = "V1" }); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := store.Update("g1", func(cfg *GuildConfig) { cfg.RoleID = "R1" }); err != nil {
		t.Fatalf("update: %v", err)
	}

	got := store.Get("g1")
	if got.VoiceChannelID != "V1" || got.RoleID != "R1" {
		t.Fatalf("lost a field across updates: %+v", got)
	}
}

func TestSettingsClearFieldAndReset(t *testing.T) {
	store, _ := OpenSettings("")
	_ = store.Update("g1", func(cfg *GuildConfig) {
		cfg.VoiceChannelID = "V1"
		cfg.RoleID = "R1"
	})

	if err := store.Update("g1", func(cfg *GuildConfig) { cfg.RoleID = "" }); err != nil {
		t.Fatalf("clear field: %v", err)
	}
	got := store.Get("g1")
	if got.RoleID != "" || got.VoiceChannelID != "V1" {
		t.Fatalf("clear touched the wrong field: %+v", got)
	}

	if err := store.Reset("g1"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if got := store.Get("g1"); !got.IsZero() {
		t.Fatalf("expected empty config after reset, got %+v", got)
	}
}

func TestSettingsPersistRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	store, err := OpenSettings(path)
	if err != nil {
		t.Fatalf("open settings: %v", err)
	}
	if err := store.Update("g1", func(cfg *GuildConfig) {
		cfg.VoiceChannelID = "V1"
		cfg.LogChannelID = "L1"
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	reopened, err := OpenSettings(path)
	if err != nil {
		t.Fatalf("reopen settings: %v", err)
	}
	got := reopened.Get("g1")
	if got.VoiceChannelID != "V1" || got.LogChannelID != "L1" {
		t.Fatalf("settings did not survive reload: %+v", got)
	}
}

func TestLogTargetsFallBackToShared(t *testing.T) {
	cfg := GuildConfig{LogChannelID: "L1"}
	if cfg.VoiceLogTarget() != "L1" || cfg.MessageLogTarget() != "L1" {
		t.Fatalf("expected shared channel fallback, got %q / %q", cfg.VoiceLogTarget(), cfg.MessageLogTarget())
	}

	cfg.VoiceLogChannelID = "LV"
	cfg.MessageLogChannelID = "LM"
	if cfg.VoiceLogTarget() != "LV" || cfg.MessageLogTarget() != "LM" {
		t.Fatalf("expected dedicated channels to win, got %q / %q", cfg.VoiceLogTarget(), cfg.MessageLogTarget())
	}
}

func TestLogAppendAndQueryOrder(t *testing.T) {
	store, _ := OpenLogs("", Retention{})

	if got := store.Query("g1", CategoryVoice, 10); len(got) != 0 {
		t.Fatalf("expected empty result for unknown guild, got %d entries", len(got))
	}

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 15; i++ {
		entry := LogEntry{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Category:  CategoryVoice,
			GuildID:   "g1",
			Text:      string(rune('a' + i)),
		}
		if err := store.Append(entry); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got := store.Query("g1", CategoryVoice, 0)
	if len(got) != 10 {
		t.Fatalf("expected default limit of 10, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Timestamp.Before(got[i-1].Timestamp) {
			t.Fatalf("entries out of chronological order at %d", i)
		}
	}
	if got[len(got)-1].Text != "o" {
		t.Fatalf("expected most recent entry last, got %q", got[len(got)-1].Text)
	}

	if got := store.Query("g1", CategoryVoice, 3); len(got) != 3 || got[0].Text != "m" {
		t.Fatalf("expected last 3 entries starting at m, got %+v", got)
	}
	if got := store.Query("g1", CategorySelfMute, 10); len(got) != 0 {
		t.Fatalf("expected empty result for unused category, got %d", len(got))
	}
}

func TestLogEntryIDAssigned(t *testing.T) {
	store, _ := OpenLogs("", Retention{})
	_ = store.Append(LogEntry{Timestamp: time.Now(), Category: CategoryVoice, GuildID: "g1", Text: "x"})

	got := store.Query("g1", CategoryVoice, 1)
	if len(got) != 1 || got[0].ID == "" {
		t.Fatalf("expected an assigned entry id, got %+v", got)
	}
}

func TestLogRetentionByCount(t *testing.T) {
	store, _ := OpenLogs("", Retention{MaxEntries: 5})

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 8; i++ {
		_ = store.Append(LogEntry{
			Timestamp: base.Add(time.Duration(i) * time.Second),
			Category:  CategoryModMute,
			GuildID:   "g1",
			Text:      string(rune('a' + i)),
		})
	}

	got := store.Query("g1", CategoryModMute, 100)
	if len(got) != 5 {
		t.Fatalf("expected retention cap of 5, got %d", len(got))
	}
	if got[0].Text != "d" || got[4].Text != "h" {
		t.Fatalf("retention dropped the wrong entries: %+v", got)
	}
}

func TestLogRetentionByAge(t *testing.T) {
	store, _ := OpenLogs("", Retention{MaxAge: time.Hour})

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	_ = store.Append(LogEntry{Timestamp: base, Category: CategoryVoice, GuildID: "g1", Text: "old"})
	_ = store.Append(LogEntry{Timestamp: base.Add(2 * time.Hour), Category: CategoryVoice, GuildID: "g1", Text: "new"})

	got := store.Query("g1", CategoryVoice, 10)
	if len(got) != 1 || got[0].Text != "new" {
		t.Fatalf("expected aged-out entry to be pruned, got %+v", got)
	}
}

func TestLogPurgeGuild(t *testing.T) {
	store, _ := OpenLogs("", Retention{})
	_ = store.Append(LogEntry{Timestamp: time.Now(), Category: CategoryVoice, GuildID: "g1", Text: "x"})
	_ = store.Append(LogEntry{Timestamp: time.Now(), Category: CategoryVoice, GuildID: "g2", Text: "y"})

	if err := store.PurgeGuild("g1"); err != nil {
		t.Fatalf("purge: %v", err)
	}
	if got := store.Query("g1", CategoryVoice, 10); len(got) != 0 {
		t.Fatalf("expected purged guild to be empty, got %d entries", len(got))
	}
	if got := store.Query("g2", CategoryVoice, 10); len(got) != 1 {
		t.Fatalf("purge leaked into another guild: %d entries", len(got))
	}
}

func TestLogPersistRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs.json")

	store, err := OpenLogs(path, Retention{})
	if err != nil {
		t.Fatalf("open logs: %v", err)
	}
	_ = store.Append(LogEntry{Timestamp: time.Now().UTC(), Category: CategoryMessageDelete, GuildID: "g1", Text: "gone"})

	reopened, err := OpenLogs(path, Retention{})
	if err != nil {
		t.Fatalf("reopen logs: %v", err)
	}
	got := reopened.Query("g1", CategoryMessageDelete, 10)
	if len(got) != 1 || got[0].Text != "gone" {
		t.Fatalf("logs did not survive reload: %+v", got)
	}
}
