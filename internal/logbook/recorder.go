package logbook

import (
	"time"

	"voice-warden/internal/storage"
	"voice-warden/internal/voice"

	"go.uber.org/zap"
)

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// DeletedMessage is the normalized shape of a message-delete
// notification, built at the gateway boundary.
type DeletedMessage struct {
	GuildID     string
	ChannelID   string
	AuthorID    string
	AuthorTag   string
	Content     string
	Attachments []string
	Timestamp   time.Time
}

// Recorder turns classified events and delete notifications into
// rendered log entries and appends them to the store. A failing append
// is reported through the process logger and never propagated; the
// entry is still returned so emission to the log channel can proceed.
type Recorder struct {
	store  *storage.LogStore
	logger *zap.Logger
	clock  Clock
}

func NewRecorder(store *storage.LogStore, logger *zap.Logger) *Recorder {
	return &Recorder{store: store, logger: logger, clock: realClock{}}
}

func (r *Recorder) WithClock(clock Clock) {
	r.clock = clock
}

// RecordVoice renders and appends one classified voice event.
func (r *Recorder) RecordVoice(event voice.Event) storage.LogEntry {
	ts := event.Timestamp
	if ts.IsZero() {
		ts = r.clock.Now()
	}
	entry := storage.LogEntry{
		Timestamp: ts,
		Category:  CategoryFor(event.Kind),
		GuildID:   event.GuildID,
		Text:      renderVoice(event),
	}
	r.append(entry)
	return entry
}

// RecordMessageDelete renders and appends one delete notification.
func (r *Recorder) RecordMessageDelete(msg DeletedMessage) storage.LogEntry {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = r.clock.Now()
	}
	entry := storage.LogEntry{
		Timestamp: msg.Timestamp,
		Category:  storage.CategoryMessageDelete,
		GuildID:   msg.GuildID,
		Text:      renderMessageDelete(msg),
	}
	r.append(entry)
	return entry
}

// Query returns the most recent limit entries, oldest first.
func (r *Recorder) Query(guildID, category string, limit int) []storage.LogEntry {
	return r.store.Query(guildID, category, limit)
}

// PurgeGuild drops every recorded entry for the guild.
func (r *Recorder) PurgeGuild(guildID string) error {
	return r.store.PurgeGuild(guildID)
}

func (r *Recorder) append(entry storage.LogEntry) {
	if err := r.store.Append(entry); err != nil {
		r.logger.Warn("log append failed",
			zap.String("guild_id", entry.GuildID),
			zap.String("category", entry.Category),
			zap.Error(err))
	}
}
