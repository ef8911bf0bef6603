package bot

import (
	"time"

	"voice-warden/internal/logbook"
	"voice-warden/internal/reconcile"
	"voice-warden/internal/storage"
	"voice-warden/internal/voice"

	"go.uber.org/zap"
)

// Gateway is the outbound surface the pipeline needs from the chat
// platform. The discordgo session implements it in production; tests
// substitute a fake.
type Gateway interface {
	AddRole(guildID, userID, roleID string) error
	RemoveRole(guildID, userID, roleID string) error
	SendToChannel(channelID, text string) error
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Pipeline drives one inbound gateway notification through classify,
// reconcile and record. Role mutations and log handling are issued
// independently: a rejected role change never suppresses the log entry
// for the same event, and vice versa. State is partitioned by guild
// throughout, so events from different guilds need no coordination.
type Pipeline struct {
	settings   *storage.SettingsStore
	reconciler *reconcile.Reconciler
	recorder   *logbook.Recorder
	gateway    Gateway
	logger     *zap.Logger
	clock      logbook.Clock
}

func NewPipeline(settings *storage.SettingsStore, reconciler *reconcile.Reconciler, recorder *logbook.Recorder, gateway Gateway, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		settings:   settings,
		reconciler: reconciler,
		recorder:   recorder,
		gateway:    gateway,
		logger:     logger,
		clock:      realClock{},
	}
}

func (p *Pipeline) WithClock(clock logbook.Clock) {
	p.clock = clock
}

// HandleVoiceStateChange classifies the transition and fans each event
// out to role reconciliation and log recording.
func (p *Pipeline) HandleVoiceStateChange(old, new voice.VoiceState) {
	guildID := new.GuildID
	if guildID == "" {
		guildID = old.GuildID
	}
	if guildID == "" {
		return
	}

	cfg := p.settings.Get(guildID)
	events := voice.Classify(old, new, p.clock.Now())
	for _, event := range events {
		p.applyRoleMutations(event, cfg)
		p.recordAndEmit(event, cfg)
	}
}

// HandleMessageDelete records the notification and emits it to the
// guild's message log channel.
func (p *Pipeline) HandleMessageDelete(msg logbook.DeletedMessage) {
	if msg.GuildID == "" {
		return
	}

	cfg := p.settings.Get(msg.GuildID)
	entry := p.recorder.RecordMessageDelete(msg)
	p.emit(cfg.MessageLogTarget(), entry)
}

func (p *Pipeline) applyRoleMutations(event voice.Event, cfg storage.GuildConfig) {
	for _, mutation := range p.reconciler.Reconcile(event, cfg) {
		var err error
		switch mutation.Op {
		case reconcile.OpAdd:
			err = p.gateway.AddRole(event.GuildID, mutation.UserID, mutation.RoleID)
		case reconcile.OpRemove:
			err = p.gateway.RemoveRole(event.GuildID, mutation.UserID, mutation.RoleID)
		}
		if err != nil {
			// Reported, never retried, never allowed to block the log
			// path for the same event.
			p.logger.Warn("role mutation failed",
				zap.String("guild_id", event.GuildID),
				zap.String("user_id", mutation.UserID),
				zap.String("role_id", mutation.RoleID),
				zap.String("op", string(mutation.Op)),
				zap.Error(err))
		}
	}
}

func (p *Pipeline) recordAndEmit(event voice.Event, cfg storage.GuildConfig) {
	entry := p.recorder.RecordVoice(event)
	p.emit(cfg.VoiceLogTarget(), entry)
}

func (p *Pipeline) emit(channelID string, entry storage.LogEntry) {
	if channelID == "" {
		return
	}
	if err := p.gateway.SendToChannel(channelID, entry.Text); err != nil {
		p.logger.Warn("log emission failed",
			zap.String("guild_id", entry.GuildID),
			zap.String("channel_id", channelID),
			zap.String("category", entry.Category),
			zap.Error(err))
	}
}
