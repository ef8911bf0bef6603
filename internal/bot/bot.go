package bot

import (
	"context"

	"voice-warden/internal/config"
	"voice-warden/internal/logbook"
	"voice-warden/internal/reconcile"
	"voice-warden/internal/storage"
	"voice-warden/internal/voice"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

type Bot struct {
	cfg        config.Config
	logger     *zap.Logger
	settings   *storage.SettingsStore
	recorder   *logbook.Recorder
	reconciler *reconcile.Reconciler
	session    *discordgo.Session
	pipeline   *Pipeline
}

func New(cfg config.Config, logger *zap.Logger, settings *storage.SettingsStore, recorder *logbook.Recorder) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, err
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsMessageContent |
		discordgo.IntentsGuildVoiceStates

	b := &Bot{
		cfg:        cfg,
		logger:     logger,
		settings:   settings,
		recorder:   recorder,
		reconciler: reconcile.New(),
		session:    session,
	}
	b.pipeline = NewPipeline(settings, b.reconciler, recorder, sessionGateway{session: session}, logger)

	return b, nil
}

func (b *Bot) Start() error {
	b.session.AddHandler(b.onReady)
	b.session.AddHandler(b.onVoiceStateUpdate)
	b.session.AddHandler(b.onMessageDelete)
	b.session.AddHandler(b.onMessageCreate)
	b.session.AddHandler(b.onInteractionCreate)

	if err := b.session.Open(); err != nil {
		return err
	}

	if err := b.registerCommands(); err != nil {
		return err
	}

	return nil
}

func (b *Bot) Close(ctx context.Context) {
	_ = ctx
	if b.session != nil {
		_ = b.session.Close()
	}
}

func (b *Bot) onReady(session *discordgo.Session, event *discordgo.Ready) {
	b.logger.Info("discord ready", zap.String("user", session.State.User.Username))
}

func (b *Bot) onVoiceStateUpdate(session *discordgo.Session, event *discordgo.VoiceStateUpdate) {
	if event.VoiceState == nil || event.GuildID == "" {
		return
	}
	old := b.normalizeVoiceState(event.BeforeUpdate)
	new := b.normalizeVoiceState(event.VoiceState)
	b.pipeline.HandleVoiceStateChange(old, new)
}

func (b *Bot) onMessageDelete(session *discordgo.Session, event *discordgo.MessageDelete) {
	if event.GuildID == "" {
		return
	}

	msg := logbook.DeletedMessage{GuildID: event.GuildID, ChannelID: event.ChannelID}
	if cached := event.BeforeDelete; cached != nil {
		msg.Content = cached.Content
		if cached.Author != nil {
			msg.AuthorID = cached.Author.ID
			msg.AuthorTag = cached.Author.String()
		}
		for _, attachment := range cached.Attachments {
			if attachment != nil && attachment.URL != "" {
				msg.Attachments = append(msg.Attachments, attachment.URL)
			}
		}
	}
	b.pipeline.HandleMessageDelete(msg)
}

// normalizeVoiceState converts the gateway payload into the engine's
// own shape; discordgo types stop here.
func (b *Bot) normalizeVoiceState(vs *discordgo.VoiceState) voice.VoiceState {
	if vs == nil {
		return voice.VoiceState{}
	}
	return voice.VoiceState{
		GuildID:    vs.GuildID,
		UserID:     vs.UserID,
		UserTag:    b.userTag(vs.GuildID, vs.UserID, vs.Member),
		ChannelID:  vs.ChannelID,
		SelfMute:   vs.SelfMute,
		SelfDeaf:   vs.SelfDeaf,
		ServerMute: vs.Mute,
		ServerDeaf: vs.Deaf,
	}
}

func (b *Bot) userTag(guildID, userID string, member *discordgo.Member) string {
	if member != nil && member.User != nil {
		return member.User.String()
	}
	if member := b.memberForUser(guildID, userID); member != nil && member.User != nil {
		return member.User.String()
	}
	return userID
}

func (b *Bot) memberForUser(guildID, userID string) *discordgo.Member {
	member, err := b.session.State.Member(guildID, userID)
	if err == nil && member != nil {
		return member
	}
	member, _ = b.session.GuildMember(guildID, userID)
	return member
}

// sessionGateway adapts the discordgo session to the pipeline's
// outbound surface.
type sessionGateway struct {
	session *discordgo.Session
}

func (g sessionGateway) AddRole(guildID, userID, roleID string) error {
	return g.session.GuildMemberRoleAdd(guildID, userID, roleID)
}

func (g sessionGateway) RemoveRole(guildID, userID, roleID string) error {
	return g.session.GuildMemberRoleRemove(guildID, userID, roleID)
}

func (g sessionGateway) SendToChannel(channelID, text string) error {
	_, err := g.session.ChannelMessageSend(channelID, text)
	return err
}
