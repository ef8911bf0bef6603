package bot

import (
	"github.com/bwmarrin/discordgo"
)

func (b *Bot) onInteractionCreate(session *discordgo.Session, interaction *discordgo.InteractionCreate) {
	if interaction.Type != discordgo.InteractionApplicationCommand {
		return
	}
	if interaction.GuildID == "" {
		b.respond(session, interaction, "❌ 此指令僅能在伺服器內使用。", true)
		return
	}

	data := interaction.ApplicationCommandData()
	guildID := interaction.GuildID

	switch data.Name {
	case "setvoice":
		channel := optionChannel(session, data.Options)
		if channel == nil {
			b.respond(session, interaction, replyInvalidVoiceChannel, true)
			return
		}
		b.respond(session, interaction, b.setVoiceChannel(guildID, channel.ID), true)
	case "setrole":
		role := optionRole(session, guildID, data.Options)
		if role == nil {
			b.respond(session, interaction, replyInvalidRole, true)
			return
		}
		b.respond(session, interaction, b.setRole(guildID, role.ID), true)
	case "setlogchannel", "setvoicelog", "setmessagelog":
		channel := optionChannel(session, data.Options)
		if channel == nil {
			b.respond(session, interaction, replyInvalidTextChannel, true)
			return
		}
		b.respond(session, interaction, b.setLogChannel(guildID, channel.ID, logFieldFor(data.Name)), true)
	case "clear":
		if len(data.Options) == 0 {
			b.respond(session, interaction, replyUnknownField, true)
			return
		}
		b.respond(session, interaction, b.clearSetting(guildID, data.Options[0].StringValue()), true)
	case "clearlog":
		b.respond(session, interaction, b.purgeLogs(guildID), true)
	case "reset":
		b.respond(session, interaction, b.resetGuild(guildID), true)
	case "status":
		b.respond(session, interaction, b.statusText(guildID), true)
	case "help":
		b.respond(session, interaction, b.helpText(), true)
	case "voicelog", "selfmute", "modmute", "deletelog":
		b.respond(session, interaction, b.queryLogReply(guildID, data.Name), false)
	}
}

func (b *Bot) respond(session *discordgo.Session, interaction *discordgo.InteractionCreate, content string, ephemeral bool) {
	flags := discordgo.MessageFlags(0)
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}
	_ = session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   flags,
		},
	})
}

func logFieldFor(command string) string {
	switch command {
	case "setvoicelog":
		return "voicelog"
	case "setmessagelog":
		return "messagelog"
	default:
		return "log"
	}
}

func optionChannel(session *discordgo.Session, options []*discordgo.ApplicationCommandInteractionDataOption) *discordgo.Channel {
	for _, option := range options {
		if option != nil && option.Type == discordgo.ApplicationCommandOptionChannel {
			return option.ChannelValue(session)
		}
	}
	return nil
}

func optionRole(session *discordgo.Session, guildID string, options []*discordgo.ApplicationCommandInteractionDataOption) *discordgo.Role {
	for _, option := range options {
		if option != nil && option.Type == discordgo.ApplicationCommandOptionRole {
			return option.RoleValue(session, guildID)
		}
	}
	return nil
}
