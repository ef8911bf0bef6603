package bot

import (
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Prefix commands mirror the slash surface for guilds that have not
// picked up the application commands yet.
func (b *Bot) onMessageCreate(session *discordgo.Session, event *discordgo.MessageCreate) {
	if event.Author == nil || event.Author.Bot || event.GuildID == "" {
		return
	}
	if !strings.HasPrefix(event.Content, b.cfg.Prefix) {
		return
	}

	fields := strings.Fields(strings.TrimPrefix(event.Content, b.cfg.Prefix))
	if len(fields) == 0 {
		return
	}
	command := strings.ToLower(fields[0])
	args := fields[1:]
	guildID := event.GuildID

	var reply string
	switch command {
	case "setvoice":
		reply = b.setVoiceChannel(guildID, argID(args))
	case "setrole":
		reply = b.setRole(guildID, argID(args))
	case "setlogchannel", "setvoicelog", "setmessagelog":
		reply = b.setLogChannel(guildID, argID(args), logFieldFor(command))
	case "clear":
		if len(args) == 0 {
			reply = replyUnknownField
		} else {
			reply = b.clearSetting(guildID, strings.ToLower(args[0]))
		}
	case "clearlog":
		reply = b.purgeLogs(guildID)
	case "reset":
		reply = b.resetGuild(guildID)
	case "status":
		reply = b.statusText(guildID)
	case "help":
		reply = b.helpText()
	case "voicelog", "selfmute", "modmute", "deletelog":
		reply = b.queryLogReply(guildID, command)
	default:
		return
	}

	_, _ = session.ChannelMessageSend(event.ChannelID, reply)
}

func argID(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return cleanID(args[0])
}

// cleanID strips channel, role and user mention decorations so that
// both "123" and "<#123>" address the same target.
func cleanID(raw string) string {
	id := strings.TrimSpace(raw)
	id = strings.TrimPrefix(id, "<#")
	id = strings.TrimPrefix(id, "<@&")
	id = strings.TrimPrefix(id, "<@!")
	id = strings.TrimPrefix(id, "<@")
	id = strings.TrimSuffix(id, ">")
	return id
}
