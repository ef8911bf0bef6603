package bot

import (
	"fmt"
	"strings"

	"voice-warden/internal/storage"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Admin commands reach this file from both surfaces (slash and prefix);
// each handler returns the reply text. Reply wording follows the
// original bot.

const (
	replyInvalidVoiceChannel = "❌ 請選擇有效的語音頻道。"
	replyInvalidTextChannel  = "❌ 請選擇有效的文字頻道。"
	replyInvalidRole         = "❌ 請提供有效的身分組 ID。"
	replyUnknownField        = "❌ 未知的設定欄位。"
	replyReset               = "✅ 已清除目前的設定。"
	replyLogsPurged          = "✅ 已清除本伺服器的所有紀錄。"
	replyNoRecords           = "⚠️ 沒有紀錄。"
	replySaveFailed          = "⚠️ 設定已更新，但寫入設定檔失敗。"
)

func (b *Bot) setVoiceChannel(guildID, channelID string) string {
	channel := b.resolveChannel(guildID, channelID)
	if channel == nil || channel.Type != discordgo.ChannelTypeGuildVoice {
		return replyInvalidVoiceChannel
	}
	return b.updateSettings(guildID, fmt.Sprintf("✅ 已設定語音頻道為：<#%s>", channel.ID), func(cfg *storage.GuildConfig) {
		cfg.VoiceChannelID = channel.ID
	})
}

func (b *Bot) setRole(guildID, roleID string) string {
	role := b.resolveRole(guildID, roleID)
	if role == nil {
		return replyInvalidRole
	}
	return b.updateSettings(guildID, fmt.Sprintf("✅ 已設定自動身分組為：<@&%s>", role.ID), func(cfg *storage.GuildConfig) {
		cfg.RoleID = role.ID
	})
}

func (b *Bot) setLogChannel(guildID, channelID, field string) string {
	channel := b.resolveChannel(guildID, channelID)
	if channel == nil || !isTextChannel(channel) {
		return replyInvalidTextChannel
	}

	switch field {
	case "log":
		return b.updateSettings(guildID, fmt.Sprintf("✅ 已設定紀錄頻道為：<#%s>", channel.ID), func(cfg *storage.GuildConfig) {
			cfg.LogChannelID = channel.ID
		})
	case "voicelog":
		return b.updateSettings(guildID, fmt.Sprintf("✅ 已設定語音紀錄頻道為：<#%s>", channel.ID), func(cfg *storage.GuildConfig) {
			cfg.VoiceLogChannelID = channel.ID
		})
	case "messagelog":
		return b.updateSettings(guildID, fmt.Sprintf("✅ 已設定訊息紀錄頻道為：<#%s>", channel.ID), func(cfg *storage.GuildConfig) {
			cfg.MessageLogChannelID = channel.ID
		})
	default:
		return replyUnknownField
	}
}

func (b *Bot) clearSetting(guildID, field string) string {
	var mutate func(*storage.GuildConfig)
	var label string

	switch field {
	case "voice":
		mutate = func(cfg *storage.GuildConfig) { cfg.VoiceChannelID = "" }
		label = "語音頻道"
	case "role":
		mutate = func(cfg *storage.GuildConfig) { cfg.RoleID = "" }
		label = "自動身分組"
	case "log":
		mutate = func(cfg *storage.GuildConfig) { cfg.LogChannelID = "" }
		label = "紀錄頻道"
	case "voicelog":
		mutate = func(cfg *storage.GuildConfig) { cfg.VoiceLogChannelID = "" }
		label = "語音紀錄頻道"
	case "messagelog":
		mutate = func(cfg *storage.GuildConfig) { cfg.MessageLogChannelID = "" }
		label = "訊息紀錄頻道"
	default:
		return replyUnknownField
	}

	return b.updateSettings(guildID, "✅ 已清除設定："+label, mutate)
}

func (b *Bot) resetGuild(guildID string) string {
	b.reconciler.ResetGuild(guildID)
	if err := b.settings.Reset(guildID); err != nil {
		b.logger.Warn("settings reset not persisted", zap.String("guild_id", guildID), zap.Error(err))
		return replySaveFailed
	}
	return replyReset
}

func (b *Bot) purgeLogs(guildID string) string {
	if err := b.recorder.PurgeGuild(guildID); err != nil {
		b.logger.Warn("log purge not persisted", zap.String("guild_id", guildID), zap.Error(err))
		return replySaveFailed
	}
	return replyLogsPurged
}

func (b *Bot) statusText(guildID string) string {
	cfg := b.settings.Get(guildID)
	lines := []string{
		"📌 當前設定：",
		"- 語音頻道：" + mentionOrUnset(cfg.VoiceChannelID, "<#%s>"),
		"- 自動身分組：" + mentionOrUnset(cfg.RoleID, "<@&%s>"),
		"- 紀錄頻道：" + mentionOrUnset(cfg.LogChannelID, "<#%s>"),
		"- 語音紀錄頻道：" + mentionOrUnset(cfg.VoiceLogChannelID, "<#%s>"),
		"- 訊息紀錄頻道：" + mentionOrUnset(cfg.MessageLogChannelID, "<#%s>"),
	}
	return strings.Join(lines, "\n")
}

func (b *Bot) queryLogReply(guildID, command string) string {
	category := categoryForCommand(command)
	if category == "" {
		return replyNoRecords
	}

	entries := b.recorder.Query(guildID, category, 0)
	if len(entries) == 0 {
		return replyNoRecords
	}

	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		lines = append(lines, entry.Text)
	}
	return fmt.Sprintf("📋 最近的 %s 記錄：\n%s", command, strings.Join(lines, "\n"))
}

func (b *Bot) helpText() string {
	prefix := b.cfg.Prefix
	return "📝 可用指令列表：\n\n" +
		"**🔹 Slash 指令：**\n" +
		"/setvoice [語音頻道] → 設定語音頻道。\n" +
		"/setrole [身分組] → 設定進語音時自動加上的身分組。\n" +
		"/setlogchannel [文字頻道] → 設定紀錄頻道，所有語音與刪除事件都會自動發送紀錄。\n" +
		"/setvoicelog [文字頻道] → 設定語音紀錄專用頻道。\n" +
		"/setmessagelog [文字頻道] → 設定訊息紀錄專用頻道。\n" +
		"/clear [欄位] → 清除單一設定欄位。\n" +
		"/clearlog → 清除本伺服器的所有紀錄。\n" +
		"/status → 查看目前語音與身分組設定狀態。\n" +
		"/reset → 清除目前的語音與身分組設定。\n" +
		"/help → 顯示此幫助指令清單與說明。\n" +
		"/voicelog → 查詢最近的語音進出紀錄。\n" +
		"/selfmute → 查詢使用者開/關麥克風紀錄。\n" +
		"/modmute → 查詢被管理員靜音/拒聽的紀錄。\n" +
		"/deletelog → 查詢訊息與圖片刪除紀錄。\n\n" +
		"**🔸 前綴指令（" + prefix + "）：**\n" +
		prefix + "setvoice [語音頻道ID] → 設定語音頻道。\n" +
		prefix + "setrole [身分組ID] → 設定自動加上的身分組。\n" +
		prefix + "setlogchannel [文字頻道ID] → 設定紀錄頻道。\n" +
		prefix + "status → 查看目前設定狀態。\n" +
		prefix + "reset → 清除目前的設定。\n" +
		prefix + "help → 顯示此幫助指令清單與說明。\n" +
		prefix + "voicelog / selfmute / modmute / deletelog → 查詢各類紀錄。"
}

func (b *Bot) updateSettings(guildID, reply string, mutate func(*storage.GuildConfig)) string {
	if err := b.settings.Update(guildID, mutate); err != nil {
		b.logger.Warn("settings update not persisted", zap.String("guild_id", guildID), zap.Error(err))
		return replySaveFailed
	}
	return reply
}

func (b *Bot) resolveChannel(guildID, channelID string) *discordgo.Channel {
	if channelID == "" {
		return nil
	}
	channel, err := b.session.State.Channel(channelID)
	if err != nil || channel == nil {
		channel, _ = b.session.Channel(channelID)
	}
	if channel == nil || channel.GuildID != guildID {
		return nil
	}
	return channel
}

func (b *Bot) resolveRole(guildID, roleID string) *discordgo.Role {
	if roleID == "" {
		return nil
	}
	role, err := b.session.State.Role(guildID, roleID)
	if err == nil && role != nil {
		return role
	}
	roles, err := b.session.GuildRoles(guildID)
	if err != nil {
		return nil
	}
	for _, role := range roles {
		if role != nil && role.ID == roleID {
			return role
		}
	}
	return nil
}

func isTextChannel(channel *discordgo.Channel) bool {
	return channel.Type == discordgo.ChannelTypeGuildText || channel.Type == discordgo.ChannelTypeGuildNews
}

func categoryForCommand(command string) string {
	switch command {
	case "voicelog":
		return storage.CategoryVoice
	case "selfmute":
		return storage.CategorySelfMute
	case "modmute":
		return storage.CategoryModMute
	case "deletelog":
		return storage.CategoryMessageDelete
	default:
		return ""
	}
}

func mentionOrUnset(id, format string) string {
	if id == "" {
		return "未設定"
	}
	return fmt.Sprintf(format, id)
}
