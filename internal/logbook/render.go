package logbook

import (
	"strings"

	"voice-warden/internal/storage"
	"voice-warden/internal/voice"
)

const timeLayout = "2006-01-02 15:04:05"

const (
	unknownUser      = "未知使用者"
	emptyContent     = "[無文字內容]"
	attachmentPrefix = "附件："
)

// CategoryFor routes a classified event kind to its log category.
func CategoryFor(kind voice.Kind) string {
	switch kind {
	case voice.KindJoined, voice.KindLeft, voice.KindMoved:
		return storage.CategoryVoice
	case voice.KindSelfMuteChanged, voice.KindSelfDeafChanged:
		return storage.CategorySelfMute
	case voice.KindServerMuteChanged, voice.KindServerDeafChanged:
		return storage.CategoryModMute
	default:
		return ""
	}
}

func renderVoice(event voice.Event) string {
	var action string
	switch event.Kind {
	case voice.KindJoined:
		action = "加入語音：<#" + event.ChannelID + ">"
	case voice.KindLeft:
		action = "離開語音：<#" + event.ChannelID + ">"
	case voice.KindMoved:
		action = "移動語音：<#" + event.FromChannel + "> 到 <#" + event.ToChannel + ">"
	case voice.KindSelfMuteChanged:
		if event.Enabled {
			action = "自己靜音"
		} else {
			action = "自己解除靜音"
		}
	case voice.KindSelfDeafChanged:
		if event.Enabled {
			action = "自己拒聽"
		} else {
			action = "自己解除拒聽"
		}
	case voice.KindServerMuteChanged:
		if event.Enabled {
			action = "被管理員：被靜音"
		} else {
			action = "被管理員：解除靜音"
		}
	case voice.KindServerDeafChanged:
		if event.Enabled {
			action = "被管理員：被拒聽"
		} else {
			action = "被管理員：解除拒聽"
		}
	}

	return "[" + event.Timestamp.Format(timeLayout) + "] " + actorTag(event.UserTag) + " " + action
}

func renderMessageDelete(msg DeletedMessage) string {
	content := msg.Content
	if content == "" {
		content = emptyContent
	}

	text := "[" + msg.Timestamp.Format(timeLayout) + "] " + actorTag(msg.AuthorTag) + " 刪除訊息：" + content
	if len(msg.Attachments) > 0 {
		text += "\n" + attachmentPrefix + strings.Join(msg.Attachments, "\n")
	}
	return text
}

func actorTag(tag string) string {
	if tag == "" {
		return unknownUser
	}
	return tag
}
