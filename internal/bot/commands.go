package bot

import "github.com/bwmarrin/discordgo"

func (b *Bot) registerCommands() error {
	channelOption := func(name, description string) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionChannel,
			Name:        name,
			Description: description,
			Required:    true,
		}
	}

	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "setvoice",
			Description: "設定語音頻道",
			Options: []*discordgo.ApplicationCommandOption{
				channelOption("channel", "要綁定的語音頻道"),
			},
		},
		{
			Name:        "setrole",
			Description: "設定進語音時自動加上的身分組",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        "role",
					Description: "要自動加上的身分組",
					Required:    true,
				},
			},
		},
		{
			Name:        "setlogchannel",
			Description: "設定紀錄頻道",
			Options: []*discordgo.ApplicationCommandOption{
				channelOption("channel", "接收所有紀錄的文字頻道"),
			},
		},
		{
			Name:        "setvoicelog",
			Description: "設定語音紀錄專用頻道",
			Options: []*discordgo.ApplicationCommandOption{
				channelOption("channel", "接收語音紀錄的文字頻道"),
			},
		},
		{
			Name:        "setmessagelog",
			Description: "設定訊息紀錄專用頻道",
			Options: []*discordgo.ApplicationCommandOption{
				channelOption("channel", "接收訊息紀錄的文字頻道"),
			},
		},
		{
			Name:        "clear",
			Description: "清除單一設定欄位",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "field",
					Description: "要清除的欄位",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "voice", Value: "voice"},
						{Name: "role", Value: "role"},
						{Name: "log", Value: "log"},
						{Name: "voicelog", Value: "voicelog"},
						{Name: "messagelog", Value: "messagelog"},
					},
				},
			},
		},
		{Name: "clearlog", Description: "清除本伺服器的所有紀錄"},
		{Name: "reset", Description: "清除目前的語音與身分組設定"},
		{Name: "status", Description: "查看目前設定狀態"},
		{Name: "help", Description: "顯示幫助指令清單"},
		{Name: "voicelog", Description: "查詢最近的語音進出紀錄"},
		{Name: "selfmute", Description: "查詢使用者開/關麥克風紀錄"},
		{Name: "modmute", Description: "查詢被管理員靜音/拒聽的紀錄"},
		{Name: "deletelog", Description: "查詢訊息與圖片刪除紀錄"},
	}

	appID := b.session.State.User.ID
	// A test guild picks commands up immediately; global registration can
	// take up to an hour to propagate.
	scope := b.cfg.TestGuildID

	existing, err := b.session.ApplicationCommands(appID, scope)
	if err != nil {
		for _, cmd := range commands {
			if _, err := b.session.ApplicationCommandCreate(appID, scope, cmd); err != nil {
				return err
			}
		}
		return nil
	}

	existingByName := make(map[string]*discordgo.ApplicationCommand)
	for _, cmd := range existing {
		existingByName[cmd.Name] = cmd
	}

	desired := make(map[string]struct{})
	for _, cmd := range commands {
		desired[cmd.Name] = struct{}{}
		if current, ok := existingByName[cmd.Name]; ok {
			if _, err := b.session.ApplicationCommandEdit(appID, scope, current.ID, cmd); err != nil {
				return err
			}
			continue
		}
		if _, err := b.session.ApplicationCommandCreate(appID, scope, cmd); err != nil {
			return err
		}
	}

	for _, cmd := range existing {
		if _, ok := desired[cmd.Name]; ok {
			continue
		}
		_ = b.session.ApplicationCommandDelete(appID, scope, cmd.ID)
	}

	if scope != "" {
		return nil
	}

	for _, guild := range b.session.State.Guilds {
		if guild == nil {
			continue
		}
		guildCmds, err := b.session.ApplicationCommands(appID, guild.ID)
		if err != nil {
			continue
		}
		for _, cmd := range guildCmds {
			if _, ok := desired[cmd.Name]; ok {
				continue
			}
			_ = b.session.ApplicationCommandDelete(appID, guild.ID, cmd.ID)
		}
	}
	return nil
}
