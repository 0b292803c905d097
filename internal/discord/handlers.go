package discord

import (
	"github.com/bwmarrin/discordgo"

	"github.com/osse101/EconomyBot_Go/internal/activity"
	"github.com/osse101/EconomyBot_Go/internal/logger"
)

func (b *Bot) ready(s *discordgo.Session, r *discordgo.Ready) {
	logger.FromContext(b.ctx).Info(LogMsgBotReady, "user", r.User.Username, "guilds", len(r.Guilds))
}

func (b *Bot) guildCreate(_ *discordgo.Session, g *discordgo.GuildCreate) {
	if err := b.guilds.Register(b.ctx, g.ID); err != nil {
		logger.FromContext(b.ctx).Warn(LogMsgGuildRegisterErr, "guild_id", g.ID, "error", err)
	}
	// Members already in voice when the bot joins never send an update.
	for _, vs := range g.VoiceStates {
		state := toVoiceState(vs, isBot(g.Members, vs.UserID))
		state.GuildID = g.ID
		b.activity.HandleVoiceState(b.ctx, state)
	}
}

func (b *Bot) messageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if !rewardable(m.Message) {
		return
	}
	if _, err := b.activity.HandleMessage(b.ctx, m.Author.ID, m.GuildID); err != nil {
		logger.FromContext(b.ctx).Warn(LogMsgMessageFailed, "user_id", m.Author.ID, "guild_id", m.GuildID, "error", err)
	}
}

func (b *Bot) voiceStateUpdate(_ *discordgo.Session, v *discordgo.VoiceStateUpdate) {
	bot := v.Member != nil && v.Member.User != nil && v.Member.User.Bot
	b.activity.HandleVoiceState(b.ctx, toVoiceState(v.VoiceState, bot))
}

// rewardable filters out DMs, webhooks and bot authors.
func rewardable(m *discordgo.Message) bool {
	return m != nil && m.GuildID != "" && m.WebhookID == "" && m.Author != nil && !m.Author.Bot
}

func toVoiceState(vs *discordgo.VoiceState, bot bool) activity.VoiceState {
	return activity.VoiceState{
		UserID:    vs.UserID,
		GuildID:   vs.GuildID,
		ChannelID: vs.ChannelID,
		Muted:     vs.Mute || vs.SelfMute,
		Deafened:  vs.Deaf || vs.SelfDeaf,
		Bot:       bot,
	}
}

func isBot(members []*discordgo.Member, userID string) bool {
	for _, m := range members {
		if m.User != nil && m.User.ID == userID {
			return m.User.Bot
		}
	}
	return false
}
