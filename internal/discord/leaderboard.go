package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/EconomyBot_Go/internal/domain"
	"github.com/osse101/EconomyBot_Go/internal/logger"
)

// LeaderboardSender sends and edits the pinned leaderboard embed.
type LeaderboardSender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditEmbed(channelID, messageID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// LeaderboardGuilds lists guilds and remembers where each board was posted.
type LeaderboardGuilds interface {
	List(ctx context.Context) ([]domain.GuildSettings, error)
	SetLeaderboardMessage(ctx context.Context, guildID, messageID string, at time.Time) error
}

// LeaderboardSource ranks a guild's members.
type LeaderboardSource interface {
	Leaderboard(ctx context.Context, guildID string, limit int) ([]domain.LeaderboardEntry, error)
}

// LeaderboardPoster keeps one leaderboard message per guild up to date. The
// message is edited in place and reposted when the edit fails.
type LeaderboardPoster struct {
	sender  LeaderboardSender
	guilds  LeaderboardGuilds
	ranking LeaderboardSource
	limit   int
	now     func() time.Time
}

func NewLeaderboardPoster(sender LeaderboardSender, guilds LeaderboardGuilds, ranking LeaderboardSource, limit int) *LeaderboardPoster {
	if limit <= 0 {
		limit = DefaultLeaderboardSize
	}
	return &LeaderboardPoster{sender: sender, guilds: guilds, ranking: ranking, limit: limit, now: time.Now}
}

// Refresh updates every guild with a notification channel and returns how
// many boards were written.
func (p *LeaderboardPoster) Refresh(ctx context.Context) (int, error) {
	list, err := p.guilds.List(ctx)
	if err != nil {
		return 0, err
	}

	var errs []error
	posted := 0
	for _, g := range list {
		if g.NotificationChannelID == "" {
			continue
		}
		if err := p.post(ctx, g); err != nil {
			errs = append(errs, fmt.Errorf(ErrMsgLeaderboardFmt, g.GuildID, err))
			continue
		}
		posted++
	}
	return posted, errors.Join(errs...)
}

func (p *LeaderboardPoster) post(ctx context.Context, g domain.GuildSettings) error {
	entries, err := p.ranking.Leaderboard(ctx, g.GuildID, p.limit)
	if err != nil {
		return err
	}
	embed := leaderboardEmbed(entries)
	log := logger.FromContext(ctx)

	if g.LeaderboardMessageID != "" {
		_, err := p.sender.ChannelMessageEditEmbed(g.NotificationChannelID, g.LeaderboardMessageID, embed)
		if err == nil {
			return p.guilds.SetLeaderboardMessage(ctx, g.GuildID, g.LeaderboardMessageID, p.now())
		}
		log.Debug(LogMsgLeaderboardRepost, "guild_id", g.GuildID, "message_id", g.LeaderboardMessageID, "error", err)
	}

	msg, err := p.sender.ChannelMessageSendEmbed(g.NotificationChannelID, embed)
	if err != nil {
		return fmt.Errorf(ErrMsgSendChannel, g.NotificationChannelID, err)
	}
	log.Info(LogMsgLeaderboardPosted, "guild_id", g.GuildID, "message_id", msg.ID)
	return p.guilds.SetLeaderboardMessage(ctx, g.GuildID, msg.ID, p.now())
}

func leaderboardEmbed(entries []domain.LeaderboardEntry) *discordgo.MessageEmbed {
	var b strings.Builder
	if len(entries) == 0 {
		b.WriteString(LeaderboardEmpty)
	}
	for i, e := range entries {
		fmt.Fprintf(&b, LeaderboardRowFmt, i+1, e.UserID, formatNumber(int64(e.Level)), formatNumber(e.XP))
	}
	return &discordgo.MessageEmbed{
		Title:       TitleLeaderboard,
		Description: b.String(),
		Color:       ColorBlurple,
		Footer:      &discordgo.MessageEmbedFooter{Text: FooterEconomy},
	}
}
