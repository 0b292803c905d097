package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/EconomyBot_Go/internal/domain"
	"github.com/osse101/EconomyBot_Go/internal/event"
	"github.com/osse101/EconomyBot_Go/internal/logger"
	"github.com/osse101/EconomyBot_Go/internal/progression"
)

// Sender is the part of *discordgo.Session the notifier uses.
type Sender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	GuildMemberRoleRemove(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
}

// RoleReconciler computes the level-role changes for a member's held roles.
type RoleReconciler interface {
	ReconcileRoles(level int, held []string) progression.RoleDiff
}

// GuildSettings resolves per-guild channels and emoji.
type GuildSettings interface {
	Get(ctx context.Context, guildID string) (*domain.GuildSettings, error)
	Emoji(ctx context.Context, guildID string, c domain.Currency) string
}

// Notifier delivers engine notifications through Discord. It implements
// notify.Notifier.
type Notifier struct {
	sender         Sender
	settings       GuildSettings
	roles          RoleReconciler
	defaultChannel string
}

// NewNotifier creates a notifier. defaultChannel is used when a guild has no
// notification channel of its own. Without roles, level syncs apply the
// event's delta as is.
func NewNotifier(sender Sender, settings GuildSettings, roles RoleReconciler, defaultChannel string) *Notifier {
	return &Notifier{sender: sender, settings: settings, roles: roles, defaultChannel: defaultChannel}
}

func (n *Notifier) NotifyLevelUp(ctx context.Context, p event.LevelUpPayloadV1) error {
	channel := n.channel(ctx, p.GuildID, true)
	if channel == "" {
		logger.FromContext(ctx).Debug(LogMsgNoChannel, "guild_id", p.GuildID, "type", event.LevelUp)
		return nil
	}
	return n.sendEmbed(ctx, channel, &discordgo.MessageEmbed{
		Title:       TitleLevelUp,
		Description: fmt.Sprintf(LevelUpFmt, p.UserID, formatNumber(int64(p.ToLevel))),
		Color:       ColorGold,
		Footer:      &discordgo.MessageEmbedFooter{Text: FooterEconomy},
	})
}

// NotifyRoleSync applies role changes. Level syncs are reconciled against
// the roles the member holds right now. Every role is attempted; failures
// are joined.
func (n *Notifier) NotifyRoleSync(ctx context.Context, p event.RoleSyncPayloadV1) error {
	if p.Reconcile && n.roles != nil {
		member, err := n.sender.GuildMember(p.GuildID, p.UserID)
		if err != nil {
			logger.FromContext(ctx).Warn(LogMsgMemberLookupErr, "guild_id", p.GuildID, "user_id", p.UserID, "error", err)
		} else {
			diff := n.roles.ReconcileRoles(p.Level, member.Roles)
			p.Added, p.Removed = diff.Added, diff.Removed
		}
	}

	var errs []error
	for _, role := range p.Added {
		if err := n.sender.GuildMemberRoleAdd(p.GuildID, p.UserID, role); err != nil {
			errs = append(errs, fmt.Errorf(ErrMsgRoleAdd, role, err))
		}
	}
	for _, role := range p.Removed {
		if err := n.sender.GuildMemberRoleRemove(p.GuildID, p.UserID, role); err != nil {
			errs = append(errs, fmt.Errorf(ErrMsgRoleRemove, role, err))
		}
	}
	return errors.Join(errs...)
}

func (n *Notifier) NotifyDrop(ctx context.Context, p event.DropPayloadV1) error {
	name := p.ItemName
	if name == "" {
		name = itemDisplayName(p.ItemID)
	}
	if p.Quantity > 1 {
		name = fmt.Sprintf(DropQuantityFmt, formatNumber(p.Quantity)) + name
	}

	var desc string
	if p.Public {
		desc = fmt.Sprintf(DropPublicFmt, p.UserID, p.Emoji, name)
	} else {
		desc = fmt.Sprintf(DropPrivateFmt, p.Emoji, name)
	}
	if denom := oneIn(p.Odds); denom > 1 {
		desc += fmt.Sprintf(DropOddsFmt, formatNumber(denom))
	}
	embed := &discordgo.MessageEmbed{
		Title:       TitleDrop,
		Description: desc,
		Color:       ColorPink,
		Footer:      &discordgo.MessageEmbedFooter{Text: FooterEconomy},
	}

	if !p.Public {
		return n.sendDM(ctx, p.UserID, embed)
	}
	channel := n.channel(ctx, p.GuildID, false)
	if channel == "" {
		return n.sendDM(ctx, p.UserID, embed)
	}
	return n.sendEmbed(ctx, channel, embed)
}

func (n *Notifier) NotifyShopRestock(ctx context.Context, p event.ShopRestockedPayloadV1) error {
	channel := n.channel(ctx, p.GuildID, false)
	if channel == "" {
		logger.FromContext(ctx).Debug(LogMsgNoChannel, "guild_id", p.GuildID, "type", event.ShopRestocked)
		return nil
	}

	title := TitleShopRestock
	if p.Weekend {
		title = TitleWeekendShop
	}
	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: fmt.Sprintf(ShopSummaryFmt, len(p.Slots)),
		Color:       ColorBlurple,
		Footer:      &discordgo.MessageEmbedFooter{Text: FooterEconomy},
	}
	if len(p.Alertable) > 0 {
		coin := n.settings.Emoji(ctx, p.GuildID, domain.CurrencyCoins)
		var deals strings.Builder
		for _, slot := range p.Alertable {
			label := slot.DiscountLabel
			if label == "" {
				label = formatPercent(slot.DiscountPercent)
			}
			deals.WriteString(fmt.Sprintf(ShopSlotFmt,
				"•", itemDisplayName(slot.ItemID), formatNumber(slot.CurrentPrice), coin, label, formatNumber(int64(slot.Stock))))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: FieldHotDeals, Value: deals.String()})
	}
	if !p.NextAt.IsZero() {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   FieldNextRestock,
			Value:  fmt.Sprintf(RelativeTimeFmt, p.NextAt.Unix()),
			Inline: true,
		})
	}
	return n.sendEmbed(ctx, channel, embed)
}

func (n *Notifier) NotifyInterestCredited(ctx context.Context, p event.InterestCreditedPayloadV1) error {
	emoji := n.settings.Emoji(ctx, p.GuildID, p.Currency)
	return n.sendDM(ctx, p.UserID, &discordgo.MessageEmbed{
		Title:       TitleInterest,
		Description: fmt.Sprintf(InterestFmt, formatNumber(p.Amount), emoji, formatNumber(p.NewBalance), emoji),
		Color:       ColorGreen,
		Footer:      &discordgo.MessageEmbedFooter{Text: FooterEconomy},
	})
}

// channel picks the guild's level-up channel (when levelUp is set), then its
// notification channel, then the process default.
func (n *Notifier) channel(ctx context.Context, guildID string, levelUp bool) string {
	settings, err := n.settings.Get(ctx, guildID)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgSettingsLookupErr, "guild_id", guildID, "error", err)
		return n.defaultChannel
	}
	if levelUp && settings.LevelUpChannelID != "" {
		return settings.LevelUpChannelID
	}
	if settings.NotificationChannelID != "" {
		return settings.NotificationChannelID
	}
	return n.defaultChannel
}

func (n *Notifier) sendEmbed(ctx context.Context, channelID string, embed *discordgo.MessageEmbed) error {
	if _, err := n.sender.ChannelMessageSendEmbed(channelID, embed); err != nil {
		return fmt.Errorf(ErrMsgSendChannel, channelID, err)
	}
	logger.FromContext(ctx).Debug(LogMsgNotificationSent, "channel_id", channelID, "title", embed.Title)
	return nil
}

func (n *Notifier) sendDM(ctx context.Context, userID string, embed *discordgo.MessageEmbed) error {
	ch, err := n.sender.UserChannelCreate(userID)
	if err != nil {
		return fmt.Errorf(ErrMsgOpenDM, userID, err)
	}
	return n.sendEmbed(ctx, ch.ID, embed)
}
