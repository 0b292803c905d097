// Package discord connects the economy engine to a Discord gateway: chat and
// voice activity flow in, notifications flow out.
package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/EconomyBot_Go/internal/activity"
	"github.com/osse101/EconomyBot_Go/internal/logger"
)

// GuildRegistrar records guilds the bot has joined.
type GuildRegistrar interface {
	Register(ctx context.Context, guildID string) error
}

// Bot represents the Discord bot
type Bot struct {
	Session  *discordgo.Session
	activity activity.Service
	guilds   GuildRegistrar
	ctx      context.Context
}

// Config holds the bot configuration
type Config struct {
	Token string
	AppID string
}

// New creates a new Discord bot
func New(cfg Config, activitySvc activity.Service, guilds GuildRegistrar) (*Bot, error) {
	s, err := discordgo.New(botTokenPrefix + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgCreateSession, err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildVoiceStates

	return &Bot{
		Session:  s,
		activity: activitySvc,
		guilds:   guilds,
		ctx:      context.Background(),
	}, nil
}

// Start registers gateway handlers and opens the session. ctx is the base
// context handed to every handler.
func (b *Bot) Start(ctx context.Context) error {
	b.ctx = ctx
	b.Session.AddHandler(b.ready)
	b.Session.AddHandler(b.guildCreate)
	b.Session.AddHandler(b.messageCreate)
	b.Session.AddHandler(b.voiceStateUpdate)

	if err := b.Session.Open(); err != nil {
		return fmt.Errorf(ErrMsgOpenSession, err)
	}

	logger.FromContext(ctx).Info(LogMsgBotStarted)
	return nil
}

// Stop stops the bot
func (b *Bot) Stop() {
	_ = b.Session.Close()
	logger.FromContext(b.ctx).Info(LogMsgBotStopped)
}

// Connected reports whether the gateway has delivered its ready payload.
func (b *Bot) Connected() bool {
	return b.Session != nil && b.Session.DataReady
}
