package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/EconomyBot_Go/internal/activity"
	"github.com/osse101/EconomyBot_Go/internal/domain"
)

// MockSender implements Sender for testing
type MockSender struct {
	mock.Mock
}

func (m *MockSender) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	args := m.Called(channelID, embed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discordgo.Message), args.Error(1)
}

func (m *MockSender) UserChannelCreate(recipientID string, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	args := m.Called(recipientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discordgo.Channel), args.Error(1)
}

func (m *MockSender) GuildMemberRoleAdd(guildID, userID, roleID string, _ ...discordgo.RequestOption) error {
	return m.Called(guildID, userID, roleID).Error(0)
}

func (m *MockSender) GuildMemberRoleRemove(guildID, userID, roleID string, _ ...discordgo.RequestOption) error {
	return m.Called(guildID, userID, roleID).Error(0)
}

func (m *MockSender) GuildMember(guildID, userID string, _ ...discordgo.RequestOption) (*discordgo.Member, error) {
	args := m.Called(guildID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discordgo.Member), args.Error(1)
}

// stubSettings is a fixed GuildSettings source
type stubSettings struct {
	settings domain.GuildSettings
	err      error
}

func (s stubSettings) Get(_ context.Context, guildID string) (*domain.GuildSettings, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := s.settings
	out.GuildID = guildID
	return &out, nil
}

func (s stubSettings) Emoji(_ context.Context, _ string, c domain.Currency) string {
	if c == domain.CurrencyGems {
		return "💎"
	}
	return "🪙"
}

// MockActivity implements activity.Service for testing
type MockActivity struct {
	mock.Mock
}

func (m *MockActivity) HandleMessage(ctx context.Context, userID, guildID string) (*activity.ChatResult, error) {
	args := m.Called(ctx, userID, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*activity.ChatResult), args.Error(1)
}

func (m *MockActivity) HandleVoiceState(ctx context.Context, state activity.VoiceState) {
	m.Called(ctx, state)
}

func (m *MockActivity) VoiceTick(ctx context.Context) ([]activity.Reward, error) {
	args := m.Called(ctx)
	return args.Get(0).([]activity.Reward), args.Error(1)
}
