package discord

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/EconomyBot_Go/internal/activity"
)

type registrarFunc func(ctx context.Context, guildID string) error

func (f registrarFunc) Register(ctx context.Context, guildID string) error { return f(ctx, guildID) }

func newTestBot(act *MockActivity, reg GuildRegistrar) *Bot {
	return &Bot{activity: act, guilds: reg, ctx: context.Background()}
}

func TestRewardable(t *testing.T) {
	human := &discordgo.User{ID: "u"}
	tests := []struct {
		name string
		msg  *discordgo.Message
		want bool
	}{
		{"guild message", &discordgo.Message{GuildID: "g", Author: human}, true},
		{"direct message", &discordgo.Message{Author: human}, false},
		{"bot author", &discordgo.Message{GuildID: "g", Author: &discordgo.User{ID: "b", Bot: true}}, false},
		{"webhook", &discordgo.Message{GuildID: "g", Author: human, WebhookID: "w"}, false},
		{"no author", &discordgo.Message{GuildID: "g"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rewardable(tt.msg))
		})
	}
}

func TestMessageCreate_FeedsActivity(t *testing.T) {
	act := new(MockActivity)
	b := newTestBot(act, nil)
	act.On("HandleMessage", mock.Anything, "u", "g").Return(nil, errors.New("db down")).Once()

	b.messageCreate(nil, &discordgo.MessageCreate{Message: &discordgo.Message{GuildID: "g", Author: &discordgo.User{ID: "u"}}})
	b.messageCreate(nil, &discordgo.MessageCreate{Message: &discordgo.Message{Author: &discordgo.User{ID: "u"}}})

	act.AssertExpectations(t)
}

func TestVoiceStateUpdate_MapsMuteAndBots(t *testing.T) {
	act := new(MockActivity)
	b := newTestBot(act, nil)
	act.On("HandleVoiceState", mock.Anything, activity.VoiceState{
		UserID: "u", GuildID: "g", ChannelID: "vc", Muted: true, Deafened: false, Bot: true,
	}).Once()

	b.voiceStateUpdate(nil, &discordgo.VoiceStateUpdate{VoiceState: &discordgo.VoiceState{
		UserID: "u", GuildID: "g", ChannelID: "vc", SelfMute: true,
		Member: &discordgo.Member{User: &discordgo.User{ID: "u", Bot: true}},
	}})
	act.AssertExpectations(t)
}

func TestGuildCreate_RegistersAndSeedsVoice(t *testing.T) {
	act := new(MockActivity)
	var registered string
	b := newTestBot(act, registrarFunc(func(_ context.Context, guildID string) error {
		registered = guildID
		return nil
	}))
	act.On("HandleVoiceState", mock.Anything, activity.VoiceState{UserID: "u", GuildID: "g", ChannelID: "vc"}).Once()

	b.guildCreate(nil, &discordgo.GuildCreate{Guild: &discordgo.Guild{
		ID:          "g",
		VoiceStates: []*discordgo.VoiceState{{UserID: "u", ChannelID: "vc"}},
	}})

	assert.Equal(t, "g", registered)
	act.AssertExpectations(t)
}
