package discord

// Embed colors
const (
	ColorGold    = 0xFFD700
	ColorBlurple = 0x5865F2
	ColorGreen   = 0x57F287
	ColorPink    = 0xEB459E
)

// Embed text
const (
	TitleLevelUp      = "Level Up!"
	TitleDrop         = "Lucky Drop!"
	TitleShopRestock  = "🛒 The shop has restocked!"
	TitleWeekendShop  = "🎉 Weekend shop is open!"
	TitleInterest     = "🏦 Interest paid"
	TitleLeaderboard  = "🏆 Leaderboard"
	FooterEconomy     = "Economy"
	FieldHotDeals     = "Hot deals"
	FieldNextRestock  = "Next restock"
	LevelUpFmt        = "<@%s> reached **level %s**!"
	DropPublicFmt     = "<@%s> found %s **%s**!"
	DropPrivateFmt    = "You found %s **%s**!"
	DropOddsFmt       = " (1 in %s)"
	DropQuantityFmt   = "%s× "
	ShopSlotFmt       = "%s **%s**: %s %s (%s, %s left)\n"
	ShopSummaryFmt    = "%d items are on sale."
	InterestFmt       = "Your bank paid **%s** %s in interest. Wallet: %s %s"
	RelativeTimeFmt   = "<t:%d:R>"
	LeaderboardRowFmt = "**%d.** <@%s> level %s (%s XP)\n"
	LeaderboardEmpty  = "Nobody has earned XP yet."
	botTokenPrefix    = "Bot "
	titleCaseSplitter = "_"
)

// Log messages
const (
	LogMsgBotReady          = "Discord bot is ready"
	LogMsgBotStarted        = "Discord gateway connected"
	LogMsgBotStopped        = "Discord gateway closed"
	LogMsgMessageFailed     = "Chat activity handling failed"
	LogMsgGuildRegisterErr  = "Guild registration failed"
	LogMsgNoChannel         = "No notification channel configured"
	LogMsgNotificationSent  = "Discord notification sent"
	LogMsgSettingsLookupErr = "Guild settings lookup failed, using defaults"
	LogMsgMemberLookupErr   = "Guild member lookup failed, applying level delta"
	LogMsgLeaderboardPosted = "Leaderboard message posted"
	LogMsgLeaderboardRepost = "Leaderboard edit failed, reposting"
)

// Error messages
const (
	ErrMsgCreateSession  = "error creating Discord session: %w"
	ErrMsgOpenSession    = "error opening connection: %w"
	ErrMsgSendChannel    = "failed to send to channel %s: %w"
	ErrMsgOpenDM         = "failed to open DM with %s: %w"
	ErrMsgRoleAdd        = "failed to add role %s: %w"
	ErrMsgRoleRemove     = "failed to remove role %s: %w"
	ErrMsgLeaderboardFmt = "leaderboard for guild %s: %w"
)

// DefaultLeaderboardSize is the number of rows on the posted board.
const DefaultLeaderboardSize = 10
