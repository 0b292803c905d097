package middleware

// Log messages
const (
	LogMsgGuildRegisterFailed = "Failed to register guild from API request"
)

// GuildIDParam is the chi URL parameter carrying the guild ID.
const GuildIDParam = "guildID"
