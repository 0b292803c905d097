package domain

// Cooldown action names
const (
	ActionChatReward = "chat_reward"
)
