package notify

// Log messages
const (
	LogMsgDecodeFailed   = "Notification payload decode failed"
	LogMsgNotifyFailed   = "Notification delivery failed"
	LogMsgNotified       = "Notification delivered"
	LogMsgNothingToSync  = "Role sync without changes skipped"
	LogMsgZeroInterest   = "Zero interest credit skipped"
	LogMsgDispatcherInit = "Notification dispatcher registered"
)
