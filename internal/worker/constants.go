package worker

// ============================================================================
// Log Messages - Worker Pool
// ============================================================================

// Log messages for pool operations
const (
	LogMsgWorkerJobFailed   = "Worker job failed"
	LogMsgWorkerJobFinished = "Worker job finished"
	LogMsgPoolStopped       = "Worker pool drained and stopped"
	LogMsgQueueFull         = "Worker queue full, job skipped"
)

// ============================================================================
// Log Messages - Weekend Watcher
// ============================================================================

// Log messages for weekend watcher operations
const (
	LogMsgWeekendWatcherStarted = "Weekend watcher started"
	LogMsgWeekendWatcherStopped = "Weekend watcher stopped"
	LogMsgWeekendBoundary       = "Weekend window boundary reached"
	LogMsgWeekendReconciled     = "Weekend flags reconciled"
	LogMsgWeekendGuildFailed    = "Weekend transition failed for guild"
	LogMsgPublishFailed         = "Failed to publish weekend event"
)

// Error messages
const (
	ErrMsgListGuildsFailed   = "failed to list guilds: %w"
	ErrMsgAddCronFailed      = "failed to schedule weekend boundary %q: %w"
	ErrMsgGuildTransitionFmt = "guild %s: %w"
)

// Job status labels
const (
	JobStatusSuccess = "success"
	JobStatusError   = "error"
	JobStatusSkipped = "skipped"
)

// ============================================================================
// Test Configuration
// ============================================================================

// Test pool configuration values used in pool_test.go
const (
	TestWorkerCount      = 2
	TestQueueSize        = 10
	TestExpectedJobCount = 2
)
