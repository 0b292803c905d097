package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Economy metric names
const (
	MetricNameCurrencyCredited  = "economy_currency_credited_total"
	MetricNameCurrencyDebited   = "economy_currency_debited_total"
	MetricNameCapTruncations    = "economy_cap_truncations_total"
	MetricNameItemsGranted      = "economy_items_granted_total"
	MetricNameItemsUsed         = "economy_items_used_total"
	MetricNameShopPurchases     = "economy_shop_purchases_total"
	MetricNameShopRestocks      = "economy_shop_restocks_total"
	MetricNameLevelUps          = "economy_level_ups_total"
	MetricNameDropsAnnounced    = "economy_drops_announced_total"
	MetricNameLootBoxesOpened   = "economy_loot_boxes_opened_total"
	MetricNameDailyClaims       = "economy_daily_claims_total"
	MetricNameInterestPaid      = "economy_interest_paid_total"
	MetricNameJobRuns           = "scheduler_job_runs_total"
	MetricNameJobDuration       = "scheduler_job_duration_seconds"
	MetricNameVoiceSessions     = "activity_voice_sessions"
	MetricNameTransactionErrors = "economy_transaction_failures_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Economy metric help text
const (
	HelpTextCurrencyCredited  = "Currency added to wallets, after boosts and caps"
	HelpTextCurrencyDebited   = "Currency removed from wallets"
	HelpTextCapTruncations    = "Credits that were reduced by a wallet or bank cap"
	HelpTextItemsGranted      = "Inventory items granted"
	HelpTextItemsUsed         = "Inventory items used"
	HelpTextShopPurchases     = "Completed shop purchases"
	HelpTextShopRestocks      = "Shop restocks performed"
	HelpTextLevelUps          = "Level changes caused by XP"
	HelpTextDropsAnnounced    = "Drops that passed the alert threshold"
	HelpTextLootBoxesOpened   = "Loot boxes opened"
	HelpTextDailyClaims       = "Daily rewards claimed"
	HelpTextInterestPaid      = "Bank interest credited to wallets"
	HelpTextJobRuns           = "Scheduled job executions"
	HelpTextJobDuration       = "Scheduled job duration in seconds"
	HelpTextVoiceSessions     = "Voice sessions currently tracked"
	HelpTextTransactionErrors = "Multi-step mutations rolled back after a storage failure"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod   = "method"
	LabelPath     = "path"
	LabelStatus   = "status"
	LabelType     = "type"
	LabelItem     = "item"
	LabelCurrency = "currency"
	LabelSource   = "source"
	LabelJob      = "job"
	LabelOp       = "op"
)

// Job status label values
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, from 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// JobLatencyBuckets covers scheduled sweeps from 10ms to 2 minutes.
var JobLatencyBuckets = []float64{.01, .05, .1, .5, 1, 5, 15, 30, 60, 120}

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgPayloadDecodeFailed = "Failed to decode event payload for metrics"
	LogMsgMetricsRecorded     = "Metrics recorded for event"
)
