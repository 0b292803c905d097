package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Economy Metrics
var (
	CurrencyCredited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCurrencyCredited,
			Help: HelpTextCurrencyCredited,
		},
		[]string{LabelCurrency, LabelSource},
	)

	CurrencyDebited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCurrencyDebited,
			Help: HelpTextCurrencyDebited,
		},
		[]string{LabelCurrency, LabelSource},
	)

	CapTruncations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCapTruncations,
			Help: HelpTextCapTruncations,
		},
		[]string{LabelCurrency},
	)

	ItemsGranted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameItemsGranted,
			Help: HelpTextItemsGranted,
		},
		[]string{LabelItem},
	)

	ItemsUsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameItemsUsed,
			Help: HelpTextItemsUsed,
		},
		[]string{LabelItem},
	)

	ShopPurchases = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameShopPurchases,
			Help: HelpTextShopPurchases,
		},
		[]string{LabelItem},
	)

	ShopRestocks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameShopRestocks,
			Help: HelpTextShopRestocks,
		},
	)

	LevelUps = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameLevelUps,
			Help: HelpTextLevelUps,
		},
	)

	DropsAnnounced = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameDropsAnnounced,
			Help: HelpTextDropsAnnounced,
		},
		[]string{LabelItem},
	)

	LootBoxesOpened = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameLootBoxesOpened,
			Help: HelpTextLootBoxesOpened,
		},
		[]string{LabelItem},
	)

	DailyClaims = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameDailyClaims,
			Help: HelpTextDailyClaims,
		},
	)

	InterestPaid = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameInterestPaid,
			Help: HelpTextInterestPaid,
		},
		[]string{LabelCurrency},
	)

	TransactionFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameTransactionErrors,
			Help: HelpTextTransactionErrors,
		},
		[]string{LabelOp},
	)
)

// Background Metrics
var (
	JobRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameJobRuns,
			Help: HelpTextJobRuns,
		},
		[]string{LabelJob, LabelStatus},
	)

	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameJobDuration,
			Help:    HelpTextJobDuration,
			Buckets: JobLatencyBuckets,
		},
		[]string{LabelJob},
	)

	VoiceSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameVoiceSessions,
			Help: HelpTextVoiceSessions,
		},
	)
)
