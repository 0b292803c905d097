package server

import "time"

// HTTP error messages for middleware responses
const (
	ErrMsgUnauthorized    = "Unauthorized"
	ErrMsgTooManyRequests = "Too Many Requests"
)

// Log messages
const (
	LogMsgServerStarting     = "HTTP server starting"
	LogMsgServerStopped      = "HTTP server stopped"
	LogMsgRequestStarted     = "Request started"
	LogMsgRequestCompleted   = "Request completed"
	LogMsgRequestHeaders     = "Request headers"
	LogMsgAuthFailed         = "Authentication failed"
	LogMsgRepeatedAuthFailed = "Repeated authentication failures"
	LogMsgRateLimited        = "Blocking high request rate"
	LogMsgBadTrustedProxy    = "Ignoring invalid trusted proxy entry"
)

// HTTP header names
const (
	HeaderAPIKey         = "X-API-Key"
	HeaderAuthorization  = "Authorization"
	HeaderForwardedFor   = "X-Forwarded-For"
	HeaderContentType    = "X-Content-Type-Options"
	HeaderFrameOptions   = "X-Frame-Options"
	HeaderReferrerPolicy = "Referrer-Policy"
	HeaderRequestID      = "X-Request-ID"
)

// Security header values
const (
	HeaderValueNoSniff              = "nosniff"
	HeaderValueDeny                 = "DENY"
	HeaderValueReferrerStrictOrigin = "strict-origin-when-cross-origin"
	RedactedValue                   = "[REDACTED]"
)

// Abuse detection
const (
	DetectorWindow        = 5 * time.Minute
	MaxRequestsPerWindow  = 1000
	FailedAuthAlertAt     = 5
	RateLimitLogEvery     = 100
	MaxRequestBodyBytes   = 1 << 20
	ReadHeaderTimeout     = 5 * time.Second
	CORSMaxAgeSeconds     = 300
	DefaultShutdownWindow = 10 * time.Second
)

// PublicPaths bypass API key authentication.
var PublicPaths = []string{
	"/healthz",
	"/readyz",
	"/metrics",
	"/version",
}
