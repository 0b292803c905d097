package server

import (
	"crypto/subtle"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"github.com/osse101/EconomyBot_Go/internal/logger"
)

// AuthMiddleware requires the X-API-Key header on every non-public path.
// An empty configured key rejects everything.
func AuthMiddleware(apiKey string, proxies *TrustedProxies, detector *AbuseDetector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			provided := r.Header.Get(HeaderAPIKey)
			if apiKey == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
				ip := proxies.ClientIP(r)
				detector.RecordFailedAuth(ip)
				logger.FromContext(r.Context()).Warn(LogMsgAuthFailed,
					"path", r.URL.Path,
					"has_key", provided != "",
					"ip", ip)
				http.Error(w, ErrMsgUnauthorized, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isPublicPath(path string) bool {
	for _, p := range PublicPaths {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// RequestSizeLimitMiddleware caps request bodies
func RequestSizeLimitMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// AbuseDetector counts requests and failed authentications per client IP
// in fixed windows.
type AbuseDetector struct {
	mu          sync.Mutex
	failedAuth  map[string]int
	requests    map[string]int
	windowStart time.Time
	now         func() time.Time
}

func NewAbuseDetector() *AbuseDetector {
	d := &AbuseDetector{now: time.Now}
	d.reset()
	return d
}

// RecordFailedAuth counts a failed authentication and warns once the IP
// reaches the alert threshold.
func (d *AbuseDetector) RecordFailedAuth(ip string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.rollWindow()
	d.failedAuth[ip]++
	if d.failedAuth[ip] >= FailedAuthAlertAt {
		slog.Warn(LogMsgRepeatedAuthFailed, "ip", ip, "count", d.failedAuth[ip])
	}
}

// Allow counts a request and reports whether the IP is still under the
// per-window limit.
func (d *AbuseDetector) Allow(ip string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.rollWindow()
	d.requests[ip]++
	count := d.requests[ip]
	if count <= MaxRequestsPerWindow {
		return true
	}
	if count%RateLimitLogEvery == 0 {
		slog.Warn(LogMsgRateLimited, "ip", ip, "count_in_window", count)
	}
	return false
}

// rollWindow starts a new window when the current one has elapsed. Caller
// holds mu.
func (d *AbuseDetector) rollWindow() {
	if d.now().Sub(d.windowStart) > DetectorWindow {
		d.reset()
	}
}

func (d *AbuseDetector) reset() {
	d.failedAuth = make(map[string]int)
	d.requests = make(map[string]int)
	d.windowStart = d.now()
}

// RateLimitMiddleware rejects clients over the per-window request limit.
func RateLimitMiddleware(proxies *TrustedProxies, detector *AbuseDetector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !detector.Allow(proxies.ClientIP(r)) {
				http.Error(w, ErrMsgTooManyRequests, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// TrustedProxies decides when X-Forwarded-For may be believed. Entries
// are single addresses or CIDR prefixes.
type TrustedProxies struct {
	prefixes []netip.Prefix
}

func NewTrustedProxies(entries []string) *TrustedProxies {
	t := &TrustedProxies{}
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if p, err := netip.ParsePrefix(e); err == nil {
			t.prefixes = append(t.prefixes, p.Masked())
			continue
		}
		if a, err := netip.ParseAddr(e); err == nil {
			t.prefixes = append(t.prefixes, netip.PrefixFrom(a, a.BitLen()))
			continue
		}
		slog.Warn(LogMsgBadTrustedProxy, "entry", e)
	}
	return t
}

func (t *TrustedProxies) trusted(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range t.prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// ClientIP returns the connecting address, or the last X-Forwarded-For hop
// when the connection comes from a trusted proxy.
func (t *TrustedProxies) ClientIP(r *http.Request) string {
	remote, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remote = r.RemoteAddr
	}
	if t == nil || !t.trusted(remote) {
		return remote
	}
	forwarded := r.Header.Get(HeaderForwardedFor)
	if forwarded == "" {
		return remote
	}
	hops := strings.Split(forwarded, ",")
	return strings.TrimSpace(hops[len(hops)-1])
}

// SecurityHeadersMiddleware sets browser security response headers
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set(HeaderContentType, HeaderValueNoSniff)
			h.Set(HeaderFrameOptions, HeaderValueDeny)
			h.Set(HeaderReferrerPolicy, HeaderValueReferrerStrictOrigin)
			next.ServeHTTP(w, r)
		})
	}
}
