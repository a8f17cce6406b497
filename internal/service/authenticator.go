package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/seolytics/seo-api/internal/config"
	"github.com/seolytics/seo-api/internal/domain/apikey"
	"github.com/seolytics/seo-api/internal/domain/client"
	"github.com/seolytics/seo-api/internal/domain/ratelimit"
	"github.com/seolytics/seo-api/internal/ierr"
	"github.com/seolytics/seo-api/internal/metrics"
	"github.com/seolytics/seo-api/internal/util"
	"go.uber.org/zap"
)

type RejectCode string

const (
	CodeMissingAPIKey     RejectCode = "MISSING_API_KEY"
	CodeMalformedAPIKey   RejectCode = "MALFORMED_API_KEY"
	CodeInvalidAPIKey     RejectCode = "INVALID_API_KEY"
	CodeClientNotFound    RejectCode = "CLIENT_NOT_FOUND"
	CodeKeyNotActive      RejectCode = "KEY_NOT_ACTIVE"
	CodeKeyExpired        RejectCode = "KEY_EXPIRED"
	CodeClientInactive    RejectCode = "CLIENT_INACTIVE"
	CodeIPNotAllowed      RejectCode = "IP_NOT_ALLOWED"
	CodeRateLimitExceeded RejectCode = "RATE_LIMIT_EXCEEDED"
	CodeMissingScopes     RejectCode = "MISSING_SCOPES"
	CodeInternalError     RejectCode = "INTERNAL_ERROR"
)

type Rejection struct {
	Code    RejectCode
	Message string
}

// RateInfo carries the machine-readable quota state for client backoff.
type RateInfo struct {
	MinuteLimit     int
	DayLimit        int
	MinuteCount     int64
	DayCount        int64
	RemainingMinute int64
	RemainingDay    int64
}

// AuthResult is the tagged outcome of one verification: either an admitted
// principal (Client + APIKey) or a Rejection. Transport mapping to HTTP
// status codes and headers lives in the middleware, not here.
type AuthResult struct {
	Client    *client.Client
	Key       *apikey.APIKey
	Rejection *Rejection
	Rate      *RateInfo

	// Degraded is set when the counter backend was unreachable and the
	// request was admitted without rate limiting (deliberate fail-open,
	// availability over strictness for quota enforcement).
	Degraded bool
}

func (r AuthResult) Admitted() bool {
	return r.Rejection == nil
}

// Authenticator runs the fixed admission sequence over one presented
// credential: presence, format, resolve (cache then store), client lookup,
// status, expiry, client active, IP allow-list, rate limit, bookkeeping.
// The order is a policy choice: cheap local checks before I/O, rate limiting
// last so it only counts requests that already passed identity checks.
type Authenticator struct {
	keys    apikey.Repository
	clients client.Repository
	cache   apikey.Cache
	counter ratelimit.Counter

	cacheTTL     time.Duration
	storeTimeout time.Duration

	logger *zap.Logger
	now    func() time.Time
}

func NewAuthenticator(
	keys apikey.Repository,
	clients client.Repository,
	cache apikey.Cache,
	counter ratelimit.Counter,
	cfg *config.AuthConfig,
	logger *zap.Logger,
) *Authenticator {
	return &Authenticator{
		keys:         keys,
		clients:      clients,
		cache:        cache,
		counter:      counter,
		cacheTTL:     cfg.CacheTTL,
		storeTimeout: cfg.StoreTimeout,
		logger:       logger.Named("Authenticator"),
		now:          time.Now,
	}
}

func reject(code RejectCode, message string) AuthResult {
	metrics.AuthRejections.WithLabelValues(string(code)).Inc()
	return AuthResult{Rejection: &Rejection{Code: code, Message: message}}
}

// Verify authenticates and admission-controls one request. Every returned
// rejection is terminal for the request; only RATE_LIMIT_EXCEEDED is meant
// to be retried by the caller, guided by the attached RateInfo.
func (a *Authenticator) Verify(ctx context.Context, rawKey, clientIP string) AuthResult {
	if rawKey == "" {
		return reject(CodeMissingAPIKey, "API key required. Use the X-API-Key header")
	}

	if !strings.HasPrefix(rawKey, "sk_") {
		a.logger.Debug("Malformed API key presented")
		return reject(CodeMalformedAPIKey, "Invalid API key format")
	}

	keyHash := util.HashAPIKey(rawKey)

	key, cli, res := a.resolve(ctx, keyHash)
	if res != nil {
		return *res
	}

	now := a.now()

	if key.Status != apikey.StatusActive {
		return reject(CodeKeyNotActive, fmt.Sprintf("API key is %s", key.Status))
	}

	if key.IsExpired(now) {
		a.expireLazily(ctx, key)
		return reject(CodeKeyExpired, "API key has expired")
	}

	if !cli.IsActive {
		return reject(CodeClientInactive, "Client is inactive")
	}

	if !key.AllowsIP(clientIP) {
		a.logger.Warn("API key used from disallowed IP",
			zap.String("key_id", key.ID.String()),
			zap.String("ip", clientIP),
		)
		return reject(CodeIPNotAllowed, fmt.Sprintf("IP %s is not allowed for this API key", clientIP))
	}

	rate, degraded, limited := a.checkRateLimit(ctx, cli, now)
	if limited != nil {
		res := reject(CodeRateLimitExceeded, limited.Error())
		res.Rate = rate
		return res
	}

	// Bookkeeping is best-effort: a valid request is never failed over it,
	// but every swallowed error is counted.
	if err := a.keys.RecordUsage(ctx, key.ID, now); err != nil {
		metrics.BookkeepingFailures.Inc()
		a.logger.Error("Failed to record api key usage", zap.String("key_id", key.ID.String()), zap.Error(err))
	} else {
		key.TotalRequests++
		key.LastUsedAt = &now
	}

	return AuthResult{
		Client:   cli,
		Key:      key,
		Rate:     rate,
		Degraded: degraded,
	}
}

// resolve loads the key and client records, consulting the cache first. A
// cache hit skips the digest-indexed lookup; both paths end on the durable
// records so a stale entry can never extend a key's life. Store failures
// here are fail-closed: identity cannot be established without the store.
func (a *Authenticator) resolve(ctx context.Context, keyHash string) (*apikey.APIKey, *client.Client, *AuthResult) {
	storeCtx, cancel := context.WithTimeout(ctx, a.storeTimeout)
	defer cancel()

	var key *apikey.APIKey
	var err error
	cacheHit := false

	entry, cacheErr := a.cache.Lookup(storeCtx, keyHash)
	if cacheErr != nil {
		metrics.CacheErrors.Inc()
		a.logger.Warn("Credential cache lookup failed, falling through to store", zap.Error(cacheErr))
	}

	if entry != nil {
		cacheHit = true
		key, err = a.keys.FindByID(storeCtx, entry.KeyID)
	} else {
		key, err = a.keys.FindByHash(storeCtx, keyHash)
	}

	if err != nil {
		if errors.Is(err, ierr.ErrAPIKeyNotFound) {
			res := reject(CodeInvalidAPIKey, "Invalid API key")
			return nil, nil, &res
		}
		a.logger.Error("Store lookup failed during api key resolution", zap.Error(err))
		res := reject(CodeInternalError, "Internal error during API key validation")
		return nil, nil, &res
	}

	cli, err := a.clients.FindByID(storeCtx, key.ClientID)
	if err != nil {
		if errors.Is(err, ierr.ErrClientNotFound) {
			res := reject(CodeClientNotFound, "Client not found")
			return nil, nil, &res
		}
		a.logger.Error("Store lookup failed during client resolution", zap.Error(err))
		res := reject(CodeInternalError, "Internal error during API key validation")
		return nil, nil, &res
	}

	if !cacheHit {
		writeBack := &apikey.CacheEntry{
			KeyID:    key.ID,
			ClientID: cli.ID,
			Status:   key.Status,
			Scopes:   key.Scopes,
		}
		if err := a.cache.Store(storeCtx, keyHash, writeBack, a.cacheTTL); err != nil {
			metrics.CacheErrors.Inc()
			a.logger.Warn("Credential cache write-back failed", zap.Error(err))
		}
	}

	return key, cli, nil
}

// expireLazily persists the active -> expired transition on first
// verification past the expiry timestamp. The next attempt rejects on the
// stored status, which is what makes the transition observable and
// idempotent.
func (a *Authenticator) expireLazily(ctx context.Context, key *apikey.APIKey) {
	if err := a.keys.MarkExpired(ctx, key.ID); err != nil {
		a.logger.Error("Failed to persist lazy key expiry", zap.String("key_id", key.ID.String()), zap.Error(err))
	}
	if err := a.cache.Invalidate(ctx, key.KeyHash); err != nil {
		metrics.CacheErrors.Inc()
		a.logger.Warn("Failed to invalidate cache for expired key", zap.String("key_id", key.ID.String()), zap.Error(err))
	}
}

// checkRateLimit increments both windows atomically and compares against the
// client's limits. A counter backend failure admits the request (fail-open)
// rather than blocking all traffic on a dependency outage; the degraded
// admission is flagged on the result and counted.
func (a *Authenticator) checkRateLimit(ctx context.Context, cli *client.Client, now time.Time) (*RateInfo, bool, error) {
	minuteCount, errMinute := a.counter.Increment(ctx, cli.ID, ratelimit.WindowMinute, now)
	dayCount, errDay := a.counter.Increment(ctx, cli.ID, ratelimit.WindowDay, now)

	if errMinute != nil || errDay != nil {
		metrics.RateLimiterFailOpen.Inc()
		a.logger.Warn("Rate limit backend unreachable, admitting request fail-open",
			zap.String("client_id", cli.ID.String()),
			zap.NamedError("minute_err", errMinute),
			zap.NamedError("day_err", errDay),
		)
		return nil, true, nil
	}

	info := &RateInfo{
		MinuteLimit:     cli.RateLimitPerMinute,
		DayLimit:        cli.RateLimitPerDay,
		MinuteCount:     minuteCount,
		DayCount:        dayCount,
		RemainingMinute: remaining(cli.RateLimitPerMinute, minuteCount),
		RemainingDay:    remaining(cli.RateLimitPerDay, dayCount),
	}

	if minuteCount > int64(cli.RateLimitPerMinute) {
		return info, false, fmt.Errorf("rate limit exceeded: %d requests per minute", cli.RateLimitPerMinute)
	}
	if dayCount > int64(cli.RateLimitPerDay) {
		return info, false, fmt.Errorf("rate limit exceeded: %d requests per day", cli.RateLimitPerDay)
	}

	return info, false, nil
}

func remaining(limit int, count int64) int64 {
	if r := int64(limit) - count; r > 0 {
		return r
	}
	return 0
}
