package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/time/rate"
)

const localOwnerID = "owner_id"

// JWTAuth verifies an HS256 bearer token and stores its subject as the
// owner id of the request.
func JWTAuth(jwtSecret string) fiber.Handler {
	key := []byte(jwtSecret)
	return func(c *fiber.Ctx) error {
		authHeader := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
		if authHeader == "" {
			return unauthorized(c, "Authorization header required", "MISSING_AUTH_HEADER")
		}
		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok {
			return unauthorized(c, "Bearer token required", "INVALID_AUTH_FORMAT")
		}
		tokenString = strings.TrimSpace(tokenString)
		if tokenString == "" {
			return unauthorized(c, "Token cannot be empty", "EMPTY_TOKEN")
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if method, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			} else if method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("unexpected HMAC algorithm: %v", method.Alg())
			}
			return key, nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return unauthorized(c, "Token expired", "TOKEN_EXPIRED")
			}
			return unauthorized(c, "Invalid token", "TOKEN_INVALID")
		}

		sub, err := token.Claims.GetSubject()
		if err != nil || strings.TrimSpace(sub) == "" {
			return unauthorized(c, "Invalid token claims", "INVALID_CLAIMS")
		}

		c.Locals(localOwnerID, sub)
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx, message, code string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(errorResponse{Error: message, Code: code})
}

// ownerID returns the authenticated subject. It is empty on public routes.
func ownerID(c *fiber.Ctx) string {
	id, _ := c.Locals(localOwnerID).(string)
	return id
}

// RequestLogger logs one line per request. Errors are resolved through the
// app's error handler first so the logged status is the one sent.
func RequestLogger(log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if chainErr := c.Next(); chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		attrs := []any{
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			slog.String("request_id", c.GetRespHeader(fiber.HeaderXRequestID)),
		}
		if owner := ownerID(c); owner != "" {
			attrs = append(attrs, slog.String("owner_id", owner))
		}

		switch {
		case status >= fiber.StatusInternalServerError:
			log.Error("request", attrs...)
		case status >= fiber.StatusBadRequest:
			log.Warn("request", attrs...)
		default:
			log.Info("request", attrs...)
		}
		return nil
	}
}

// RequestTimeout gives the handler a user context that expires after d.
// Blocking work downstream (browser queueing, page load, printing) stops
// at the deadline instead of holding the connection open.
func RequestTimeout(d time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), d)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// RateLimiterConfig controls the per-client request rate.
type RateLimiterConfig struct {
	PerMinute       int
	CleanupInterval time.Duration
}

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	rate            rate.Limit
	burst           int
	cleanupInterval time.Duration

	mu       sync.RWMutex
	limiters map[string]*clientLimiter

	stopCh   chan struct{}
	stopOnce sync.Once
	log      *slog.Logger
}

// NewRateLimiter starts the background cleanup of idle clients. Call Stop
// when done.
func NewRateLimiter(cfg RateLimiterConfig, log *slog.Logger) *RateLimiter {
	if cfg.PerMinute <= 0 {
		cfg.PerMinute = 100
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 5 * time.Minute
	}
	if log == nil {
		log = slog.Default()
	}
	rl := &RateLimiter{
		rate:            rate.Limit(float64(cfg.PerMinute) / 60.0),
		burst:           cfg.PerMinute,
		cleanupInterval: cfg.CleanupInterval,
		limiters:        make(map[string]*clientLimiter),
		stopCh:          make(chan struct{}),
		log:             log,
	}

	go rl.cleanupLoop()

	return rl
}

// Stop ends the cleanup goroutine.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

func (rl *RateLimiter) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		client := c.IP()
		if !rl.get(client).Allow() {
			rl.log.Warn("rate limit exceeded",
				slog.String("client_ip", client),
				slog.String("path", c.Path()),
			)
			retryAfter := int(math.Ceil(1.0 / float64(rl.rate)))
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
			return c.Status(fiber.StatusTooManyRequests).JSON(errorResponse{
				Error: "Too many requests. Please try again later.",
				Code:  "RATE_LIMIT_EXCEEDED",
			})
		}
		return c.Next()
	}
}

// Count returns the number of tracked clients.
func (rl *RateLimiter) Count() int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()
	return len(rl.limiters)
}

func (rl *RateLimiter) get(client string) *rate.Limiter {
	rl.mu.RLock()
	cl, exists := rl.limiters[client]
	rl.mu.RUnlock()

	if exists {
		rl.mu.Lock()
		cl.lastAccess = time.Now()
		rl.mu.Unlock()
		return cl.limiter
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	// double-check
	if cl, exists := rl.limiters[client]; exists {
		cl.lastAccess = time.Now()
		return cl.limiter
	}

	limiter := rate.NewLimiter(rl.rate, rl.burst)
	rl.limiters[client] = &clientLimiter{limiter: limiter, lastAccess: time.Now()}
	return limiter
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup(time.Now())
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup drops clients idle for more than two cleanup intervals.
func (rl *RateLimiter) cleanup(now time.Time) {
	ttl := rl.cleanupInterval * 2

	rl.mu.Lock()
	defer rl.mu.Unlock()
	for client, cl := range rl.limiters {
		if now.Sub(cl.lastAccess) > ttl {
			delete(rl.limiters, client)
		}
	}
}
