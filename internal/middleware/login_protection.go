// Copyright (c) 2025-2026 Valforêt
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/valforet/valforet-go/internal/i18n"
)

// maxLockout caps the exponential backoff applied to repeat offenders.
const maxLockout = 24 * time.Hour

// lockState tracks failed sign-in attempts for one account.
type lockState struct {
	failures    int
	windowStart time.Time
	lockedUntil time.Time
	lockouts    int
}

// LoginProtectionConfig tunes the sign-in brute-force defenses. Zero
// values fall back to the defaults.
type LoginProtectionConfig struct {
	IPRateLimit       float64       // requests per second per client IP
	IPBurst           int           // burst allowance on top of the rate
	MaxFailedAttempts int           // failures inside the window before a lockout
	LockoutDuration   time.Duration // first lockout length, doubled per repeat
	AttemptWindow     time.Duration // how far back failures are counted
}

// DefaultLoginProtectionConfig allows one login POST every two seconds per
// IP and locks an account for fifteen minutes after five failures.
func DefaultLoginProtectionConfig() LoginProtectionConfig {
	return LoginProtectionConfig{
		IPRateLimit:       0.5,
		IPBurst:           5,
		MaxFailedAttempts: 5,
		LockoutDuration:   15 * time.Minute,
		AttemptWindow:     15 * time.Minute,
	}
}

func (cfg LoginProtectionConfig) withDefaults() LoginProtectionConfig {
	def := DefaultLoginProtectionConfig()
	if cfg.IPRateLimit <= 0 {
		cfg.IPRateLimit = def.IPRateLimit
	}
	if cfg.IPBurst <= 0 {
		cfg.IPBurst = def.IPBurst
	}
	if cfg.MaxFailedAttempts <= 0 {
		cfg.MaxFailedAttempts = def.MaxFailedAttempts
	}
	if cfg.LockoutDuration <= 0 {
		cfg.LockoutDuration = def.LockoutDuration
	}
	if cfg.AttemptWindow <= 0 {
		cfg.AttemptWindow = def.AttemptWindow
	}
	return cfg
}

// LoginProtection combines per-IP rate limiting on the login route with
// per-account lockouts. The two layers are independent: the rate limit
// slows one machine down, the lockout stops a distributed guess of one
// account's password.
type LoginProtection struct {
	cfg LoginProtectionConfig

	byIP *limiterCache[string]

	mu       sync.RWMutex
	accounts map[string]lockState
}

// NewLoginProtection builds the protection layer and starts its
// background janitor.
func NewLoginProtection(cfg LoginProtectionConfig) *LoginProtection {
	cfg = cfg.withDefaults()
	lp := &LoginProtection{
		cfg:      cfg,
		byIP:     newLimiterCache[string](cfg.IPRateLimit, cfg.IPBurst),
		accounts: make(map[string]lockState),
	}
	go lp.janitor()
	return lp
}

// CheckIPRateLimit reports whether a login request from the given IP may
// proceed.
func (lp *LoginProtection) CheckIPRateLimit(ip string) bool {
	return lp.byIP.get(ip).Allow()
}

// IsAccountLocked reports whether the account is locked and for how much
// longer.
func (lp *LoginProtection) IsAccountLocked(email string) (bool, time.Duration) {
	lp.mu.RLock()
	state, ok := lp.accounts[email]
	lp.mu.RUnlock()

	if ok && time.Now().Before(state.lockedUntil) {
		return true, time.Until(state.lockedUntil)
	}
	return false, 0
}

// RecordFailedAttempt counts one failed sign-in. When the failure count
// inside the window reaches the configured maximum the account locks, and
// each successive lockout doubles in length up to a day.
func (lp *LoginProtection) RecordFailedAttempt(email string) (bool, time.Duration) {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	now := time.Now()
	state, ok := lp.accounts[email]
	if !ok || now.Sub(state.windowStart) > lp.cfg.AttemptWindow {
		state = lockState{windowStart: now, lockouts: state.lockouts}
	}
	state.failures++

	if state.failures < lp.cfg.MaxFailedAttempts {
		lp.accounts[email] = state
		return false, 0
	}

	shift := state.lockouts
	if shift > 10 {
		shift = 10
	}
	lock := lp.cfg.LockoutDuration << shift
	if lock > maxLockout {
		lock = maxLockout
	}
	state.lockedUntil = now.Add(lock)
	state.lockouts++
	state.failures = 0
	lp.accounts[email] = state

	slog.Warn("account locked after repeated sign-in failures",
		"email", email, "lockouts", state.lockouts, "duration", lock)
	return true, lock
}

// RecordSuccessfulLogin forgets all failure tracking for the account.
func (lp *LoginProtection) RecordSuccessfulLogin(email string) {
	lp.mu.Lock()
	delete(lp.accounts, email)
	lp.mu.Unlock()
}

// janitor drops stale tracking entries every ten minutes so the maps do
// not grow without bound.
func (lp *LoginProtection) janitor() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		lp.sweep()
	}
}

func (lp *LoginProtection) sweep() {
	if lp.byIP.clearIfExceeds(10000) {
		slog.Info("login IP limiter cache cleared")
	}

	now := time.Now()
	lp.mu.Lock()
	for email, state := range lp.accounts {
		if now.After(state.lockedUntil) && now.Sub(state.windowStart) > lp.cfg.AttemptWindow {
			delete(lp.accounts, email)
		}
	}
	lp.mu.Unlock()
}

// Middleware rate-limits login POSTs per client IP. GET requests for the
// sign-in form pass through untouched.
func (lp *LoginProtection) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}
			ip := GetClientIP(r)
			if !lp.CheckIPRateLimit(ip) {
				slog.Warn("login rate limit exceeded", "ip", ip)
				http.Error(w, i18n.T(GetLang(r), "auth.rate_limit"), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetClientIP resolves the client address, trusting the headers the
// reverse proxy in front of the app sets. X-Real-IP wins, then the first
// hop of X-Forwarded-For, then RemoteAddr with its port stripped.
func GetClientIP(r *http.Request) string {
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if raw := r.Header.Get("X-Forwarded-For"); raw != "" {
		first, _, _ := strings.Cut(raw, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
