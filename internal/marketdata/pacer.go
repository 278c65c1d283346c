package marketdata

import (
	"context"
	"math/rand"
	"time"

	"golang.org/x/time/rate"
)

// PacerConfig tunes the request pacing and backoff behavior.
type PacerConfig struct {
	// RatePerSecond is the global request budget shared by every fetch.
	RatePerSecond float64
	// Jitter is the upper bound of the randomized inter-request delay.
	Jitter time.Duration
	// PauseEvery inserts a longer pause after this many requests.
	PauseEvery int
	// Pause is the base duration of the periodic pause (randomized up to 2x).
	Pause time.Duration
	// RateLimitBackoff is the base delay before retrying a throttled
	// request (randomized up to 2x). Substantially longer than Jitter.
	RateLimitBackoff time.Duration
}

// DefaultPacerConfig paces requests gently enough that the provider's
// shared rate limit is normally never hit.
func DefaultPacerConfig() PacerConfig {
	return PacerConfig{
		RatePerSecond:    2,
		Jitter:           500 * time.Millisecond,
		PauseEvery:       20,
		Pause:            5 * time.Second,
		RateLimitBackoff: 10 * time.Second,
	}
}

// Pacer spaces out provider requests: a token bucket enforces the global
// rate budget, each request adds a small randomized jitter, and every
// PauseEvery requests a longer pause lets the provider breathe. The token
// bucket is the single shared budget, so parallel fetch workers added
// later inherit the same rate contract.
//
// The jitter/pause bookkeeping assumes the orchestrator's sequential loop;
// only the embedded limiter is safe for concurrent use.
type Pacer struct {
	cfg     PacerConfig
	limiter *rate.Limiter
	rng     *rand.Rand
	count   int
}

// NewPacer creates a pacer from the given config, applying defaults for
// zero fields.
func NewPacer(cfg PacerConfig) *Pacer {
	def := DefaultPacerConfig()
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = def.RatePerSecond
	}
	if cfg.Jitter <= 0 {
		cfg.Jitter = def.Jitter
	}
	if cfg.PauseEvery <= 0 {
		cfg.PauseEvery = def.PauseEvery
	}
	if cfg.Pause <= 0 {
		cfg.Pause = def.Pause
	}
	if cfg.RateLimitBackoff <= 0 {
		cfg.RateLimitBackoff = def.RateLimitBackoff
	}
	return &Pacer{
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Wait blocks until the next request may be sent. Returns the context's
// error if cancelled while waiting.
func (p *Pacer) Wait(ctx context.Context) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}
	jitter := time.Duration(p.rng.Int63n(int64(p.cfg.Jitter)))
	if err := sleepCtx(ctx, jitter); err != nil {
		return err
	}
	p.count++
	if p.count%p.cfg.PauseEvery == 0 {
		return sleepCtx(ctx, p.randomized(p.cfg.Pause))
	}
	return nil
}

// Backoff sleeps the randomized rate-limit delay before a throttled
// request is retried.
func (p *Pacer) Backoff(ctx context.Context) error {
	return sleepCtx(ctx, p.randomized(p.cfg.RateLimitBackoff))
}

// randomized returns a duration in [d, 2d).
func (p *Pacer) randomized(d time.Duration) time.Duration {
	return d + time.Duration(p.rng.Int63n(int64(d)))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
