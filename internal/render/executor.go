package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/VamsiKurapati/docrender/internal/fileutil"
)

// DefaultTierTimeout bounds each tier from launch to export.
const DefaultTierTimeout = 60 * time.Second

// Executor runs markup through the tier chain, one tier at a time, until
// one produces a PDF.
type Executor struct {
	tiers      []Tier
	tierCfg    TierConfig
	timeout    time.Duration
	env        Environment
	logger     *slog.Logger
	keepMarkup bool
}

// Option configures an Executor.
type Option func(*Executor)

// WithTiers replaces the default chain. Tiers run in the given order.
func WithTiers(tiers ...Tier) Option {
	return func(e *Executor) {
		e.tiers = tiers
	}
}

// WithTierConfig sets engine discovery for the default chain. It has no
// effect together with WithTiers.
func WithTierConfig(cfg TierConfig) Option {
	return func(e *Executor) {
		e.tierCfg = cfg
	}
}

// WithTierTimeout sets the per-tier timeout. Non-positive values keep the default.
func WithTierTimeout(d time.Duration) Option {
	return func(e *Executor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithEnvironment sets the diagnostics reported on exhaustion.
func WithEnvironment(env Environment) Option {
	return func(e *Executor) {
		e.env = env
	}
}

// WithLogger sets the logger for tier outcomes.
func WithLogger(l *slog.Logger) Option {
	return func(e *Executor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithKeepMarkup leaves the temporary markup file on disk for debugging.
func WithKeepMarkup(keep bool) Option {
	return func(e *Executor) {
		e.keepMarkup = keep
	}
}

// NewExecutor returns an executor with the default four tiers unless
// WithTiers is given.
func NewExecutor(opts ...Option) *Executor {
	e := &Executor{
		timeout: DefaultTierTimeout,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.env.OS == "" {
		e.env = DetectEnvironment(e.env.Deployment)
	}
	if e.tiers == nil {
		cfg := e.tierCfg
		if e.env.Container || e.env.CI || e.env.Serverless() {
			cfg.NoSandbox = true
		}
		e.tiers = DefaultTiers(cfg)
	}
	return e
}

// Tiers returns the tier names in chain order.
func (e *Executor) Tiers() []string {
	names := make([]string, len(e.tiers))
	for i, t := range e.tiers {
		names[i] = t.Name()
	}
	return names
}

// Environment returns the diagnostics attached to failures.
func (e *Executor) Environment() Environment { return e.env }

// Execute writes markup to a temporary file and tries each tier in order.
// A tier failure, including its timeout, moves on to the next tier. When
// every tier fails the result is an *ExhaustedError. Cancelling ctx stops
// the chain between tiers.
func (e *Executor) Execute(ctx context.Context, markup string, size Size) ([]byte, error) {
	if size.Width <= 0 || size.Height <= 0 {
		return nil, fmt.Errorf("%w: %gx%g", ErrInvalidSize, size.Width, size.Height)
	}

	path, cleanup, err := fileutil.WriteTempFile(markup, "html")
	if err != nil {
		return nil, err
	}
	if e.keepMarkup {
		e.logger.InfoContext(ctx, "keeping render markup", "path", path)
	} else {
		defer cleanup()
	}

	failures := make([]*TierError, 0, len(e.tiers))
	for _, tier := range e.tiers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		pdf, err := e.runTier(ctx, tier, path, size)
		elapsed := time.Since(start)

		if err == nil {
			e.logger.InfoContext(ctx, "render tier succeeded", "tier", tier.Name(), "duration", elapsed, "bytes", len(pdf))
			return pdf, nil
		}

		e.logger.WarnContext(ctx, "render tier failed", "tier", tier.Name(), "error", err, "duration", elapsed)
		failures = append(failures, &TierError{Tier: tier.Name(), Duration: elapsed, Err: err})
	}

	exhausted := &ExhaustedError{Failures: failures, Environment: e.env}
	e.logger.ErrorContext(ctx, "render exhausted", "tiers", len(failures), "deployment", e.env.Deployment,
		"os", e.env.OS, "arch", e.env.Arch)
	return nil, exhausted
}

// runTier bounds one tier by the tier timeout and recovers from panics in
// the engine driver so the chain can continue.
func (e *Executor) runTier(ctx context.Context, tier Tier, path string, size Size) (pdf []byte, err error) {
	tierCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			pdf, err = nil, fmt.Errorf("%w: panic: %v", ErrTierLaunch, r)
		}
	}()

	pdf, err = tier.Render(tierCtx, path, size)
	if err == nil && len(pdf) == 0 {
		err = ErrEmptyOutput
	}
	if err != nil && errors.Is(tierCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		err = fmt.Errorf("%w after %v: %v", ErrTierTimeout, e.timeout, err)
	}
	if err != nil {
		pdf = nil
	}
	return pdf, err
}
