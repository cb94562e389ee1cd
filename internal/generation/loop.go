package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/dialogen/internal/domain"
	"github.com/phrazzld/dialogen/internal/keypool"
	"github.com/phrazzld/dialogen/internal/normalize"
)

// ExhaustionPolicy selects what the loop does when every credential in the
// pool has signalled quota exhaustion within one full rotation.
type ExhaustionPolicy string

const (
	// ExhaustionCooldown sleeps for the configured cooldown, clears the
	// tried-set, and resumes rotation from the pool's next credential.
	ExhaustionCooldown ExhaustionPolicy = "cooldown"

	// ExhaustionSkip gives up on the current task immediately after one
	// full rotation without a backoff.
	ExhaustionSkip ExhaustionPolicy = "skip"
)

// Policy holds the retry and backoff knobs for the generation loop. The
// three historical script variants differed only in these values, so they
// are configuration rather than code.
type Policy struct {
	// MaxParseRetries bounds the outer attempt loop. A task whose raw
	// output never parses within this budget yields an empty result.
	MaxParseRetries int

	// RotateDelay is the short pause before retrying with a freshly
	// rotated credential after a quota hit.
	RotateDelay time.Duration

	// ParseRetryDelay is the fixed pause between parse-failure attempts.
	ParseRetryDelay time.Duration

	// Exhaustion selects the full-pool-exhaustion behavior.
	Exhaustion ExhaustionPolicy

	// CooldownDelay is the extended backoff used by ExhaustionCooldown.
	CooldownDelay time.Duration
}

// Validate checks the policy for values the loop cannot run with.
func (p Policy) Validate() error {
	if p.MaxParseRetries < 1 {
		return fmt.Errorf("%w: max parse retries must be at least 1", ErrInvalidConfig)
	}
	if p.Exhaustion != ExhaustionCooldown && p.Exhaustion != ExhaustionSkip {
		return fmt.Errorf("%w: unknown exhaustion policy %q", ErrInvalidConfig, p.Exhaustion)
	}
	if p.Exhaustion == ExhaustionCooldown && p.CooldownDelay <= 0 {
		return fmt.Errorf("%w: cooldown policy requires a positive cooldown delay", ErrInvalidConfig)
	}
	return nil
}

// Loop orchestrates one generation task end to end: it selects credentials
// from the pool, issues model calls, rotates on quota exhaustion, backs off
// when the whole pool is exhausted, and retries parse failures up to the
// configured bound. All per-task failures are absorbed here and reported as
// an error result plus log diagnostics; the loop never panics and always
// terminates.
type Loop struct {
	client ModelClient
	pool   *keypool.Pool
	policy Policy
	logger *slog.Logger
}

// NewLoop creates a Loop with the provided dependencies.
func NewLoop(client ModelClient, pool *keypool.Pool, policy Policy, logger *slog.Logger) (*Loop, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: model client cannot be nil", ErrInvalidConfig)
	}
	if pool == nil {
		return nil, fmt.Errorf("%w: credential pool cannot be nil", ErrInvalidConfig)
	}
	if logger == nil {
		return nil, fmt.Errorf("%w: logger cannot be nil", ErrInvalidConfig)
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	return &Loop{
		client: client,
		pool:   pool,
		policy: policy,
		logger: logger,
	}, nil
}

// RunObject runs the task expecting a single JSON object record.
func (l *Loop) RunObject(ctx context.Context, task Task) (map[string]any, error) {
	result, err := l.run(ctx, task, func(raw string) (any, bool) {
		return normalize.Object(raw)
	})
	if err != nil {
		return nil, err
	}
	return result.(map[string]any), nil
}

// RunTurns runs the task expecting an ordered turn array record.
func (l *Loop) RunTurns(ctx context.Context, task Task) ([]domain.Turn, error) {
	result, err := l.run(ctx, task, func(raw string) (any, bool) {
		return normalize.Turns(raw)
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Turn), nil
}

// run is the state machine shared by both record shapes. The outer loop is
// bounded by the parse-retry budget; the inner loop rotates credentials and
// is bounded by pool exhaustion. Every wait is context-aware.
func (l *Loop) run(ctx context.Context, task Task, parse func(string) (any, bool)) (any, error) {
	tried := keypool.NewTriedSet()
	key := l.pool.Next()
	tried.Mark(key)

	for attempt := 1; attempt <= l.policy.MaxParseRetries; attempt++ {
		var raw string

	rotation:
		for {
			l.logger.DebugContext(ctx, "calling model",
				"task", task.Label,
				"attempt", attempt,
				"key_suffix", keySuffix(key))

			var err error
			raw, err = l.client.Generate(ctx, task.SystemPrompt, task.UserPrompt, key)
			switch {
			case err == nil:
				break rotation

			case errors.Is(err, ErrQuotaExceeded):
				l.logger.WarnContext(ctx, "rate limit hit, rotating credential",
					"task", task.Label,
					"key_suffix", keySuffix(key))

				next := l.pool.Next()
				if tried.Tried(next) {
					// Full rotation: every credential has been tried.
					if l.policy.Exhaustion == ExhaustionSkip {
						l.logger.WarnContext(ctx, "all credentials exhausted, skipping task",
							"task", task.Label,
							"keys_tried", tried.Size())
						return nil, fmt.Errorf("%w: all %d credentials exhausted for %s",
							ErrEmptyResult, l.pool.Len(), task.Label)
					}

					l.logger.WarnContext(ctx, "all credentials exhausted, cooling down",
						"task", task.Label,
						"cooldown", l.policy.CooldownDelay.String())
					if err := l.sleep(ctx, l.policy.CooldownDelay); err != nil {
						return nil, err
					}
					tried.Reset()
				}

				key = next
				tried.Mark(key)
				if err := l.sleep(ctx, l.policy.RotateDelay); err != nil {
					return nil, err
				}

			default:
				// Anything that is not a quota signal abandons the task.
				l.logger.ErrorContext(ctx, "model call failed, abandoning task",
					"task", task.Label,
					"error", err)
				return nil, err
			}
		}

		if record, ok := parse(raw); ok {
			l.logger.InfoContext(ctx, "task generated",
				"task", task.Label,
				"attempt", attempt)
			return record, nil
		}

		l.logger.WarnContext(ctx, "empty or invalid model output",
			"task", task.Label,
			"attempt", attempt,
			"max_attempts", l.policy.MaxParseRetries,
			"raw_length", len(raw))

		if attempt < l.policy.MaxParseRetries {
			if err := l.sleep(ctx, l.policy.ParseRetryDelay); err != nil {
				return nil, err
			}
			// Continue from the pool's current position, not from the
			// credential that just produced garbage.
			key = l.pool.Next()
			tried.Mark(key)
		}
	}

	return nil, fmt.Errorf("%w: parse retries exhausted after %d attempts for %s",
		ErrEmptyResult, l.policy.MaxParseRetries, task.Label)
}

// sleep blocks for the given duration or until the context is cancelled,
// in which case the cancellation surfaces as a transient failure.
func (l *Loop) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrTransientFailure, ctx.Err())
	}
}

// keySuffix returns the last four characters of a credential for logging,
// so keys are identifiable without being disclosed.
func keySuffix(key string) string {
	if len(key) <= 4 {
		return key
	}
	return key[len(key)-4:]
}
