// Package bench drives deque implementations through identical workloads,
// times them, and cross-checks what they observed.
package bench

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"braces.dev/errtrace"

	"github.com/lucasgdosr/segdeque/internal/log"
	"github.com/lucasgdosr/segdeque/memory"
)

var (
	// ErrChecksumMismatch is returned when two implementations observed
	// different values under the same workload.
	ErrChecksumMismatch = errors.New("checksum mismatch")
	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("invalid config")
)

func errUnknown(kind, name string) error {
	return fmt.Errorf("%w: unknown %s %q", ErrInvalidConfig, kind, name)
}

// Config selects what a Run measures.
type Config struct {
	// Workloads to run, in order. Empty means every workload.
	Workloads []string
	// Impls to compare. Empty means segmented and ring.
	Impls []string
	// Ops is the number of operations per workload.
	Ops int
	// Window is the steady-state length the workloads aim for.
	Window int
	// Seed feeds the random source; every implementation sees the same stream.
	Seed uint64
	// Pool, if set, recycles the blocks of the segmented deque across runs.
	Pool *memory.Pool[uint64]
	// LogAllocs logs every block allocation at debug level.
	LogAllocs bool
	// Logger defaults to a no-op logger.
	Logger *slog.Logger
}

// Validate checks cfg and fills in the defaults.
func (cfg *Config) Validate() error {
	if len(cfg.Workloads) == 0 {
		cfg.Workloads = Workloads
	}
	if len(cfg.Impls) == 0 {
		cfg.Impls = []string{ImplSegmented, ImplRing}
	}
	for _, w := range cfg.Workloads {
		if !ValidWorkload(w) {
			return errtrace.Wrap(errUnknown("workload", w))
		}
	}
	for _, impl := range cfg.Impls {
		if impl != ImplSegmented && impl != ImplRing {
			return errtrace.Wrap(errUnknown("implementation", impl))
		}
	}
	if cfg.Ops <= 0 {
		return errtrace.Wrap(fmt.Errorf("%w: ops must be positive, got %d", ErrInvalidConfig, cfg.Ops))
	}
	if cfg.Window <= 0 {
		return errtrace.Wrap(fmt.Errorf("%w: window must be positive, got %d", ErrInvalidConfig, cfg.Window))
	}
	return nil
}

func (cfg *Config) logger() *slog.Logger {
	if cfg.Logger == nil {
		return log.Noop
	}
	return cfg.Logger
}

// Result is the outcome of one workload on one implementation.
type Result struct {
	Workload string
	Impl     string
	Ops      int
	Elapsed  time.Duration
	MaxLen   int
	Checksum uint64
}

// NsPerOp is the mean time per operation.
func (r Result) NsPerOp() float64 {
	if r.Ops == 0 {
		return 0
	}
	return float64(r.Elapsed.Nanoseconds()) / float64(r.Ops)
}

// Run executes every workload of cfg on every implementation and returns the
// results in workload-major order. step, if not nil, is called after each
// (workload, implementation) pair. The implementations of a workload must
// agree on the checksum, or Run stops with ErrChecksumMismatch.
func Run(ctx context.Context, cfg Config, step func(Result)) ([]Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errtrace.Wrap(err)
	}
	logger := cfg.logger()

	results := make([]Result, 0, len(cfg.Workloads)*len(cfg.Impls))
	for _, name := range cfg.Workloads {
		ref := -1
		for _, impl := range cfg.Impls {
			res, err := runOne(ctx, name, impl, cfg)
			if err != nil {
				return results, errtrace.Wrap(err)
			}
			logger.Debug("workload done",
				slog.String("workload", name),
				slog.String("impl", impl),
				slog.Duration("elapsed", res.Elapsed),
				slog.Int("max_len", res.MaxLen),
			)
			results = append(results, res)
			if step != nil {
				step(res)
			}

			if ref < 0 {
				ref = len(results) - 1
			} else if want := results[ref]; want.Checksum != res.Checksum {
				return results, errtrace.Wrap(fmt.Errorf("%w: %s: %s=%#x %s=%#x",
					ErrChecksumMismatch, name, want.Impl, want.Checksum, impl, res.Checksum))
			}
		}
	}
	return results, nil
}

func runOne(ctx context.Context, name, impl string, cfg Config) (Result, error) {
	run, err := lookupWorkload(name)
	if err != nil {
		return Result{}, errtrace.Wrap(err)
	}
	q, err := newQueue(impl, cfg)
	if err != nil {
		return Result{}, errtrace.Wrap(err)
	}
	defer q.Release()

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x5851f42d4c957f2d))
	sum := newChecksum()
	start := time.Now()
	maxLen, err := run(ctx, q, rng, cfg, sum)
	elapsed := time.Since(start)
	if err != nil {
		return Result{}, errtrace.Wrap(fmt.Errorf("%s on %s: %w", name, impl, err))
	}
	return Result{
		Workload: name,
		Impl:     impl,
		Ops:      cfg.Ops,
		Elapsed:  elapsed,
		MaxLen:   maxLen,
		Checksum: sum.sum(),
	}, nil
}
