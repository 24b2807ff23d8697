package bench

import (
	"context"
	"math/rand/v2"
	"slices"

	"braces.dev/errtrace"
)

// Workload names accepted in Config.Workloads.
const (
	FIFO   = "fifo"
	LIFO   = "lifo"
	Mixed  = "mixed"
	Random = "random"
	Window = "window"
)

// Workloads lists every workload in report order.
var Workloads = []string{FIFO, LIFO, Mixed, Random, Window}

// checkEvery is how many operations run between context checks.
const checkEvery = 4096

type workload func(ctx context.Context, q Queue, rng *rand.Rand, cfg Config, sum *checksum) (maxLen int, err error)

var workloads = map[string]workload{
	FIFO:   runFIFO,
	LIFO:   runLIFO,
	Mixed:  runMixed,
	Random: runRandom,
	Window: runWindow,
}

func lookupWorkload(name string) (workload, error) {
	w, ok := workloads[name]
	if !ok {
		return nil, errtrace.Wrap(errUnknown("workload", name))
	}
	return w, nil
}

// ValidWorkload reports whether name is a known workload.
func ValidWorkload(name string) bool { return slices.Contains(Workloads, name) }

func canceled(ctx context.Context, i int) error {
	if i%checkEvery != 0 {
		return nil
	}
	return errtrace.Wrap(ctx.Err())
}

// runFIFO keeps a queue of cfg.Window elements in steady state: push back,
// pop front.
func runFIFO(ctx context.Context, q Queue, _ *rand.Rand, cfg Config, sum *checksum) (int, error) {
	maxLen := 0
	for i := range cfg.Ops {
		if err := canceled(ctx, i); err != nil {
			return maxLen, err
		}
		if err := q.PushBack(uint64(i)); err != nil {
			return maxLen, errtrace.Wrap(err)
		}
		if q.Len() > cfg.Window {
			v, _ := q.PopFront()
			sum.add(v)
		}
		maxLen = max(maxLen, q.Len())
	}
	return maxLen, nil
}

// runLIFO grows the queue to cfg.Window elements and drains it again, over
// and over.
func runLIFO(ctx context.Context, q Queue, _ *rand.Rand, cfg Config, sum *checksum) (int, error) {
	maxLen := 0
	filling := true
	for i := range cfg.Ops {
		if err := canceled(ctx, i); err != nil {
			return maxLen, err
		}
		if filling {
			if err := q.PushBack(uint64(i)); err != nil {
				return maxLen, errtrace.Wrap(err)
			}
			filling = q.Len() < cfg.Window
		} else {
			v, _ := q.PopBack()
			sum.add(v)
			filling = q.Len() == 0
		}
		maxLen = max(maxLen, q.Len())
	}
	return maxLen, nil
}

// runMixed picks an end and a direction at random for every operation, with
// a slight bias toward pushing.
func runMixed(ctx context.Context, q Queue, rng *rand.Rand, cfg Config, sum *checksum) (int, error) {
	maxLen := 0
	for i := range cfg.Ops {
		if err := canceled(ctx, i); err != nil {
			return maxLen, err
		}
		var err error
		switch r := rng.IntN(100); {
		case r < 28:
			err = q.PushBack(uint64(i))
		case r < 56:
			err = q.PushFront(uint64(i))
		case r < 78:
			if v, ok := q.PopFront(); ok {
				sum.add(v)
			}
		default:
			if v, ok := q.PopBack(); ok {
				sum.add(v)
			}
		}
		if err != nil {
			return maxLen, errtrace.Wrap(err)
		}
		maxLen = max(maxLen, q.Len())
	}
	return maxLen, nil
}

// runRandom fills the queue from both ends and then reads it at random
// indexes.
func runRandom(ctx context.Context, q Queue, rng *rand.Rand, cfg Config, sum *checksum) (int, error) {
	for i := range cfg.Window {
		var err error
		if i%2 == 0 {
			err = q.PushBack(uint64(i))
		} else {
			err = q.PushFront(uint64(i))
		}
		if err != nil {
			return q.Len(), errtrace.Wrap(err)
		}
	}
	n := q.Len()
	if n == 0 {
		return 0, nil
	}
	for i := range cfg.Ops {
		if err := canceled(ctx, i); err != nil {
			return n, err
		}
		sum.add(q.At(rng.IntN(n)))
	}
	return n, nil
}

// runWindow keeps the last cfg.Window distinct keys seen, a bounded history
// with set membership: a key already in the window is a hit and is not
// queued again.
func runWindow(ctx context.Context, q Queue, rng *rand.Rand, cfg Config, sum *checksum) (int, error) {
	set := newWindowSet(max(cfg.Window, 64))
	keys := uint64(max(cfg.Window, 1)) * 2

	maxLen := 0
	var hits uint64
	for i := range cfg.Ops {
		if err := canceled(ctx, i); err != nil {
			return maxLen, err
		}
		k := rng.Uint64N(keys)
		if set.has(k) {
			hits++
			continue
		}
		for q.Len() >= cfg.Window && q.Len() > 0 {
			v, _ := q.PopFront()
			set.remove(v)
			sum.add(v)
		}
		if err := q.PushBack(k); err != nil {
			return maxLen, errtrace.Wrap(err)
		}
		set.add(k)
		maxLen = max(maxLen, q.Len())
	}
	sum.add(hits)
	return maxLen, nil
}
