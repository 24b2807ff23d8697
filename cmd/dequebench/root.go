package main

import (
	"fmt"
	"io"
	"strings"

	"braces.dev/errtrace"
	"github.com/schollz/progressbar/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lucasgdosr/segdeque/internal/bench"
	"github.com/lucasgdosr/segdeque/internal/log"
	"github.com/lucasgdosr/segdeque/memory"
)

const (
	defaultOps    = 1_000_000
	defaultWindow = 10_000
	defaultSeed   = 1
)

func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "dequebench",
		Short: "Compare the segmented deque against a ring-buffer deque",
		Long: `Run identical workloads on the segmented deque and a ring-buffer deque,
check that both observed the same values, and print a timing table.

Environment variables:
  DEQUEBENCH_OPS=1000000
  DEQUEBENCH_WINDOW=10000
  DEQUEBENCH_WORKLOAD="fifo window"
  DEQUEBENCH_LOG_LEVEL=info`,
		Example: `  dequebench
  dequebench --workload fifo --workload mixed --ops 5000000
  dequebench --pool 64 --log-allocs --log-level debug`,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		DisableAutoGenTag: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return errtrace.Wrap(initConfig(v))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return errtrace.Wrap(run(cmd, v))
		},
	}

	flags := cmd.Flags()
	flags.StringSlice("workload", nil, fmt.Sprintf("workloads to run, any of %s (default all)", strings.Join(bench.Workloads, ", ")))
	flags.StringSlice("impl", nil, "implementations to compare, segmented and/or ring (default both)")
	flags.Int("ops", defaultOps, "operations per workload")
	flags.Int("window", defaultWindow, "steady-state queue length")
	flags.Uint64("seed", defaultSeed, "random seed")
	flags.Int("pool", 0, "recycle up to this many released blocks (0 disables the pool)")
	flags.Bool("log-allocs", false, "log every block allocation at debug level")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.Bool("dev-log", false, "use the verbose developer log format")
	flags.Bool("progress", false, "show a progress bar")
	flags.String("config", "", "config file (default none)")

	if err := v.BindPFlags(flags); err != nil {
		panic(err)
	}
	v.SetDefault("ops", defaultOps)
	v.SetDefault("window", defaultWindow)
	v.SetDefault("seed", defaultSeed)
	v.SetDefault("log-level", "info")

	return cmd
}

func initConfig(v *viper.Viper) error {
	v.SetEnvPrefix("DEQUEBENCH")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if fn := v.GetString("config"); fn != "" {
		v.SetConfigFile(fn)
		if err := v.ReadInConfig(); err != nil {
			return errtrace.Wrap(fmt.Errorf("read config %s: %w", fn, err))
		}
	}
	return nil
}

func run(cmd *cobra.Command, v *viper.Viper) error {
	level, err := log.ParseLevel(v.GetString("log-level"))
	if err != nil {
		return errtrace.Wrap(err)
	}
	logger := log.New(cmd.ErrOrStderr(), level, v.GetBool("dev-log"))

	cfg := bench.Config{
		Workloads: v.GetStringSlice("workload"),
		Impls:     v.GetStringSlice("impl"),
		Ops:       v.GetInt("ops"),
		Window:    v.GetInt("window"),
		Seed:      v.GetUint64("seed"),
		LogAllocs: v.GetBool("log-allocs"),
		Logger:    logger,
	}
	if n := v.GetInt("pool"); n > 0 {
		cfg.Pool = memory.NewPool[uint64](n)
	}
	if err := cfg.Validate(); err != nil {
		return errtrace.Wrap(err)
	}

	var step func(bench.Result)
	if v.GetBool("progress") {
		bar := progressbar.New(len(cfg.Workloads) * len(cfg.Impls))
		step = func(bench.Result) { _ = bar.Add(1) }
	}

	logger.Info("running workloads",
		"workloads", cfg.Workloads,
		"impls", cfg.Impls,
		"ops", cfg.Ops,
		"window", cfg.Window,
	)
	results, err := bench.Run(cmd.Context(), cfg, step)
	if len(results) > 0 {
		writeReport(cmd.OutOrStdout(), results)
	}
	if err != nil {
		return errtrace.Wrap(err)
	}
	if cfg.Pool != nil {
		stats := cfg.Pool.Stats()
		logger.Info("block pool", "hits", stats.Hits, "misses", stats.Misses, "idle", stats.Idle)
	}
	return nil
}

func writeReport(w io.Writer, results []bench.Result) {
	_, _ = fmt.Fprintln(w)
	bench.WriteTable(w, results)
}
