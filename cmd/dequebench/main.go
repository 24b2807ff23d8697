// Command dequebench compares the segmented deque with a ring-buffer deque
// on synthetic workloads.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := execute(ctx, nil)
	stop()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func execute(ctx context.Context, args []string) error {
	cmd := newRootCmd()
	if args != nil {
		cmd.SetArgs(args)
	}
	return cmd.ExecuteContext(ctx)
}
