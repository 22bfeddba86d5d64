package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/eightball-lang/eightball/internal/flushio"
	"github.com/eightball-lang/eightball/internal/logio"
)

func main() {
	var (
		memLimit    uint
		timeout     time.Duration
		trace       bool
		dump        bool
		arenaConfig string
	)

	cmd := &cobra.Command{
		Use:   "eightball",
		Short: "An interactive EightBall environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMain(memLimit, timeout, trace, dump, arenaConfig)
		},
	}
	cmd.Flags().UintVar(&memLimit, "mem-limit", 0, "override Arena-V's word capacity (0 keeps the default)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "specify a time limit for the whole session")
	cmd.Flags().BoolVar(&trace, "trace", false, "enable trace-level logging")
	cmd.Flags().BoolVar(&dump, "dump", false, "print a debug dump after the session ends")
	cmd.Flags().StringVar(&arenaConfig, "arena-config", "", "YAML file overriding arena sizes (arena_v/arena_p/arena_x)")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runMain(memLimit uint, timeout time.Duration, trace, dump bool, arenaConfigPath string) error {
	log := logio.Logger{}
	log.SetOutput(os.Stderr)
	defer os.Exit(log.ExitCode())

	sizes := ArenaSizes{V: DefaultArenaV, P: DefaultArenaP}
	if arenaConfigPath != "" {
		data, err := os.ReadFile(arenaConfigPath)
		if err != nil {
			return err
		}
		if err := yaml.Unmarshal(data, &sizes); err != nil {
			return err
		}
	}
	if memLimit > 0 {
		sizes.V = memLimit
	}

	logf := func(string, ...interface{}) {}
	if trace {
		logf = log.Leveledf("TRACE")
	}

	out := flushio.NewWriteFlusher(os.Stdout)
	eng := NewEngine(
		WithArenaSizes(sizes),
		WithLogf(logf),
		WithInput(os.Stdin),
		WithOutput(out),
	)

	if dump {
		defer engineDumper{eng: eng, out: os.Stderr}.dump()
	}

	ctx := context.Background()
	if timeout != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	log.ErrorIf(eng.Run(ctx))
	log.ErrorIf(out.Flush())
	return nil
}
