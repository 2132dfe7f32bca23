package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/clearsim/clearsim/internal/config"
	"github.com/clearsim/clearsim/internal/ledger"
	"github.com/clearsim/clearsim/internal/logging"
	"github.com/clearsim/clearsim/internal/report"
	"github.com/clearsim/clearsim/internal/server"
	"github.com/clearsim/clearsim/internal/sim"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd builds the simulator command. Flags override the corresponding
// environment variables when set.
func newRootCmd() *cobra.Command {
	var (
		banks      int
		customers  int
		steps      int
		gridWidth  int
		gridHeight int
		maxDeposit int64
		seed       int64
		serve      bool
	)

	cmd := &cobra.Command{
		Use:           "clearsim",
		Short:         "Simulate a tokenized-deposit banking network and record every ledger's totals",
		Long:          "clearsim deploys per-bank account ledgers and a central clearing ledger,\nlets customer agents deposit, withdraw, and pay each other across banks,\nand records each ledger's total supply every step.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("banks") {
				cfg.Banks = banks
			}
			if flags.Changed("customers") {
				cfg.Customers = customers
			}
			if flags.Changed("steps") {
				cfg.Steps = steps
			}
			if flags.Changed("grid-width") {
				cfg.GridWidth = gridWidth
			}
			if flags.Changed("grid-height") {
				cfg.GridHeight = gridHeight
			}
			if flags.Changed("max-deposit") {
				cfg.MaxDepositUnits = maxDeposit
			}
			if flags.Changed("seed") {
				cfg.Seed = seed
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			return run(cmd.Context(), cfg, serve)
		},
	}

	cmd.Flags().IntVar(&banks, "banks", 3, "number of bank ledgers to deploy")
	cmd.Flags().IntVar(&customers, "customers", 10, "number of customer agents")
	cmd.Flags().IntVar(&steps, "steps", 1000, "number of simulation steps")
	cmd.Flags().IntVar(&gridWidth, "grid-width", 40, "grid width")
	cmd.Flags().IntVar(&gridHeight, "grid-height", 40, "grid height")
	cmd.Flags().Int64Var(&maxDeposit, "max-deposit", 10_000, "largest single deposit in display units")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 derives one from the clock)")
	cmd.Flags().BoolVar(&serve, "serve", false, "serve the recorded series over HTTP after the run")

	return cmd
}

func run(ctx context.Context, cfg config.Config, serve bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.New(cfg.LogLevel)

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	house, err := ledger.Deploy(cfg.Banks, ledger.NewCentral())
	if err != nil {
		return err
	}

	recorder := report.NewRecorder(append(house.Symbols(), ledger.CentralSymbol))
	progress := report.NewProgress(logger, 100)
	rng := rand.New(rand.NewSource(seed))

	model, err := sim.New(ctx, sim.Params{
		Customers:       cfg.Customers,
		GridWidth:       cfg.GridWidth,
		GridHeight:      cfg.GridHeight,
		MaxDepositUnits: cfg.MaxDepositUnits,
	}, house, rng, logger, recorder, progress)
	if err != nil {
		return err
	}

	logger.Info("simulation starting",
		"banks", cfg.Banks,
		"customers", cfg.Customers,
		"steps", cfg.Steps,
		"grid", fmt.Sprintf("%dx%d", cfg.GridWidth, cfg.GridHeight),
		"seed", seed,
	)

	started := time.Now()
	if err := model.Run(ctx, cfg.Steps); err != nil {
		return fmt.Errorf("run simulation: %w", err)
	}
	logger.Info("simulation finished", "elapsed", time.Since(started).String())

	if err := recorder.WriteTable(os.Stdout); err != nil {
		return fmt.Errorf("write series: %w", err)
	}

	if !serve {
		return nil
	}

	srv, err := server.New(cfg, house, recorder, logger)
	if err != nil {
		return fmt.Errorf("build server: %w", err)
	}

	srvErrCh := make(chan error, 1)
	go func() {
		srvErrCh <- srv.Listen()
	}()
	logger.Info("reporting server listening", "address", cfg.Address())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-srvErrCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownPeriod)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("server exited cleanly")
	return nil
}
