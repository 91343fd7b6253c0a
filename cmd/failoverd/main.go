package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eleven-am/failover"
)

func main() {
	configPath := flag.String("config", "/etc/failover/failover.yaml", "path to the YAML configuration file")
	snapshotPath := flag.String("snapshot", "/var/run/failover/interfaces.yaml", "path to the interface snapshot document")
	flag.Parse()

	if err := run(*configPath, *snapshotPath); err != nil {
		fmt.Fprintf(os.Stderr, "failoverd: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, snapshotPath string) error {
	config, err := failover.LoadConfig(configPath)
	if err != nil {
		return err
	}

	level, err := failover.ParseLogLevel(config.LogLevel)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	config.Logger = logger

	logger.Info("starting failover node",
		"node_id", config.NodeID,
		"bind_addr", config.Transport.BindAddr,
		"peer_addr", config.Transport.PeerAddr,
		"data_dir", config.DataDir,
		"snapshot", snapshotPath)

	node, err := failover.NewNode(config, failover.NewFileProvider(snapshotPath, logger))
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := node.Start(ctx); err != nil {
		_ = node.Stop()
		return err
	}

	readyCtx, readyCancel := context.WithTimeout(ctx, 3*config.Reconciler.PollInterval)
	if err := node.Manager().Readiness().WaitUntilReady(readyCtx); err != nil {
		logger.Warn("peer not reachable yet, continuing", "error", err)
	}
	readyCancel()

	<-ctx.Done()

	logger.Info("shutting down failover node")
	stopped := make(chan error, 1)
	go func() { stopped <- node.Stop() }()

	select {
	case err := <-stopped:
		return err
	case <-time.After(10 * time.Second):
		return fmt.Errorf("shutdown timed out")
	}
}
