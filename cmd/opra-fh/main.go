// Copyright (c) 2024 Neomantra Corp

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/relvacode/iso8601"
	"github.com/spf13/pflag"

	"github.com/NimbleMarkets/opra-fh/arbiter"
	"github.com/NimbleMarkets/opra-fh/config"
	"github.com/NimbleMarkets/opra-fh/directory"
	"github.com/NimbleMarkets/opra-fh/ingest"
	"github.com/NimbleMarkets/opra-fh/oprafh"
	"github.com/NimbleMarkets/opra-fh/process"
)

type cliConfig struct {
	ConfigPath  string
	ArchivePath string
	AsOf        string
	Verbose     bool
}

func main() {
	var cli cliConfig
	var showHelp bool

	pflag.StringVarP(&cli.ConfigPath, "config", "c", "", "Path to YAML configuration file")
	pflag.StringVarP(&cli.ArchivePath, "archive", "a", "", "Override archive_path from the config file")
	pflag.StringVar(&cli.AsOf, "as-of", "", "ISO-8601 session start time, stamped into startup logs for run correlation")
	pflag.BoolVarP(&cli.Verbose, "verbose", "v", false, "Verbose logging")
	pflag.BoolVarP(&showHelp, "help", "h", false, "Show help")
	pflag.Parse()

	if showHelp {
		fmt.Fprintf(os.Stdout, "usage: %s -c <config.yaml> [opts]\n\n", os.Args[0])
		pflag.PrintDefaults()
		os.Exit(0)
	}
	requireValOrExit(cli.ConfigPath, "missing required --config")

	if err := run(cli); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err.Error())
		os.Exit(1)
	}
}

// requireValOrExit exits with an error message if `val` is empty.
func requireValOrExit(val string, errstr string) {
	if val == "" {
		fmt.Fprintf(os.Stderr, "%s\n", errstr)
		os.Exit(1)
	}
}

func run(cli cliConfig) error {
	cfg, err := config.Load(cli.ConfigPath)
	if err != nil {
		return err
	}
	if cli.ArchivePath != "" {
		cfg.ArchivePath = cli.ArchivePath
	}
	if cli.Verbose {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	sessionDate := time.Now()
	if cli.AsOf != "" {
		asOf, err := iso8601.ParseString(cli.AsOf)
		if err != nil {
			return fmt.Errorf("--as-of: %w", err)
		}
		sessionDate = asOf
		logger = logger.With("as_of", asOf.Format(time.RFC3339))
	}

	lockMemory(logger)

	dir := directory.NewStaticDirectory(nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig.String())
		cancel()
	}()

	partial, err := cfg.PartialPublishMode()
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	for i, procCfg := range cfg.Processes {
		procLogger := logger.With("process", i, "cpu", procCfg.CPU)
		loop, err := buildProcessLoop(cfg, procCfg, dir, partial, sessionDate, procLogger)
		if err != nil {
			return fmt.Errorf("process %d (cpu %d): %w", i, procCfg.CPU, err)
		}

		wg.Add(1)
		go func(cpu int) {
			defer wg.Done()
			runtime.LockOSThread()
			defer runtime.UnlockOSThread()
			pinCPU(cpu, procLogger)
			loop.Run(ctx)
		}(procCfg.CPU)
	}

	wg.Wait()
	return nil
}

// buildProcessLoop wires one process's FT-line range into a self-contained
// Arbiter + OptionTable + Processor + Loop, per spec.md §6's
// `processes[i]: cpu, line_from, line_to` partitioning.
func buildProcessLoop(cfg *config.Config, procCfg config.ProcessConfig, dir directory.Directory, partial oprafh.PartialPublishMode, sessionDate time.Time, logger *slog.Logger) (*ingest.Loop, error) {
	numLines := procCfg.LineTo - procCfg.LineFrom + 1

	var publisher process.Publisher = process.NullPublisher{}
	if cfg.ArchivePath != "" {
		archivePath := fmt.Sprintf("%s.cpu%d", cfg.ArchivePath, procCfg.CPU)
		useZstd := strings.HasSuffix(cfg.ArchivePath, ".zst") || strings.HasSuffix(cfg.ArchivePath, ".zstd")
		archive, err := process.NewArchivePublisher(archivePath, sessionDate, useZstd)
		if err != nil {
			return nil, err
		}
		publisher = archive
	}

	table := oprafh.NewOptionTable(cfg.TableSize, numLines, logger)
	proc := process.NewProcessor(table, dir, publisher, partial, logger)

	statsObs := &ingest.StatsObserver{Logger: logger}
	arb := arbiter.NewArbiter(numLines, cfg.SeqJumpThreshold, logger, statsObs)

	var endpoints []ingest.LineEndpoint
	for globalLine := procCfg.LineFrom; globalLine <= procCfg.LineTo; globalLine++ {
		localLine := globalLine - procCfg.LineFrom
		aCfg, bCfg := cfg.ALines[globalLine], cfg.BLines[globalLine]
		if !aCfg.Enable {
			continue
		}

		aSock, err := ingest.OpenMulticastSocket(aCfg.Address, aCfg.Port, aCfg.Interface)
		if err != nil {
			return nil, fmt.Errorf("line %d side A: %w", globalLine, err)
		}
		bSock, err := ingest.OpenMulticastSocket(bCfg.Address, bCfg.Port, bCfg.Interface)
		if err != nil {
			return nil, fmt.Errorf("line %d side B: %w", globalLine, err)
		}

		endpoints = append(endpoints,
			ingest.LineEndpoint{FTLineIndex: localLine, Side: oprafh.Side_A, Socket: aSock},
			ingest.LineEndpoint{FTLineIndex: localLine, Side: oprafh.Side_B, Socket: bSock},
		)
	}

	loop := ingest.NewLoop(arb, proc, endpoints, logger)
	loop.JitterEnabled = cfg.JitterStats

	if cfg.PeriodicStats {
		interval, err := time.ParseDuration(cfg.PeriodicStatsInterval)
		if err != nil {
			return nil, fmt.Errorf("periodic_stats_interval: %w", err)
		}
		loop.PeriodicStatsInterval = interval
		loop.StatsFunc = func(s ingest.RuntimeStats) { s.Log(logger) }
	}
	if cfg.LineStatusEnable {
		interval, err := time.ParseDuration(cfg.LineStatusPeriod)
		if err != nil {
			return nil, fmt.Errorf("line_status_period: %w", err)
		}
		loop.LineStatusInterval = interval
	}

	return loop, nil
}
