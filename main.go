package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/soocke/loot-lens-go/app"
	"github.com/soocke/loot-lens-go/app/core"
	"github.com/soocke/loot-lens-go/config"
	"github.com/soocke/loot-lens-go/debug"
	"github.com/soocke/loot-lens-go/domain/action"
	"github.com/soocke/loot-lens-go/domain/capture"
)

const defaultDebugAddr = "127.0.0.1:6061"

func main() {
	configPath := flag.String("config", "config.json", "path to the JSON config file")
	debugMode := flag.Bool("debug", false, "verbose logging, runtime logger and debug HTTP server")
	replay := flag.String("replay", "", "recognize a PNG screenshot instead of the live screen")
	listWindows := flag.Bool("windows", false, "print visible window titles and exit")
	saveConfig := flag.Bool("save-config", false, "write the effective config back to -config and exit")
	flag.Parse()

	if *listWindows {
		titles, err := action.ListWindows()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		for _, t := range titles {
			fmt.Println(t)
		}
		return
	}

	cfg, err := config.Load(*configPath)
	level := slog.LevelInfo
	if *debugMode || cfg.Debug {
		cfg.Debug = true
		level = slog.LevelDebug
	}
	logger := NewLogger(level)
	if err != nil {
		logger.Warn("config load failed; using defaults", "path", *configPath, "error", err)
	}
	if *saveConfig {
		if err := cfg.Save(*configPath); err != nil {
			logger.Error("config save failed", "path", *configPath, "error", err)
			os.Exit(1)
		}
		return
	}

	var opts core.Options
	if *replay != "" {
		src, err := capture.LoadReplaySource(*replay)
		if err != nil {
			logger.Error("replay load failed", "path", *replay, "error", err)
			os.Exit(1)
		}
		opts.Source = src
	}

	c, err := core.Build(cfg, logger, opts)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.Debug {
		startDebug(ctx, c)
	}

	application := app.NewApp("Loot Lens", 420, 260, c)
	application.Start()
}

func startDebug(ctx context.Context, c *core.Core) {
	debug.StartRuntimeLogger(0, c.Logger, ctx.Done())
	addr := c.Config.DebugAddr
	if addr == "" {
		addr = defaultDebugAddr
	}
	srv := &debug.Server{
		Scanner: c.Scanner,
		Source:  c.Capture,
		Reload:  c.ReloadCatalog,
		Logger:  c.Logger,
		Extra: map[string]func() any{
			"capture": func() any { return c.Capture.Stats() },
			"ticker":  func() any { return c.Ticker.Stats() },
			"ocr": func() any {
				calls, failures := c.Reader.Stats()
				return map[string]int64{"calls": calls, "failures": failures}
			},
			"match_cache": func() any {
				hits, misses := c.Matcher.CacheStats()
				return map[string]int64{"hits": hits, "misses": misses}
			},
			"icons": func() any {
				return map[string]int64{"entries": int64(c.Icons.Len()), "builds": c.Icons.Builds()}
			},
			"catalog": func() any { return map[string]uint64{"version": c.Catalog.Version()} },
		},
	}
	if _, err := srv.Start(ctx, addr); err != nil {
		c.Logger.Warn("debug server disabled", "error", err)
	}
}
