// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2026 Jared Redh. All rights reserved.

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jredh-dev/tripmarket/cmd/console/internal/app"
	"github.com/jredh-dev/tripmarket/cmd/console/internal/config"
	"github.com/jredh-dev/tripmarket/internal/fallback"
	"github.com/jredh-dev/tripmarket/internal/gateway"
	"github.com/jredh-dev/tripmarket/internal/state"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	cfg := config.Load()

	showVersion := flag.Bool("version", false, "Show version information")
	flag.StringVar(&cfg.APIURL, "api", cfg.APIURL, "API base URL")
	flag.BoolVar(&cfg.Offline, "offline", cfg.Offline, "Use the built-in dataset instead of the API")
	logout := flag.Bool("logout", false, "Forget the stored admin token before starting")
	flag.Parse()

	if *showVersion {
		fmt.Printf("tripmarket-console %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", buildDate)
		os.Exit(0)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.LogPath), 0o700); err != nil {
		fmt.Fprintf(os.Stderr, "console: %v\n", err)
		os.Exit(1)
	}
	logFile, err := tea.LogToFile(cfg.LogPath, "console")
	if err != nil {
		fmt.Fprintf(os.Stderr, "console: log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	dataset := fallback.Default()
	if cfg.DatasetPath != "" {
		if dataset, err = fallback.LoadFile(cfg.DatasetPath); err != nil {
			fmt.Fprintf(os.Stderr, "console: %v\n", err)
			os.Exit(1)
		}
	}

	var (
		gw   gateway.Gateway
		opts = app.Options{APIURL: cfg.APIURL, Offline: cfg.Offline}
	)
	if cfg.Offline {
		gw = gateway.NewStatic(dataset)
		opts.APIURL = ""
	} else {
		tokens := gateway.NewTokenStore(cfg.TokenPath)
		if *logout {
			if err := tokens.Clear(); err != nil {
				log.Printf("console: clear token: %v", err)
			}
		}
		token, err := tokens.Load()
		if err != nil {
			log.Printf("console: %v", err)
		}
		h := gateway.NewHTTP(cfg.APIURL, tokens)
		gw = h
		opts.Auth = h
		opts.Tokens = tokens
		opts.LoggedIn = token != ""
	}

	store := state.New(gw,
		state.WithFallback(dataset),
		state.WithRefreshInterval(cfg.RefreshInterval),
		state.WithLogger(log.Default()),
		state.WithView(state.ViewAdminDashboard),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	// Without a session the console starts the loop once sign-in succeeds.
	if cfg.Offline || opts.LoggedIn {
		store.Start(ctx)
	}
	defer store.Stop()

	log.Printf("console: starting api=%s offline=%t", cfg.APIURL, cfg.Offline)
	p := tea.NewProgram(app.New(ctx, store, opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "console: %v\n", err)
		os.Exit(1)
	}
}
