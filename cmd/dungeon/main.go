// Package main provides a CLI that generates, archives and re-renders
// door-connected grid dungeons.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	dungeoncmd "github.com/louisbranch/dungeongen/internal/cmd/dungeon"
	"github.com/louisbranch/dungeongen/internal/platform/config"
)

func main() {
	cfg, err := dungeoncmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := dungeoncmd.Run(ctx, cfg, os.Stdout, os.Stderr); err != nil {
		stop()
		config.Exitf("dungeon: %v", err)
	}
}
