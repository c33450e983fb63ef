// Package main starts the aolastar chat command service and handles termination.
//
// The process is a WebSocket adapter around the command handler; paging state
// is kept per conversation inside the query engine.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	chatcmd "github.com/vmoranv/aolastar/internal/cmd/chat"
	"github.com/vmoranv/aolastar/internal/platform/config"
)

func main() {
	cfg, err := chatcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[CHAT] ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := chatcmd.Run(ctx, cfg); err != nil {
		config.Exitf("failed to serve: %s", config.ExitMessage(err))
	}
}
