package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/decred/slog"

	"polypong/config"
	"polypong/protocol"
)

const usage = `usage:
  polypong host [flags]         open a session and print its code
  polypong join [flags] CODE    join the session behind CODE`

// peerFlags are shared by host and join.
type peerFlags struct {
	brokerURL     *string
	serialization *string
	tickHz        *int
	logLevel      *string
	logFile       *string
}

func addPeerFlags(fs *flag.FlagSet, cfg config.Config) peerFlags {
	return peerFlags{
		brokerURL:     fs.String("broker", cfg.BrokerURL, "Broker base URL"),
		serialization: fs.String("serialization", cfg.Serialization, "Wire serialization: json, binary or msgpack"),
		tickHz:        fs.Int("tick", cfg.TickHz, "Simulation and render ticks per second"),
		logLevel:      fs.String("loglevel", cfg.LogLevel.String(), "Log level: trace, debug, info, warn, error, critical, off"),
		logFile:       fs.String("logfile", "", "Write logs to this file instead of stderr"),
	}
}

func (f peerFlags) level() (slog.Level, error) {
	lvl, ok := slog.LevelFromString(*f.logLevel)
	if !ok {
		return 0, fmt.Errorf("unknown log level %q", *f.logLevel)
	}
	return lvl, nil
}

func (f peerFlags) wire() (protocol.Serialization, error) {
	return protocol.SerializationByName(*f.serialization)
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return errors.New(usage)
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch args[0] {
	case "host":
		return runHost(ctx, cfg, args[1:])
	case "join":
		return runJoin(ctx, cfg, args[1:])
	case "-h", "-help", "--help", "help":
		fmt.Println(usage)
		return nil
	}
	return fmt.Errorf("unknown command %q\n%s", args[0], usage)
}
