package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"polypong/broker"
	"polypong/config"
	"polypong/game"
	"polypong/network"
	"polypong/room"
)

func runJoin(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("join", flag.ContinueOnError)
	pf := addPeerFlags(fs, cfg)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New(usage)
	}
	code := strings.ToUpper(strings.TrimSpace(fs.Arg(0)))
	if err := broker.ValidateCode(code); err != nil {
		return err
	}
	wire, err := pf.wire()
	if err != nil {
		return err
	}
	level, err := pf.level()
	if err != nil {
		return err
	}
	logs, err := newLoggers(level, *pf.logFile, "CLNT")
	if err != nil {
		return err
	}
	defer logs.Close()

	keys, restore, err := startKeys(os.Stdin)
	if err != nil {
		return err
	}
	defer restore()

	client := room.NewClient(room.Options{
		TickHz:   *pf.tickHz,
		Log:      logs.peer,
		Renderer: newTextRenderer(os.Stdout),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		client.Run()
		return nil
	})

	var conn *network.Conn
	connected := make(chan struct{})
	g.Go(func() error {
		defer close(connected)
		addr, err := broker.NewClient(*pf.brokerURL).Resolve(gctx, code)
		if err != nil {
			// Stay in the lobby; nothing retries.
			logs.brkr.Errorf("Unable to resolve %s: %v", code, err)
			return nil
		}
		c, err := network.Dial(gctx, addr, wire, logs.netw)
		if err != nil {
			logs.netw.Errorf("Unable to reach host: %v", err)
			return nil
		}
		conn = c
		logs.main.Infof("Connected to %s (%s)", addr, wire.Name())
		client.Attach(conn)
		return nil
	})
	g.Go(func() error {
		return inputLoop(gctx, keys, func(d game.Direction) { client.Input(d) })
	})
	g.Go(func() error {
		<-gctx.Done()
		client.Stop()
		<-connected
		if conn != nil {
			conn.Close()
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errQuit) {
		return err
	}
	return nil
}
