package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"polypong/broker"
	"polypong/config"
	"polypong/game"
	"polypong/network"
	"polypong/room"
)

func runHost(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("host", flag.ContinueOnError)
	listen := fs.String("listen", cfg.ListenAddr, "Address to accept peers on")
	public := fs.String("public", cfg.PublicURL, "Websocket URL peers can reach this host at")
	pf := addPeerFlags(fs, cfg)
	if err := fs.Parse(args); err != nil {
		return err
	}
	level, err := pf.level()
	if err != nil {
		return err
	}
	logs, err := newLoggers(level, *pf.logFile, "HOST")
	if err != nil {
		return err
	}
	defer logs.Close()

	keys, restore, err := startKeys(os.Stdin)
	if err != nil {
		return err
	}
	defer restore()

	host := room.NewHost(room.Options{
		TickHz:   *pf.tickHz,
		Log:      logs.peer,
		Renderer: newTextRenderer(os.Stdout),
	})
	ln := network.NewListener(logs.netw)
	mux := http.NewServeMux()
	mux.Handle("/ws", ln)
	srv := &http.Server{Addr: *listen, Handler: mux}
	brokers := broker.NewClient(*pf.brokerURL)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		host.Run()
		return nil
	})
	g.Go(func() error {
		logs.main.Infof("Listening on %s", *listen)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%w: listen: %v", network.ErrTransport, err)
		}
		return nil
	})
	g.Go(func() error {
		code, err := brokers.Register(gctx, *public)
		if err != nil {
			// The lobby stays up without a code; nothing retries.
			logs.brkr.Errorf("Unable to register with broker: %v", err)
			return nil
		}
		host.Opened(code)
		logs.brkr.Infof("Registered as %s", code)

		<-gctx.Done()
		uctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := brokers.Unregister(uctx, code); err != nil {
			logs.brkr.Debugf("Unregister %s: %v", code, err)
		}
		return nil
	})
	g.Go(func() error {
		for {
			c, err := ln.Accept(gctx)
			if err != nil {
				return nil
			}
			seat, err := host.Attach(c)
			if err != nil {
				continue
			}
			logs.main.Infof("Peer %s took seat %v", c.RemoteAddr(), seat)
		}
	})
	g.Go(func() error {
		return inputLoop(gctx, keys, func(d game.Direction) { host.Input(d) })
	})
	g.Go(func() error {
		<-gctx.Done()
		host.Stop()
		ln.Close()
		sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errQuit) {
		return err
	}
	return nil
}
