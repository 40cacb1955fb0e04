package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"haliteview/gamestate"
)

var baseDir string

func main() {
	settingsFlag := flag.String("settings", "", "settings file (default settings.json)")
	prefsFlag := flag.String("prefs", "", "preferences file (default prefs.json)")
	attach := flag.String("attach", "", "read engine output from a file, or - for stdin, instead of spawning the engine")
	headless := flag.Bool("headless", false, "decode without opening a window")
	poll := flag.Duration("poll", 0, "decoder poll interval (overrides settings)")
	debugFlag := flag.Bool("debug", false, "verbose/debug logging")
	flag.Parse()

	baseDir = os.Getenv("PWD")
	if baseDir == "" {
		var err error
		if baseDir, err = os.Getwd(); err != nil {
			log.Fatalf("get working directory: %v", err)
		}
	}

	setupLogging(*debugFlag)
	defer func() {
		if r := recover(); r != nil {
			logError("panic: %v\n%s", r, debug.Stack())
		}
	}()
	if err := loadEnv(baseDir); err != nil {
		logError("%v", err)
	}

	settings, err := loadSettings(settingsPath(baseDir, *settingsFlag))
	if err != nil {
		if *attach == "" {
			reportStartupError(err, *headless)
			os.Exit(1)
		}
		logDebug("%v; using defaults for attached input", err)
	}
	if *poll > 0 {
		settings.PollMillis = int(*poll / time.Millisecond)
	}

	p := *prefsFlag
	if p == "" {
		p = defaultPrefsPath()
	}
	loadPrefs(p)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	v := newViewer(settings.pollInterval())
	var rpc *presence
	if settings.Discord && !*headless {
		rpc = initDiscordRPC(ctx)
	}
	v.onTurn = func(st *gamestate.State) {
		rpc.update(st)
		if *headless {
			logTurn(st)
		}
	}

	if *attach != "" {
		go func() {
			if err := attachInput(*attach, v); err != nil {
				logError("%v", err)
			}
		}()
	} else {
		// Spawn before opening the window so a bad engine path is reported
		// before anything else happens.
		cmdCtx, stop := context.WithCancel(ctx)
		defer stop()
		started := make(chan error, 1)
		go func() {
			err := runEngine(cmdCtx, settings, v, started)
			if err != nil {
				logError("%v", err)
			}
		}()
		if err := <-started; err != nil {
			reportStartupError(err, *headless)
			os.Exit(1)
		}
	}

	go func() {
		select {
		case <-v.Ready():
			logDebug("viewer ready")
		case <-ctx.Done():
		}
	}()

	decodeDone := make(chan error, 1)
	go func() { decodeDone <- v.Run(ctx) }()

	if *headless {
		select {
		case err = <-decodeDone:
		case <-ctx.Done():
			err = <-decodeDone
		}
		log.Printf("decoded %d turns in %s", v.Turns(), formatUptime(v.Uptime()))
		if err != nil && !errors.Is(err, context.Canceled) {
			os.Exit(1)
		}
		return
	}

	runGame(ctx, v, settings)
	cancel()
	log.Printf("decoded %d turns in %s", v.Turns(), formatUptime(v.Uptime()))
}

func logTurn(st *gamestate.State) {
	log.Printf("turn %d: %d ships, %d dropoffs, budgets %v, halite on map %d",
		st.Turn, len(st.Ships), len(st.Dropoffs()), st.Budgets, st.TotalResource())
}
