package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"borg-perception/internal/catalog"
	"borg-perception/internal/domain"
	"borg-perception/internal/engine"
	"borg-perception/internal/hostio"
	"borg-perception/internal/infrastructure/storage"
	"borg-perception/internal/network"
	"borg-perception/internal/server"
	"borg-perception/internal/version"
	"borg-perception/pkg/dungeon"
	"borg-perception/pkg/logger"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"
)

func init() {
	logger.Init()
}

type options struct {
	seed        int64
	replayPath  string
	configPath  string
	catalogPath string
	recordDir   string
	depth       int
	delay       time.Duration
	truth       bool
	tui         bool
}

func main() {
	// 1. Парсинг конфигурации
	var opt options
	flag.Int64Var(&opt.seed, "seed", 0, "Seed for the engine and the demo dungeon (0 for random)")
	flag.StringVar(&opt.replayPath, "replay", "", "Path to .bprs session recording to replay")
	flag.StringVar(&opt.configPath, "config", "", "Path to YAML engine config")
	flag.StringVar(&opt.catalogPath, "catalog", "", "Path to YAML race/kind catalog (built-in if empty)")
	flag.StringVar(&opt.recordDir, "record", "", "Directory to save the session recording on exit")
	flag.IntVar(&opt.depth, "depth", 1, "Starting depth of the demo dungeon")
	flag.DurationVar(&opt.delay, "delay", 200*time.Millisecond, "Delay between demo turns")
	flag.BoolVar(&opt.truth, "truth", true, "Demo host reports exact cell contents")
	flag.BoolVar(&opt.tui, "tui", false, "Draw the demo on the terminal and read it back through the screen")
	flag.Parse()

	logger.Log.Info("Starting borg perception...")
	logger.Log.Info(version.String())

	cat := catalog.Default()
	if opt.catalogPath != "" {
		var err error
		if cat, err = catalog.LoadFile(opt.catalogPath); err != nil {
			logger.Log.WithError(err).Fatal("Failed to load catalog")
		}
	}

	// РЕЖИМ РЕПЛЕЯ
	if opt.replayPath != "" {
		logger.Log.Info("Mode: Replay")
		runReplay(opt, cat)
		return
	}

	cfg := engine.NewConfig()
	if opt.configPath != "" {
		var err error
		if cfg, err = engine.LoadConfig(opt.configPath); err != nil {
			logger.Log.WithError(err).Fatal("Failed to load config")
		}
	}
	if opt.seed != 0 {
		cfg.Seed = opt.seed
		logger.Log.Infof("Using explicit seed: %d", opt.seed)
	} else {
		logger.Log.Infof("Using random seed: %d", cfg.Seed)
	}

	var engineOpts []engine.Option
	if opt.recordDir != "" {
		engineOpts = append(engineOpts, engine.WithRecording())
	}
	e, err := engine.New(cfg, cat, engineOpts...)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to create engine")
	}

	port := os.Getenv("BP_PORT")
	if port == "" {
		port = "8080"
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 2. Цикл движка и сервер наблюдения
	svc := engine.NewService(e, network.NewBroadcaster())
	go svc.Run(ctx)

	srv := server.New(svc, port)
	go func() {
		if err := srv.Run(); err != nil {
			logger.Log.WithError(err).Error("Server start error")
			cancel()
		}
	}()

	// 3. Синтетический хост
	demo := dungeon.NewDemo(cat, opt.depth, cfg.Seed, opt.truth)
	if opt.tui {
		err = runTUI(ctx, cancel, svc, demo, opt.delay)
	} else {
		err = runDemo(ctx, svc, demo, opt.delay)
	}
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, engine.ErrServiceStopped) {
		logger.Log.WithError(err).Error("Demo host failed")
	}

	logger.Log.Info("Shutting down...")
	svc.Close()
	<-svc.Done()
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Warn("Server shutdown")
	}

	// Сохраняем запись сессии
	if rec := e.Recording(); rec != nil {
		path, err := storage.NewReplayService(opt.recordDir).Save(rec)
		if err != nil {
			logger.Log.WithError(err).Error("Failed to save recording")
		} else {
			logger.Log.WithField("path", path).Infof("Recording saved (%d inputs)", len(rec.Inputs))
		}
	}

	logger.Log.Info("Done.")
}

func runReplay(opt options, cat *catalog.Catalog) {
	session, err := storage.NewReplayService(".").Load(opt.replayPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load replay")
	}
	e, reports, err := engine.Replay(session, cat)
	if err != nil {
		logger.Log.WithError(err).Fatal("Replay diverged")
	}

	fields := logrus.Fields{
		"session": session.ID.String(),
		"ticks":   len(reports),
		"kills":   len(e.Kills()),
		"takes":   len(e.Takes()),
	}
	if n := len(reports); n > 0 {
		fields["fear"] = reports[n-1].Fear
	}
	logger.Log.WithFields(fields).Info("Replay finished")
}

// submitTurn переводит ход синтетического хоста во входы движка.
func submitTurn(ctx context.Context, svc *engine.Service, turn dungeon.Turn) error {
	inputs := make([]engine.Input, 0, len(turn.Messages)+4)
	if turn.NewLevel {
		inputs = append(inputs, engine.Input{Kind: domain.InputNewLevel, Depth: turn.Depth})
	}
	inputs = append(inputs, engine.Input{Kind: domain.InputGoal, Goal: turn.Goal})
	if turn.Frame != nil {
		inputs = append(inputs, engine.Input{Kind: domain.InputFrame, Frame: turn.Frame})
	}
	for _, m := range turn.Messages {
		inputs = append(inputs, engine.Input{Kind: domain.InputMessage, Raw: m})
	}
	inputs = append(inputs, engine.Input{Kind: domain.InputTick})

	for _, in := range inputs {
		if err := svc.Submit(ctx, in); err != nil {
			return err
		}
	}
	return nil
}

func runDemo(ctx context.Context, svc *engine.Service, demo *dungeon.Demo, delay time.Duration) error {
	logger.Log.Info("Mode: Demo dungeon")
	ticker := time.NewTicker(delay)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := submitTurn(ctx, svc, demo.Next()); err != nil {
				return err
			}
		}
	}
}

// runTUI рисует ход на терминале и отдает движку то, что прочитано с
// экрана, а не исходный кадр. 'q' или Escape завершают работу.
func runTUI(ctx context.Context, cancel context.CancelFunc, svc *engine.Service, demo *dungeon.Demo, delay time.Duration) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			if key, ok := ev.(*tcell.EventKey); ok {
				if key.Key() == tcell.KeyEscape || key.Rune() == 'q' {
					cancel()
					return
				}
			}
		}
	}()

	layout := hostio.DefaultLayout()
	term := hostio.NewTerminal(screen, layout)
	ticker := time.NewTicker(delay)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			turn := demo.Next()
			term.WriteLine(layout.PromptRow, "")
			if len(turn.Messages) > 0 {
				term.WriteLine(layout.PromptRow, turn.Messages[len(turn.Messages)-1])
			}
			term.Draw(turn.Frame)
			screen.Show()

			turn.Frame = term.Capture(turn.Frame.Panel, turn.Frame.Player)
			if err := svc.Submit(ctx, engine.Input{Kind: domain.InputStatus, Row: layout.PromptRow, Text: term.Line(layout.PromptRow)}); err != nil {
				return err
			}
			if err := submitTurn(ctx, svc, turn); err != nil {
				return err
			}
		}
	}
}
