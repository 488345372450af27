package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/windfall/gong_studio/internal/audio"
	"github.com/windfall/gong_studio/internal/chat"
	"github.com/windfall/gong_studio/internal/config"
	"github.com/windfall/gong_studio/internal/logger"
	"github.com/windfall/gong_studio/internal/speech"
	"github.com/windfall/gong_studio/internal/transport"
	"github.com/windfall/gong_studio/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "tutor:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadClient()
	if err != nil {
		return err
	}

	// The UI owns the terminal, so logs only go to a file when one is set.
	log, closer, err := logger.NewFile(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := tui.Options{
		Session:     chat.NewSession(),
		Transport:   transport.New(ctx, cfg, log),
		MicLanguage: cfg.MicLanguage,
		SampleRate:  cfg.SampleRate,
		Log:         log,
	}
	if p := audio.NewCommandPlayer(cfg.PlayerArgs()); p != nil {
		opts.Player = p
	} else {
		log.Info().Msg("No player command configured, speech output disabled")
	}
	if r := speech.NewCommandRecognizer(cfg.RecognizerArgs()); r != nil {
		opts.Recognizer = r
	} else {
		log.Info().Msg("No recognizer command configured, speech input disabled")
	}

	log.Info().Str("env", cfg.Environment).Msg("Starting tutor")

	prog := tea.NewProgram(tui.New(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := prog.Run(); err != nil && ctx.Err() == nil {
		return err
	}

	log.Info().Msg("Tutor stopped")
	return nil
}
