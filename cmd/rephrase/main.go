// Rephrase: system-wide text rephrasing for macOS. Bind the binary to a
// global hotkey (Shortcuts, skhd, Hammerspoon); each invocation captures the
// current selection, rephrases it through the OpenAI API, and pastes the
// result back in place.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/rephrase-app/rephrase/internal/app"
	"github.com/rephrase-app/rephrase/internal/clipboard"
	"github.com/rephrase-app/rephrase/internal/config"
	"github.com/rephrase-app/rephrase/internal/input"
	"github.com/rephrase-app/rephrase/internal/keychain"
	"github.com/rephrase-app/rephrase/internal/llm"
	"github.com/rephrase-app/rephrase/internal/notify"
	"github.com/rephrase-app/rephrase/internal/selection"
	"github.com/rephrase-app/rephrase/internal/settings"
	"github.com/rephrase-app/rephrase/internal/stats"
)

func main() {
	text := flag.String("text", "", "Rephrase the given text and print the result")
	setKey := flag.Bool("set-key", false, "Read an API key from stdin and store it in the keychain")
	showStats := flag.Bool("stats", false, "Print usage statistics")
	watch := flag.Bool("watch", false, "Stay resident: rephrase on SIGUSR1, reload settings on change")

	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	creds := keychain.New(cfg.KeychainService, cfg.KeychainAccount)

	switch {
	case *setKey:
		runSetKey(creds)

		return
	case *showStats:
		runStats(cfg)

		return
	}

	store := settings.NewStore(cfg.SettingsPath(), &logger)
	rephraser := llm.NewRephraser(cfg, creds, store, &logger)

	if *text != "" {
		runText(ctx, rephraser, *text)

		return
	}

	device := clipboard.NewPasteboard()
	injector := input.NewOsascript(cfg.InjectionTimeout, &logger)
	protocol := selection.New(cfg, device, injector, &logger)
	notifier := notify.New(&logger)

	var recorder app.Recorder

	statsStore, err := stats.Open(cfg.StatsPath())
	if err != nil {
		logger.Warn().Err(err).Msg("usage stats disabled")
	} else {
		defer statsStore.Close()
		recorder = statsStore
	}

	application := app.New(protocol, rephraser, notifier, recorder, cfg.RequestTimeout, &logger)

	if *watch {
		runWatch(ctx, application, store, &logger)

		return
	}

	application.RunOnce(ctx)
}

// newLogger writes to a dated file under the config dir, plus a console
// writer in local mode. Log file failures degrade to stderr.
func newLogger(cfg *config.Config) zerolog.Logger {
	var writers []io.Writer

	if err := os.MkdirAll(cfg.LogDir(), 0o700); err == nil {
		name := filepath.Join(cfg.LogDir(), "rephrase_"+time.Now().Format("2006-01-02")+".log")
		if f, err := os.OpenFile(name, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600); err == nil {
			writers = append(writers, f)
		}
	}

	if cfg.AppEnv == "local" {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	if len(writers) == 0 {
		writers = append(writers, os.Stderr)
	}

	return zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
}

func runSetKey(creds keychain.Store) {
	fmt.Fprint(os.Stderr, "Paste your OpenAI API key: ")

	reader := bufio.NewReader(os.Stdin)

	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintf(os.Stderr, "failed to read key: %v\n", err)
		os.Exit(1)
	}

	key := strings.TrimSpace(line)
	if key == "" {
		fmt.Fprintln(os.Stderr, "no key entered")
		os.Exit(1)
	}

	if err := creds.SetAPIKey(key); err != nil {
		fmt.Fprintf(os.Stderr, "failed to store key: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("API key saved to keychain")
}

func runStats(cfg *config.Config) {
	statsStore, err := stats.Open(cfg.StatsPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open stats: %v\n", err)
		os.Exit(1)
	}
	defer statsStore.Close()

	sum, err := statsStore.Summarize(time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read stats: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Today: %d | 30 days: %d | Days active: %d\n", sum.Today, sum.Total, sum.DaysActive)
}

func runText(ctx context.Context, rephraser *llm.Rephraser, text string) {
	result, err := rephraser.Rephrase(ctx, text)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rephrase failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(result)
}

// runWatch keeps the process resident. SIGUSR1 triggers one workflow;
// settings changes are hot-reloaded.
func runWatch(ctx context.Context, application *app.App, store *settings.Store, logger *zerolog.Logger) {
	if err := store.Watch(ctx.Done()); err != nil {
		logger.Warn().Err(err).Msg("settings watcher unavailable")
	}

	trigger := make(chan os.Signal, 1)
	signal.Notify(trigger, syscall.SIGUSR1)
	defer signal.Stop(trigger)

	logger.Info().Int("pid", os.Getpid()).Msg("resident mode: send SIGUSR1 to rephrase")

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("shutting down")

			return
		case <-trigger:
			// RunOnce has its own reentrancy guard; run off this loop so a
			// slow workflow does not delay signal handling.
			go application.RunOnce(ctx)
		}
	}
}
