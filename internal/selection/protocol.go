// Package selection implements the clipboard-mediated capture/replace
// protocol: read the frontmost application's selection by co-opting the
// clipboard through injected copy commands, and later overwrite the
// selection by injecting paste.
package selection

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rephrase-app/rephrase/internal/clipboard"
	"github.com/rephrase-app/rephrase/internal/config"
	"github.com/rephrase-app/rephrase/internal/input"
)

// Strategy is one mechanism for making the focused application copy its
// selection onto the clipboard. Strategies are tried in order until one
// yields non-empty clipboard content.
type Strategy interface {
	Name() string
	AttemptCopy(ctx context.Context) error
}

type strategyFunc struct {
	name string
	fn   func(ctx context.Context) error
}

func (s strategyFunc) Name() string { return s.name }

func (s strategyFunc) AttemptCopy(ctx context.Context) error { return s.fn(ctx) }

// Protocol owns one clipboard device and the copy strategies. It never lets
// an OS-automation failure escape: absent selection and mechanical failure
// both come back as a plain not-ok result.
type Protocol struct {
	device       clipboard.Device
	injector     input.Injector
	strategies   []Strategy
	pollAttempts int
	pollDelay    time.Duration
	logger       *zerolog.Logger
}

func New(cfg *config.Config, device clipboard.Device, injector input.Injector, logger *zerolog.Logger) *Protocol {
	strategies := []Strategy{
		strategyFunc{name: "copy keystroke", fn: injector.SendCopy},
	}
	if cfg.MenuCopyFallback {
		strategies = append(strategies, strategyFunc{name: "menu copy", fn: injector.SendMenuCopy})
	}

	return &Protocol{
		device:       device,
		injector:     injector,
		strategies:   strategies,
		pollAttempts: cfg.ClipboardPollAttempts,
		pollDelay:    cfg.ClipboardPollDelay,
		logger:       logger,
	}
}

// CaptureSelection returns the currently selected text, or ok=false when
// nothing is selected (or no copy mechanism produced content). On the
// not-ok path the original clipboard content is restored best-effort; on
// success the captured text is deliberately left on the clipboard as the
// handoff to the paste-back step.
func (p *Protocol) CaptureSelection(ctx context.Context) (string, bool) {
	original, err := p.device.Read()
	if err != nil {
		p.logger.Debug().Err(err).Msg("clipboard read failed, treating original as empty")
		original = ""
	}

	// Clear the clipboard so its subsequent content is the sentinel for
	// whether a copy actually happened.
	if err = p.device.Write(""); err != nil {
		p.logger.Warn().Err(err).Msg("failed to clear clipboard")
	}

	for _, strategy := range p.strategies {
		if err = strategy.AttemptCopy(ctx); err != nil {
			p.logger.Debug().Err(err).Str("strategy", strategy.Name()).Msg("copy strategy failed")

			continue
		}

		text := p.pollClipboard(ctx)
		if strings.TrimSpace(text) != "" {
			p.logger.Debug().Str("strategy", strategy.Name()).Int("chars", len(text)).Msg("selection captured")

			return text, true
		}
	}

	p.restore(original)

	return "", false
}

// ReplaceSelection writes text to the clipboard and injects a paste
// command. On failure the text stays on the clipboard so the user can
// paste manually.
func (p *Protocol) ReplaceSelection(ctx context.Context, text string) bool {
	if err := p.device.Write(text); err != nil {
		p.logger.Error().Err(err).Msg("failed to write replacement to clipboard")

		return false
	}

	if err := p.injector.SendPaste(ctx); err != nil {
		p.logger.Warn().Err(err).Msg("paste injection failed, text remains on clipboard")

		return false
	}

	return true
}

// pollClipboard waits for the asynchronous clipboard update after an
// injected copy, up to the configured number of attempts. It returns the
// first non-empty content, or "" when none appeared.
func (p *Protocol) pollClipboard(ctx context.Context) string {
	for attempt := 0; attempt < p.pollAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ""
		case <-time.After(p.pollDelay):
		}

		text, err := p.device.Read()
		if err != nil {
			p.logger.Debug().Err(err).Int("attempt", attempt+1).Msg("clipboard poll read failed")

			continue
		}

		if text != "" {
			return text
		}
	}

	return ""
}

// restore puts the pre-capture clipboard content back. Failures are logged
// and swallowed: the protocol attempts restoration but cannot guarantee it.
func (p *Protocol) restore(original string) {
	if err := p.device.Write(original); err != nil {
		p.logger.Warn().Err(err).Msg("failed to restore original clipboard")
	}
}
