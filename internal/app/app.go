// Package app sequences the rephrase workflow: capture the selection,
// dispatch it to the model, paste the result back.
package app

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rephrase-app/rephrase/internal/notify"
)

// Capturer is the selection capture/replace protocol.
type Capturer interface {
	CaptureSelection(ctx context.Context) (string, bool)
	ReplaceSelection(ctx context.Context, text string) bool
}

// Rephraser dispatches one rephrase request.
type Rephraser interface {
	Rephrase(ctx context.Context, raw string) (string, error)
}

// Recorder persists one usage event per completed rephrase.
type Recorder interface {
	Record(at time.Time) error
}

const (
	notifyTitle    = "Rephrase"
	notifyTitleOK  = "Rephrase ✓"
	notifyTitleErr = "Rephrase ✗"

	excerptLen = 50
)

// App runs the workflow. At most one workflow is in flight at a time:
// triggers arriving while one runs are ignored.
type App struct {
	protocol  Capturer
	rephraser Rephraser
	notifier  notify.Notifier
	recorder  Recorder
	logger    *zerolog.Logger

	requestTimeout time.Duration
	inFlight       atomic.Bool
}

func New(protocol Capturer, rephraser Rephraser, notifier notify.Notifier, recorder Recorder, requestTimeout time.Duration, logger *zerolog.Logger) *App {
	return &App{
		protocol:       protocol,
		rephraser:      rephraser,
		notifier:       notifier,
		recorder:       recorder,
		logger:         logger,
		requestTimeout: requestTimeout,
	}
}

// RunOnce executes one capture → rephrase → paste-back workflow. Every
// outcome produces exactly one notification line; no error escapes.
func (a *App) RunOnce(ctx context.Context) {
	if !a.inFlight.CompareAndSwap(false, true) {
		a.logger.Debug().Msg("workflow already in flight, ignoring trigger")

		return
	}
	defer a.inFlight.Store(false)

	logger := a.logger.With().Str("workflow_id", uuid.NewString()).Logger()
	logger.Info().Msg("starting rephrase workflow")

	text, ok := a.protocol.CaptureSelection(ctx)
	if !ok {
		logger.Warn().Msg("no text selected")
		a.notifier.Notify(notifyTitle, "No text selected")

		return
	}

	logger.Info().Int("chars", len(text)).Str("excerpt", excerpt(text)).Msg("selection captured")

	reqCtx, cancel := context.WithTimeout(ctx, a.requestTimeout)
	defer cancel()

	rephrased, err := a.rephraser.Rephrase(reqCtx, text)
	if err != nil {
		logger.Error().Err(err).Msg("rephrase failed")
		a.notifier.Notify(notifyTitleErr, err.Error())

		return
	}

	logger.Info().Int("chars", len(rephrased)).Str("excerpt", excerpt(rephrased)).Msg("rephrased")

	if !a.protocol.ReplaceSelection(ctx, rephrased) {
		logger.Warn().Msg("paste failed, result left on clipboard")
		a.notifier.Notify(notifyTitle, "Couldn't paste. Text copied to clipboard.")

		return
	}

	if a.recorder != nil {
		if err = a.recorder.Record(time.Now()); err != nil {
			logger.Warn().Err(err).Msg("failed to record usage")
		}
	}

	logger.Info().Msg("text replaced")
	a.notifier.Notify(notifyTitleOK, "Text replaced!")
}

func excerpt(s string) string {
	if len(s) <= excerptLen {
		return s
	}

	return s[:excerptLen] + "..."
}
