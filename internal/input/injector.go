// Package input injects copy/paste commands into the frontmost application.
// On macOS the only universal mechanism is synthetic keystrokes and menu
// commands through System Events, driven by osascript subprocesses.
package input

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/rs/zerolog"
)

const (
	copyScript = `tell application "System Events" to keystroke "c" using command down`

	pasteScript = `tell application "System Events" to keystroke "v" using command down`

	// Edit > Copy through UI scripting, for applications that ignore the
	// synthetic keystroke.
	menuCopyScript = `tell application "System Events"
	tell (first process whose frontmost is true)
		click menu item "Copy" of menu "Edit" of menu bar 1
	end tell
end tell`
)

// Injector sends copy/paste commands to the focused application. Every call
// carries an enforced timeout so a non-responsive target cannot hang the
// workflow.
type Injector interface {
	SendCopy(ctx context.Context) error
	SendPaste(ctx context.Context) error
	SendMenuCopy(ctx context.Context) error
}

type osascriptInjector struct {
	timeout time.Duration
	logger  *zerolog.Logger
}

// NewOsascript builds an Injector that shells out to osascript with the
// given per-command timeout.
func NewOsascript(timeout time.Duration, logger *zerolog.Logger) Injector {
	return &osascriptInjector{timeout: timeout, logger: logger}
}

func (i *osascriptInjector) SendCopy(ctx context.Context) error {
	return i.run(ctx, "copy keystroke", copyScript)
}

func (i *osascriptInjector) SendPaste(ctx context.Context) error {
	return i.run(ctx, "paste keystroke", pasteScript)
}

func (i *osascriptInjector) SendMenuCopy(ctx context.Context) error {
	return i.run(ctx, "menu copy", menuCopyScript)
}

func (i *osascriptInjector) run(ctx context.Context, name, script string) error {
	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "osascript", "-e", script).CombinedOutput()
	if err != nil {
		i.logger.Debug().Err(err).Str("command", name).Bytes("output", out).Msg("injection command failed")

		return fmt.Errorf("%s failed: %w", name, err)
	}

	return nil
}
