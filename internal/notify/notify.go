// Package notify posts macOS user notifications via osascript.
package notify

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const notifyTimeout = 5 * time.Second

// Notifier delivers one user-facing line per workflow outcome. Delivery
// failures are logged, never raised.
type Notifier interface {
	Notify(title, message string)
}

type osascriptNotifier struct {
	logger *zerolog.Logger
}

func New(logger *zerolog.Logger) Notifier {
	return &osascriptNotifier{logger: logger}
}

func (n *osascriptNotifier) Notify(title, message string) {
	n.logger.Debug().Str("title", title).Str("message", message).Msg("notification")

	script := fmt.Sprintf(`display notification "%s" with title "%s"`, escape(message), escape(title))

	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	if out, err := exec.CommandContext(ctx, "osascript", "-e", script).CombinedOutput(); err != nil {
		n.logger.Error().Err(err).Bytes("output", out).Msg("notification failed")
	}
}

func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)

	return strings.ReplaceAll(s, `"`, `\"`)
}
