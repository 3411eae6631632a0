// Package clipboard abstracts the OS pasteboard behind a small device
// interface so the selection protocol can be tested without touching it.
package clipboard

import "github.com/atotto/clipboard"

// Device reads and writes the system clipboard.
type Device interface {
	Read() (string, error)
	Write(text string) error
}

type pasteboard struct{}

// NewPasteboard returns the real system clipboard.
func NewPasteboard() Device {
	return pasteboard{}
}

func (pasteboard) Read() (string, error) {
	return clipboard.ReadAll()
}

func (pasteboard) Write(text string) error {
	return clipboard.WriteAll(text)
}
