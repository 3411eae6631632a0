// Package keychain stores the API key in the macOS Keychain through the
// security(1) command line tool.
package keychain

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const commandTimeout = 5 * time.Second

// Store reads and writes the API credential. APIKey returns an empty string
// when no credential is stored.
type Store interface {
	APIKey() (string, error)
	SetAPIKey(key string) error
	DeleteAPIKey() error
}

type securityStore struct {
	service string
	account string
}

// New returns a Store backed by the login keychain under the given service
// and account names.
func New(service, account string) Store {
	return &securityStore{service: service, account: account}
}

func (s *securityStore) APIKey() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "security", "find-generic-password",
		"-s", s.service, "-a", s.account, "-w").Output()
	if err != nil {
		// security exits non-zero when the item does not exist; absence is
		// not an error for the caller.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 44 {
			return "", nil
		}

		return "", fmt.Errorf("keychain lookup failed: %w", err)
	}

	return strings.TrimSpace(string(out)), nil
}

func (s *securityStore) SetAPIKey(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	// -U updates the item in place when it already exists.
	if err := exec.CommandContext(ctx, "security", "add-generic-password",
		"-s", s.service, "-a", s.account, "-w", key, "-U").Run(); err != nil {
		return fmt.Errorf("keychain store failed: %w", err)
	}

	return nil
}

func (s *securityStore) DeleteAPIKey() error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	err := exec.CommandContext(ctx, "security", "delete-generic-password",
		"-s", s.service, "-a", s.account).Run()
	if err != nil {
		// Deleting a missing item is fine.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 44 {
			return nil
		}

		return fmt.Errorf("keychain delete failed: %w", err)
	}

	return nil
}
